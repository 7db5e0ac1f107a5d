package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.py"))
	touch(t, filepath.Join(dir, "a.py"))
	touch(t, filepath.Join(dir, "C.PY"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, ".hidden.py"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.py"), 0o755))
	touch(t, filepath.Join(dir, "sub.py", "nested.py"))

	files, err := ScanDir(dir, []string{".py"})
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
		assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
		assert.EqualValues(t, 1, f.Size)
	}
	assert.Equal(t, []string{"C.PY", "a.py", "b.py"}, names)
}

func TestScanDirAllExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.py"))
	touch(t, filepath.Join(dir, "b.sql"))

	files, err := ScanDir(dir, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestScanDirErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ScanDir(filepath.Join(dir, "missing"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(dir, "file.py")
	touch(t, file)
	_, err = ScanDir(file, nil)
	assert.ErrorIs(t, err, ErrNotDirectory)

	files, err := ScanDir(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}
