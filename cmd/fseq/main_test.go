package main

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup isolates HOME so the default config and journal live in a temp dir,
// and returns a migrations directory with a two-file chain.
func setup(t *testing.T) (home, dir string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	globals.configPath = ""
	globals.verbose = false

	dir = filepath.Join(home, "migrations")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "init.py"), []byte("revision_id = 'a'\nrevises_id = None\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.py"), []byte("revision_id = 'b'\nrevises_id = 'a'\n"), 0o644))
	return home, dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRootRenames(t *testing.T) {
	_, dir := setup(t)

	out, err := execute(t, "--no-journal", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Done.")
	assert.Equal(t, []string{"001_init.py", "002_users.py"}, dirNames(t, dir))

	// second run is a no-op
	out, err = execute(t, "--no-journal", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "renamed=0 unchanged=2")
	assert.Equal(t, []string{"001_init.py", "002_users.py"}, dirNames(t, dir))
}

func TestRootDefaultDir(t *testing.T) {
	home, dir := setup(t)
	t.Chdir(home)

	_, err := execute(t, "--no-journal")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.py", "002_users.py"}, dirNames(t, dir))
}

func TestRootDryRun(t *testing.T) {
	_, dir := setup(t)

	out, err := execute(t, "--no-journal", "--dry-run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run.")
	assert.Equal(t, []string{"init.py", "users.py"}, dirNames(t, dir))
}

func TestRootStrict(t *testing.T) {
	_, dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orphan.py"), []byte("revision_id = 'c'\nrevises_id = 'zz'\n"), 0o644))

	_, err := execute(t, "--no-journal", dir)
	require.NoError(t, err, "anomalies alone do not fail a run")

	_, err = execute(t, "--no-journal", "--strict", dir)
	assert.ErrorIs(t, err, errUnclean)
}

func TestRootMissingDir(t *testing.T) {
	home, _ := setup(t)

	_, err := execute(t, "--no-journal", filepath.Join(home, "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRootConfigFlag(t *testing.T) {
	home, dir := setup(t)
	cfgPath := filepath.Join(home, "fseq.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("separator = \"-\"\nmin_width = 2\njournal = false\n"), 0o644))

	_, err := execute(t, "--config", cfgPath, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"01-init.py", "02-users.py"}, dirNames(t, dir))
}

func TestPlanNoTUI(t *testing.T) {
	_, dir := setup(t)

	out, err := execute(t, "plan", "--no-tui", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Chain 1: init.py (2 files)")
	assert.Contains(t, out, "will rename")
	assert.Equal(t, []string{"init.py", "users.py"}, dirNames(t, dir))
}

func TestHistory(t *testing.T) {
	_, dir := setup(t)

	_, err := execute(t, dir)
	require.NoError(t, err)

	out, err := execute(t, "history", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "renamed=2")

	out, err = execute(t, "history", "--run", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Run #1")
	assert.Contains(t, out, "001_init.py")

	out, err = execute(t, "history", "--file", "users")
	require.NoError(t, err)
	assert.Contains(t, out, "users.py -> 002_users.py  renamed")

	_, err = execute(t, "history", "--run", "42")
	assert.ErrorContains(t, err, "run not found")
}

func TestOpenUnknownRevision(t *testing.T) {
	_, dir := setup(t)

	_, err := execute(t, "open", "zz", dir)
	assert.ErrorContains(t, err, "revision not found")
}
