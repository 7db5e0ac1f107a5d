package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotDirectory = errors.New("not a directory")

type FileInfo struct {
	Path  string
	Name  string
	Mtime int64
	Size  int64
}

// ScanDir lists the regular files directly inside dir whose extension is in
// exts, sorted by name. Hidden files are skipped. An empty exts matches all.
func ScanDir(dir string, exts []string) ([]FileInfo, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []FileInfo
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !e.Type().IsRegular() {
			continue
		}
		if !matchExt(name, exts) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue // removed since ReadDir
		}
		files = append(files, FileInfo{
			Path:  filepath.Join(dir, name),
			Name:  name,
			Mtime: fi.ModTime().Unix(),
			Size:  fi.Size(),
		})
	}
	return files, nil
}

func matchExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
