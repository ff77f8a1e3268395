package ioutils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TempPath reserves a temporary file and returns its path.
//
// The file is created empty so external tools can write into it. The
// caller must call the returned cleanup function, which removes the file
// regardless of what the tool did with it.
//
// Example:
//
//	path, cleanup, err := TempPath("mp3norm-cover-", ".jpg")
//	defer cleanup()
func TempPath(prefix, suffix string) (string, func(), error) {
	f, err := os.CreateTemp("", prefix+"*"+suffix)
	if err != nil {
		return "", func() {}, err
	}
	name := f.Name()
	f.Close()

	return name, func() { os.Remove(name) }, nil
}

// ReadNonEmpty returns the contents of path, or nil if the file is
// missing or empty.
func ReadNonEmpty(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// ListFiles returns the regular files directly inside dir whose name ends
// with ext, sorted by name. Subdirectories are not descended into.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !HasExt(entry.Name(), ext) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !IsRegular(path) {
			continue
		}
		files = append(files, path)
	}

	// os.ReadDir already sorts, but keep the contract explicit.
	sort.Strings(files)
	return files, nil
}

// HasExt reports whether name ends with ext.
func HasExt(name, ext string) bool {
	return strings.HasSuffix(name, ext)
}

// IsRegular reports whether path is an existing regular file, following
// symlinks.
func IsRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
