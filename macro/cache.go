package macro

import (
	"os"
	"path/filepath"
)

// ReadFunc loads the full contents of a file.
type ReadFunc func(path string) ([]byte, error)

// FileCache memoizes file contents by absolute path for one compilation run.
// A path is read from storage at most once; every caller gets the same
// immutable string. Failed reads are not cached. Entries are never evicted.
type FileCache struct {
	read    ReadFunc
	entries map[string]string
	reads   int
}

// NewFileCache creates a cache backed by read. A nil read uses os.ReadFile.
func NewFileCache(read ReadFunc) *FileCache {
	if read == nil {
		read = os.ReadFile
	}
	return &FileCache{
		read:    read,
		entries: make(map[string]string),
	}
}

// Canonical returns the cache key for path: absolute, cleaned and with
// symlinks resolved. A path that does not resolve, usually because the file
// does not exist yet, keeps its absolute form.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// Read returns the contents of path, touching storage only on the first call.
func (fc *FileCache) Read(path string) (string, error) {
	key, err := Canonical(path)
	if err != nil {
		return "", err
	}
	if content, ok := fc.entries[key]; ok {
		return content, nil
	}
	fc.reads++
	data, err := fc.read(key)
	if err != nil {
		return "", err
	}
	content := string(data)
	fc.entries[key] = content
	return content, nil
}

// Contains reports whether path has already been read successfully.
func (fc *FileCache) Contains(path string) bool {
	key, err := Canonical(path)
	if err != nil {
		return false
	}
	_, ok := fc.entries[key]
	return ok
}

// Reads returns how many times storage was accessed.
func (fc *FileCache) Reads() int { return fc.reads }

// Len returns the number of cached files.
func (fc *FileCache) Len() int { return len(fc.entries) }
