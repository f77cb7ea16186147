// Package localfs serves directory listings and files from the local disk.
package localfs

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"syscall"
)

// FS resolves relative paths against a root directory.
// Absolute paths are used as they are.
type FS struct {
	root string
}

// New returns a FS rooted at `root`. An empty root means the working directory.
func New(root string) *FS {
	if root == "" {
		root = "."
	}

	return &FS{root: root}
}

// Root returns the directory relative paths are resolved against.
func (fs *FS) Root() string {
	return fs.root
}

func (fs *FS) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(fs.root, path)
}

// List returns ".", ".." and the names in the directory `path`, sorted bytewise.
func (fs *FS) List(path string) ([]string, error) {
	fd, err := os.Open(fs.resolve(path))
	if err != nil {
		return nil, err
	}

	defer fd.Close()

	names, err := fd.Readdirnames(-1)
	if err != nil {
		return nil, err
	}

	names = append(names, ".", "..")
	sort.Strings(names)
	return names, nil
}

func (fs *FS) statFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(fs.resolve(path))
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: path, Err: syscall.EISDIR}
	}

	return info, nil
}

// Size returns the size of the file at `path`. Directories are an error.
func (fs *FS) Size(path string) (int64, error) {
	info, err := fs.statFile(path)
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// Open opens the file at `path` for reading.
func (fs *FS) Open(path string) (io.ReadCloser, error) {
	if _, err := fs.statFile(path); err != nil {
		return nil, err
	}

	return os.Open(fs.resolve(path))
}

// Create opens `path` for writing, truncating it if it exists.
func (fs *FS) Create(path string) (io.WriteCloser, error) {
	return os.OpenFile(fs.resolve(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

// Remove deletes the file at `path`.
func (fs *FS) Remove(path string) error {
	return os.Remove(fs.resolve(path))
}
