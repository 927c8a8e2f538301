package shell

import (
	"io"
	"os"
	"path/filepath"
)

type DiskFileSystem struct{ root string }

// NewDiskFileSystem resolves relative paths against root. An empty root
// leaves them relative to the working directory.
func NewDiskFileSystem(root string) *DiskFileSystem {
	if root != "" {
		root = filepath.Clean(root)
	}
	return &DiskFileSystem{root: root}
}

func (this *DiskFileSystem) RootPath() string {
	return this.root
}

// Create truncates or creates the file at path, creating missing parent
// directories first.
func (this *DiskFileSystem) Create(path string) (io.WriteCloser, error) {
	path = this.resolve(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func (this *DiskFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(this.resolve(path))
}

func (this *DiskFileSystem) resolve(path string) string {
	if this.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(this.root, path)
}
