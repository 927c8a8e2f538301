package shell

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// InMemoryFileSystem stands in for the disk in tests. Failures can be
// scheduled per path for Create and for writes to a created file.
type InMemoryFileSystem struct {
	mutex        sync.Mutex
	fileSystem   map[string]*file
	createErrors map[string]error
	writeErrors  map[string]error
	closeErrors  map[string]error
}

func NewInMemoryFileSystem() *InMemoryFileSystem {
	return &InMemoryFileSystem{
		fileSystem:   make(map[string]*file),
		createErrors: make(map[string]error),
		writeErrors:  make(map[string]error),
		closeErrors:  make(map[string]error),
	}
}

func (this *InMemoryFileSystem) FailCreate(path string, err error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.createErrors[path] = err
}

func (this *InMemoryFileSystem) FailWrite(path string, err error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.writeErrors[path] = err
}

func (this *InMemoryFileSystem) FailClose(path string, err error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.closeErrors[path] = err
}

func (this *InMemoryFileSystem) Create(path string) (io.WriteCloser, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if err := this.createErrors[path]; err != nil {
		return nil, err
	}
	created := &file{
		path:       path,
		writeError: this.writeErrors[path],
		closeError: this.closeErrors[path],
	}
	this.fileSystem[path] = created
	return created, nil
}

func (this *InMemoryFileSystem) ReadFile(path string) ([]byte, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	target, found := this.fileSystem[path]
	if !found {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return append([]byte(nil), target.contents...), nil
}

func (this *InMemoryFileSystem) WriteFile(path string, content []byte) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.fileSystem[path] = &file{path: path, contents: content}
}

// Closed reports whether the file at path was created and then closed.
func (this *InMemoryFileSystem) Closed(path string) bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	target, found := this.fileSystem[path]
	return found && target.closed
}

// Writes returns the individual chunks written to path, in order.
func (this *InMemoryFileSystem) Writes(path string) [][]byte {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	if target, found := this.fileSystem[path]; found {
		return target.writes
	}
	return nil
}

func (this *InMemoryFileSystem) Listing() (paths []string) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	for path := range this.fileSystem {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

/////////////////////////////////////////////////

type file struct {
	path       string
	contents   []byte
	writes     [][]byte
	closed     bool
	writeError error
	closeError error
}

func (this *file) Write(p []byte) (n int, err error) {
	if this.closed {
		return 0, os.ErrClosed
	}
	if this.writeError != nil {
		return 0, this.writeError
	}
	this.contents = append(this.contents, p...)
	this.writes = append(this.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (this *file) Close() error {
	this.closed = true
	return this.closeError
}
