package contracts

import (
	"io"
)

type ArchiveExtractor interface {
	Open(path string) (ArchiveHandle, error)
}

// ArchiveHandle is an opened archive. Callers must Close it whether or not
// ExtractAll succeeds.
type ArchiveHandle interface {
	io.Closer
	ExtractAll(directory string) error
}
