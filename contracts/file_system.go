package contracts

import (
	"io"
)

type FileCreator interface {
	Create(path string) (io.WriteCloser, error)
}

type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

type Environment interface {
	LookupEnv(key string) (value string, set bool)
}
