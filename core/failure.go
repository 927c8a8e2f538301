package core

import (
	"errors"
	"fmt"
)

// Failure is the terminal outcome of an unsuccessful installation. Message is
// a stable, display-ready string; Kind classifies the failure for errors.Is.
type Failure struct {
	Kind    error
	Message string
	Cause   error
}

func newFailure(kind error, cause error, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (this *Failure) Error() string {
	if this.Cause == nil {
		return this.Message
	}
	return fmt.Sprintf("%s (%s)", this.Message, this.Cause)
}

func (this *Failure) Unwrap() error { return this.Cause }

func (this *Failure) Is(target error) bool { return target == this.Kind }

var (
	ErrTransport    = errors.New("transport failure")
	ErrLocalStorage = errors.New("local storage failure")
	ErrExtraction   = errors.New("extraction failure")
	ErrUnexpected   = errors.New("unexpected failure")
)

const (
	transportErrorTemplate  = "Error accessing %s"
	statusErrorTemplate     = "Got error %d accessing %s"
	readErrorTemplate       = "Error downloading %s"
	createErrorTemplate     = "Error creating file: %s"
	writeErrorTemplate      = "Error writing file: %s"
	extractionErrorMessage  = "Error unzipping file"
	unexpectedErrorTemplate = "Unexpected error installing %s"
)
