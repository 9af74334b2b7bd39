package internal

import (
	"errors"
	"fmt"
)

var (
	ErrNoDocuments       = errors.New("no input documents found")
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// SourceReadError reports a document whose text could not be obtained.
// The document contributes no records; the rest of the batch continues.
type SourceReadError struct {
	Path  string
	Cause error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Cause)
}

func (e *SourceReadError) Unwrap() error {
	return e.Cause
}

// ExportTargetError reports an export destination that could not be written.
type ExportTargetError struct {
	Path  string
	Cause error
}

func (e *ExportTargetError) Error() string {
	return fmt.Sprintf("export to %s: %v", e.Path, e.Cause)
}

func (e *ExportTargetError) Unwrap() error {
	return e.Cause
}
