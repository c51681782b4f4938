package manifest

import (
	"errors"
	"fmt"
)

// ErrNoInput indicates that no file could be turned into a manifest entry.
var ErrNoInput = errors.New("no valid files to process")

// ReadError records a file that was skipped because it could not be read or decoded.
type ReadError struct {
	Path string
	Err  error
}

func (readError *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", readError.Path, readError.Err)
}

func (readError *ReadError) Unwrap() error {
	return readError.Err
}

// WriteError reports a destination that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (writeError *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", writeError.Path, writeError.Err)
}

func (writeError *WriteError) Unwrap() error {
	return writeError.Err
}
