package clean

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyDataset indicates a file with a header row but no data rows.
	ErrEmptyDataset = errors.New("dataset has columns but no rows")
	// ErrUnreadableFile matches every UnreadableFileError.
	ErrUnreadableFile = errors.New("unreadable file")
	// ErrWrongExtension matches every WrongExtensionError.
	ErrWrongExtension = errors.New("wrong file extension")
	// ErrHeaderCollision matches every HeaderCollisionError.
	ErrHeaderCollision = errors.New("header collision")
)

// UnreadableFileError indicates the input could not be opened or read.
type UnreadableFileError struct {
	Path string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() error { return e.Err }

func (e *UnreadableFileError) Is(target error) bool { return target == ErrUnreadableFile }

// WrongExtensionError indicates a non-.csv input while the extension is enforced.
type WrongExtensionError struct {
	Path string
	Ext  string
}

func (e *WrongExtensionError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("%s: extension %s is not .csv", e.Path, ext)
}

func (e *WrongExtensionError) Is(target error) bool { return target == ErrWrongExtension }

// HeaderCollisionError indicates distinct headers that normalize to the same name.
type HeaderCollisionError struct {
	Name      string
	Originals []string
}

func (e *HeaderCollisionError) Error() string {
	quoted := make([]string, len(e.Originals))
	for i, o := range e.Originals {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	return fmt.Sprintf("headers %s all normalize to %q", strings.Join(quoted, " and "), e.Name)
}

func (e *HeaderCollisionError) Is(target error) bool { return target == ErrHeaderCollision }
