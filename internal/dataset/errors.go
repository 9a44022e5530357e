package dataset

import (
	"errors"
	"fmt"
)

// ErrParse matches every ParseError via errors.Is.
var ErrParse = errors.New("parse failure")

// ParseError reports malformed input. Line is 1-based; 0 means unknown.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
