package script

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTitle is returned when the first significant line is not a
	// `new "<title>"` header.
	ErrMissingTitle = errors.New("script: missing title header")
)

// ParseError is a fatal, line-scoped parse failure.
type ParseError struct {
	LineNo int
	Err    error
}

func (e *ParseError) Error() string {
	if e.LineNo == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("line %d: %v", e.LineNo, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
