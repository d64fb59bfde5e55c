package document

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel wrapped by every ParseError.
var ErrParse = errors.New("malformed document")

// ParseError reports input that could not be turned into a Node tree.
type ParseError struct {
	// Doc is the zero-based index of the document within the stream.
	Doc int
	// Line and Column locate the offending node when known.
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	loc := fmt.Sprintf("document %d", e.Doc)
	if e.Line > 0 {
		loc = fmt.Sprintf("%s, line %d", loc, e.Line)
	}

	return fmt.Sprintf("%s (%s): %v", ErrParse, loc, e.Err)
}

// Is reports ErrParse so callers can test with errors.Is.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }
