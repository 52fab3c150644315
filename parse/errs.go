package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse    = errors.New("parse error")
	ErrDepth    = fmt.Errorf("%w: nesting too deep", ErrParse)
	ErrTrailing = fmt.Errorf("%w: trailing data after value", ErrParse)
)

// SyntaxError reports the input offset at which parsing failed.
type SyntaxError struct {
	Offset int64
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrParse
}
