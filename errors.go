package toon

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat   = errors.New("toon: invalid format")
	ErrDeserialization = errors.New("toon: deserialization error")
	ErrSerialization   = errors.New("toon: serialization error")
	ErrUnsupportedType = errors.New("toon: unsupported type")
	ErrIO              = errors.New("toon: io error")
)

// SyntaxError describes a grammar violation found by the decoder.
// Line and Column are 1-based and point at the offending character.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidFormat, e.Msg)
	}
	return fmt.Sprintf("%v: %s at line %d, column %d", ErrInvalidFormat, e.Msg, e.Line, e.Column)
}

func (e *SyntaxError) Unwrap() error {
	return ErrInvalidFormat
}
