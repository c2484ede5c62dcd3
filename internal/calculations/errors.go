package calculations

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed or out-of-domain input: negative amounts where
	// a positive one is required, a zero term, a non-increasing bracket table or an
	// unrecognized enumerated value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUndefinedResult marks a mathematically undefined outcome, such as a
	// percentage return on zero invested principal.
	ErrUndefinedResult = errors.New("undefined result")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func undefinedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUndefinedResult, fmt.Sprintf(format, args...))
}
