package writemode

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedAlias is wrapped by every ParseError.
	ErrUnrecognizedAlias = errors.New("unrecognized write mode alias")

	// ErrModeUnavailable is returned by Open for modes not compiled into
	// this build.
	ErrModeUnavailable = errors.New("write mode not available in this build")
)

// ParseError records a token that matched no alias.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("writemode: unrecognized alias %q (want one of %v)", e.Text, Modes())
}

func (e *ParseError) Unwrap() error {
	return ErrUnrecognizedAlias
}
