package envfile

import (
	"errors"
	"fmt"
	"strings"
)

// Parse causes. A *ParseError unwraps to exactly one of these.
var (
	ErrUnexpectedEquals         = errors.New("an unexpected equals")
	ErrInvalidName              = errors.New("an invalid name")
	ErrUnexpectedEscapeSequence = errors.New("an unexpected escape sequence")
	ErrUnexpectedWhitespace     = errors.New("unexpected whitespace")
	ErrMissingClosingQuote      = errors.New("a missing closing quote")
)

// ParseError reports a malformed entry together with the text that caused it.
type ParseError struct {
	Cause   error
	Subject string
}

func newParseError(cause error, subject string) *ParseError {
	return &ParseError{Cause: cause, Subject: firstLine(subject)}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Encountered %s at [%s].", e.Cause, e.Subject)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n")
	line, _, _ := strings.Cut(s, "\n")
	return line
}
