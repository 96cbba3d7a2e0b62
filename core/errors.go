package core

import "github.com/pkg/errors"

// FieldError names one rejected request field and why it was rejected.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries per-field rejections for a request payload. The
// HTTP layer renders Fields as the response body; Err is optional context
// when the rejection did not come from the struct validator.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return "validation failed"
	}
	return err.Err.Error()
}

// shutdown marks a condition a handler cannot recover from; the server
// stops accepting traffic when its error handler sees one.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s *shutdown) Error() string { return s.message }

// IsShutdown reports whether err, at its cause, is a shutdown error.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
