package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures a handler reports to the user
type ErrorKind string

const (
	KindPermissionDenied   ErrorKind = "PermissionDenied"
	KindPreconditionFailed ErrorKind = "PreconditionFailed"
	KindValidationError    ErrorKind = "ValidationError"
	KindCompressionError   ErrorKind = "CompressionError"
	KindNetworkError       ErrorKind = "NetworkError"
	KindMalformedResponse  ErrorKind = "MalformedResponse"
	KindIndexOutOfRange    ErrorKind = "IndexOutOfRange"
	KindExportError        ErrorKind = "ExportError"
)

// IntakeError carries the alert shown for a failed handler
type IntakeError struct {
	Kind    ErrorKind
	Title   string
	Message string
	Err     error
}

func (e *IntakeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *IntakeError) Unwrap() error {
	return e.Err
}

func newIntakeError(kind ErrorKind, title, message string, err error) *IntakeError {
	return &IntakeError{Kind: kind, Title: title, Message: message, Err: err}
}

// KindOf returns the kind of an IntakeError anywhere in err's chain, or ""
func KindOf(err error) ErrorKind {
	var intakeErr *IntakeError
	if errors.As(err, &intakeErr) {
		return intakeErr.Kind
	}
	return ""
}
