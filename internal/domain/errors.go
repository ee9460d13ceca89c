package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeConfigResolution ErrorCode = "config_resolution"
	ErrorCodeAuth             ErrorCode = "auth"
	ErrorCodeDecode           ErrorCode = "decode"
	ErrorCodeIO               ErrorCode = "io"
	ErrorCodeOcr              ErrorCode = "ocr"
	ErrorCodeStorage          ErrorCode = "storage"
)

// Error is the coded error surfaced at the API boundary. Handlers map the
// code to an HTTP status; everything else propagates as a wrapped cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "unknown error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: ErrorCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Code: ErrorCodeBadRequest, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the error code from an error chain. Unrecognized errors
// report as storage failures, the 500 bucket.
func CodeOf(err error) ErrorCode {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrorCodeStorage
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
