package myq

import (
	"errors"
	"fmt"
)

// Code identifies the outcome of an operation. Successful results carry
// CodeOK; every *Error carries exactly one of the ERR_MYQ_* codes.
type Code string

// Result and error codes.
const (
	CodeOK                             Code = "OK"
	CodeInvalidArgument                Code = "ERR_MYQ_INVALID_ARGUMENT"
	CodeLoginRequired                  Code = "ERR_MYQ_LOGIN_REQUIRED"
	CodeAuthenticationFailed           Code = "ERR_MYQ_AUTHENTICATION_FAILED"
	CodeAuthenticationFailedOneTryLeft Code = "ERR_MYQ_AUTHENTICATION_FAILED_ONE_TRY_LEFT"
	CodeAuthenticationFailedLockedOut  Code = "ERR_MYQ_AUTHENTICATION_FAILED_LOCKED_OUT"
	CodeDeviceNotFound                 Code = "ERR_MYQ_DEVICE_NOT_FOUND"
	CodeDeviceStateNotFound            Code = "ERR_MYQ_DEVICE_STATE_NOT_FOUND"
	CodeInvalidDevice                  Code = "ERR_MYQ_INVALID_DEVICE"
	CodeServiceRequestFailed           Code = "ERR_MYQ_SERVICE_REQUEST_FAILED"
	CodeServiceUnreachable             Code = "ERR_MYQ_SERVICE_UNREACHABLE"
	CodeInvalidServiceResponse         Code = "ERR_MYQ_INVALID_SERVICE_RESPONSE"
)

// Sentinel errors, one per code. Use errors.Is to test an error's kind:
//
//	if errors.Is(err, myq.ErrLoginRequired) {
//	    // log in again
//	}
//
// Any *Error matches the sentinel with the same Code regardless of message.
var (
	// Caller errors
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrLoginRequired   = &Error{Code: CodeLoginRequired, Message: "login required"}

	// Authentication errors
	ErrAuthenticationFailed           = &Error{Code: CodeAuthenticationFailed, Message: "authentication failed"}
	ErrAuthenticationFailedOneTryLeft = &Error{Code: CodeAuthenticationFailedOneTryLeft, Message: "authentication failed, one try left"}
	ErrAuthenticationFailedLockedOut  = &Error{Code: CodeAuthenticationFailedLockedOut, Message: "authentication failed, locked out"}

	// Device errors
	ErrDeviceNotFound      = &Error{Code: CodeDeviceNotFound, Message: "device not found"}
	ErrDeviceStateNotFound = &Error{Code: CodeDeviceStateNotFound, Message: "device state not found"}
	ErrInvalidDevice       = &Error{Code: CodeInvalidDevice, Message: "invalid device"}

	// Service errors
	ErrServiceRequestFailed   = &Error{Code: CodeServiceRequestFailed, Message: "service request failed"}
	ErrServiceUnreachable     = &Error{Code: CodeServiceUnreachable, Message: "service unreachable"}
	ErrInvalidServiceResponse = &Error{Code: CodeInvalidServiceResponse, Message: "invalid service response"}
)

// Error is the single error type returned by Client operations.
type Error struct {
	// Code is the error kind.
	Code Code
	// Message is a human-readable description.
	Message string
	// Response is the raw service response, when one was received.
	Response *ServiceResponse
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("myq: %s (%s): %v", e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("myq: %s (%s)", e.Message, e.Code)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the Code carried by err, CodeOK for a nil error, or the
// empty Code if err is not an *Error.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsLoginRequired returns true if the session token is missing or expired.
func IsLoginRequired(err error) bool {
	return errors.Is(err, ErrLoginRequired)
}

// IsAuthenticationFailed returns true for any rejected-credentials error,
// including the one-try-left and locked-out variants.
func IsAuthenticationFailed(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed) ||
		errors.Is(err, ErrAuthenticationFailedOneTryLeft) ||
		errors.Is(err, ErrAuthenticationFailedLockedOut)
}

// IsDeviceNotFound returns true if the requested device does not exist on the account.
func IsDeviceNotFound(err error) bool {
	return errors.Is(err, ErrDeviceNotFound)
}

// IsInvalidDevice returns true if the device does not support the requested capability.
func IsInvalidDevice(err error) bool {
	return errors.Is(err, ErrInvalidDevice)
}

// IsInvalidArgument returns true if the caller supplied a bad argument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsTimeout returns true if the error was caused by a transport timeout.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
