package identity

import (
	"errors"

	"github.com/dmitrijs2005/easyadmin/internal/common"
)

// Client-facing messages.
const (
	MsgMissingHost       = "Host header must be provided for token generation"
	MsgUnsupportedMethod = "Unsupported authentication method"
	MsgMissingFields     = "Missing fields"
	MsgMissingClientID   = "Missing clientId"
	MsgInvalidNonce      = "Invalid nonce"
	MsgInvalidPassword   = "Invalid password"
	MsgInvalidOTP        = "Invalid OTP code"
)

// Error is a rejected request. Kind is one of the common.Err* login kinds and
// is matched with errors.Is; Message is safe to return to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func reject(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func modeDisabled(method string) *Error {
	var name string
	switch method {
	case MethodPassword:
		name = "Password"
	case MethodOTP:
		name = "OTP"
	case MethodOpen:
		name = "Open"
	}
	return reject(common.ErrModeDisabled, name+" authentication not supported")
}

// AsError extracts the client-facing rejection from err. ok is false for
// internal failures.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
