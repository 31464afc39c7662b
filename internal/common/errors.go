// Package common defines shared constants, helpers and sentinel errors used
// across the server and client layers of EasyAdmin. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Login failure kinds. All of them are reported to the client and none of
	// them is retried by the server: the client restarts the flow.
	ErrMissingField      = errors.New("missing field")
	ErrUnsupportedMethod = errors.New("unsupported authentication method")
	ErrModeDisabled      = errors.New("authentication mode disabled")
	ErrInvalidNonce      = errors.New("invalid nonce")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrMissingHost       = errors.New("missing host")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
	ErrBackend    = errors.New("backend unavailable")

	// Token errors (bearer gate).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
