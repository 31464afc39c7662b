package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// RejectedError is a request the server refused. Unauthorized is set for
// credential and token failures, and Unwrap then yields ErrUnauthorized.
type RejectedError struct {
	Message      string
	Unauthorized bool
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected: %s", e.Message)
}

func (e *RejectedError) Unwrap() error {
	if e.Unauthorized {
		return ErrUnauthorized
	}
	return nil
}
