// Package nonces keeps the single live login nonce of every client.
//
// A nonce is issued on request, replaced by the next issuance for the same
// client and consumed by the first login attempt that presents it. Nonces do
// not expire on their own.
package nonces

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/easyadmin/internal/common"
)

// Length is the number of alphanumeric characters in an issued nonce.
const Length = 26

// Registry is implemented by the in-memory and Redis backends.
type Registry interface {
	// Issue stores a fresh nonce for clientID, replacing any previous one.
	Issue(ctx context.Context, clientID string) (string, error)
	// Current returns the live nonce for clientID, if any.
	Current(ctx context.Context, clientID string) (string, bool, error)
	// Consume deletes the live nonce if it equals nonce. It reports false on
	// mismatch or when no nonce exists.
	Consume(ctx context.Context, clientID, nonce string) (bool, error)
}

func newNonce(clientID string) (string, error) {
	if clientID == "" {
		return "", fmt.Errorf("client id: %w", common.ErrMissingField)
	}
	return common.MakeRandAlphanumeric(Length)
}
