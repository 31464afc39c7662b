package nonces

import (
	"context"
	"crypto/subtle"
	"sync"
)

// MemoryRegistry is a process-local Registry.
type MemoryRegistry struct {
	mu     sync.Mutex
	nonces map[string]string
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{nonces: make(map[string]string)}
}

func (r *MemoryRegistry) Issue(_ context.Context, clientID string) (string, error) {
	nonce, err := newNonce(clientID)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.nonces[clientID] = nonce
	r.mu.Unlock()

	return nonce, nil
}

func (r *MemoryRegistry) Current(_ context.Context, clientID string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	nonce, ok := r.nonces[clientID]
	return nonce, ok, nil
}

func (r *MemoryRegistry) Consume(_ context.Context, clientID, nonce string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.nonces[clientID]
	if !ok || subtle.ConstantTimeCompare([]byte(current), []byte(nonce)) != 1 {
		return false, nil
	}
	delete(r.nonces, clientID)
	return true, nil
}
