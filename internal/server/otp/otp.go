// Package otp holds the process-wide rotating one-time code.
package otp

import (
	"crypto/rand"
	"errors"
	"math/big"
	mrand "math/rand/v2"
	"strconv"
	"sync"
)

// Generator produces a new code in [0, max].
type Generator interface {
	Next() (int64, error)
}

// MathGenerator draws codes from math/rand. It is predictable and only
// suitable for demos.
type MathGenerator struct {
	Max int64
}

func (g MathGenerator) Next() (int64, error) {
	if g.Max <= 0 {
		return 0, errors.New("otp: max must be positive")
	}
	if g.Max == 1<<63-1 {
		return mrand.Int64(), nil
	}
	return mrand.Int64N(g.Max + 1), nil
}

// CryptoGenerator draws codes from crypto/rand.
type CryptoGenerator struct {
	Max int64
}

func (g CryptoGenerator) Next() (int64, error) {
	if g.Max <= 0 {
		return 0, errors.New("otp: max must be positive")
	}
	limit := new(big.Int).Add(big.NewInt(g.Max), big.NewInt(1))
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

// NewGenerator picks the crypto generator when secure is set.
func NewGenerator(max int64, secure bool) Generator {
	if secure {
		return CryptoGenerator{Max: max}
	}
	return MathGenerator{Max: max}
}

// State is the single active code. There is never more than one valid code
// and rotation discards the previous one immediately.
type State struct {
	mu      sync.Mutex
	gen     Generator
	current int64
}

func NewState(gen Generator) *State {
	return &State{gen: gen}
}

// Regenerate replaces the current code and returns the new one.
func (s *State) Regenerate() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regenerateLocked()
}

func (s *State) regenerateLocked() (int64, error) {
	n, err := s.gen.Next()
	if err != nil {
		return 0, err
	}
	s.current = n
	return n, nil
}

func (s *State) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Consume compares code with the decimal form of the current value and, on a
// match, rotates before returning. A mismatch leaves the code untouched.
func (s *State) Consume(code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code != strconv.FormatInt(s.current, 10) {
		return false, nil
	}
	if _, err := s.regenerateLocked(); err != nil {
		return false, err
	}
	return true, nil
}
