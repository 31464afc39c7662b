// Package cryptox implements the password proof used by the password login
// strategy.
//
// The server keeps each account's plaintext secret. To log in, a client asks
// for a nonce, derives scrypt(NFKC(secret+nonce), salt) and sends the proof
// "salt_hex:derived_hex". Because the nonce is part of the KDF input, a
// captured proof is useless once the server has rotated the nonce.
package cryptox

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/easyadmin/internal/common"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"
)

const (
	scryptN    = 1024
	scryptR    = 8
	scryptP    = 1
	keyLength  = 32
	saltLength = 16

	proofSeparator = ":"
)

// DeriveKey returns scrypt(NFKC(secret+nonce), salt) with N=1024, r=8, p=1
// and a 32-byte output.
func DeriveKey(secret, nonce string, salt []byte) ([]byte, error) {
	candidate := norm.NFKC.String(secret + nonce)
	return scrypt.Key([]byte(candidate), salt, scryptN, scryptR, scryptP, keyLength)
}

// HashPassword builds a proof for secret and nonce with a fresh random salt.
func HashPassword(secret, nonce string) (string, error) {
	salt, err := common.GenerateRandByteArray(saltLength)
	if err != nil {
		return "", err
	}
	key, err := DeriveKey(secret, nonce, salt)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(salt) + proofSeparator + hex.EncodeToString(key), nil
}

type deriveResult struct {
	key []byte
	err error
}

// VerifyPassword reports whether proof was derived from secret and nonce.
//
// A malformed proof (no separator, bad hex) is a plain mismatch. An error is
// returned only when the KDF itself fails or ctx ends before it finishes;
// callers must not treat that as a wrong password.
//
// The KDF runs on its own goroutine so a cancelled request stops waiting
// for it.
func VerifyPassword(ctx context.Context, proof, secret, nonce string) (bool, error) {
	saltHex, keyHex, ok := strings.Cut(proof, proofSeparator)
	if !ok {
		return false, nil
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, nil
	}
	expected, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, nil
	}

	ch := make(chan deriveResult, 1)
	go func() {
		key, err := DeriveKey(secret, nonce, salt)
		ch <- deriveResult{key: key, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return false, fmt.Errorf("derive key: %w", r.err)
		}
		return subtle.ConstantTimeCompare(r.key, expected) == 1, nil
	}
}
