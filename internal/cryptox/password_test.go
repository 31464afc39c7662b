package cryptox

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedSalt, _ = hex.DecodeString("00112233445566778899aabbccddeeff")

func TestDeriveKey_KnownAnswer(t *testing.T) {
	t.Parallel()

	key, err := DeriveKey("secret", "abc123", fixedSalt)
	require.NoError(t, err)
	assert.Equal(t, "1c408ff83d7ab573278b63a6b1ead875b618e6ab53b940ce9cdc956889156a25", hex.EncodeToString(key))
}

func TestDeriveKey_NFKC(t *testing.T) {
	t.Parallel()

	// U+FB01 (fi ligature) normalises to "fi".
	ligature, err := DeriveKey("ﬁ", "n1", fixedSalt)
	require.NoError(t, err)
	plain, err := DeriveKey("fi", "n1", fixedSalt)
	require.NoError(t, err)

	assert.Equal(t, plain, ligature)
	assert.Equal(t, "119c7107366104eec909fe57c8a9dfa095956d7c6228f936ead95bc979b9afc1", hex.EncodeToString(plain))
}

func TestHashPassword_Format(t *testing.T) {
	t.Parallel()

	proof, err := HashPassword("secret", "nonce")
	require.NoError(t, err)

	salt, key, ok := strings.Cut(proof, ":")
	require.True(t, ok)
	assert.Len(t, salt, saltLength*2)
	assert.Len(t, key, keyLength*2)

	other, err := HashPassword("secret", "nonce")
	require.NoError(t, err)
	assert.NotEqual(t, proof, other, "salts must differ")
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	proof, err := HashPassword("secret", "nonce-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		proof  string
		secret string
		nonce  string
		want   bool
	}{
		{name: "match", proof: proof, secret: "secret", nonce: "nonce-1", want: true},
		{name: "wrong secret", proof: proof, secret: "Secret", nonce: "nonce-1", want: false},
		{name: "rotated nonce", proof: proof, secret: "secret", nonce: "nonce-2", want: false},
		{name: "no separator", proof: strings.ReplaceAll(proof, ":", ""), secret: "secret", nonce: "nonce-1", want: false},
		{name: "bad salt hex", proof: "zz:" + strings.SplitN(proof, ":", 2)[1], secret: "secret", nonce: "nonce-1", want: false},
		{name: "bad key hex", proof: strings.SplitN(proof, ":", 2)[0] + ":zz", secret: "secret", nonce: "nonce-1", want: false},
		{name: "empty", proof: "", secret: "secret", nonce: "nonce-1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyPassword(context.Background(), tt.proof, tt.secret, tt.nonce)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyPassword_ContextCancelled(t *testing.T) {
	t.Parallel()

	proof, err := HashPassword("secret", "n")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := VerifyPassword(ctx, proof, "secret", "n")
	// the KDF may still finish first
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, ok)
	} else {
		assert.True(t, ok)
	}
}
