// Package auth issues and validates the signed session tokens handed out by
// a successful login.
package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/easyadmin/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of a session token. Audience holds Audience(clientID)
// rather than the raw client identifier.
type Claims struct {
	Host     string `json:"host"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Issuer mints and parses HS512 session tokens. It keeps no per-token state.
type Issuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewIssuer returns an Issuer signing with secret. An empty secret or a
// non-positive validity is a configuration error.
func NewIssuer(secret []byte, validity time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("token signing secret is empty")
	}
	if validity <= 0 {
		return nil, errors.New("token validity must be positive")
	}
	return &Issuer{secret: secret, validity: validity, now: time.Now}, nil
}

// Audience is the one-way, stable mapping from a client identifier to the
// aud claim: base64(sha256(clientID)).
func Audience(clientID string) string {
	sum := sha256.Sum256([]byte(clientID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Issue signs a token for clientID bound to host. username is omitted from
// the claims when empty.
func (i *Issuer) Issue(clientID, host, username string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Host:     host,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Audience:  jwt.ClaimStrings{Audience(clientID)},
			Issuer:    common.TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Parse validates signature, algorithm, issuer and expiry and returns the
// claims. Expired tokens yield common.ErrTokenExpired, every other failure
// wraps common.ErrInvalidToken.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(common.TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// BearerToken extracts the token from an Authorization value. Both
// "Bearer <jwt>" and a bare token are accepted.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= 6 && strings.EqualFold(header[:6], "bearer") && (len(header) == 6 || header[6] == ' ') {
		return strings.TrimSpace(header[6:])
	}
	return header
}
