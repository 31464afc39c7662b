package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/easyadmin/internal/client/client"
	"github.com/dmitrijs2005/easyadmin/internal/common"
	"github.com/dmitrijs2005/easyadmin/internal/cryptox"
)

// Indirections so tests can replace the prompts.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var ErrUnknownMethod = errors.New("unknown login method")

func (a *App) login(ctx context.Context) (string, error) {
	switch a.config.Method {
	case "password":
		return a.loginPassword(ctx)
	case "otp":
		return a.loginOTP(ctx)
	case "open":
		return a.client.Login(ctx, client.LoginRequest{Method: "open", ClientID: a.config.ClientID})
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, a.config.Method)
	}
}

func (a *App) loginPassword(ctx context.Context) (string, error) {
	username := a.config.Username
	if username == "" {
		var err error
		if username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
			return "", err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(password)

	nonce, err := a.client.Nonce(ctx, a.config.ClientID)
	if err != nil {
		return "", fmt.Errorf("request nonce: %w", err)
	}

	proof, err := cryptox.HashPassword(string(password), nonce)
	if err != nil {
		return "", err
	}

	a.log.Debug(ctx, "sending password login", "username", username)
	return a.client.Login(ctx, client.LoginRequest{
		Method:   "password",
		ClientID: a.config.ClientID,
		Username: username,
		Password: proof,
		Nonce:    nonce,
	})
}

func (a *App) loginOTP(ctx context.Context) (string, error) {
	code, err := getSimpleText(a.reader, "One-time password", a.out)
	if err != nil {
		return "", err
	}
	return a.client.Login(ctx, client.LoginRequest{Method: "otp", ClientID: a.config.ClientID, OTP: code})
}
