package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/easyadmin/internal/client/client"
	"github.com/dmitrijs2005/easyadmin/internal/client/config"
	"github.com/dmitrijs2005/easyadmin/internal/cryptox"
	"github.com/dmitrijs2005/easyadmin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	nonce    string
	nonceErr error
	token    string
	loginErr error
	claims   map[string]any
	meErr    error

	nonceFor string
	login    client.LoginRequest
	meToken  string
	closed   bool
}

func (f *fakeClient) Nonce(_ context.Context, clientID string) (string, error) {
	f.nonceFor = clientID
	return f.nonce, f.nonceErr
}

func (f *fakeClient) Login(_ context.Context, req client.LoginRequest) (string, error) {
	f.login = req
	return f.token, f.loginErr
}

func (f *fakeClient) Me(_ context.Context, token string) (map[string]any, error) {
	f.meToken = token
	return f.claims, f.meErr
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func testConfig(method string) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.Method = method
	c.ClientID = "cli-1"
	c.Timeout = 5 * time.Second
	return c
}

func stubPrompts(t *testing.T, text string, password string) {
	t.Helper()
	oldText, oldPw := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = oldText, oldPw })
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return text, nil }
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
}

func TestApp_PasswordLogin(t *testing.T) {
	stubPrompts(t, "alice", "secret")
	fc := &fakeClient{nonce: "N0NCE", token: "tok", claims: map[string]any{"host": "localhost"}}
	var out bytes.Buffer

	app := newApp(testConfig("password"), fc, strings.NewReader(""), &out, logging.Nop())
	require.NoError(t, app.Run(context.Background()))

	assert.Equal(t, "cli-1", fc.nonceFor)
	assert.Equal(t, "password", fc.login.Method)
	assert.Equal(t, "alice", fc.login.Username)
	assert.Equal(t, "N0NCE", fc.login.Nonce)
	ok, err := cryptox.VerifyPassword(context.Background(), fc.login.Password, "secret", "N0NCE")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "tok", fc.meToken)
	assert.Contains(t, out.String(), "Token: tok")
	assert.Contains(t, out.String(), `"host": "localhost"`)
	assert.True(t, fc.closed)
}

func TestApp_PasswordLogin_ConfiguredUsername(t *testing.T) {
	stubPrompts(t, "ignored", "pw")
	fc := &fakeClient{nonce: "n", token: "tok"}
	cfg := testConfig("password")
	cfg.Username = "bob"
	cfg.ShowClaims = false

	app := newApp(cfg, fc, strings.NewReader(""), io.Discard, logging.Nop())
	require.NoError(t, app.Run(context.Background()))

	assert.Equal(t, "bob", fc.login.Username)
	assert.Empty(t, fc.meToken)
}

func TestApp_OTPAndOpen(t *testing.T) {
	stubPrompts(t, "123456", "")

	fc := &fakeClient{token: "tok"}
	cfg := testConfig("otp")
	cfg.ShowClaims = false
	require.NoError(t, newApp(cfg, fc, strings.NewReader(""), io.Discard, logging.Nop()).Run(context.Background()))
	assert.Equal(t, client.LoginRequest{Method: "otp", ClientID: "cli-1", OTP: "123456"}, fc.login)

	fc = &fakeClient{token: "tok"}
	cfg = testConfig("open")
	cfg.ShowClaims = false
	require.NoError(t, newApp(cfg, fc, strings.NewReader(""), io.Discard, logging.Nop()).Run(context.Background()))
	assert.Equal(t, client.LoginRequest{Method: "open", ClientID: "cli-1"}, fc.login)
}

func TestApp_Errors(t *testing.T) {
	stubPrompts(t, "alice", "pw")

	t.Run("unknown method", func(t *testing.T) {
		fc := &fakeClient{}
		err := newApp(testConfig("magic"), fc, strings.NewReader(""), io.Discard, logging.Nop()).Run(context.Background())
		require.ErrorIs(t, err, ErrUnknownMethod)
		assert.True(t, fc.closed)
	})

	t.Run("nonce failure", func(t *testing.T) {
		fc := &fakeClient{nonceErr: client.ErrUnavailable}
		err := newApp(testConfig("password"), fc, strings.NewReader(""), io.Discard, logging.Nop()).Run(context.Background())
		require.ErrorIs(t, err, client.ErrUnavailable)
	})

	t.Run("rejected login", func(t *testing.T) {
		fc := &fakeClient{nonce: "n", loginErr: &client.RejectedError{Message: "Invalid credentials", Unauthorized: true}}
		err := newApp(testConfig("password"), fc, strings.NewReader(""), io.Discard, logging.Nop()).Run(context.Background())
		require.ErrorIs(t, err, client.ErrUnauthorized)
	})

	t.Run("claims failure", func(t *testing.T) {
		fc := &fakeClient{token: "tok", meErr: errors.New("boom")}
		err := newApp(testConfig("open"), fc, strings.NewReader(""), io.Discard, logging.Nop()).Run(context.Background())
		require.Error(t, err)
	})

	t.Run("prompt failure", func(t *testing.T) {
		old := getPassword
		t.Cleanup(func() { getPassword = old })
		getPassword = func(io.Writer) ([]byte, error) { return nil, io.EOF }

		fc := &fakeClient{}
		err := newApp(testConfig("password"), fc, strings.NewReader(""), io.Discard, logging.Nop()).Run(context.Background())
		require.ErrorIs(t, err, io.EOF)
		assert.Empty(t, fc.nonceFor)
	})
}

func TestNewApp_PicksTransport(t *testing.T) {
	cfg := testConfig("open")
	app, err := NewApp(cfg, logging.Nop())
	require.NoError(t, err)
	_, ok := app.client.(*client.HTTPClient)
	assert.True(t, ok)

	cfg.GRPCAddr = "127.0.0.1:1"
	app, err = NewApp(cfg, logging.Nop())
	require.NoError(t, err)
	_, ok = app.client.(*client.GRPCClient)
	assert.True(t, ok)
	require.NoError(t, app.client.Close())
}
