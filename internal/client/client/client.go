package client

import "context"

// LoginRequest is the login body. Only the fields of the chosen method are
// sent.
type LoginRequest struct {
	Method   string `json:"method"`
	ClientID string `json:"clientId"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Nonce    string `json:"nonce,omitempty"`
	OTP      string `json:"otp,omitempty"`
}

// Client is implemented by HTTPClient and GRPCClient.
type Client interface {
	Nonce(ctx context.Context, clientID string) (string, error)
	Login(ctx context.Context, req LoginRequest) (string, error)
	Me(ctx context.Context, token string) (map[string]any, error)
	Close() error
}
