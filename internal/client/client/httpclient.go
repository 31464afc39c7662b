package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/easyadmin/internal/common"
	"github.com/dmitrijs2005/easyadmin/internal/netx"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient targets serverURL (e.g. "http://127.0.0.1:3000") under the
// given API version prefix.
func NewHTTPClient(serverURL, apiVersion string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(serverURL, "/") + "/" + strings.Trim(apiVersion, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Nonce(ctx context.Context, clientID string) (string, error) {
	var out struct {
		Nonce string `json:"nonce"`
	}
	err := netx.DoJSON(ctx, c.http, http.MethodPost, c.baseURL+"/identity/nonce", nil,
		map[string]string{"clientId": clientID}, &out)
	if err != nil {
		return "", mapHTTPError(err)
	}
	return out.Nonce, nil
}

func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := netx.DoJSON(ctx, c.http, http.MethodPost, c.baseURL+"/identity/login", nil, req, &out); err != nil {
		return "", mapHTTPError(err)
	}
	return out.Token, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	headers := map[string]string{common.AuthorizationHeaderName: "Bearer " + token}
	if err := netx.DoJSON(ctx, c.http, http.MethodGet, c.baseURL+"/identity/me", headers, nil, &out); err != nil {
		return nil, mapHTTPError(err)
	}
	return out, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func mapHTTPError(err error) error {
	var se *netx.StatusError
	if errors.As(err, &se) {
		if se.StatusCode >= 500 {
			return fmt.Errorf("%w: %s", ErrUnavailable, se.Message)
		}
		return &RejectedError{Message: se.Message, Unauthorized: se.StatusCode == http.StatusUnauthorized}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
