package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/easyadmin/internal/client/client"
	"github.com/dmitrijs2005/easyadmin/internal/client/config"
	"github.com/dmitrijs2005/easyadmin/internal/logging"
)

// App runs a single login against the EasyAdmin API and prints the result.
type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger
}

// NewApp picks the gRPC transport when c.GRPCAddr is set and HTTP otherwise.
func NewApp(c *config.Config, l logging.Logger) (*App, error) {
	var (
		apiClient client.Client
		err       error
	)
	if c.GRPCAddr != "" {
		apiClient, err = client.NewGRPCClient(c.GRPCAddr)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", c.GRPCAddr, err)
		}
	} else {
		apiClient = client.NewHTTPClient(c.ServerURL, c.APIVersion, c.Timeout)
	}
	return newApp(c, apiClient, os.Stdin, os.Stdout, l), nil
}

func newApp(c *config.Config, apiClient client.Client, in io.Reader, out io.Writer, l logging.Logger) *App {
	return &App{
		config: c,
		client: apiClient,
		reader: bufio.NewReader(in),
		out:    out,
		log:    l.With("module", "cli"),
	}
}

// Run logs in, prints the session token and, if configured, the claims the
// server sees for it. The client is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.client.Close(); err != nil {
			a.log.Warn(ctx, "error closing client", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	token, err := a.login(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Token: %s\n", token)

	if !a.config.ShowClaims {
		return nil
	}
	claims, err := a.client.Me(ctx, token)
	if err != nil {
		return fmt.Errorf("fetch claims: %w", err)
	}
	b, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Claims:\n%s\n", b)
	return nil
}
