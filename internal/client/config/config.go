package config

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config holds runtime settings for the EasyAdmin login CLI.
//
// Fields:
//   - ServerURL: base URL of the HTTP API.
//   - GRPCAddr: when set, the gRPC API at this address is used instead.
//   - Method: login strategy (password, otp or open).
//   - ClientID: identifies this client to the nonce registry.
type Config struct {
	ServerURL  string
	APIVersion string
	GRPCAddr   string
	Method     string
	ClientID   string
	Username   string
	Timeout    time.Duration
	ShowClaims bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000"
	c.APIVersion = "v1.0"
	c.GRPCAddr = ""
	c.Method = "password"
	c.ClientID = ""
	c.Username = ""
	c.Timeout = 10 * time.Second
	c.ShowClaims = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags taken from args. Later sources
// take precedence over earlier ones. A missing client id is generated.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	cfg.Method = strings.ToLower(strings.TrimSpace(cfg.Method))
	cfg.APIVersion = strings.Trim(cfg.APIVersion, "/")
	if cfg.ClientID == "" {
		cfg.ClientID = uuid.NewString()
	}
	return cfg, nil
}
