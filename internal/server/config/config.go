// Package config handles configuration for the server component: defaults,
// an optional JSON file, environment variables and command-line flags, applied
// in that order.
package config

import (
	"strings"
	"time"
)

// InsecureDefaultSecret is the JWT signing secret used when none is
// configured. It is public knowledge and must never be used in production;
// the server logs a warning at startup while it is in effect.
const InsecureDefaultSecret = "secret"

// MaxSafeOTP is the largest OTP code (2^53-1). Larger codes would not survive
// clients that carry the code as a JSON or protobuf number.
const MaxSafeOTP int64 = 1<<53 - 1

// Config holds runtime settings for the EasyAdmin mock API.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses; an empty GRPCAddr disables gRPC.
//   - APIVersion: path prefix of the versioned API ("v1.0" -> /v1.0/...).
//   - AuthModes: enabled login strategies (password, otp, open).
//   - Accounts: "user:pass" entries for the password strategy.
//   - SecretKey: HMAC secret for signing session tokens (HS512).
//   - RedisAddr: when set, nonces live in Redis instead of process memory.
//   - DatabaseDSN: when set, audit events are written to PostgreSQL.
type Config struct {
	HTTPAddr              string        `env:"HTTP_ADDR"`
	GRPCAddr              string        `env:"GRPC_ADDR"`
	APIVersion            string        `env:"API_VERSION"`
	HelpURL               string        `env:"HELP_URL"`
	CORSAllowedOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	AuthModes             []string      `env:"AUTH_MODES_SUPPORTED" envSeparator:","`
	Accounts              []string      `env:"USER_PASS_ACCOUNTS" envSeparator:","`
	SecretKey             string        `env:"JWT_SECRET"`
	TokenValidityDuration time.Duration `env:"TOKEN_VALIDITY"`
	OTPMax                int64         `env:"OTP_MAX"`
	OTPSecure             bool          `env:"OTP_SECURE"`
	RedisAddr             string        `env:"REDIS_ADDR"`
	DatabaseDSN           string        `env:"DATABASE_DSN"`
	LogFormat             string        `env:"LOG_FORMAT"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey is InsecureDefaultSecret and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3000"
	c.GRPCAddr = ""
	c.APIVersion = "v1.0"
	c.HelpURL = ""
	c.CORSAllowedOrigins = []string{}
	c.AuthModes = []string{}
	c.Accounts = []string{}
	c.SecretKey = InsecureDefaultSecret
	c.TokenValidityDuration = 24 * time.Hour
	c.OTPMax = MaxSafeOTP
	c.OTPSecure = false
	c.RedisAddr = ""
	c.DatabaseDSN = ""
	c.LogFormat = "json"
}

// UsesInsecureSecret reports whether tokens are signed with the public
// development secret.
func (c *Config) UsesInsecureSecret() bool {
	return c.SecretKey == InsecureDefaultSecret
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file (-c/-config), the environment and finally
// command-line flags taken from args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.CORSAllowedOrigins = trimAll(c.CORSAllowedOrigins)
	c.AuthModes = trimAll(c.AuthModes)
	c.Accounts = trimAll(c.Accounts)
	c.APIVersion = strings.Trim(c.APIVersion, "/")
	if c.OTPMax <= 0 || c.OTPMax > MaxSafeOTP {
		c.OTPMax = MaxSafeOTP
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
