package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/easyadmin/internal/flagx"
	"github.com/dmitrijs2005/easyadmin/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Durations
// use timex.Duration so both "24h" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr              string         `json:"http_addr"`
	GRPCAddr              string         `json:"grpc_addr"`
	APIVersion            string         `json:"api_version"`
	HelpURL               string         `json:"help_url"`
	CORSAllowedOrigins    []string       `json:"cors_allowed_origins"`
	AuthModes             []string       `json:"auth_modes"`
	Accounts              []string       `json:"accounts"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	OTPMax                int64          `json:"otp_max"`
	OTPSecure             *bool          `json:"otp_secure"`
	RedisAddr             string         `json:"redis_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	LogFormat             string         `json:"log_format"`
}

// parseJson overlays values from the file named by -c/-config in args.
// Fields absent from the file keep their current values. No flag means no
// file and no error.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.APIVersion, c.APIVersion)
	setString(&config.HelpURL, c.HelpURL)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogFormat, c.LogFormat)

	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.AuthModes != nil {
		config.AuthModes = c.AuthModes
	}
	if c.Accounts != nil {
		config.Accounts = c.Accounts
	}
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.OTPMax > 0 {
		config.OTPMax = c.OTPMax
	}
	if c.OTPSecure != nil {
		config.OTPSecure = *c.OTPSecure
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
