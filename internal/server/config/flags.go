package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/easyadmin/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   gRPC bind address, empty disables gRPC
//	-v string   API version path prefix
//	-m list     comma-separated enabled auth modes
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-r string   Redis address for the nonce registry
//	-d string   PostgreSQL DSN for the audit trail
//
// args are filtered with flagx.FilterArgs first so flags owned by other
// layers (-c/-config) do not cause parse errors.
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-a", "-g", "-v", "-m", "-s", "-t", "-r", "-d"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP API")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to run the gRPC API")
	fs.StringVar(&config.APIVersion, "v", config.APIVersion, "API version prefix")

	modes := flagx.CSV(config.AuthModes)
	fs.Var(&modes, "m", "enabled authentication modes (password,otp,open)")

	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "m":
			config.AuthModes = []string(modes)
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
	return nil
}
