package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/easyadmin/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP API base URL
//	-g string   gRPC address, overrides -a when set
//	-v string   API version path prefix
//	-m string   login method (password, otp, open)
//	-id string  client id
//	-u string   username for password login
//	-t int      request timeout in seconds
//
// args are filtered with flagx.FilterArgs so -c/-config does not interfere.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-a", "-g", "-v", "-m", "-id", "-u", "-t"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "HTTP API base URL")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "gRPC API address")
	fs.StringVar(&cfg.APIVersion, "v", cfg.APIVersion, "API version prefix")
	fs.StringVar(&cfg.Method, "m", cfg.Method, "login method (password, otp, open)")
	fs.StringVar(&cfg.ClientID, "id", cfg.ClientID, "client id")
	fs.StringVar(&cfg.Username, "u", cfg.Username, "username")
	timeout := fs.Int("t", int(cfg.Timeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.Timeout = secondsToDuration(*timeout)
		}
	})
	return nil
}
