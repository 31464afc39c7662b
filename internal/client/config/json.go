package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/easyadmin/internal/flagx"
	"github.com/dmitrijs2005/easyadmin/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeout is a
// timex.Duration so JSON can give "5s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL  string         `json:"server_url"`
	APIVersion string         `json:"api_version"`
	GRPCAddr   string         `json:"grpc_addr"`
	Method     string         `json:"method"`
	ClientID   string         `json:"client_id"`
	Username   string         `json:"username"`
	Timeout    timex.Duration `json:"timeout"`
	ShowClaims *bool          `json:"show_claims"`
}

// parseJson overlays Config with values loaded from the file named by
// -c/-config in args. Fields absent from the file keep their values.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	for dst, v := range map[*string]string{
		&cfg.ServerURL:  jc.ServerURL,
		&cfg.APIVersion: jc.APIVersion,
		&cfg.GRPCAddr:   jc.GRPCAddr,
		&cfg.Method:     jc.Method,
		&cfg.ClientID:   jc.ClientID,
		&cfg.Username:   jc.Username,
	} {
		if v != "" {
			*dst = v
		}
	}
	if jc.Timeout.Duration > 0 {
		cfg.Timeout = jc.Timeout.Duration
	}
	if jc.ShowClaims != nil {
		cfg.ShowClaims = *jc.ShowClaims
	}
	return nil
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
