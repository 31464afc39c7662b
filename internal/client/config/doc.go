// Package config loads runtime configuration for the EasyAdmin login CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:3000",
//	  "api_version": "v1.0",
//	  "grpc_addr": "",
//	  "method": "password",
//	  "client_id": "",
//	  "username": "alice",
//	  "timeout": "10s",
//	  "show_claims": true
//	}
//
// When no client id is configured a random UUID is used, so each run is a
// fresh client as far as the nonce registry is concerned.
package config
