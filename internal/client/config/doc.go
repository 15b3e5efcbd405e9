// Package config loads runtime configuration for the Kvits CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend receipt API
//	-x string   base URL of the receipt extraction service
//	-f string   path of the local database file
//	-t int      remote request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "remote_base_url": "https://kvits.example.com",
//	  "ocr_endpoint_url": "https://ocr.example.com",
//	  "database_path": "kvits.db",
//	  "request_timeout": "15s",
//	  "online_check_interval": "3s",
//	  "max_image_bytes": 716800,
//	  "max_image_dimension": 1000,
//	  "image_quality": 60
//	}
//
// Primary API
//
//   - type Config                     — holds the remote endpoints, database path and intervals
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
