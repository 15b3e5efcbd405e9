package config

import "time"

// Config holds runtime settings for the Kvits CLI.
//
// Fields:
//   - RemoteBaseURL: base URL of the backend receipt API.
//   - OCREndpointURL: base URL of the receipt extraction service; empty
//     disables extraction and `scan` falls back to manual entry.
//   - DatabasePath: path of the local SQLite database file.
//   - RequestTimeout: per-request deadline for remote calls.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - MaxImageBytes / MaxImageDimension / ImageQuality: image normalization
//     limits applied before any upload.
//
// Units: RequestTimeout and OnlineCheckInterval are time.Duration values
// (e.g., 3*time.Second); MaxImageBytes counts base64-encoded bytes.
type Config struct {
	RemoteBaseURL       string
	OCREndpointURL      string
	DatabasePath        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	MaxImageBytes       int
	MaxImageDimension   int
	ImageQuality        int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RemoteBaseURL = "http://127.0.0.1:8080"
	c.OCREndpointURL = ""
	c.DatabasePath = "kvits.db"
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.MaxImageBytes = 700 * 1024
	c.MaxImageDimension = 1000
	c.ImageQuality = 60
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
