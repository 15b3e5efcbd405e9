package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/andrejsk/kvits/internal/flagx"
	"github.com/andrejsk/kvits/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	RemoteBaseURL       string         `json:"remote_base_url"`
	OCREndpointURL      string         `json:"ocr_endpoint_url"`
	DatabasePath        string         `json:"database_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	MaxImageBytes       int            `json:"max_image_bytes"`
	MaxImageDimension   int            `json:"max_image_dimension"`
	ImageQuality        int            `json:"image_quality"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies set (non-zero) fields into the provided Config, so a partial
//     file only overrides what it names.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.RemoteBaseURL != "" {
		cfg.RemoteBaseURL = jc.RemoteBaseURL
	}
	if jc.OCREndpointURL != "" {
		cfg.OCREndpointURL = jc.OCREndpointURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.MaxImageBytes != 0 {
		cfg.MaxImageBytes = jc.MaxImageBytes
	}
	if jc.MaxImageDimension != 0 {
		cfg.MaxImageDimension = jc.MaxImageDimension
	}
	if jc.ImageQuality != 0 {
		cfg.ImageQuality = jc.ImageQuality
	}
}
