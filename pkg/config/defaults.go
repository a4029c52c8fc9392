package config

import (
	"strings"
	"time"

	"github.com/marmos91/netwire/internal/bytesize"
)

// DefaultMaxPacketSize is the largest datagram an IPv4 total length can
// describe.
const DefaultMaxPacketSize = 64 * bytesize.KiB

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values (0, "", false, nil) are replaced with defaults; explicit
// values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyDecoderDefaults(&cfg.Decoder)
	applyOutputDefaults(&cfg.Output)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}

	if cfg.Profiling.Endpoint == "" {
		cfg.Profiling.Endpoint = "http://localhost:4040"
	}
	if len(cfg.Profiling.ProfileTypes) == 0 {
		cfg.Profiling.ProfileTypes = []string{"cpu", "alloc_objects", "alloc_space"}
	}
}

// applyDecoderDefaults sets decoder limits and normalizes the charset name.
func applyDecoderDefaults(cfg *DecoderConfig) {
	if cfg.MaxPacketSize == 0 {
		cfg.MaxPacketSize = DefaultMaxPacketSize
	}
	if cfg.Charset == "" {
		cfg.Charset = "utf-8"
	}
	cfg.Charset = strings.ToLower(cfg.Charset)
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
}

func applyOutputDefaults(cfg *OutputConfig) {
	if cfg.Format == "" {
		cfg.Format = "table"
	}
	cfg.Format = strings.ToLower(cfg.Format)
}

// GetDefaultConfig returns a Config struct with all default values applied.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{Insecure: true},
		Decoder:   DecoderConfig{VerifyRoundTrip: true},
	}
	ApplyDefaults(cfg)
	return cfg
}
