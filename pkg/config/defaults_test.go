package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default log output 'stderr', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_NormalizesCase(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "debug"},
		Decoder: DecoderConfig{Charset: "EBCDIC"},
		Output:  OutputConfig{Format: "JSON"},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level normalized to 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Decoder.Charset != "ebcdic" {
		t.Errorf("Expected charset normalized to 'ebcdic', got %q", cfg.Decoder.Charset)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected output format normalized to 'json', got %q", cfg.Output.Format)
	}
}

func TestApplyDefaults_Decoder(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Decoder.MaxPacketSize != DefaultMaxPacketSize {
		t.Errorf("Expected default max packet size %d, got %d", DefaultMaxPacketSize, cfg.Decoder.MaxPacketSize)
	}
	if cfg.Decoder.Charset != "utf-8" {
		t.Errorf("Expected default charset 'utf-8', got %q", cfg.Decoder.Charset)
	}
	if cfg.Decoder.Timeout != 5*time.Second {
		t.Errorf("Expected default timeout 5s, got %v", cfg.Decoder.Timeout)
	}
}

func TestApplyDefaults_Telemetry(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Telemetry.Endpoint != "localhost:4317" {
		t.Errorf("Expected default endpoint 'localhost:4317', got %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("Expected default sample rate 1.0, got %v", cfg.Telemetry.SampleRate)
	}
	if cfg.Telemetry.Profiling.Endpoint != "http://localhost:4040" {
		t.Errorf("Expected default profiling endpoint, got %q", cfg.Telemetry.Profiling.Endpoint)
	}
	if len(cfg.Telemetry.Profiling.ProfileTypes) != 3 {
		t.Errorf("Expected 3 default profile types, got %v", cfg.Telemetry.Profiling.ProfileTypes)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "WARN",
			Format: "json",
			Output: "/var/log/netwire.log",
		},
		Decoder: DecoderConfig{
			MaxPacketSize: 1500,
			Timeout:       time.Second,
		},
		Telemetry: TelemetryConfig{
			Endpoint:   "collector:4317",
			SampleRate: 0.25,
		},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected explicit level 'WARN' to be preserved, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected explicit format 'json' to be preserved, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "/var/log/netwire.log" {
		t.Errorf("Expected explicit output to be preserved, got %q", cfg.Logging.Output)
	}
	if cfg.Decoder.MaxPacketSize != 1500 {
		t.Errorf("Expected explicit max packet size 1500, got %d", cfg.Decoder.MaxPacketSize)
	}
	if cfg.Decoder.Timeout != time.Second {
		t.Errorf("Expected explicit timeout 1s, got %v", cfg.Decoder.Timeout)
	}
	if cfg.Telemetry.Endpoint != "collector:4317" {
		t.Errorf("Expected explicit endpoint to be preserved, got %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.SampleRate != 0.25 {
		t.Errorf("Expected explicit sample rate 0.25, got %v", cfg.Telemetry.SampleRate)
	}
}
