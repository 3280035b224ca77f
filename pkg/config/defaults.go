package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultLogFile              = "esp_logfile.txt"
	DefaultOutputFile           = "pc_testgen/localhost-componentlist.json"
	DefaultDiagnosticLog        = "paccor4esp.log"
	DefaultPlatformManufacturer = "Espressif"
	DefaultWebhookTimeout       = 10 * time.Second
	DefaultWebhookRetries       = 3
)

// Environment variable names.
const (
	EnvLogFile    = "PACCOR4ESP_LOG_FILE"
	EnvOutputFile = "PACCOR4ESP_OUTPUT_FILE"
	EnvEncoding   = "PACCOR4ESP_ENCODING"
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		LogFile:              DefaultLogFile,
		OutputFile:           DefaultOutputFile,
		Encoding:             EncodingAuto,
		PlatformManufacturer: DefaultPlatformManufacturer,
		DiagnosticLog:        DefaultDiagnosticLog,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvOutputFile); v != "" {
		c.OutputFile = v
	}
	if v := os.Getenv(EnvEncoding); v != "" {
		c.Encoding = Encoding(v)
	}
}
