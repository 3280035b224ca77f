// Package config provides configuration loading and validation for paccor4esp.
package config

import (
	"runtime"
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// LogFile is the ESP console capture to extract from.
	LogFile string `yaml:"log_file"`

	// OutputFile is where the component list JSON is written (overwritten).
	OutputFile string `yaml:"output_file"`

	// Encoding selects how LogFile is decoded: auto, utf-8 or utf-16.
	Encoding Encoding `yaml:"encoding"`

	// PlatformManufacturer is reported as PLATFORMMANUFACTURERSTR.
	PlatformManufacturer string `yaml:"platform_manufacturer"`

	// DiagnosticLog receives timestamped, leveled log lines for each run.
	DiagnosticLog string `yaml:"diagnostic_log"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// Encoding names a text encoding for the input log.
type Encoding string

const (
	// EncodingAuto picks UTF-16 on Windows hosts and UTF-8 elsewhere.
	EncodingAuto  Encoding = "auto"
	EncodingUTF8  Encoding = "utf-8"
	EncodingUTF16 Encoding = "utf-16"
)

// Resolve turns EncodingAuto into a concrete encoding for the current host.
func (e Encoding) Resolve() Encoding {
	return e.resolveFor(runtime.GOOS)
}

func (e Encoding) resolveFor(goos string) Encoding {
	if e != EncodingAuto && e != "" {
		return e
	}
	if goos == "windows" {
		return EncodingUTF16
	}
	return EncodingUTF8
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerAlways fires after every successful generation (default).
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerComplete fires only when every field was found in the log.
	WebhookTriggerComplete WebhookTrigger = "complete"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint that receives the component list.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "always" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the per-attempt HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Retries is how many times a failed delivery is retried.
	Retries int `yaml:"retries,omitempty"`
}
