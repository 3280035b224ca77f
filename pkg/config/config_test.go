package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
log_file: captures/esp32.txt
output_file: out/componentlist.json
encoding: utf-16
platform_manufacturer: Acme
diagnostic_log: run.log
`
	path := writeTempFile(t, "config.yaml", content)

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogFile != "captures/esp32.txt" {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, "captures/esp32.txt")
	}
	if cfg.OutputFile != "out/componentlist.json" {
		t.Errorf("OutputFile = %q, want %q", cfg.OutputFile, "out/componentlist.json")
	}
	if cfg.Encoding != EncodingUTF16 {
		t.Errorf("Encoding = %q, want %q", cfg.Encoding, EncodingUTF16)
	}
	if cfg.PlatformManufacturer != "Acme" {
		t.Errorf("PlatformManufacturer = %q, want %q", cfg.PlatformManufacturer, "Acme")
	}
	if cfg.DiagnosticLog != "run.log" {
		t.Errorf("DiagnosticLog = %q, want %q", cfg.DiagnosticLog, "run.log")
	}
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "log_file: other.txt\n")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogFile != "other.txt" {
		t.Errorf("LogFile = %q, want other.txt", cfg.LogFile)
	}
	if cfg.OutputFile != DefaultOutputFile {
		t.Errorf("OutputFile = %q, want default %q", cfg.OutputFile, DefaultOutputFile)
	}
	if cfg.PlatformManufacturer != DefaultPlatformManufacturer {
		t.Errorf("PlatformManufacturer = %q, want default", cfg.PlatformManufacturer)
	}
	if cfg.Encoding != EncodingAuto {
		t.Errorf("Encoding = %q, want auto", cfg.Encoding)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)

	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	cfg, err := LoadOrDefault(context.Background(), "")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.LogFile != DefaultLogFile {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, DefaultLogFile)
	}
	if cfg.OutputFile != DefaultOutputFile {
		t.Errorf("OutputFile = %q, want %q", cfg.OutputFile, DefaultOutputFile)
	}
}

func TestLoadOrDefault_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvLogFile, "from-env.txt")
	t.Setenv(EnvOutputFile, "env/out.json")
	t.Setenv(EnvEncoding, "utf-8")

	cfg, err := LoadOrDefault(context.Background(), "")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.LogFile != "from-env.txt" {
		t.Errorf("LogFile = %q, want from-env.txt", cfg.LogFile)
	}
	if cfg.OutputFile != "env/out.json" {
		t.Errorf("OutputFile = %q, want env/out.json", cfg.OutputFile)
	}
	if cfg.Encoding != EncodingUTF8 {
		t.Errorf("Encoding = %q, want utf-8", cfg.Encoding)
	}
}

func TestLoadOrDefault_InvalidEnvironmentEncoding(t *testing.T) {
	t.Setenv(EnvEncoding, "latin-1")

	_, err := LoadOrDefault(context.Background(), "")
	if err == nil {
		t.Error("LoadOrDefault() expected error for invalid encoding override")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty log file", func(c *Config) { c.LogFile = "" }, true},
		{"empty output file", func(c *Config) { c.OutputFile = "" }, true},
		{"blank manufacturer", func(c *Config) { c.PlatformManufacturer = "  " }, true},
		{"bad encoding", func(c *Config) { c.Encoding = "ebcdic" }, true},
		{"utf-16", func(c *Config) { c.Encoding = EncodingUTF16 }, false},
		{"empty encoding", func(c *Config) { c.Encoding = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_EmptyEncodingBecomesAuto(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Encoding = ""
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Encoding != EncodingAuto {
		t.Errorf("Encoding = %q, want auto", cfg.Encoding)
	}
}

func TestEncodingResolve(t *testing.T) {
	tests := []struct {
		enc  Encoding
		goos string
		want Encoding
	}{
		{EncodingAuto, "windows", EncodingUTF16},
		{EncodingAuto, "linux", EncodingUTF8},
		{EncodingAuto, "darwin", EncodingUTF8},
		{"", "windows", EncodingUTF16},
		{EncodingUTF8, "windows", EncodingUTF8},
		{EncodingUTF16, "linux", EncodingUTF16},
	}

	for _, tt := range tests {
		if got := tt.enc.resolveFor(tt.goos); got != tt.want {
			t.Errorf("Encoding(%q).resolveFor(%q) = %q, want %q", tt.enc, tt.goos, got, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}
	if cfg.LogFile != "esp_logfile.txt" {
		t.Errorf("LogFile = %q, want esp_logfile.txt", cfg.LogFile)
	}
	if cfg.OutputFile != "pc_testgen/localhost-componentlist.json" {
		t.Errorf("OutputFile = %q", cfg.OutputFile)
	}
	if cfg.PlatformManufacturer != "Espressif" {
		t.Errorf("PlatformManufacturer = %q, want Espressif", cfg.PlatformManufacturer)
	}
}

// ============================================================================
// Webhook Validation Tests
// ============================================================================

func TestValidate_Webhook_Valid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Webhooks = []WebhookConfig{{
		Name:    "attestation-ca",
		URL:     "https://ca.example.com/componentlist",
		Trigger: WebhookTriggerComplete,
		Timeout: 5 * time.Second,
		Retries: 2,
	}}

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_Webhook_Invalid(t *testing.T) {
	tests := []struct {
		name string
		wh   WebhookConfig
	}{
		{"missing url", WebhookConfig{Name: "no-url"}},
		{"ftp scheme", WebhookConfig{URL: "ftp://example.com/hook"}},
		{"no host", WebhookConfig{URL: "http:///hook"}},
		{"bad trigger", WebhookConfig{URL: "https://example.com/hook", Trigger: "on_issues"}},
		{"negative retries", WebhookConfig{URL: "https://example.com/hook", Retries: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Webhooks = []WebhookConfig{tt.wh}
			if err := Validate(cfg); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}

func TestValidate_Webhook_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "http://localhost:8080/hook"}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerAlways {
		t.Errorf("Default trigger = %v, want %v", cfg.Webhooks[0].Trigger, WebhookTriggerAlways)
	}
	if cfg.Webhooks[0].Timeout != DefaultWebhookTimeout {
		t.Errorf("Default timeout = %v, want %v", cfg.Webhooks[0].Timeout, DefaultWebhookTimeout)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_TOKEN", "secret-value")

	tests := []struct {
		input string
		want  string
	}{
		{"${TEST_WEBHOOK_TOKEN}", "secret-value"},
		{"$TEST_WEBHOOK_TOKEN", "secret-value"},
		{"plain-value", "plain-value"},
		{"", ""},
		{"${NONEXISTENT_VAR_PACCOR}", ""},
	}

	for _, tt := range tests {
		if got := expandEnvVar(tt.input); got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoad_WithWebhooks(t *testing.T) {
	content := `
log_file: esp_logfile.txt
webhooks:
  - name: ca
    url: "https://ca.example.com/componentlist"
    trigger: complete
    timeout: 30s
    retries: 5
  - url: "https://backup.example.com/hook"
`
	path := writeTempFile(t, "config-with-webhooks.yaml", content)

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Webhooks) != 2 {
		t.Fatalf("Webhooks = %d, want 2", len(cfg.Webhooks))
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerComplete {
		t.Errorf("Webhook[0].Trigger = %v, want complete", cfg.Webhooks[0].Trigger)
	}
	if cfg.Webhooks[0].Timeout != 30*time.Second {
		t.Errorf("Webhook[0].Timeout = %v, want 30s", cfg.Webhooks[0].Timeout)
	}
	if cfg.Webhooks[0].Retries != 5 {
		t.Errorf("Webhook[0].Retries = %d, want 5", cfg.Webhooks[0].Retries)
	}
	if cfg.Webhooks[1].Trigger != WebhookTriggerAlways {
		t.Errorf("Webhook[1].Trigger = %v, want always", cfg.Webhooks[1].Trigger)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
