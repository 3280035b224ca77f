package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/paccor4esp/paccor4esp/internal/logging"
	"github.com/paccor4esp/paccor4esp/pkg/componentlist"
	"github.com/paccor4esp/paccor4esp/pkg/config"
	"github.com/paccor4esp/paccor4esp/pkg/extractor"
	"github.com/paccor4esp/paccor4esp/pkg/logtext"
	"github.com/paccor4esp/paccor4esp/pkg/output"
	"github.com/paccor4esp/paccor4esp/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// GenerateOptions holds command-line options for the generate command.
type GenerateOptions struct {
	ConfigPath    string
	LogFile       string
	OutputFile    string
	Encoding      string
	DiagnosticLog string
	Summary       string
	Strict        bool
	Stdout        bool
	Verbosity     int

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

const generateLong = `Parse an ESP32 console capture and write a TCG component list.

Every marker that is not found in the log is reported as "Not Specified".
Settings are taken from the config file (if any), then PACCOR4ESP_*
environment variables, then flags.

Exit codes:
  0 - Component list written
  1 - Component list written, but --strict and markers were missing
  2 - Configuration or runtime error (including a missing log file)`

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a component list from an ESP log",
		Long:  generateLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunGenerate(cmd, opts)
		},
	}

	BindGenerateFlags(cmd, opts)
	return cmd
}

// BindGenerateFlags registers the generate flags on cmd.
func BindGenerateFlags(cmd *cobra.Command, opts *GenerateOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (YAML)")
	f.StringVar(&opts.LogFile, "log-file", "", "ESP console capture to read (default "+config.DefaultLogFile+")")
	f.StringVar(&opts.OutputFile, "output-file", "", "Component list to write (default "+config.DefaultOutputFile+")")
	f.StringVar(&opts.Encoding, "encoding", "", "Log file encoding (auto|utf-8|utf-16)")
	f.StringVar(&opts.DiagnosticLog, "diagnostic-log", "", "Diagnostic log file (default "+config.DefaultDiagnosticLog+")")
	f.StringVar(&opts.Summary, "summary", "text", "Summary printed after generation (text|quiet|none)")
	f.BoolVar(&opts.Strict, "strict", false, "Exit with code 1 if any marker is missing")
	f.BoolVar(&opts.Stdout, "stdout", false, "Write the component list to stdout instead of the output file")
	f.IntVarP(&opts.Verbosity, "verbosity", "v", 0, "Diagnostic log verbosity (1: categories, 2: every match)")

	// Webhook flags
	f.StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	f.StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	f.StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerAlways), "When to fire webhook (always|complete|never)")
}

// RunGenerate runs the extraction pipeline with opts.
func RunGenerate(cmd *cobra.Command, opts *GenerateOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary, err := summaryFormatter(opts)
	if err != nil {
		return err
	}

	cfg, err := loadGenerateConfig(ctx, opts)
	if err != nil {
		return err
	}

	closeLog, err := logging.Setup(logging.Options{
		File:      cfg.DiagnosticLog,
		Verbosity: opts.Verbosity,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	start := time.Now()

	text, err := logtext.Load(ctx, cfg.LogFile, cfg.Encoding)
	if err != nil {
		if errors.Is(err, logtext.ErrNotFound) {
			klog.Errorf("Log file containing platform snapshot not found: %s", cfg.LogFile)
		} else {
			klog.Errorf("Loading %s: %v", cfg.LogFile, err)
		}
		return fmt.Errorf("loading log: %w", err)
	}
	klog.Infof("Loaded %s (%d bytes, %s)", text.Source, text.Size, text.Encoding)

	result, err := extractor.New().Extract(ctx, text.Content)
	if err != nil {
		return fmt.Errorf("extracting fields: %w", err)
	}
	for _, m := range result.Missing() {
		klog.Warningf("%s %s: %s", m.Category, m.Field, extractor.NotSpecified)
	}

	doc, err := componentlist.Construct(result, componentlist.WithPlatformManufacturer(cfg.PlatformManufacturer))
	if err != nil {
		return fmt.Errorf("building component list: %w", err)
	}
	data, err := componentlist.Marshal(doc)
	if err != nil {
		return err
	}

	meta := output.Metadata{
		LogFile:     cfg.LogFile,
		Encoding:    text.Encoding,
		GeneratedAt: time.Now(),
	}
	if !opts.Stdout {
		meta.OutputFile = cfg.OutputFile
	}
	report := output.NewReport(doc, result, meta)

	summaryOut := cmd.OutOrStdout()
	if opts.Stdout {
		if err := output.NewJSONFormatter(output.FormatOptions{}).Format(ctx, report, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		summaryOut = cmd.ErrOrStderr()
	} else {
		if err := writeOutput(cfg.OutputFile, data); err != nil {
			klog.Errorf("Writing %s: %v", cfg.OutputFile, err)
			return fmt.Errorf("writing output: %w", err)
		}
		klog.Infof("Wrote component list to %s", cfg.OutputFile)
	}
	report.Metadata.Duration = time.Since(start)

	if summary != nil {
		if err := summary.Format(ctx, report, summaryOut); err != nil {
			return fmt.Errorf("formatting summary: %w", err)
		}
	}

	// Webhook failures are logged but don't fail generation
	if len(cfg.Webhooks) > 0 {
		results := webhook.NewClient().Deliver(ctx, cfg.Webhooks, data, report.Complete())
		printWebhookResults(cmd.ErrOrStderr(), results)
	}

	if opts.Strict && !report.Complete() {
		ExitCode = 1
	}

	return nil
}

// summaryFormatter returns the formatter for --summary, or nil for none.
func summaryFormatter(opts *GenerateOptions) (output.Formatter, error) {
	switch opts.Summary {
	case "none":
		return nil, nil
	case "text":
		return output.New("text", output.FormatOptions{Verbose: opts.Verbosity > 0})
	case "quiet":
		return output.New("text", output.FormatOptions{Quiet: true})
	default:
		return nil, fmt.Errorf("unknown summary format %q (use text, quiet or none)", opts.Summary)
	}
}

// loadGenerateConfig loads the config file (or defaults) and applies flags.
func loadGenerateConfig(ctx context.Context, opts *GenerateOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(ctx, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}
	if opts.OutputFile != "" {
		cfg.OutputFile = opts.OutputFile
	}
	if opts.Encoding != "" {
		cfg.Encoding = config.Encoding(opts.Encoding)
	}
	if opts.DiagnosticLog != "" {
		cfg.DiagnosticLog = opts.DiagnosticLog
	}
	if opts.WebhookURL != "" {
		cfg.Webhooks = append(cfg.Webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: config.WebhookTrigger(opts.WebhookTrigger),
			Timeout: config.DefaultWebhookTimeout,
			Retries: config.DefaultWebhookRetries,
		})
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// writeOutput replaces path with data, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644) // #nosec G306 -- component lists are not secret
}

func printWebhookResults(w io.Writer, results map[string]*webhook.Response) {
	for name, resp := range results {
		if resp.Success() {
			fmt.Fprintf(w, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(w, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}
