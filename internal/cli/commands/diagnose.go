package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/paccor4esp/paccor4esp/pkg/config"
	"github.com/paccor4esp/paccor4esp/pkg/detector"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	ConfigPath string
	Verbose    bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose [log-file]",
		Short: "Diagnose common input and configuration issues",
		Long: `Diagnose common input and configuration issues.

This command checks everything a generate run depends on:
- Config file syntax and structure (when --config is given)
- Log file existence and accessibility
- Log file encoding against the configured encoding
- Which component markers are present in the log, per category
- Output directory
- Webhook configuration

The log file defaults to the configured log_file.

Example:
  paccor4esp diagnose
  paccor4esp diagnose esp_logfile.txt
  paccor4esp diagnose -c paccor4esp.yaml -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			logFile := ""
			if len(args) == 1 {
				logFile = args[0]
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), logFile, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (YAML)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, logFile string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Config file, or defaults
	var cfg *config.Config
	if opts.ConfigPath != "" {
		result := checkConfigExists(opts.ConfigPath)
		results = append(results, result)
		if result.Status == "error" {
			printDiagnostics(w, results, opts)
			return nil
		}

		var parsed DiagnosticResult
		cfg, parsed = checkConfigParseable(ctx, opts.ConfigPath)
		results = append(results, parsed)
		if parsed.Status == "error" {
			printDiagnostics(w, results, opts)
			return nil
		}
	} else {
		var err error
		cfg, err = config.LoadOrDefault(ctx, "")
		if err != nil {
			results = append(results, DiagnosticResult{
				Check:   "Config",
				Status:  "error",
				Message: err.Error(),
				Suggests: []string{
					"Check the PACCOR4ESP_* environment variables",
				},
			})
			printDiagnostics(w, results, opts)
			return nil
		}
		results = append(results, DiagnosticResult{
			Check:   "Config",
			Status:  "ok",
			Message: "No config file given, using defaults and environment",
		})
	}

	if logFile == "" {
		logFile = cfg.LogFile
	}

	// 2. Log file
	result := checkLogFile(logFile)
	results = append(results, result)
	if result.Status != "error" {
		// 3. Encoding and markers
		results = append(results, checkLogContent(ctx, cfg, logFile, opts)...)
	}

	// 4. Output path
	results = append(results, checkOutputPath(cfg.OutputFile))

	// 5. Webhooks
	results = append(results, checkWebhooks(cfg, opts)...)

	printDiagnostics(w, results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'paccor4esp detect <log-file> --write-config paccor4esp.yaml' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Log file: %s", cfg.LogFile),
		fmt.Sprintf("Output file: %s", cfg.OutputFile),
		fmt.Sprintf("Encoding: %s", cfg.Encoding),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

func checkLogFile(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Log File: %s", path),
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		result.Status = "error"
		result.Message = "Log file containing platform snapshot not found"
		result.Suggests = []string{
			"Capture the ESP console output to this path",
			"Pass the log file as an argument or set log_file / PACCOR4ESP_LOG_FILE",
		}
	case err != nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access file: %v", err)
		result.Suggests = []string{"Check file permissions"}
	case info.IsDir():
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
	case info.Size() == 0:
		result.Status = "warning"
		result.Message = "File is empty (0 bytes); every field will be Not Specified"
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("File exists (%d bytes)", info.Size())
	}
	return result
}

func checkLogContent(ctx context.Context, cfg *config.Config, path string, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	detResult, err := detector.New().DetectFromFile(ctx, path)
	if err != nil {
		return append(results, DiagnosticResult{
			Check:   "Log Content",
			Status:  "error",
			Message: fmt.Sprintf("Cannot inspect file: %v", err),
		})
	}

	// Encoding
	guess := detResult.Encoding
	configured := cfg.Encoding.Resolve()
	enc := DiagnosticResult{
		Check:   "Encoding",
		Details: []string{fmt.Sprintf("Configured: %s (resolves to %s)", cfg.Encoding, configured)},
	}
	switch {
	case !guess.Supported:
		enc.Status = "error"
		enc.Message = fmt.Sprintf("Unsupported encoding: %s", guess.Reason)
		enc.Suggests = []string{"Re-capture the log as UTF-8 or UTF-16LE"}
	case guess.Encoding != configured:
		enc.Status = "warning"
		enc.Message = fmt.Sprintf("File looks like %s (%s) but %s will be used", guess.Encoding, guess.Reason, configured)
		enc.Suggests = []string{fmt.Sprintf("Use --encoding %s or set encoding: %s", guess.Encoding, guess.Encoding)}
	default:
		enc.Status = "ok"
		enc.Message = fmt.Sprintf("%s (%s)", guess.Encoding, guess.Reason)
	}
	results = append(results, enc)

	if !detResult.HasMarkers() {
		return append(results, DiagnosticResult{
			Check:   "Markers",
			Status:  "error",
			Message: fmt.Sprintf("No component markers found in %d lines", detResult.Lines),
			Suggests: []string{
				"Check that this is an ESP32 boot log",
				"Enable the allcomponents firmware module before capturing",
			},
		})
	}

	// Markers per category
	missingByCategory := map[string][]string{}
	for _, mc := range detResult.Missing() {
		key := string(mc.Category)
		missingByCategory[key] = append(missingByCategory[key], fmt.Sprintf("%s: expected %q", mc.Field, mc.Marker))
	}
	for _, cc := range detResult.Categories {
		r := DiagnosticResult{
			Check:   fmt.Sprintf("Markers: %s", cc.Category),
			Message: fmt.Sprintf("%d/%d markers found", cc.Found, cc.Total),
		}
		if cc.Complete() {
			r.Status = "ok"
			if opts.Verbose {
				for _, mc := range detResult.Coverage {
					if mc.Category == cc.Category {
						r.Details = append(r.Details, fmt.Sprintf("%s: %s", mc.Field, mc.Value))
					}
				}
			}
		} else {
			r.Status = "warning"
			r.Details = missingByCategory[string(cc.Category)]
		}
		results = append(results, r)
	}

	return results
}

func checkOutputPath(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Output: %s", path),
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		result.Status = "error"
		result.Message = "Output path is a directory"
		return result
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		result.Status = "ok"
		result.Message = fmt.Sprintf("Directory %s will be created", dir)
	case err != nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access directory: %v", err)
	case !info.IsDir():
		result.Status = "error"
		result.Message = fmt.Sprintf("%s is not a directory", dir)
	default:
		result.Status = "ok"
		result.Message = "Output directory exists (file will be overwritten)"
	}
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== paccor4esp Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before generating a component list.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nGeneration will work, but some fields will be Not Specified.")
	} else {
		fmt.Fprintln(w, "\nEverything looks good!")
	}
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	// Load already rejected invalid URLs and triggers
	for _, wh := range cfg.Webhooks {
		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", webhookName(wh)),
			Status:  "ok",
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
		}

		if wh.Token == "" && strings.HasPrefix(wh.URL, "http://") {
			result.Status = "warning"
			result.Message = "Plain HTTP endpoint without a token"
		}
		if opts.Verbose {
			result.Details = []string{
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
				fmt.Sprintf("Retries: %d", wh.Retries),
			}
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}
		results = append(results, result)
	}

	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			result := checkWebhookConnectivity(wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", webhookName(wh))
			results = append(results, result)
		}
	}

	return results
}

func webhookName(wh config.WebhookConfig) string {
	if wh.Name != "" {
		return wh.Name
	}
	return wh.URL
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// A HEAD request is enough to see if the endpoint is reachable
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}
	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may only accept POST (the actual delivery uses POST)",
			"Check authentication if using a token",
		}
	}

	return result
}
