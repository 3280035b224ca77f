package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paccor4esp/paccor4esp/pkg/config"
	"github.com/paccor4esp/paccor4esp/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect encoding and component markers in an ESP log",
		Long: `Inspect an ESP console capture before generating a component list.

Guesses the text encoding from the first bytes of the file, then searches the
decoded text for every marker the generator looks for and reports which ones
are present per category.

Optionally generates a starter config file with --write-config.

Example:
  paccor4esp detect esp_logfile.txt
  paccor4esp detect --all esp_logfile.txt
  paccor4esp detect -w paccor4esp.yaml esp_logfile.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 4096, "Number of bytes used to guess the encoding")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "List every marker with its value, not just the missing ones")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(cmd.OutOrStdout(), result, logFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(cmd.OutOrStdout(), result, logFile, opts)
	case "text":
		return outputDetectText(cmd.OutOrStdout(), result, logFile, opts)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== ESP Log Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s (%d bytes, %d lines)\n", logFile, result.Size, result.Lines)
	fmt.Fprintf(w, "Encoding: %s (%s)\n", result.Encoding.Encoding, result.Encoding.Reason)
	if !result.Encoding.Supported {
		fmt.Fprintln(w, "WARNING: This encoding cannot be decoded; markers were searched as UTF-8.")
	}
	fmt.Fprintf(w, "Markers found: %d/%d\n", result.Found(), len(result.Coverage))
	fmt.Fprintln(w)

	if !result.HasMarkers() {
		fmt.Fprintln(w, "No component markers detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: Capture the full boot log with the allcomponents firmware module enabled.")
		return nil
	}

	for _, cc := range result.Categories {
		fmt.Fprintf(w, "  %-10s %d/%d\n", cc.Category, cc.Found, cc.Total)
	}
	fmt.Fprintln(w)

	if opts.ShowAll {
		fmt.Fprintln(w, "--- Markers ---")
		for _, mc := range result.Coverage {
			value := mc.Value
			if !mc.Found {
				value = "(missing)"
			}
			fmt.Fprintf(w, "%s %s [%s]: %s\n", mc.Category, mc.Field, mc.Marker, value)
		}
		fmt.Fprintln(w)
		return nil
	}

	if missing := result.Missing(); len(missing) > 0 {
		fmt.Fprintln(w, "--- Missing markers ---")
		for _, mc := range missing {
			fmt.Fprintf(w, "%s %s: expected %q\n", mc.Category, mc.Field, mc.Marker)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMarker represents one marker in JSON output.
type JSONMarker struct {
	Category string `json:"category"`
	Field    string `json:"field"`
	Marker   string `json:"marker"`
	Found    bool   `json:"found"`
	Value    string `json:"value,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File      string       `json:"file"`
	Encoding  string       `json:"encoding"`
	Supported bool         `json:"supported"`
	Reason    string       `json:"reason"`
	Size      int          `json:"size"`
	Lines     int          `json:"lines"`
	Found     int          `json:"found"`
	Total     int          `json:"total"`
	Markers   []JSONMarker `json:"markers"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:      logFile,
		Encoding:  string(result.Encoding.Encoding),
		Supported: result.Encoding.Supported,
		Reason:    result.Encoding.Reason,
		Size:      result.Size,
		Lines:     result.Lines,
		Found:     result.Found(),
		Total:     len(result.Coverage),
		Markers:   make([]JSONMarker, 0),
	}

	for _, mc := range result.Coverage {
		if mc.Found && !opts.ShowAll {
			continue
		}
		out.Markers = append(out.Markers, JSONMarker{
			Category: string(mc.Category),
			Field:    string(mc.Field),
			Marker:   mc.Marker,
			Found:    mc.Found,
			Value:    mc.Value,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file for the inspected log.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, logFile, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.Encoding.Supported {
		return fmt.Errorf("cannot generate config: %s", result.Encoding.Reason)
	}

	content := generateStarterConfig(logFile, result)

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(logFile string, result *detector.DetectionResult) string {
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	return fmt.Sprintf(`# paccor4esp configuration
# Generated by: paccor4esp detect
# Detected encoding: %s (%s)
# Markers found: %d/%d

log_file: %q
output_file: %q
encoding: %s
platform_manufacturer: %q
diagnostic_log: %q

# webhooks:
#   - name: attestation-server
#     url: https://example.com/componentlists
#     token: ${PACCOR4ESP_WEBHOOK_TOKEN}
#     trigger: complete
#     timeout: 10s
#     retries: 3
`, result.Encoding.Encoding, result.Encoding.Reason,
		result.Found(), len(result.Coverage),
		absLogFile,
		config.DefaultOutputFile,
		result.Encoding.Encoding,
		config.DefaultPlatformManufacturer,
		config.DefaultDiagnosticLog)
}
