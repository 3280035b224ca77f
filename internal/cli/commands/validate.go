package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paccor4esp/paccor4esp/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a paccor4esp configuration file without generating anything.

Checks:
  - YAML syntax
  - Required fields
  - Encoding name
  - Webhook URLs and triggers
  - Log file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Log file:              %s\n", cfg.LogFile)
	fmt.Fprintf(w, "  Output file:           %s\n", cfg.OutputFile)
	fmt.Fprintf(w, "  Encoding:              %s (resolves to %s)\n", cfg.Encoding, cfg.Encoding.Resolve())
	fmt.Fprintf(w, "  Platform manufacturer: %s\n", cfg.PlatformManufacturer)
	fmt.Fprintf(w, "  Diagnostic log:        %s\n", cfg.DiagnosticLog)
	fmt.Fprintf(w, "  Webhooks:              %d\n", len(cfg.Webhooks))

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, wh.Trigger, webhookName(wh))
		}
	}

	// Log file existence is a warning only
	if info, err := os.Stat(cfg.LogFile); err != nil {
		fmt.Fprintf(w, "\nWarning: Log file not accessible: %s\n", cfg.LogFile)
	} else if info.IsDir() {
		fmt.Fprintf(w, "\nWarning: Log file is a directory: %s\n", cfg.LogFile)
	}

	return nil
}
