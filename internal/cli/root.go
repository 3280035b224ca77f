// Package cli provides the command-line interface for paccor4esp.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paccor4esp/paccor4esp/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		// SilenceErrors prevents Cobra from printing this
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command. Without a subcommand it
// behaves like generate.
func NewRootCommand() *cobra.Command {
	opts := &commands.GenerateOptions{}

	rootCmd := &cobra.Command{
		Use:   "paccor4esp",
		Short: "Build a TCG component list from an ESP32 boot log",
		Long: `paccor4esp reads the console output of an ESP32 board and writes the
component list used to request a TCG platform certificate.

It extracts platform identity and ten component records:
  CPU, FLASH, ETHERNET, WIFI, BLUETOOTH, FIRMWARE, BOOTLOADER, ELF, EFUSE, GPIO

Markers missing from the log are reported as "Not Specified" rather than
failing the run. Run 'paccor4esp diagnose' to see which markers a log has.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunGenerate(cmd, opts)
		},
	}
	commands.BindGenerateFlags(rootCmd, opts)

	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
