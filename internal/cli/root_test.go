package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paccor4esp/paccor4esp/internal/cli/commands"
)

func TestNewRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	want := []string{"generate", "detect", "diagnose", "validate", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if !root.SilenceUsage || !root.SilenceErrors {
		t.Error("root must silence usage and errors")
	}
}

func TestRootCommand_RunsGenerate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pc_testgen", "localhost-componentlist.json")
	commands.ExitCode = 0

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"--log-file", filepath.Join("commands", "testdata", "esp_logfile.txt"),
		"--output-file", out,
		"--diagnostic-log", filepath.Join(dir, "paccor4esp.log"),
		"--encoding", "utf-8",
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	want, err := os.ReadFile(filepath.Join("commands", "testdata", "esp32-componentlist.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Error("root command output differs from generate golden file")
	}
}

func TestRootCommand_MissingLog(t *testing.T) {
	dir := t.TempDir()
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"--log-file", filepath.Join(dir, "missing.txt"),
		"--output-file", filepath.Join(dir, "out.json"),
		"--diagnostic-log", filepath.Join(dir, "paccor4esp.log"),
	})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error for missing log file")
	}
	if _, err := os.Stat(filepath.Join(dir, "out.json")); !os.IsNotExist(err) {
		t.Error("output file created for missing log")
	}
}
