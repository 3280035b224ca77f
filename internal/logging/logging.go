// Package logging routes klog output to the diagnostic log file.
package logging

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"k8s.io/klog/v2"
)

// Options configures Setup.
type Options struct {
	// File receives every log line; an empty File discards them.
	File string

	// Verbosity is the klog -v level. 1 traces categories, 2 traces every
	// pattern match.
	Verbosity int

	// AlsoToStderr mirrors log lines to stderr.
	AlsoToStderr bool
}

// Setup configures klog and returns a function that flushes and closes the
// log file. Lines are appended; missing parent directories are created.
func Setup(opts Options) (func() error, error) {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)

	settings := []struct{ name, value string }{
		{"logtostderr", "false"},
		{"alsologtostderr", strconv.FormatBool(opts.AlsoToStderr)},
		{"one_output", "true"},
		{"stderrthreshold", "FATAL"},
		{"v", strconv.Itoa(opts.Verbosity)},
	}
	for _, s := range settings {
		if err := fs.Set(s.name, s.value); err != nil {
			return nil, fmt.Errorf("setting klog flag %s: %w", s.name, err)
		}
	}

	if opts.File == "" {
		klog.SetOutput(io.Discard)
		return func() error { return nil }, nil
	}

	if dir := filepath.Dir(opts.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating diagnostic log directory: %w", err)
		}
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) // #nosec G304 -- configured path
	if err != nil {
		return nil, fmt.Errorf("opening diagnostic log: %w", err)
	}
	klog.SetOutput(f)

	return func() error {
		klog.Flush()
		klog.SetOutput(io.Discard)
		return f.Close()
	}, nil
}
