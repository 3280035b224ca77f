package output

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/paccor4esp/paccor4esp/pkg/componentlist"
	"github.com/paccor4esp/paccor4esp/pkg/extractor"
)

var (
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleSection = lipgloss.NewStyle().Foreground(lipgloss.Color("39")) // cyan
	styleLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleMissing = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // yellow
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // green
)

// TextFormatter prints a human-readable summary of the component list.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "paccor4esp: %d components, %d of %d fields missing\n",
		report.Summary.Components,
		report.Summary.MissingFields,
		report.Summary.FieldsChecked)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, styleHeader.Render("=== paccor4esp Component List ==="))
	fmt.Fprintln(w)

	doc := report.Document
	if doc != nil {
		fmt.Fprintln(w, styleSection.Render("[PLATFORM]"))
		writeField(w, "Manufacturer", doc.Platform.Manufacturer)
		writeField(w, "Model", doc.Platform.Model)
		writeField(w, "Version", doc.Platform.Version)
		writeField(w, "Serial", doc.Platform.Serial)
		fmt.Fprintln(w)

		for i, c := range doc.Components {
			f.formatComponent(w, componentName(i), c)
		}
	}

	if len(report.Missing) > 0 {
		fmt.Fprintln(w, styleMissing.Render(fmt.Sprintf("Missing markers (%d):", len(report.Missing))))
		for _, m := range report.Missing {
			fmt.Fprintf(w, "  - %s %s\n", m.Category, m.Field)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	status := styleOK.Render("complete")
	if !report.Complete() {
		status = styleMissing.Render("incomplete")
	}
	fmt.Fprintf(w, "Summary: %d components, %d of %d fields missing (%s)\n",
		report.Summary.Components,
		report.Summary.MissingFields,
		report.Summary.FieldsChecked,
		status)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Log file: %s (%s)\n", report.Metadata.LogFile, report.Metadata.Encoding)
		if report.Metadata.OutputFile != "" {
			fmt.Fprintf(w, "Output file: %s\n", report.Metadata.OutputFile)
		}
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatComponent(w io.Writer, name string, c componentlist.Component) {
	fmt.Fprintf(w, "%s %s\n", styleSection.Render("["+name+"]"), styleLabel.Render(c.Class.Value))
	writeField(w, "Manufacturer", c.Manufacturer)
	writeField(w, "Model", c.Model)
	writeField(w, "Serial", c.Serial)
	if c.Revision != nil {
		writeField(w, "Revision", *c.Revision)
	}
	if c.FieldReplaceable != nil && f.opts.Verbose {
		writeField(w, "Field replaceable", *c.FieldReplaceable)
	}
	for _, a := range c.Addresses {
		writeField(w, a.Kind.Key(), a.Value)
	}
	fmt.Fprintln(w)
}

func writeField(w io.Writer, label, value string) {
	v := value
	if value == extractor.NotSpecified {
		v = styleMissing.Render(value)
	}
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render(label+":"), v)
}

// componentName labels the i-th component; documents list components in
// extractor.ComponentCategories order.
func componentName(i int) string {
	if i < len(extractor.ComponentCategories) {
		return string(extractor.ComponentCategories[i])
	}
	return fmt.Sprintf("COMPONENT %d", i+1)
}
