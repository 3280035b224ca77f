package output

import (
	"context"
	"io"

	"github.com/paccor4esp/paccor4esp/pkg/componentlist"
)

// JSONFormatter writes the component list document itself.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes the serialized document exactly as it is stored on disk.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	data, err := componentlist.Marshal(report.Document)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
