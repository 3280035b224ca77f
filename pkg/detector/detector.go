// Package detector inspects ESP console captures and reports which markers
// they contain.
package detector

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/paccor4esp/paccor4esp/pkg/config"
	"github.com/paccor4esp/paccor4esp/pkg/extractor"
	"github.com/paccor4esp/paccor4esp/pkg/logtext"
)

// DetectionResult holds the result of inspecting a log file.
type DetectionResult struct {
	Encoding   EncodingGuess
	Coverage   []extractor.MarkerCoverage // One entry per pattern, table order
	Categories []CategoryCoverage         // One entry per category, table order
	Size       int                        // Bytes read
	Lines      int                        // Lines after decoding
}

// CategoryCoverage counts the markers found for one category.
type CategoryCoverage struct {
	Category extractor.Category
	Found    int
	Total    int
}

// Complete returns true if every marker of the category was found.
func (c CategoryCoverage) Complete() bool {
	return c.Found == c.Total
}

// Detector inspects log files for encoding and marker coverage.
type Detector struct {
	extractor  *extractor.Extractor
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets how many leading bytes are used to guess the encoding
// (default 4096).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector over the built-in pattern table.
func New(opts ...Option) *Detector {
	d := &Detector{
		extractor:  extractor.New(),
		sampleSize: 4096,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile reads a log file and inspects it.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- path is provided by user via CLI
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", logtext.ErrNotFound, path)
		}
		return nil, err
	}
	return d.DetectFromBytes(raw)
}

// DetectFromBytes inspects raw file content. The content is decoded with the
// guessed encoding before the markers are searched.
func (d *Detector) DetectFromBytes(raw []byte) (*DetectionResult, error) {
	sample := raw
	if len(sample) > d.sampleSize {
		sample = sample[:d.sampleSize]
	}

	result := &DetectionResult{
		Encoding: GuessEncoding(sample),
		Size:     len(raw),
	}

	enc := result.Encoding.Encoding
	if !result.Encoding.Supported {
		enc = config.EncodingUTF8
	}
	text, err := logtext.Decode(raw, enc)
	if err != nil {
		return nil, fmt.Errorf("decoding as %s: %w", enc, err)
	}
	result.Lines = countLines(text)

	return d.inspect(result, text), nil
}

// DetectFromText inspects already decoded text.
func (d *Detector) DetectFromText(text string) *DetectionResult {
	result := &DetectionResult{
		Encoding: EncodingGuess{Encoding: config.EncodingUTF8, Reason: "decoded text", Supported: true},
		Size:     len(text),
		Lines:    countLines(text),
	}
	return d.inspect(result, text)
}

func (d *Detector) inspect(result *DetectionResult, text string) *DetectionResult {
	result.Coverage = d.extractor.Coverage(text)

	index := make(map[extractor.Category]int, len(extractor.AllCategories))
	for _, c := range extractor.AllCategories {
		index[c] = len(result.Categories)
		result.Categories = append(result.Categories, CategoryCoverage{Category: c})
	}
	for _, mc := range result.Coverage {
		cc := &result.Categories[index[mc.Category]]
		cc.Total++
		if mc.Found {
			cc.Found++
		}
	}
	return result
}

// Found returns the number of markers present in the log.
func (r *DetectionResult) Found() int {
	n := 0
	for _, mc := range r.Coverage {
		if mc.Found {
			n++
		}
	}
	return n
}

// Missing returns the markers absent from the log, in table order.
func (r *DetectionResult) Missing() []extractor.MarkerCoverage {
	var missing []extractor.MarkerCoverage
	for _, mc := range r.Coverage {
		if !mc.Found {
			missing = append(missing, mc)
		}
	}
	return missing
}

// HasMarkers returns true if at least one marker was found.
func (r *DetectionResult) HasMarkers() bool {
	return r.Found() > 0
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
