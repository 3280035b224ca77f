// Package output renders generated component lists.
package output

import (
	"time"

	"github.com/paccor4esp/paccor4esp/pkg/componentlist"
	"github.com/paccor4esp/paccor4esp/pkg/config"
	"github.com/paccor4esp/paccor4esp/pkg/extractor"
)

// Report is the complete result of one generate run.
type Report struct {
	// Document is the component list written to the output file.
	Document *componentlist.Document

	// Missing lists the markers that were not found in the log.
	Missing []extractor.Miss

	// Summary provides aggregate statistics.
	Summary Summary

	// Metadata provides context about the run.
	Metadata Metadata
}

// Summary provides aggregate statistics.
type Summary struct {
	// Components is the number of component records in the document.
	Components int

	// FieldsChecked is the number of markers searched for.
	FieldsChecked int

	// MissingFields is the number of markers that were not found.
	MissingFields int
}

// Metadata provides context about the run.
type Metadata struct {
	LogFile     string
	OutputFile  string
	Encoding    config.Encoding
	GeneratedAt time.Time
	Duration    time.Duration
}

// NewReport creates a Report from a document and the extraction it was built
// from.
func NewReport(doc *componentlist.Document, result *extractor.Result, meta Metadata) *Report {
	missing := result.Missing()

	checked := 0
	for _, raw := range result.Raw {
		checked += len(raw)
	}

	return &Report{
		Document: doc,
		Missing:  missing,
		Summary: Summary{
			Components:    len(doc.Components),
			FieldsChecked: checked,
			MissingFields: len(missing),
		},
		Metadata: meta,
	}
}

// Complete returns true if every marker was found.
func (r *Report) Complete() bool {
	return r.Summary.MissingFields == 0
}
