package extractor

import (
	"context"
	"strings"

	"k8s.io/klog/v2"
)

// NotDefined is the fixed revision of components that report none.
const NotDefined = "Not defined"

// PlatformFields is the named view of the PLATFORM matches.
type PlatformFields struct {
	Model   string
	Version string
	Serial  string
}

// Fields is the named view of one component category after post-processing.
// Revision and FieldReplaceable are empty for categories that do not carry
// them; MAC is empty for components without a network address.
type Fields struct {
	Manufacturer     string
	Model            string
	Serial           string
	Revision         string
	FieldReplaceable string
	MAC              string
}

// Miss identifies a pattern that found nothing.
type Miss struct {
	Category Category
	Field    FieldName
}

// Result holds everything extracted from one log.
type Result struct {
	// Raw holds one entry per pattern, in table order, per category.
	Raw map[Category][]string

	Platform   PlatformFields
	Components map[Category]Fields
}

// Missing lists the patterns whose raw match is NotSpecified, in table order.
func (r *Result) Missing() []Miss {
	var misses []Miss
	for _, c := range AllCategories {
		patterns := Patterns(c)
		for i, v := range r.Raw[c] {
			if v == NotSpecified && i < len(patterns) {
				misses = append(misses, Miss{Category: c, Field: patterns[i].Field})
			}
		}
	}
	return misses
}

// Extractor applies the pattern table to log text.
type Extractor struct {
	table map[Category][]*Pattern
}

// New creates an Extractor over the built-in pattern table.
func New() *Extractor {
	return &Extractor{table: patternTable}
}

// MatchPatterns returns the first capture of each pattern in text, or
// NotSpecified where a pattern does not match. The result has the same
// length and order as patterns.
func MatchPatterns(patterns []*Pattern, text string) []string {
	data := make([]string, 0, len(patterns))
	for _, p := range patterns {
		m := p.Expr.FindStringSubmatch(text)
		if m == nil {
			klog.V(2).Infof("%s: %s", p.Field, NotSpecified)
			data = append(data, NotSpecified)
			continue
		}
		klog.V(2).Infof("%s: %s", p.Field, m[1])
		data = append(data, m[1])
	}
	return data
}

// Extract runs every category against text. It only fails if ctx is done.
func (e *Extractor) Extract(ctx context.Context, text string) (*Result, error) {
	result := &Result{
		Raw:        make(map[Category][]string, len(AllCategories)),
		Components: make(map[Category]Fields, len(ComponentCategories)),
	}

	for _, c := range AllCategories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		klog.V(1).Infof("Extracting %s fields", c)
		result.Raw[c] = MatchPatterns(e.table[c], text)
	}

	named := func(c Category) map[FieldName]string {
		m := make(map[FieldName]string, len(e.table[c]))
		for i, p := range e.table[c] {
			m[p.Field] = result.Raw[c][i]
		}
		return m
	}

	p := named(CategoryPlatform)
	result.Platform = PlatformFields{
		Model:   p[FieldModel],
		Version: p[FieldVersion],
		Serial:  p[FieldSerial],
	}

	for _, c := range ComponentCategories {
		result.Components[c] = postProcess(c, named(c))
	}

	return result, nil
}

func postProcess(c Category, v map[FieldName]string) Fields {
	switch c {
	case CategoryCPU:
		return Fields{
			Manufacturer:     v[FieldManufacturer],
			Model:            v[FieldCores] + " " + v[FieldFrequency] + " Hz",
			Serial:           v[FieldSerial],
			Revision:         v[FieldRevision],
			FieldReplaceable: "false",
		}
	case CategoryFlash:
		return Fields{
			Manufacturer:     v[FieldManufacturer],
			Model:            v[FieldModel],
			Serial:           v[FieldSerial],
			Revision:         NotDefined,
			FieldReplaceable: "false",
		}
	case CategoryEthernet:
		// The PHY match is "<version>,<build hash>"; the model is the hash.
		model := v[FieldModel]
		if _, hash, ok := strings.Cut(model, ","); ok {
			model = hash
		}
		return Fields{
			Manufacturer:     v[FieldManufacturer],
			Model:            model,
			Serial:           v[FieldSerial],
			Revision:         v[FieldRevision],
			FieldReplaceable: "true",
			MAC:              v[FieldSerial],
		}
	case CategoryWiFi:
		return Fields{
			Manufacturer:     v[FieldManufacturer],
			Model:            v[FieldModel],
			Serial:           v[FieldSerial],
			Revision:         v[FieldRevision],
			FieldReplaceable: "true",
			MAC:              v[FieldSerial],
		}
	case CategoryBluetooth:
		return Fields{
			Manufacturer:     v[FieldManufacturer],
			Model:            v[FieldModel],
			Serial:           v[FieldSerial],
			Revision:         NotDefined,
			FieldReplaceable: "false",
			MAC:              v[FieldSerial],
		}
	case CategoryGPIO:
		return Fields{
			Manufacturer: NotSpecified,
			Model:        v[FieldModel],
			Serial:       v[FieldSerial],
		}
	default:
		// checksum-only components
		return Fields{
			Manufacturer: NotSpecified,
			Model:        NotSpecified,
			Serial:       v[FieldSerial],
		}
	}
}

// MarkerCoverage reports whether one pattern matched.
type MarkerCoverage struct {
	Category Category
	Field    FieldName
	Marker   string
	Found    bool
	Value    string
}

// Coverage reports, for every pattern in table order, whether its marker
// matched in text.
func (e *Extractor) Coverage(text string) []MarkerCoverage {
	var out []MarkerCoverage
	for _, c := range AllCategories {
		for _, p := range e.table[c] {
			mc := MarkerCoverage{Category: c, Field: p.Field, Marker: strings.TrimSpace(p.Marker)}
			if m := p.Expr.FindStringSubmatch(text); m != nil {
				mc.Found = true
				mc.Value = m[1]
			}
			out = append(out, mc)
		}
	}
	return out
}
