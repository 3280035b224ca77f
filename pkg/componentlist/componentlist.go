package componentlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/paccor4esp/paccor4esp/pkg/extractor"
)

// DefaultPlatformManufacturer is used when no manufacturer is configured.
const DefaultPlatformManufacturer = "Espressif"

// Option configures Construct.
type Option func(*builder)

type builder struct {
	manufacturer string
}

// WithPlatformManufacturer sets PLATFORMMANUFACTURERSTR.
func WithPlatformManufacturer(name string) Option {
	return func(b *builder) {
		if name != "" {
			b.manufacturer = name
		}
	}
}

// GeneratePlatform builds the PLATFORM object.
func GeneratePlatform(manufacturer string, f extractor.PlatformFields) Platform {
	return Platform{
		Manufacturer: manufacturer,
		Model:        f.Model,
		Version:      f.Version,
		Serial:       f.Serial,
	}
}

// GenerateComponent builds one COMPONENTS entry. Only the keys the schema
// carries are emitted.
func GenerateComponent(s Schema, f extractor.Fields) Component {
	c := Component{
		Class: ComponentClass{
			Registry: RegistryTCG,
			Value:    s.ClassValue,
		},
		Manufacturer: f.Manufacturer,
		Model:        f.Model,
		Serial:       f.Serial,
	}
	if s.HasRevision {
		rev := f.Revision
		c.Revision = &rev
	}
	if s.HasFieldReplaceable {
		fr := f.FieldReplaceable
		c.FieldReplaceable = &fr
	}
	if s.Address != AddressNone {
		c.Addresses = []Address{{Kind: s.Address, Value: f.MAC}}
	}
	return c
}

// GenerateProperty returns the placeholder platform property.
func GenerateProperty() Property {
	return Property{Name: "test", Value: "test"}
}

// Construct builds the document from an extraction result. Components are
// emitted in extractor.ComponentCategories order.
func Construct(result *extractor.Result, opts ...Option) (*Document, error) {
	b := &builder{manufacturer: DefaultPlatformManufacturer}
	for _, opt := range opts {
		opt(b)
	}

	doc := &Document{
		Platform:   GeneratePlatform(b.manufacturer, result.Platform),
		Components: make([]Component, 0, len(extractor.ComponentCategories)),
		Properties: []Property{GenerateProperty()},
	}

	for _, c := range extractor.ComponentCategories {
		s, ok := SchemaFor(c)
		if !ok {
			return nil, fmt.Errorf("no schema for category %s", c)
		}
		fields, ok := result.Components[c]
		if !ok {
			return nil, fmt.Errorf("no fields extracted for category %s", c)
		}
		doc.Components = append(doc.Components, GenerateComponent(s, fields))
	}

	return doc, nil
}

// Marshal serializes doc with 4-space indentation and no trailing newline.
// Non-ASCII characters are written as \uXXXX escapes.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding component list: %w", err)
	}
	return escapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// escapeNonASCII rewrites every rune above U+007F as a JSON \u escape, using
// surrogate pairs outside the BMP. Valid JSON only holds such runes inside
// strings, so the rewrite is safe on encoder output.
func escapeNonASCII(b []byte) []byte {
	ascii := true
	for _, c := range b {
		if c >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return b
	}

	out := make([]byte, 0, len(b)+16)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		switch {
		case r < utf8.RuneSelf:
			out = append(out, byte(r))
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, r1, r2)
		default:
			out = fmt.Appendf(out, `\u%04x`, r)
		}
	}
	return out
}
