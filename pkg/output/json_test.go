package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/paccor4esp/paccor4esp/pkg/componentlist"
	"github.com/paccor4esp/paccor4esp/pkg/config"
	"github.com/paccor4esp/paccor4esp/pkg/extractor"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := createTestReport(t, "Model Number: ESP32\nBASE_MAC: 24:0A:C4:12:34:56\n")

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want, err := componentlist.Marshal(report.Document)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Format() output differs from Marshal():\n%s", buf.String())
	}

	var parsed componentlist.Document
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if parsed.Platform.Model != "ESP32" {
		t.Errorf("PLATFORMMODEL = %q, want ESP32", parsed.Platform.Model)
	}
	if len(parsed.Components) != 10 {
		t.Errorf("len(COMPONENTS) = %d, want 10", len(parsed.Components))
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"text", "json"} {
		f, err := New(name, FormatOptions{})
		if err != nil {
			t.Fatalf("New(%q) error = %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, f.Name())
		}
	}

	if _, err := New("xml", FormatOptions{}); err == nil {
		t.Error("New(xml) expected error")
	}
}

func TestNewReport(t *testing.T) {
	report := createTestReport(t, "FLASH_SIZE: 4MB\n")

	if report.Summary.Components != 10 {
		t.Errorf("Components = %d, want 10", report.Summary.Components)
	}
	if report.Summary.FieldsChecked != 28 {
		t.Errorf("FieldsChecked = %d, want 28", report.Summary.FieldsChecked)
	}
	if report.Summary.MissingFields != 27 {
		t.Errorf("MissingFields = %d, want 27", report.Summary.MissingFields)
	}
	if report.Complete() {
		t.Error("Complete() = true, want false")
	}
}

func createTestReport(t *testing.T, log string) *Report {
	t.Helper()

	result, err := extractor.New().Extract(context.Background(), log)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	doc, err := componentlist.Construct(result)
	if err != nil {
		t.Fatalf("Construct() error = %v", err)
	}

	return NewReport(doc, result, Metadata{
		LogFile:     "esp_logfile.txt",
		OutputFile:  "pc_testgen/localhost-componentlist.json",
		Encoding:    config.EncodingUTF8,
		GeneratedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Duration:    12 * time.Millisecond,
	})
}
