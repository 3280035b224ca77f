package detector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paccor4esp/paccor4esp/pkg/config"
	"github.com/paccor4esp/paccor4esp/pkg/extractor"
	"github.com/paccor4esp/paccor4esp/pkg/logtext"
)

func TestGuessEncoding(t *testing.T) {
	tests := []struct {
		name          string
		sample        []byte
		want          config.Encoding
		wantSupported bool
	}{
		{"empty", nil, config.EncodingUTF8, true},
		{"ascii", []byte("I (600) BASE_MAC: 24:0A:C4:12:34:56\n"), config.EncodingUTF8, true},
		{"utf-8 bom", []byte("\xef\xbb\xbfCHIP_ID: 1"), config.EncodingUTF8, true},
		{"utf-16le bom", []byte{0xff, 0xfe, 'C', 0, 'H', 0}, config.EncodingUTF16, true},
		{"utf-16be bom", []byte{0xfe, 0xff, 0, 'C', 0, 'H'}, config.EncodingUTF16, true},
		{"utf-16le no bom", utf16le("CHIP_ID: 1\r\n"), config.EncodingUTF16, true},
		{"utf-16be no bom", []byte{0, 'C', 0, 'H', 0, 'I', 0, 'P'}, config.EncodingUTF16, false},
		{"invalid utf-8", []byte("CHIP_ID: \xff\xfe\xfd"), config.EncodingUTF8, false},
		{"multibyte cut at end", []byte("Gr\xc3\xbcbl \xc3"), config.EncodingUTF8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GuessEncoding(tt.sample)
			if got.Encoding != tt.want {
				t.Errorf("Encoding = %q, want %q (%s)", got.Encoding, tt.want, got.Reason)
			}
			if got.Supported != tt.wantSupported {
				t.Errorf("Supported = %v, want %v (%s)", got.Supported, tt.wantSupported, got.Reason)
			}
			if got.Reason == "" {
				t.Error("Reason is empty")
			}
		})
	}
}

func TestDetector_DetectFromFile_Fixture(t *testing.T) {
	path := filepath.Join("..", "extractor", "testdata", "esp_logfile.txt")

	result, err := New().DetectFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DetectFromFile() error = %v", err)
	}

	if result.Encoding.Encoding != config.EncodingUTF8 {
		t.Errorf("Encoding = %q, want utf-8", result.Encoding.Encoding)
	}
	if len(result.Coverage) != 28 {
		t.Errorf("Coverage = %d entries, want 28", len(result.Coverage))
	}
	if result.Found() != 28 {
		t.Errorf("Found() = %d, want 28; missing %v", result.Found(), result.Missing())
	}
	if len(result.Categories) != len(extractor.AllCategories) {
		t.Fatalf("Categories = %d, want %d", len(result.Categories), len(extractor.AllCategories))
	}
	for _, cc := range result.Categories {
		if !cc.Complete() {
			t.Errorf("%s: %d/%d markers", cc.Category, cc.Found, cc.Total)
		}
	}
	if result.Lines == 0 {
		t.Error("Lines = 0")
	}
}

func TestDetector_DetectFromFile_UTF16(t *testing.T) {
	content := "Model Number: ESP32\r\nGPIO VALID PINS: 1, 0\r\n"
	path := filepath.Join(t.TempDir(), "esp_logfile.txt")
	if err := os.WriteFile(path, append([]byte{0xff, 0xfe}, utf16le(content)...), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := New().DetectFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DetectFromFile() error = %v", err)
	}

	if result.Encoding.Encoding != config.EncodingUTF16 {
		t.Errorf("Encoding = %q, want utf-16", result.Encoding.Encoding)
	}
	if result.Found() != 2 {
		t.Errorf("Found() = %d, want 2", result.Found())
	}
	if result.Lines != 2 {
		t.Errorf("Lines = %d, want 2", result.Lines)
	}
	if result.Coverage[0].Value != "ESP32" {
		t.Errorf("PLATFORM model value = %q, want ESP32", result.Coverage[0].Value)
	}
}

func TestDetector_DetectFromFile_NotFound(t *testing.T) {
	_, err := New().DetectFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, logtext.ErrNotFound) {
		t.Errorf("DetectFromFile() error = %v, want ErrNotFound", err)
	}
}

func TestDetector_DetectFromText_NoMarkers(t *testing.T) {
	result := New().DetectFromText("rst:0x1 (POWERON_RESET)\n")

	if result.HasMarkers() {
		t.Error("HasMarkers() = true, want false")
	}
	if got := len(result.Missing()); got != 28 {
		t.Errorf("Missing() = %d, want 28", got)
	}
	for _, cc := range result.Categories {
		if cc.Found != 0 || cc.Total == 0 {
			t.Errorf("%s: %d/%d", cc.Category, cc.Found, cc.Total)
		}
	}
}

func TestWithSampleSize(t *testing.T) {
	d := New(WithSampleSize(2))
	if d.sampleSize != 2 {
		t.Errorf("sampleSize = %d, want 2", d.sampleSize)
	}

	d = New(WithSampleSize(-1))
	if d.sampleSize != 4096 {
		t.Errorf("sampleSize = %d, want default 4096", d.sampleSize)
	}
}

func utf16le(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}
