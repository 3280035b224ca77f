// Package logtext loads an ESP console capture into memory as a single string.
package logtext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/paccor4esp/paccor4esp/pkg/config"
)

// ErrNotFound is returned when the log file does not exist.
var ErrNotFound = errors.New("log file containing platform snapshot not found")

// Text is the full content of a log file after decoding and newline
// normalization.
type Text struct {
	// Content is the decoded log text.
	Content string

	// Source is the file path the text came from.
	Source string

	// Encoding is the concrete encoding used to decode the file.
	Encoding config.Encoding

	// Size is the number of bytes read from disk.
	Size int
}

// Load reads the whole file at path and decodes it with enc.
// EncodingAuto is resolved for the current host; the content is never sniffed.
func Load(ctx context.Context, path string, enc config.Encoding) (*Text, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	resolved := enc.Resolve()
	content, err := Decode(raw, resolved)
	if err != nil {
		return nil, fmt.Errorf("decoding %s as %s: %w", path, resolved, err)
	}

	return &Text{
		Content:  content,
		Source:   path,
		Encoding: resolved,
		Size:     len(raw),
	}, nil
}

// Decode converts raw bytes to text and normalizes line endings.
func Decode(raw []byte, enc config.Encoding) (string, error) {
	var s string
	switch enc {
	case config.EncodingUTF16:
		// A BOM selects the byte order; without one, little-endian is assumed.
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, raw)
		if err != nil {
			return "", err
		}
		s = string(out)
	case config.EncodingUTF8, config.EncodingAuto, "":
		s = string(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")))
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
	return NormalizeNewlines(s), nil
}

// NormalizeNewlines rewrites "\r\n" and lone "\r" as "\n".
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
