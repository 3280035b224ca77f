package detector

import (
	"bytes"
	"unicode/utf8"

	"github.com/paccor4esp/paccor4esp/pkg/config"
)

// EncodingGuess is the detector's best guess at a file's text encoding.
type EncodingGuess struct {
	Encoding config.Encoding
	Reason   string

	// Supported is false when the file looks like an encoding the loader
	// cannot decode.
	Supported bool
}

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// GuessEncoding inspects the first bytes of a file.
func GuessEncoding(sample []byte) EncodingGuess {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return EncodingGuess{config.EncodingUTF8, "UTF-8 byte order mark", true}
	case bytes.HasPrefix(sample, bomUTF16LE):
		return EncodingGuess{config.EncodingUTF16, "UTF-16LE byte order mark", true}
	case bytes.HasPrefix(sample, bomUTF16BE):
		return EncodingGuess{config.EncodingUTF16, "UTF-16BE byte order mark", true}
	case len(sample) == 0:
		return EncodingGuess{config.EncodingUTF8, "empty file", true}
	}

	var even, odd int
	for i, b := range sample {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			even++
		} else {
			odd++
		}
	}

	// ASCII text in UTF-16 has a NUL in every other byte.
	half := len(sample) / 2
	if half > 0 && odd*10 >= half*3 && odd > even {
		return EncodingGuess{config.EncodingUTF16, "NUL bytes at odd offsets (UTF-16LE without BOM)", true}
	}
	if half > 0 && even*10 >= half*3 && even > odd {
		return EncodingGuess{config.EncodingUTF16, "NUL bytes at even offsets (UTF-16BE without BOM)", false}
	}

	if !utf8.Valid(trimPartialRune(sample)) {
		return EncodingGuess{config.EncodingUTF8, "contains invalid UTF-8 sequences", false}
	}
	return EncodingGuess{config.EncodingUTF8, "valid UTF-8", true}
}

// trimPartialRune drops an incomplete rune cut off at the end of a sample.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}
