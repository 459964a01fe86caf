// Package classify turns raw blob bytes into a per-file Tech summary by
// running each line through a muncher's pattern sets in a fixed precedence
// order.
package classify

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeText returns raw as a string, decoding it as UTF-8 when it is
// valid UTF-8 and falling back to Windows-1252 otherwise. Source files in
// the wild are overwhelmingly UTF-8, but old Windows-authored files in
// Latin-1-adjacent encodings are common enough that a blob which fails
// UTF-8 validation is still worth classifying rather than discarding.
func DecodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}

	return string(decoded)
}
