package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// bidiControls are embedding/override/isolate runes. Verse text never needs
// them and they reorder whatever the terminal draws after them.
var bidiControls = map[rune]bool{
	0x202A: true, 0x202B: true, 0x202C: true, 0x202D: true, 0x202E: true,
	0x2066: true, 0x2067: true, 0x2068: true, 0x2069: true,
	0xFEFF: true,
}

// Sanitize makes verse text safe to draw: line breaks and tabs become spaces,
// other control characters and bidi overrides are dropped, and the result
// is NFC-normalized so Hangul measures as composed syllables.
func Sanitize(text string) string {
	clean := true
	for _, r := range text {
		if needsSanitizing(r) {
			clean = false
			break
		}
	}
	if clean {
		return norm.NFC.String(text)
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		case needsSanitizing(r):
		default:
			b.WriteRune(r)
		}
	}
	return norm.NFC.String(b.String())
}

func needsSanitizing(r rune) bool {
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) || bidiControls[r]
}

// Truncate shortens s to at most width terminal cells, ending in "…" when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
