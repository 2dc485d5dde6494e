package util

import (
	"strconv"
	"strings"
)

// Terminal glyphs for the four suit letters on the dealer's wire.
var suitGlyphs = map[byte]string{
	'h': "♥",
	'd': "♦",
	'c': "♣",
	's': "♠",
}

// CardGlyph converts a wire card ("Ah") to its display form ("A♥").
// The card-back placeholder and anything malformed pass through unchanged.
func CardGlyph(card string) string {
	if len(card) != 2 {
		return card
	}
	glyph, ok := suitGlyphs[card[1]]
	if !ok {
		return card
	}
	rank := card[:1]
	if rank == "T" {
		rank = "10"
	}
	return rank + glyph
}

// CardRow renders a card list as one spaced row, "A♥ K♠".
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return "—"
	}
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, CardGlyph(c))
	}
	return strings.Join(parts, " ")
}

// FormatChips renders a chip amount with thousands separators.
func FormatChips(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// PadRight pads s with spaces to width; longer strings pass through.
func PadRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
