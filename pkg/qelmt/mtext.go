package qelmt

import (
	"strconv"
	"strings"
)

// NormalizeMText strips MTEXT inline formatting codes from a raw DXF
// rich-text string and applies explicit line breaks. Handled codes:
// \P (newline), \~ (space), \\ (literal backslash), alphabetic codes
// such as \fArial|b1; or \H2.5; (dropped including the terminator),
// and grouping braces { } (always dropped).
//
// Everything before the first ';' is treated as formatting prefix and
// discarded, even in plain text carrying a literal semicolon. The real
// content starts after it.
func NormalizeMText(input string) string {
	textStart := 0
	if pos := strings.IndexByte(input, ';'); pos >= 0 {
		textStart = pos + 1
	}

	text := input[textStart:]
	var out strings.Builder
	out.Grow(len(text))
	i := 0

	for i < len(text) {
		// CAD tools wrap formatted runs in braces; drop them.
		if text[i] == '{' || text[i] == '}' {
			i++
			continue
		}

		if text[i] != '\\' {
			out.WriteByte(text[i])
			i++
			continue
		}

		if i+1 < len(text) && text[i+1] == '\\' {
			out.WriteByte('\\')
			i += 2
			continue
		}

		if i+1 < len(text) {
			switch text[i+1] {
			case 'P':
				out.WriteByte('\n')
				i += 2
				continue
			case '~':
				out.WriteByte(' ')
				i += 2
				continue
			}
		}

		// A backslash followed by a letter starts a candidate
		// formatting code: consume up to the ';' terminator and drop
		// the whole span. Dots are part of decimal arguments, as in
		// \W0.82571;
		if i+1 < len(text) && isASCIIAlpha(text[i+1]) {
			start := i
			i += 2
			terminated := false

			for i < len(text) {
				c := text[i]
				if c == ';' {
					i++
					terminated = true
					break
				}
				if isASCIIAlphanumeric(c) || c == '-' || c == '_' || c == '|' || c == ' ' || c == '.' {
					i++
					continue
				}
				break
			}

			if !terminated {
				// Not a real code: keep the consumed span verbatim and
				// resume at the character that disqualified it.
				out.WriteString(text[start:i])
			}
			continue
		}

		// Lone backslash.
		out.WriteByte('\\')
		i++
	}

	return out.String()
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIAlphanumeric(c byte) bool {
	return isASCIIAlpha(c) || (c >= '0' && c <= '9')
}

// FormatInfo carries the font hints extracted from an MTEXT \f block.
// Zero values mean the corresponding field was absent.
type FormatInfo struct {
	Family     string // empty when no family was given
	Bold       bool
	Italic     bool
	PointSize  float64
	HasSize    bool
	ColorIndex int
	HasColor   bool
}

// ExtractMTextFormat reads font/style/color hints from the first
// \f...; block of a raw MTEXT string. The block is pipe-delimited:
// the first field is the font family, the rest are single-letter
// prefixed values (b=bold, i=italic, c=color index, p=point size).
//
//	{\fGaramond|b0|i1|c0|p18;Sofrel}          -> family "Garamond", italic, 18pt
//	{\fSwis721 BlkEx BT|b0|i0|c0|p34;RS485i}  -> family "Swis721 BlkEx BT", 34pt
//
// Malformed fields are ignored; only the first block is consulted.
func ExtractMTextFormat(input string) FormatInfo {
	var info FormatInfo

	i := 0
	for i+2 < len(input) {
		if input[i] != '\\' || input[i+1] != 'f' {
			i++
			continue
		}

		i += 2
		start := i
		for i < len(input) && input[i] != ';' {
			i++
		}
		block := input[start:i]
		parts := strings.Split(block, "|")

		family := strings.Trim(strings.TrimSpace(parts[0]), "{}")
		if family != "" {
			info.Family = family
		}

		for _, part := range parts[1:] {
			part = strings.TrimSpace(part)
			if len(part) < 2 {
				continue
			}
			switch part[0] {
			case 'b':
				if v, err := strconv.Atoi(part[1:]); err == nil {
					info.Bold = v != 0
				}
			case 'i':
				if v, err := strconv.Atoi(part[1:]); err == nil {
					info.Italic = v != 0
				}
			case 'c':
				if v, err := strconv.Atoi(part[1:]); err == nil {
					info.ColorIndex = v
					info.HasColor = true
				}
			case 'p':
				if v, err := strconv.ParseFloat(part[1:], 64); err == nil {
					info.PointSize = v
					info.HasSize = true
				}
			}
		}
		break
	}

	return info
}
