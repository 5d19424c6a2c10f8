package toon

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// reservedTokens must always be quoted, even though they are shaped like
// identifiers: they would read back as literals or numeric sentinels.
var reservedTokens = map[string]struct{}{
	"true":      {},
	"false":     {},
	"null":      {},
	"inf":       {},
	"-inf":      {},
	"nan":       {},
	"infinity":  {},
	"-infinity": {},
}

// isAlphabetic reports whether r has the Unicode Alphabetic property.
func isAlphabetic(r rune) bool {
	return unicode.In(r, unicode.L, unicode.Nl, unicode.Other_Alphabetic)
}

func isIdentStart(r rune) bool {
	return isAlphabetic(r) || r == '_'
}

func isIdentContinue(r rune) bool {
	return isAlphabetic(r) || unicode.IsNumber(r) || r == '_' || r == '-' || r == '.'
}

func isWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

// IsValidIdent reports whether s is a bare identifier: an identifier-start
// rune followed by identifier-continue runes.
func IsValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentContinue(r) {
			return false
		}
	}
	return true
}

// NeedsQuotes reports whether s must be written as a quoted string.
func NeedsQuotes(s string) bool {
	if !IsValidIdent(s) {
		return true
	}
	_, reserved := reservedTokens[s]
	return reserved
}

// EscapeString escapes s for use between double quotes.
func EscapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if unicode.IsControl(r) {
				if r <= 0xFFFF {
					fmt.Fprintf(&b, `\u%04x`, r)
				} else {
					fmt.Fprintf(&b, `\U%08x`, r)
				}
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UnescapeString resolves every escape sequence in s. Recognized forms are
// \" \\ \/ \b \f \n \r \t \0, \uXXXX and \UXXXXXXXX. A \uXXXX high
// surrogate must be followed by a \uXXXX low surrogate; the pair yields
// one code point.
func UnescapeString(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		r, n, err := unescapeAt(s, i)
		if err != nil {
			return "", err
		}
		b.WriteRune(r)
		i += n
	}
	return b.String(), nil
}

// unescapeAt decodes the escape sequence starting at the backslash s[i].
// It returns the resolved rune and the number of bytes consumed.
func unescapeAt(s string, i int) (rune, int, error) {
	if i+1 >= len(s) {
		return 0, 0, fmt.Errorf("%w: incomplete escape sequence", ErrDeserialization)
	}
	switch c := s[i+1]; c {
	case '"':
		return '"', 2, nil
	case '\\':
		return '\\', 2, nil
	case '/':
		return '/', 2, nil
	case 'b':
		return '\b', 2, nil
	case 'f':
		return '\f', 2, nil
	case 'n':
		return '\n', 2, nil
	case 'r':
		return '\r', 2, nil
	case 't':
		return '\t', 2, nil
	case '0':
		return 0, 2, nil
	case 'u':
		r, err := parseHexRune(s[i+2:], 4, true)
		if err != nil || !utf16.IsSurrogate(r) {
			return r, 6, err
		}
		if r < 0xDC00 && strings.HasPrefix(s[i+6:], `\u`) {
			lo, err := parseHexRune(s[i+8:], 4, true)
			if err == nil {
				if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
					return pair, 12, nil
				}
			}
		}
		return 0, 0, fmt.Errorf("%w: unpaired surrogate %q", ErrDeserialization, s[i+2:i+6])
	case 'U':
		r, err := parseHexRune(s[i+2:], 8, false)
		return r, 10, err
	default:
		r, _ := utf8.DecodeRuneInString(s[i+1:])
		return 0, 0, fmt.Errorf("%w: invalid escape sequence '\\%c'", ErrInvalidFormat, r)
	}
}

// parseHexRune reads a code point written as exactly digits hex digits.
// Surrogate halves are only accepted when allowSurrogate is set.
func parseHexRune(s string, digits int, allowSurrogate bool) (rune, error) {
	if len(s) < digits {
		return 0, fmt.Errorf("%w: invalid unicode escape sequence", ErrDeserialization)
	}
	hex := s[:digits]
	for i := 0; i < len(hex); i++ {
		if !isHexDigit(hex[i]) {
			return 0, fmt.Errorf("%w: invalid unicode code point %q", ErrDeserialization, hex)
		}
	}
	code, err := strconv.ParseUint(hex, 16, 32)
	if err == nil && allowSurrogate && utf16.IsSurrogate(rune(code)) {
		return rune(code), nil
	}
	if err != nil || !utf8.ValidRune(rune(code)) {
		return 0, fmt.Errorf("%w: invalid unicode code point %q", ErrDeserialization, hex)
	}
	return rune(code), nil
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// FormatNumber renders n in plain decimal notation. Integral values have
// no decimal point and fractional values carry no trailing zeros.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if n == math.Trunc(n) || !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
