// Package vis encodes untrusted strings so they are safe to store and print.
//
// The encoding follows vis(3): printable characters pass through, a backslash
// is doubled, and everything else becomes a backslash escape. Valid printable
// multi-byte UTF-8 sequences are kept intact; their bytes are only escaped when
// the sequence is malformed or decodes to a non-printable rune.
package vis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Flag selects how non-printable bytes are escaped.
type Flag uint8

const (
	Octal  Flag = 1 << iota // \ooo for everything not covered by CStyle
	CStyle                  // \n, \t, \a, ... where a C escape exists
	SP                      // also encode space
	Tab                     // also encode horizontal tab
	NL                      // also encode newline
)

// Encode returns s with every unsafe byte escaped according to flags.
func Encode(s string, flags Flag) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if size > 1 && r != utf8.RuneError && unicode.IsPrint(r) {
			sb.WriteString(s[i : i+size])
			i += size
			continue
		}
		// Single bytes and rejected multi-byte sequences are escaped bytewise.
		for j := 0; j < size; j++ {
			var next byte
			if i+j+1 < len(s) {
				next = s[i+j+1]
			}
			encodeByte(&sb, s[i+j], next, flags)
		}
		i += size
	}
	return sb.String()
}

func isGraph(c byte) bool { return c > 0x20 && c < 0x7f }

func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }

func visible(c byte, flags Flag) bool {
	switch {
	case isGraph(c):
		return true
	case c == ' ':
		return flags&SP == 0
	case c == '\t':
		return flags&Tab == 0
	case c == '\n':
		return flags&NL == 0
	}
	return false
}

func encodeByte(sb *strings.Builder, c, next byte, flags Flag) {
	if c == '\\' {
		sb.WriteString(`\\`)
		return
	}
	if visible(c, flags) {
		sb.WriteByte(c)
		return
	}

	if flags&CStyle != 0 {
		if esc, ok := cEscape(c); ok {
			sb.WriteByte('\\')
			sb.WriteByte(esc)
			if c == 0 && isOctalDigit(next) {
				// Keep "\0" followed by a digit unambiguous.
				sb.WriteString("00")
			}
			return
		}
	}

	if flags&Octal != 0 || c&0x7f == ' ' {
		sb.WriteByte('\\')
		sb.WriteByte('0' + (c>>6)&07)
		sb.WriteByte('0' + (c>>3)&07)
		sb.WriteByte('0' + c&07)
		return
	}

	sb.WriteByte('\\')
	if c&0x80 != 0 {
		c &= 0x7f
		sb.WriteByte('M')
	}
	if c < 0x20 || c == 0x7f {
		sb.WriteByte('^')
		if c == 0x7f {
			sb.WriteByte('?')
		} else {
			sb.WriteByte(c + '@')
		}
		return
	}
	sb.WriteByte('-')
	sb.WriteByte(c)
}

func cEscape(c byte) (byte, bool) {
	switch c {
	case '\n':
		return 'n', true
	case '\r':
		return 'r', true
	case '\b':
		return 'b', true
	case '\a':
		return 'a', true
	case '\v':
		return 'v', true
	case '\t':
		return 't', true
	case '\f':
		return 'f', true
	case ' ':
		return 's', true
	case 0:
		return '0', true
	}
	return 0, false
}
