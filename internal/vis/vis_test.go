package vis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		flags Flag
		want  string
	}{
		{"plain", "http://example.com/a?b=c", Octal | CStyle, "http://example.com/a?b=c"},
		{"backslash", `a\b`, Octal | CStyle, `a\\b`},
		{"escape byte", "a\x1bb", Octal | CStyle, `a\033b`},
		{"bell cstyle", "a\ab", Octal | CStyle, `a\ab`},
		{"carriage return", "\r", Octal | CStyle, `\r`},
		{"newline visible by default", "a\nb", Octal | CStyle, "a\nb"},
		{"newline forced", "a\nb", Octal | CStyle | NL, `a\nb`},
		{"space forced", "a b", CStyle | SP, `a\sb`},
		{"tab forced octal", "\t", Octal | Tab, `\011`},
		{"nul then digit", "\x001", Octal | CStyle, `\0001`},
		{"nul then letter", "\x00a", Octal | CStyle, `\0a`},
		{"delete octal", "\x7f", Octal, `\177`},
		{"delete meta", "\x7f", 0, `\^?`},
		{"control meta", "\x01", 0, `\^A`},
		{"high byte meta", "\xe1", 0, `\M-a`},
		{"utf8 kept", "héllo ☃", Octal | CStyle, "héllo ☃"},
		{"invalid utf8", "a\xffb", Octal | CStyle, `a\377b`},
		{"c1 control rune", "a\u0085b", Octal | CStyle, `a\302\205b`},
		{"empty", "", Octal | CStyle, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.in, tt.flags))
		})
	}
}
