package purfectmux

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHyperlink(t *testing.T) {
	assert.Equal(t, "\x1b]8;id=purfectmux1;https://a\x1b\\", FormatHyperlink("https://a", "purfectmux1"))
	assert.Equal(t, "\x1b]8;;\x1b\\", HyperlinkEnd)
}

func TestANSIHyperlinks(t *testing.T) {
	b := newTestBuffer(t, 10, 3)
	parse(t, b, "\x1b]8;id=g;https://a\x07ab\x1b]8;;\x07c")

	_, token, ok := b.Hyperlink(1)
	require.True(t, ok)

	out := b.ANSI()
	assert.Equal(t, FormatHyperlink("https://a", token)+"ab"+HyperlinkEnd+"c\n", out)
	// The application's grouping id is replaced by the external token
	assert.NotContains(t, out, "id=g;")
}

func TestANSIHyperlinkClosedAtLineEnd(t *testing.T) {
	b := newTestBuffer(t, 10, 3)
	parse(t, b, "\x1b]8;;https://a\x07ab\r\ncd")

	_, token, ok := b.Hyperlink(1)
	require.True(t, ok)
	open := FormatHyperlink("https://a", token)
	assert.Equal(t, open+"ab"+HyperlinkEnd+"\n"+open+"cd"+HyperlinkEnd+"\n", b.ANSI())
}

func TestANSIAdjacentHyperlinks(t *testing.T) {
	b := newTestBuffer(t, 10, 3)
	parse(t, b, "\x1b]8;;https://a\x07a\x1b]8;;https://b\x07b")

	_, ta, _ := b.Hyperlink(1)
	_, tb, _ := b.Hyperlink(2)
	want := FormatHyperlink("https://a", ta) + "a" + HyperlinkEnd +
		FormatHyperlink("https://b", tb) + "b" + HyperlinkEnd + "\n"
	assert.Equal(t, want, b.ANSI())
}

func TestANSISGR(t *testing.T) {
	b := newTestBuffer(t, 10, 3)
	parse(t, b, "\x1b[1mA\x1b[0mB\x1b[31mC")
	assert.Equal(t, "\x1b[0;1mA\x1b[0mB\x1b[0;31mC\x1b[0m\n", b.ANSI())
}

func TestANSIIncludesScrollback(t *testing.T) {
	b := newTestBuffer(t, 10, 1)
	parse(t, b, "one\r\ntwo")
	assert.Equal(t, "one\ntwo\n", b.ANSI())
}

func TestANSIEmpty(t *testing.T) {
	b := newTestBuffer(t, 10, 3)
	assert.Equal(t, "", b.ANSI())
}

func TestWriteANSI(t *testing.T) {
	b := newTestBuffer(t, 10, 3)
	parse(t, b, "\x1b]8;;https://a\x07x")

	var buf bytes.Buffer
	require.NoError(t, b.WriteANSI(&buf))
	assert.Equal(t, b.ANSI(), buf.String())
}
