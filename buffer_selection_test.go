package purfectmux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection(t *testing.T) {
	b := newTestBuffer(t, 20, 3)
	parse(t, b, "hello world\r\nsecond")

	assert.False(t, b.HasSelection())
	assert.Equal(t, "", b.GetSelectedText())

	b.StartSelection(6, 0)
	b.UpdateSelection(2, 1)
	assert.True(t, b.HasSelection())
	assert.Equal(t, "world\nsec", b.GetSelectedText())
	assert.True(t, b.IsCellInSelection(8, 0))
	assert.False(t, b.IsCellInSelection(5, 0))

	// Reversed selection is normalized
	b.StartSelection(4, 0)
	b.UpdateSelection(0, 0)
	sx, sy, ex, ey, active := b.GetSelection()
	require.True(t, active)
	assert.Equal(t, []int{0, 0, 4, 0}, []int{sx, sy, ex, ey})
	assert.Equal(t, "hello", b.GetSelectedText())

	b.ClearSelection()
	assert.False(t, b.HasSelection())
}

func TestSelectedHyperlinks(t *testing.T) {
	b := newTestBuffer(t, 20, 3)
	parse(t, b, "\x1b]8;;https://a\x07aa\x1b]8;;\x07 \x1b]8;;https://b\x07bb\x1b]8;;\x07")

	b.StartSelection(0, 0)
	b.UpdateSelection(1, 0)
	links := b.SelectedHyperlinks()
	require.Len(t, links, 1)
	assert.Equal(t, "https://a", links[0].URI)

	b.SelectAll()
	links = b.SelectedHyperlinks()
	require.Len(t, links, 2)
	assert.Equal(t, "https://b", links[1].URI)
	assert.Equal(t, "aa bb", b.GetSelectedText()[:5])
}

func TestSelectedHyperlinksAcrossLines(t *testing.T) {
	b := newTestBuffer(t, 10, 3)
	parse(t, b, "ab\x1b]8;;https://a\x07cd\x1b]8;;\x07\r\n"+
		"\x1b]8;;https://b\x07ef\x1b]8;;\x07gh\x1b]8;;https://c\x07ij\x1b]8;;\x07")

	// From column 3 of the first line to column 1 of the second
	b.StartSelection(3, 0)
	b.UpdateSelection(1, 1)
	links := b.SelectedHyperlinks()
	require.Len(t, links, 2)
	assert.Equal(t, "https://a", links[0].URI)
	assert.Equal(t, "https://b", links[1].URI)

	// Nothing linked between the columns
	b.StartSelection(0, 0)
	b.UpdateSelection(1, 0)
	assert.Empty(t, b.SelectedHyperlinks())
}

func TestText(t *testing.T) {
	b := newTestBuffer(t, 10, 2)
	parse(t, b, "one\r\ntwo\r\nthree")
	assert.Equal(t, "one\ntwo\nthree\n", b.Text())
}
