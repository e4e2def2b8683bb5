package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/purfectmux"
	"github.com/phroun/purfectmux/hyperlink"
)

func TestRenderHyperlinks(t *testing.T) {
	term, out := newTestTerminal(t, Options{Cols: 20, Rows: 3})
	term.FeedString("\x1b]8;id=doc;https://example.com\x07docs\x1b]8;;\x07 plain")

	_, token, ok := term.Buffer().Hyperlink(1)
	require.True(t, ok)

	require.NoError(t, term.renderer.Render())
	frame := out.String()
	assert.Contains(t, frame, purfectmux.FormatHyperlink("https://example.com", token)+"\x1b[1;1H\x1b[0mdocs")
	assert.Contains(t, frame, "s"+purfectmux.HyperlinkEnd)
	assert.NotContains(t, frame, "id=doc")
}

func TestRenderDifferential(t *testing.T) {
	term, out := newTestTerminal(t, Options{Cols: 20, Rows: 3})
	term.FeedString("hello")
	require.NoError(t, term.renderer.Render())
	assert.Contains(t, out.String(), "h")

	out.Reset()
	require.NoError(t, term.renderer.Render())
	assert.NotContains(t, out.String(), "hello")

	// Only the changed cell is drawn again
	term.FeedString("!")
	out.Reset()
	require.NoError(t, term.renderer.Render())
	frame := out.String()
	assert.Contains(t, frame, "\x1b[1;6H")
	assert.NotContains(t, frame, "\x1b[1;1H")

	term.renderer.ForceFullRedraw()
	assert.True(t, term.renderer.NeedsRender())
	out.Reset()
	require.NoError(t, term.renderer.Render())
	assert.Contains(t, out.String(), "\x1b[1;1H")
}

func TestRenderEvictedHyperlink(t *testing.T) {
	p, err := hyperlink.NewPool(hyperlink.WithCapacity(3))
	require.NoError(t, err)
	term, out := newTestTerminal(t, Options{Cols: 20, Rows: 3, Pool: p})

	// The second link evicts the first
	term.FeedString("\x1b]8;;https://a\x07a\x1b]8;;https://b\x07b")
	require.NoError(t, term.renderer.Render())
	frame := out.String()
	assert.NotContains(t, frame, "https://a")
	assert.Contains(t, frame, "https://b")
}

func TestRenderBorderAndStatus(t *testing.T) {
	term, out := newTestTerminal(t, Options{
		Cols:          60,
		Rows:          2,
		BorderStyle:   BorderRounded,
		Title:         "demo",
		ShowStatusBar: true,
	})
	term.FeedString("\x1b]8;;https://a\x07x")
	require.NoError(t, term.renderer.Render())

	frame := out.String()
	assert.Contains(t, frame, "╭")
	assert.Contains(t, frame, "┤ demo ├")
	assert.Contains(t, frame, "╯")
	assert.Contains(t, frame, "Links: 1")
	// Content starts inside the border
	assert.Contains(t, frame, "\x1b[2;2H")
}

func TestRenderStreamTitle(t *testing.T) {
	term, out := newTestTerminal(t, Options{Cols: 30, Rows: 2, BorderStyle: BorderSingle, Title: "fallback"})
	term.FeedString("\x1b]2;from stream\x07")
	require.NoError(t, term.renderer.Render())
	assert.Contains(t, out.String(), "from stream")
	assert.NotContains(t, out.String(), "fallback")
}

func TestRenderScrolledView(t *testing.T) {
	term, out := newTestTerminal(t, Options{Cols: 10, Rows: 1})
	term.FeedString("older\r\nnewer")
	term.ScrollUp(1)

	require.NoError(t, term.renderer.Render())
	frame := out.String()
	assert.Contains(t, frame, "older")
	assert.NotContains(t, frame, "newer")
	// The cursor is hidden while scrolled back
	assert.NotContains(t, frame, "\x1b[?25h")
}

func TestStatusLine(t *testing.T) {
	term, _ := newTestTerminal(t, Options{Cols: 10, Rows: 2})
	line := term.renderer.statusLine(80, 0)
	assert.Len(t, line, 80)
	assert.Contains(t, line, "Size: 10x2")
	assert.Len(t, term.renderer.statusLine(5, 0), 5)
}

func TestRenderWriteError(t *testing.T) {
	term, _ := newTestTerminal(t, Options{Cols: 10, Rows: 2})
	term.options.Output = failingWriter{}
	assert.Error(t, term.renderer.Render())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, bytes.ErrTooLarge }
