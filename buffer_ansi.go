package purfectmux

import (
	"io"
	"strings"

	"github.com/phroun/purfectmux/hyperlink"
)

// HyperlinkEnd closes an OSC 8 hyperlink.
const HyperlinkEnd = "\x1b]8;;\x1b\\"

// FormatHyperlink returns the OSC 8 sequence that opens a hyperlink. The
// external token is sent as the id parameter so the outer terminal groups
// cells by it; the application's own id is never re-sent.
func FormatHyperlink(uri, token string) string {
	return "\x1b]8;id=" + token + ";" + uri + "\x1b\\"
}

// SGR returns the escape sequence selecting the cell's attributes.
func SGR(c Cell) string {
	return "\x1b[" + strings.Join(c.SGRParams(), ";") + "m"
}

// ANSI returns the scrollback followed by the screen as text with SGR and
// OSC 8 escape sequences. Trailing blank lines are omitted.
func (b *Buffer) ANSI() string {
	var sb strings.Builder
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.encodeANSI(&sb)
	return sb.String()
}

// WriteANSI writes the output of ANSI to w.
func (b *Buffer) WriteANSI(w io.Writer) error {
	_, err := io.WriteString(w, b.ANSI())
	return err
}

func (b *Buffer) encodeANSI(sb *strings.Builder) {
	lines := make([][]Cell, 0, len(b.scrollback)+len(b.screen))
	lines = append(lines, b.scrollback...)
	lines = append(lines, b.screen...)
	for len(lines) > 0 && lineEnd(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		b.encodeLine(sb, line)
		sb.WriteByte('\n')
	}
}

// lineEnd returns the column after the last cell that shows anything.
func lineEnd(line []Cell) int {
	end := len(line)
	for end > 0 && line[end-1].IsBlank() {
		end--
	}
	return end
}

func (b *Buffer) encodeLine(sb *strings.Builder, line []Cell) {
	style := EmptyCell()
	var link hyperlink.Handle
	for _, cell := range line[:lineEnd(line)] {
		if cell.IsContinuation() {
			continue
		}
		if cell.Hyperlink != link {
			if link != 0 {
				sb.WriteString(HyperlinkEnd)
				link = 0
			}
			if uri, token, ok := b.hyperlinkInternal(cell.Hyperlink); ok {
				sb.WriteString(FormatHyperlink(uri, token))
				link = cell.Hyperlink
			}
		}
		// Compare attributes only; the link was handled above
		cmp := cell
		cmp.Hyperlink = style.Hyperlink
		if !style.SameStyle(cmp) {
			sb.WriteString(SGR(cell))
			style = cmp
		}
		sb.WriteString(cell.String())
	}
	if link != 0 {
		sb.WriteString(HyperlinkEnd)
	}
	if !style.SameStyle(EmptyCell()) {
		sb.WriteString("\x1b[0m")
	}
}
