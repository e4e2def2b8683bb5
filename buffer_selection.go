package purfectmux

import (
	"strings"

	"github.com/phroun/purfectmux/hyperlink"
)

// selection holds a range of cells in buffer-absolute coordinates: line 0 is
// the oldest scrollback line and the screen follows the scrollback.
type selection struct {
	active bool
	startX int
	startY int
	endX   int
	endY   int
}

// normalized returns the bounds with the start before the end.
func (s selection) normalized() (sx, sy, ex, ey int) {
	sx, sy, ex, ey = s.startX, s.startY, s.endX, s.endY
	if sy > ey || (sy == ey && sx > ex) {
		sx, sy, ex, ey = ex, ey, sx, sy
	}
	return sx, sy, ex, ey
}

func (s selection) contains(x, y int) bool {
	if !s.active {
		return false
	}
	sx, sy, ex, ey := s.normalized()
	if y < sy || y > ey {
		return false
	}
	if y == sy && x < sx {
		return false
	}
	if y == ey && x > ex {
		return false
	}
	return true
}

func (b *Buffer) screenToBufferY(screenY int) int {
	return len(b.scrollback) + screenY
}

// lineAt returns the line at a buffer-absolute index, or nil.
func (b *Buffer) lineAt(bufferY int) []Cell {
	switch {
	case bufferY < 0:
		return nil
	case bufferY < len(b.scrollback):
		return b.scrollback[bufferY]
	case bufferY-len(b.scrollback) < b.rows:
		return b.screen[bufferY-len(b.scrollback)]
	}
	return nil
}

// StartSelection begins a text selection (coordinates are screen-relative)
func (b *Buffer) StartSelection(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bufferY := b.screenToBufferY(y)
	b.sel = selection{active: true, startX: x, startY: bufferY, endX: x, endY: bufferY}
	b.markAllDirty()
}

// UpdateSelection moves the end point of the selection (coordinates are
// screen-relative)
func (b *Buffer) UpdateSelection(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.sel.active {
		return
	}
	b.sel.endX = x
	b.sel.endY = b.screenToBufferY(y)
	b.markAllDirty()
}

// ClearSelection clears any active selection
func (b *Buffer) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sel = selection{}
	b.markAllDirty()
}

// HasSelection returns true if there's an active selection
func (b *Buffer) HasSelection() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sel.active
}

// GetSelection returns the normalized selection bounds in buffer-absolute coordinates
func (b *Buffer) GetSelection() (startX, startY, endX, endY int, active bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.sel.active {
		return 0, 0, 0, 0, false
	}
	sx, sy, ex, ey := b.sel.normalized()
	return sx, sy, ex, ey, true
}

// IsCellInSelection checks if a cell at screen coordinates is within the selection
func (b *Buffer) IsCellInSelection(screenX, screenY int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sel.contains(screenX, b.screenToBufferY(screenY))
}

// SelectAll selects all text in the terminal, scrollback included
func (b *Buffer) SelectAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sel = selection{
		active: true,
		endX:   b.cols - 1,
		endY:   len(b.scrollback) + b.rows - 1,
	}
	b.markAllDirty()
}

// GetSelectedText returns the text in the current selection. Trailing
// blanks are trimmed from every line.
func (b *Buffer) GetSelectedText() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.sel.active {
		return ""
	}
	sx, sy, ex, ey := b.sel.normalized()

	var lines []string
	for y := sy; y <= ey; y++ {
		line := b.lineAt(y)
		if line == nil {
			break
		}
		from, to := 0, len(line)
		if y == sy {
			from = sx
		}
		if y == ey && ex+1 < to {
			to = ex + 1
		}
		lines = append(lines, cellText(line, from, to))
	}
	return strings.Join(lines, "\n")
}

// SelectedHyperlinks returns the live hyperlinks that appear in the
// selection, each once, in the order they are first seen.
func (b *Buffer) SelectedHyperlinks() []hyperlink.Link {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.sel.active || b.closed {
		return nil
	}
	_, sy, _, ey := b.sel.normalized()

	var links []hyperlink.Link
	seen := make(map[hyperlink.Handle]bool)
	for y := sy; y <= ey; y++ {
		line := b.lineAt(y)
		if line == nil {
			break
		}
		for x, cell := range line {
			if cell.Hyperlink == 0 || seen[cell.Hyperlink] || !b.sel.contains(x, y) {
				continue
			}
			seen[cell.Hyperlink] = true
			if link, ok := b.links.Lookup(cell.Hyperlink); ok {
				links = append(links, link)
			}
		}
	}
	return links
}

// Text returns the scrollback and screen as plain text, without trailing
// blank lines.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := len(b.scrollback) + b.rows
	for total > 0 && lineEnd(b.lineAt(total-1)) == 0 {
		total--
	}
	var sb strings.Builder
	for y := 0; y < total; y++ {
		line := b.lineAt(y)
		sb.WriteString(cellText(line, 0, len(line)))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// cellText returns the characters of line[from:to] with trailing blanks
// removed. Continuation cells of wide runes produce nothing.
func cellText(line []Cell, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(line) {
		to = len(line)
	}
	var sb strings.Builder
	for x := from; x < to; x++ {
		if line[x].IsContinuation() {
			continue
		}
		sb.WriteString(line[x].String())
	}
	return strings.TrimRight(sb.String(), " ")
}
