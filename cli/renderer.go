package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/phroun/purfectmux"
)

// Renderer handles rendering the terminal buffer to the actual CLI terminal
type Renderer struct {
	term *Terminal
	mu   sync.Mutex

	// Render state
	renderNeeded bool
	lastCells    [][]renderedCell // Previous frame for differential rendering

	// Border characters
	borderChars borderCharSet
}

// renderedCell stores the last rendered state of a cell for diff comparison
type renderedCell struct {
	cell purfectmux.Cell
	// link is the external token the cell was shown with, or "" when the
	// cell had no live hyperlink
	link string
}

func (c renderedCell) equal(o renderedCell) bool {
	return c.cell.Char == o.cell.Char &&
		c.cell.Combining == o.cell.Combining &&
		c.cell.SameStyle(o.cell) &&
		c.link == o.link
}

// borderCharSet contains the characters for drawing borders
type borderCharSet struct {
	topLeft     rune
	topRight    rune
	bottomLeft  rune
	bottomRight rune
	horizontal  rune
	vertical    rune
	titleLeft   rune
	titleRight  rune
}

var borderStyles = map[BorderStyle]borderCharSet{
	BorderSingle: {
		topLeft: '┌', topRight: '┐', bottomLeft: '└', bottomRight: '┘',
		horizontal: '─', vertical: '│', titleLeft: '┤', titleRight: '├',
	},
	BorderDouble: {
		topLeft: '╔', topRight: '╗', bottomLeft: '╚', bottomRight: '╝',
		horizontal: '═', vertical: '║', titleLeft: '╡', titleRight: '╞',
	},
	BorderHeavy: {
		topLeft: '┏', topRight: '┓', bottomLeft: '┗', bottomRight: '┛',
		horizontal: '━', vertical: '┃', titleLeft: '┫', titleRight: '┣',
	},
	BorderRounded: {
		topLeft: '╭', topRight: '╮', bottomLeft: '╰', bottomRight: '╯',
		horizontal: '─', vertical: '│', titleLeft: '┤', titleRight: '├',
	},
}

// NewRenderer creates a new renderer for the terminal
func NewRenderer(term *Terminal) *Renderer {
	r := &Renderer{
		term:         term,
		renderNeeded: true,
	}
	if term.options.BorderStyle != BorderNone {
		r.borderChars = borderStyles[term.options.BorderStyle]
	}
	return r
}

// RequestRender marks that a render is needed
func (r *Renderer) RequestRender() {
	r.mu.Lock()
	r.renderNeeded = true
	r.mu.Unlock()
}

// ForceFullRedraw discards the previous frame so the next render redraws
// every cell
func (r *Renderer) ForceFullRedraw() {
	r.mu.Lock()
	r.lastCells = nil
	r.renderNeeded = true
	r.mu.Unlock()
}

// NeedsRender reports whether a render was requested
func (r *Renderer) NeedsRender() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderNeeded
}

// RenderLoop runs the main render loop
func (r *Renderer) RenderLoop() {
	// Render at ~60fps max, but only when needed
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			needsRender := r.renderNeeded
			r.renderNeeded = false
			r.mu.Unlock()

			if needsRender {
				r.Render()
			}
		case <-r.term.stopRender:
			return
		}
	}
}

// Render draws the changed cells of the terminal to the output
func (r *Renderer) Render() error {
	frame := r.RenderToString()
	r.term.mu.Lock()
	out := r.term.options.Output
	r.term.mu.Unlock()
	_, err := io.WriteString(out, frame)
	return err
}

// visibleLine returns screen row y as seen with the current scroll offset.
func (r *Renderer) visibleLine(y, scrollOffset int) []purfectmux.Cell {
	buffer := r.term.buffer
	sb := buffer.ScrollbackLen()
	idx := sb - scrollOffset + y
	if idx < sb {
		return buffer.GetScrollbackLine(idx)
	}
	return buffer.GetLine(idx - sb)
}

// RenderToString returns the escape sequences for the next frame and
// records it as the previous frame. Only rows reported dirty by the buffer
// and cells that differ from the previous frame are drawn.
//
// r.mu is never held while the buffer is read: the buffer calls
// RequestRender with its own lock held.
func (r *Renderer) RenderToString() string {
	r.term.mu.Lock()
	opts := r.term.options
	scrollOffset := r.term.scrollOffset
	r.term.mu.Unlock()

	buffer := r.term.buffer
	cols, rows := buffer.GetSize()
	cursorX, cursorY := buffer.GetCursor()
	cursorVisible := buffer.IsCursorVisible()
	dirtyRows := buffer.TakeDirtyRows()

	title := buffer.Title()
	if title == "" {
		title = opts.Title
	}

	startX := opts.OffsetX
	startY := opts.OffsetY
	contentStartX := startX
	contentStartY := startY
	if opts.BorderStyle != BorderNone {
		contentStartX++
		contentStartY++
	}

	r.mu.Lock()
	prevCells := r.lastCells
	r.mu.Unlock()

	var output strings.Builder

	// Hide cursor during rendering to prevent flicker
	output.WriteString("\033[?25l")

	if opts.BorderStyle != BorderNone {
		r.renderBorder(&output, startX, startY, cols, rows, title, scrollOffset)
	}

	needsFullRender := prevCells == nil || len(prevCells) != rows

	newCells := make([][]renderedCell, rows)

	style := purfectmux.EmptyCell()
	firstAttr := true
	openLink := ""
	nextX, nextY := -1, -1 // Where the host cursor is after the last drawn cell

	for y := 0; y < rows; y++ {
		rowChanged := needsFullRender || len(prevCells[y]) != cols
		if !rowChanged && scrollOffset == 0 && !dirtyRows.Test(uint(y)) {
			newCells[y] = prevCells[y]
			continue
		}

		line := r.visibleLine(y, scrollOffset)
		newCells[y] = make([]renderedCell, cols)

		for x := 0; x < cols && x < len(line); x++ {
			cell := line[x]
			rc := renderedCell{cell: cell}
			if cell.Hyperlink != 0 {
				if _, token, ok := buffer.Hyperlink(cell.Hyperlink); ok {
					rc.link = token
				}
			}
			newCells[y][x] = rc

			if !rowChanged && rc.equal(prevCells[y][x]) {
				continue
			}
			if cell.IsContinuation() {
				// Drawn together with the wide rune on its left
				continue
			}

			if rc.link != openLink {
				if openLink != "" {
					output.WriteString(purfectmux.HyperlinkEnd)
				}
				if rc.link != "" {
					uri, _, _ := buffer.Hyperlink(cell.Hyperlink)
					output.WriteString(purfectmux.FormatHyperlink(uri, rc.link))
				}
				openLink = rc.link
			}

			if y != nextY || x != nextX {
				fmt.Fprintf(&output, "\033[%d;%dH", contentStartY+y+1, contentStartX+x+1)
			}
			nextX, nextY = x+max(cell.Width, 1), y

			attrs := cell
			attrs.Hyperlink = 0
			if firstAttr || !style.SameStyle(attrs) {
				output.WriteString(purfectmux.SGR(attrs))
				style = attrs
				firstAttr = false
			}

			output.WriteString(cell.String())
		}
	}

	if openLink != "" {
		output.WriteString(purfectmux.HyperlinkEnd)
	}

	if opts.ShowStatusBar {
		r.renderStatusBar(&output, startX, contentStartY+rows, cols, scrollOffset)
	}

	output.WriteString("\033[0m")

	if cursorVisible && scrollOffset == 0 {
		fmt.Fprintf(&output, "\033[%d;%dH", contentStartY+cursorY+1, contentStartX+cursorX+1)
		output.WriteString("\033[?25h")
	}

	r.mu.Lock()
	r.lastCells = newCells
	r.mu.Unlock()
	return output.String()
}

func (r *Renderer) renderBorder(output *strings.Builder, x, y, innerCols, innerRows int, title string, scrollOffset int) {
	bc := r.borderChars
	totalWidth := innerCols + 2

	fmt.Fprintf(output, "\033[%d;%dH", y+1, x+1)
	output.WriteString("\033[0m")

	output.WriteRune(bc.topLeft)

	titleWidth := runewidth.StringWidth(title)
	if title != "" && titleWidth < innerCols-4 {
		padding := (innerCols - titleWidth - 4) / 2
		output.WriteString(strings.Repeat(string(bc.horizontal), padding))
		output.WriteRune(bc.titleLeft)
		output.WriteString(" ")
		output.WriteString(title)
		output.WriteString(" ")
		output.WriteRune(bc.titleRight)
		remaining := innerCols - padding - titleWidth - 4
		output.WriteString(strings.Repeat(string(bc.horizontal), remaining))
	} else {
		output.WriteString(strings.Repeat(string(bc.horizontal), innerCols))
	}
	output.WriteRune(bc.topRight)

	maxScroll := r.term.GetMaxScrollOffset()
	for row := 0; row < innerRows; row++ {
		fmt.Fprintf(output, "\033[%d;%dH", y+row+2, x+1)
		output.WriteRune(bc.vertical)

		fmt.Fprintf(output, "\033[%d;%dH", y+row+2, x+totalWidth)
		if scrollOffset > 0 && maxScroll > 0 {
			scrollPos := float64(maxScroll-scrollOffset) / float64(maxScroll)
			if row == int(scrollPos*float64(innerRows-1)) {
				output.WriteString("\033[7m")
				output.WriteRune(bc.vertical)
				output.WriteString("\033[27m")
				continue
			}
		}
		output.WriteRune(bc.vertical)
	}

	fmt.Fprintf(output, "\033[%d;%dH", y+innerRows+2, x+1)
	output.WriteRune(bc.bottomLeft)
	output.WriteString(strings.Repeat(string(bc.horizontal), innerCols))
	output.WriteRune(bc.bottomRight)
}

// statusLine formats the status bar text for a bar of the given width
func (r *Renderer) statusLine(width, scrollOffset int) string {
	buffer := r.term.buffer
	cols, rows := buffer.GetSize()
	cursorX, cursorY := buffer.GetCursor()
	links := len(buffer.Hyperlinks())
	lines := buffer.ScrollbackLen()

	var status string
	if scrollOffset > 0 && lines > 0 {
		percent := 100 - (scrollOffset * 100 / lines)
		status = fmt.Sprintf(" [%d%%] Lines: %d | Cursor: %d,%d | Size: %dx%d | Links: %d ",
			percent, lines, cursorX+1, cursorY+1, cols, rows, links)
	} else {
		status = fmt.Sprintf(" Lines: %d | Cursor: %d,%d | Size: %dx%d | Links: %d ",
			lines, cursorX+1, cursorY+1, cols, rows, links)
	}

	if len(status) < width {
		status += strings.Repeat(" ", width-len(status))
	} else if len(status) > width {
		status = status[:width]
	}
	return status
}

func (r *Renderer) renderStatusBar(output *strings.Builder, x, y, width int, scrollOffset int) {
	fmt.Fprintf(output, "\033[%d;%dH", y+1, x+1)
	output.WriteString("\033[0;7m")
	output.WriteString(r.statusLine(width, scrollOffset))
	output.WriteString("\033[27m")
}
