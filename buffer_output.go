package purfectmux

import "github.com/mattn/go-runewidth"

// --- Character Writing ---

// WriteChar writes a character at the current cursor position
func (b *Buffer) WriteChar(ch rune) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeCharInternal(ch)
}

// WriteString writes every rune of s as WriteChar would. Control characters
// are not interpreted; use a Parser for that.
func (b *Buffer) WriteString(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range s {
		b.writeCharInternal(ch)
	}
}

func (b *Buffer) writeCharInternal(ch rune) {
	// Combining marks (diacritics, vowel points) belong to the previous cell
	if IsCombiningMark(ch) {
		b.appendCombiningMark(ch)
		return
	}

	width := runewidth.RuneWidth(ch)
	if width == 0 {
		// Other zero-width runes are dropped rather than given a cell
		return
	}
	if width > b.cols {
		width = 1
	}

	if b.wrapPending {
		b.wrapPending = false
		if b.autoWrapMode {
			b.cursorX = 0
			b.lineFeedInternal()
		}
	}

	// A wide rune that does not fit on the rest of the line
	if width == 2 && b.cursorX == b.cols-1 {
		if b.autoWrapMode {
			b.screen[b.cursorY][b.cursorX] = blankCell(b.pen)
			b.cursorX = 0
			b.lineFeedInternal()
		} else {
			b.cursorX = b.cols - 2
		}
	}

	line := b.screen[b.cursorY]
	b.clearWideAt(line, b.cursorX)
	if width == 2 {
		b.clearWideAt(line, b.cursorX+1)
	}

	cell := b.pen
	cell.Char = ch
	cell.Combining = ""
	cell.Width = width
	line[b.cursorX] = cell
	if width == 2 {
		cont := b.pen
		cont.Char = 0
		cont.Combining = ""
		cont.Width = 0
		line[b.cursorX+1] = cont
	}
	b.markDirty(b.cursorY)

	if b.cursorX+width >= b.cols {
		b.cursorX = b.cols - 1
		b.wrapPending = true
		return
	}
	b.cursorX += width
}

// clearWideAt blanks the other half of a wide rune that overlaps column x.
func (b *Buffer) clearWideAt(line []Cell, x int) {
	if x < 0 || x >= len(line) {
		return
	}
	switch {
	case line[x].Width == 2 && x+1 < len(line):
		line[x+1] = blankCell(b.pen)
	case line[x].IsContinuation() && x > 0:
		line[x-1] = blankCell(b.pen)
	}
}

func (b *Buffer) appendCombiningMark(ch rune) {
	x, y := b.cursorX-1, b.cursorY
	if b.wrapPending {
		x = b.cursorX
	}
	if x < 0 {
		if y == 0 {
			// No previous cell to attach to
			return
		}
		y--
		x = b.cols - 1
	}
	line := b.screen[y]
	if line[x].IsContinuation() && x > 0 {
		x--
	}
	if line[x].Char == 0 {
		return
	}
	line[x].Combining += string(ch)
	b.markDirty(y)
}

// --- Control characters ---

// Newline performs a carriage return followed by a line feed
func (b *Buffer) Newline() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX = 0
	b.wrapPending = false
	b.lineFeedInternal()
}

// CarriageReturn moves the cursor to the start of the line
func (b *Buffer) CarriageReturn() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX = 0
	b.wrapPending = false
	b.markDirty(b.cursorY)
}

// LineFeed moves the cursor down one line, scrolling at the bottom
func (b *Buffer) LineFeed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wrapPending = false
	b.lineFeedInternal()
}

func (b *Buffer) lineFeedInternal() {
	b.markDirty(b.cursorY)
	if b.cursorY == b.rows-1 {
		b.scrollUpInternal(1)
		return
	}
	b.cursorY++
	b.markDirty(b.cursorY)
}

// Tab moves the cursor to the next tab stop (every 8 columns)
func (b *Buffer) Tab() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX = ((b.cursorX / 8) + 1) * 8
	if b.cursorX >= b.cols {
		b.cursorX = b.cols - 1
	}
	b.wrapPending = false
	b.markDirty(b.cursorY)
}

// Backspace moves the cursor left one column
func (b *Buffer) Backspace() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.wrapPending {
		b.wrapPending = false
		return
	}
	if b.cursorX > 0 {
		b.cursorX--
	}
	b.markDirty(b.cursorY)
}

// --- Scrolling ---

// ScrollUp scrolls the screen up n lines; lines leaving the top go to scrollback
func (b *Buffer) ScrollUp(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scrollUpInternal(n)
}

func (b *Buffer) scrollUpInternal(n int) {
	if n <= 0 {
		return
	}
	if n > b.rows {
		n = b.rows
	}
	for i := 0; i < n; i++ {
		b.pushScrollback(b.screen[0])
		copy(b.screen, b.screen[1:])
		b.screen[b.rows-1] = b.newLine()
	}
	b.markAllDirty()
}

// ScrollDown scrolls the screen down n lines, inserting blank lines at the top
func (b *Buffer) ScrollDown(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 {
		return
	}
	if n > b.rows {
		n = b.rows
	}
	copy(b.screen[n:], b.screen[:b.rows-n])
	for y := 0; y < n; y++ {
		b.screen[y] = b.newLine()
	}
	b.markAllDirty()
}

// --- Pen attributes ---

// ResetAttributes resets the pen to default attributes. The active hyperlink
// is not affected; SGR 0 does not end an OSC 8 link.
func (b *Buffer) ResetAttributes() {
	b.mu.Lock()
	defer b.mu.Unlock()
	link := b.pen.Hyperlink
	b.pen = EmptyCell()
	b.pen.Hyperlink = link
}

// SetBold sets bold mode
func (b *Buffer) SetBold(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pen.Bold = v
}

// SetItalic sets italic mode
func (b *Buffer) SetItalic(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pen.Italic = v
}

// SetUnderline sets underline mode
func (b *Buffer) SetUnderline(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pen.Underline = v
}

// SetBlink sets blink mode
func (b *Buffer) SetBlink(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pen.Blink = v
}

// SetReverse sets reverse video mode
func (b *Buffer) SetReverse(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pen.Reverse = v
}

// SetStrikethrough sets strikethrough mode
func (b *Buffer) SetStrikethrough(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pen.Strikethrough = v
}

// SetForeground sets the foreground color
func (b *Buffer) SetForeground(c Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pen.Foreground = c
}

// SetBackground sets the background color
func (b *Buffer) SetBackground(c Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pen.Background = c
}

// Pen returns the attributes newly written characters receive.
func (b *Buffer) Pen() Cell {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pen
}
