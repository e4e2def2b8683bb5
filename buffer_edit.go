package purfectmux

// --- Erasing ---

// ClearScreen erases the whole screen; the cursor does not move
func (b *Buffer) ClearScreen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := 0; y < b.rows; y++ {
		b.eraseRange(y, 0, b.cols)
	}
	b.markAllDirty()
}

// ClearToEndOfLine erases from the cursor to the end of the line
func (b *Buffer) ClearToEndOfLine() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eraseRange(b.cursorY, b.cursorX, b.cols)
	b.markDirty(b.cursorY)
}

// ClearToStartOfLine erases from the start of the line to the cursor
func (b *Buffer) ClearToStartOfLine() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eraseRange(b.cursorY, 0, b.cursorX+1)
	b.markDirty(b.cursorY)
}

// ClearLine erases the cursor line
func (b *Buffer) ClearLine() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eraseRange(b.cursorY, 0, b.cols)
	b.markDirty(b.cursorY)
}

// ClearToEndOfScreen erases from the cursor to the end of the screen
func (b *Buffer) ClearToEndOfScreen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eraseRange(b.cursorY, b.cursorX, b.cols)
	for y := b.cursorY + 1; y < b.rows; y++ {
		b.eraseRange(y, 0, b.cols)
	}
	b.markRangeDirty(b.cursorY, b.rows-1)
}

// ClearToStartOfScreen erases from the start of the screen to the cursor
func (b *Buffer) ClearToStartOfScreen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := 0; y < b.cursorY; y++ {
		b.eraseRange(y, 0, b.cols)
	}
	b.eraseRange(b.cursorY, 0, b.cursorX+1)
	b.markRangeDirty(0, b.cursorY)
}

// EraseChars erases n characters starting at the cursor (ECH)
func (b *Buffer) EraseChars(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eraseRange(b.cursorY, b.cursorX, b.cursorX+n)
	b.markDirty(b.cursorY)
}

// eraseRange blanks cells [from, to) of line y with the pen background.
func (b *Buffer) eraseRange(y, from, to int) {
	if y < 0 || y >= b.rows {
		return
	}
	if from < 0 {
		from = 0
	}
	if to > b.cols {
		to = b.cols
	}
	line := b.screen[y]
	for x := from; x < to; x++ {
		line[x] = blankCell(b.pen)
	}
	b.wrapPending = false
}

// --- Insert / delete ---

// InsertChars inserts n blank characters at the cursor, shifting the rest
// of the line right (ICH)
func (b *Buffer) InsertChars(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 {
		return
	}
	line := b.screen[b.cursorY]
	if n > b.cols-b.cursorX {
		n = b.cols - b.cursorX
	}
	copy(line[b.cursorX+n:], line[b.cursorX:b.cols-n])
	for x := b.cursorX; x < b.cursorX+n; x++ {
		line[x] = blankCell(b.pen)
	}
	b.markDirty(b.cursorY)
}

// DeleteChars deletes n characters at the cursor, shifting the rest of the
// line left (DCH)
func (b *Buffer) DeleteChars(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 {
		return
	}
	line := b.screen[b.cursorY]
	if n > b.cols-b.cursorX {
		n = b.cols - b.cursorX
	}
	copy(line[b.cursorX:], line[b.cursorX+n:])
	for x := b.cols - n; x < b.cols; x++ {
		line[x] = blankCell(b.pen)
	}
	b.markDirty(b.cursorY)
}

// InsertLines inserts n blank lines at the cursor row (IL)
func (b *Buffer) InsertLines(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 {
		return
	}
	if n > b.rows-b.cursorY {
		n = b.rows - b.cursorY
	}
	copy(b.screen[b.cursorY+n:], b.screen[b.cursorY:b.rows-n])
	for y := b.cursorY; y < b.cursorY+n; y++ {
		b.screen[y] = b.newLine()
	}
	b.markRangeDirty(b.cursorY, b.rows-1)
}

// DeleteLines deletes n lines at the cursor row (DL)
func (b *Buffer) DeleteLines(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 {
		return
	}
	if n > b.rows-b.cursorY {
		n = b.rows - b.cursorY
	}
	copy(b.screen[b.cursorY:], b.screen[b.cursorY+n:])
	for y := b.rows - n; y < b.rows; y++ {
		b.screen[y] = b.newLine()
	}
	b.markRangeDirty(b.cursorY, b.rows-1)
}
