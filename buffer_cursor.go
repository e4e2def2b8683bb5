package purfectmux

// GetCursor returns the current cursor position
func (b *Buffer) GetCursor() (x, y int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursorX, b.cursorY
}

// SetCursor sets the cursor position, clamped to the screen
func (b *Buffer) SetCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCursorInternal(x, y)
}

func (b *Buffer) setCursorInternal(x, y int) {
	b.markDirty(b.cursorY)
	b.cursorX, b.cursorY = x, y
	b.wrapPending = false
	b.clampCursor()
	b.markDirty(b.cursorY)
}

func (b *Buffer) clampCursor() {
	if b.cursorX < 0 {
		b.cursorX = 0
	}
	if b.cursorX >= b.cols {
		b.cursorX = b.cols - 1
	}
	if b.cursorY < 0 {
		b.cursorY = 0
	}
	if b.cursorY >= b.rows {
		b.cursorY = b.rows - 1
	}
}

// SetCursorVisible sets cursor visibility
func (b *Buffer) SetCursorVisible(visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorVisible = visible
	b.markDirty(b.cursorY)
}

// IsCursorVisible returns cursor visibility
func (b *Buffer) IsCursorVisible() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursorVisible
}

// SaveCursor saves the cursor position and pen (DECSC)
func (b *Buffer) SaveCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.savedCursorX = b.cursorX
	b.savedCursorY = b.cursorY
	b.savedPen = b.pen
}

// RestoreCursor restores the cursor position and pen (DECRC)
func (b *Buffer) RestoreCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pen = b.savedPen
	b.setCursorInternal(b.savedCursorX, b.savedCursorY)
}

// MoveCursorUp moves cursor up n rows
func (b *Buffer) MoveCursorUp(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCursorInternal(b.cursorX, b.cursorY-n)
}

// MoveCursorDown moves cursor down n rows
func (b *Buffer) MoveCursorDown(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCursorInternal(b.cursorX, b.cursorY+n)
}

// MoveCursorForward moves cursor right n columns
func (b *Buffer) MoveCursorForward(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCursorInternal(b.cursorX+n, b.cursorY)
}

// MoveCursorBackward moves cursor left n columns
func (b *Buffer) MoveCursorBackward(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCursorInternal(b.cursorX-n, b.cursorY)
}
