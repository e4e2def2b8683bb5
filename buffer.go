package purfectmux

import (
	"context"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/phroun/purfectmux/hyperlink"
	"github.com/phroun/purfectmux/internal/logging"
)

// Buffer manages one display surface: the screen grid, its scrollback and the
// hyperlink registry its cells refer to.
type Buffer struct {
	mu sync.RWMutex

	cols int
	rows int

	cursorX       int
	cursorY       int
	cursorVisible bool
	wrapPending   bool // Cursor sits past the last column; next char wraps

	savedCursorX int
	savedCursorY int
	savedPen     Cell

	// pen holds the attributes, including the active hyperlink, that newly
	// written characters receive
	pen Cell

	autoWrapMode bool // DECAWM

	// Screen storage, always rows x cols
	screen [][]Cell

	// Scrollback storage, oldest line first
	scrollback    [][]Cell
	maxScrollback int

	links *hyperlink.Registry

	title string

	sel selection

	dirty     bool
	dirtyRows *bitset.BitSet
	onDirty   func()

	closed bool
	log    *logging.Logger
}

// NewBuffer creates a new terminal buffer of cols x rows cells.
func NewBuffer(cols, rows int, opts ...Option) (*Buffer, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}

	o := options{scrollback: DefaultScrollback}
	for _, fn := range opts {
		fn(&o)
	}

	b := &Buffer{
		cols:          cols,
		rows:          rows,
		cursorVisible: true,
		pen:           EmptyCell(),
		savedPen:      EmptyCell(),
		autoWrapMode:  true,
		maxScrollback: o.scrollback,
		links:         hyperlink.NewRegistry(o.pool),
		dirty:         true,
		dirtyRows:     bitset.New(uint(rows)),
	}
	b.log = logging.New(o.logger).WithRegistry(b.links.ID()).WithSurface(cols, rows)
	b.initScreen()
	return b, nil
}

func (b *Buffer) initScreen() {
	b.screen = make([][]Cell, b.rows)
	for y := range b.screen {
		b.screen[y] = b.newLine()
	}
	b.markAllDirty()
}

func (b *Buffer) newLine() []Cell {
	line := make([]Cell, b.cols)
	for x := range line {
		line[x] = EmptyCell()
	}
	return line
}

// GetSize returns the buffer dimensions
func (b *Buffer) GetSize() (cols, rows int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cols, b.rows
}

// Resize changes the screen dimensions. Lines that no longer fit above the
// cursor are moved into scrollback.
func (b *Buffer) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if cols == b.cols && rows == b.rows {
		return nil
	}

	// Keep the cursor line on screen when shrinking
	for len(b.screen) > rows && b.cursorY >= rows {
		b.pushScrollback(b.screen[0])
		b.screen = b.screen[1:]
		b.cursorY--
	}
	if len(b.screen) > rows {
		b.screen = b.screen[:rows]
	}

	b.cols = cols
	for y := range b.screen {
		b.screen[y] = resizeLine(b.screen[y], cols)
	}
	b.rows = rows
	for len(b.screen) < rows {
		b.screen = append(b.screen, b.newLine())
	}

	b.clampCursor()
	b.dirtyRows = bitset.New(uint(rows))
	b.markAllDirty()
	b.log.DebugContext(context.Background(), "buffer resized", "new_cols", cols, "new_rows", rows)
	return nil
}

func resizeLine(line []Cell, cols int) []Cell {
	if len(line) >= cols {
		line = line[:cols]
		// Do not leave the left half of a wide rune without its right half
		if cols > 0 && line[cols-1].Width == 2 {
			line[cols-1] = EmptyCell()
		}
		return line
	}
	for len(line) < cols {
		line = append(line, EmptyCell())
	}
	return line
}

// GetCell returns the cell at screen position (x, y). Out-of-range positions
// return an empty cell.
func (b *Buffer) GetCell(x, y int) Cell {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if y < 0 || y >= b.rows || x < 0 || x >= b.cols {
		return EmptyCell()
	}
	return b.screen[y][x]
}

// GetLine returns a copy of screen line y.
func (b *Buffer) GetLine(y int) []Cell {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if y < 0 || y >= b.rows {
		return nil
	}
	return append([]Cell(nil), b.screen[y]...)
}

// ScrollbackLen returns the number of lines in scrollback.
func (b *Buffer) ScrollbackLen() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.scrollback)
}

// GetScrollbackLine returns a copy of scrollback line i (0 is the oldest).
func (b *Buffer) GetScrollbackLine(i int) []Cell {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.scrollback) {
		return nil
	}
	return append([]Cell(nil), b.scrollback[i]...)
}

// ClearScrollback drops all scrollback lines.
func (b *Buffer) ClearScrollback() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scrollback = nil
}

func (b *Buffer) pushScrollback(line []Cell) {
	if b.maxScrollback == 0 {
		return
	}
	b.scrollback = append(b.scrollback, line)
	if over := len(b.scrollback) - b.maxScrollback; over > 0 {
		b.scrollback = b.scrollback[over:]
	}
}

// SetTitle sets the window title reported by OSC 0/2.
func (b *Buffer) SetTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.title = title
	b.markDirtyFlag()
}

// Title returns the window title.
func (b *Buffer) Title() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.title
}

// SetAutoWrap enables or disables DECAWM.
func (b *Buffer) SetAutoWrap(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.autoWrapMode = enabled
	b.wrapPending = false
}

// Reset performs a full reset (RIS): screen, scrollback, cursor, attributes
// and every hyperlink owned by the buffer are cleared. Hyperlink handles are
// not reused afterwards.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.initScreen()
	b.scrollback = nil
	b.cursorX, b.cursorY = 0, 0
	b.savedCursorX, b.savedCursorY = 0, 0
	b.cursorVisible = true
	b.wrapPending = false
	b.autoWrapMode = true
	b.pen = EmptyCell()
	b.savedPen = EmptyCell()
	b.title = ""
	b.sel = selection{}

	if !b.closed {
		b.links.Reset()
	}
	b.log.DebugContext(context.Background(), "buffer reset")
}

// Close releases the buffer's hyperlinks. The buffer must not be written to
// afterwards.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.closed = true
	b.links.Free()
	return nil
}

// --- Dirty tracking ---

// SetDirtyCallback sets a callback to be invoked when the buffer changes.
// It is called with the buffer lock held and must not call back into the buffer.
func (b *Buffer) SetDirtyCallback(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onDirty = fn
}

// IsDirty returns true if the buffer changed since ClearDirty
func (b *Buffer) IsDirty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dirty
}

// ClearDirty clears the dirty flag
func (b *Buffer) ClearDirty() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirty = false
}

// TakeDirtyRows returns the set of screen rows changed since the last call
// and clears it.
func (b *Buffer) TakeDirtyRows() *bitset.BitSet {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows := b.dirtyRows.Clone()
	b.dirtyRows.ClearAll()
	return rows
}

func (b *Buffer) markDirtyFlag() {
	b.dirty = true
	if b.onDirty != nil {
		b.onDirty()
	}
}

func (b *Buffer) markDirty(y int) {
	if y >= 0 && y < b.rows {
		b.dirtyRows.Set(uint(y))
	}
	b.markDirtyFlag()
}

func (b *Buffer) markRangeDirty(from, to int) {
	for y := from; y <= to; y++ {
		if y >= 0 && y < b.rows {
			b.dirtyRows.Set(uint(y))
		}
	}
	b.markDirtyFlag()
}

func (b *Buffer) markAllDirty() {
	b.markRangeDirty(0, b.rows-1)
}
