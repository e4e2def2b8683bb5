package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/phroun/purfectmux"
	"github.com/phroun/purfectmux/hyperlink"
	"github.com/phroun/purfectmux/internal/logging"
)

// BorderStyle defines the visual style for the terminal window border
type BorderStyle int

const (
	BorderNone    BorderStyle = iota // No border
	BorderSingle                     // Single-line box drawing characters
	BorderDouble                     // Double-line box drawing characters
	BorderHeavy                      // Heavy/thick box drawing characters
	BorderRounded                    // Rounded corners (single line)
)

// Options configures terminal creation
type Options struct {
	Cols           int // Terminal width in columns (default: auto-detect or 80)
	Rows           int // Terminal height in rows (default: auto-detect or 24)
	ScrollbackSize int // Number of scrollback lines (default: purfectmux.DefaultScrollback)

	// Display options
	BorderStyle BorderStyle // Border style around the terminal window
	Title       string      // Window title; an OSC 0/2 title from the stream takes precedence
	OffsetX     int         // X offset from top-left of actual terminal (0 = left edge)
	OffsetY     int         // Y offset from top-left of actual terminal (0 = top edge)

	// If true, the terminal window auto-sizes to fill available space
	AutoSize bool

	// If true, render a status bar at the bottom
	ShowStatusBar bool

	// Pool holds the surface's hyperlinks (default: hyperlink.Default())
	Pool *hyperlink.Pool

	// Output receives the rendered frames (default: os.Stdout)
	Output io.Writer

	// Logger receives debug events (default: discard)
	Logger *slog.Logger
}

// Terminal is a terminal surface displayed within a CLI terminal
type Terminal struct {
	mu sync.Mutex

	buffer  *purfectmux.Buffer
	options Options

	feedMu sync.Mutex
	parser *purfectmux.Parser

	renderer *Renderer
	input    *InputHandler

	// View state: lines scrolled back into the scrollback
	scrollOffset int

	done       chan struct{}
	doneOnce   sync.Once
	stopRender chan struct{}
	stopOnce   sync.Once

	// Original terminal state for restoration
	oldState *term.State

	// Actual terminal size
	hostCols int
	hostRows int

	onResize func(cols, rows int)

	log *logging.Logger
}

// New creates a new CLI terminal
func New(opts Options) (*Terminal, error) {
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	if opts.ScrollbackSize <= 0 {
		opts.ScrollbackSize = purfectmux.DefaultScrollback
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	hostCols, hostRows := getHostTerminalSize()
	if opts.AutoSize {
		opts.Cols, opts.Rows = fitSize(opts, hostCols, hostRows)
	}

	buffer, err := purfectmux.NewBuffer(opts.Cols, opts.Rows,
		purfectmux.WithScrollback(opts.ScrollbackSize),
		purfectmux.WithHyperlinkPool(opts.Pool),
		purfectmux.WithLogger(opts.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create buffer: %w", err)
	}

	t := &Terminal{
		buffer:     buffer,
		parser:     purfectmux.NewParser(buffer),
		options:    opts,
		done:       make(chan struct{}),
		stopRender: make(chan struct{}),
		hostCols:   hostCols,
		hostRows:   hostRows,
		log:        logging.New(opts.Logger),
	}
	t.renderer = NewRenderer(t)
	t.input = NewInputHandler(t)

	buffer.SetDirtyCallback(t.renderer.RequestRender)

	return t, nil
}

// fitSize returns the surface size that fills the host terminal.
func fitSize(opts Options, hostCols, hostRows int) (cols, rows int) {
	borderOffset := 0
	if opts.BorderStyle != BorderNone {
		borderOffset = 2
	}
	statusOffset := 0
	if opts.ShowStatusBar {
		statusOffset = 1
	}
	cols = hostCols - opts.OffsetX*2 - borderOffset
	rows = hostRows - opts.OffsetY*2 - borderOffset - statusOffset
	if cols < 20 {
		cols = 20
	}
	if rows < 5 {
		rows = 5
	}
	return cols, rows
}

// getHostTerminalSize returns the current size of the host terminal
func getHostTerminalSize() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80, 24
	}
	return cols, rows
}

// Start enters raw mode, switches to the alternate screen and starts the
// render and input loops
func (t *Terminal) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	t.oldState = oldState

	// Hide host cursor, enable alternate screen, clear
	io.WriteString(t.options.Output, "\033[?25l\033[?1049h\033[2J\033[H")

	go t.handleSIGWINCH()
	go t.renderer.RenderLoop()
	go t.input.InputLoop(os.Stdin)

	t.log.DebugContext(context.Background(), "terminal started", "host_cols", t.hostCols, "host_rows", t.hostRows)
	return nil
}

// handleSIGWINCH listens for terminal resize signals
func (t *Terminal) handleSIGWINCH() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-sigChan:
			t.handleResize()
		case <-t.stopRender:
			return
		}
	}
}

// handleResize updates terminal size when the host terminal is resized
func (t *Terminal) handleResize() {
	newCols, newRows := getHostTerminalSize()

	t.mu.Lock()
	if newCols == t.hostCols && newRows == t.hostRows {
		t.mu.Unlock()
		return
	}
	t.hostCols = newCols
	t.hostRows = newRows
	autoSize := t.options.AutoSize
	opts := t.options
	t.mu.Unlock()

	if autoSize {
		cols, rows := fitSize(opts, newCols, newRows)
		if err := t.Resize(cols, rows); err != nil {
			t.log.WarnContext(context.Background(), "resize failed", "error", err)
			return
		}
	}
	t.renderer.ForceFullRedraw()
}

// Feed writes data directly to the terminal display
func (t *Terminal) Feed(data []byte) {
	t.feedMu.Lock()
	defer t.feedMu.Unlock()
	t.parser.Parse(data)
}

// FeedString writes a string to the terminal display
func (t *Terminal) FeedString(data string) {
	t.Feed([]byte(data))
}

// Run feeds everything read from r to the terminal until r is exhausted or
// ctx is done. Reaching EOF is not an error.
func (t *Terminal) Run(ctx context.Context, r io.Reader) error {
	type chunk struct {
		data []byte
		err  error
	}
	chunks := make(chan chunk)

	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := r.Read(buf)
			c := chunk{data: append([]byte(nil), buf[:n]...), err: err}
			select {
			case chunks <- c:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-chunks:
			if len(c.data) > 0 {
				t.Feed(c.data)
			}
			if errors.Is(c.err, io.EOF) {
				return nil
			}
			if c.err != nil {
				return fmt.Errorf("read input: %w", c.err)
			}
		}
	}
}

// GetSize returns the terminal size in columns and rows
func (t *Terminal) GetSize() (cols, rows int) {
	return t.buffer.GetSize()
}

// GetHostSize returns the host terminal size
func (t *Terminal) GetHostSize() (cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hostCols, t.hostRows
}

// Resize resizes the terminal surface
func (t *Terminal) Resize(cols, rows int) error {
	if err := t.buffer.Resize(cols, rows); err != nil {
		return err
	}

	t.mu.Lock()
	t.options.Cols = cols
	t.options.Rows = rows
	onResize := t.onResize
	t.mu.Unlock()

	t.clampScroll()
	t.renderer.ForceFullRedraw()
	if onResize != nil {
		onResize(cols, rows)
	}
	return nil
}

// Buffer returns the underlying terminal buffer
func (t *Terminal) Buffer() *purfectmux.Buffer {
	return t.buffer
}

// ScrollUp scrolls the view up by n lines (into scrollback)
func (t *Terminal) ScrollUp(n int) {
	t.setScrollOffset(t.GetScrollOffset() + n)
}

// ScrollDown scrolls the view down by n lines (toward current output)
func (t *Terminal) ScrollDown(n int) {
	t.setScrollOffset(t.GetScrollOffset() - n)
}

// ScrollToTop scrolls to the top of scrollback
func (t *Terminal) ScrollToTop() {
	t.setScrollOffset(t.GetMaxScrollOffset())
}

// ScrollToBottom scrolls to the bottom (current output)
func (t *Terminal) ScrollToBottom() {
	t.setScrollOffset(0)
}

// GetScrollOffset returns the current scroll offset
func (t *Terminal) GetScrollOffset() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scrollOffset
}

// GetMaxScrollOffset returns the maximum scroll offset
func (t *Terminal) GetMaxScrollOffset() int {
	return t.buffer.ScrollbackLen()
}

func (t *Terminal) setScrollOffset(offset int) {
	if max := t.GetMaxScrollOffset(); offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	t.mu.Lock()
	changed := offset != t.scrollOffset
	t.scrollOffset = offset
	t.mu.Unlock()
	if changed {
		t.renderer.ForceFullRedraw()
	}
}

func (t *Terminal) clampScroll() {
	t.setScrollOffset(t.GetScrollOffset())
}

// Reset resets the terminal to initial state, hyperlinks included
func (t *Terminal) Reset() {
	t.buffer.Reset()
	t.setScrollOffset(0)
}

// SetOnResize sets a callback for terminal resize events
func (t *Terminal) SetOnResize(fn func(cols, rows int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onResize = fn
}

// SetTitle sets the title shown in the top border
func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	t.options.Title = title
	t.mu.Unlock()
	t.renderer.RequestRender()
}

// Quit ends Wait. It is safe to call more than once.
func (t *Terminal) Quit() {
	t.doneOnce.Do(func() { close(t.done) })
}

// Done is closed when the user quits.
func (t *Terminal) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the user quits or ctx is done.
func (t *Terminal) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops the loops, restores the original terminal state and releases
// the surface's hyperlinks
func (t *Terminal) Stop() error {
	t.stopOnce.Do(func() { close(t.stopRender) })

	t.mu.Lock()
	oldState := t.oldState
	t.oldState = nil
	t.mu.Unlock()

	if oldState != nil {
		// Leave alternate screen, show cursor, reset attributes
		io.WriteString(t.options.Output, "\033[?1049l\033[?25h\033[0m")
		if err := term.Restore(int(os.Stdin.Fd()), oldState); err != nil {
			return fmt.Errorf("restore terminal: %w", err)
		}
	}

	if err := t.buffer.Close(); err != nil && !errors.Is(err, purfectmux.ErrClosed) {
		return err
	}
	return nil
}

// Close is an alias for Stop
func (t *Terminal) Close() error {
	return t.Stop()
}
