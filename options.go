package purfectmux

import (
	"log/slog"

	"github.com/phroun/purfectmux/hyperlink"
)

// DefaultScrollback is the scrollback length used when none is configured.
const DefaultScrollback = 1000

type options struct {
	scrollback int
	pool       *hyperlink.Pool
	logger     *slog.Logger
}

// Option configures a Buffer.
type Option func(*options)

// WithScrollback sets the number of lines kept above the screen.
// Zero disables scrollback.
func WithScrollback(lines int) Option {
	return func(o *options) {
		if lines < 0 {
			lines = 0
		}
		o.scrollback = lines
	}
}

// WithHyperlinkPool sets the pool the buffer's hyperlink registry belongs to.
// Buffers sharing a pool share its capacity bound. If nil is passed,
// hyperlink.Default() is used.
func WithHyperlinkPool(p *hyperlink.Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithLogger sets the logger used by the buffer.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
