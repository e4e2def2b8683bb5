package purfectmux

import (
	"context"

	"github.com/phroun/purfectmux/hyperlink"
)

// StartHyperlink stores uri in the buffer's registry and makes it the active
// hyperlink of the pen, so following characters carry it. id groups cells
// that belong to the same link; an empty id makes the link anonymous. An
// empty uri ends the active hyperlink instead.
func (b *Buffer) StartHyperlink(uri, id string) hyperlink.Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if uri == "" || b.closed {
		b.pen.Hyperlink = 0
		return 0
	}
	h := b.links.Put(uri, id)
	b.pen.Hyperlink = h
	b.log.DebugContext(context.Background(), "hyperlink started", "handle", uint32(h))
	return h
}

// EndHyperlink clears the active hyperlink of the pen.
func (b *Buffer) EndHyperlink() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pen.Hyperlink = 0
}

// CurrentHyperlink returns the handle carried by the pen, or 0.
func (b *Buffer) CurrentHyperlink() hyperlink.Handle {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pen.Hyperlink
}

// Hyperlink resolves a cell's hyperlink handle to its URI and external token.
// ok is false for 0, for unknown handles and for links that were evicted or
// reset; such cells are shown without a link.
func (b *Buffer) Hyperlink(h hyperlink.Handle) (uri, token string, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.hyperlinkInternal(h)
}

func (b *Buffer) hyperlinkInternal(h hyperlink.Handle) (uri, token string, ok bool) {
	if h == 0 || b.closed {
		return "", "", false
	}
	return b.links.Get(h)
}

// Hyperlinks returns the live hyperlinks of the buffer in handle order.
func (b *Buffer) Hyperlinks() []hyperlink.Link {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	return b.links.Links()
}

// Registry returns the hyperlink registry owned by the buffer.
func (b *Buffer) Registry() *hyperlink.Registry {
	return b.links
}
