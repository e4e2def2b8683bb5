package cli

import (
	"io"
)

// Special key constants for internal handling
const (
	keyNone = iota
	keyUp
	keyDown
	keyHome
	keyEnd
	keyPageUp
	keyPageDown
	keyQuit
	keyRedraw
)

// InputHandler maps keyboard input from the host terminal to view actions:
// scrolling through the scrollback, redrawing and quitting
type InputHandler struct {
	term         *Terminal
	escapeBuffer []byte
}

// NewInputHandler creates a new input handler
func NewInputHandler(term *Terminal) *InputHandler {
	return &InputHandler{
		term:         term,
		escapeBuffer: make([]byte, 0, 32),
	}
}

// InputLoop reads and processes input until r fails or the terminal stops
func (h *InputHandler) InputLoop(r io.Reader) {
	buf := make([]byte, 256)
	for {
		select {
		case <-h.term.stopRender:
			return
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			h.processInput(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// processInput handles raw input bytes
func (h *InputHandler) processInput(data []byte) {
	for i := 0; i < len(data); i++ {
		b := data[i]

		if len(h.escapeBuffer) > 0 {
			h.escapeBuffer = append(h.escapeBuffer, b)
			key, complete := parseEscapeSequence(h.escapeBuffer)
			if complete || len(h.escapeBuffer) == cap(h.escapeBuffer) {
				h.escapeBuffer = h.escapeBuffer[:0]
				h.handleKey(key)
			}
			continue
		}

		switch b {
		case 0x1b:
			h.escapeBuffer = append(h.escapeBuffer[:0], b)
		case 'q', 'Q', 0x03: // q or Ctrl+C
			h.handleKey(keyQuit)
		case 'k':
			h.handleKey(keyUp)
		case 'j':
			h.handleKey(keyDown)
		case 'g':
			h.handleKey(keyHome)
		case 'G':
			h.handleKey(keyEnd)
		case ' ':
			h.handleKey(keyPageDown)
		case 'b':
			h.handleKey(keyPageUp)
		case 0x0c: // Ctrl+L
			h.handleKey(keyRedraw)
		}
	}
}

// parseEscapeSequence decodes the cursor and paging keys. complete is false
// while more bytes are needed.
func parseEscapeSequence(seq []byte) (key int, complete bool) {
	if len(seq) < 2 {
		return keyNone, false
	}
	if seq[1] != '[' && seq[1] != 'O' {
		return keyNone, true
	}
	if len(seq) < 3 {
		return keyNone, false
	}

	last := seq[len(seq)-1]
	if last >= '0' && last <= '9' || last == ';' {
		return keyNone, false
	}

	switch last {
	case 'A':
		return keyUp, true
	case 'B':
		return keyDown, true
	case 'H':
		return keyHome, true
	case 'F':
		return keyEnd, true
	case '~':
		switch seq[2] {
		case '1', '7':
			return keyHome, true
		case '4', '8':
			return keyEnd, true
		case '5':
			return keyPageUp, true
		case '6':
			return keyPageDown, true
		}
	}
	return keyNone, true
}

func (h *InputHandler) handleKey(key int) {
	_, rows := h.term.GetSize()
	switch key {
	case keyUp:
		h.term.ScrollUp(1)
	case keyDown:
		h.term.ScrollDown(1)
	case keyPageUp:
		h.term.ScrollUp(rows)
	case keyPageDown:
		h.term.ScrollDown(rows)
	case keyHome:
		h.term.ScrollToTop()
	case keyEnd:
		h.term.ScrollToBottom()
	case keyRedraw:
		h.term.renderer.ForceFullRedraw()
	case keyQuit:
		h.term.Quit()
	}
}
