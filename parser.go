package purfectmux

import (
	"strconv"
	"strings"
)

// Parser states
type parserState int

const (
	stateGround    parserState = iota
	stateEscape                // After ESC
	stateCSI                   // After ESC [
	stateCSIParam              // Reading CSI parameters
	stateOSC                   // After ESC ]
	stateOSCString             // Reading OSC string
	stateOSCEscape             // ESC inside an OSC string, expecting '\'
	stateCharset               // After ESC ( or ESC )
)

// maxOSCLength bounds an OSC string; longer sequences are discarded.
const maxOSCLength = 64 * 1024

// SGRParam represents an SGR parameter with optional subparameters
// For example, "38:2:255:128:0" becomes {Base: 38, Subs: [2, 255, 128, 0]}
type SGRParam struct {
	Base int   // Primary parameter value
	Subs []int // Subparameters (colon-separated values after the base)
}

// Parser parses ANSI escape sequences and updates a Buffer
type Parser struct {
	buffer *Buffer
	state  parserState

	// CSI sequence accumulator
	csiParams    []int
	csiRawParams []string // Raw parameter strings for subparameter parsing
	csiPrivate   byte     // For private sequences like ?25h
	csiBuf       strings.Builder

	// OSC accumulator
	oscCmd      int
	oscBuf      strings.Builder
	oscOverflow bool

	// UTF-8 multi-byte handling
	utf8Buf  []byte
	utf8Need int
}

// NewParser creates a new ANSI parser for the given buffer
func NewParser(buffer *Buffer) *Parser {
	return &Parser{
		buffer:    buffer,
		state:     stateGround,
		csiParams: make([]int, 0, 16),
	}
}

// Parse processes input data and updates the terminal buffer
func (p *Parser) Parse(data []byte) {
	for _, b := range data {
		p.processByte(b)
	}
}

// ParseString processes a string and updates the terminal buffer
func (p *Parser) ParseString(data string) {
	p.Parse([]byte(data))
}

// Write implements io.Writer so a Parser can be the target of io.Copy.
func (p *Parser) Write(data []byte) (int, error) {
	p.Parse(data)
	return len(data), nil
}

func (p *Parser) processByte(b byte) {
	// Handle UTF-8 continuation bytes
	if p.utf8Need > 0 {
		if b&0xC0 == 0x80 {
			p.utf8Buf = append(p.utf8Buf, b)
			p.utf8Need--
			if p.utf8Need == 0 {
				p.buffer.WriteChar(decodeUTF8(p.utf8Buf))
				p.utf8Buf = p.utf8Buf[:0]
			}
			return
		}
		// Invalid UTF-8, show a replacement and reprocess b
		p.utf8Buf = p.utf8Buf[:0]
		p.utf8Need = 0
		p.buffer.WriteChar(0xFFFD)
	}

	// UTF-8 start bytes are only decoded in ground state; OSC strings keep
	// their raw bytes
	if p.state == stateGround {
		switch {
		case b&0xE0 == 0xC0:
			p.utf8Buf = append(p.utf8Buf[:0], b)
			p.utf8Need = 1
			return
		case b&0xF0 == 0xE0:
			p.utf8Buf = append(p.utf8Buf[:0], b)
			p.utf8Need = 2
			return
		case b&0xF8 == 0xF0:
			p.utf8Buf = append(p.utf8Buf[:0], b)
			p.utf8Need = 3
			return
		}
	}

	switch p.state {
	case stateGround:
		p.handleGround(b)
	case stateEscape:
		p.handleEscape(b)
	case stateCSI, stateCSIParam:
		p.handleCSI(b)
	case stateOSC:
		p.handleOSC(b)
	case stateOSCString:
		p.handleOSCString(b)
	case stateOSCEscape:
		p.handleOSCEscape(b)
	case stateCharset:
		// Consume one character and return to ground
		p.state = stateGround
	}
}

func decodeUTF8(buf []byte) rune {
	switch len(buf) {
	case 2:
		return rune(buf[0]&0x1F)<<6 | rune(buf[1]&0x3F)
	case 3:
		return rune(buf[0]&0x0F)<<12 | rune(buf[1]&0x3F)<<6 | rune(buf[2]&0x3F)
	case 4:
		return rune(buf[0]&0x07)<<18 | rune(buf[1]&0x3F)<<12 | rune(buf[2]&0x3F)<<6 | rune(buf[3]&0x3F)
	default:
		return 0xFFFD
	}
}

func (p *Parser) handleGround(b byte) {
	switch b {
	case 0x00: // NUL - ignore
	case 0x07: // BEL - ignore
	case 0x08: // BS - backspace
		p.buffer.Backspace()
	case 0x09: // HT - horizontal tab
		p.buffer.Tab()
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		p.buffer.LineFeed()
	case 0x0D: // CR - carriage return
		p.buffer.CarriageReturn()
	case 0x1B: // ESC
		p.state = stateEscape
	default:
		if b >= 0x20 && b < 0x7F {
			p.buffer.WriteChar(rune(b))
		}
	}
}

func (p *Parser) handleEscape(b byte) {
	p.state = stateGround
	switch b {
	case '[': // CSI - Control Sequence Introducer
		p.state = stateCSI
		p.csiParams = p.csiParams[:0]
		p.csiRawParams = p.csiRawParams[:0]
		p.csiPrivate = 0
		p.csiBuf.Reset()
	case ']': // OSC - Operating System Command
		p.state = stateOSC
		p.oscCmd = 0
		p.oscBuf.Reset()
		p.oscOverflow = false
	case '(', ')': // Character set designation
		p.state = stateCharset
	case '7': // DECSC - Save Cursor
		p.buffer.SaveCursor()
	case '8': // DECRC - Restore Cursor
		p.buffer.RestoreCursor()
	case 'c': // RIS - Reset to Initial State, hyperlinks included
		p.buffer.Reset()
	case 'D': // IND - Index
		p.buffer.LineFeed()
	case 'E': // NEL - Next Line
		p.buffer.Newline()
	case 'M': // RI - Reverse Index
		_, y := p.buffer.GetCursor()
		if y == 0 {
			p.buffer.ScrollDown(1)
		} else {
			p.buffer.MoveCursorUp(1)
		}
	}
}

func (p *Parser) handleCSI(b byte) {
	if p.state == stateCSI {
		// First byte after ESC [
		p.state = stateCSIParam
		if b == '?' || b == '>' || b == '!' || b == '<' {
			p.csiPrivate = b
			return
		}
	}

	switch {
	case b >= '0' && b <= '9', b == ':':
		p.csiBuf.WriteByte(b)
	case b == ';':
		p.parseCSIParam()
		p.csiBuf.Reset()
	case b >= 0x20 && b <= 0x2F:
		// Intermediate bytes are accepted and ignored
	case b >= 0x40 && b <= 0x7E:
		p.parseCSIParam()
		p.executeCSI(b)
		p.state = stateGround
	case b == 0x1B:
		// Aborted sequence; ESC starts a new one
		p.state = stateEscape
	default:
		p.state = stateGround
	}
}

func (p *Parser) parseCSIParam() {
	s := p.csiBuf.String()
	if s == "" {
		p.csiParams = append(p.csiParams, 0)
		p.csiRawParams = append(p.csiRawParams, "")
		return
	}
	p.csiRawParams = append(p.csiRawParams, s)
	base := s
	if colonIdx := strings.IndexByte(s, ':'); colonIdx >= 0 {
		base = s[:colonIdx]
	}
	n, _ := strconv.Atoi(base)
	p.csiParams = append(p.csiParams, n)
}

// parseSGRParam parses a raw parameter string into an SGRParam with subparameters
func parseSGRParam(raw string) SGRParam {
	if raw == "" {
		return SGRParam{}
	}
	parts := strings.Split(raw, ":")
	base, _ := strconv.Atoi(parts[0])
	var subs []int
	for _, part := range parts[1:] {
		if part == "" {
			subs = append(subs, -1) // empty/default, e.g. the colorspace in 38:2::R:G:B
			continue
		}
		n, _ := strconv.Atoi(part)
		subs = append(subs, n)
	}
	return SGRParam{Base: base, Subs: subs}
}

func (p *Parser) getParam(idx, defaultVal int) int {
	if idx < len(p.csiParams) && p.csiParams[idx] > 0 {
		return p.csiParams[idx]
	}
	return defaultVal
}

func (p *Parser) executeCSI(finalByte byte) {
	if p.csiPrivate != 0 && p.csiPrivate != '?' {
		return
	}
	if p.csiPrivate == '?' {
		switch finalByte {
		case 'h':
			p.executePrivateModeSet(true)
		case 'l':
			p.executePrivateModeSet(false)
		}
		return
	}

	switch finalByte {
	case 'A': // CUU - Cursor Up
		p.buffer.MoveCursorUp(p.getParam(0, 1))

	case 'B': // CUD - Cursor Down
		p.buffer.MoveCursorDown(p.getParam(0, 1))

	case 'C': // CUF - Cursor Forward
		p.buffer.MoveCursorForward(p.getParam(0, 1))

	case 'D': // CUB - Cursor Backward
		p.buffer.MoveCursorBackward(p.getParam(0, 1))

	case 'E': // CNL - Cursor Next Line
		p.buffer.MoveCursorDown(p.getParam(0, 1))
		p.buffer.CarriageReturn()

	case 'F': // CPL - Cursor Previous Line
		p.buffer.MoveCursorUp(p.getParam(0, 1))
		p.buffer.CarriageReturn()

	case 'G': // CHA - Cursor Horizontal Absolute
		_, y := p.buffer.GetCursor()
		p.buffer.SetCursor(p.getParam(0, 1)-1, y)

	case 'H', 'f': // CUP/HVP - Cursor Position
		p.buffer.SetCursor(p.getParam(1, 1)-1, p.getParam(0, 1)-1)

	case 'd': // VPA - Vertical Position Absolute
		x, _ := p.buffer.GetCursor()
		p.buffer.SetCursor(x, p.getParam(0, 1)-1)

	case 'J': // ED - Erase in Display
		switch p.getParam(0, 0) {
		case 0:
			p.buffer.ClearToEndOfScreen()
		case 1:
			p.buffer.ClearToStartOfScreen()
		case 2:
			p.buffer.ClearScreen()
		case 3:
			p.buffer.ClearScrollback()
		}

	case 'K': // EL - Erase in Line
		switch p.getParam(0, 0) {
		case 0:
			p.buffer.ClearToEndOfLine()
		case 1:
			p.buffer.ClearToStartOfLine()
		case 2:
			p.buffer.ClearLine()
		}

	case 'L': // IL - Insert Lines
		p.buffer.InsertLines(p.getParam(0, 1))

	case 'M': // DL - Delete Lines
		p.buffer.DeleteLines(p.getParam(0, 1))

	case 'P': // DCH - Delete Characters
		p.buffer.DeleteChars(p.getParam(0, 1))

	case '@': // ICH - Insert Characters
		p.buffer.InsertChars(p.getParam(0, 1))

	case 'X': // ECH - Erase Characters
		p.buffer.EraseChars(p.getParam(0, 1))

	case 'S': // SU - Scroll Up
		p.buffer.ScrollUp(p.getParam(0, 1))

	case 'T': // SD - Scroll Down
		p.buffer.ScrollDown(p.getParam(0, 1))

	case 'm': // SGR - Select Graphic Rendition
		p.executeSGR()

	case 's': // SCP - Save Cursor Position
		p.buffer.SaveCursor()

	case 'u': // RCP - Restore Cursor Position
		p.buffer.RestoreCursor()
	}
}

func (p *Parser) executeSGR() {
	if len(p.csiParams) == 0 {
		p.buffer.ResetAttributes()
		return
	}

	for i := 0; i < len(p.csiParams); i++ {
		param := p.csiParams[i]
		switch param {
		case 0: // Reset
			p.buffer.ResetAttributes()
		case 1: // Bold
			p.buffer.SetBold(true)
		case 3: // Italic
			p.buffer.SetItalic(true)
		case 4: // Underline; 4:0 turns it off
			sgr := parseSGRParam(p.csiRawParams[i])
			p.buffer.SetUnderline(len(sgr.Subs) == 0 || sgr.Subs[0] != 0)
		case 5, 6: // Blink
			p.buffer.SetBlink(true)
		case 7: // Reverse video
			p.buffer.SetReverse(true)
		case 9: // Strikethrough
			p.buffer.SetStrikethrough(true)
		case 2, 21, 22: // Normal intensity
			p.buffer.SetBold(false)
		case 23: // Italic off
			p.buffer.SetItalic(false)
		case 24: // Underline off
			p.buffer.SetUnderline(false)
		case 25: // Blink off
			p.buffer.SetBlink(false)
		case 27: // Reverse off
			p.buffer.SetReverse(false)
		case 29: // Strikethrough off
			p.buffer.SetStrikethrough(false)

		case 30, 31, 32, 33, 34, 35, 36, 37:
			p.buffer.SetForeground(StandardColor(param - 30))
		case 90, 91, 92, 93, 94, 95, 96, 97:
			p.buffer.SetForeground(StandardColor(param - 90 + 8))
		case 40, 41, 42, 43, 44, 45, 46, 47:
			p.buffer.SetBackground(StandardColor(param - 40))
		case 100, 101, 102, 103, 104, 105, 106, 107:
			p.buffer.SetBackground(StandardColor(param - 100 + 8))

		case 38: // Extended foreground color
			c, skip, ok := p.extendedColor(i)
			if ok {
				p.buffer.SetForeground(c)
			}
			i += skip
		case 39: // Default foreground
			p.buffer.SetForeground(DefaultForeground)

		case 48: // Extended background color
			c, skip, ok := p.extendedColor(i)
			if ok {
				p.buffer.SetBackground(c)
			}
			i += skip
		case 49: // Default background
			p.buffer.SetBackground(DefaultBackground)
		}
	}
}

// extendedColor decodes the color of a 38/48 parameter at index i, in either
// subparameter form (38:5:N, 38:2:[cs]:R:G:B) or semicolon form (38;5;N,
// 38;2;R;G;B). skip is the number of following parameters consumed.
func (p *Parser) extendedColor(i int) (c Color, skip int, ok bool) {
	sgr := parseSGRParam(p.csiRawParams[i])
	switch {
	case len(sgr.Subs) >= 2 && sgr.Subs[0] == 5:
		return PaletteColor(sgr.Subs[1]), 0, true
	case len(sgr.Subs) >= 5 && sgr.Subs[0] == 2:
		return TrueColor(uint8(sgr.Subs[2]), uint8(sgr.Subs[3]), uint8(sgr.Subs[4])), 0, true
	case len(sgr.Subs) == 4 && sgr.Subs[0] == 2:
		return TrueColor(uint8(sgr.Subs[1]), uint8(sgr.Subs[2]), uint8(sgr.Subs[3])), 0, true
	case len(sgr.Subs) > 0:
		return Color{}, 0, false
	case i+2 < len(p.csiParams) && p.csiParams[i+1] == 5:
		return PaletteColor(p.csiParams[i+2]), 2, true
	case i+4 < len(p.csiParams) && p.csiParams[i+1] == 2:
		return TrueColor(
			uint8(p.csiParams[i+2]),
			uint8(p.csiParams[i+3]),
			uint8(p.csiParams[i+4]),
		), 4, true
	}
	return Color{}, 0, false
}

func (p *Parser) executePrivateModeSet(set bool) {
	for _, param := range p.csiParams {
		switch param {
		case 7: // DECAWM - Auto-wrap mode
			p.buffer.SetAutoWrap(set)
		case 25: // DECTCEM - Cursor visibility
			p.buffer.SetCursorVisible(set)
		}
	}
}

// --- OSC ---

func (p *Parser) handleOSC(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.oscBuf.WriteByte(b)
	case b == ';':
		p.oscCmd, _ = strconv.Atoi(p.oscBuf.String())
		p.oscBuf.Reset()
		p.state = stateOSCString
	case b == 0x07:
		// Command without arguments
		p.oscCmd, _ = strconv.Atoi(p.oscBuf.String())
		p.oscBuf.Reset()
		p.executeOSC()
		p.state = stateGround
	case b == 0x1B:
		p.oscCmd, _ = strconv.Atoi(p.oscBuf.String())
		p.oscBuf.Reset()
		p.state = stateOSCEscape
	default:
		// Invalid OSC, return to ground
		p.state = stateGround
	}
}

func (p *Parser) handleOSCString(b byte) {
	switch b {
	case 0x07: // BEL terminates OSC
		p.executeOSC()
		p.state = stateGround
	case 0x1B: // ESC might start ST (ESC \)
		p.state = stateOSCEscape
	default:
		if p.oscBuf.Len() >= maxOSCLength {
			p.oscOverflow = true
			return
		}
		p.oscBuf.WriteByte(b)
	}
}

func (p *Parser) handleOSCEscape(b byte) {
	// The OSC ends either way; only ESC \ is a proper terminator but a
	// following escape sequence is not swallowed
	p.executeOSC()
	p.state = stateGround
	if b != '\\' {
		p.handleEscape(b)
	}
}

// executeOSC processes a complete OSC command
func (p *Parser) executeOSC() {
	if p.oscOverflow {
		return
	}
	args := p.oscBuf.String()

	switch p.oscCmd {
	case 0, 2: // Window title
		p.buffer.SetTitle(args)
	case 8: // Hyperlink
		p.executeOSCHyperlink(args)
	}
}

// executeOSCHyperlink handles OSC 8.
// Format: ESC ] 8 ; params ; URI ST
// params is a ':' separated list of key=value pairs; the id key groups
// cells of one link. An empty URI ends the current link.
func (p *Parser) executeOSCHyperlink(args string) {
	params, uri, found := strings.Cut(args, ";")
	if !found {
		return
	}
	if uri == "" {
		p.buffer.EndHyperlink()
		return
	}
	p.buffer.StartHyperlink(uri, hyperlinkID(params))
}

// hyperlinkID returns the value of the id key in OSC 8 params, or "".
func hyperlinkID(params string) string {
	for _, kv := range strings.Split(params, ":") {
		if id, ok := strings.CutPrefix(kv, "id="); ok {
			return id
		}
	}
	return ""
}
