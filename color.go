// Package purfectmux provides the terminal surface of the multiplexer: a cell
// grid with scrollback, an ANSI escape sequence parser that drives it, and the
// per-surface hyperlink registry that OSC 8 sequences are stored in.
//
// This package contains:
//   - Color and cell representation
//   - Terminal buffer with scrollback
//   - ANSI escape sequence parser
//   - ANSI serialization of a buffer, including hyperlinks
//
// The cli package renders a buffer inside a host terminal.
package purfectmux

import "strconv"

// ColorType indicates how a color was specified
type ColorType uint8

const (
	ColorTypeDefault   ColorType = iota // Use terminal default fg/bg (SGR 39/49)
	ColorTypeStandard                   // Standard 16 ANSI colors (0-15)
	ColorTypePalette                    // 256-color palette (0-255)
	ColorTypeTrueColor                  // 24-bit RGB
)

// Color represents a terminal color with its original specification preserved,
// so it can be re-emitted exactly as the application sent it.
type Color struct {
	Type    ColorType // How the color was specified
	Index   uint8     // For Standard (0-15) or Palette (0-255)
	R, G, B uint8     // For TrueColor
}

// Predefined colors
var (
	DefaultForeground = Color{Type: ColorTypeDefault}
	DefaultBackground = Color{Type: ColorTypeDefault}
)

// StandardColor creates a standard 16-color ANSI color (index 0-15)
func StandardColor(index int) Color {
	if index < 0 || index > 15 {
		index = 7 // Default to white
	}
	return Color{Type: ColorTypeStandard, Index: uint8(index)}
}

// PaletteColor creates a 256-color palette color (index 0-255)
func PaletteColor(index int) Color {
	if index < 0 || index > 255 {
		index = 7
	}
	return Color{Type: ColorTypePalette, Index: uint8(index)}
}

// TrueColor creates a 24-bit true color
func TrueColor(r, g, b uint8) Color {
	return Color{Type: ColorTypeTrueColor, R: r, G: g, B: b}
}

// IsDefault returns true if this is the default fg/bg color
func (c Color) IsDefault() bool {
	return c.Type == ColorTypeDefault
}

// ToSGRCode returns the SGR color code(s) for this color (foreground if isFg=true)
func (c Color) ToSGRCode(isFg bool) string {
	switch c.Type {
	case ColorTypeStandard:
		idx := int(c.Index)
		base := 30
		if idx >= 8 {
			base, idx = 90, idx-8
		}
		if !isFg {
			base += 10
		}
		return strconv.Itoa(base + idx)
	case ColorTypePalette:
		if isFg {
			return "38;5;" + strconv.Itoa(int(c.Index))
		}
		return "48;5;" + strconv.Itoa(int(c.Index))
	case ColorTypeTrueColor:
		prefix := "48;2;"
		if isFg {
			prefix = "38;2;"
		}
		return prefix + strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B))
	}
	if isFg {
		return "39"
	}
	return "49"
}
