package purfectmux

import (
	"unicode"

	"github.com/phroun/purfectmux/hyperlink"
)

// Cell represents a single character cell in the terminal
type Cell struct {
	Char          rune   // Base character (0 = never written)
	Combining     string // Combining marks appended to Char
	Width         int    // Display width: 1, 2 for wide runes, 0 for the right half of a wide rune
	Foreground    Color
	Background    Color
	Bold          bool
	Italic        bool
	Underline     bool
	Reverse       bool
	Blink         bool
	Strikethrough bool

	// Hyperlink is the handle of the cell's OSC 8 link in the owning
	// buffer's registry, or 0.
	Hyperlink hyperlink.Handle
}

// String returns the full character including any combining marks
func (c *Cell) String() string {
	if c.Char == 0 {
		return " "
	}
	if c.Combining == "" {
		return string(c.Char)
	}
	return string(c.Char) + c.Combining
}

// IsContinuation reports whether the cell is the right half of a wide rune.
func (c *Cell) IsContinuation() bool {
	return c.Width == 0 && c.Char == 0
}

// IsBlank reports whether the cell shows nothing and carries no style.
func (c *Cell) IsBlank() bool {
	return (c.Char == 0 || c.Char == ' ') && c.Combining == "" && c.SameStyle(EmptyCell())
}

// SameStyle reports whether two cells render with identical attributes,
// hyperlink included.
func (c *Cell) SameStyle(o Cell) bool {
	return c.Foreground == o.Foreground &&
		c.Background == o.Background &&
		c.Bold == o.Bold &&
		c.Italic == o.Italic &&
		c.Underline == o.Underline &&
		c.Reverse == o.Reverse &&
		c.Blink == o.Blink &&
		c.Strikethrough == o.Strikethrough &&
		c.Hyperlink == o.Hyperlink
}

// SGRParams returns the SGR parameters that select the cell's attributes,
// starting from a reset.
func (c *Cell) SGRParams() []string {
	params := []string{"0"}
	if c.Bold {
		params = append(params, "1")
	}
	if c.Italic {
		params = append(params, "3")
	}
	if c.Underline {
		params = append(params, "4")
	}
	if c.Blink {
		params = append(params, "5")
	}
	if c.Reverse {
		params = append(params, "7")
	}
	if c.Strikethrough {
		params = append(params, "9")
	}
	if !c.Foreground.IsDefault() {
		params = append(params, c.Foreground.ToSGRCode(true))
	}
	if !c.Background.IsDefault() {
		params = append(params, c.Background.ToSGRCode(false))
	}
	return params
}

// IsCombiningMark returns true if the rune is a Unicode combining character
// (categories Mn, Mc and Me).
func IsCombiningMark(r rune) bool {
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Me)
}

// EmptyCell returns an empty cell with default attributes
func EmptyCell() Cell {
	return Cell{
		Char:       ' ',
		Width:      1,
		Foreground: DefaultForeground,
		Background: DefaultBackground,
	}
}

// blankCell returns an erased cell that keeps the pen's background color.
// Erased cells never carry a hyperlink.
func blankCell(pen Cell) Cell {
	c := EmptyCell()
	c.Background = pen.Background
	return c
}
