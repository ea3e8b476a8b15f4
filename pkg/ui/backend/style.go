package backend

import "strings"

// Color represents a terminal color.
// Values 0-255 are palette colors, values >= 256 are true colors.
type Color int32

// Color constants
const (
	ColorDefault Color = -1
	ColorBlack   Color = 0
	ColorRed     Color = 1
	ColorGreen   Color = 2
	ColorYellow  Color = 3
	ColorBlue    Color = 4
	ColorMagenta Color = 5
	ColorCyan    Color = 6
	ColorWhite   Color = 7
)

// ColorRGB creates a true color from RGB components.
func ColorRGB(r, g, b uint8) Color {
	return Color(int32(r)<<16 | int32(g)<<8 | int32(b) | 0x01000000)
}

// IsRGB returns true if this is a true color (not palette).
func (c Color) IsRGB() bool {
	return c&0x01000000 != 0
}

// RGB returns the red, green, blue components of an RGB color.
// Returns 0, 0, 0 for non-RGB colors.
func (c Color) RGB() (r, g, b uint8) {
	if !c.IsRGB() {
		return 0, 0, 0
	}
	return uint8((c >> 16) & 0xFF), uint8((c >> 8) & 0xFF), uint8(c & 0xFF)
}

// AttrMask represents cell attributes.
type AttrMask uint32

// Attribute flags
const (
	AttrBold AttrMask = 1 << iota
	AttrReverse
	AttrUnderline
	AttrDim
)

// Style combines foreground, background colors and attributes of one cell.
type Style struct {
	fg    Color
	bg    Color
	attrs AttrMask
}

// DefaultStyle returns the default style (default colors, no attributes).
func DefaultStyle() Style {
	return Style{fg: ColorDefault, bg: ColorDefault}
}

// Foreground sets the foreground color.
func (s Style) Foreground(c Color) Style {
	s.fg = c
	return s
}

// Background sets the background color.
func (s Style) Background(c Color) Style {
	s.bg = c
	return s
}

// Bold enables or disables bold.
func (s Style) Bold(on bool) Style {
	return s.attr(AttrBold, on)
}

// Underline enables or disables underline.
func (s Style) Underline(on bool) Style {
	return s.attr(AttrUnderline, on)
}

// Reverse enables or disables reverse video.
func (s Style) Reverse(on bool) Style {
	return s.attr(AttrReverse, on)
}

// Dim enables or disables dim.
func (s Style) Dim(on bool) Style {
	return s.attr(AttrDim, on)
}

func (s Style) attr(a AttrMask, on bool) Style {
	if on {
		s.attrs |= a
	} else {
		s.attrs &^= a
	}
	return s
}

// Attributes returns all attributes.
func (s Style) Attributes() AttrMask {
	return s.attrs
}

// FG returns the foreground color.
func (s Style) FG() Color {
	return s.fg
}

// BG returns the background color.
func (s Style) BG() Color {
	return s.bg
}

// Decompose returns the foreground, background, and attributes.
func (s Style) Decompose() (fg, bg Color, attrs AttrMask) {
	return s.fg, s.bg, s.attrs
}

// TextStyle is the bitmask elements pass to Draw.
// Flags combine with bitwise OR; when several colors are set the
// lowest one wins.
type TextStyle uint16

const (
	Highlighted TextStyle = 1 << iota
	Underline
	Bold
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White

	// Normal is the empty style.
	Normal TextStyle = 0
)

var textColors = []struct {
	flag  TextStyle
	color Color
	name  string
}{
	{Red, ColorRed, "red"},
	{Green, ColorGreen, "green"},
	{Yellow, ColorYellow, "yellow"},
	{Blue, ColorBlue, "blue"},
	{Magenta, ColorMagenta, "magenta"},
	{Cyan, ColorCyan, "cyan"},
	{White, ColorWhite, "white"},
}

// Has reports whether every flag in f is set.
func (t TextStyle) Has(f TextStyle) bool {
	return t&f == f
}

// Style converts the bitmask into a cell style.
func (t TextStyle) Style() Style {
	s := DefaultStyle().
		Reverse(t.Has(Highlighted)).
		Underline(t.Has(Underline)).
		Bold(t.Has(Bold))
	for _, c := range textColors {
		if t.Has(c.flag) {
			return s.Foreground(c.color)
		}
	}
	return s
}

// String lists the set flags, e.g. "bold|cyan".
func (t TextStyle) String() string {
	if t == Normal {
		return "normal"
	}
	var parts []string
	if t.Has(Highlighted) {
		parts = append(parts, "highlighted")
	}
	if t.Has(Underline) {
		parts = append(parts, "underline")
	}
	if t.Has(Bold) {
		parts = append(parts, "bold")
	}
	for _, c := range textColors {
		if t.Has(c.flag) {
			parts = append(parts, c.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseTextStyle parses a "|" or "," separated list of flag names.
func ParseTextStyle(s string) (TextStyle, bool) {
	var out TextStyle
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' || r == ' ' })
	for _, f := range fields {
		switch strings.ToLower(f) {
		case "normal":
		case "highlighted", "reverse":
			out |= Highlighted
		case "underline":
			out |= Underline
		case "bold":
			out |= Bold
		default:
			found := false
			for _, c := range textColors {
				if c.name == strings.ToLower(f) {
					out |= c.flag
					found = true
					break
				}
			}
			if !found {
				return 0, false
			}
		}
	}
	return out, true
}
