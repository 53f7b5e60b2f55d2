package device

import (
	"fmt"
	"strings"
)

// Color is a 24-bit display color. Components are forwarded to the board
// unchanged, so values outside 0-255 are the driver's problem.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// String renders the color as #RRGGBB when every component fits in a byte.
func (c Color) String() string {
	if c.R < 0 || c.R > 255 || c.G < 0 || c.G > 255 || c.B < 0 || c.B > 255 {
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// NamedColor pairs a palette name with its color value.
type NamedColor struct {
	Name  string `json:"name" example:"RED" doc:"Palette name"`
	Color Color  `json:"color" doc:"RGB value"`
}

// Palette order matches the board firmware's color table.
var palette = []NamedColor{
	{"BLACK", Color{0, 0, 0}},
	{"NAVY", Color{0, 0, 128}},
	{"DARKGREEN", Color{0, 128, 0}},
	{"DARKCYAN", Color{0, 128, 128}},
	{"MAROON", Color{128, 0, 0}},
	{"PURPLE", Color{128, 0, 128}},
	{"OLIVE", Color{128, 128, 0}},
	{"LIGHTGREY", Color{192, 192, 192}},
	{"DARKGREY", Color{128, 128, 128}},
	{"BLUE", Color{0, 0, 255}},
	{"GREEN", Color{0, 255, 0}},
	{"CYAN", Color{0, 255, 255}},
	{"RED", Color{255, 0, 0}},
	{"MAGENTA", Color{255, 0, 255}},
	{"YELLOW", Color{255, 255, 0}},
	{"WHITE", Color{255, 255, 255}},
	{"ORANGE", Color{255, 165, 0}},
	{"GREENYELLOW", Color{173, 255, 47}},
	{"PINK", Color{255, 192, 203}},
}

var paletteIndex = func() map[string]Color {
	m := make(map[string]Color, len(palette))
	for _, nc := range palette {
		m[nc.Name] = nc.Color
	}
	return m
}()

// LookupColor resolves a palette name, ignoring case.
func LookupColor(name string) (Color, bool) {
	c, ok := paletteIndex[strings.ToUpper(name)]
	return c, ok
}

// Palette returns a copy of the named colors the board can display.
func Palette() []NamedColor {
	out := make([]NamedColor, len(palette))
	copy(out, palette)
	return out
}
