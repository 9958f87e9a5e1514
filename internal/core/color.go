package core

import (
	"fmt"
	"strings"
)

// Color is a terminal color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for tiles and messages.
const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorMint   // #7FF0A5 sky of the original web client
	ColorJungle // #2EB082 ground of the original web client
)

// colorCount is the number of defined colors.
const colorCount = int(ColorJungle) + 1

var colorNames = [colorCount]string{
	"default", "black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"bright_red", "bright_green", "bright_yellow", "bright_blue", "bright_magenta",
	"bright_cyan", "bright_white", "orange", "gray", "mint", "jungle",
}

// ANSI 256 codes; empty for the terminal default.
var colorCodes = [colorCount]string{
	"", "0", "1", "2", "3", "4", "5", "6", "7",
	"9", "10", "11", "12", "13",
	"14", "15", "208", "245", "121", "36",
}

// Colors returns every defined color in declaration order.
func Colors() []Color {
	out := make([]Color, colorCount)
	for i := range out {
		out[i] = Color(i)
	}
	return out
}

// String returns the color name used in sprite and config files.
func (c Color) String() string {
	if int(c) < colorCount {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// Code returns the ANSI 256-color code, or "" for the terminal default.
func (c Color) Code() string {
	if int(c) < colorCount {
		return colorCodes[c]
	}
	return ""
}

// ParseColor resolves a color name ("bright_green", "Bright-Green") to a Color.
func ParseColor(name string) (Color, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if n == "" {
		return ColorDefault, nil
	}
	for i, cn := range colorNames {
		if cn == n {
			return Color(i), nil
		}
	}
	return ColorDefault, fmt.Errorf("core: unknown color %q", name)
}

// UnmarshalText lets colors be written by name in YAML files.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText writes the color name.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
