// Package preview renders the cropped avatar into mock-ups of the places a
// profile picture shows up: feeds, chats and profile pages of eight
// platforms. Platforms are plain data; a single card renderer draws them all.
package preview

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Theme selects the light or dark palette of a platform.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

// ParseTheme parses "light" or "dark". An empty string is light.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeLight, fmt.Errorf("unknown theme: %q", s)
	}
}

// String returns the theme name.
func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// Palette holds the colors a card is drawn with.
type Palette struct {
	Page    color.Color // card background
	Surface color.Color // post and profile panels
	Band    color.Color // profile header band, nil for none
	Text    color.Color
	Muted   color.Color
	Accent  color.Color // avatar rings and status dots
}

// Hex parses "#RGB" or "#RRGGBB".
func Hex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color: %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color: %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// hex is Hex for compile-time constants.
func hex(s string) color.RGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

var (
	white   = hex("#FFFFFF")
	gray100 = hex("#F3F4F6")
	gray500 = hex("#6B7280")
	gray800 = hex("#1F2937")
	gray900 = hex("#111827")
	gray950 = hex("#030712")
	gray400 = hex("#9CA3AF")
	blue500 = hex("#3B82F6")
	blue600 = hex("#2563EB")
	pink500 = hex("#EC4899")
	green   = hex("#22C55E")
	slack   = hex("#4A154B")
)

// neutral returns the generic light or dark palette with the given accent.
// Platforms without their own dark colors use it.
func neutral(theme Theme, accent color.Color) Palette {
	if theme == ThemeDark {
		return Palette{Page: gray950, Surface: gray900, Text: gray100, Muted: gray400, Accent: accent}
	}
	return Palette{Page: white, Surface: gray100, Text: gray900, Muted: gray500, Accent: accent}
}

// SheetBackground is the page color behind the preview grid.
func SheetBackground(theme Theme) color.Color {
	if theme == ThemeDark {
		return gray800
	}
	return hex("#E5E7EB")
}
