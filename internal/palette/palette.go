package palette

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// DefaultTheme is used whenever a requested theme is not registered.
const DefaultTheme = "banana"

// Palette is the fixed set of named colors a theme supplies to every synthesizer.
type Palette struct {
	Primary   color.NRGBA
	Secondary color.NRGBA
	Accent    color.NRGBA
	Highlight color.NRGBA
}

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

var themes = map[string]Palette{
	"banana": {
		Primary:   rgb(241, 196, 15),
		Secondary: rgb(211, 84, 0),
		Accent:    rgb(125, 102, 8),
		Highlight: rgb(249, 231, 159),
	},
	"neon": {
		Primary:   rgb(255, 0, 255),
		Secondary: rgb(0, 255, 255),
		Accent:    rgb(255, 255, 0),
		Highlight: rgb(255, 255, 255),
	},
	"cyberpunk": {
		Primary:   rgb(0, 255, 255),
		Secondary: rgb(255, 0, 128),
		Accent:    rgb(255, 255, 0),
		Highlight: rgb(128, 0, 255),
	},
}

// ForTheme returns the palette registered under name, or the default theme's palette.
func ForTheme(name string) Palette {
	if p, ok := themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return themes[DefaultTheme]
}

// Known reports whether name is a registered theme.
func Known(name string) bool {
	_, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Themes lists the registered theme names in sorted order.
func Themes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the theme palette with explicit overrides applied in
// primary, secondary, accent, highlight order.
func Resolve(theme string, overrides []string) (Palette, error) {
	p := ForTheme(theme)
	if len(overrides) > 4 {
		return p, fmt.Errorf("palette override has %d colors, at most 4 allowed", len(overrides))
	}

	slots := []*color.NRGBA{&p.Primary, &p.Secondary, &p.Accent, &p.Highlight}
	for i, hex := range overrides {
		c, err := ParseHex(hex)
		if err != nil {
			return p, err
		}
		*slots[i] = c
	}
	return p, nil
}

// ParseHex converts "#RGB" or "#RRGGBB" into an opaque color.
func ParseHex(hex string) (color.NRGBA, error) {
	var r, g, b uint8

	if len(hex) != 4 && len(hex) != 7 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: must be #RGB or #RRGGBB", hex)
	}
	if hex[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: must start with #", hex)
	}

	if len(hex) == 4 {
		if _, err := fmt.Sscanf(hex, "#%1x%1x%1x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		r *= 17
		g *= 17
		b *= 17
	} else {
		if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
	}
	return rgb(r, g, b), nil
}
