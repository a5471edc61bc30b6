package renderer

import (
	"image/color"

	"github.com/ivlev/table2video/internal/config"
	"github.com/ivlev/table2video/internal/text"
)

// BackgroundKind is the procedural background drawn when no bitmap is set.
type BackgroundKind int

const (
	BackgroundGradient BackgroundKind = iota
	BackgroundGrid
	BackgroundFrame
	BackgroundGlass
)

// Palette holds the semantic colors of a theme.
type Palette struct {
	Background    color.NRGBA
	BackgroundAlt color.NRGBA
	Subject       color.NRGBA
	Header        color.NRGBA
	Value         color.NRGBA
	Label         color.NRGBA
	Line          color.NRGBA
	Bar           color.NRGBA
}

// ThemeStyle is the resolved look of a theme.
type ThemeStyle struct {
	Name       string
	Title      text.Family
	Subject    text.Family
	Value      text.Family
	Label      text.Family
	Background BackgroundKind
	Colors     Palette
}

var themeStyles = [...]ThemeStyle{
	config.ThemeCosmic: {
		Name:       "Cosmic",
		Title:      text.SansBold,
		Subject:    text.SansBold,
		Value:      text.SansMedium,
		Label:      text.Sans,
		Background: BackgroundGradient,
		Colors: Palette{
			Background:    hex(0x0b1026),
			BackgroundAlt: hex(0x3b1d5e),
			Subject:       hex(0xffffff),
			Header:        hex(0xc9b8ff),
			Value:         hex(0xffd166),
			Label:         hex(0x9fa8da),
			Line:          hex(0x6c63ff),
			Bar:           hex(0xff6ec7),
		},
	},
	config.ThemeNeon: {
		Name:       "Neon",
		Title:      text.MonoBold,
		Subject:    text.MonoBold,
		Value:      text.MonoBold,
		Label:      text.Mono,
		Background: BackgroundGrid,
		Colors: Palette{
			Background:    hex(0x05010f),
			BackgroundAlt: hex(0x0a0420),
			Subject:       hex(0x39ff14),
			Header:        hex(0xff00e6),
			Value:         hex(0x00f0ff),
			Label:         hex(0xb3b3ff),
			Line:          hex(0xff00e6),
			Bar:           hex(0x39ff14),
		},
	},
	config.ThemeLuxe: {
		Name:       "Luxe",
		Title:      text.SmallCaps,
		Subject:    text.SmallCaps,
		Value:      text.SansItalic,
		Label:      text.Sans,
		Background: BackgroundFrame,
		Colors: Palette{
			Background:    hex(0x111111),
			BackgroundAlt: hex(0x1c1a17),
			Subject:       hex(0xf5e6c8),
			Header:        hex(0xd4af37),
			Value:         hex(0xffffff),
			Label:         hex(0xb8a07e),
			Line:          hex(0xd4af37),
			Bar:           hex(0xd4af37),
		},
	},
	config.ThemeGlass: {
		Name:       "Glass",
		Title:      text.SansMedium,
		Subject:    text.SansBold,
		Value:      text.SansMedium,
		Label:      text.Sans,
		Background: BackgroundGlass,
		Colors: Palette{
			Background:    hex(0x1e3c72),
			BackgroundAlt: hex(0x2a5298),
			Subject:       hex(0xffffff),
			Header:        hex(0xe0f7ff),
			Value:         hex(0xffffff),
			Label:         hex(0xcfe8ff),
			Line:          hex(0xffffff),
			Bar:           hex(0x7dd3fc),
		},
	},
}

// StyleFor resolves a theme; unknown themes resolve to COSMIC.
func StyleFor(t config.Theme) ThemeStyle {
	if !t.Valid() {
		t = config.ThemeCosmic
	}
	return themeStyles[t]
}

func hex(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	c.A = uint8(float64(c.A) * a)
	return c
}
