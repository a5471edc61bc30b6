package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme selects a palette and font set.
type Theme int

const (
	ThemeCosmic Theme = iota
	ThemeNeon
	ThemeLuxe
	ThemeGlass
	themeCount
)

// Layout selects where the subject and attribute blocks are placed.
type Layout int

const (
	LayoutStacked Layout = iota
	LayoutSplit
	LayoutDiagonal
	LayoutMagazine
	LayoutLowerThird
	layoutCount
)

// Style selects the entrance motion of the subject block.
type Style int

const (
	StyleSlide Style = iota
	StyleZoom
	StylePop
	styleCount
)

var (
	themeNames  = [themeCount]string{"COSMIC", "NEON", "LUXE", "GLASS"}
	layoutNames = [layoutCount]string{"STACKED", "SPLIT", "DIAGONAL", "MAGAZINE", "LOWER_THIRD"}
	styleNames  = [styleCount]string{"SLIDE", "ZOOM", "POP"}
)

// Themes lists every theme in declaration order.
func Themes() []Theme { return []Theme{ThemeCosmic, ThemeNeon, ThemeLuxe, ThemeGlass} }

// Layouts lists every layout in declaration order.
func Layouts() []Layout {
	return []Layout{LayoutStacked, LayoutSplit, LayoutDiagonal, LayoutMagazine, LayoutLowerThird}
}

// Styles lists every entrance style in declaration order.
func Styles() []Style { return []Style{StyleSlide, StyleZoom, StylePop} }

func (t Theme) String() string {
	if t < 0 || t >= themeCount {
		return fmt.Sprintf("Theme(%d)", int(t))
	}
	return themeNames[t]
}

func (l Layout) String() string {
	if l < 0 || l >= layoutCount {
		return fmt.Sprintf("Layout(%d)", int(l))
	}
	return layoutNames[l]
}

func (s Style) String() string {
	if s < 0 || s >= styleCount {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// Valid reports whether t names a known theme.
func (t Theme) Valid() bool { return t >= 0 && t < themeCount }

// Valid reports whether l names a known layout.
func (l Layout) Valid() bool { return l >= 0 && l < layoutCount }

// Valid reports whether s names a known style.
func (s Style) Valid() bool { return s >= 0 && s < styleCount }

func lookup(names []string, s string) (int, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	for i, n := range names {
		if n == key {
			return i, true
		}
	}
	return 0, false
}

// ParseTheme parses a theme name such as "neon" or "NEON".
func ParseTheme(s string) (Theme, error) {
	i, ok := lookup(themeNames[:], s)
	if !ok {
		return 0, fmt.Errorf("unknown theme %q (want one of %s)", s, strings.Join(themeNames[:], ", "))
	}
	return Theme(i), nil
}

// ParseLayout parses a layout name such as "lower_third" or "LOWER-THIRD".
func ParseLayout(s string) (Layout, error) {
	i, ok := lookup(layoutNames[:], s)
	if !ok {
		return 0, fmt.Errorf("unknown layout %q (want one of %s)", s, strings.Join(layoutNames[:], ", "))
	}
	return Layout(i), nil
}

// ParseStyle parses a style name such as "pop".
func ParseStyle(s string) (Style, error) {
	i, ok := lookup(styleNames[:], s)
	if !ok {
		return 0, fmt.Errorf("unknown style %q (want one of %s)", s, strings.Join(styleNames[:], ", "))
	}
	return Style(i), nil
}

func (t *Theme) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseTheme(value.Value)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (l *Layout) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseLayout(value.Value)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (s *Style) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseStyle(value.Value)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (t Theme) MarshalYAML() (interface{}, error)  { return t.String(), nil }
func (l Layout) MarshalYAML() (interface{}, error) { return l.String(), nil }
func (s Style) MarshalYAML() (interface{}, error)  { return s.String(), nil }
