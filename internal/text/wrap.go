package text

import "strings"

// Measurer reports the rendered width of a string.
type Measurer interface {
	Measure(s string) float64
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(s string) float64

func (f MeasureFunc) Measure(s string) float64 { return f(s) }

// Wrap breaks s into lines no wider than maxWidth, greedily accumulating
// words separated by single spaces. A word wider than maxWidth is kept on a
// line of its own. strings.Join(lines, " ") == s always holds.
func Wrap(m Measurer, s string, maxWidth float64) []string {
	words := strings.Split(s, " ")
	lines := make([]string, 0, 4)

	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if m.Measure(candidate) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}

// WrapCount returns the number of lines Wrap would produce, treating an
// empty string as zero lines.
func WrapCount(m Measurer, s string, maxWidth float64) int {
	if s == "" {
		return 0
	}
	return len(Wrap(m, s, maxWidth))
}
