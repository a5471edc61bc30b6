package text

import (
	"strings"
	"testing"
)

// fixedWidth measures every rune as 10 units.
var fixedWidth = MeasureFunc(func(s string) float64 {
	return float64(len([]rune(s))) * 10
})

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"fits", "hello world", 200, []string{"hello world"}},
		{"breaks", "the quick brown fox", 100, []string{"the quick", "brown fox"}},
		{"exact width", "abcde fghij", 50, []string{"abcde", "fghij"}},
		{"long word", "a extraordinarily b", 60, []string{"a", "extraordinarily", "b"}},
		{"empty", "", 50, []string{""}},
		{"double space", "ab  cd", 40, []string{"ab ", "cd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(fixedWidth, tt.text, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Wrap(%q, %v) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapProperties(t *testing.T) {
	texts := []string{
		"Population density varies widely across the continent",
		"supercalifragilisticexpialidocious is long",
		" leading and trailing ",
		"one",
		"a b c d e f g h i j k l m n o p",
	}
	for _, s := range texts {
		for _, w := range []float64{10, 35, 80, 150, 1000} {
			lines := Wrap(fixedWidth, s, w)
			if strings.Join(lines, " ") != s {
				t.Errorf("Join mismatch for %q at %v: %q", s, w, lines)
			}
			for _, l := range lines {
				if fixedWidth.Measure(l) > w && strings.Contains(l, " ") {
					t.Errorf("Line %q wider than %v for %q", l, w, s)
				}
			}
		}
	}
}

func TestFacesWrap(t *testing.T) {
	faces := NewFaces()
	m := FaceMeasurer{Face: faces.Face(Sans, 32)}

	short := m.Measure("Hi")
	long := m.Measure("Hello, world")
	if short <= 0 || long <= short {
		t.Fatalf("Unexpected measurements: %f %f", short, long)
	}

	lines := Wrap(m, "Hello, world. This sentence needs wrapping.", long)
	if len(lines) < 2 {
		t.Errorf("Expected wrapping, got %q", lines)
	}

	if faces.Face(Sans, 32) != faces.Face(Sans, 32) {
		t.Error("Faces should be cached")
	}
}
