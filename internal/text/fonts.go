package text

import (
	"log"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
)

// Family names an embedded font.
type Family int

const (
	Sans Family = iota
	SansBold
	SansMedium
	SansItalic
	Mono
	MonoBold
	SmallCaps
)

var familyData = map[Family][]byte{
	Sans:       goregular.TTF,
	SansBold:   gobold.TTF,
	SansMedium: gomedium.TTF,
	SansItalic: goitalic.TTF,
	Mono:       gomono.TTF,
	MonoBold:   gomonobold.TTF,
	SmallCaps:  gosmallcaps.TTF,
}

type faceKey struct {
	family Family
	size   int // in 1/4 px
}

// Faces caches parsed fonts and sized faces.
type Faces struct {
	mu    sync.Mutex
	fonts map[Family]*opentype.Font
	faces map[faceKey]font.Face
}

// NewFaces creates an empty cache.
func NewFaces() *Faces {
	return &Faces{
		fonts: make(map[Family]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Face returns family at size pixels, falling back to basicfont.Face7x13
// when the font cannot be loaded.
func (c *Faces) Face(family Family, size float64) font.Face {
	if size < 1 {
		size = 1
	}
	key := faceKey{family: family, size: int(math.Round(size * 4))}

	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.faces[key]; ok {
		return f
	}

	fnt, ok := c.fonts[family]
	if !ok {
		var err error
		fnt, err = opentype.Parse(familyData[family])
		if err != nil {
			log.Printf("[!] Failed to parse font %d: %v", family, err)
			return basicfont.Face7x13
		}
		c.fonts[family] = fnt
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(key.size) / 4,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("[!] Failed to create face %d@%.1f: %v", family, size, err)
		return basicfont.Face7x13
	}
	c.faces[key] = face
	return face
}

// FaceMeasurer measures strings with a font face.
type FaceMeasurer struct {
	Face font.Face
}

func (m FaceMeasurer) Measure(s string) float64 {
	return float64(font.MeasureString(m.Face, s)) / 64
}

// FaceMetrics sizes regular and bold faces on demand.
type FaceMetrics struct {
	Faces   *Faces
	Regular Family
	Bold    Family
}

// Measurer returns a Measurer for the given size and weight.
func (m *FaceMetrics) Measurer(size float64, bold bool) Measurer {
	fam := m.Regular
	if bold {
		fam = m.Bold
	}
	return FaceMeasurer{Face: m.Faces.Face(fam, size)}
}

// LineHeight is the baseline-to-baseline distance for size.
func (m *FaceMetrics) LineHeight(size float64) float64 {
	return LineHeight(size)
}

// LineHeight is the line spacing used everywhere text is stacked.
func LineHeight(size float64) float64 {
	return size * 1.25
}
