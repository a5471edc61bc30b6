package renderer

import (
	"github.com/ivlev/table2video/internal/config"
	"github.com/ivlev/table2video/internal/text"
)

// Anchor places a text block. X, Y and Width are fractions of the canvas;
// Y is the vertical center of the block.
type Anchor struct {
	X, Y  float64
	Width float64
	Align text.Align
}

// LayoutSpec is the fixed geometry of one layout. Sizes are in pixels of
// the 1080px reference canvas.
type LayoutSpec struct {
	Subject     Anchor
	Attribute   Anchor
	LabelSize   float64
	SubjectSize float64
	ValueSize   float64
	Watermark   bool // oversized translucent subject behind the blocks
	CaptionBar  bool // attribute sits in a bar across the lower third
	Divider     bool // vertical rule between the two halves
}

var layoutSpecs = [...]LayoutSpec{
	config.LayoutStacked: {
		Subject:     Anchor{X: 0.5, Y: 0.38, Width: 0.84, Align: text.AlignCenter},
		Attribute:   Anchor{X: 0.5, Y: 0.66, Width: 0.84, Align: text.AlignCenter},
		LabelSize:   28,
		SubjectSize: 84,
		ValueSize:   72,
	},
	config.LayoutSplit: {
		Subject:     Anchor{X: 0.07, Y: 0.52, Width: 0.38, Align: text.AlignLeft},
		Attribute:   Anchor{X: 0.93, Y: 0.52, Width: 0.38, Align: text.AlignRight},
		LabelSize:   26,
		SubjectSize: 68,
		ValueSize:   64,
		Divider:     true,
	},
	config.LayoutDiagonal: {
		Subject:     Anchor{X: 0.08, Y: 0.3, Width: 0.6, Align: text.AlignLeft},
		Attribute:   Anchor{X: 0.92, Y: 0.74, Width: 0.6, Align: text.AlignRight},
		LabelSize:   26,
		SubjectSize: 76,
		ValueSize:   68,
	},
	config.LayoutMagazine: {
		Subject:     Anchor{X: 0.08, Y: 0.62, Width: 0.84, Align: text.AlignLeft},
		Attribute:   Anchor{X: 0.08, Y: 0.82, Width: 0.84, Align: text.AlignLeft},
		LabelSize:   24,
		SubjectSize: 80,
		ValueSize:   56,
		Watermark:   true,
	},
	config.LayoutLowerThird: {
		Subject:     Anchor{X: 0.5, Y: 0.42, Width: 0.84, Align: text.AlignCenter},
		Attribute:   Anchor{X: 0.07, Y: 0.81, Width: 0.86, Align: text.AlignLeft},
		LabelSize:   24,
		SubjectSize: 88,
		ValueSize:   54,
		CaptionBar:  true,
	},
}

// LayoutFor resolves a layout; unknown layouts resolve to STACKED.
func LayoutFor(l config.Layout) LayoutSpec {
	if !l.Valid() {
		l = config.LayoutStacked
	}
	return layoutSpecs[l]
}
