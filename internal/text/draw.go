package text

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Align is the horizontal anchor of a text line.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Draw renders s with its baseline at y, anchored at x per align.
func Draw(dst draw.Image, face font.Face, s string, x, y float64, align Align, c color.Color) {
	if s == "" {
		return
	}
	w := float64(font.MeasureString(face, s)) / 64
	switch align {
	case AlignCenter:
		x -= w / 2
	case AlignRight:
		x -= w
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(s)
}

// DrawBlock wraps s to maxWidth and draws it with the first line's top at
// top. It returns the height consumed.
func DrawBlock(dst draw.Image, face font.Face, s string, x, top, maxWidth, size float64, align Align, c color.Color) float64 {
	if s == "" {
		return 0
	}
	lines := Wrap(FaceMeasurer{Face: face}, s, maxWidth)
	lh := LineHeight(size)
	ascent := float64(face.Metrics().Ascent) / 64

	for i, line := range lines {
		Draw(dst, face, line, x, top+ascent+float64(i)*lh, align, c)
	}
	return float64(len(lines)) * lh
}

// BlockHeight is the height DrawBlock would consume.
func BlockHeight(face font.Face, s string, maxWidth, size float64) float64 {
	return float64(WrapCount(FaceMeasurer{Face: face}, s, maxWidth)) * LineHeight(size)
}
