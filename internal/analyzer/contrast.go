package analyzer

import (
	"image"
	"image/color"
)

// Legibility estimates how much a background image must be darkened for
// light text to stay readable on it.
type Legibility struct {
	SampleStep int     // sample every Nth pixel in both directions
	MinAlpha   float64 // overlay opacity for a black image
	MaxAlpha   float64 // overlay opacity for a white image
}

// NewLegibility creates an analyzer with default settings
func NewLegibility() *Legibility {
	return &Legibility{
		SampleStep: 8,
		MinAlpha:   0.35,
		MaxAlpha:   0.72,
	}
}

// MeanLuminance returns the average luma of img in [0, 1].
func (l *Legibility) MeanLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	step := l.SampleStep
	if step < 1 {
		step = 1
	}

	var sum float64
	var n int
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			sum += float64(g.Y)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / 255
}

// OverlayAlpha maps the luminance of img to the opacity of the darkening
// overlay drawn over it.
func (l *Legibility) OverlayAlpha(img image.Image) float64 {
	lum := l.MeanLuminance(img)
	return l.MinAlpha + (l.MaxAlpha-l.MinAlpha)*lum
}
