package renderer

import "time"

const (
	// FadeDuration is the attribute fade-in/fade-out window of each step.
	FadeDuration = 300 * time.Millisecond

	backgroundZoomRate = 0.006 // per second
	backgroundZoomMax  = 1.35
)

// Opacity is the linear fade envelope of a block shown for length,
// elapsed into it. The fade-out is skipped when fadeOut is false.
func Opacity(elapsed, length, fade time.Duration, fadeOut bool) float64 {
	if fade <= 0 {
		return 1
	}
	if elapsed < 0 {
		return 0
	}

	a := 1.0
	if elapsed < fade {
		a = float64(elapsed) / float64(fade)
	}
	if fadeOut {
		remaining := length - elapsed
		if remaining < 0 {
			remaining = 0
		}
		if remaining < fade {
			if out := float64(remaining) / float64(fade); out < a {
				a = out
			}
		}
	}
	return a
}

// BackgroundZoom is the scale factor of a bitmap background after elapsed.
func BackgroundZoom(elapsed time.Duration) float64 {
	z := 1 + backgroundZoomRate*elapsed.Seconds()
	if z > backgroundZoomMax {
		z = backgroundZoomMax
	}
	return z
}
