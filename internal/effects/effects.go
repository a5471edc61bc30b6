package effects

import (
	"time"

	"github.com/ivlev/table2video/internal/config"
)

// Transform is applied to the subject block while it enters.
type Transform struct {
	DX, DY float64 // offset in reference pixels (1080px canvas)
	Scale  float64
	Alpha  float64
}

// Identity is the resting transform.
var Identity = Transform{Scale: 1, Alpha: 1}

// Effect computes the entrance transform t after the row appeared.
type Effect interface {
	Apply(t time.Duration) Transform
}

// SlideEffect moves the block in from the left.
type SlideEffect struct {
	Distance float64
	Duration time.Duration
}

func (e *SlideEffect) Apply(t time.Duration) Transform {
	p := progress(t, e.Duration)
	return Transform{
		DX:    -e.Distance * (1 - EaseOutCubic(p)),
		Scale: 1,
		Alpha: EaseOutCubic(p),
	}
}

// ZoomEffect grows the block from a smaller scale.
type ZoomEffect struct {
	From     float64
	Duration time.Duration
}

func (e *ZoomEffect) Apply(t time.Duration) Transform {
	p := EaseInOutCubic(progress(t, e.Duration))
	return Transform{
		Scale: Lerp(e.From, 1, p),
		Alpha: p,
	}
}

// PopEffect scales up with an overshoot.
type PopEffect struct {
	Duration time.Duration
}

func (e *PopEffect) Apply(t time.Duration) Transform {
	p := progress(t, e.Duration)
	s := EaseOutBack(p)
	if s < 0.05 {
		s = 0.05
	}
	return Transform{
		Scale: s,
		Alpha: Clamp01(p * 3),
	}
}

var entrances = map[config.Style]Effect{
	config.StyleSlide: &SlideEffect{Distance: 140, Duration: 600 * time.Millisecond},
	config.StyleZoom:  &ZoomEffect{From: 0.6, Duration: 500 * time.Millisecond},
	config.StylePop:   &PopEffect{Duration: 450 * time.Millisecond},
}

// ForStyle returns the entrance effect of a style; unknown styles slide.
func ForStyle(s config.Style) Effect {
	if e, ok := entrances[s]; ok {
		return e
	}
	return entrances[config.StyleSlide]
}

func progress(t, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return Clamp01(float64(t) / float64(d))
}
