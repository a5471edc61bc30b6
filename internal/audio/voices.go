package audio

import "math"

// bus selects which gain a node is mixed through.
type bus int

const (
	masterBus bus = iota
	voiceBus
)

// node is one synthesis source owned by the engine. render adds its output
// for samples [pos, pos+len(dst)) into dst and reports whether the node has
// finished for good.
type node interface {
	bus() bus
	render(dst []float32, pos int64) bool
}

const (
	noteAttack = 0.02 // seconds
	noteLength = 4.0  // seconds until the tail is inaudible
	noteTau    = noteLength / 6.9
	noteGain   = 0.25

	cutoffStart = 2400.0 // Hz
	cutoffEnd   = 380.0
	cutoffTau   = 0.15
)

// struckNote is a triangle tone through a lowpass whose cutoff closes fast.
type struckNote struct {
	freq  float64
	start int64
	rate  float64

	phase float64
	lp    float64
}

func newStruckNote(freq float64, start int64, rate int) *struckNote {
	return &struckNote{freq: freq, start: start, rate: float64(rate)}
}

func (n *struckNote) bus() bus { return masterBus }

func (n *struckNote) render(dst []float32, pos int64) bool {
	end := n.start + int64(noteLength*n.rate)
	for i := range dst {
		s := pos + int64(i)
		if s < n.start {
			continue
		}
		if s >= end {
			return true
		}
		t := float64(s-n.start) / n.rate

		env := math.Exp(-(t - noteAttack) / noteTau)
		if t < noteAttack {
			env = t / noteAttack
		}

		n.phase += n.freq / n.rate
		n.phase -= math.Floor(n.phase)
		tri := 4*math.Abs(n.phase-0.5) - 1

		cutoff := cutoffEnd + (cutoffStart-cutoffEnd)*math.Exp(-t/cutoffTau)
		alpha := 1 - math.Exp(-2*math.Pi*cutoff/n.rate)
		n.lp += alpha * (tri - n.lp)

		dst[i] += float32(n.lp * env * noteGain)
	}
	return pos+int64(len(dst)) >= end
}

const (
	stingerLength = 0.4 // seconds
	stingerRise   = 0.05
	stingerLow    = 320.0 // Hz
	stingerHigh   = 960.0
	stingerGain   = 0.3
)

// stinger is a short sine sweep, pitch up then down.
type stinger struct {
	start int64
	rate  float64
	phase float64
}

func newStinger(start int64, rate int) *stinger {
	return &stinger{start: start, rate: float64(rate)}
}

func (n *stinger) bus() bus { return masterBus }

func (n *stinger) render(dst []float32, pos int64) bool {
	end := n.start + int64(stingerLength*n.rate)
	for i := range dst {
		s := pos + int64(i)
		if s < n.start {
			continue
		}
		if s >= end {
			return true
		}
		t := float64(s-n.start) / n.rate

		freq := stingerLow + (stingerHigh-stingerLow)*math.Sin(math.Pi*t/stingerLength)
		env := math.Exp(-(t - stingerRise) / 0.1)
		if t < stingerRise {
			env = t / stingerRise
		}

		n.phase += 2 * math.Pi * freq / n.rate
		dst[i] += float32(math.Sin(n.phase) * env * stingerGain)
	}
	return pos+int64(len(dst)) >= end
}

// sample plays a decoded buffer once.
type sample struct {
	data  []float32
	start int64
}

func (n *sample) bus() bus { return voiceBus }

func (n *sample) render(dst []float32, pos int64) bool {
	end := n.start + int64(len(n.data))
	for i := range dst {
		s := pos + int64(i)
		if s < n.start {
			continue
		}
		if s >= end {
			return true
		}
		dst[i] += n.data[s-n.start]
	}
	return pos+int64(len(dst)) >= end
}
