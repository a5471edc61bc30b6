package audio

import (
	"math/rand"
	"time"
)

// Pentatonic holds the pitches of the ambient bed, C3 to C5.
var Pentatonic = [...]float64{
	130.81, 146.83, 164.81, 196.00, 220.00,
	261.63, 293.66, 329.63, 392.00, 440.00,
	523.25,
}

const (
	noteGapBase   = 2 * time.Second
	noteGapJitter = 2500 * time.Millisecond
	harmonyChance = 0.3
	harmonySteps  = 2
)

// noteEvent is one scheduled note of the ambient bed.
type noteEvent struct {
	at      int64 // sample position
	pitch   int
	harmony int // -1 when the note is played alone
}

// ambient decides when the next notes of the bed fall.
type ambient struct {
	rng  *rand.Rand
	rate int
	next int64
}

func newAmbient(rng *rand.Rand, rate int) *ambient {
	return &ambient{rng: rng, rate: rate}
}

func (a *ambient) reset(at int64) {
	a.next = at
}

// due returns every note starting before horizon and moves the cursor
// past them.
func (a *ambient) due(horizon int64) []noteEvent {
	var out []noteEvent
	for a.next < horizon {
		ev := noteEvent{at: a.next, pitch: a.rng.Intn(len(Pentatonic)), harmony: -1}
		if a.rng.Float64() < harmonyChance && ev.pitch+harmonySteps < len(Pentatonic) {
			ev.harmony = ev.pitch + harmonySteps
		}
		out = append(out, ev)

		gap := noteGapBase + time.Duration(a.rng.Float64()*float64(noteGapJitter))
		a.next += samplesFor(gap, a.rate)
	}
	return out
}

func samplesFor(d time.Duration, rate int) int64 {
	return int64(d) * int64(rate) / int64(time.Second)
}
