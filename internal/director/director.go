package director

import "time"

// Tick is the scheduler's answer for one point in time.
type Tick struct {
	Step        Step
	Elapsed     time.Duration
	StepElapsed time.Duration // time since the current step began
	RowElapsed  time.Duration // time since the current row began
	Progress    float64
	Transitions int  // step boundaries crossed since the previous tick
	Holding     bool // the last step is held after the sequence ended
	Completed   bool // set on exactly one tick, once the hold has elapsed
}

// Scheduler turns elapsed playback time into the step on screen.
type Scheduler struct {
	Sequence  Sequence
	StepDur   time.Duration
	EndBuffer time.Duration

	last      int
	started   bool
	completed bool
	progress  float64
}

// NewScheduler creates a Scheduler. stepDur must be positive.
func NewScheduler(seq Sequence, stepDur, endBuffer time.Duration) *Scheduler {
	if stepDur <= 0 {
		stepDur = time.Second
	}
	return &Scheduler{
		Sequence:  seq,
		StepDur:   stepDur,
		EndBuffer: endBuffer,
	}
}

// TotalDuration is the time until the last step ends, hold excluded.
func (s *Scheduler) TotalDuration() time.Duration {
	if s.Sequence.Total <= 0 {
		return 0
	}
	return time.Duration(s.Sequence.Total) * s.StepDur
}

// Reset rewinds to step 0 and clears the hold and completion state.
func (s *Scheduler) Reset() {
	s.last = 0
	s.started = false
	s.completed = false
	s.progress = 0
}

// Done reports whether completion has been signalled.
func (s *Scheduler) Done() bool {
	return s.completed
}

// Advance computes the tick for elapsed. Calls are expected with
// non-decreasing elapsed; progress never moves backwards regardless.
func (s *Scheduler) Advance(elapsed time.Duration) Tick {
	if elapsed < 0 {
		elapsed = 0
	}

	total := s.TotalDuration()
	tick := Tick{Elapsed: elapsed}

	if s.Sequence.Total <= 0 {
		tick.Step = s.Sequence.At(0)
		tick.Holding = true
		s.progress = 1
		tick.Progress = 1
		tick.Completed = s.complete(elapsed >= s.EndBuffer)
		s.started = true
		return tick
	}

	idx := int(elapsed / s.StepDur)
	if idx >= s.Sequence.Total {
		idx = s.Sequence.Total - 1
	}

	tick.Step = s.Sequence.At(idx)
	tick.StepElapsed = elapsed - time.Duration(idx)*s.StepDur
	rowStart := time.Duration(tick.Step.RowIdx*s.Sequence.Attributes) * s.StepDur
	tick.RowElapsed = elapsed - rowStart

	if s.started && idx > s.last {
		tick.Transitions = idx - s.last
	}
	if idx > s.last || !s.started {
		s.last = idx
	}
	s.started = true

	p := float64(elapsed) / float64(total)
	if p > 1 {
		p = 1
	}
	if p > s.progress {
		s.progress = p
	}
	tick.Progress = s.progress

	if elapsed >= total {
		tick.Holding = true
		tick.Completed = s.complete(elapsed >= total+s.EndBuffer)
	}
	return tick
}

func (s *Scheduler) complete(reached bool) bool {
	if !reached || s.completed {
		return false
	}
	s.completed = true
	return true
}
