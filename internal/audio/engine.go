// Package audio synthesizes the soundtrack of a presentation: an ambient
// bed of struck pentatonic notes, transition stingers and narration, mixed
// on a master and a voice bus into one mono Device.
//
// The engine has its own sample clock. Callers advance it with
// ProcessUntil and drive the ambient lookahead with Tick; nothing runs in
// the background.
package audio

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

var ErrEngineClosed = errors.New("audio engine stopped")

const (
	DefaultLookahead      = time.Second
	DefaultTickInterval   = 100 * time.Millisecond
	DefaultNarrationDelay = 500 * time.Millisecond
	DefaultMasterGain     = 0.35
	DefaultVoiceGain      = 1.0

	blockSize = 1024
)

// Options tune an Engine. Zero fields take the defaults.
type Options struct {
	Lookahead      time.Duration
	NarrationDelay time.Duration
	MasterGain     float64
	VoiceGain      float64
	Rand           *rand.Rand
}

// Engine owns every synthesis node it creates and the device it plays to.
type Engine struct {
	mu sync.Mutex

	dev  Device
	rate int
	opts Options

	ambient   *ambient
	nodes     []node
	narration *sample // active narration node
	pending   []float32

	clock   int64 // samples rendered so far
	started int64 // clock at Start
	running bool
	closed  bool

	master, voice []float32
	out           []float32
}

// NewEngine creates a stopped engine playing to dev.
func NewEngine(dev Device, opts Options) *Engine {
	if opts.Lookahead <= 0 {
		opts.Lookahead = DefaultLookahead
	}
	if opts.NarrationDelay <= 0 {
		opts.NarrationDelay = DefaultNarrationDelay
	}
	if opts.MasterGain <= 0 {
		opts.MasterGain = DefaultMasterGain
	}
	if opts.VoiceGain <= 0 {
		opts.VoiceGain = DefaultVoiceGain
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	rate := dev.SampleRate()
	if rate <= 0 {
		rate = 48000
	}
	return &Engine{
		dev:     dev,
		rate:    rate,
		opts:    opts,
		ambient: newAmbient(opts.Rand, rate),
		master:  make([]float32, blockSize),
		voice:   make([]float32, blockSize),
		out:     make([]float32, blockSize),
	}
}

// SampleRate is the rate of the engine's clock and output.
func (e *Engine) SampleRate() int { return e.rate }

// Start resumes the device if needed and begins the ambient bed. It is a
// no-op while running and fails once the engine has been stopped.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.running {
		return nil
	}

	if e.dev.Suspended() {
		if err := e.dev.Resume(); err != nil {
			return fmt.Errorf("resume audio device: %w", err)
		}
	}

	e.running = true
	e.started = e.clock
	e.ambient.reset(e.clock)
	if e.pending != nil {
		e.playNarration(e.pending)
		e.pending = nil
	}
	e.schedule()
	return nil
}

// Stop silences and drops every node and releases the device. Calling it
// again is safe.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.running = false
	e.nodes = nil
	e.narration = nil
	e.pending = nil

	if err := e.dev.Close(); err != nil {
		return fmt.Errorf("close audio device: %w", err)
	}
	return nil
}

// Running reports whether the engine is started and not stopped.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Now is the position of the engine clock.
func (e *Engine) Now() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position()
}

// ActiveNodes is the number of live synthesis nodes.
func (e *Engine) ActiveNodes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.nodes)
}

// Tick is the ambient lookahead step: it schedules every note starting
// within the lookahead window of the clock.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		e.schedule()
	}
}

func (e *Engine) schedule() {
	horizon := e.clock + samplesFor(e.opts.Lookahead, e.rate)
	for _, ev := range e.ambient.due(horizon) {
		e.nodes = append(e.nodes, newStruckNote(Pentatonic[ev.pitch], ev.at, e.rate))
		if ev.harmony >= 0 {
			e.nodes = append(e.nodes, newStruckNote(Pentatonic[ev.harmony], ev.at, e.rate))
		}
	}
}

// Transition adds one stinger at the current clock.
func (e *Engine) Transition() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		e.nodes = append(e.nodes, newStinger(e.clock, e.rate))
	}
}

// SetNarration replaces the narration with a base64 PCM payload. An empty
// payload removes it. Payloads that fail to decode are logged and skipped.
func (e *Engine) SetNarration(payload string) {
	var samples []float32
	if payload != "" {
		pcm, err := DecodeNarration(payload)
		if err != nil {
			// The narration already playing, if any, is left as it is.
			log.Printf("[!] Narration skipped: %v", err)
			return
		}
		samples = Resample(pcm, NarrationRate, e.rate)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.removeNarration()
	if !e.running {
		e.pending = samples
		return
	}
	if samples != nil {
		e.playNarration(samples)
	}
}

func (e *Engine) playNarration(samples []float32) {
	start := e.started + samplesFor(e.opts.NarrationDelay, e.rate)
	if start < e.clock {
		start = e.clock
	}
	e.narration = &sample{data: samples, start: start}
	e.nodes = append(e.nodes, e.narration)
}

func (e *Engine) removeNarration() {
	if e.narration == nil {
		return
	}
	for i, n := range e.nodes {
		if n == node(e.narration) {
			e.nodes = append(e.nodes[:i], e.nodes[i+1:]...)
			break
		}
	}
	e.narration = nil
}

// ProcessUntil renders the mix up to target on the engine clock and writes
// it to the device. A stopped engine renders nothing.
func (e *Engine) ProcessUntil(target time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if !e.running {
		return nil
	}

	end := samplesFor(target, e.rate)
	for e.clock < end {
		n := end - e.clock
		if n > blockSize {
			n = blockSize
		}
		if err := e.renderBlock(int(n)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) renderBlock(n int) error {
	master, voice, out := e.master[:n], e.voice[:n], e.out[:n]
	clear(master)
	clear(voice)

	live := e.nodes[:0]
	for _, nd := range e.nodes {
		dst := master
		if nd.bus() == voiceBus {
			dst = voice
		}
		if nd.render(dst, e.clock) {
			if nd == node(e.narration) {
				e.narration = nil
			}
			continue
		}
		live = append(live, nd)
	}
	clear(e.nodes[len(live):])
	e.nodes = live

	mg, vg := float32(e.opts.MasterGain), float32(e.opts.VoiceGain)
	for i := range out {
		s := master[i]*mg + voice[i]*vg
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		out[i] = s
	}

	e.clock += int64(n)
	if err := e.dev.Write(out); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	return nil
}

func (e *Engine) position() time.Duration {
	return time.Duration(e.clock * int64(time.Second) / int64(e.rate))
}
