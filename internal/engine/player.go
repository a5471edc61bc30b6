package engine

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/table2video/internal/audio"
	"github.com/ivlev/table2video/internal/director"
	"github.com/ivlev/table2video/internal/renderer"
	"github.com/ivlev/table2video/internal/text"
)

// audioLead is how far ahead of the wall clock the preview renders audio.
const audioLead = 200 * time.Millisecond

// FrameSink receives preview frames. img is reused after Present returns.
type FrameSink interface {
	Present(img *image.RGBA, progress float64) error
}

// Player is the live preview. One goroutine runs the frame ticker and the
// audio lookahead ticker; the scheduler, compositor and audio engine are
// only touched from it.
type Player struct {
	Pres      *Presentation
	Width     int
	Height    int
	FPS       int
	EndBuffer time.Duration
	Faces     *text.Faces
	Sink      FrameSink
	// NewDevice supplies the output for each audio engine; an engine is
	// single-use, so a restart asks for a new device.
	NewDevice func() audio.Device
	Loop      bool

	OnProgress func(float64)
	OnComplete func()

	restart chan struct{}
}

// NewPlayer creates a preview player.
func NewPlayer(pres *Presentation, w, h, fps int, endBuffer time.Duration, sink FrameSink, newDevice func() audio.Device) *Player {
	return &Player{
		Pres:      pres,
		Width:     w,
		Height:    h,
		FPS:       fps,
		EndBuffer: endBuffer,
		Faces:     text.NewFaces(),
		Sink:      sink,
		NewDevice: newDevice,
		restart:   make(chan struct{}, 1),
	}
}

// Restart rewinds playback to the first step.
func (p *Player) Restart() {
	select {
	case p.restart <- struct{}{}:
	default:
	}
}

// Run plays until completion (or forever with Loop) or until ctx ends.
// Every pending tick is dropped and the audio engine stopped on return.
func (p *Player) Run(ctx context.Context) error {
	fps := p.FPS
	if fps <= 0 {
		fps = 30
	}
	frameTicker := time.NewTicker(time.Second / time.Duration(fps))
	defer frameTicker.Stop()
	audioTicker := time.NewTicker(audio.DefaultTickInterval)
	defer audioTicker.Stop()

	seq := director.NewSequence(p.Pres.Table)
	sched := director.NewScheduler(seq, p.Pres.Animation.StepDuration(), p.EndBuffer)
	comp := renderer.NewCompositor(p.Pres.Scene(), p.Faces)
	frame := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))

	eng, err := p.startAudio()
	if err != nil {
		return err
	}
	defer func() { eng.Stop() }()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-p.restart:
			eng.Stop()
			next, err := p.startAudio()
			if err != nil {
				return err
			}
			eng = next
			sched.Reset()
			start = time.Now()

		case now := <-audioTicker.C:
			eng.Tick()
			if err := eng.ProcessUntil(now.Sub(start) + audioLead); err != nil {
				log.Printf("[!] Preview audio stopped: %v", err)
			}

		case now := <-frameTicker.C:
			tick := sched.Advance(now.Sub(start))
			for range tick.Transitions {
				eng.Transition()
			}
			comp.Draw(frame, tick)
			if err := p.Sink.Present(frame, tick.Progress); err != nil {
				return fmt.Errorf("present frame: %w", err)
			}
			if p.OnProgress != nil {
				p.OnProgress(tick.Progress)
			}
			if !tick.Completed {
				continue
			}
			if p.OnComplete != nil {
				p.OnComplete()
			}
			if !p.Loop {
				return nil
			}
			p.Restart()
		}
	}
}

func (p *Player) startAudio() (*audio.Engine, error) {
	eng := audio.NewEngine(p.NewDevice(), audio.Options{})
	eng.SetNarration(p.Pres.Narration)
	if err := eng.Start(); err != nil {
		eng.Stop()
		return nil, fmt.Errorf("start audio: %w", err)
	}
	return eng, nil
}

// PNGSink writes the latest preview frame to a PNG file, at most once per
// Interval, replacing the file atomically.
type PNGSink struct {
	Path     string
	Interval time.Duration

	last time.Time
}

// NewPNGSink writes at most fps frames per second to path.
func NewPNGSink(path string, fps int) *PNGSink {
	if fps <= 0 {
		fps = 10
	}
	return &PNGSink{Path: path, Interval: time.Second / time.Duration(fps)}
}

func (s *PNGSink) Present(img *image.RGBA, progress float64) error {
	now := time.Now()
	if now.Sub(s.last) < s.Interval {
		return nil
	}
	s.last = now
	return writePNG(s.Path, img)
}

// DefaultPreviewPath is where the preview frame goes when none is given.
func DefaultPreviewPath() string {
	return filepath.Join(os.TempDir(), "table2video-preview.png")
}
