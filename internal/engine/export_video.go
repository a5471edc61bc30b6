package engine

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/table2video/internal/audio"
	"github.com/ivlev/table2video/internal/director"
	"github.com/ivlev/table2video/internal/renderer"
	"github.com/ivlev/table2video/internal/stats"
	"github.com/ivlev/table2video/internal/system"
	"github.com/ivlev/table2video/internal/video"
)

// capture is the encoder side of a video export.
type capture interface {
	Frame() *image.RGBA
	WriteFrame(img *image.RGBA) error
	AudioDevice() audio.Device
	Finish() error
	Abort()
}

type captureFunc func(ctx context.Context, p video.Params, pool *system.FramePool) (capture, string, error)

func startRecorder(ctx context.Context, p video.Params, pool *system.FramePool) (capture, string, error) {
	rec, err := video.NewRecorder(ctx, p, pool)
	if err != nil {
		return nil, "", err
	}
	return rec, rec.ID, nil
}

// ExportVideo renders the presentation on a virtual clock at the configured
// frame rate and encodes frames and the audio mix into Config.OutputVideo.
// The audio engine is stopped before the call returns, on success or not.
// A table without rows renders the held background for the end buffer.
func (x *Exporter) ExportVideo(ctx context.Context, pres *Presentation) (Result, error) {
	cfg := x.Config
	started := time.Now()

	fps := cfg.FPS
	if fps <= 0 {
		fps = 30
	}
	params := video.Params{
		Output:     cfg.OutputVideo,
		Width:      cfg.Width,
		Height:     cfg.Height,
		FPS:        fps,
		SampleRate: cfg.SampleRate,
		Encoder:    cfg.VideoEncoder,
		Quality:    cfg.Quality,
	}

	rec, sessionID, err := x.newCapture(ctx, params, x.Pool)
	if err != nil {
		return Result{}, fmt.Errorf("start capture: %w", err)
	}

	eng := audio.NewEngine(rec.AudioDevice(), audio.Options{})
	fail := func(err error) (Result, error) {
		eng.Stop()
		rec.Abort()
		return Result{}, err
	}

	eng.SetNarration(pres.Narration)
	if err := eng.Start(); err != nil {
		return fail(fmt.Errorf("start audio: %w", err))
	}

	seq := director.NewSequence(pres.Table)
	sched := director.NewScheduler(seq, pres.Animation.StepDuration(), cfg.EndBuffer)
	comp := renderer.NewCompositor(pres.Scene(), x.Faces)

	fmt.Printf("[*] Exporting %d steps (%s + %s hold) at %dx%d @ %d FPS, encoder %s\n",
		seq.Total, sched.TotalDuration(), cfg.EndBuffer, cfg.Width, cfg.Height, fps, cfg.VideoEncoder)

	var (
		frames    int
		media     time.Duration
		nextAudio time.Duration
		peak      system.PeakTracker
	)
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		elapsed := time.Duration(i) * time.Second / time.Duration(fps)
		tick := sched.Advance(elapsed)
		if tick.Completed {
			media = elapsed
			break
		}
		for nextAudio <= elapsed {
			eng.Tick()
			nextAudio += audio.DefaultTickInterval
		}
		for range tick.Transitions {
			eng.Transition()
		}

		frame := rec.Frame()
		comp.Draw(frame, tick)
		if err := rec.WriteFrame(frame); err != nil {
			return fail(fmt.Errorf("encode frame %d: %w", i, err))
		}
		next := time.Duration(i+1) * time.Second / time.Duration(fps)
		if err := eng.ProcessUntil(next); err != nil {
			return fail(fmt.Errorf("render audio: %w", err))
		}

		frames++
		x.progress(tick.Progress)
		if i%fps == 0 {
			peak.Sample()
		}
	}

	// Audio goes first so nothing writes into a closing encoder.
	if err := eng.Stop(); err != nil {
		rec.Abort()
		return Result{}, err
	}
	if err := rec.Finish(); err != nil {
		return Result{}, fmt.Errorf("encode video: %w", err)
	}
	peak.Sample()

	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	res := Result{
		SessionID: sessionID,
		Output:    cfg.OutputVideo,
		Encoder:   cfg.VideoEncoder,
		Steps:     seq.Total,
		Frames:    frames,
		Media:     media,
		Elapsed:   time.Since(started),
		PeakRSS:   peak.Peak,
	}
	x.finish(ctx, stats.KindVideo, pres, res)
	return res, nil
}
