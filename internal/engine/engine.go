package engine

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/ivlev/table2video/internal/assets"
	"github.com/ivlev/table2video/internal/config"
	"github.com/ivlev/table2video/internal/renderer"
	"github.com/ivlev/table2video/internal/source"
	"github.com/ivlev/table2video/internal/stats"
	"github.com/ivlev/table2video/internal/system"
	"github.com/ivlev/table2video/internal/text"
)

// Presentation is a loaded project with its optional bitmaps resolved.
type Presentation struct {
	Input      string
	Table      *source.TableData
	Animation  config.AnimationConfig
	Narration  string
	Background image.Image
	Logo       image.Image
}

// Prepare loads the assets a project refers to. Assets that fail to load
// are logged and left nil so rendering falls back.
func Prepare(ctx context.Context, input string, p *source.Project) *Presentation {
	loader := assets.NewLoader()
	return &Presentation{
		Input:      input,
		Table:      &p.Table,
		Animation:  p.Animation,
		Narration:  p.Narration,
		Background: loader.LoadOptional(ctx, p.Animation.BackgroundImage, "background image"),
		Logo:       loader.LoadOptional(ctx, p.Logo, "logo"),
	}
}

// Scene is the compositor's view of the presentation.
func (p *Presentation) Scene() renderer.Scene {
	return renderer.Scene{
		Table:      p.Table,
		Animation:  p.Animation,
		Background: p.Background,
		Logo:       p.Logo,
	}
}

// Result describes a finished export.
type Result struct {
	SessionID string
	Output    string
	Encoder   string
	Steps     int
	Frames    int
	Media     time.Duration
	Elapsed   time.Duration
	PeakRSS   uint64
}

// Exporter runs exports with shared fonts, frame buffers and history.
type Exporter struct {
	Config   *config.Config
	Faces    *text.Faces
	Pool     *system.FramePool
	History  *stats.Store // optional
	Progress func(float64)

	newCapture captureFunc
}

// NewExporter creates an Exporter for cfg.
func NewExporter(cfg *config.Config) *Exporter {
	return &Exporter{
		Config:     cfg,
		Faces:      text.NewFaces(),
		Pool:       system.NewFramePool(),
		newCapture: startRecorder,
	}
}

func (x *Exporter) progress(p float64) {
	if x.Progress == nil {
		return
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	x.Progress(p)
}

func (x *Exporter) finish(ctx context.Context, kind stats.Kind, pres *Presentation, res Result) {
	if x.Config.ShowStats {
		printReport(x.Config, kind, res)
	}
	if x.History == nil {
		return
	}
	run := stats.Run{
		ID:      res.SessionID,
		Kind:    kind,
		Build:   x.Config.BuildVersion,
		Input:   pres.Input,
		Output:  res.Output,
		Encoder: res.Encoder,
		Steps:   res.Steps,
		Frames:  res.Frames,
		Media:   res.Media,
		Elapsed: res.Elapsed,
		PeakRSS: res.PeakRSS,
	}
	if err := x.History.Record(ctx, run); err != nil {
		log.Printf("[!] Failed to record run history: %v", err)
	}
}

func printReport(cfg *config.Config, kind stats.Kind, res Result) {
	fps := 0.0
	if res.Elapsed > 0 {
		fps = float64(res.Frames) / res.Elapsed.Seconds()
	}
	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Export: %s\n"+
			"Steps: %d | Frames: %d | Media: %.2fs\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"Peak RSS: %.1f MB\n"+
			"----------------------------\n",
		cfg.BuildVersion, kind, res.Steps, res.Frames, res.Media.Seconds(),
		res.Elapsed.Seconds(), fps, float64(res.PeakRSS)/(1<<20),
	)
}
