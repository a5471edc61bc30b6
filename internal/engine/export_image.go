package engine

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/table2video/internal/director"
	"github.com/ivlev/table2video/internal/renderer"
	"github.com/ivlev/table2video/internal/stats"
	"github.com/ivlev/table2video/internal/system"
)

// ExportImage renders the whole table as one print-size PNG at
// Config.OutputImage. A table without rows yields the header row alone.
func (x *Exporter) ExportImage(ctx context.Context, pres *Presentation) (Result, error) {
	cfg := x.Config
	started := time.Now()

	img, fit := renderer.RenderPoster(pres.Scene(), cfg.ImageWidth, cfg.ImageHeight, x.Faces)
	if !fit.Fits {
		log.Printf("[!] Table still overflows at %.0fpx after %d attempts (%.0f of %.0fpx)",
			fit.FontSize, fit.Attempts, fit.TableHeight, fit.TargetHeight)
	}
	x.progress(0.5)

	if err := writePNG(cfg.OutputImage, img); err != nil {
		return Result{}, err
	}
	x.progress(1)

	var peak system.PeakTracker
	peak.Sample()

	res := Result{
		SessionID: uuid.New().String(),
		Output:    cfg.OutputImage,
		Steps:     director.NewSequence(pres.Table).Total,
		Frames:    1,
		Elapsed:   time.Since(started),
		PeakRSS:   peak.Peak,
	}
	x.finish(ctx, stats.KindImage, pres, res)
	return res, nil
}

// writePNG encodes img next to path and renames it into place.
func writePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move png: %w", err)
	}
	return nil
}
