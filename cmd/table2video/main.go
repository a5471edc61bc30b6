package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/table2video/internal/config"
	"github.com/ivlev/table2video/internal/engine"
	"github.com/ivlev/table2video/internal/source"
	"github.com/ivlev/table2video/internal/stats"
	"github.com/ivlev/table2video/internal/system"
)

var version = "dev"

// options are the flags shared by every rendering command.
type options struct {
	input      string
	output     string
	theme      string
	layout     string
	style      string
	duration   float64
	endBuffer  float64
	encoder    string
	quality    int
	width      int
	height     int
	fps        int
	showStats  bool
	statsDB    string
	noHistory  bool
	previewFPS int
	loop       bool
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "table2video",
		Short: "Turn a data table into an animated video or a poster",
		Long: `table2video presents a table row by row with motion, ambient music
and optional narration, then encodes it with ffmpeg. The same table can
also be rendered as a single print-size PNG.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.input, "input", "i", "", "Project file (.yaml, .json, .xlsx); defaults to the newest file in input/")
	pf.StringVar(&opts.theme, "theme", "", "Override theme: cosmic, neon, luxe, glass")
	pf.StringVar(&opts.layout, "layout", "", "Override layout: stacked, split, diagonal, magazine, lower_third")
	pf.StringVar(&opts.style, "style", "", "Override entrance style: slide, zoom, pop")
	pf.Float64Var(&opts.duration, "duration", 0, "Override seconds per step (0 keeps the project value)")
	pf.BoolVar(&opts.showStats, "stats", false, "Print a performance report after the export")
	pf.StringVar(&opts.statsDB, "stats-db", stats.DefaultDBPath(), "Run history database")
	pf.BoolVar(&opts.noHistory, "no-history", false, "Do not record the run in the history database")

	rootCmd.AddCommand(
		videoCommand(opts),
		imageCommand(opts),
		previewCommand(opts),
		historyCommand(opts),
		convertCommand(opts),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[-] "+err.Error()))
		stop()
		os.Exit(1)
	}
}

// buildConfig turns flags into the export configuration.
func (o *options) buildConfig() *config.Config {
	cfg := config.Default()
	cfg.InputPath = o.input
	cfg.ShowStats = o.showStats
	cfg.StatsDB = o.statsDB
	cfg.BuildVersion = version
	if o.width > 0 {
		cfg.Width = o.width
	}
	if o.height > 0 {
		cfg.Height = o.height
	}
	if o.fps > 0 {
		cfg.FPS = o.fps
	}
	if o.endBuffer > 0 {
		cfg.EndBuffer = time.Duration(o.endBuffer * float64(time.Second))
	}
	if o.previewFPS > 0 {
		cfg.PreviewFPS = o.previewFPS
	}
	return cfg
}

// load resolves the input path, reads the project and applies the
// animation overrides.
func (o *options) load(ctx context.Context) (*engine.Presentation, error) {
	for _, d := range []string{"input", "output"} {
		os.MkdirAll(d, 0755)
	}

	if o.input == "" {
		latest, err := system.FindLatestTable("input")
		if err != nil {
			return nil, fmt.Errorf("%w; put a .yaml, .json or .xlsx project in input/", err)
		}
		o.input = latest
		status("[*] Selected input: %s", o.input)
	}

	p, err := source.Load(o.input)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if err := o.override(&p.Animation); err != nil {
		return nil, err
	}

	status("[*] %d rows × %d columns, %s / %s / %s",
		len(p.Table.Data), len(p.Table.Columns), p.Animation.Theme, p.Animation.Layout, p.Animation.Style)
	return engine.Prepare(ctx, o.input, p), nil
}

func (o *options) override(a *config.AnimationConfig) error {
	if o.theme != "" {
		t, err := config.ParseTheme(o.theme)
		if err != nil {
			return err
		}
		a.Theme = t
	}
	if o.layout != "" {
		l, err := config.ParseLayout(o.layout)
		if err != nil {
			return err
		}
		a.Layout = l
	}
	if o.style != "" {
		s, err := config.ParseStyle(o.style)
		if err != nil {
			return err
		}
		a.Style = s
	}
	if o.duration > 0 {
		a.DurationPerItem = o.duration
	}
	return nil
}

// outputPath names the output after the input with a timestamp, in output/.
func (o *options) outputPath(ext string) string {
	if o.output != "" {
		return o.output
	}
	base := filepath.Base(o.input)
	name := strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join("output", fmt.Sprintf("%s_%s%s", name, timestamp, ext))
}

// openHistory opens the run history unless disabled. A history that fails
// to open only costs the record, not the export.
func (o *options) openHistory() *stats.Store {
	if o.noHistory || o.statsDB == "" {
		return nil
	}
	store, err := stats.Open(o.statsDB)
	if err != nil {
		warn("[!] Run history disabled: %v", err)
		return nil
	}
	return store
}
