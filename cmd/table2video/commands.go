package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/table2video/internal/audio"
	"github.com/ivlev/table2video/internal/engine"
	"github.com/ivlev/table2video/internal/source"
	"github.com/ivlev/table2video/internal/stats"
	"github.com/ivlev/table2video/internal/system"
)

func videoCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Encode the presentation to an MP4 file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pres, err := opts.load(ctx)
			if err != nil {
				return err
			}

			cfg := opts.buildConfig()
			cfg.OutputVideo = opts.outputPath(".mp4")
			cfg.VideoEncoder = opts.encoder
			if cfg.VideoEncoder == "" || cfg.VideoEncoder == "auto" {
				cfg.VideoEncoder = system.GetBestH264Encoder()
				if cfg.VideoEncoder != "libx264" {
					status("[*] Hardware acceleration detected: %s", cfg.VideoEncoder)
				}
			}
			cfg.Quality = opts.quality
			if cfg.Quality <= 0 {
				cfg.Quality = system.DefaultQuality(cfg.VideoEncoder)
			}

			x := engine.NewExporter(cfg)
			if x.History = opts.openHistory(); x.History != nil {
				defer x.History.Close()
			}
			bar := newProgressLine("Encoding")
			x.Progress = bar.Update

			res, err := x.ExportVideo(ctx, pres)
			bar.Done()
			if err != nil {
				return err
			}
			success("[+++] Done! %s (%.1fs of video in %.1fs)", res.Output, res.Media.Seconds(), res.Elapsed.Seconds())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Output MP4 path (default: output/<input>_<time>.mp4)")
	f.StringVar(&opts.encoder, "encoder", "auto", "H.264 encoder: auto, libx264, h264_videotoolbox, h264_nvenc")
	f.IntVar(&opts.quality, "quality", 0, "Quality (0 = auto; x264/NVENC: CRF/CQ, VideoToolbox: bitrate = Q*100 kbit/s)")
	f.IntVar(&opts.width, "width", 0, "Frame width (default 1080)")
	f.IntVar(&opts.height, "height", 0, "Frame height (default 1080)")
	f.IntVar(&opts.fps, "fps", 0, "Frame rate (default 30)")
	f.Float64Var(&opts.endBuffer, "end-buffer", 0, "Seconds to hold the last step (default 2.5)")
	return cmd
}

func imageCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Render the whole table as a PNG poster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pres, err := opts.load(ctx)
			if err != nil {
				return err
			}

			cfg := opts.buildConfig()
			cfg.OutputImage = opts.outputPath(".png")
			if opts.width > 0 {
				cfg.ImageWidth = opts.width
			}
			if opts.height > 0 {
				cfg.ImageHeight = opts.height
			}

			x := engine.NewExporter(cfg)
			if x.History = opts.openHistory(); x.History != nil {
				defer x.History.Close()
			}

			res, err := x.ExportImage(ctx, pres)
			if err != nil {
				return err
			}
			success("[+++] Done! %s", res.Output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Output PNG path (default: output/<input>_<time>.png)")
	f.IntVar(&opts.width, "width", 0, "Poster width (default 2400)")
	f.IntVar(&opts.height, "height", 0, "Poster height (default 3000)")
	return cmd
}

func previewCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Play the presentation live with sound",
		Long: `preview plays the presentation in real time. Audio goes to ffplay and
the current frame is written to a PNG file that an image viewer can watch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pres, err := opts.load(ctx)
			if err != nil {
				return err
			}

			cfg := opts.buildConfig()
			cfg.PreviewPath = opts.output
			if cfg.PreviewPath == "" {
				cfg.PreviewPath = engine.DefaultPreviewPath()
			}

			sink := engine.NewPNGSink(cfg.PreviewPath, cfg.PreviewFPS)
			newDevice := func() audio.Device { return audio.NewPlaybackDevice(ctx, cfg.SampleRate) }
			p := engine.NewPlayer(pres, cfg.Width, cfg.Height, cfg.FPS, cfg.EndBuffer, sink, newDevice)
			p.Loop = opts.loop

			bar := newProgressLine("Playing")
			p.OnProgress = bar.Update
			p.OnComplete = func() {
				bar.Done()
				if opts.loop {
					status("[>] Looping")
				}
			}

			status("[*] Preview frames: %s", cfg.PreviewPath)
			err = p.Run(ctx)
			bar.Done()
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Preview PNG path (default: in the temp dir)")
	f.IntVar(&opts.width, "width", 0, "Frame width (default 1080)")
	f.IntVar(&opts.height, "height", 0, "Frame height (default 1080)")
	f.IntVar(&opts.previewFPS, "preview-fps", 0, "How often the preview PNG is rewritten (default 10)")
	f.Float64Var(&opts.endBuffer, "end-buffer", 0, "Seconds to hold the last step (default 2.5)")
	f.BoolVar(&opts.loop, "loop", false, "Restart after the end")
	return cmd
}

func historyCommand(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := stats.Open(opts.statsDB)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				status("[*] No exports recorded in %s", opts.statsDB)
				return nil
			}

			fmt.Println(titleStyle.Render("Recent exports"))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tKIND\tSTEPS\tFRAMES\tMEDIA\tTIME\tFPS\tRSS\tOUTPUT")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1fs\t%.1fs\t%.1f\t%.0f MB\t%s\n",
					r.CreatedAt.Local().Format(time.DateTime), r.Kind, r.Steps, r.Frames,
					r.Media.Seconds(), r.Elapsed.Seconds(), r.FPS(), float64(r.PeakRSS)/(1<<20), r.Output)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

func convertCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Write the input (e.g. an XLSX sheet) as an editable YAML project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.input == "" {
				return fmt.Errorf("--input is required")
			}
			p, err := source.Load(opts.input)
			if err != nil {
				return fmt.Errorf("load project: %w", err)
			}
			if err := opts.override(&p.Animation); err != nil {
				return err
			}

			out := opts.outputPath(".yaml")
			if err := source.WriteProjectFile(p, out); err != nil {
				return err
			}
			success("[+++] Wrote %s", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output YAML path (default: output/<input>_<time>.yaml)")
	return cmd
}
