// Package video muxes composed frames and the audio mix into one MP4 by
// feeding an ffmpeg process raw RGBA on stdin and f32le on a second pipe.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/table2video/internal/audio"
	"github.com/ivlev/table2video/internal/system"
)

var (
	ErrEncoderUnavailable = errors.New("ffmpeg not available")
	ErrRecorderClosed     = errors.New("recorder closed")
)

// Params describe one capture session.
type Params struct {
	Output     string
	Width      int
	Height     int
	FPS        int
	SampleRate int
	Encoder    string
	Quality    int
}

// BuildArgs returns the ffmpeg command line for p writing to path. Video
// arrives on stdin, audio on the first extra file descriptor.
func BuildArgs(p Params, path string) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-framerate", strconv.Itoa(p.FPS),
		"-i", "pipe:0",
		"-f", "f32le",
		"-ar", strconv.Itoa(p.SampleRate),
		"-ch_layout", "mono",
		"-i", "pipe:3",
		"-map", "0:v", "-map", "1:a",
		"-c:v", p.Encoder,
	}
	args = append(args, QualityArgs(p.Encoder, p.Quality)...)
	args = append(args,
		"-pix_fmt", "yuv420p",
		"-c:a", "aac", "-b:a", "192k",
		"-movflags", "+faststart",
		"-shortest",
		"-f", "mp4",
		path,
	)
	return args
}

// QualityArgs maps a quality value onto the rate control of encoder.
func QualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox ignores CRF; quality is a bitrate in 100 kbit/s.
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", strconv.Itoa(quality)}
	default:
		return []string{"-crf", strconv.Itoa(quality), "-preset", "medium"}
	}
}

// Recorder is one capture session. Frames and audio are written from the
// caller's goroutine and drained to ffmpeg by two pipe writers.
type Recorder struct {
	ID     string
	params Params
	tmp    string

	cmd     *exec.Cmd
	stderr  tailBuffer
	frames  chan *image.RGBA
	samples chan []float32
	group   *errgroup.Group
	gctx    context.Context
	pool    *system.FramePool

	mu       sync.Mutex
	closed   bool
	finished bool
	written  int
}

// NewRecorder starts ffmpeg for p. The output appears at p.Output only
// after Finish succeeds.
func NewRecorder(ctx context.Context, p Params, pool *system.FramePool) (*Recorder, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}
	if pool == nil {
		pool = system.NewFramePool()
	}

	id := uuid.New().String()
	r := &Recorder{
		ID:      id,
		params:  p,
		tmp:     fmt.Sprintf("%s.%s.part", p.Output, id),
		frames:  make(chan *image.RGBA, 4),
		samples: make(chan []float32, 64),
		pool:    pool,
	}

	audioR, audioW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("audio pipe: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", BuildArgs(p, r.tmp)...)
	cmd.ExtraFiles = []*os.File{audioR}
	cmd.Stderr = &r.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		audioR.Close()
		audioW.Close()
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		audioR.Close()
		audioW.Close()
		return nil, fmt.Errorf("%w: start: %v", ErrEncoderUnavailable, err)
	}
	audioR.Close() // the child holds its own copy
	r.cmd = cmd

	r.group, r.gctx = errgroup.WithContext(ctx)
	r.group.Go(func() error {
		defer stdin.Close()
		return r.drainFrames(stdin)
	})
	r.group.Go(func() error {
		out := audio.NewStreamDevice(audioW, p.SampleRate)
		defer out.Close()
		return r.drainAudio(out)
	})
	return r, nil
}

func (r *Recorder) drainFrames(w io.Writer) error {
	for img := range r.frames {
		_, err := w.Write(img.Pix)
		r.pool.Put(img)
		if err != nil {
			go discard(r.frames, r.pool)
			return fmt.Errorf("write frame: %w", err)
		}
	}
	return nil
}

func (r *Recorder) drainAudio(out audio.Device) error {
	for buf := range r.samples {
		if err := out.Write(buf); err != nil {
			go func() {
				for range r.samples {
				}
			}()
			return fmt.Errorf("write audio: %w", err)
		}
	}
	return nil
}

func discard(ch <-chan *image.RGBA, pool *system.FramePool) {
	for img := range ch {
		pool.Put(img)
	}
}

// Frame returns a pooled canvas of the session size to draw into before
// passing it to WriteFrame.
func (r *Recorder) Frame() *image.RGBA {
	return r.pool.Get(r.params.Width, r.params.Height)
}

// WriteFrame queues img for encoding and takes ownership of it.
func (r *Recorder) WriteFrame(img *image.RGBA) error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrRecorderClosed
	}
	if img.Stride != r.params.Width*4 || img.Rect.Dy() != r.params.Height {
		return fmt.Errorf("frame %v does not match %dx%d", img.Rect, r.params.Width, r.params.Height)
	}

	select {
	case r.frames <- img:
		r.mu.Lock()
		r.written++
		r.mu.Unlock()
		return nil
	case <-r.gctx.Done():
		return r.failure(context.Cause(r.gctx))
	}
}

// WriteAudio queues a copy of samples.
func (r *Recorder) WriteAudio(samples []float32) error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrRecorderClosed
	}

	buf := make([]float32, len(samples))
	copy(buf, samples)
	select {
	case r.samples <- buf:
		return nil
	case <-r.gctx.Done():
		return r.failure(context.Cause(r.gctx))
	}
}

// Frames is the number of frames accepted so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

func (r *Recorder) closeInputs() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.frames)
	close(r.samples)
}

// Finish flushes both streams, waits for ffmpeg and moves the result into
// place. On failure the partial file is removed.
func (r *Recorder) Finish() error {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return nil
	}
	r.finished = true
	r.mu.Unlock()

	r.closeInputs()
	pipeErr := r.group.Wait()
	waitErr := r.cmd.Wait()

	if waitErr != nil {
		os.Remove(r.tmp)
		return r.failure(waitErr)
	}
	if pipeErr != nil {
		os.Remove(r.tmp)
		return r.failure(pipeErr)
	}
	if err := os.Rename(r.tmp, r.params.Output); err != nil {
		os.Remove(r.tmp)
		return fmt.Errorf("move output: %w", err)
	}
	return nil
}

// Abort stops ffmpeg and discards the partial output.
func (r *Recorder) Abort() {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	r.finished = true
	r.mu.Unlock()

	if r.cmd.Process != nil {
		r.cmd.Process.Kill()
	}
	r.closeInputs()
	r.group.Wait()
	r.cmd.Wait()
	os.Remove(r.tmp)
}

func (r *Recorder) failure(err error) error {
	if tail := r.stderr.Tail(600); tail != "" {
		return fmt.Errorf("ffmpeg: %w\n%s", err, tail)
	}
	return fmt.Errorf("ffmpeg: %w", err)
}

// tailBuffer collects ffmpeg's stderr while it runs.
type tailBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Tail returns at most the last n bytes, trimmed.
func (b *tailBuffer) Tail(n int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := bytes.TrimSpace(b.buf.Bytes())
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return string(out)
}

// AudioDevice returns the recorder's audio input as an audio.Device.
// Closing the device detaches it; the stream itself ends with Finish.
func (r *Recorder) AudioDevice() audio.Device {
	return &captureDevice{rec: r}
}

type captureDevice struct {
	rec    *Recorder
	once   sync.Once
	closed bool
}

func (d *captureDevice) SampleRate() int { return d.rec.params.SampleRate }
func (d *captureDevice) Suspended() bool { return false }
func (d *captureDevice) Resume() error   { return nil }

func (d *captureDevice) Write(samples []float32) error {
	if d.closed {
		return audio.ErrDeviceClosed
	}
	return d.rec.WriteAudio(samples)
}

func (d *captureDevice) Close() error {
	d.once.Do(func() { d.closed = true })
	return nil
}
