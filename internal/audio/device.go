package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"sync"
)

var ErrDeviceClosed = errors.New("audio device closed")

// Device consumes the engine's mixed mono float32 output.
type Device interface {
	SampleRate() int
	Write(samples []float32) error
	// Suspended reports whether the device must be resumed before it plays.
	Suspended() bool
	Resume() error
	Close() error
}

// MemoryDevice keeps everything written to it. It is used where the mix is
// inspected rather than heard.
type MemoryDevice struct {
	Rate    int
	Samples []float32

	suspended bool
	closed    bool
}

// NewMemoryDevice creates a device that starts suspended.
func NewMemoryDevice(rate int) *MemoryDevice {
	return &MemoryDevice{Rate: rate, suspended: true}
}

func (d *MemoryDevice) SampleRate() int { return d.Rate }
func (d *MemoryDevice) Suspended() bool { return d.suspended }
func (d *MemoryDevice) Closed() bool    { return d.closed }

func (d *MemoryDevice) Resume() error {
	if d.closed {
		return ErrDeviceClosed
	}
	d.suspended = false
	return nil
}

func (d *MemoryDevice) Write(samples []float32) error {
	if d.closed {
		return ErrDeviceClosed
	}
	d.Samples = append(d.Samples, samples...)
	return nil
}

func (d *MemoryDevice) Close() error {
	d.closed = true
	return nil
}

// StreamDevice encodes samples as f32le onto a writer.
type StreamDevice struct {
	rate int
	w    io.WriteCloser
	buf  []byte

	mu     sync.Mutex
	closed bool
}

// NewStreamDevice wraps w. Close closes w.
func NewStreamDevice(w io.WriteCloser, rate int) *StreamDevice {
	return &StreamDevice{rate: rate, w: w}
}

func (d *StreamDevice) SampleRate() int { return d.rate }
func (d *StreamDevice) Suspended() bool { return false }
func (d *StreamDevice) Resume() error   { return nil }

func (d *StreamDevice) Write(samples []float32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDeviceClosed
	}

	if cap(d.buf) < len(samples)*4 {
		d.buf = make([]byte, len(samples)*4)
	}
	buf := d.buf[:len(samples)*4]
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	_, err := d.w.Write(buf)
	return err
}

func (d *StreamDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.w.Close()
}

// PlaybackDevice plays the mix through an ffplay process. It starts
// suspended; Resume launches the player.
type PlaybackDevice struct {
	ctx  context.Context
	rate int

	cmd    *exec.Cmd
	stream *StreamDevice
	closed bool
}

// NewPlaybackDevice prepares a live output device.
func NewPlaybackDevice(ctx context.Context, rate int) *PlaybackDevice {
	return &PlaybackDevice{ctx: ctx, rate: rate}
}

func (d *PlaybackDevice) SampleRate() int { return d.rate }
func (d *PlaybackDevice) Suspended() bool { return d.stream == nil && !d.closed }

func (d *PlaybackDevice) Resume() error {
	if d.closed {
		return ErrDeviceClosed
	}
	if d.stream != nil {
		return nil
	}

	cmd := exec.CommandContext(d.ctx, "ffplay",
		"-nodisp", "-autoexit", "-loglevel", "error",
		"-f", "f32le", "-ar", strconv.Itoa(d.rate), "-ch_layout", "mono",
		"-i", "-",
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffplay stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffplay start: %w", err)
	}

	d.cmd = cmd
	d.stream = NewStreamDevice(stdin, d.rate)
	return nil
}

func (d *PlaybackDevice) Write(samples []float32) error {
	if d.closed {
		return ErrDeviceClosed
	}
	if d.stream == nil {
		return nil // suspended devices drop output
	}
	return d.stream.Write(samples)
}

func (d *PlaybackDevice) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.stream == nil {
		return nil
	}
	d.stream.Close()
	if d.cmd.Process != nil {
		d.cmd.Process.Kill()
	}
	d.cmd.Wait()
	return nil
}
