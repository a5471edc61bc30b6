package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// NarrationRate is the sample rate of narration payloads.
const NarrationRate = 24000

var ErrEmptyNarration = errors.New("narration payload has no samples")

// DecodeNarration turns base64 16-bit little-endian mono PCM into samples
// in [-1, 1). A trailing odd byte is ignored.
func DecodeNarration(payload string) ([]float32, error) {
	payload = strings.Join(strings.Fields(payload), "")

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		var rawErr error
		raw, rawErr = base64.RawStdEncoding.DecodeString(payload)
		if rawErr != nil {
			return nil, fmt.Errorf("decode narration: %w", err)
		}
	}
	if len(raw) < 2 {
		return nil, ErrEmptyNarration
	}

	out := make([]float32, len(raw)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		out[i] = float32(v) / 32768
	}
	return out, nil
}

// Resample converts samples from one rate to another by linear
// interpolation.
func Resample(in []float32, from, to int) []float32 {
	if from == to || from <= 0 || to <= 0 || len(in) == 0 {
		return in
	}

	n := int(int64(len(in)) * int64(to) / int64(from))
	out := make([]float32, n)
	step := float64(from) / float64(to)
	for i := range out {
		x := float64(i) * step
		j := int(x)
		if j >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		f := float32(x - float64(j))
		out[i] = in[j]*(1-f) + in[j+1]*f
	}
	return out
}
