package wav

import (
	"errors"
	"fmt"
	"os"

	gowav "github.com/go-audio/wav"
)

// Waveform is a mono signal normalized to [-1, 1]. Immutable once loaded.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

func (w *Waveform) Duration() float64 {
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

var ErrUnreadable = errors.New("unreadable audio file")

// Load decodes a PCM WAV file. Multi-channel input is downmixed to mono by
// channel averaging, matching how the rest of the pipeline expects a single
// signal per participant.
func Load(path string) (*Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	d := gowav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid WAV file", ErrUnreadable, path)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnreadable, path, err)
	}
	sr := buf.Format.SampleRate
	ch := buf.Format.NumChannels
	if sr <= 0 || ch <= 0 {
		return nil, fmt.Errorf("%w: %s has no usable format", ErrUnreadable, path)
	}

	bits := buf.SourceBitDepth
	if bits == 0 {
		bits = int(d.BitDepth)
	}
	scale := 1.0 / float64(int(1)<<(bits-1))

	frames := len(buf.Data) / ch
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		samples[i] = sum / float64(ch) * scale
	}

	return &Waveform{Samples: samples, SampleRate: sr}, nil
}
