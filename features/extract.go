// Package features computes per-interval acoustic descriptors: intensity,
// harmonic-to-noise ratio, duration, zero-crossing rate, and spectral center
// of gravity.
package features

import (
	"errors"
	"fmt"
	"math"

	"github.com/maastricht-university/speech-features/config"
	"github.com/maastricht-university/speech-features/textgrid"
	"github.com/maastricht-university/speech-features/wav"
)

const (
	// silenceDB is the intensity reported for an all-zero slice.
	silenceDB = -80
	// hnrFloorDB is reported when no periodicity is detectable.
	hnrFloorDB = -20
	// pitchFloorHz bounds the autocorrelation lag search from below.
	pitchFloorHz = 70
)

var (
	ErrInvalidInterval = errors.New("invalid interval")
	ErrEmptyInterval   = errors.New("empty interval")
)

// Row is one line of the output report.
type Row struct {
	Participant string
	Label       string
	Intensity   float64 // dB, band-limited to LPCutoff
	HNR         float64 // dB, band-limited, capped at HNRCeiling
	Duration    float64 // s
	ZCR         float64 // sign changes per second, full band
	CoG         float64 // Hz
	CoGLog      float64 // ln(1 + CoG)
}

// Extractor computes feature rows for intervals of one waveform. Pure: no
// state beyond the configured parameters.
type Extractor struct {
	cfg config.Extraction
}

func New(cfg config.Extraction) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract computes the descriptors for the slice of w covering ivl.
// The interval must lie inside the waveform and resolve to at least one
// sample; out-of-range intervals fail with ErrInvalidInterval, degenerate
// ones with ErrEmptyInterval. Both are skippable by the caller.
func (e *Extractor) Extract(w *wav.Waveform, ivl textgrid.Interval, participant string) (Row, error) {
	t0, t1 := ivl.Start, ivl.End
	if t1 <= t0 {
		return Row{}, fmt.Errorf("%w: [%g, %g)", ErrInvalidInterval, t0, t1)
	}
	if t0 < 0 || t1 > w.Duration()+1e-9 {
		return Row{}, fmt.Errorf("%w: [%g, %g) outside waveform of %.6fs", ErrInvalidInterval, t0, t1, w.Duration())
	}

	sr := w.SampleRate
	i0 := int(t0 * float64(sr))
	i1 := int(t1 * float64(sr))
	if i1 > len(w.Samples) {
		i1 = len(w.Samples)
	}
	if i1 <= i0 {
		return Row{}, fmt.Errorf("%w: [%g, %g) resolves to zero samples", ErrEmptyInterval, t0, t1)
	}
	slice := w.Samples[i0:i1]

	lp := bandLimit(slice, sr, e.cfg.LPCutoff)

	cog := centroid(slice, sr, e.cfg.MinFreq, e.cfg.MaxFreq)

	return Row{
		Participant: participant,
		Label:       ivl.Label,
		Intensity:   e.intensity(lp),
		HNR:         e.hnr(lp, sr),
		Duration:    t1 - t0,
		ZCR:         float64(zeroCrossings(slice)) / (float64(len(slice)) / float64(sr)),
		CoG:         cog,
		CoGLog:      math.Log1p(cog),
	}, nil
}

// intensity converts band-limited RMS to dB, flooring silence instead of
// returning -Inf.
func (e *Extractor) intensity(lp []float64) float64 {
	r := rms(lp)
	if r <= 0 {
		return silenceDB
	}
	return 10 * math.Log10(r)
}

// hnr maps the normalized autocorrelation peak r to 10*log10(r/(1-r)) dB,
// clamped to [hnrFloorDB, HNRCeiling]. Unvoiced and silent slices yield the
// floor, near-perfect periodicity the ceiling.
func (e *Extractor) hnr(lp []float64, sr int) float64 {
	r := harmonicity(lp, sr, e.cfg.LPCutoff)
	if r <= 0 {
		return hnrFloorDB
	}
	if r >= 1 {
		return e.cfg.HNRCeiling
	}
	v := 10 * math.Log10(r/(1-r))
	if v > e.cfg.HNRCeiling {
		return e.cfg.HNRCeiling
	}
	if v < hnrFloorDB {
		return hnrFloorDB
	}
	return v
}
