package features

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// bandLimit zeroes every spectral bin above cutoff (mirrored bins included)
// and reconstructs the time-domain signal. One FFT over the whole slice, so
// the band edge is exact for every interval in a batch.
func bandLimit(x []float64, sr int, cutoff float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}
	nyq := float64(sr) / 2
	if cutoff > nyq {
		cutoff = nyq
	}
	spec := fft.FFTReal(x)
	for k := range spec {
		m := k
		if n-k < m {
			m = n - k
		}
		if float64(m)*float64(sr)/float64(n) > cutoff {
			spec[k] = 0
		}
	}
	out := fft.IFFT(spec)
	y := make([]float64, n)
	for i, c := range out {
		y[i] = real(c)
	}
	return y
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// harmonicity estimates periodicity strength as the peak of the normalized
// autocorrelation over lags covering [pitchFloorHz, fmax]. Returns 0 when the
// slice is silent or no positive peak exists.
func harmonicity(x []float64, sr int, fmax float64) float64 {
	n := len(x)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	r0 := 0.0
	for _, v := range x {
		d := v - mean
		r0 += d * d
	}
	if r0 == 0 {
		return 0
	}

	nyq := float64(sr) / 2
	if fmax > nyq {
		fmax = nyq
	}
	minLag := int(float64(sr) / fmax)
	if minLag < 1 {
		minLag = 1
	}
	maxLag := int(float64(sr) / pitchFloorHz)
	if maxLag > n-1 {
		maxLag = n - 1
	}

	best := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i+lag < n; i++ {
			sum += (x[i] - mean) * (x[i+lag] - mean)
		}
		if r := sum / r0; r > best {
			best = r
		}
	}
	return best
}

// zeroCrossings counts sign changes between consecutive samples of the
// unfiltered slice.
func zeroCrossings(x []float64) int {
	count := 0
	for i := 1; i < len(x); i++ {
		if x[i-1]*x[i] < 0 {
			count++
		}
	}
	return count
}

// centroid computes the spectral center of gravity in Hz: a Hann-window STFT
// (nfft = min(512, len), half-overlap), bin magnitudes averaged across frames
// and squared to power, then the power-weighted mean frequency over
// [minFreq, maxFreq].
func centroid(x []float64, sr int, minFreq, maxFreq float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	nfft := 512
	if n < nfft {
		nfft = n
	}
	hop := nfft / 2
	if hop < 1 {
		hop = 1
	}

	win := make([]float64, nfft)
	for i := range win {
		if nfft == 1 {
			win[i] = 1
		} else {
			win[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(nfft-1))
		}
	}

	bins := nfft/2 + 1
	mag := make([]float64, bins)
	frames := 0
	frame := make([]float64, nfft)
	for start := 0; start+nfft <= n; start += hop {
		for i := 0; i < nfft; i++ {
			frame[i] = x[start+i] * win[i]
		}
		spec := fft.FFTReal(frame)
		for k := 0; k < bins; k++ {
			mag[k] += cmplxAbs(spec[k])
		}
		frames++
	}
	if frames == 0 {
		return 0
	}

	nyq := float64(sr) / 2
	if maxFreq > nyq {
		maxFreq = nyq
	}
	var total, weighted float64
	for k := 0; k < bins; k++ {
		f := float64(k) * float64(sr) / float64(nfft)
		if f < minFreq || f > maxFreq {
			continue
		}
		p := mag[k] / float64(frames)
		p *= p
		total += p
		weighted += f * p
	}
	if total <= 0 {
		return 0
	}
	return weighted / total
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
