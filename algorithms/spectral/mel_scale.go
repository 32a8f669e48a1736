package spectral

import (
	"fmt"
	"math"
)

// MelScale converts between Hz and mels and builds triangular filter banks.
// The zero value uses the Slaney (auditory toolbox) scale, which is linear
// below 1 kHz and logarithmic above; HTK selects 2595*log10(1+f/700).
type MelScale struct {
	HTK bool
}

// Slaney scale constants.
const (
	slaneyFSP       = 200.0 / 3
	slaneyMinLogHz  = 1000.0
	slaneyMinLogMel = slaneyMinLogHz / slaneyFSP
)

var slaneyLogStep = math.Log(6.4) / 27.0

// NewMelScale creates a new mel scale converter
func NewMelScale(htk bool) *MelScale {
	return &MelScale{HTK: htk}
}

// HzToMel converts frequency in Hz to mel scale
func (ms *MelScale) HzToMel(hz float64) float64 {
	if ms.HTK {
		return 2595.0 * math.Log10(1.0+hz/700.0)
	}
	if hz < slaneyMinLogHz {
		return hz / slaneyFSP
	}
	return slaneyMinLogMel + math.Log(hz/slaneyMinLogHz)/slaneyLogStep
}

// MelToHz converts mel scale to frequency in Hz
func (ms *MelScale) MelToHz(mel float64) float64 {
	if ms.HTK {
		return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
	}
	if mel < slaneyMinLogMel {
		return mel * slaneyFSP
	}
	return slaneyMinLogHz * math.Exp(slaneyLogStep*(mel-slaneyMinLogMel))
}

// MelFrequencies returns n frequencies (Hz) evenly spaced on the mel scale
// between fmin and fmax inclusive.
func (ms *MelScale) MelFrequencies(n int, fmin, fmax float64) []float64 {
	if n <= 0 {
		return nil
	}
	lowMel := ms.HzToMel(fmin)
	highMel := ms.HzToMel(fmax)

	freqs := make([]float64, n)
	if n == 1 {
		freqs[0] = ms.MelToHz(lowMel)
		return freqs
	}
	step := (highMel - lowMel) / float64(n-1)
	for i := range freqs {
		freqs[i] = ms.MelToHz(lowMel + float64(i)*step)
	}
	return freqs
}

// FilterBankConfig describes a mel filter bank over a one-sided FFT spectrum.
type FilterBankConfig struct {
	NumFilters int
	NFFT       int
	SampleRate int
	FMin       float64
	FMax       float64 // <= 0 means SampleRate/2
	// SlaneyNorm divides each triangle by its bandwidth so every filter has
	// roughly constant energy per channel.
	SlaneyNorm bool
}

// CreateFilterBank returns a NumFilters x (NFFT/2+1) weight matrix. Triangle
// edges are placed at continuous frequencies rather than rounded FFT bins.
func (ms *MelScale) CreateFilterBank(cfg FilterBankConfig) ([][]float64, error) {
	if cfg.NumFilters <= 0 || cfg.NFFT <= 0 || cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid filter bank config: filters=%d n_fft=%d sr=%d",
			cfg.NumFilters, cfg.NFFT, cfg.SampleRate)
	}

	nyquist := float64(cfg.SampleRate) / 2
	fmax := cfg.FMax
	if fmax <= 0 {
		fmax = nyquist
	}
	if cfg.FMin < 0 || cfg.FMin >= fmax {
		return nil, fmt.Errorf("invalid frequency range [%g, %g]", cfg.FMin, fmax)
	}

	bins := cfg.NFFT/2 + 1
	fftFreqs := make([]float64, bins)
	for k := range bins {
		fftFreqs[k] = float64(k) * float64(cfg.SampleRate) / float64(cfg.NFFT)
	}

	melF := ms.MelFrequencies(cfg.NumFilters+2, cfg.FMin, fmax)

	weights := make([][]float64, cfg.NumFilters)
	for m := range cfg.NumFilters {
		weights[m] = make([]float64, bins)
		lowerWidth := melF[m+1] - melF[m]
		upperWidth := melF[m+2] - melF[m+1]

		for k, f := range fftFreqs {
			lower := (f - melF[m]) / lowerWidth
			upper := (melF[m+2] - f) / upperWidth
			weights[m][k] = math.Max(0, math.Min(lower, upper))
		}

		if cfg.SlaneyNorm {
			enorm := 2.0 / (melF[m+2] - melF[m])
			for k := range weights[m] {
				weights[m][k] *= enorm
			}
		}
	}

	return weights, nil
}

// ApplyFilterBank projects one spectrum frame onto the filter bank
func (ms *MelScale) ApplyFilterBank(spectrum []float64, filterBank [][]float64) []float64 {
	if len(filterBank) == 0 || len(spectrum) == 0 {
		return []float64{}
	}

	melSpectrum := make([]float64, len(filterBank))
	for i, filter := range filterBank {
		sum := 0.0
		for j := 0; j < len(filter) && j < len(spectrum); j++ {
			sum += spectrum[j] * filter[j]
		}
		melSpectrum[i] = sum
	}

	return melSpectrum
}
