package spectral

import (
	"fmt"
	"math/cmplx"
)

// STFT provides Short-Time Fourier Transform functionality
type STFT struct {
	fft *FFT
}

// STFTConfig mirrors librosa.stft parameters.
type STFTConfig struct {
	NFFT      int  // FFT size; also the frame length after window padding
	HopLength int  // samples between successive frames
	WinLength int  // window length, <= NFFT; 0 means NFFT
	Center    bool // pad NFFT/2 reflected samples on both ends so frame t is centered at t*hop
}

// DefaultSTFTConfig returns the E-GMD rendering parameters (n_fft 2048, hop 256, win 2048).
func DefaultSTFTConfig() STFTConfig {
	return STFTConfig{
		NFFT:      2048,
		HopLength: 256,
		WinLength: 2048,
		Center:    true,
	}
}

// STFTResult holds the result of STFT analysis
type STFTResult struct {
	Magnitude      [][]float64    `json:"magnitude"`       // Time x Frequency magnitude matrix
	TimeFrames     int            `json:"time_frames"`     // Number of time frames
	FreqBins       int            `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int            `json:"sample_rate"`     // Sample rate
	WindowSize     int            `json:"window_size"`     // FFT size
	HopSize        int            `json:"hop_size"`        // Hop size between frames
	FreqResolution float64        `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64        `json:"time_resolution"` // Time resolution (seconds/frame)
}

// Window interface for windowing functions
type Window interface {
	ApplyInPlace(signal []float64) error
	GetSize() int
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{
		fft: NewFFT(),
	}
}

func (c STFTConfig) validate() error {
	if c.NFFT <= 0 {
		return fmt.Errorf("n_fft must be positive")
	}
	if c.HopLength <= 0 {
		return fmt.Errorf("hop length must be positive")
	}
	if c.WinLength < 0 || c.WinLength > c.NFFT {
		return fmt.Errorf("win length %d must be within [1, n_fft=%d]", c.WinLength, c.NFFT)
	}
	return nil
}

// Compute runs the STFT over signal. The window must have WinLength
// coefficients; it is zero-padded to NFFT and centered inside each frame.
func (s *STFT) Compute(signal []float64, sampleRate int, cfg STFTConfig, window Window) (*STFTResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	winLength := cfg.WinLength
	if winLength == 0 {
		winLength = cfg.NFFT
	}
	if window != nil && window.GetSize() != winLength {
		return nil, fmt.Errorf("window size %d doesn't match win length %d", window.GetSize(), winLength)
	}

	padded := signal
	if cfg.Center {
		padded = ReflectPad(signal, cfg.NFFT/2)
	}

	if len(padded) < cfg.NFFT {
		return nil, fmt.Errorf("signal too short (%d samples) for n_fft %d", len(signal), cfg.NFFT)
	}

	numFrames := 1 + (len(padded)-cfg.NFFT)/cfg.HopLength
	freqBins := cfg.NFFT/2 + 1
	winOffset := (cfg.NFFT - winLength) / 2

	magnitude := make([][]float64, numFrames)

	frame := make([]float64, cfg.NFFT)
	segment := make([]float64, winLength)

	for t := range numFrames {
		start := t * cfg.HopLength

		copy(segment, padded[start+winOffset:start+winOffset+winLength])
		if window != nil {
			if err := window.ApplyInPlace(segment); err != nil {
				return nil, fmt.Errorf("frame %d: %w", t, err)
			}
		}

		clear(frame)
		copy(frame[winOffset:], segment)

		bins := s.fft.ComputeOneSided(frame)
		magnitude[t] = make([]float64, freqBins)
		for k := range freqBins {
			magnitude[t][k] = cmplx.Abs(bins[k])
		}
	}

	return &STFTResult{
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     cfg.NFFT,
		HopSize:        cfg.HopLength,
		FreqResolution: float64(sampleRate) / float64(cfg.NFFT),
		TimeResolution: float64(cfg.HopLength) / float64(sampleRate),
	}, nil
}

// ReflectPad extends signal by pad samples on each side, mirroring around the
// first and last sample without repeating them (numpy "reflect" mode).
// Signals shorter than pad are reflected repeatedly.
func ReflectPad(signal []float64, pad int) []float64 {
	n := len(signal)
	if pad <= 0 || n == 0 {
		out := make([]float64, n)
		copy(out, signal)
		return out
	}

	out := make([]float64, n+2*pad)
	for i := range out {
		out[i] = signal[reflectIndex(i-pad, n)]
	}
	return out
}

func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}
