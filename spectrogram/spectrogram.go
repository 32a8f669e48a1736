// Package spectrogram renders magnitude and mel spectrogram images of corpus audio.
package spectrogram

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RyanBlaney/egmd-prep/algorithms/spectral"
)

// ErrUnknownType is returned for spectrogram types other than Mel and Mag.
var ErrUnknownType = errors.New("input must be Mel or Mag")

// Type selects the spectrogram flavour. Its value doubles as the output
// folder name and file prefix.
type Type string

const (
	Mel Type = "Mel"
	Mag Type = "Mag"
)

// AllTypes lists every supported type.
var AllTypes = []Type{Mel, Mag}

// ParseType accepts "Mel"/"Mag" in any case.
func ParseType(value string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "mel":
		return Mel, nil
	case "mag":
		return Mag, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, value)
	}
}

// ParseTypes expands "both" to every type.
func ParseTypes(value string) ([]Type, error) {
	if v := strings.ToLower(strings.TrimSpace(value)); v == "both" || v == "all" {
		return AllTypes, nil
	}
	typ, err := ParseType(value)
	if err != nil {
		return nil, err
	}
	return []Type{typ}, nil
}

// Mel dB scales.
const (
	MelDBAmplitude = "amplitude"
	MelDBPower     = "power"
)

// Config holds analysis and rendering parameters.
type Config struct {
	STFT        spectral.STFTConfig
	Window      string
	NumMels     int
	FMin        float64
	FMax        float64 // <= 0 means sample rate / 2
	TopDB       float64
	// MelDB selects the dB conversion of the mel spectrogram: "amplitude"
	// (20*log10, amin 1e-5) or "power" (10*log10, amin 1e-10).
	MelDB string
	// MaxDuration truncates long recordings before analysis; 0 keeps everything.
	MaxDuration time.Duration
	Width       int
	Height      int
	Format      string // "jpeg" or "png"
	JPEGQuality int
}

// DefaultConfig returns the E-GMD rendering parameters: n_fft 2048, hop 256,
// 64 mel bands up to Nyquist, amplitude dB with an 80 dB range, 640x480 images.
func DefaultConfig() Config {
	return Config{
		STFT:        spectral.DefaultSTFTConfig(),
		Window:      "hann",
		NumMels:     64,
		FMin:        0,
		FMax:        0,
		TopDB:       80,
		MelDB:       MelDBAmplitude,
		Width:       640,
		Height:      480,
		Format:      "jpeg",
		JPEGQuality: 90,
	}
}

// Validate checks parameter ranges.
func (c Config) Validate() error {
	if c.STFT.NFFT <= 0 || c.STFT.HopLength <= 0 {
		return fmt.Errorf("n_fft and hop_length must be positive")
	}
	if c.STFT.WinLength < 0 || c.STFT.WinLength > c.STFT.NFFT {
		return fmt.Errorf("win_length must be within [1, n_fft]")
	}
	if c.NumMels <= 0 {
		return fmt.Errorf("n_mels must be positive")
	}
	if c.FMin < 0 || (c.FMax > 0 && c.FMax <= c.FMin) {
		return fmt.Errorf("invalid mel frequency range [%g, %g]", c.FMin, c.FMax)
	}
	if c.MelDB != MelDBAmplitude && c.MelDB != MelDBPower {
		return fmt.Errorf("mel_db must be %q or %q, got %q", MelDBAmplitude, MelDBPower, c.MelDB)
	}
	if c.MaxDuration < 0 {
		return fmt.Errorf("max duration must not be negative")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size must be positive")
	}
	if _, err := extension(c.Format); err != nil {
		return err
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be within [1, 100]")
	}
	return nil
}

func extension(format string) (string, error) {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "jpg", nil
	case "png":
		return "png", nil
	default:
		return "", fmt.Errorf("unsupported image format %q", format)
	}
}
