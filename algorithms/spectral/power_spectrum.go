package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum squares magnitudes and converts spectrograms to decibels.
type PowerSpectrum struct{}

// NewPowerSpectrum creates a new power spectrum calculator
func NewPowerSpectrum() *PowerSpectrum {
	return &PowerSpectrum{}
}

// Compute computes the power spectrum of one magnitude frame
func (ps *PowerSpectrum) Compute(magnitudeSpectrum []float64) []float64 {
	power := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		power[i] = mag * mag
	}
	return power
}

// DBConfig controls decibel conversion. Ref <= 0 means "relative to the
// matrix maximum" (librosa ref=np.max). TopDB <= 0 disables clipping.
type DBConfig struct {
	Ref   float64
	AMin  float64
	TopDB float64
}

// DefaultAmplitudeDB returns librosa.amplitude_to_db defaults with ref=max.
func DefaultAmplitudeDB() DBConfig {
	return DBConfig{AMin: 1e-5, TopDB: 80}
}

// DefaultPowerDB returns librosa.power_to_db defaults with ref=max.
func DefaultPowerDB() DBConfig {
	return DBConfig{AMin: 1e-10, TopDB: 80}
}

// MatrixMax returns the largest value of a frame matrix (0 for empty input).
func MatrixMax(matrix [][]float64) float64 {
	maxVal := math.Inf(-1)
	for _, row := range matrix {
		if len(row) == 0 {
			continue
		}
		maxVal = math.Max(maxVal, floats.Max(row))
	}
	if math.IsInf(maxVal, -1) {
		return 0
	}
	return maxVal
}

// PowerToDB converts a power spectrogram to dB:
// 10*log10(max(amin, S)) - 10*log10(max(amin, ref)), floored at max - top_db.
func (ps *PowerSpectrum) PowerToDB(power [][]float64, cfg DBConfig) [][]float64 {
	return toDB(power, cfg, 10)
}

// AmplitudeToDB converts a magnitude spectrogram to dB using 20*log10.
func (ps *PowerSpectrum) AmplitudeToDB(magnitude [][]float64, cfg DBConfig) [][]float64 {
	return toDB(magnitude, cfg, 20)
}

func toDB(matrix [][]float64, cfg DBConfig, scale float64) [][]float64 {
	amin := cfg.AMin
	if amin <= 0 {
		amin = 1e-10
	}

	ref := cfg.Ref
	if ref <= 0 {
		ref = MatrixMax(matrix)
	}
	refDB := scale * math.Log10(math.Max(amin, ref))

	out := make([][]float64, len(matrix))
	peak := math.Inf(-1)
	for t, row := range matrix {
		out[t] = make([]float64, len(row))
		for k, v := range row {
			db := scale*math.Log10(math.Max(amin, v)) - refDB
			out[t][k] = db
			peak = math.Max(peak, db)
		}
	}

	if cfg.TopDB > 0 && !math.IsInf(peak, -1) {
		floor := peak - cfg.TopDB
		for _, row := range out {
			for k, v := range row {
				row[k] = math.Max(v, floor)
			}
		}
	}

	return out
}
