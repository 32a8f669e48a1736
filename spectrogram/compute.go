package spectrogram

import (
	"fmt"

	"github.com/RyanBlaney/egmd-prep/algorithms/spectral"
	"github.com/RyanBlaney/egmd-prep/algorithms/windowing"
	"github.com/RyanBlaney/egmd-prep/transcode"
)

// Matrix is a dB spectrogram laid out time x frequency.
type Matrix struct {
	Type       Type
	Values     [][]float64
	SampleRate int
	HopLength  int
}

// Frames returns the number of time frames.
func (m *Matrix) Frames() int {
	return len(m.Values)
}

// Bins returns the number of frequency rows (FFT bins or mel bands).
func (m *Matrix) Bins() int {
	if len(m.Values) == 0 {
		return 0
	}
	return len(m.Values[0])
}

// Analyzer turns decoded audio into dB spectrograms.
type Analyzer struct {
	cfg    Config
	stft   *spectral.STFT
	mel    *spectral.MelScale
	power  *spectral.PowerSpectrum
	window *windowing.Window

	// filter banks depend on the sample rate; the corpus is nearly uniform
	filterBanks map[int][][]float64
}

// NewAnalyzer validates cfg and prepares the analysis window.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	winLength := cfg.STFT.WinLength
	if winLength == 0 {
		winLength = cfg.STFT.NFFT
	}
	window, err := windowing.New(cfg.Window, winLength, false)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		cfg:         cfg,
		stft:        spectral.NewSTFT(),
		mel:         spectral.NewMelScale(false),
		power:       spectral.NewPowerSpectrum(),
		window:      window,
		filterBanks: make(map[int][][]float64),
	}, nil
}

// Compute builds the requested spectrogram.
// Mag: amplitude_to_db(|STFT|, ref=max). Mel: mel(|STFT|^2) converted with
// amplitude_to_db by default, or power_to_db when MelDB is "power".
func (a *Analyzer) Compute(audio *transcode.AudioData, typ Type) (*Matrix, error) {
	if typ != Mel && typ != Mag {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(typ))
	}
	if audio == nil || len(audio.PCM) == 0 {
		return nil, fmt.Errorf("no audio samples")
	}
	if audio.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", audio.SampleRate)
	}

	result, err := a.stft.Compute(audio.PCM, audio.SampleRate, a.cfg.STFT, a.window)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	var values [][]float64
	switch typ {
	case Mag:
		dbCfg := spectral.DefaultAmplitudeDB()
		dbCfg.TopDB = a.cfg.TopDB
		values = a.power.AmplitudeToDB(result.Magnitude, dbCfg)
	case Mel:
		bank, err := a.filterBank(audio.SampleRate)
		if err != nil {
			return nil, err
		}
		melPower := make([][]float64, result.TimeFrames)
		for t, frame := range result.Magnitude {
			melPower[t] = a.mel.ApplyFilterBank(a.power.Compute(frame), bank)
			result.Magnitude[t] = nil
		}
		if a.cfg.MelDB == MelDBPower {
			dbCfg := spectral.DefaultPowerDB()
			dbCfg.TopDB = a.cfg.TopDB
			values = a.power.PowerToDB(melPower, dbCfg)
		} else {
			dbCfg := spectral.DefaultAmplitudeDB()
			dbCfg.TopDB = a.cfg.TopDB
			values = a.power.AmplitudeToDB(melPower, dbCfg)
		}
	}

	return &Matrix{
		Type:       typ,
		Values:     values,
		SampleRate: audio.SampleRate,
		HopLength:  a.cfg.STFT.HopLength,
	}, nil
}

func (a *Analyzer) filterBank(sampleRate int) ([][]float64, error) {
	if bank, ok := a.filterBanks[sampleRate]; ok {
		return bank, nil
	}

	bank, err := a.mel.CreateFilterBank(spectral.FilterBankConfig{
		NumFilters: a.cfg.NumMels,
		NFFT:       a.cfg.STFT.NFFT,
		SampleRate: sampleRate,
		FMin:       a.cfg.FMin,
		FMax:       a.cfg.FMax,
		SlaneyNorm: true,
	})
	if err != nil {
		return nil, fmt.Errorf("mel filter bank: %w", err)
	}
	a.filterBanks[sampleRate] = bank
	return bank, nil
}
