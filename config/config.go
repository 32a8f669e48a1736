package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/RyanBlaney/egmd-prep/algorithms/spectral"
	"github.com/RyanBlaney/egmd-prep/dataset"
	"github.com/RyanBlaney/egmd-prep/spectrogram"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the corpus.
type Paths struct {
	DatasetRoot string `toml:"dataset_root"`
	// MetadataCSV defaults to <dataset_root>/e-gmd-v1.0.0.csv
	MetadataCSV string `toml:"metadata_csv"`
}

// Split controls the move pass.
type Split struct {
	TestDir       string `toml:"test_dir"`
	TrainDir      string `toml:"train_dir"`
	ValidationDir string `toml:"validation_dir"`
	Overwrite     bool   `toml:"overwrite"`
	VerifyMIDI    bool   `toml:"verify_midi"`
	DryRun        bool   `toml:"dry_run"`
}

// Spectrogram controls image rendering.
type Spectrogram struct {
	NFFT        int     `toml:"n_fft"`
	HopLength   int     `toml:"hop_length"`
	WinLength   int     `toml:"win_length"`
	Window      string  `toml:"window"`
	NumMels     int     `toml:"n_mels"`
	FMin        float64 `toml:"fmin"`
	FMax        float64 `toml:"fmax"` // 0 means Nyquist
	TopDB       float64 `toml:"top_db"`
	MelDB       string  `toml:"mel_db"`      // "amplitude" or "power"
	MaxSeconds  float64 `toml:"max_seconds"` // 0 renders the whole file
	Format      string  `toml:"format"`
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	JPEGQuality int     `toml:"jpeg_quality"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level string `toml:"level"`
	Color bool   `toml:"color"`
}

// Config encapsulates all configuration values for egmd-prep.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Split       Split       `toml:"split"`
	Spectrogram Spectrogram `toml:"spectrogram"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/egmd-prep/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if root, ok := os.LookupEnv("EGMD_ROOT"); ok && strings.TrimSpace(root) != "" {
		cfg.Paths.DatasetRoot = root
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("egmd-prep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// SampleConfig returns the commented sample written by `config init`.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b)
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Destinations maps splits to their folder names.
func (c *Config) Destinations() map[dataset.Split]string {
	return map[dataset.Split]string{
		dataset.SplitTest:       c.Split.TestDir,
		dataset.SplitTrain:      c.Split.TrainDir,
		dataset.SplitValidation: c.Split.ValidationDir,
	}
}

// SpectrogramConfig converts the [spectrogram] section for the renderer.
func (c *Config) SpectrogramConfig() spectrogram.Config {
	s := c.Spectrogram
	return spectrogram.Config{
		STFT: spectral.STFTConfig{
			NFFT:      s.NFFT,
			HopLength: s.HopLength,
			WinLength: s.WinLength,
			Center:    true,
		},
		Window:      s.Window,
		NumMels:     s.NumMels,
		FMin:        s.FMin,
		FMax:        s.FMax,
		TopDB:       s.TopDB,
		MelDB:       s.MelDB,
		MaxDuration: time.Duration(s.MaxSeconds * float64(time.Second)),
		Width:       s.Width,
		Height:      s.Height,
		Format:      s.Format,
		JPEGQuality: s.JPEGQuality,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
