package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Normalize expands paths and fills derived defaults.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSplit()
	c.normalizeSpectrogram()
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DatasetRoot, err = expandPath(strings.TrimSpace(c.Paths.DatasetRoot)); err != nil {
		return fmt.Errorf("paths.dataset_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.MetadataCSV) == "" && c.Paths.DatasetRoot != "" {
		c.Paths.MetadataCSV = filepath.Join(c.Paths.DatasetRoot, defaultMetadataName)
	}
	if c.Paths.MetadataCSV, err = expandPath(strings.TrimSpace(c.Paths.MetadataCSV)); err != nil {
		return fmt.Errorf("paths.metadata_csv: %w", err)
	}
	return nil
}

func (c *Config) normalizeSplit() {
	trimOr := func(value, fallback string) string {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
		return fallback
	}
	c.Split.TestDir = trimOr(c.Split.TestDir, defaultTestDir)
	c.Split.TrainDir = trimOr(c.Split.TrainDir, defaultTrainDir)
	c.Split.ValidationDir = trimOr(c.Split.ValidationDir, defaultValidationDir)
}

func (c *Config) normalizeSpectrogram() {
	s := &c.Spectrogram
	s.Window = strings.ToLower(strings.TrimSpace(s.Window))
	if s.Window == "" {
		s.Window = defaultWindow
	}
	s.Format = strings.ToLower(strings.TrimSpace(s.Format))
	if s.Format == "" {
		s.Format = defaultImageFormat
	}
	s.MelDB = strings.ToLower(strings.TrimSpace(s.MelDB))
	if s.MelDB == "" {
		s.MelDB = defaultMelDB
	}
	if s.WinLength == 0 {
		s.WinLength = s.NFFT
	}
}
