package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RyanBlaney/egmd-prep/algorithms/windowing"
	"github.com/RyanBlaney/egmd-prep/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	if err := c.validateSpectrogram(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DatasetRoot == "" {
		return errors.New("paths.dataset_root must be set (or export EGMD_ROOT)")
	}
	return nil
}

func (c *Config) validateSplit() error {
	seen := make(map[string]string, 3)
	for key, dir := range map[string]string{
		"split.test_dir":       c.Split.TestDir,
		"split.train_dir":      c.Split.TrainDir,
		"split.validation_dir": c.Split.ValidationDir,
	} {
		if strings.ContainsAny(dir, `/\`) || dir == "." || dir == ".." {
			return fmt.Errorf("%s must be a single folder name, got %q", key, dir)
		}
		if other, ok := seen[dir]; ok {
			return fmt.Errorf("%s and %s both use folder %q", other, key, dir)
		}
		seen[dir] = key
	}
	return nil
}

func (c *Config) validateSpectrogram() error {
	if err := c.SpectrogramConfig().Validate(); err != nil {
		return fmt.Errorf("spectrogram: %w", err)
	}
	if _, err := windowing.New(c.Spectrogram.Window, c.Spectrogram.WinLength, false); err != nil {
		return fmt.Errorf("spectrogram.window: %w", err)
	}
	return nil
}
