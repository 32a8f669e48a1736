package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/egmd-prep/config"
	"github.com/RyanBlaney/egmd-prep/dataset"
	"github.com/RyanBlaney/egmd-prep/logging"
	"github.com/RyanBlaney/egmd-prep/progress"
)

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	logger   logging.Logger
	reporter *progress.Reporter
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if root := strings.TrimSpace(c.flags.root); root != "" {
			expanded, err := config.ExpandPath(root)
			if err != nil {
				c.configErr = fmt.Errorf("resolve --root: %w", err)
				return
			}
			// a metadata path derived from the old root follows the new one
			if cfg.Paths.MetadataCSV == defaultMetadataPath(cfg.Paths.DatasetRoot) {
				cfg.Paths.MetadataCSV = defaultMetadataPath(expanded)
			}
			cfg.Paths.DatasetRoot = expanded
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// setupLogger installs the global logger from flags and config. Flags win.
func (c *commandContext) setupLogger(cmd *cobra.Command, cfg *config.Config) error {
	levelValue := c.flags.logLevel
	useColors := !c.flags.noColor
	if cfg != nil {
		if levelValue == "" {
			levelValue = cfg.Logging.Level
		}
		useColors = useColors && cfg.Logging.Color
	}

	level, err := logging.ParseLevel(levelValue)
	if err != nil {
		return err
	}

	c.reporter = progress.New(!c.flags.noProgress && !c.flags.quiet)

	var logger logging.Logger
	if c.flags.quiet {
		logger = &logging.NoOpLogger{}
	} else {
		out := cmd.OutOrStdout()
		colored := useColors && isTerminalWriter(out)
		if isTerminalWriter(out) {
			out = c.reporter.LogWriter(out)
		}
		logger = logging.NewWriterLogger(out, c.reporter.LogWriter(cmd.ErrOrStderr()), colored)
	}
	logger.SetLevel(level)
	logger = logger.WithContext(logging.ContextWithFields(cmd.Context(), logging.Fields{"command": cmd.Name()}))
	logging.SetGlobalLogger(logger)
	c.logger = logger
	return nil
}

func (c *commandContext) log() logging.Logger {
	if c.logger == nil {
		return logging.GetGlobalLogger()
	}
	return c.logger
}

// progressFactory adapts the terminal reporter to the dataset progress hook.
func (c *commandContext) progressFactory() dataset.ProgressFactory {
	reporter := c.reporter
	if !reporter.Enabled() {
		return dataset.NoProgress
	}
	return func(description string, total int) dataset.Progress {
		return reporter.Start(description, total)
	}
}

func (c *commandContext) loadMetadata(cfg *config.Config) (*dataset.Metadata, error) {
	meta, err := dataset.LoadMetadata(cfg.Paths.MetadataCSV)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	c.log().Info("Loaded metadata", logging.Fields{
		"file": cfg.Paths.MetadataCSV,
		"rows": meta.Len(),
	})
	return meta, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
