package main

import (
	"github.com/spf13/cobra"
)

type globalFlags struct {
	config     string
	root       string
	logLevel   string
	noColor    bool
	noProgress bool
	quiet      bool
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "egmdprep",
		Short:         "Prepare the E-GMD dataset: split folders and spectrogram images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return ctx.setupLogger(cmd, nil)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.setupLogger(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pf.StringVarP(&flags.root, "root", "r", "", "Dataset root (overrides paths.dataset_root)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored log output")
	pf.BoolVar(&flags.noProgress, "no-progress", false, "Disable progress bars")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress log output")

	rootCmd.AddCommand(newCountCommand(ctx))
	rootCmd.AddCommand(newSplitCommand(ctx))
	rootCmd.AddCommand(newSpectrogramCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
