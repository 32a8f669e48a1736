package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/egmd-prep/dataset"
	"github.com/RyanBlaney/egmd-prep/logging"
	"github.com/RyanBlaney/egmd-prep/spectrogram"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var (
		kindFlag   string
		dryRun     bool
		verifyMIDI bool
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Move audio and MIDI files into Test/Train/Val folders using the metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			kinds, err := dataset.ParseKinds(kindFlag)
			if err != nil {
				return err
			}
			meta, err := ctx.loadMetadata(cfg)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			opts := dataset.Options{
				Root:         cfg.Paths.DatasetRoot,
				Destinations: cfg.Destinations(),
				Exclude:      []string{string(spectrogram.Mel), string(spectrogram.Mag)},
				DryRun:       cfg.Split.DryRun,
				Overwrite:    cfg.Split.Overwrite,
				VerifyMIDI:   cfg.Split.VerifyMIDI,
				Progress:     ctx.progressFactory(),
				Logger:       ctx.log(),
			}
			if flags.Changed("dry-run") {
				opts.DryRun = dryRun
			}
			if flags.Changed("verify-midi") {
				opts.VerifyMIDI = verifyMIDI
			}
			if flags.Changed("overwrite") {
				opts.Overwrite = overwrite
			}

			splitter, err := dataset.NewSplitter(meta, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var failures []error
			for _, kind := range kinds {
				report, err := splitter.Run(kind)
				if err != nil {
					return fmt.Errorf("split %s files: %w", kind, err)
				}
				fmt.Fprint(out, report.String())
				if !report.Agree() {
					ctx.log().Warn("Some files are not listed in the metadata", logging.Fields{
						"kind":      kind.String(),
						"unmatched": report.Unmatched,
					})
				}
				if err := report.Err(); err != nil {
					failures = append(failures, err)
				}
			}
			return errors.Join(failures...)
		},
	}

	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "all", "File kind to move: wav, midi or all")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would move without touching files")
	cmd.Flags().BoolVar(&verifyMIDI, "verify-midi", false, "Parse MIDI files before moving them")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace files already present in a split folder")
	return cmd
}
