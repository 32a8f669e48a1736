package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/egmd-prep/dataset"
	"github.com/RyanBlaney/egmd-prep/logging"
)

func newCountCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count audio and MIDI files under the dataset root",
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

			root := cfg.Paths.DatasetRoot
			out := cmd.OutOrStdout()
			for _, kind := range kinds {
				total, err := dataset.Count(root, kind, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Number of .%s files %d\n", kind, total)

				for _, dir := range splitDirs(cfg) {
					n, err := countIn(filepath.Join(root, dir), kind)
					if err != nil {
						return err
					}
					if n > 0 {
						fmt.Fprintf(out, "  %-10s %d\n", dir, n)
					}
				}
			}

			meta, err := dataset.LoadMetadata(cfg.Paths.MetadataCSV)
			if err != nil {
				ctx.log().Warn("Metadata unavailable, skipping split totals", logging.Fields{
					"file":  cfg.Paths.MetadataCSV,
					"error": err.Error(),
				})
				return nil
			}
			counts := meta.SplitCounts()
			fmt.Fprintf(out, "Metadata rows %d\n", meta.Len())
			for _, split := range dataset.KnownSplits {
				fmt.Fprintf(out, "  %-10s %d\n", split, counts[split])
			}
			if other := meta.Len() - counts[dataset.SplitTest] - counts[dataset.SplitTrain] - counts[dataset.SplitValidation]; other > 0 {
				fmt.Fprintf(out, "  %-10s %d\n", "other", other)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "all", "File kind to count: wav, midi or all")
	return cmd
}

// countIn counts files of kind below dir; a missing dir counts zero.
func countIn(dir string, kind dataset.Kind) (int, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	return dataset.Count(dir, kind, nil)
}
