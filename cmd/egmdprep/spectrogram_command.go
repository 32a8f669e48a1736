package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/egmd-prep/dataset"
	"github.com/RyanBlaney/egmd-prep/logging"
	"github.com/RyanBlaney/egmd-prep/spectrogram"
)

func newSpectrogramCommand(ctx *commandContext) *cobra.Command {
	var (
		typeFlag  string
		splitFlag string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "spectrogram",
		Short: "Render Mel or magnitude spectrogram images for corpus audio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			types, err := spectrogram.ParseTypes(typeFlag)
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			root := cfg.Paths.DatasetRoot
			searchRoot := root
			if strings.TrimSpace(splitFlag) != "" {
				dir, err := resolveSplitDir(cfg.Destinations(), splitFlag)
				if err != nil {
					return err
				}
				searchRoot = filepath.Join(root, dir)
				if _, err := os.Stat(searchRoot); err != nil {
					return fmt.Errorf("split folder %s: %w", searchRoot, err)
				}
			}

			exclude := make([]string, 0, len(spectrogram.AllTypes))
			for _, typ := range spectrogram.AllTypes {
				exclude = append(exclude, string(typ))
			}
			files, err := dataset.Discover(searchRoot, dataset.KindAudio, exclude)
			if err != nil {
				return err
			}
			if limit > 0 && len(files) > limit {
				files = files[:limit]
			}

			logger := ctx.log()
			if len(files) == 0 {
				logger.Warn("No audio files found", logging.Fields{"root": searchRoot})
				return nil
			}

			generator, err := spectrogram.NewGenerator(root, cfg.SpectrogramConfig(), logger)
			if err != nil {
				return err
			}

			result := generator.GenerateAll(files, types, ctx.progressFactory())
			fmt.Fprintf(cmd.OutOrStdout(), "Spectrograms written %d, failed %d\n", result.Written, result.Failed)
			if result.Failed > 0 {
				return fmt.Errorf("%d spectrograms failed", result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "both", "Spectrogram type: Mel, Mag or both")
	cmd.Flags().StringVarP(&splitFlag, "split", "s", "", "Only render files in one split folder (Test, Train, Val)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Render at most N files (0 renders all)")
	return cmd
}

// resolveSplitDir accepts a split literal ("test") or its folder name ("Test").
func resolveSplitDir(destinations map[dataset.Split]string, value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, split := range dataset.KnownSplits {
		dir := destinations[split]
		if strings.EqualFold(value, string(split)) || strings.EqualFold(value, dir) {
			return dir, nil
		}
	}
	return "", errors.New("unknown split " + value + " (want test, train or validation)")
}
