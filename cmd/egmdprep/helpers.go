package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/RyanBlaney/egmd-prep/config"
)

func defaultMetadataPath(root string) string {
	return filepath.Join(root, "e-gmd-v1.0.0.csv")
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func splitDirs(cfg *config.Config) []string {
	return []string{cfg.Split.TestDir, cfg.Split.TrainDir, cfg.Split.ValidationDir}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
