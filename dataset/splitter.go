package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/egmd-prep/logging"
)

// DefaultDestinations maps each split to the folder the corpus convention uses.
func DefaultDestinations() map[Split]string {
	return map[Split]string{
		SplitTest:       "Test",
		SplitTrain:      "Train",
		SplitValidation: "Val",
	}
}

// Options configures a Splitter.
type Options struct {
	Root         string
	Destinations map[Split]string // folder names under Root; defaults to DefaultDestinations
	Exclude      []string         // extra top-level folders to skip during discovery
	DryRun       bool
	Overwrite    bool
	VerifyMIDI   bool
	Progress     ProgressFactory
	Logger       logging.Logger
}

// Entry is one discovered file with its metadata key.
type Entry struct {
	Path  string
	Rel   string
	Split Split
}

// Plan is the outcome of the classification pass.
type Plan struct {
	Kind       Kind
	Discovered int
	Buckets    map[Split][]Entry
	Other      []Entry // listed with a split literal other than test/train/validation
	Unmatched  []Entry // not listed in the metadata at all
}

// Classified returns how many files landed in a known split bucket.
func (p *Plan) Classified() int {
	total := 0
	for _, entries := range p.Buckets {
		total += len(entries)
	}
	return total
}

// Splitter moves corpus files into split folders.
type Splitter struct {
	meta   *Metadata
	opts   Options
	logger logging.Logger
}

// NewSplitter validates options and returns a Splitter.
func NewSplitter(meta *Metadata, opts Options) (*Splitter, error) {
	if meta == nil {
		return nil, fmt.Errorf("metadata is required")
	}
	if strings.TrimSpace(opts.Root) == "" {
		return nil, fmt.Errorf("dataset root is required")
	}
	opts.Root = filepath.Clean(opts.Root)

	if len(opts.Destinations) == 0 {
		opts.Destinations = DefaultDestinations()
	}
	for _, split := range KnownSplits {
		dir := opts.Destinations[split]
		if strings.TrimSpace(dir) == "" {
			return nil, fmt.Errorf("no destination folder for split %q", split)
		}
		if strings.ContainsAny(dir, `/\`) {
			return nil, fmt.Errorf("destination for split %q must be a single folder name, got %q", split, dir)
		}
	}
	if opts.Progress == nil {
		opts.Progress = NoProgress
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Splitter{
		meta:   meta,
		opts:   opts,
		logger: logger.WithFields(logging.Fields{"component": "splitter"}),
	}, nil
}

// ExcludedDirs returns the top-level folders discovery skips: the split
// destinations plus any configured extras.
func (s *Splitter) ExcludedDirs() []string {
	dirs := make([]string, 0, len(KnownSplits)+len(s.opts.Exclude))
	for _, split := range KnownSplits {
		dirs = append(dirs, s.opts.Destinations[split])
	}
	return append(dirs, s.opts.Exclude...)
}

// Destination returns where a file with the given relative key and split is moved.
func (s *Splitter) Destination(rel string, split Split) string {
	return filepath.Join(s.opts.Root, s.opts.Destinations[split], FlattenName(rel))
}

// Run discovers, classifies and moves every file of kind.
func (s *Splitter) Run(kind Kind) (*Report, error) {
	files, err := Discover(s.opts.Root, kind, s.ExcludedDirs())
	if err != nil {
		return nil, err
	}
	s.logger.Info(fmt.Sprintf("Number of .%s files %d", kind, len(files)), logging.Fields{"root": s.opts.Root})

	plan, err := s.Classify(files, kind)
	if err != nil {
		return nil, err
	}
	return s.Execute(plan)
}

// Classify looks every file up in the metadata and buckets it by split.
func (s *Splitter) Classify(files []string, kind Kind) (*Plan, error) {
	plan := &Plan{
		Kind:       kind,
		Discovered: len(files),
		Buckets:    make(map[Split][]Entry, len(KnownSplits)),
	}

	bar := s.opts.Progress("Checking for test/train/val", len(files))
	defer bar.Done()

	for _, path := range files {
		rel, err := RelativeKey(s.opts.Root, path)
		if err != nil {
			return nil, err
		}

		entry := Entry{Path: path, Rel: rel}
		split, err := s.meta.Lookup(rel, kind)
		switch {
		case errors.Is(err, ErrNotInMetadata):
			s.logger.Warn("File not in metadata, leaving in place", logging.Fields{"file": rel})
			plan.Unmatched = append(plan.Unmatched, entry)
		case err != nil:
			return nil, err
		case !split.Known():
			entry.Split = split
			s.logger.Warn("Unrecognized split, leaving in place", logging.Fields{"file": rel, "split": string(split)})
			plan.Other = append(plan.Other, entry)
		default:
			entry.Split = split
			plan.Buckets[split] = append(plan.Buckets[split], entry)
		}
		bar.Increment()
	}

	s.logger.Info("Classification finished", logging.Fields{
		"kind":       kind.String(),
		"discovered": plan.Discovered,
		"classified": plan.Classified(),
		"other":      len(plan.Other),
		"unmatched":  len(plan.Unmatched),
	})

	return plan, nil
}

// Execute moves the planned files split by split (test, train, validation).
// Per-file failures are counted and logged; they do not stop the run.
func (s *Splitter) Execute(plan *Plan) (*Report, error) {
	report := newReport(plan)
	report.DryRun = s.opts.DryRun

	for _, split := range KnownSplits {
		entries := plan.Buckets[split]
		dir := filepath.Join(s.opts.Root, s.opts.Destinations[split])

		if len(entries) > 0 && !s.opts.DryRun {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return report, fmt.Errorf("create %s: %w", dir, err)
			}
		}

		bar := s.opts.Progress(fmt.Sprintf("Moving %s files", split), len(entries))
		for _, entry := range entries {
			s.moveEntry(plan.Kind, entry, report)
			bar.Increment()
		}
		bar.Done()

		verb := "Done moving"
		if s.opts.DryRun {
			verb = "Would move"
		}
		s.logger.Info(fmt.Sprintf("%s %d %s files", verb, report.Moved[split], split), logging.Fields{"dir": dir})
	}

	return report, nil
}

func (s *Splitter) moveEntry(kind Kind, entry Entry, report *Report) {
	dst := s.Destination(entry.Rel, entry.Split)
	fields := logging.Fields{"file": entry.Rel, "dest": dst}

	if kind == KindMIDI && s.opts.VerifyMIDI {
		if err := verifyMIDI(entry.Path); err != nil {
			s.logger.Error(err, "MIDI verification failed, leaving in place", fields)
			report.fail(entry, err)
			return
		}
	}

	if !s.opts.Overwrite {
		if _, err := os.Stat(dst); err == nil {
			s.logger.Warn("Destination exists, skipping", fields)
			report.Skipped++
			return
		} else if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Error(err, "Cannot stat destination", fields)
			report.fail(entry, err)
			return
		}
	}

	if s.opts.DryRun {
		s.logger.Debug("Would move file", fields)
		report.Moved[entry.Split]++
		return
	}

	if err := moveFile(entry.Path, dst); err != nil {
		s.logger.Error(err, "Move failed", fields)
		report.fail(entry, err)
		return
	}

	s.logger.Debug("Moved file", fields)
	report.Moved[entry.Split]++
}
