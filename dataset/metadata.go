package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RyanBlaney/egmd-prep/logging"
)

var (
	// ErrNotInMetadata is returned when a file has no row in the metadata table.
	ErrNotInMetadata = errors.New("file not listed in metadata")
	// ErrMissingColumn is returned when the metadata header lacks a required column.
	ErrMissingColumn = errors.New("metadata column missing")
)

// Metadata column names.
const (
	ColumnDrummer       = "drummer"
	ColumnSession       = "session"
	ColumnID            = "id"
	ColumnStyle         = "style"
	ColumnBPM           = "bpm"
	ColumnBeatType      = "beat_type"
	ColumnTimeSignature = "time_signature"
	ColumnDuration      = "duration"
	ColumnSplit         = "split"
	ColumnMIDIFilename  = "midi_filename"
	ColumnAudioFilename = "audio_filename"
	ColumnKitName       = "kit_name"
)

var requiredColumns = []string{ColumnSplit, ColumnMIDIFilename, ColumnAudioFilename}

// Record is one row of the metadata table.
type Record struct {
	Drummer       string
	Session       string
	ID            string
	Style         string
	BPM           int
	BeatType      string
	TimeSignature string
	Duration      float64
	Split         Split
	MIDIFilename  string
	AudioFilename string
	KitName       string
}

// Metadata holds the parsed table and lookup indexes keyed by relative path.
type Metadata struct {
	Records    []Record
	byMIDI     map[string]int
	byAudio    map[string]int
	Duplicates int // rows whose audio or MIDI key repeats an earlier row
}

// LoadMetadata reads the metadata CSV at path.
func LoadMetadata(path string) (*Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer file.Close()

	meta, err := ReadMetadata(file)
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}
	return meta, nil
}

// ReadMetadata parses a metadata CSV with a header row. Only split,
// midi_filename and audio_filename are required.
func ReadMetadata(r io.Reader) (*Metadata, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "metadata",
		"function":  "ReadMetadata",
	})

	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty metadata table")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	meta := &Metadata{
		byMIDI:  make(map[string]int),
		byAudio: make(map[string]int),
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		record, err := parseRecord(row, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		idx := len(meta.Records)
		meta.Records = append(meta.Records, record)
		dupMIDI := meta.index(meta.byMIDI, record.MIDIFilename, idx, logger)
		dupAudio := meta.index(meta.byAudio, record.AudioFilename, idx, logger)
		if dupMIDI || dupAudio {
			meta.Duplicates++
		}
	}

	logger.Debug("Metadata loaded", logging.Fields{
		"records":    len(meta.Records),
		"duplicates": meta.Duplicates,
	})

	return meta, nil
}

// index keeps the first row for a key and reports whether key was already taken.
func (m *Metadata) index(idx map[string]int, key string, row int, logger logging.Logger) bool {
	key = normalizeKey(key)
	if key == "" {
		return false
	}
	if first, ok := idx[key]; ok {
		logger.Debug("Duplicate metadata key", logging.Fields{
			"key":       key,
			"first_row": first,
			"row":       row,
		})
		return true
	}
	idx[key] = row
	return false
}

func parseRecord(row []string, columns map[string]int) (Record, error) {
	get := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	record := Record{
		Drummer:       get(ColumnDrummer),
		Session:       get(ColumnSession),
		ID:            get(ColumnID),
		Style:         get(ColumnStyle),
		BeatType:      get(ColumnBeatType),
		TimeSignature: get(ColumnTimeSignature),
		Split:         Split(get(ColumnSplit)),
		MIDIFilename:  get(ColumnMIDIFilename),
		AudioFilename: get(ColumnAudioFilename),
		KitName:       get(ColumnKitName),
	}

	if v := get(ColumnBPM); v != "" {
		bpm, err := strconv.Atoi(v)
		if err != nil {
			return Record{}, fmt.Errorf("bpm %q: %w", v, err)
		}
		record.BPM = bpm
	}
	if v := get(ColumnDuration); v != "" {
		duration, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Record{}, fmt.Errorf("duration %q: %w", v, err)
		}
		record.Duration = duration
	}

	return record, nil
}

// Lookup returns the split of the first row whose midi_filename (for MIDI)
// or audio_filename (for audio) equals rel.
func (m *Metadata) Lookup(rel string, kind Kind) (Split, error) {
	record, err := m.Record(rel, kind)
	if err != nil {
		return "", err
	}
	return record.Split, nil
}

// Record returns the metadata row matching rel for the given kind.
func (m *Metadata) Record(rel string, kind Kind) (Record, error) {
	var idx map[string]int
	switch kind {
	case KindMIDI:
		idx = m.byMIDI
	case KindAudio:
		idx = m.byAudio
	default:
		return Record{}, fmt.Errorf("unknown file kind %v", kind)
	}

	row, ok := idx[normalizeKey(rel)]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotInMetadata, rel)
	}
	return m.Records[row], nil
}

// SplitCounts tallies records per split literal.
func (m *Metadata) SplitCounts() map[Split]int {
	counts := make(map[Split]int)
	for _, record := range m.Records {
		counts[record.Split]++
	}
	return counts
}

// Len returns the number of rows.
func (m *Metadata) Len() int {
	return len(m.Records)
}

func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	key = filepath.ToSlash(key)
	return strings.TrimPrefix(path.Clean(key), "./")
}
