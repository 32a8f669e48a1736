package testsupport

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MetadataHeader is the column layout of e-gmd-v1.0.0.csv.
var MetadataHeader = []string{
	"drummer", "session", "id", "style", "bpm", "beat_type",
	"time_signature", "duration", "split", "midi_filename",
	"audio_filename", "kit_name",
}

// MetadataRow describes one recording for WriteMetadata.
type MetadataRow struct {
	Split string
	MIDI  string
	Audio string
}

// WriteMetadata writes an E-GMD style metadata CSV to path.
func WriteMetadata(t testing.TB, path string, rows ...MetadataRow) {
	t.Helper()

	mkdirFor(t, path)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(MetadataHeader); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i, row := range rows {
		record := []string{
			"drummer1", "drummer1/session1", "drummer1/session1/" + strconv.Itoa(i), "rock", "120",
			"beat", "4-4", "2.5", row.Split, row.MIDI, row.Audio, "Acoustic Kit",
		}
		if err := w.Write(record); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv: %v", err)
	}
}

// WriteSineWAV writes a 16-bit PCM sine tone of the given length.
func WriteSineWAV(t testing.TB, path string, sampleRate, channels int, freq float64, seconds float64) {
	t.Helper()

	frames := int(float64(sampleRate) * seconds)
	data := make([]int, frames*channels)
	for i := range frames {
		v := int(math.Round(0.5 * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))))
		for c := range channels {
			data[i*channels+c] = v
		}
	}
	WriteWAV(t, path, sampleRate, channels, 16, data)
}

// WriteWAV writes interleaved integer samples as a PCM WAV file.
func WriteWAV(t testing.TB, path string, sampleRate, channels, bitDepth int, data []int) {
	t.Helper()

	mkdirFor(t, path)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}

// WriteMIDI writes a one-track Standard MIDI File with a single kick drum hit.
func WriteMIDI(t testing.TB, path string) {
	t.Helper()

	mkdirFor(t, path)
	var track smf.Track
	track.Add(0, midi.NoteOn(9, 36, 100))
	track.Add(480, midi.NoteOff(9, 36))
	track.Close(0)

	s := smf.New()
	if err := s.Add(track); err != nil {
		t.Fatalf("add track: %v", err)
	}
	if err := s.WriteFile(path); err != nil {
		t.Fatalf("write midi: %v", err)
	}
}

// WriteFile writes raw bytes, creating parent directories.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	mkdirFor(t, path)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mkdirFor(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
}
