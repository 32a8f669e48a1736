package dataset

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"
)

// verifyMIDI parses path as a Standard MIDI File and rejects files without tracks.
func verifyMIDI(path string) error {
	file, err := smf.ReadFile(path)
	if err != nil {
		return fmt.Errorf("parse midi: %w", err)
	}
	if len(file.Tracks) == 0 {
		return fmt.Errorf("midi file has no tracks")
	}
	return nil
}
