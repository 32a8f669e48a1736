package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind distinguishes the two file families in the corpus.
type Kind int

const (
	KindAudio Kind = iota
	KindMIDI
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "wav"
	case KindMIDI:
		return "midi"
	default:
		return "unknown"
	}
}

// Extensions returns the lowercase file extensions belonging to the kind.
func (k Kind) Extensions() []string {
	switch k {
	case KindAudio:
		return []string{".wav"}
	case KindMIDI:
		return []string{".midi", ".mid"}
	default:
		return nil
	}
}

// KindOf classifies a path by extension.
func KindOf(path string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, k := range []Kind{KindAudio, KindMIDI} {
		for _, candidate := range k.Extensions() {
			if ext == candidate {
				return k, true
			}
		}
	}
	return 0, false
}

// ParseKinds turns a --kind value into the kinds to process, audio first.
func ParseKinds(value string) ([]Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return []Kind{KindAudio, KindMIDI}, nil
	case "wav", "audio":
		return []Kind{KindAudio}, nil
	case "midi", "mid":
		return []Kind{KindMIDI}, nil
	default:
		return nil, fmt.Errorf("unknown kind %q (want wav, midi or all)", value)
	}
}

// Split is the literal value of the metadata split column.
type Split string

const (
	SplitTest       Split = "test"
	SplitTrain      Split = "train"
	SplitValidation Split = "validation"
)

// KnownSplits lists the splits in the order files are moved.
var KnownSplits = []Split{SplitTest, SplitTrain, SplitValidation}

// Known reports whether s is one of the three corpus splits.
func (s Split) Known() bool {
	switch s {
	case SplitTest, SplitTrain, SplitValidation:
		return true
	default:
		return false
	}
}
