package dataset

import (
	"path/filepath"
	"testing"

	"github.com/RyanBlaney/egmd-prep/internal/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"drummer1/session1/b.wav",
		"drummer1/session1/a.wav",
		"drummer1/session1/a.midi",
		"drummer2/eval_session/c.WAV",
		"drummer2/eval_session/c.mid",
		"drummer2/eval_session/._c.wav",
		"Train/drummer1-session1-z.wav",
		"Mel/Mel-drummer1-session1-z.wav.jpg",
		"notes.txt",
	} {
		testsupport.WriteFile(t, filepath.Join(root, rel), []byte("x"))
	}

	exclude := []string{"Train", "Test", "Val", "Mel"}

	wavs, err := Discover(root, KindAudio, exclude)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "drummer1/session1/a.wav"),
		filepath.Join(root, "drummer1/session1/b.wav"),
		filepath.Join(root, "drummer2/eval_session/c.WAV"),
	}, wavs)

	n, err := Count(root, KindMIDI, exclude)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Count(root, KindAudio, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n, "split folders are scanned when not excluded")

	_, err = Discover(filepath.Join(root, "missing"), KindAudio, nil)
	assert.Error(t, err)
}

func TestRelativeKeyAndFlatten(t *testing.T) {
	root := filepath.Join("/data", "e-gmd-v1.0.0")
	rel, err := RelativeKey(root, filepath.Join(root, "drummer1", "session1", "1_rock.wav"))
	require.NoError(t, err)
	assert.Equal(t, "drummer1/session1/1_rock.wav", rel)
	assert.Equal(t, "drummer1-session1-1_rock.wav", FlattenName(rel))

	_, err = RelativeKey(root, "/elsewhere/file.wav")
	assert.Error(t, err)
}

func TestKinds(t *testing.T) {
	kind, ok := KindOf("x/y.MIDI")
	assert.True(t, ok)
	assert.Equal(t, KindMIDI, kind)

	_, ok = KindOf("x/y.flac")
	assert.False(t, ok)

	kinds, err := ParseKinds("all")
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindAudio, KindMIDI}, kinds)

	kinds, err = ParseKinds("midi")
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindMIDI}, kinds)

	_, err = ParseKinds("flac")
	assert.Error(t, err)

	assert.Equal(t, "wav", KindAudio.String())
	assert.True(t, SplitValidation.Known())
	assert.False(t, Split("holdout").Known())
}
