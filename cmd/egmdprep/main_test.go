package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/egmd-prep/dataset"
	"github.com/RyanBlaney/egmd-prep/internal/testsupport"
)

type cliEnv struct {
	root string
	home string
}

func setupCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	require.NoError(t, os.MkdirAll(home, 0o755))
	t.Setenv("HOME", home)
	t.Setenv("EGMD_ROOT", "")
	t.Chdir(base)

	root := filepath.Join(base, "e-gmd-v1.0.0")
	rows := []testsupport.MetadataRow{
		{Split: "train", MIDI: "drummer1/session1/1_rock.midi", Audio: "drummer1/session1/1_rock.wav"},
		{Split: "test", MIDI: "drummer1/session1/2_funk.midi", Audio: "drummer1/session1/2_funk.wav"},
		{Split: "validation", MIDI: "drummer2/session1/3_jazz.midi", Audio: "drummer2/session1/3_jazz.wav"},
	}
	testsupport.WriteMetadata(t, filepath.Join(root, "e-gmd-v1.0.0.csv"), rows...)
	for _, row := range rows {
		testsupport.WriteSineWAV(t, filepath.Join(root, row.Audio), 8000, 1, 440, 0.25)
		testsupport.WriteMIDI(t, filepath.Join(root, row.MIDI))
	}
	return &cliEnv{root: root, home: home}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-progress", "--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCountCommand(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := runCLI(t, "--root", env.root, "count")
	require.NoError(t, err)
	assert.Contains(t, out, "Number of .wav files 3")
	assert.Contains(t, out, "Number of .midi files 3")
	assert.Contains(t, out, "Metadata rows 3")

	out, _, err = runCLI(t, "--root", env.root, "count", "--kind", "wav")
	require.NoError(t, err)
	assert.NotContains(t, out, ".midi files")

	_, _, err = runCLI(t, "--root", env.root, "count", "--kind", "mp3")
	assert.Error(t, err)
}

func TestSplitCommand(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := runCLI(t, "--root", env.root, "split", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would move")
	assert.FileExists(t, filepath.Join(env.root, "drummer1/session1/1_rock.wav"))

	out, _, err = runCLI(t, "--root", env.root, "split", "--verify-midi")
	require.NoError(t, err)
	assert.Contains(t, out, "Done moving 1 test files")
	assert.Contains(t, out, "command=split")

	for _, p := range []string{
		"Train/drummer1-session1-1_rock.wav",
		"Train/drummer1-session1-1_rock.midi",
		"Test/drummer1-session1-2_funk.wav",
		"Val/drummer2-session1-3_jazz.midi",
	} {
		assert.FileExists(t, filepath.Join(env.root, p))
	}

	out, _, err = runCLI(t, "--root", env.root, "count", "--kind", "wav")
	require.NoError(t, err)
	assert.Contains(t, out, "Number of .wav files 3")
	assert.Regexp(t, `Train\s+1`, out)
}

func TestSplitCommandMissingMetadata(t *testing.T) {
	env := setupCLIEnv(t)
	require.NoError(t, os.Remove(filepath.Join(env.root, "e-gmd-v1.0.0.csv")))

	_, _, err := runCLI(t, "--root", env.root, "split")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load metadata")
}

func TestSpectrogramCommand(t *testing.T) {
	env := setupCLIEnv(t)

	_, _, err := runCLI(t, "--root", env.root, "split", "--kind", "wav")
	require.NoError(t, err)

	out, _, err := runCLI(t, "--root", env.root, "spectrogram", "--type", "Mel", "--split", "Train")
	require.NoError(t, err)
	assert.Contains(t, out, "Spectrograms written 1, failed 0")
	assert.FileExists(t, filepath.Join(env.root, "Mel", "Mel-Train-drummer1-session1-1_rock.wav.jpg"))

	out, _, err = runCLI(t, "--root", env.root, "spectrogram", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Spectrograms written 4, failed 0")

	_, _, err = runCLI(t, "--root", env.root, "spectrogram", "--type", "Chroma")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input must be Mel or Mag")

	_, _, err = runCLI(t, "--root", env.root, "spectrogram", "--split", "holdout")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	env := setupCLIEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")
	assert.FileExists(t, target)

	_, _, err = runCLI(t, "config", "init", "--path", target)
	assert.Error(t, err, "refuses to overwrite")

	_, _, err = runCLI(t, "config", "init", "--path", target, "--overwrite")
	assert.NoError(t, err)

	out, _, err = runCLI(t, "--config", target, "--root", env.root, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# config path: "+target)
	assert.Contains(t, out, env.root)

	out, _, err = runCLI(t, "--root", env.root, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Metadata: "+filepath.Join(env.root, "e-gmd-v1.0.0.csv")+" (exists: yes)")
}

func TestInvalidLogLevel(t *testing.T) {
	env := setupCLIEnv(t)
	_, _, err := runCLI(t, "--root", env.root, "--log-level", "loud", "count")
	assert.Error(t, err)
}

func TestResolveSplitDir(t *testing.T) {
	dirs := dataset.DefaultDestinations()
	dir, err := resolveSplitDir(dirs, "validation")
	require.NoError(t, err)
	assert.Equal(t, "Val", dir)

	dir, err = resolveSplitDir(dirs, "train")
	require.NoError(t, err)
	assert.Equal(t, "Train", dir)

	dir, err = resolveSplitDir(dirs, "val")
	require.NoError(t, err)
	assert.Equal(t, "Val", dir)

	_, err = resolveSplitDir(dirs, "holdout")
	assert.Error(t, err)
}
