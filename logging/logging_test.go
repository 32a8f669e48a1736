package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		"warning": WarnLevel,
		" error ": ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestDefaultLoggerRoutesByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewWriterLogger(&out, &errOut, false)

	logger.Debug("hidden")
	logger.Info("moved file", Fields{"split": "train", "dest": "Train/a.wav"})
	logger.Warn("unknown split")
	logger.Error(errors.New("boom"), "rename failed")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[INFO] moved file dest=Train/a.wav split=train")
	assert.Contains(t, errOut.String(), "[WARN] unknown split")
	assert.Contains(t, errOut.String(), "[ERROR] rename failed: boom")
}

func TestDefaultLoggerFieldsAndLevel(t *testing.T) {
	var out bytes.Buffer
	logger := NewWriterLogger(&out, &out, false)
	logger.SetLevel(DebugLevel)

	child := logger.WithFields(Fields{"component": "splitter"})
	child.Debug("classified", Fields{"count": 3})

	line := out.String()
	assert.Contains(t, line, "[DEBUG] classified component=splitter count=3")
	assert.Equal(t, 1, strings.Count(line, "\n"))
}

func TestDefaultLoggerColors(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewWriterLogger(&out, &errOut, true)

	logger.Warn("careful")
	assert.Contains(t, errOut.String(), ColorYellow)
	assert.Contains(t, errOut.String(), ColorReset)
}

func TestFatalExits(t *testing.T) {
	var out bytes.Buffer
	logger := NewWriterLogger(&out, &out, false)
	code := -1
	logger.exit = func(c int) { code = c }

	logger.Fatal(errors.New("no metadata"), "cannot continue")
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "[FATAL] cannot continue: no metadata")
}

func TestWithContext(t *testing.T) {
	var out bytes.Buffer
	logger := NewWriterLogger(&out, &out, false)

	ctx := ContextWithFields(context.Background(), Fields{"run": "wav"})
	logger.WithContext(ctx).Info("start")
	assert.Contains(t, out.String(), "run=wav")

	out.Reset()
	logger.WithContext(context.Background()).Info("plain")
	assert.NotContains(t, out.String(), "run=")
}

func TestSetGlobalLoggerNil(t *testing.T) {
	prev := GetGlobalLogger()
	t.Cleanup(func() { SetGlobalLogger(prev) })

	SetGlobalLogger(nil)
	_, ok := GetGlobalLogger().(*NoOpLogger)
	assert.True(t, ok)
	WithFields(Fields{"component": "test"}).Info("discarded")
}
