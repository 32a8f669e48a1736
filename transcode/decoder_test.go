package transcode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/RyanBlaney/egmd-prep/internal/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMonoWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hit.wav")
	testsupport.WriteWAV(t, path, 8000, 1, 16, []int{0, 16384, -16384, 32767, -32768})

	data, err := NewDecoder(nil).DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, data.SampleRate)
	assert.Equal(t, 1, data.Channels)
	assert.Equal(t, 16, data.BitDepth)
	assert.Equal(t, path, data.Source)
	assert.InDeltaSlice(t, []float64{0, 0.5, -0.5, 32767.0 / 32768, -1}, data.PCM, 1e-9)
}

func TestDecodeMixesStereoToMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	// interleaved L/R
	testsupport.WriteWAV(t, path, 44100, 2, 16, []int{16384, 0, -16384, -16384})

	data, err := NewDecoder(DefaultDecoderConfig()).DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2, data.Channels)
	assert.InDeltaSlice(t, []float64{0.25, -0.5}, data.PCM, 1e-9)
}

func TestDecodeMaxDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	testsupport.WriteSineWAV(t, path, 8000, 1, 440, 2)

	data, err := NewDecoder(&DecoderConfig{MaxDuration: time.Second}).DecodeFile(path)
	require.NoError(t, err)
	assert.Len(t, data.PCM, 8000)
	assert.Equal(t, time.Second, data.Duration)
}

func TestDecodeInvalidInput(t *testing.T) {
	junk := filepath.Join(t.TempDir(), "junk.wav")
	testsupport.WriteFile(t, junk, []byte("definitely not RIFF data"))
	_, err := NewDecoder(nil).DecodeFile(junk)
	assert.True(t, errors.Is(err, ErrInvalidWAV))

	_, err = NewDecoder(nil).DecodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestSampleScale(t *testing.T) {
	scale, offset := sampleScale(8)
	assert.Equal(t, 128.0, scale)
	assert.Equal(t, 128.0, offset)

	scale, offset = sampleScale(24)
	assert.Equal(t, float64(1<<23), scale)
	assert.Equal(t, 0.0, offset)
}

func TestGetConfig(t *testing.T) {
	cfg := NewDecoder(&DecoderConfig{MaxDuration: 30 * time.Second}).GetConfig()
	assert.Equal(t, "30s", cfg["max_duration"])
}

// fmtChunk builds a RIFF/WAVE header with a junk chunk ahead of "fmt ".
func fmtChunk(format uint16, extensibleSub uint16) []byte {
	body := make([]byte, 16)
	binary.LittleEndian.PutUint16(body[0:2], format)
	binary.LittleEndian.PutUint16(body[2:4], 2)
	binary.LittleEndian.PutUint32(body[4:8], 48000)
	binary.LittleEndian.PutUint16(body[14:16], 24)
	if format == wavFormatExtensible {
		ext := make([]byte, 24)
		binary.LittleEndian.PutUint16(ext[0:2], 22)
		binary.LittleEndian.PutUint16(ext[2:4], 24)
		binary.LittleEndian.PutUint16(ext[8:10], extensibleSub)
		body = append(body, ext...)
	}

	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(0))
	b.WriteString("WAVE")
	b.WriteString("JUNK")
	binary.Write(&b, binary.LittleEndian, uint32(3))
	b.Write([]byte{0, 0, 0, 0}) // 3 bytes plus pad
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(len(body)))
	b.Write(body)
	return b.Bytes()
}

func TestReadFormatTag(t *testing.T) {
	tag, err := readFormatTag(bytes.NewReader(fmtChunk(wavFormatPCM, 0)))
	require.NoError(t, err)
	assert.Equal(t, uint16(wavFormatPCM), tag)

	// extensible PCM reports its sub-format
	tag, err = readFormatTag(bytes.NewReader(fmtChunk(wavFormatExtensible, wavFormatPCM)))
	require.NoError(t, err)
	assert.Equal(t, uint16(wavFormatPCM), tag)

	// extensible IEEE float stays unsupported
	tag, err = readFormatTag(bytes.NewReader(fmtChunk(wavFormatExtensible, 3)))
	require.NoError(t, err)
	assert.Equal(t, uint16(3), tag)

	_, err = readFormatTag(bytes.NewReader([]byte("RIFF\x00\x00\x00\x00WAVE")))
	assert.True(t, errors.Is(err, ErrInvalidWAV))
}

func TestDecodeRejectsFloatExtensible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "float.wav")
	testsupport.WriteFile(t, path, fmtChunk(wavFormatExtensible, 3))
	_, err := NewDecoder(nil).DecodeFile(path)
	assert.True(t, errors.Is(err, ErrInvalidWAV))
	assert.ErrorContains(t, err, "0x0003")
}
