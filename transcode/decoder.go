package transcode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RyanBlaney/egmd-prep/algorithms/common"
	"github.com/RyanBlaney/egmd-prep/logging"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned when the input is not a readable PCM WAV file.
var ErrInvalidWAV = errors.New("not a valid PCM wav file")

const (
	wavFormatPCM        = 0x0001
	wavFormatExtensible = 0xFFFE
)

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // mono samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // channels in the source file
	BitDepth   int           `json:"bit_depth"`
	Duration   time.Duration `json:"duration"`
	Source     string        `json:"source,omitempty"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	// MaxDuration truncates long files; 0 keeps everything
	MaxDuration time.Duration `json:"max_duration"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		MaxDuration: 0,
	}
}

// Decoder reads WAV files at their native sample rate and mixes them down
// to mono, like librosa.load(sr=None).
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// DecodeFile decodes a WAV file and returns PCM data
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  filename,
	})

	file, err := os.Open(filename)
	if err != nil {
		logger.Error(err, "Failed to open audio file")
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	data, err := d.decode(file, logger)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	data.Source = filename
	return data, nil
}

func (d *Decoder) decode(reader io.ReadSeeker, logger logging.Logger) (*AudioData, error) {
	format, err := readFormatTag(reader)
	if err != nil {
		return nil, err
	}
	if format != wavFormatPCM {
		return nil, fmt.Errorf("%w: unsupported wav format tag %#04x", ErrInvalidWAV, format)
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}

	decoder := wav.NewDecoder(reader)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, ErrInvalidWAV
	}

	bitDepth := int(decoder.BitDepth)
	if buf.SourceBitDepth > 0 {
		bitDepth = buf.SourceBitDepth
	}

	pcm := toMono(buf, bitDepth)
	sampleRate := buf.Format.SampleRate

	if d.config.MaxDuration > 0 && sampleRate > 0 {
		limit := int(d.config.MaxDuration.Seconds() * float64(sampleRate))
		if limit < len(pcm) {
			pcm = pcm[:limit]
		}
	}

	var duration time.Duration
	if sampleRate > 0 {
		duration = time.Duration(float64(len(pcm)) / float64(sampleRate) * float64(time.Second))
	}

	logger.Debug("Decoded audio", logging.Fields{
		"sample_rate": sampleRate,
		"channels":    buf.Format.NumChannels,
		"bit_depth":   bitDepth,
		"samples":     len(pcm),
		"peak":        common.Peak(pcm),
		"rms":         common.RMS(pcm),
	})

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   buf.Format.NumChannels,
		BitDepth:   bitDepth,
		Duration:   duration,
	}, nil
}

// readFormatTag walks the RIFF chunks up to "fmt " and returns the sample
// format. For WAVE_FORMAT_EXTENSIBLE the sub-format GUID's leading tag is
// returned instead, so extensible PCM reports as PCM.
func readFormatTag(r io.ReadSeeker) (uint16, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, ErrInvalidWAV
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return 0, ErrInvalidWAV
	}

	var chunk [8]byte
	for {
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return 0, fmt.Errorf("%w: no fmt chunk", ErrInvalidWAV)
		}
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))
		if string(chunk[0:4]) != "fmt " {
			// chunks are word aligned
			if _, err := r.Seek(size+size%2, io.SeekCurrent); err != nil {
				return 0, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
			}
			continue
		}

		if size < 16 || size > 1024 {
			return 0, fmt.Errorf("%w: fmt chunk of %d bytes", ErrInvalidWAV, size)
		}
		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return 0, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
		}

		format := binary.LittleEndian.Uint16(body[0:2])
		if format == wavFormatExtensible {
			// cbSize(2) validBits(2) channelMask(4) then the sub-format GUID
			if size < 40 {
				return 0, fmt.Errorf("%w: truncated extensible fmt chunk", ErrInvalidWAV)
			}
			format = binary.LittleEndian.Uint16(body[24:26])
		}
		return format, nil
	}
}

// toMono scales integer samples to [-1, 1] and averages interleaved channels.
func toMono(buf *audio.IntBuffer, bitDepth int) []float64 {
	channels := buf.Format.NumChannels
	scale, offset := sampleScale(bitDepth)

	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	for f := range frames {
		sum := 0.0
		for c := range channels {
			sum += (float64(buf.Data[f*channels+c]) - offset) / scale
		}
		out[f] = sum / float64(channels)
	}
	return out
}

// sampleScale returns the divisor and offset for a PCM bit depth.
// 8-bit WAV is unsigned and centered on 128.
func sampleScale(bitDepth int) (scale, offset float64) {
	switch {
	case bitDepth == 8:
		return 128, 128
	case bitDepth > 1:
		return float64(int64(1) << (bitDepth - 1)), 0
	default:
		return 1, 0
	}
}

// GetConfig returns decoder settings for logging
func (d *Decoder) GetConfig() map[string]any {
	return map[string]any{
		"max_duration": d.config.MaxDuration.String(),
	}
}
