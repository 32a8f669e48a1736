package spectrogram

import (
	"errors"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/RyanBlaney/egmd-prep/algorithms/spectral"
	"github.com/RyanBlaney/egmd-prep/algorithms/windowing"
	"github.com/RyanBlaney/egmd-prep/internal/testsupport"
	"github.com/RyanBlaney/egmd-prep/logging"
	"github.com/RyanBlaney/egmd-prep/transcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tone(freq float64, sampleRate int, seconds float64) *transcode.AudioData {
	n := int(float64(sampleRate) * seconds)
	pcm := make([]float64, n)
	for i := range pcm {
		pcm[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return &transcode.AudioData{PCM: pcm, SampleRate: sampleRate, Channels: 1}
}

func strongestBin(m *Matrix, frame int) int {
	best := 0
	for k, v := range m.Values[frame] {
		if v > m.Values[frame][best] {
			best = k
		}
	}
	return best
}

func TestParseTypes(t *testing.T) {
	typ, err := ParseType("mel")
	require.NoError(t, err)
	assert.Equal(t, Mel, typ)

	types, err := ParseTypes("both")
	require.NoError(t, err)
	assert.Equal(t, []Type{Mel, Mag}, types)

	_, err = ParseType("Chroma")
	assert.True(t, errors.Is(err, ErrUnknownType))
	assert.Contains(t, err.Error(), "input must be Mel or Mag")
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.NumMels = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Format = "gif"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.FMin, cfg.FMax = 500, 100
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.STFT.WinLength = 4096
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxDuration = -1
	assert.Error(t, cfg.Validate())
}

func TestComputeMagnitude(t *testing.T) {
	analyzer, err := NewAnalyzer(DefaultConfig())
	require.NoError(t, err)

	// 2 kHz at 44.1 kHz with n_fft 2048 lands near bin 92.9
	audio := tone(2000, 44100, 0.5)
	m, err := analyzer.Compute(audio, Mag)
	require.NoError(t, err)

	assert.Equal(t, Mag, m.Type)
	assert.Equal(t, 1025, m.Bins())
	assert.Equal(t, 1+len(audio.PCM)/256, m.Frames())
	assert.InDelta(t, 93, strongestBin(m, m.Frames()/2), 1)

	for _, row := range m.Values {
		for _, v := range row {
			assert.LessOrEqual(t, v, 1e-9)
			assert.GreaterOrEqual(t, v, -80-1e-9)
		}
	}
}

func TestComputeMel(t *testing.T) {
	analyzer, err := NewAnalyzer(DefaultConfig())
	require.NoError(t, err)

	low, err := analyzer.Compute(tone(200, 22050, 0.5), Mel)
	require.NoError(t, err)
	high, err := analyzer.Compute(tone(6000, 22050, 0.5), Mel)
	require.NoError(t, err)

	assert.Equal(t, 64, low.Bins())
	assert.Less(t, strongestBin(low, low.Frames()/2), strongestBin(high, high.Frames()/2))
	assert.Len(t, analyzer.filterBanks, 1, "filter bank is reused per sample rate")
}

func twoTones(sampleRate int, seconds float64) *transcode.AudioData {
	n := int(float64(sampleRate) * seconds)
	pcm := make([]float64, n)
	for i := range pcm {
		x := float64(i) / float64(sampleRate)
		pcm[i] = 0.5*math.Sin(2*math.Pi*440*x) + 0.005*math.Sin(2*math.Pi*5000*x)
	}
	return &transcode.AudioData{PCM: pcm, SampleRate: sampleRate, Channels: 1}
}

func TestComputeMelUsesAmplitudeDB(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, MelDBAmplitude, cfg.MelDB)
	analyzer, err := NewAnalyzer(cfg)
	require.NoError(t, err)

	audio := twoTones(22050, 0.5)
	m, err := analyzer.Compute(audio, Mel)
	require.NoError(t, err)

	// rebuild mel(|STFT|^2) and convert with 20*log10, amin 1e-5, ref max, top_db 80
	stft, err := spectral.NewSTFT().Compute(audio.PCM, audio.SampleRate, cfg.STFT, windowing.NewHann(2048, false))
	require.NoError(t, err)
	bank, err := spectral.NewMelScale(false).CreateFilterBank(spectral.FilterBankConfig{
		NumFilters: 64, NFFT: 2048, SampleRate: 22050, SlaneyNorm: true,
	})
	require.NoError(t, err)

	const frame = 20
	ps := spectral.NewPowerSpectrum()
	mel := make([][]float64, stft.TimeFrames)
	for i, row := range stft.Magnitude {
		mel[i] = spectral.NewMelScale(false).ApplyFilterBank(ps.Compute(row), bank)
	}
	ref := 20 * math.Log10(spectral.MatrixMax(mel))
	for k, p := range mel[frame] {
		want := math.Max(20*math.Log10(math.Max(p, 1e-5))-ref, -80)
		assert.InDelta(t, want, m.Values[frame][k], 1e-6, "band %d", k)
	}

	// the quiet tone sits far below the loud one on the amplitude scale
	assert.InDelta(t, 0, m.Values[frame][strongestBin(m, frame)], 1e-9)
	assert.Less(t, m.Values[frame][60], -40.0)
}

func TestComputeMelPowerDB(t *testing.T) {
	ampCfg := DefaultConfig()
	powCfg := DefaultConfig()
	powCfg.MelDB = MelDBPower

	amp, err := NewAnalyzer(ampCfg)
	require.NoError(t, err)
	pow, err := NewAnalyzer(powCfg)
	require.NoError(t, err)

	audio := twoTones(22050, 0.5)
	a, err := amp.Compute(audio, Mel)
	require.NoError(t, err)
	p, err := pow.Compute(audio, Mel)
	require.NoError(t, err)

	// above the clip floor, power dB is exactly half of amplitude dB
	checked := 0
	for k := range a.Values[20] {
		if a.Values[20][k] > -79 {
			assert.InDelta(t, a.Values[20][k]/2, p.Values[20][k], 1e-6, "band %d", k)
			checked++
		}
	}
	assert.Positive(t, checked)

	bad := DefaultConfig()
	bad.MelDB = "log"
	assert.Error(t, bad.Validate())
}

func TestComputeErrors(t *testing.T) {
	analyzer, err := NewAnalyzer(DefaultConfig())
	require.NoError(t, err)

	_, err = analyzer.Compute(tone(100, 8000, 0.1), Type("Chroma"))
	assert.True(t, errors.Is(err, ErrUnknownType))

	_, err = analyzer.Compute(&transcode.AudioData{SampleRate: 8000}, Mag)
	assert.Error(t, err)

	_, err = analyzer.Compute(&transcode.AudioData{PCM: []float64{1}, SampleRate: 0}, Mag)
	assert.Error(t, err)
}

func TestRenderOrientation(t *testing.T) {
	// one frame, two bins: low bin quiet, high bin loud
	m := &Matrix{Values: [][]float64{{-80, 0}}}
	img, err := Render(m, 4, 4)
	require.NoError(t, err)

	top := img.RGBAAt(0, 0)
	bottom := img.RGBAAt(0, 3)
	assert.Equal(t, Magma(1), top, "high frequencies are drawn at the top")
	assert.Equal(t, Magma(0), bottom)

	_, err = Render(&Matrix{}, 4, 4)
	assert.Error(t, err)
	_, err = Render(m, 0, 4)
	assert.Error(t, err)
}

func TestMagma(t *testing.T) {
	assert.Equal(t, magmaStops[0], Magma(-1))
	assert.Equal(t, magmaStops[len(magmaStops)-1], Magma(2))
	mid := Magma(0.5)
	assert.Equal(t, magmaStops[4], mid)

	a, b := Magma(0.3), Magma(0.7)
	assert.Less(t, int(a.R), int(b.R))
}

func TestImagePath(t *testing.T) {
	p, err := ImagePath("/data/egmd", Mel, "drummer1/session1/1_rock.wav", "jpeg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data/egmd", "Mel", "Mel-drummer1-session1-1_rock.wav.jpg"), p)

	p, err = ImagePath("/data/egmd", Mag, "Train/x.wav", "png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data/egmd", "Mag", "Mag-Train-x.wav.png"), p)

	_, err = ImagePath("/data/egmd", Mag, "x.wav", "bmp")
	assert.Error(t, err)
}

func TestGeneratorWritesImages(t *testing.T) {
	root := t.TempDir()
	wavPath := filepath.Join(root, "drummer1", "session1", "1_rock.wav")
	testsupport.WriteSineWAV(t, wavPath, 22050, 2, 440, 0.5)

	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 48
	gen, err := NewGenerator(root, cfg, &logging.NoOpLogger{})
	require.NoError(t, err)

	out, err := gen.Generate(wavPath, Mag)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Mag", "Mag-drummer1-session1-1_rock.wav.jpg"), out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	_, err = gen.Generate(wavPath, Type("Chroma"))
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestGenerateAllCountsFailures(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "Train", "a.wav")
	bad := filepath.Join(root, "Train", "b.wav")
	testsupport.WriteSineWAV(t, good, 8000, 1, 440, 0.5)
	testsupport.WriteFile(t, bad, []byte("not audio"))

	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 32, 32
	cfg.Format = "png"
	gen, err := NewGenerator(root, cfg, &logging.NoOpLogger{})
	require.NoError(t, err)

	result := gen.GenerateAll([]string{good, bad}, AllTypes, nil)
	assert.Equal(t, 2, result.Written)
	assert.Equal(t, 2, result.Failed)

	for _, p := range []string{
		filepath.Join(root, "Mel", "Mel-Train-a.wav.png"),
		filepath.Join(root, "Mag", "Mag-Train-a.wav.png"),
	} {
		f, err := os.Open(p)
		require.NoError(t, err)
		_, err = png.Decode(f)
		f.Close()
		require.NoError(t, err)
	}
}
