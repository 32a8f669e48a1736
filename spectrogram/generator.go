package spectrogram

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RyanBlaney/egmd-prep/dataset"
	"github.com/RyanBlaney/egmd-prep/logging"
	"github.com/RyanBlaney/egmd-prep/transcode"
)

// ImagePath returns <root>/<Type>/<Type>-<flattened rel>.<ext>.
func ImagePath(root string, typ Type, rel, format string) (string, error) {
	ext, err := extension(format)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.%s", typ, dataset.FlattenName(rel), ext)
	return filepath.Join(root, string(typ), name), nil
}

// Generator decodes audio files and writes spectrogram images under root.
type Generator struct {
	root     string
	cfg      Config
	decoder  *transcode.Decoder
	analyzer *Analyzer
	logger   logging.Logger
}

// Result counts one GenerateAll pass.
type Result struct {
	Written int
	Failed  int
}

// NewGenerator builds a Generator writing images beneath root.
func NewGenerator(root string, cfg Config, logger logging.Logger) (*Generator, error) {
	analyzer, err := NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	decoderConfig := transcode.DefaultDecoderConfig()
	decoderConfig.MaxDuration = cfg.MaxDuration
	decoder := transcode.NewDecoder(decoderConfig)

	logger = logger.WithFields(logging.Fields{"component": "spectrogram"})
	fields := logging.Fields(decoder.GetConfig())
	fields["window"] = analyzer.window.GetType()
	fields["mel_db"] = cfg.MelDB
	logger.Debug("Spectrogram generator ready", fields)

	return &Generator{
		root:     filepath.Clean(root),
		cfg:      cfg,
		decoder:  decoder,
		analyzer: analyzer,
		logger:   logger,
	}, nil
}

// Generate renders one spectrogram type for the audio file at path and
// returns the image location.
func (g *Generator) Generate(path string, typ Type) (string, error) {
	if typ != Mel && typ != Mag {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, string(typ))
	}

	rel, err := dataset.RelativeKey(g.root, path)
	if err != nil {
		return "", err
	}
	out, err := ImagePath(g.root, typ, rel, g.cfg.Format)
	if err != nil {
		return "", err
	}

	audio, err := g.decoder.DecodeFile(path)
	if err != nil {
		return "", err
	}
	return out, g.write(audio, typ, out)
}

// GenerateAll renders every type for every file, decoding each file once.
// Failures are logged and counted; the pass continues.
func (g *Generator) GenerateAll(files []string, types []Type, progress dataset.ProgressFactory) Result {
	var result Result
	if progress == nil {
		progress = dataset.NoProgress
	}
	bar := progress("Rendering spectrograms", len(files))
	defer bar.Done()

	for _, path := range files {
		if err := g.generateFile(path, types, &result); err != nil {
			g.logger.Error(err, "Spectrogram failed", logging.Fields{"file": path})
		}
		bar.Increment()
	}
	return result
}

func (g *Generator) generateFile(path string, types []Type, result *Result) error {
	rel, err := dataset.RelativeKey(g.root, path)
	if err != nil {
		result.Failed += len(types)
		return err
	}

	audio, err := g.decoder.DecodeFile(path)
	if err != nil {
		result.Failed += len(types)
		return err
	}

	for _, typ := range types {
		out, err := ImagePath(g.root, typ, rel, g.cfg.Format)
		if err == nil {
			err = g.write(audio, typ, out)
		}
		if err != nil {
			result.Failed++
			g.logger.Error(err, "Spectrogram failed", logging.Fields{"file": rel, "type": string(typ)})
			continue
		}
		result.Written++
	}
	return nil
}

func (g *Generator) write(audio *transcode.AudioData, typ Type, out string) error {
	matrix, err := g.analyzer.Compute(audio, typ)
	if err != nil {
		return err
	}

	img, err := Render(matrix, g.cfg.Width, g.cfg.Height)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := Encode(file, img, g.cfg); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode image: %w", err)
	}
	if err := file.Close(); err != nil {
		return err
	}

	g.logger.Debug("Wrote spectrogram", logging.Fields{
		"image":  out,
		"frames": matrix.Frames(),
		"bins":   matrix.Bins(),
	})
	return nil
}
