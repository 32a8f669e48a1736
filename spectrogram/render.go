package spectrogram

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/RyanBlaney/egmd-prep/algorithms/common"
)

// Render draws the matrix edge to edge with no axes: time runs left to
// right, frequency bottom to top. Cells are sampled nearest-neighbour.
func Render(m *Matrix, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %dx%d", width, height)
	}
	frames, bins := m.Frames(), m.Bins()
	if frames == 0 || bins == 0 {
		return nil, fmt.Errorf("empty spectrogram")
	}

	lo, hi, _ := common.MatrixRange(m.Values)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		frame := x * frames / width
		column := m.Values[frame]
		for y := range height {
			bin := (height - 1 - y) * bins / height
			img.SetRGBA(x, y, Magma(common.MinMaxNormalize(column[bin], lo, hi)))
		}
	}
	return img, nil
}

// Encode writes img in the configured format.
func Encode(w io.Writer, img image.Image, cfg Config) error {
	ext, err := extension(cfg.Format)
	if err != nil {
		return err
	}
	switch ext {
	case "png":
		return png.Encode(w, img)
	default:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: cfg.JPEGQuality})
	}
}
