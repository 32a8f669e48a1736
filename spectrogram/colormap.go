package spectrogram

import (
	"image/color"
	"math"

	"github.com/RyanBlaney/egmd-prep/algorithms/common"
)

// magmaStops samples matplotlib's magma map at nine evenly spaced points.
var magmaStops = [...]color.RGBA{
	{0, 0, 4, 255},
	{28, 16, 68, 255},
	{79, 18, 123, 255},
	{129, 37, 129, 255},
	{181, 54, 122, 255},
	{229, 80, 100, 255},
	{251, 135, 97, 255},
	{254, 194, 135, 255},
	{252, 253, 191, 255},
}

// Magma maps t in [0, 1] to a color by linear interpolation between stops.
func Magma(t float64) color.RGBA {
	t = common.Clamp(t, 0, 1)
	pos := t * float64(len(magmaStops)-1)
	i := int(math.Floor(pos))
	if i >= len(magmaStops)-1 {
		return magmaStops[len(magmaStops)-1]
	}
	frac := pos - float64(i)
	lo, hi := magmaStops[i], magmaStops[i+1]
	return color.RGBA{
		R: channel(lo.R, hi.R, frac),
		G: channel(lo.G, hi.G, frac),
		B: channel(lo.B, hi.B, frac),
		A: 255,
	}
}

func channel(a, b uint8, frac float64) uint8 {
	return uint8(math.Round(common.Lerp(float64(a), float64(b), frac)))
}
