package imaging

import (
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"github.com/pkg/errors"

	"github.com/chzchzchz/setikit/dsp"
)

// black, green, yellow, white
var colorScale = []color.NRGBA{
	{0, 0, 0, 255},
	{0, 255, 0, 255},
	{255, 255, 0, 255},
	{255, 255, 255, 255},
}

func interpolate(t float64, a, b uint8) uint8 { return uint8(float64(a)*(1-t) + float64(b)*t) }

// pixelColor maps a scaled pixel onto the color ramp.
func pixelColor(v float32) color.NRGBA {
	f := float64(clampByte(v)) / (MaxPixel + 1)
	idx := float64(len(colorScale)-1) * f
	t := idx - float64(int(idx))
	prev, next := colorScale[int(idx)], colorScale[int(idx)+1]
	return color.NRGBA{
		interpolate(t, prev.R, next.R),
		interpolate(t, prev.G, next.G),
		interpolate(t, prev.B, next.B),
		255,
	}
}

// Heatmap colors a scaled image.
func (img *Image) Heatmap() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Cols, img.Rows))
	for y := 0; y < img.Rows; y++ {
		for x, v := range img.Row(y) {
			out.SetNRGBA(x, y, pixelColor(v))
		}
	}
	return out
}

// WriteJPEG writes the heatmap as a JPEG.
func (img *Image) WriteJPEG(w io.Writer) error {
	if err := jpeg.Encode(w, img.Heatmap(), nil); err != nil {
		return errors.Wrap(dsp.ErrStreamWrite, err.Error())
	}
	return nil
}
