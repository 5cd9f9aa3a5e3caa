// Package imaging turns float32 rasters into viewable images.
package imaging

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/chzchzchz/setikit/dsp"
)

// MaxPixel is the brightest gray level.
const MaxPixel = 255

// Image is a row-major float raster.
type Image struct {
	Rows, Cols int
	Pix        []float32
}

func New(rows, cols int) (*Image, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(dsp.ErrArgBounds, "image %dx%d", rows, cols)
	}
	return &Image{Rows: rows, Cols: cols, Pix: make([]float32, rows*cols)}, nil
}

func (img *Image) Row(i int) []float32 { return img.Pix[i*img.Cols : (i+1)*img.Cols] }

// Read loads up to rows rows. The image ends at the first short row.
func Read(r dsp.FloatReader, rows, cols int) (*Image, error) {
	img, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < rows; i++ {
		if err := r.ReadFloats(img.Row(i)); err != nil {
			if !dsp.IsEOF(err) {
				return nil, errors.Wrap(dsp.ErrStreamRead, err.Error())
			}
			img.Rows = i
			img.Pix = img.Pix[:i*cols]
			break
		}
	}
	return img, nil
}

// WriteRaw writes the rows as float32.
func (img *Image) WriteRaw(w dsp.FloatWriter) error {
	if img.Rows <= 0 || img.Cols <= 0 {
		return errors.Wrapf(dsp.ErrStreamWrite, "empty image %dx%d", img.Rows, img.Cols)
	}
	if err := w.WriteFloats(img.Pix); err != nil {
		return errors.Wrap(dsp.ErrStreamWrite, err.Error())
	}
	return nil
}

func clampByte(v float32) byte {
	if v < 0 {
		return 0
	}
	if v > MaxPixel {
		return MaxPixel
	}
	return byte(v)
}

// WritePNM writes a binary graymap, one clamped byte per pixel.
func (img *Image) WritePNM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P5\n%d %d\n%d\n", img.Cols, img.Rows, MaxPixel)
	for _, v := range img.Pix {
		bw.WriteByte(clampByte(v))
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(dsp.ErrStreamWrite, err.Error())
	}
	return nil
}

// AverageLines averages each group of n rows; a partial last group is dropped.
func (img *Image) AverageLines(n int) (*Image, error) {
	if n < 1 || n > img.Rows {
		return nil, errors.Wrapf(dsp.ErrArgBounds, "average %d lines of %d", n, img.Rows)
	}
	out, err := New(img.Rows/n, img.Cols)
	if err != nil {
		return nil, err
	}
	acc := make([]float32, img.Cols)
	for i := 0; i < out.Rows*n; i++ {
		for c, v := range img.Row(i) {
			acc[c] += v
		}
		if (i+1)%n == 0 {
			row := out.Row(i / n)
			for c := range acc {
				row[c] = acc[c] / float32(n)
				acc[c] = 0
			}
		}
	}
	return out, nil
}

// Chop trims wfrac of the columns and hfrac of the rows from each edge.
func (img *Image) Chop(wfrac, hfrac float32) (*Image, error) {
	if wfrac < 0 || wfrac >= 0.5 || hfrac < 0 || hfrac >= 0.5 {
		return nil, errors.Wrapf(dsp.ErrArgBounds, "chop fractions %g, %g not in [0, 0.5)", wfrac, hfrac)
	}
	c0, c1 := int(float32(img.Cols)*wfrac), int(float32(img.Cols)*(1-wfrac))
	r0, r1 := int(float32(img.Rows)*hfrac), int(float32(img.Rows)*(1-hfrac))
	out, err := New(r1-r0, c1-c0)
	if err != nil {
		return nil, err
	}
	for r := r0; r < r1; r++ {
		copy(out.Row(r-r0), img.Row(r)[c0:c1])
	}
	return out, nil
}

func (img *Image) minMax() (min, max float32) {
	min, max = img.Pix[0], img.Pix[0]
	for _, v := range img.Pix {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func (img *Image) stretch(lo, hi float32) {
	if hi == lo {
		clear(img.Pix)
		return
	}
	k := float32(MaxPixel) / (hi - lo)
	for i, v := range img.Pix {
		img.Pix[i] = (v - lo) * k
	}
}

// Scale maps pixel values onto [0, MaxPixel].
type Scale func(img *Image)

// LinearScale maps min..max onto 0..255.
func LinearScale(img *Image) {
	if len(img.Pix) == 0 {
		return
	}
	img.stretch(img.minMax())
}

// PowerScale stretches power values around the mean magnitude, from one
// deviation below to 2.3 deviations above.
func PowerScale(img *Image) {
	if len(img.Pix) == 0 {
		return
	}
	if min, _ := img.minMax(); min < 0 {
		for i := range img.Pix {
			img.Pix[i] -= min
		}
	}
	n := float32(len(img.Pix))
	var mean float32
	for _, v := range img.Pix {
		mean += float32(math.Sqrt(float64(v)))
	}
	mean /= n
	var dev float32
	for _, v := range img.Pix {
		d := float32(math.Sqrt(float64(v))) - mean
		dev += d * d
	}
	dev = float32(math.Sqrt(float64(dev / n)))

	lo := mean - dev
	if lo < 0 {
		lo = 0
	}
	hi := mean + 2.3*dev
	img.stretch(lo*lo, hi*hi)
}

// NoScale leaves the pixels alone.
func NoScale(img *Image) {}

func ParseScale(name string) (Scale, error) {
	switch name {
	case "linear":
		return LinearScale, nil
	case "power":
		return PowerScale, nil
	case "none":
		return NoScale, nil
	}
	return nil, errors.Wrapf(dsp.ErrUnknownOption, "scale %q", name)
}
