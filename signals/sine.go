// Package signals generates synthetic test streams.
package signals

import (
	"context"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/chzchzchz/setikit/dsp"
)

// SineConfig describes a noisy complex tone built from a lookup table.
type SineConfig struct {
	// Samples per output block.
	Samples int
	// Blocks to emit.
	Blocks int
	// LUTLen is the number of table entries per period.
	LUTLen int
	// Wavelength is the number of samples spent on each table entry.
	Wavelength float32
	SNR        float32
	Seed       int64
}

func (c SineConfig) Validate() error {
	if c.Samples < 1 || c.Samples > dsp.MaxSamplesLen {
		return errors.Wrapf(dsp.ErrArgBounds, "samples %d not in [1, %d]", c.Samples, dsp.MaxSamplesLen)
	}
	if c.LUTLen < 1 {
		return errors.Wrapf(dsp.ErrArgBounds, "table length %d < 1", c.LUTLen)
	}
	if !(c.Wavelength > 0) {
		return errors.Wrapf(dsp.ErrArgBounds, "wavelength %g <= 0", c.Wavelength)
	}
	if c.Blocks < 0 {
		return errors.Wrapf(dsp.ErrArgBounds, "block count %d < 0", c.Blocks)
	}
	return nil
}

// Sine produces the tone block by block.
type Sine struct {
	cfg      SineConfig
	sin, cos []float32
	// Noise is added to each component of every sample.
	Noise func() float32
}

func NewSine(cfg SineConfig) (*Sine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Sine{
		cfg: cfg,
		sin: make([]float32, cfg.LUTLen),
		cos: make([]float32, cfg.LUTLen),
	}
	for i := range s.sin {
		a := float64(i) * 2 * math.Pi / float64(cfg.LUTLen)
		s.sin[i], s.cos[i] = float32(math.Sin(a)), float32(math.Cos(a))
	}
	s.Noise = Gaussian(rand.New(rand.NewSource(cfg.Seed)))
	return s, nil
}

// Block fills out with block number blk.
func (s *Sine) Block(blk int, out []complex64) {
	base := blk * s.cfg.Samples
	for k := range out {
		idx := int(float32(base+k)/s.cfg.Wavelength) % s.cfg.LUTLen
		out[k] = complex(
			s.sin[idx]*s.cfg.SNR+s.Noise(),
			s.cos[idx]*s.cfg.SNR+s.Noise())
	}
}

// Run writes every block of the tone.
func (s *Sine) Run(ctx context.Context, w dsp.BlockWriter) error {
	logrus.WithField("snr", s.cfg.SNR).Info("generating sine")
	out := make([]complex64, s.cfg.Samples)
	for blk := 0; blk < s.cfg.Blocks; blk++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Block(blk, out)
		if err := w.Write64(out); err != nil {
			return errors.Wrap(dsp.ErrStreamWrite, err.Error())
		}
	}
	return nil
}

// Gaussian returns a unit normal source using the Box-Muller transform.
func Gaussian(rnd *rand.Rand) func() float32 {
	return func() float32 {
		r1 := 1 - rnd.Float64()
		r2 := rnd.Float64()
		return float32(math.Sqrt(-2*math.Log(r1)) * math.Sin(2*math.Pi*r2))
	}
}
