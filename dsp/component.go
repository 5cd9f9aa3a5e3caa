package dsp

import (
	"context"

	"github.com/pkg/errors"
)

// Part selects one float of each complex sample.
type Part int

const (
	PartReal Part = 0
	PartImag Part = 1
)

func ParsePart(c int) (Part, error) {
	if c != int(PartReal) && c != int(PartImag) {
		return 0, errors.Wrapf(ErrArgBounds, "component %d is not 0 or 1", c)
	}
	return Part(c), nil
}

// RunComponent writes one float32 per input sample.
func RunComponent(ctx context.Context, r BlockReader, w FloatWriter, n int, p Part) error {
	if err := CheckLen(n); err != nil {
		return err
	}
	in, out := make([]complex64, n), make([]float32, n)
	for ctx.Err() == nil {
		if err := r.ReadBlock(in); err != nil {
			return readErr(err)
		}
		for i, v := range in {
			if p == PartReal {
				out[i] = real(v)
			} else {
				out[i] = imag(v)
			}
		}
		if err := w.WriteFloats(out); err != nil {
			return writeErr(err)
		}
	}
	return ctx.Err()
}
