package dsp

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RunSum adds groups of count rasters into one. The first output raster is
// written even when its group is incomplete; later incomplete groups are not.
func RunSum(ctx context.Context, r BlockReader, w BlockWriter, n, count int) error {
	if err := CheckLen(n); err != nil {
		return err
	}
	if count < 1 {
		return errors.Wrapf(ErrArgBounds, "sum count %d < 1", count)
	}
	in, sum := make([]complex64, n), make([]complex64, n)
	for first := true; ctx.Err() == nil; first = false {
		clear(sum)
		got, done := 0, false
		for ; got < count; got++ {
			if err := r.ReadBlock(in); err != nil {
				if !IsEOF(err) {
					return readErr(err)
				}
				done = true
				break
			}
			for i, v := range in {
				sum[i] += v
			}
		}
		if first || got == count {
			if err := w.Write64(sum); err != nil {
				return writeErr(err)
			}
		}
		if done {
			return nil
		}
	}
	return ctx.Err()
}

// RunOverlap2x emits n-sample rasters that advance by n/2 samples.
func RunOverlap2x(ctx context.Context, r BlockReader, w BlockWriter, n int) error {
	if err := CheckLen(n); err != nil {
		return err
	}
	if n%2 != 0 {
		return errors.Wrapf(ErrArgBounds, "overlap length %d is not even", n)
	}
	half := n / 2
	out, cur := make([]complex64, n), make([]complex64, half)
	if err := r.ReadBlock(out[:half]); err != nil {
		return readErr(err)
	}
	for ctx.Err() == nil {
		if err := r.ReadBlock(cur); err != nil {
			return readErr(err)
		}
		copy(out[half:], cur)
		if err := w.Write64(out); err != nil {
			return writeErr(err)
		}
		copy(out[:half], cur)
	}
	return ctx.Err()
}

// RunCrossMultiply multiplies two streams sample by sample in lockstep.
func RunCrossMultiply(ctx context.Context, r1, r2 BlockReader, w BlockWriter, n int) error {
	if err := CheckLen(n); err != nil {
		return err
	}
	a, b := make([]complex64, n), make([]complex64, n)
	for cycles := 1; ctx.Err() == nil; cycles++ {
		if err := r1.ReadBlock(a); err != nil {
			return readErr(err)
		}
		if err := r2.ReadBlock(b); err != nil {
			return readErr(err)
		}
		for i := range a {
			a[i] *= b[i]
		}
		if err := w.Write64(a); err != nil {
			return writeErr(err)
		}
		if cycles%100 == 1 {
			logrus.WithField("cycle", cycles).Info("crossmultiply progress")
		}
	}
	return ctx.Err()
}
