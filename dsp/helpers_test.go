package dsp

import (
	"errors"
	"io"
	"math"

	"github.com/google/go-cmp/cmp"
)

type sliceReader struct {
	samps []complex64
	err   error
}

func (r *sliceReader) ReadBlock(out []complex64) error {
	if r.err != nil {
		return r.err
	}
	if len(r.samps) == 0 {
		return io.EOF
	}
	if len(r.samps) < len(out) {
		r.samps = nil
		return io.ErrUnexpectedEOF
	}
	copy(out, r.samps)
	r.samps = r.samps[len(out):]
	return nil
}

type sliceWriter struct {
	samps  []complex64
	floats []float32
	err    error
}

func (w *sliceWriter) Write64(in []complex64) error {
	if w.err != nil {
		return w.err
	}
	w.samps = append(w.samps, in...)
	return nil
}

func (w *sliceWriter) WriteFloats(in []float32) error {
	w.floats = append(w.floats, in...)
	return nil
}

type floatReader struct{ vals []float32 }

func (r *floatReader) ReadFloats(out []float32) error {
	if len(r.vals) < len(out) {
		return io.EOF
	}
	copy(out, r.vals)
	r.vals = r.vals[len(out):]
	return nil
}

var errBroken = errors.New("broken pipe")

func ramp(n int) []complex64 {
	s := make([]complex64, n)
	for i := range s {
		s[i] = complex(float32(i), -float32(i))
	}
	return s
}

func approxComplex(tol float64) cmp.Option {
	return cmp.Comparer(func(a, b complex64) bool {
		return math.Abs(float64(real(a)-real(b))) <= tol &&
			math.Abs(float64(imag(a)-imag(b))) <= tol
	})
}
