// Package fftw runs fft plans through single precision FFTW.
package fftw

import (
	"github.com/pkg/errors"
	"github.com/runningwild/go-fftw/fftw32"

	"github.com/chzchzchz/setikit/dsp"
	"github.com/chzchzchz/setikit/fft"
)

type Plan struct {
	arr  *fftw32.Array
	p    *fftw32.Plan
	dir  fft.Direction
	norm float32
}

// NewPlan plans an in-place transform. Measure spends time benchmarking
// algorithms up front and clobbers the plan's buffer while doing so.
func NewPlan(n int, dir fft.Direction, measure bool) (*Plan, error) {
	if err := dsp.CheckLen(n); err != nil {
		return nil, err
	}
	arr := fftw32.NewArray(n)
	flag := fftw32.Estimate
	if measure {
		flag = fftw32.Measure
	}
	d := fftw32.Forward
	if dir == fft.Inverse {
		d = fftw32.Backward
	}
	return &Plan{
		arr:  arr,
		p:    fftw32.NewPlan(arr, arr, d, flag),
		dir:  dir,
		norm: 1.0 / float32(n),
	}, nil
}

func (p *Plan) Len() int                 { return len(p.arr.Elems) }
func (p *Plan) Direction() fft.Direction { return p.dir }

func (p *Plan) Execute(buf []complex64) error {
	if len(buf) != len(p.arr.Elems) {
		return errors.Wrapf(dsp.ErrArgBounds, "fftw block %d, plan %d", len(buf), len(p.arr.Elems))
	}
	copy(p.arr.Elems, buf)
	p.p.Execute()
	if p.dir == fft.Inverse {
		// FFTW leaves the backward transform scaled by n
		for i, v := range p.arr.Elems {
			p.arr.Elems[i] = complex(real(v)*p.norm, imag(v)*p.norm)
		}
	}
	copy(buf, p.arr.Elems)
	return nil
}

func (p *Plan) Close() { p.p.Destroy() }
