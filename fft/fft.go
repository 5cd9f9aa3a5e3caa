// Package fft wraps fixed-length complex FFT plans and the channel-swapped
// transform stage built on them.
package fft

import (
	algofft "github.com/MeKo-Christian/algo-fft"
	dspfft "github.com/mjibson/go-dsp/fft"
	"github.com/pkg/errors"

	"github.com/chzchzchz/setikit/dsp"
)

type Direction int

const (
	Forward Direction = iota
	// Inverse plans scale their output by 1/n.
	Inverse
)

func (d Direction) String() string {
	if d == Inverse {
		return "inverse"
	}
	return "forward"
}

// Plan transforms one block of Len samples in place.
type Plan interface {
	Len() int
	Direction() Direction
	Execute(buf []complex64) error
	Close()
}

// goPlan runs power of two lengths through algo-fft. Its mixed radix
// kernels are wrong for lengths such as 40 and 1000, so every other length
// goes through go-dsp's Bluestein transform in double precision.
type goPlan struct {
	p    *algofft.Plan[complex64]
	dir  Direction
	out  []complex64
	wide []complex128
}

func isPow2(n int) bool { return n&(n-1) == 0 }

// NewGoPlan builds a pure Go plan.
func NewGoPlan(n int, dir Direction) (Plan, error) {
	if err := dsp.CheckLen(n); err != nil {
		return nil, err
	}
	gp := &goPlan{dir: dir, out: make([]complex64, n)}
	if !isPow2(n) {
		gp.wide = make([]complex128, n)
		return gp, nil
	}
	p, err := algofft.NewPlan32(n)
	if err != nil {
		return nil, errors.Wrapf(dsp.ErrArgBounds, "fft plan for %d: %v", n, err)
	}
	gp.p = p
	return gp, nil
}

func (gp *goPlan) Len() int             { return len(gp.out) }
func (gp *goPlan) Direction() Direction { return gp.dir }
func (gp *goPlan) Close()               {}

func (gp *goPlan) Execute(buf []complex64) error {
	if gp.p == nil {
		return gp.executeWide(buf)
	}
	var err error
	if gp.dir == Inverse {
		err = gp.p.Inverse(gp.out, buf)
	} else {
		err = gp.p.Forward(gp.out, buf)
	}
	if err != nil {
		return errors.Wrap(err, "fft")
	}
	copy(buf, gp.out)
	return nil
}

func (gp *goPlan) executeWide(buf []complex64) error {
	if len(buf) != len(gp.wide) {
		return errors.Wrapf(dsp.ErrArgBounds, "fft block %d, plan %d", len(buf), len(gp.wide))
	}
	for i, v := range buf {
		gp.wide[i] = complex128(v)
	}
	var res []complex128
	if gp.dir == Inverse {
		res = dspfft.IFFT(gp.wide)
	} else {
		res = dspfft.FFT(gp.wide)
	}
	for i, v := range res {
		buf[i] = complex64(v)
	}
	return nil
}

// Transform is the fft stage: optional conjugation, then a forward FFT
// followed by a channel swap, or a channel unswap followed by an inverse FFT.
type Transform struct {
	plan      Plan
	conjugate bool
}

func NewTransform(p Plan, conjugate bool) *Transform {
	return &Transform{plan: p, conjugate: conjugate}
}

func (t *Transform) Apply(buf []complex64) error {
	if len(buf) != t.plan.Len() {
		return errors.Wrapf(dsp.ErrArgBounds, "fft block %d, plan %d", len(buf), t.plan.Len())
	}
	if t.conjugate {
		dsp.Conjugate(buf)
	}
	if t.plan.Direction() == Inverse {
		dsp.ChannelUnswap(buf)
		return t.plan.Execute(buf)
	}
	if err := t.plan.Execute(buf); err != nil {
		return err
	}
	return dsp.ChannelSwap(buf)
}
