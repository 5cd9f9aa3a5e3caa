package dsp

import (
	"strings"

	"github.com/pkg/errors"
)

type lens struct{ in, out int }

func (l lens) InLen() int  { return l.in }
func (l lens) OutLen() int { return l.out }

func newLens(in, out int) (lens, error) {
	if err := CheckLen(in); err != nil {
		return lens{}, err
	}
	if err := checkRange(out, 1, MaxSamplesLen, "output length"); err != nil {
		return lens{}, err
	}
	return lens{in, out}, nil
}

func shrinking(in, out int) (lens, error) {
	l, err := newLens(in, out)
	if err == nil && out >= in {
		err = errors.Wrapf(ErrArgBounds, "output length %d must be less than input length %d", out, in)
	}
	return l, err
}

// Bin averages runs of in/out samples.
type Bin struct {
	lens
	size int
}

func NewBin(in, out int) (*Bin, error) {
	l, err := shrinking(in, out)
	if err != nil {
		return nil, err
	}
	return &Bin{lens: l, size: in / out}, nil
}

func (b *Bin) Process(in, out []complex64) error {
	div := float32(b.size)
	for k := range out {
		var re, im float32
		for _, v := range in[k*b.size : (k+1)*b.size] {
			re += real(v) / div
			im += imag(v) / div
		}
		out[k] = complex(re, im)
	}
	return nil
}

// MaxHold keeps the largest-magnitude sample of each bin.
type MaxHold struct {
	lens
	size int
}

func NewMaxHold(in, out int) (*MaxHold, error) {
	l, err := shrinking(in, out)
	if err != nil {
		return nil, err
	}
	return &MaxHold{lens: l, size: in / out}, nil
}

func (m *MaxHold) Process(in, out []complex64) error {
	for k := range out {
		bin := in[k*m.size : (k+1)*m.size]
		best, bestPow := bin[0], float32(-1)
		for _, v := range bin {
			if p := real(v)*real(v) + imag(v)*imag(v); p > bestPow {
				best, bestPow = v, p
			}
		}
		out[k] = best
	}
	return nil
}

// SideChop drops in-out samples from one edge.
type SideChop struct {
	lens
	left bool
}

func NewSideChop(in, out int, side string) (*SideChop, error) {
	l, err := shrinking(in, out)
	if err != nil {
		return nil, err
	}
	sc := &SideChop{lens: l}
	switch strings.ToLower(side) {
	case "l", "left":
		sc.left = true
	case "r", "right":
	default:
		return nil, errors.Wrapf(ErrArgBounds, "side %q is not l or r", side)
	}
	return sc, nil
}

func (sc *SideChop) Process(in, out []complex64) error {
	if sc.left {
		copy(out, in[sc.in-sc.out:])
	} else {
		copy(out, in[:sc.out])
	}
	return nil
}

// Chop drops the same fraction of samples from both edges.
type Chop struct {
	lens
	discard int
}

func NewChop(in int, fraction float32) (*Chop, error) {
	if err := CheckLen(in); err != nil {
		return nil, err
	}
	if !(fraction > 0 && fraction < 0.5) {
		return nil, errors.Wrapf(ErrArgBounds, "chop fraction %g not in (0, 0.5)", fraction)
	}
	discard := int(float32(in) * fraction)
	out := in - 2*discard
	return &Chop{lens: lens{in, out}, discard: discard}, nil
}

func (c *Chop) Process(in, out []complex64) error {
	copy(out, in[c.discard:c.discard+c.out])
	return nil
}

// Pad centers each block in a zeroed block of the output length.
type Pad struct {
	lens
	offset int
}

func NewPad(in, out int) (*Pad, error) {
	l, err := newLens(in, out)
	if err != nil {
		return nil, err
	}
	if err := CheckLen(out); err != nil {
		return nil, err
	}
	if out <= in {
		return nil, errors.Wrapf(ErrArgBounds, "output length %d must be greater than input length %d", out, in)
	}
	return &Pad{lens: l, offset: (out - in) / 2}, nil
}

func (p *Pad) Process(in, out []complex64) error {
	copy(out[p.offset:], in)
	return nil
}
