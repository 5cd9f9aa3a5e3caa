// Package dsp holds the block-oriented sample transforms and the loops that
// drive them over a cf32 stream.
package dsp

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	MaxSamplesLen  = 134217728
	MaxWindowLen   = 134217728
	MaxZoomLen     = 134217728
	SamplesPerRead = 1000000
	// Stage1FFTLen is the channel count of the first-stage channelizer.
	Stage1FFTLen = 4096
)

// BlockReader reads exactly len(samps) samples or fails.
type BlockReader interface {
	ReadBlock(samps []complex64) error
}

type BlockWriter interface {
	Write64(samps []complex64) error
}

type FloatWriter interface {
	WriteFloats(vals []float32) error
}

// Filter transforms a block in place.
type Filter interface {
	Apply(samps []complex64) error
}

// FilterFunc adapts a plain function to Filter.
type FilterFunc func(samps []complex64) error

func (f FilterFunc) Apply(samps []complex64) error { return f(samps) }

// Block maps InLen input samples to OutLen output samples.
type Block interface {
	InLen() int
	OutLen() int
	Process(in, out []complex64) error
}

// CheckLen enforces the [2, MaxSamplesLen] block length bound.
func CheckLen(n int) error {
	return checkRange(n, 2, MaxSamplesLen, "block length")
}

func checkRange(n, lo, hi int, what string) error {
	if n < lo || n > hi {
		return errors.Wrapf(ErrArgBounds, "%s %d not in [%d, %d]", what, n, lo, hi)
	}
	return nil
}

// IsEOF reports whether err is the graceful end of a block stream.
func IsEOF(err error) bool {
	err = errors.Cause(err)
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

func readErr(err error) error {
	if IsEOF(err) {
		return nil
	}
	return errors.Wrap(ErrStreamRead, err.Error())
}

func writeErr(err error) error {
	return errors.Wrap(ErrStreamWrite, err.Error())
}

// RunFilter applies f to every full n-sample block of r until a short read.
func RunFilter(ctx context.Context, r BlockReader, w BlockWriter, n int, f Filter) error {
	if err := CheckLen(n); err != nil {
		return err
	}
	buf := make([]complex64, n)
	blocks := 0
	defer func() {
		logrus.WithFields(logrus.Fields{"blocks": blocks, "len": n}).Debug("filter done")
	}()
	for ctx.Err() == nil {
		if err := r.ReadBlock(buf); err != nil {
			return readErr(err)
		}
		if err := f.Apply(buf); err != nil {
			return err
		}
		if err := w.Write64(buf); err != nil {
			return writeErr(err)
		}
		blocks++
	}
	return ctx.Err()
}

// RunBlock drives a reshaping block.
func RunBlock(ctx context.Context, r BlockReader, w BlockWriter, b Block) error {
	in, out := make([]complex64, b.InLen()), make([]complex64, b.OutLen())
	blocks := 0
	defer func() {
		logrus.WithFields(logrus.Fields{
			"blocks": blocks,
			"in":     len(in),
			"out":    len(out),
		}).Debug("block done")
	}()
	for ctx.Err() == nil {
		if err := r.ReadBlock(in); err != nil {
			return readErr(err)
		}
		if err := b.Process(in, out); err != nil {
			return err
		}
		if err := w.Write64(out); err != nil {
			return writeErr(err)
		}
		blocks++
	}
	return ctx.Err()
}
