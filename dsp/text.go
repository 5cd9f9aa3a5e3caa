package dsp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FloatReader reads exactly len(vals) floats or fails.
type FloatReader interface {
	ReadFloats(vals []float32) error
}

// RunASCII prints each sample as "re, im".
func RunASCII(ctx context.Context, r BlockReader, w io.Writer, n int) error {
	if err := CheckLen(n); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	in := make([]complex64, n)
	for ctx.Err() == nil {
		if err := r.ReadBlock(in); err != nil {
			if err = readErr(err); err != nil {
				return err
			}
			break
		}
		for _, v := range in {
			if _, err := fmt.Fprintf(bw, "%f, %f\n", real(v), imag(v)); err != nil {
				return writeErr(err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return writeErr(err)
	}
	return ctx.Err()
}

// RunReadFloats prints a float32 stream as text, cols values per line.
func RunReadFloats(ctx context.Context, r FloatReader, w io.Writer, cols int) error {
	if cols < 1 {
		return errors.Wrapf(ErrArgBounds, "column count %d < 1", cols)
	}
	bw := bufio.NewWriter(w)
	val := make([]float32, 1)
	for col := 0; ctx.Err() == nil; {
		if err := r.ReadFloats(val); err != nil {
			if err = readErr(err); err != nil {
				return err
			}
			break
		}
		if _, err := fmt.Fprintf(bw, " %e", val[0]); err != nil {
			return writeErr(err)
		}
		if col++; col == cols {
			col = 0
			if err := bw.WriteByte('\n'); err != nil {
				return writeErr(err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return writeErr(err)
	}
	return ctx.Err()
}

// ReadWeights parses one coefficient per line; the count must be n.
func ReadWeights(r io.Reader, n int) (Weights, error) {
	w := make(Weights, 0, n)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		txt := strings.TrimSpace(sc.Text())
		if txt == "" {
			continue
		}
		if len(w) == n {
			return nil, errors.Wrapf(ErrArgBounds, "bandpass has more than %d coefficients", n)
		}
		v, err := strconv.ParseFloat(txt, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrArgBounds, "bandpass line %d: %v", line, err)
		}
		w = append(w, float32(v))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(ErrStreamRead, err.Error())
	}
	if len(w) < n {
		return nil, errors.Wrapf(ErrArgBounds, "bandpass has %d coefficients, want %d", len(w), n)
	}
	return w, nil
}

// LoadWeights reads a bandpass file with ReadWeights.
func LoadWeights(path string, n int) (Weights, error) {
	if err := checkRange(n, 2, MaxWindowLen, "bandpass length"); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrStreamOpen, err.Error())
	}
	defer f.Close()
	return ReadWeights(f, n)
}

// WriteFloatLines prints one "%e" value per line.
func WriteFloatLines(w io.Writer, vals []float32) error {
	bw := bufio.NewWriter(w)
	for _, v := range vals {
		if _, err := fmt.Fprintf(bw, "%e\n", v); err != nil {
			return writeErr(err)
		}
	}
	if err := bw.Flush(); err != nil {
		return writeErr(err)
	}
	return nil
}
