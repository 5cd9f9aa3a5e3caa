// Package window builds the named tapering windows used by the window and
// fft stages.
package window

import (
	"math"
	"sort"

	"github.com/mjibson/go-dsp/window"
	"github.com/pkg/errors"

	"github.com/chzchzchz/setikit/dsp"
)

// Kernel evaluates coefficient n of a length-point window.
type Kernel func(n, length int) float64

// GaussianSigma is the width of the gaussian window relative to its half length.
const GaussianSigma = 0.4

var kernels = map[string]Kernel{
	"sine":       sine,
	"cosine":     sine,
	"lanczos":    lanczos,
	"triangular": triangular,
	"gaussian":   gaussian,
	"bothalf":    bottomHalf,
	"tophalf":    topHalf,
}

// whole-array windows from go-dsp
var tables = map[string]func(int) []float64{
	"hann":        window.Hann,
	"hamming":     window.Hamming,
	"bartlett":    window.Bartlett,
	"blackman":    window.Blackman,
	"flattop":     window.FlatTop,
	"rectangular": window.Rectangular,
}

// Names lists every known window name.
func Names() []string {
	var ret []string
	for k := range kernels {
		ret = append(ret, k)
	}
	for k := range tables {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Make returns the named window with length coefficients.
func Make(name string, length int) ([]float32, error) {
	if length < 2 || length > dsp.MaxWindowLen {
		return nil, errors.Wrapf(dsp.ErrArgBounds, "window length %d not in [2, %d]", length, dsp.MaxWindowLen)
	}
	if f, ok := tables[name]; ok {
		w := f(length)
		ret := make([]float32, length)
		for i, v := range w {
			ret[i] = float32(v)
		}
		return ret, nil
	}
	k, ok := kernels[name]
	if !ok {
		return nil, errors.Wrapf(dsp.ErrUnknownWindow, "window %q", name)
	}
	return FromKernel(k, length), nil
}

func FromKernel(k Kernel, length int) []float32 {
	ret := make([]float32, length)
	for n := range ret {
		ret[n] = float32(k(n, length))
	}
	return ret
}

func sine(n, length int) float64 {
	return math.Sin(math.Pi * float64(n) / float64(length-1))
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

func lanczos(n, length int) float64 {
	return sinc(2*float64(n)/float64(length-1) - 1)
}

func triangular(n, length int) float64 {
	half := float64(length) / 2
	return 1 - math.Abs((float64(n)-float64(length-1)/2)/half)
}

func gaussian(n, length int) float64 {
	half := float64(length-1) / 2
	x := (float64(n) - half) / (GaussianSigma * half)
	return math.Exp(-0.5 * x * x)
}

func bottomHalf(n, length int) float64 {
	if n < length/2 {
		return 1
	}
	return 0
}

func topHalf(n, length int) float64 {
	if n >= length/2 {
		return 1
	}
	return 0
}
