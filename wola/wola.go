// Package wola implements the weighted overlap-add polyphase front end: a
// multi-fold window folds folds*fftlen samples of history into one
// fftlen-point frame ready for an FFT.
package wola

import (
	"math"

	"github.com/pkg/errors"

	"github.com/chzchzchz/setikit/dsp"
)

// Config holds the channelizer parameters.
type Config struct {
	FFTLen int
	Folds  int
	// Overlap is the percentage of each frame shared with the previous one.
	// Only 0, 25 and 50 change the advance; anything else acts like 0.
	Overlap int
}

func (c Config) Validate() error {
	if c.FFTLen < 2 || c.FFTLen > dsp.MaxZoomLen {
		return errors.Wrapf(dsp.ErrArgBounds, "zoom length %d not in [2, %d]", c.FFTLen, dsp.MaxZoomLen)
	}
	if c.Folds < 1 {
		return errors.Wrapf(dsp.ErrArgBounds, "folds %d < 1", c.Folds)
	}
	if c.WindowLen() > dsp.MaxWindowLen {
		return errors.Wrapf(dsp.ErrArgBounds, "window length %d > %d", c.WindowLen(), dsp.MaxWindowLen)
	}
	return nil
}

func (c Config) WindowLen() int { return c.FFTLen * c.Folds }

// ReadLen is the number of new samples consumed per frame.
func ReadLen(fftlen, overlap int) int {
	switch overlap {
	case 25:
		return (fftlen * 3) / 4
	case 50:
		return (fftlen * 2) / 4
	}
	return fftlen
}

// KnownOverlap reports whether overlap selects a dedicated advance.
func KnownOverlap(overlap int) bool {
	return overlap == 0 || overlap == 25 || overlap == 50
}

// NewWindow builds the Hann-tapered sum of folds/2+1 cosines. Coefficients
// are accumulated in single precision.
func NewWindow(wndwlen, folds int) []float32 {
	sinusoids := folds/2 + 1
	w := make([]float32, wndwlen)
	mid := float64(wndwlen-1) / 2.0
	for n := range w {
		h := float32(0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(n)/float64(wndwlen-1))))
		var acc float32
		for s := 0; s < sinusoids; s++ {
			acc += float32(math.Cos((-2.0 * math.Pi / float64(wndwlen)) * (float64(s) * (float64(n) - mid))))
		}
		acc *= h
		acc /= float32(sinusoids)
		w[n] = acc
	}
	return w
}

// Engine owns the window, the circular history and the frame accumulator.
type Engine struct {
	cfg     Config
	window  []float32
	hist    []complex64
	frame   []complex64
	staging []complex64
	// cursor is both the oldest history sample and the next write slot.
	cursor int
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	wl := cfg.WindowLen()
	return &Engine{
		cfg:     cfg,
		window:  NewWindow(wl, cfg.Folds),
		hist:    make([]complex64, wl),
		frame:   make([]complex64, cfg.FFTLen),
		staging: make([]complex64, ReadLen(cfg.FFTLen, cfg.Overlap)),
	}, nil
}

// Prime fills the whole history. Running out of input here is an error.
func (e *Engine) Prime(r dsp.BlockReader) error {
	if err := r.ReadBlock(e.hist); err != nil {
		return errors.Wrapf(dsp.ErrStreamRead, "priming %d samples: %v", len(e.hist), err)
	}
	e.cursor = 0
	return nil
}

// Frame folds the history against the window. The returned slice is
// reused by the next call.
func (e *Engine) Frame() []complex64 {
	clear(e.frame)
	smpli, ffti := e.cursor, 0
	for _, wv := range e.window {
		v := e.hist[smpli]
		e.frame[ffti] += complex(wv*real(v), wv*imag(v))
		if smpli++; smpli == len(e.hist) {
			smpli = 0
		}
		if ffti++; ffti == len(e.frame) {
			ffti = 0
		}
	}
	return e.frame
}

// Advance reads the next staging block into the history. A short read is
// returned as is so the caller can end the stream.
func (e *Engine) Advance(r dsp.BlockReader) error {
	if err := r.ReadBlock(e.staging); err != nil {
		return err
	}
	e.Push(e.staging)
	return nil
}

// Push writes samples into the history at the cursor.
func (e *Engine) Push(samps []complex64) {
	for _, v := range samps {
		e.hist[e.cursor] = v
		if e.cursor++; e.cursor == len(e.hist) {
			e.cursor = 0
		}
	}
}
