package wola

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chzchzchz/setikit/dsp"
)

type sliceReader struct{ samps []complex64 }

func (r *sliceReader) ReadBlock(out []complex64) error {
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

type frameWriter struct{ frames [][]complex64 }

func (w *frameWriter) Write64(in []complex64) error {
	w.frames = append(w.frames, append([]complex64(nil), in...))
	return nil
}

func ramp(n int) []complex64 {
	s := make([]complex64, n)
	for i := range s {
		s[i] = complex(float32(i+1), float32(2*i))
	}
	return s
}

func TestReadLen(t *testing.T) {
	tests := []struct{ overlap, want int }{
		{0, 1024},
		{25, 768},
		{50, 512},
		{10, 1024},
		{75, 1024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadLen(1024, tt.overlap), "overlap %d", tt.overlap)
	}
	assert.True(t, KnownOverlap(25))
	assert.False(t, KnownOverlap(75))
}

func TestWindowSymmetric(t *testing.T) {
	for _, fftlen := range []int{2, 4, 7, 16} {
		for folds := 1; folds <= 5; folds++ {
			wl := fftlen * folds
			w := NewWindow(wl, folds)
			require.Len(t, w, wl)
			for i := range w {
				assert.InDelta(t, w[i], w[wl-1-i], 1e-6, "fftlen %d folds %d i %d", fftlen, folds, i)
			}
		}
	}
}

func TestWindowSingleFoldIsHann(t *testing.T) {
	w := NewWindow(4, 1)
	want := []float32{0, 0.75, 0.75, 0}
	for i := range want {
		assert.InDelta(t, want[i], w[i], 1e-6)
	}
}

func TestDumpWindow(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{FFTLen: 8, Folds: 3}
	require.NoError(t, DumpWindow(&buf, cfg))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 24)
	w := NewWindow(24, 3)
	for i, l := range lines {
		v, err := strconv.ParseFloat(l, 32)
		require.NoError(t, err)
		assert.InEpsilon(t, float64(w[i])+1, v+1, 1e-6)
	}
}

func TestRunRamp(t *testing.T) {
	cfg := Config{FFTLen: 4, Folds: 1}
	in := ramp(8)
	w := &frameWriter{}
	require.NoError(t, Run(context.Background(), &sliceReader{samps: in}, w, cfg))
	require.Len(t, w.frames, 2)
	win := NewWindow(4, 1)
	for f, frame := range w.frames {
		for i, v := range frame {
			x := in[4*f+i]
			assert.Equal(t, complex(win[i]*real(x), win[i]*imag(x)), v)
		}
	}
}

func TestRunZeros(t *testing.T) {
	cfg := Config{FFTLen: 8, Folds: 4, Overlap: 25}
	w := &frameWriter{}
	require.NoError(t, Run(context.Background(), &sliceReader{samps: make([]complex64, 32+6*3)}, w, cfg))
	assert.Len(t, w.frames, 4)
	for _, frame := range w.frames {
		for _, v := range frame {
			assert.Zero(t, v)
		}
	}
}

// naive folds the newest wl samples of in, oldest first.
func naive(win []float32, in []complex64, fftlen int) []complex64 {
	out := make([]complex64, fftlen)
	base := len(in) - len(win)
	for i, wv := range win {
		v := in[base+i]
		out[i%fftlen] += complex(wv*real(v), wv*imag(v))
	}
	return out
}

func TestRunFolds(t *testing.T) {
	for _, overlap := range []int{0, 25, 50} {
		cfg := Config{FFTLen: 8, Folds: 3, Overlap: overlap}
		readlen := ReadLen(cfg.FFTLen, overlap)
		in := ramp(cfg.WindowLen() + 5*readlen + 1)
		w := &frameWriter{}
		require.NoError(t, Run(context.Background(), &sliceReader{samps: in}, w, cfg))
		require.Len(t, w.frames, 6)
		win := NewWindow(cfg.WindowLen(), cfg.Folds)
		for f, frame := range w.frames {
			want := naive(win, in[:cfg.WindowLen()+f*readlen], cfg.FFTLen)
			for i := range want {
				assert.InDelta(t, real(want[i]), real(frame[i]), 1e-3, "overlap %d frame %d bin %d", overlap, f, i)
				assert.InDelta(t, imag(want[i]), imag(frame[i]), 1e-3, "overlap %d frame %d bin %d", overlap, f, i)
			}
		}
	}
}

func TestRunPrimeShort(t *testing.T) {
	w := &frameWriter{}
	err := Run(context.Background(), &sliceReader{samps: ramp(7)}, w, Config{FFTLen: 4, Folds: 2})
	assert.ErrorIs(t, err, dsp.ErrStreamRead)
	assert.Equal(t, -4, dsp.Code(err))
	assert.Empty(t, w.frames)
}

func TestConfigValidate(t *testing.T) {
	for _, cfg := range []Config{
		{FFTLen: 1, Folds: 1},
		{FFTLen: 4, Folds: 0},
		{FFTLen: dsp.MaxZoomLen + 1, Folds: 1},
		{FFTLen: dsp.MaxZoomLen, Folds: 2},
	} {
		err := cfg.Validate()
		assert.ErrorIs(t, err, dsp.ErrArgBounds, "%+v", cfg)
		_, err = NewEngine(cfg)
		assert.Equal(t, -1, dsp.Code(err))
	}
	assert.NoError(t, Config{FFTLen: 2, Folds: 1}.Validate())
}

func TestEnginePushWraps(t *testing.T) {
	e, err := NewEngine(Config{FFTLen: 2, Folds: 2})
	require.NoError(t, err)
	require.NoError(t, e.Prime(&sliceReader{samps: ramp(4)}))
	e.Push([]complex64{9, 10, 11})
	assert.Equal(t, 3, e.cursor)
	assert.Equal(t, []complex64{9, 10, 11, ramp(4)[3]}, e.hist)
}
