package fft

import (
	"math"
	"math/rand"
	"testing"

	dspfft "github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chzchzchz/setikit/dsp"
)

func randBlock(n int, seed int64) []complex64 {
	rnd := rand.New(rand.NewSource(seed))
	s := make([]complex64, n)
	for i := range s {
		s[i] = complex(float32(rnd.NormFloat64()), float32(rnd.NormFloat64()))
	}
	return s
}

func widen(in []complex64) []complex128 {
	x := make([]complex128, len(in))
	for i, v := range in {
		x[i] = complex128(v)
	}
	return x
}

func reference(in []complex64) []complex128 { return dspfft.FFT(widen(in)) }

func assertClose(t *testing.T, want []complex128, got []complex64, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, real(want[i]), float64(real(got[i])), tol, "bin %d", i)
		assert.InDelta(t, imag(want[i]), float64(imag(got[i])), tol, "bin %d", i)
	}
}

func TestGoPlanForward(t *testing.T) {
	for _, n := range []int{2, 8, 64, 1024} {
		in := randBlock(n, int64(n))
		p, err := NewGoPlan(n, Forward)
		require.NoError(t, err)
		buf := append([]complex64(nil), in...)
		require.NoError(t, p.Execute(buf))
		assertClose(t, reference(in), buf, 1e-3*math.Sqrt(float64(n)))
	}
}

func TestGoPlanMixedRadix(t *testing.T) {
	for _, n := range []int{3, 6, 12, 40, 80, 100, 200, 1000, 1536, 1920, 2000, 4095} {
		in := randBlock(n, int64(n))
		tol := 1e-3 * math.Sqrt(float64(n))

		fwd, err := NewGoPlan(n, Forward)
		require.NoError(t, err)
		buf := append([]complex64(nil), in...)
		require.NoError(t, fwd.Execute(buf))
		assertClose(t, reference(in), buf, tol)

		inv, err := NewGoPlan(n, Inverse)
		require.NoError(t, err)
		buf = append(buf[:0], in...)
		require.NoError(t, inv.Execute(buf))
		assertClose(t, dspfft.IFFT(widen(in)), buf, 1e-4)
	}
}

func TestTransformRoundTripLengths(t *testing.T) {
	for _, n := range []int{3, 40, 1000, 1536, 4095} {
		in := randBlock(n, int64(n)+1)
		fwd, err := NewGoPlan(n, Forward)
		require.NoError(t, err)
		inv, err := NewGoPlan(n, Inverse)
		require.NoError(t, err)
		buf := append([]complex64(nil), in...)
		require.NoError(t, NewTransform(fwd, false).Apply(buf))
		require.NoError(t, NewTransform(inv, false).Apply(buf))
		assertClose(t, widen(in), buf, 1e-4)
	}
}

func TestGoPlanRoundTrip(t *testing.T) {
	in := randBlock(256, 1)
	fwd, err := NewGoPlan(256, Forward)
	require.NoError(t, err)
	inv, err := NewGoPlan(256, Inverse)
	require.NoError(t, err)
	buf := append([]complex64(nil), in...)
	require.NoError(t, fwd.Execute(buf))
	require.NoError(t, inv.Execute(buf))
	for i := range in {
		assert.InDelta(t, real(in[i]), real(buf[i]), 1e-4)
		assert.InDelta(t, imag(in[i]), imag(buf[i]), 1e-4)
	}
}

func TestTransformDCCentered(t *testing.T) {
	p, err := NewGoPlan(8, Forward)
	require.NoError(t, err)
	buf := make([]complex64, 8)
	for i := range buf {
		buf[i] = 1
	}
	require.NoError(t, NewTransform(p, false).Apply(buf))
	for i, v := range buf {
		if i == 4 {
			assert.InDelta(t, 8, real(v), 1e-5)
		} else {
			assert.InDelta(t, 0, real(v), 1e-5, "bin %d", i)
		}
	}
}

func TestTransformNegativeFirst(t *testing.T) {
	// a tone at -1 cycle per block lands left of the center bin
	n := 16
	buf := make([]complex64, n)
	for i := range buf {
		a := -2 * math.Pi * float64(i) / float64(n)
		buf[i] = complex(float32(math.Cos(a)), float32(math.Sin(a)))
	}
	p, err := NewGoPlan(n, Forward)
	require.NoError(t, err)
	require.NoError(t, NewTransform(p, false).Apply(buf))
	assert.InDelta(t, float64(n), real(buf[n/2-1]), 1e-3)
}

func TestTransformRoundTrip(t *testing.T) {
	in := randBlock(32, 7)
	fwd, err := NewGoPlan(32, Forward)
	require.NoError(t, err)
	inv, err := NewGoPlan(32, Inverse)
	require.NoError(t, err)
	buf := append([]complex64(nil), in...)
	require.NoError(t, NewTransform(fwd, false).Apply(buf))
	require.NoError(t, NewTransform(inv, false).Apply(buf))
	for i := range in {
		assert.InDelta(t, real(in[i]), real(buf[i]), 1e-4)
		assert.InDelta(t, imag(in[i]), imag(buf[i]), 1e-4)
	}
}

func TestTransformConjugate(t *testing.T) {
	in := randBlock(16, 3)
	p, err := NewGoPlan(16, Forward)
	require.NoError(t, err)
	a := append([]complex64(nil), in...)
	require.NoError(t, NewTransform(p, true).Apply(a))

	b := append([]complex64(nil), in...)
	dsp.Conjugate(b)
	require.NoError(t, NewTransform(p, false).Apply(b))
	assert.Equal(t, b, a)
}

func TestTransformErrors(t *testing.T) {
	_, err := NewGoPlan(1, Forward)
	assert.ErrorIs(t, err, dsp.ErrArgBounds)

	p, err := NewGoPlan(8, Forward)
	require.NoError(t, err)
	assert.ErrorIs(t, NewTransform(p, false).Apply(make([]complex64, 4)), dsp.ErrArgBounds)
}
