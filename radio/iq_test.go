package radio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIQRoundTrip(t *testing.T) {
	in := []complex64{complex(1, -2), complex(0.5, 3.25), complex(-7, 0)}
	var buf bytes.Buffer
	require.NoError(t, NewIQWriter(&buf).Write64(in))
	require.Equal(t, len(in)*SampleBytes, buf.Len())

	b := buf.Bytes()
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(b[0:])))
	assert.Equal(t, float32(-2), math.Float32frombits(binary.LittleEndian.Uint32(b[4:])))

	out := make([]complex64, len(in))
	r := NewIQReader(&buf)
	require.NoError(t, r.ReadBlock(out))
	assert.Equal(t, in, out)
	assert.ErrorIs(t, r.ReadBlock(out), io.EOF)
}

func TestIQReaderShortBlock(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewIQWriter(&buf).Write64(make([]complex64, 3)))
	// trailing partial sample
	buf.WriteByte(0)
	r := NewIQReader(&buf)
	assert.ErrorIs(t, r.ReadBlock(make([]complex64, 4)), io.ErrUnexpectedEOF)
}

func TestIQFloats(t *testing.T) {
	in := []float32{1, 2.5, -3}
	var buf bytes.Buffer
	require.NoError(t, NewIQWriter(&buf).WriteFloats(in))
	out := make([]float32, 3)
	require.NoError(t, NewIQReader(&buf).ReadFloats(out))
	assert.Equal(t, in, out)
}

func TestIntIQReader(t *testing.T) {
	tests := []struct {
		format Format
		in     []byte
		want   []complex64
	}{
		{FormatS8, []byte{0x05, 0xfe, 0x80, 0x7f}, []complex64{complex(5, 2), complex(-128, -127)}},
		{FormatU8, []byte{127, 255, 0, 127}, []complex64{complex(0, 1), complex(-127.0/128.0, 0)}},
		{FormatS16, []byte{0x00, 0x40, 0x00, 0xc0}, []complex64{complex(0.5, -0.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			out := make([]complex64, len(tt.want))
			require.NoError(t, NewIntIQReader(bytes.NewReader(tt.in), tt.format).ReadBlock(out))
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestIntIQReaderPartial(t *testing.T) {
	out := make([]complex64, 4)
	n, err := NewIntIQReader(bytes.NewReader([]byte{1, 2, 3, 4, 5}), FormatS8).ReadPartial(out)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, 2, n)
	assert.Equal(t, complex64(complex(3, -4)), out[1])
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"s8", "u8", "s16"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, s, f.String())
	}
	_, err := ParseFormat("f64")
	assert.EqualError(t, err, `unknown sample format "f64"`)
}

func TestHzBandRadians(t *testing.T) {
	band := HzBand{Center: 0, Width: 4096}
	assert.InDelta(t, 2*math.Pi/4096, band.RadiansPerSample(1), 1e-12)
	assert.True(t, band.Contains(-2048))
	assert.False(t, band.Contains(2049))
	assert.Zero(t, HzBand{}.RadiansPerSample(5))
}
