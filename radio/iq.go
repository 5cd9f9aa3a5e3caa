package radio

import (
	"encoding/binary"
	"io"
	"math"
)

// SampleBytes is the size of one cf32 sample on the wire.
const SampleBytes = 8

// IQReader reads little-endian float32 (I, Q) pairs.
type IQReader struct {
	r   io.Reader
	buf []byte
}

// NewIQReader takes a reader that uses cf32 I/Q samples.
func NewIQReader(r io.Reader) *IQReader {
	if r == nil {
		panic("nil reader")
	}
	return &IQReader{r: r}
}

func (iq *IQReader) fill(n int) ([]byte, error) {
	if cap(iq.buf) < n {
		iq.buf = make([]byte, n)
	}
	b := iq.buf[:n]
	if _, err := io.ReadFull(iq.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadBlock fills samps completely or returns io.EOF / io.ErrUnexpectedEOF.
func (iq *IQReader) ReadBlock(samps []complex64) error {
	b, err := iq.fill(len(samps) * SampleBytes)
	if err != nil {
		return err
	}
	for i := range samps {
		samps[i] = complex(
			math.Float32frombits(binary.LittleEndian.Uint32(b[8*i:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[8*i+4:])))
	}
	return nil
}

// ReadFloats fills vals with little-endian float32 values.
func (iq *IQReader) ReadFloats(vals []float32) error {
	b, err := iq.fill(len(vals) * 4)
	if err != nil {
		return err
	}
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return nil
}

type IQWriter struct {
	w   io.Writer
	buf []byte
}

func NewIQWriter(w io.Writer) *IQWriter { return &IQWriter{w: w} }

func (iq *IQWriter) grow(n int) []byte {
	if cap(iq.buf) < n {
		iq.buf = make([]byte, n)
	}
	return iq.buf[:n]
}

func (iq *IQWriter) Write64(out []complex64) error {
	buf := iq.grow(SampleBytes * len(out))
	for i := range out {
		binary.LittleEndian.PutUint32(buf[8*i:], math.Float32bits(real(out[i])))
		binary.LittleEndian.PutUint32(buf[8*i+4:], math.Float32bits(imag(out[i])))
	}
	_, err := iq.w.Write(buf)
	return err
}

// WriteFloats writes a bare little-endian float32 stream.
func (iq *IQWriter) WriteFloats(out []float32) error {
	buf := iq.grow(4 * len(out))
	for i := range out {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(out[i]))
	}
	_, err := iq.w.Write(buf)
	return err
}
