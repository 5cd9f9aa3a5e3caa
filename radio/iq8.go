package radio

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Format is the encoding of an integer IQ capture.
type Format int

const (
	// FormatS8 is signed 8-bit pairs with the Q axis inverted.
	FormatS8 Format = iota
	// FormatU8 is rtl-sdr style unsigned 8-bit pairs centered at 127.
	FormatU8
	// FormatS16 is signed little-endian 16-bit pairs.
	FormatS16
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "s8":
		return FormatS8, nil
	case "u8":
		return FormatU8, nil
	case "s16":
		return FormatS16, nil
	}
	return 0, errors.Errorf("unknown sample format %q", s)
}

// PairBytes is the number of bytes holding one (I, Q) pair.
func (f Format) PairBytes() int {
	if f == FormatS16 {
		return 4
	}
	return 2
}

func (f Format) String() string {
	switch f {
	case FormatS8:
		return "s8"
	case FormatU8:
		return "u8"
	case FormatS16:
		return "s16"
	}
	return "unknown"
}

// IntIQReader converts integer IQ captures into complex64 samples.
type IntIQReader struct {
	r      io.Reader
	format Format
	buf    []byte
}

func NewIntIQReader(r io.Reader, f Format) *IntIQReader {
	if r == nil {
		panic("nil reader")
	}
	return &IntIQReader{r: r, format: f}
}

// ReadBlock fills samps completely or returns io.EOF / io.ErrUnexpectedEOF.
func (iq *IntIQReader) ReadBlock(samps []complex64) error {
	_, err := iq.ReadPartial(samps)
	return err
}

// ReadPartial converts as many whole pairs as are available. A partial block
// comes back with io.ErrUnexpectedEOF alongside the number of samples read.
func (iq *IntIQReader) ReadPartial(samps []complex64) (int, error) {
	pb := iq.format.PairBytes()
	n := len(samps) * pb
	if cap(iq.buf) < n {
		iq.buf = make([]byte, n)
	}
	b := iq.buf[:n]
	got, err := io.ReadFull(iq.r, b)
	pairs := got / pb
	for i := 0; i < pairs; i++ {
		switch iq.format {
		case FormatS8:
			samps[i] = complex(float32(int8(b[2*i])), -float32(int8(b[2*i+1])))
		case FormatU8:
			samps[i] = complex(
				(float32(b[2*i])-127)/128.0,
				(float32(b[2*i+1])-127)/128.0)
		case FormatS16:
			samps[i] = complex(
				float32(int16(binary.LittleEndian.Uint16(b[4*i:])))/32768.0,
				float32(int16(binary.LittleEndian.Uint16(b[4*i+2:])))/32768.0)
		}
	}
	return pairs, err
}
