package dsp

import (
	"math"

	"github.com/sirupsen/logrus"
)

func mag(v complex64) float32 {
	re, im := real(v), imag(v)
	return float32(math.Sqrt(float64(re*re + im*im)))
}

// Abs replaces each sample with (|z|, 0).
func Abs(samps []complex64) error {
	for i, v := range samps {
		samps[i] = complex(mag(v), 0)
	}
	return nil
}

// Power replaces each sample with (|z|^2, 0).
func Power(samps []complex64) error {
	for i, v := range samps {
		re, im := real(v), imag(v)
		samps[i] = complex(re*re+im*im, 0)
	}
	return nil
}

func Conjugate(samps []complex64) error {
	for i, v := range samps {
		samps[i] = complex(real(v), -imag(v))
	}
	return nil
}

// Phase normalizes each sample to unit magnitude. Zero samples are left as is.
func Phase(samps []complex64) error {
	for i, v := range samps {
		if m := mag(v); m > 0 {
			samps[i] = complex(real(v)/m, imag(v)/m)
		}
	}
	return nil
}

// SubAvg removes the block mean, accumulated in double precision.
func SubAvg(samps []complex64) error {
	var sumr, sumi float64
	for _, v := range samps {
		sumr += float64(real(v))
		sumi += float64(imag(v))
	}
	avg := complex(float32(sumr/float64(len(samps))), float32(sumi/float64(len(samps))))
	for i := range samps {
		samps[i] -= avg
	}
	return nil
}

// Offset adds a constant to every sample.
type Offset struct {
	Re, Im float32
}

func (o Offset) Apply(samps []complex64) error {
	d := complex(o.Re, o.Im)
	for i := range samps {
		samps[i] += d
	}
	return nil
}

// ScaleRotate multiplies every sample by Scale*e^(j*Radians).
type ScaleRotate struct {
	Scale   float32
	Radians float32
}

func (sr ScaleRotate) Apply(samps []complex64) error {
	c := float32(math.Cos(float64(sr.Radians)))
	s := float32(math.Sin(float64(sr.Radians)))
	for i, v := range samps {
		re, im := real(v), imag(v)
		samps[i] = complex(sr.Scale*(re*c-im*s), sr.Scale*(im*c+re*s))
	}
	return nil
}

const twoPi = float32(2 * math.Pi)

// Mixer shifts the spectrum down by Radians per sample. The phase carries
// across blocks.
type Mixer struct {
	radians float32
	angle   float32
}

func NewMixer(radiansPerSample float32) *Mixer {
	if math.Abs(float64(radiansPerSample)) > 2*math.Pi {
		logrus.WithField("radians", radiansPerSample).Warn("|radians| > 2*pi, aliasing will occur")
	}
	return &Mixer{radians: -radiansPerSample}
}

// ChannelRadians converts a first-stage channel number to radians per sample.
func ChannelRadians(channel float32) float32 {
	return twoPi * (channel / Stage1FFTLen)
}

func (m *Mixer) Apply(samps []complex64) error {
	for i, v := range samps {
		m.angle += m.radians
		if m.angle > twoPi {
			m.angle -= twoPi
		}
		if m.angle < -twoPi {
			m.angle += twoPi
		}
		c := float32(math.Cos(float64(m.angle)))
		s := float32(math.Sin(float64(m.angle)))
		re, im := real(v), imag(v)
		samps[i] = complex(re*c-im*s, im*c+re*s)
	}
	return nil
}

// Weights multiplies sample i by w[i]; used for windows and bandpass shapes.
type Weights []float32

func (w Weights) Apply(samps []complex64) error {
	if len(samps) != len(w) {
		return checkRange(len(samps), len(w), len(w), "weighted block length")
	}
	for i, v := range samps {
		samps[i] = complex(real(v)*w[i], imag(v)*w[i])
	}
	return nil
}

// ChannelSwap moves the negative frequencies of a forward FFT to the front
// so the DC bin lands at index n/2.
func ChannelSwap(samps []complex64) error {
	rotateLeft(samps, (len(samps)+1)/2)
	return nil
}

// ChannelUnswap undoes ChannelSwap.
func ChannelUnswap(samps []complex64) error {
	rotateLeft(samps, len(samps)/2)
	return nil
}

func rotateLeft(s []complex64, k int) {
	if len(s) == 0 {
		return
	}
	k %= len(s)
	reverse(s[:k])
	reverse(s[k:])
	reverse(s)
}

func reverse(s []complex64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
