package radio

import "math"

type HzBand struct {
	Center uint64 `json:"center_hz"`
	Width  uint64 `json:"width_hz"`
}

func (hzb HzBand) BeginHz() float64 { return float64(hzb.Center) - float64(hzb.Width)/2.0 }
func (hzb HzBand) EndHz() float64   { return float64(hzb.Center) + float64(hzb.Width)/2.0 }

// Contains reports whether hz lies inside the band.
func (hzb HzBand) Contains(hz float64) bool {
	return hz >= hzb.BeginHz() && hz <= hzb.EndHz()
}

// RadiansPerSample gives the per-sample phase step that moves a tone at hz
// to the band center, for a band whose width is the sample rate.
func (hzb HzBand) RadiansPerSample(hz float64) float64 {
	if hzb.Width == 0 {
		return 0
	}
	return (hz - float64(hzb.Center)) * 2 * math.Pi / float64(hzb.Width)
}
