package imaging

import (
	"io"

	"github.com/pkg/errors"

	"github.com/chzchzchz/setikit/dsp"
	"github.com/chzchzchz/setikit/radio"
)

// TFPGeometry describes a time-frequency power file: each row holds RowWidth
// float32 bins split into Channels channels, each channel cut into Strips
// sub-images.
type TFPGeometry struct {
	RowWidth int
	Channels int
	Strips   int
	// Context is how many strips are read side by side to compute scaling.
	Context int
	MaxRows int
}

var DefaultTFP = TFPGeometry{
	RowWidth: 8388608,
	Channels: 4096,
	Strips:   8,
	Context:  5,
	MaxRows:  340,
}

func (g TFPGeometry) ChanWidth() int  { return g.RowWidth / g.Channels }
func (g TFPGeometry) StripWidth() int { return g.ChanWidth() / g.Strips }

// RowOffset is the bin offset, within a row, of the context read for strip
// ofst of channel ch. Channel 0 is centered on the row midpoint.
func (g TFPGeometry) RowOffset(ch, ofst int) int64 {
	sw := int64(g.StripWidth())
	return int64(g.RowWidth/2) - int64(g.ChanWidth()/2) + int64(ch)*int64(g.ChanWidth()) +
		int64(ofst)*sw - int64(g.Context/2)*sw
}

// ReadStrip extracts one power-scaled strip per row until MaxRows or the
// end of the file.
func (g TFPGeometry) ReadStrip(r io.ReaderAt, ch, ofst int) (*Image, error) {
	rowOfst := g.RowOffset(ch, ofst)
	sw := g.StripWidth()
	cw := g.Context * sw
	if sw <= 0 || rowOfst < 0 || rowOfst+int64(cw) > int64(g.RowWidth) {
		return nil, errors.Wrapf(dsp.ErrArgBounds, "channel %d offset %d outside row", ch, ofst)
	}
	wide, err := New(g.MaxRows, cw)
	if err != nil {
		return nil, err
	}
	rows := 0
	for ; rows < g.MaxRows; rows++ {
		off := (int64(rows)*int64(g.RowWidth) + rowOfst) * 4
		sr := radio.NewIQReader(io.NewSectionReader(r, off, int64(cw)*4))
		if err := sr.ReadFloats(wide.Row(rows)); err != nil {
			if !dsp.IsEOF(err) {
				return nil, errors.Wrap(dsp.ErrStreamRead, err.Error())
			}
			break
		}
	}
	wide.Rows, wide.Pix = rows, wide.Pix[:rows*cw]
	PowerScale(wide)

	out := &Image{Rows: rows, Cols: sw, Pix: make([]float32, rows*sw)}
	mid := (g.Context / 2) * sw
	for i := 0; i < rows; i++ {
		copy(out.Row(i), wide.Row(i)[mid:mid+sw])
	}
	return out, nil
}
