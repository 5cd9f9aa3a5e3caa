package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chzchzchz/setikit/dsp"
	"github.com/chzchzchz/setikit/imaging"
	"github.com/chzchzchz/setikit/radio"
)

func floats(t *testing.T, vals []float32) []byte {
	var buf bytes.Buffer
	require.NoError(t, radio.NewIQWriter(&buf).WriteFloats(vals))
	return buf.Bytes()
}

func run(t *testing.T, in []byte, args ...string) ([]byte, error) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetArgs(args)
	root.SetIn(bytes.NewReader(in))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.Bytes(), err
}

func TestPNMLinear(t *testing.T) {
	out, err := run(t, floats(t, []float32{0, 1, 2, 3, 4, 5}), "pnm", "-r", "2", "-c", "3")
	require.NoError(t, err)
	hdr := "P5\n3 2\n255\n"
	require.True(t, bytes.HasPrefix(out, []byte(hdr)))
	assert.Equal(t, []byte{0, 51, 102, 153, 204, 255}, out[len(hdr):])
}

func TestPNMAverage(t *testing.T) {
	out, err := run(t, floats(t, []float32{0, 10, 20, 30}), "pnm", "-r", "4", "-c", "1", "-a", "2", "-x")
	require.NoError(t, err)
	hdr := "P5\n1 2\n255\n"
	require.True(t, bytes.HasPrefix(out, []byte(hdr)))
	assert.Equal(t, []byte{5, 25}, out[len(hdr):])
}

func TestPNMExclusiveScales(t *testing.T) {
	_, err := run(t, nil, "pnm", "-r", "1", "-c", "1", "-p", "-x")
	assert.ErrorIs(t, err, dsp.ErrUnknownOption)
}

func TestPNMRequiresDims(t *testing.T) {
	_, err := run(t, nil, "pnm", "-r", "2")
	assert.Error(t, err)
}

func TestEdgeChop(t *testing.T) {
	vals := make([]float32, 16)
	for i := range vals {
		vals[i] = float32(i)
	}
	out, err := run(t, floats(t, vals), "edgechop", "-r", "4", "-c", "4", "-w", "0.25", "-H", "0.25")
	require.NoError(t, err)
	got := make([]float32, 4)
	r := radio.NewIQReader(bytes.NewReader(out))
	require.NoError(t, r.ReadFloats(got))
	assert.Equal(t, []float32{5, 6, 9, 10}, got)
}

func TestGetImgTFPMissingFile(t *testing.T) {
	_, err := run(t, nil, "getimgtfp", "-c", "0", "-o", "0", filepath.Join(t.TempDir(), "none"))
	assert.ErrorIs(t, err, dsp.ErrStreamOpen)
}

func TestGetImgTFPEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tfp")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	out, err := run(t, nil, "getimgtfp", "-c", "0", "-o", "0", path)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPickScale(t *testing.T) {
	powerScale, noScale = false, false
	s, err := pickScale()
	require.NoError(t, err)
	img := &imaging.Image{Rows: 1, Cols: 2, Pix: []float32{1, 3}}
	s(img)
	assert.Equal(t, []float32{0, imaging.MaxPixel}, img.Pix)
}
