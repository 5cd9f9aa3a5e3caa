package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chzchzchz/setikit/dsp"
	"github.com/chzchzchz/setikit/imaging"
	"github.com/chzchzchz/setikit/internal/cli"
	"github.com/chzchzchz/setikit/radio"
)

var (
	imgRows, imgCols int
	avgLines         int
	powerScale       bool
	noScale          bool
	jpegOut          bool
	chopW, chopH     float32
	tfpChan, tfpOfst int
)

func addFlagDims(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&imgRows, "rows", "r", 0, "Image rows")
	cmd.Flags().IntVarP(&imgCols, "cols", "c", 0, "Image columns")
	cmd.MarkFlagRequired("rows")
	cmd.MarkFlagRequired("cols")
}

func pickScale() (imaging.Scale, error) {
	if powerScale && noScale {
		return nil, errors.Wrap(dsp.ErrUnknownOption, "-p and -x are exclusive")
	}
	switch {
	case powerScale:
		return imaging.PowerScale, nil
	case noScale:
		return imaging.NoScale, nil
	}
	return imaging.LinearScale, nil
}

func pnm(ctx context.Context, r io.Reader, w io.Writer) error {
	scale, err := pickScale()
	if err != nil {
		return err
	}
	img, err := imaging.Read(radio.NewIQReader(r), imgRows, imgCols)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"rows": img.Rows, "cols": img.Cols}).Debug("read image")
	scale(img)
	if avgLines > 0 {
		if img, err = img.AverageLines(avgLines); err != nil {
			return err
		}
	}
	if jpegOut {
		return img.WriteJPEG(w)
	}
	return img.WritePNM(w)
}

func edgechop(ctx context.Context, r io.Reader, w io.Writer) error {
	img, err := imaging.Read(radio.NewIQReader(r), imgRows, imgCols)
	if err != nil {
		return err
	}
	chopped, err := img.Chop(chopW, chopH)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"cols": chopped.Cols,
		"rows": chopped.Rows,
	}).Info("image chopped")
	return chopped.WriteRaw(radio.NewIQWriter(w))
}

func getimgtfp(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(dsp.ErrStreamOpen, err.Error())
	}
	defer f.Close()
	img, err := imaging.DefaultTFP.ReadStrip(f, tfpChan, tfpOfst)
	if err != nil {
		return err
	}
	if img.Rows == 0 {
		logrus.WithField("file", path).Warn("no rows in time-frequency file")
		return nil
	}
	return img.WriteRaw(radio.NewIQWriter(w))
}

func newRootCmd() *cobra.Command {
	rootCmd := cli.NewRoot("sqimage", "Float32 raster imaging.")

	pnmCmd := &cobra.Command{
		Use:   "pnm",
		Short: "Scale a float32 raster into an 8-bit grayscale PGM",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return cli.ApplyXfm(cmd, pnm) },
	}
	addFlagDims(pnmCmd)
	pnmCmd.Flags().IntVarP(&avgLines, "average", "a", 0, "Lines to average")
	pnmCmd.Flags().BoolVarP(&powerScale, "power", "p", false, "Scale for exponentially distributed power values")
	pnmCmd.Flags().BoolVarP(&noScale, "noscale", "x", false, "Do not scale")
	pnmCmd.Flags().BoolVar(&jpegOut, "jpeg", false, "Write a heatmap JPEG instead")
	rootCmd.AddCommand(pnmCmd)

	chopCmd := &cobra.Command{
		Use:   "edgechop",
		Short: "Trim a fraction of a raster's edges",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return cli.ApplyXfm(cmd, edgechop) },
	}
	addFlagDims(chopCmd)
	chopCmd.Flags().Float32VarP(&chopW, "width", "w", 0, "Fraction of columns dropped per side")
	chopCmd.Flags().Float32VarP(&chopH, "height", "H", 0, "Fraction of rows dropped per side")
	rootCmd.AddCommand(chopCmd)

	tfpCmd := &cobra.Command{
		Use:   "getimgtfp file",
		Short: "Cut a power-scaled strip out of a time-frequency power file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ApplyGen(cmd, func(ctx context.Context, w io.Writer) error {
				return getimgtfp(args[0], w)
			})
		},
	}
	tfpCmd.Flags().IntVarP(&tfpChan, "channel", "c", 0, "Channel")
	tfpCmd.Flags().IntVarP(&tfpOfst, "offset", "o", 0, "Strip offset within the channel")
	tfpCmd.MarkFlagRequired("channel")
	tfpCmd.MarkFlagRequired("offset")
	rootCmd.AddCommand(tfpCmd)

	return rootCmd
}

func main() {
	cli.Execute(newRootCmd())
}
