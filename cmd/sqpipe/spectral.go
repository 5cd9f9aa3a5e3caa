package main

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chzchzchz/setikit/dsp"
	"github.com/chzchzchz/setikit/dsp/window"
	"github.com/chzchzchz/setikit/fft"
	"github.com/chzchzchz/setikit/fft/fftw"
	"github.com/chzchzchz/setikit/internal/cli"
	"github.com/chzchzchz/setikit/radio"
	"github.com/chzchzchz/setikit/wola"
)

var (
	fftConj, fftMeasure, fftInverse bool
	fftEngine                       string
	wolaCfg                         wola.Config
	windowName                      string
	dumpWindow                      bool
)

func newPlan(n int, dir fft.Direction) (fft.Plan, error) {
	switch fftEngine {
	case "go":
		return fft.NewGoPlan(n, dir)
	case "fftw":
		return fftw.NewPlan(n, dir, fftMeasure)
	}
	return nil, errors.Wrapf(dsp.ErrUnknownOption, "fft engine %q", fftEngine)
}

func addSpectralCmds(rootCmd *cobra.Command) {
	fftCmd := &cobra.Command{
		Use:   "fft",
		Short: "Transform blocks into channel-swapped spectra",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := fft.Forward
			if fftInverse {
				dir = fft.Inverse
			}
			p, err := newPlan(blockLen, dir)
			if err != nil {
				return err
			}
			defer p.Close()
			logrus.WithFields(logrus.Fields{
				"len":    blockLen,
				"dir":    dir,
				"engine": fftEngine,
			}).Debug("fft plan")
			return cli.ApplyXfm(cmd, filterXfm(fft.NewTransform(p, fftConj)))
		},
	}
	addFlagLen(fftCmd, dsp.Stage1FFTLen)
	fftCmd.Flags().BoolVarP(&fftConj, "invert", "n", false, "Invert spectrum by conjugating the input")
	fftCmd.Flags().BoolVarP(&fftMeasure, "measure", "m", false, "Measure the fftw plan instead of estimating")
	fftCmd.Flags().BoolVarP(&fftInverse, "inverse", "i", false, "Inverse transform")
	fftCmd.Flags().StringVar(&fftEngine, "engine", "go", "FFT engine: go or fftw")
	rootCmd.AddCommand(fftCmd)

	wolaCmd := &cobra.Command{
		Use:   "wola",
		Short: "Weighted overlap-add polyphase channelizer front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dumpWindow {
				return cli.ApplyGen(cmd, func(ctx context.Context, w io.Writer) error {
					return wola.DumpWindow(w, wolaCfg)
				})
			}
			return cli.ApplyXfm(cmd, func(ctx context.Context, r io.Reader, w io.Writer) error {
				return wola.Run(ctx, radio.NewIQReader(r), radio.NewIQWriter(w), wolaCfg)
			})
		},
	}
	wolaCmd.Flags().IntVarP(&wolaCfg.FFTLen, "length", "l", dsp.Stage1FFTLen, "FFT length")
	wolaCmd.Flags().IntVarP(&wolaCfg.Folds, "folds", "f", 3, "Window folds")
	wolaCmd.Flags().IntVarP(&wolaCfg.Overlap, "overlap", "o", 0, "Overlap percent: 0, 25 or 50")
	wolaCmd.Flags().BoolVarP(&dumpWindow, "dump", "w", false, "Print the window and exit")
	rootCmd.AddCommand(wolaCmd)

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "Multiply each block by a named window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wnd, err := window.Make(windowName, blockLen)
			if err != nil {
				return err
			}
			if dumpWindow {
				return cli.ApplyGen(cmd, func(ctx context.Context, w io.Writer) error {
					return dsp.WriteFloatLines(w, wnd)
				})
			}
			return cli.ApplyXfm(cmd, filterXfm(dsp.Weights(wnd)))
		},
	}
	addFlagLen(windowCmd, dsp.Stage1FFTLen)
	windowCmd.Flags().StringVarP(&windowName, "window", "w", "hann", "Window name")
	windowCmd.Flags().BoolVar(&dumpWindow, "dump", false, "Print the window and exit")
	rootCmd.AddCommand(windowCmd)
}
