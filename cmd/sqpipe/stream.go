package main

import (
	"context"
	"io"
	"os"

	"github.com/cheggaaa/pb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chzchzchz/setikit/dsp"
	"github.com/chzchzchz/setikit/internal/cli"
	"github.com/chzchzchz/setikit/radio"
	"github.com/chzchzchz/setikit/radio/wav"
	"github.com/chzchzchz/setikit/signals"
)

var (
	sumCount     int
	readCols     int
	sampleFormat string
	sampleSize   int64
	sineCfg      signals.SineConfig
)

func passthrough(samps []complex64) error { return nil }

// openSamples picks the integer decoder for format, reading the WAVE header
// when there is one.
func openSamples(r io.Reader, format string) (dsp.BlockReader, error) {
	if format != "wav" {
		f, err := radio.ParseFormat(format)
		if err != nil {
			return nil, errors.Wrap(dsp.ErrUnknownOption, err.Error())
		}
		return radio.NewIntIQReader(r, f), nil
	}
	wr, err := wav.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(dsp.ErrStreamRead, err.Error())
	}
	if wr.Channels() != 2 {
		return nil, errors.Wrapf(dsp.ErrArgBounds, "wav has %d channels, need 2", wr.Channels())
	}
	logrus.WithFields(logrus.Fields{
		"rate":  wr.SampleRate(),
		"depth": wr.BitDepth(),
		"bytes": wr.DataLen(),
	}).Info("wav input")
	switch wr.BitDepth() {
	case 8:
		return radio.NewIntIQReader(wr, radio.FormatU8), nil
	case 16:
		return radio.NewIntIQReader(wr, radio.FormatS16), nil
	}
	return nil, errors.Wrapf(dsp.ErrArgBounds, "wav bit depth %d", wr.BitDepth())
}

// inputSize is the byte count used for progress, or 0 if unknown.
func inputSize() int64 {
	if sampleSize > 0 {
		return sampleSize
	}
	if p := cli.InputPath(); p != "-" {
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return fi.Size()
		}
	}
	return 0
}

func addStreamCmds(rootCmd *cobra.Command) {
	sumCmd := &cobra.Command{
		Use:   "sum",
		Short: "Sum groups of rasters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ApplyXfm(cmd, func(ctx context.Context, r io.Reader, w io.Writer) error {
				return dsp.RunSum(ctx, radio.NewIQReader(r), radio.NewIQWriter(w), blockLen, sumCount)
			})
		},
	}
	addFlagLen(sumCmd, 4096)
	sumCmd.Flags().IntVarP(&sumCount, "number", "n", 1, "Rasters per sum")
	rootCmd.AddCommand(sumCmd)

	overlapCmd := &cobra.Command{
		Use:   "overlap2x",
		Short: "Emit blocks overlapping by half",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ApplyXfm(cmd, func(ctx context.Context, r io.Reader, w io.Writer) error {
				return dsp.RunOverlap2x(ctx, radio.NewIQReader(r), radio.NewIQWriter(w), blockLen)
			})
		},
	}
	addFlagLen(overlapCmd, 4096)
	rootCmd.AddCommand(overlapCmd)

	xmulCmd := &cobra.Command{
		Use:   "crossmultiply file1 file2",
		Short: "Multiply two sample streams in lockstep",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r1, c1, err := cli.OpenInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer c1()
			r2, c2, err := cli.OpenInput(cmd, args[1])
			if err != nil {
				return err
			}
			defer c2()
			return cli.ApplyGen(cmd, func(ctx context.Context, w io.Writer) error {
				return dsp.RunCrossMultiply(ctx, radio.NewIQReader(r1), radio.NewIQReader(r2), radio.NewIQWriter(w), blockLen)
			})
		},
	}
	addFlagLen(xmulCmd, 4096)
	rootCmd.AddCommand(xmulCmd)

	asciiCmd := &cobra.Command{
		Use:   "ascii",
		Short: "Print samples as text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ApplyXfm(cmd, func(ctx context.Context, r io.Reader, w io.Writer) error {
				return dsp.RunASCII(ctx, radio.NewIQReader(r), w, blockLen)
			})
		},
	}
	addFlagLen(asciiCmd, 4096)
	rootCmd.AddCommand(asciiCmd)

	readCmd := &cobra.Command{
		Use:   "read",
		Short: "Print a float32 stream as text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ApplyXfm(cmd, func(ctx context.Context, r io.Reader, w io.Writer) error {
				return dsp.RunReadFloats(ctx, radio.NewIQReader(r), w, readCols)
			})
		},
	}
	readCmd.Flags().IntVarP(&readCols, "columns", "c", 8, "Values per line")
	rootCmd.AddCommand(readCmd)

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "Convert integer IQ captures to cf32",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ApplyXfm(cmd, func(ctx context.Context, r io.Reader, w io.Writer) error {
				if sz := inputSize(); sz > 0 {
					bar := pb.New64(sz).SetUnits(pb.U_BYTES)
					bar.Output = cmd.ErrOrStderr()
					bar.Start()
					defer bar.Finish()
					r = bar.NewProxyReader(r)
				}
				br, err := openSamples(r, sampleFormat)
				if err != nil {
					return err
				}
				return dsp.RunFilter(ctx, br, radio.NewIQWriter(w), blockLen, dsp.FilterFunc(passthrough))
			})
		},
	}
	addFlagLen(sampleCmd, 4096)
	sampleCmd.Flags().StringVar(&sampleFormat, "format", "s8", "Input format: s8, u8, s16 or wav")
	sampleCmd.Flags().Int64Var(&sampleSize, "size", 0, "Input size in bytes for progress")
	rootCmd.AddCommand(sampleCmd)

	sineCmd := &cobra.Command{
		Use:   "gensine",
		Short: "Generate a noisy complex tone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sineCfg.Samples = blockLen
			s, err := signals.NewSine(sineCfg)
			if err != nil {
				return err
			}
			return cli.ApplyGen(cmd, func(ctx context.Context, w io.Writer) error {
				return s.Run(ctx, radio.NewIQWriter(w))
			})
		},
	}
	addFlagLen(sineCmd, 4096)
	sineCmd.Flags().IntVarP(&sineCfg.Blocks, "cycles", "s", 1, "Blocks to generate")
	sineCmd.Flags().IntVarP(&sineCfg.LUTLen, "lut", "a", 1024, "Sine table length")
	sineCmd.Flags().Float32VarP(&sineCfg.Wavelength, "wavelength", "w", 1, "Samples per table entry")
	sineCmd.Flags().Float32VarP(&sineCfg.SNR, "snr", "n", 1, "Tone amplitude relative to unit noise")
	sineCmd.Flags().Int64Var(&sineCfg.Seed, "seed", 1, "Noise seed")
	rootCmd.AddCommand(sineCmd)
}
