package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chzchzchz/setikit/dsp"
	"github.com/chzchzchz/setikit/internal/cli"
	"github.com/chzchzchz/setikit/radio"
)

var (
	offsetRe, offsetIm float32
	mixRadians         float32
	mixChannel         float32
	mixHz              float64
	flagBand           radio.HzBand
	bandpassFile       string
)

func addFlagBand(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&flagBand.Center, "center-hz", 0, "Center frequency in Hz")
	cmd.Flags().Uint64VarP(&flagBand.Width, "sample-rate", "s", 2048000, "Sample rate in Hz")
}

func addFilterCmds(rootCmd *cobra.Command) {
	simple := []struct {
		use, short string
		f          dsp.FilterFunc
	}{
		{"abs", "Replace samples with their magnitude", dsp.Abs},
		{"power", "Replace samples with their power", dsp.Power},
		{"conjugate", "Complex conjugate", dsp.Conjugate},
		{"phase", "Normalize samples to unit magnitude", dsp.Phase},
		{"subavg", "Subtract each block's mean", dsp.SubAvg},
		{"fftflip", "Swap the halves of each block", dsp.ChannelSwap},
	}
	for _, s := range simple {
		f := s.f
		cmd := &cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return cli.ApplyXfm(cmd, filterXfm(f)) },
		}
		addFlagLen(cmd, dsp.SamplesPerRead)
		rootCmd.AddCommand(cmd)
	}

	offsetCmd := &cobra.Command{
		Use:   "offset",
		Short: "Add a constant to every sample",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ApplyXfm(cmd, filterXfm(dsp.Offset{Re: offsetRe, Im: offsetIm}))
		},
	}
	addFlagLen(offsetCmd, dsp.SamplesPerRead)
	offsetCmd.Flags().Float32VarP(&offsetRe, "real", "r", 0, "Real offset")
	offsetCmd.Flags().Float32VarP(&offsetIm, "imag", "i", 0, "Imaginary offset")
	rootCmd.AddCommand(offsetCmd)

	for _, use := range []string{"scaleandrotate", "scale", "rotate"} {
		sr := &dsp.ScaleRotate{Scale: 1}
		srCmd := &cobra.Command{
			Use:   use,
			Short: "Multiply samples by r*e^(j*theta)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return cli.ApplyXfm(cmd, filterXfm(*sr))
			},
		}
		addFlagLen(srCmd, dsp.SamplesPerRead)
		if use != "rotate" {
			srCmd.Flags().Float32VarP(&sr.Scale, "scale", "r", 1, "Scale factor")
		}
		if use != "scale" {
			srCmd.Flags().Float32VarP(&sr.Radians, "theta", "t", 0, "Rotation in radians")
		}
		rootCmd.AddCommand(srCmd)
	}

	mixCmd := &cobra.Command{
		Use:   "mix",
		Short: "Center the chosen frequency of the signal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rad := mixRadians
			switch {
			case cmd.Flags().Changed("channel"):
				rad = dsp.ChannelRadians(mixChannel)
			case cmd.Flags().Changed("frequency-hz"):
				if !flagBand.Contains(mixHz) {
					logrus.WithFields(logrus.Fields{
						"hz":   mixHz,
						"band": flagBand,
					}).Warn("mix frequency outside sampled band")
				}
				rad = float32(flagBand.RadiansPerSample(mixHz))
			}
			return cli.ApplyXfm(cmd, filterXfm(dsp.NewMixer(rad)))
		},
	}
	addFlagLen(mixCmd, dsp.SamplesPerRead)
	mixCmd.Flags().Float32VarP(&mixRadians, "radians", "r", 0, "Radians per sample")
	mixCmd.Flags().Float32VarP(&mixChannel, "channel", "c", 0, "First stage channel to heterodyne")
	mixCmd.Flags().Float64Var(&mixHz, "frequency-hz", 0, "Frequency to heterodyne in Hz")
	addFlagBand(mixCmd)
	rootCmd.AddCommand(mixCmd)

	bandpassCmd := &cobra.Command{
		Use:   "bandpass",
		Short: "Weight each block by coefficients from a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := dsp.LoadWeights(bandpassFile, blockLen)
			if err != nil {
				return err
			}
			return cli.ApplyXfm(cmd, filterXfm(w))
		},
	}
	addFlagLen(bandpassCmd, 4096)
	bandpassCmd.Flags().StringVarP(&bandpassFile, "file", "f", "", "Bandpass file, one coefficient per line")
	bandpassCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(bandpassCmd)
}
