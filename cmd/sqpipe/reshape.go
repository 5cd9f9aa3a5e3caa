package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/chzchzchz/setikit/dsp"
	"github.com/chzchzchz/setikit/internal/cli"
	"github.com/chzchzchz/setikit/radio"
)

var (
	reshapeIn, reshapeOut int
	chopSide              string
	chopFraction          float32
	componentIdx          int
)

// reshapeCmd registers a block whose input and output lengths come from flags.
func reshapeCmd(rootCmd *cobra.Command, use, short string, mk func() (dsp.Block, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := mk()
			if err != nil {
				return err
			}
			return cli.ApplyXfm(cmd, blockXfm(b))
		},
	}
	rootCmd.AddCommand(cmd)
	return cmd
}

func componentXfm(p dsp.Part) cli.XfmFunc {
	return func(ctx context.Context, r io.Reader, w io.Writer) error {
		return dsp.RunComponent(ctx, radio.NewIQReader(r), radio.NewIQWriter(w), blockLen, p)
	}
}

func addReshapeCmds(rootCmd *cobra.Command) {
	binCmd := reshapeCmd(rootCmd, "bin", "Average groups of samples", func() (dsp.Block, error) {
		return dsp.NewBin(reshapeIn, reshapeOut)
	})
	maxholdCmd := reshapeCmd(rootCmd, "maxhold", "Keep the strongest sample of each group", func() (dsp.Block, error) {
		return dsp.NewMaxHold(reshapeIn, reshapeOut)
	})
	for _, cmd := range []*cobra.Command{binCmd, maxholdCmd} {
		cmd.Flags().IntVarP(&reshapeIn, "input", "i", 0, "Input samples per block")
		cmd.Flags().IntVarP(&reshapeOut, "output", "o", 0, "Output samples per block")
	}

	sidechopCmd := reshapeCmd(rootCmd, "sidechop", "Drop samples from one side of each block", func() (dsp.Block, error) {
		return dsp.NewSideChop(reshapeIn, reshapeOut, chopSide)
	})
	sidechopCmd.Flags().IntVarP(&reshapeIn, "length", "l", 0, "Input samples per block")
	sidechopCmd.Flags().IntVarP(&reshapeOut, "output", "o", 0, "Output samples per block")
	sidechopCmd.Flags().StringVarP(&chopSide, "side", "s", "l", "Side to drop, l or r")

	chopCmd := reshapeCmd(rootCmd, "chop", "Drop a fraction of samples from both edges", func() (dsp.Block, error) {
		return dsp.NewChop(reshapeIn, chopFraction)
	})
	chopCmd.Flags().IntVarP(&reshapeIn, "length", "l", 0, "Input samples per block")
	chopCmd.Flags().Float32VarP(&chopFraction, "chop", "c", 0.1, "Fraction dropped per edge")

	padCmd := reshapeCmd(rootCmd, "pad", "Center each block in zeros", func() (dsp.Block, error) {
		return dsp.NewPad(reshapeIn, reshapeOut)
	})
	padCmd.Flags().IntVarP(&reshapeIn, "length", "l", 0, "Input samples per block")
	padCmd.Flags().IntVarP(&reshapeOut, "output", "o", 0, "Output samples per block")

	for _, p := range []struct {
		use  string
		part dsp.Part
	}{{"real", dsp.PartReal}, {"imag", dsp.PartImag}} {
		part := p.part
		cmd := &cobra.Command{
			Use:   p.use,
			Short: "Write the " + p.use + " part of each sample as float32",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return cli.ApplyXfm(cmd, componentXfm(part)) },
		}
		addFlagLen(cmd, dsp.SamplesPerRead)
		rootCmd.AddCommand(cmd)
	}

	componentCmd := &cobra.Command{
		Use:   "component",
		Short: "Write one part of each sample as float32",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := dsp.ParsePart(componentIdx)
			if err != nil {
				return err
			}
			return cli.ApplyXfm(cmd, componentXfm(p))
		},
	}
	addFlagLen(componentCmd, dsp.SamplesPerRead)
	componentCmd.Flags().IntVarP(&componentIdx, "component", "c", 0, "0 for real, 1 for imaginary")
	rootCmd.AddCommand(componentCmd)
}
