package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/chzchzchz/setikit/dsp"
	"github.com/chzchzchz/setikit/internal/cli"
	"github.com/chzchzchz/setikit/radio"
)

var blockLen int

func addFlagLen(cmd *cobra.Command, def int) {
	cmd.Flags().IntVarP(&blockLen, "length", "l", def, "Number of samples per block")
}

// filterXfm runs an in-place filter over blockLen sample blocks.
func filterXfm(f dsp.Filter) cli.XfmFunc {
	return func(ctx context.Context, r io.Reader, w io.Writer) error {
		return dsp.RunFilter(ctx, radio.NewIQReader(r), radio.NewIQWriter(w), blockLen, f)
	}
}

func blockXfm(b dsp.Block) cli.XfmFunc {
	return func(ctx context.Context, r io.Reader, w io.Writer) error {
		return dsp.RunBlock(ctx, radio.NewIQReader(r), radio.NewIQWriter(w), b)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := cli.NewRoot("sqpipe", "Block stream filters for cf32 IQ samples.")
	addFilterCmds(rootCmd)
	addReshapeCmds(rootCmd)
	addStreamCmds(rootCmd)
	addSpectralCmds(rootCmd)
	return rootCmd
}

func main() {
	cli.Execute(newRootCmd())
}
