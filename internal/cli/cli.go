// Package cli holds the plumbing shared by the setikit commands: logging
// flags, environment overrides, stream opening and fatal error reporting.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chzchzchz/setikit/dsp"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "SETIKIT_"

const ioBufSize = 1 << 16

var (
	logLevel string
	logJSON  bool
	inPath   string
	outPath  string
)

// NewRoot builds a root command carrying the shared persistent flags.
func NewRoot(use, short string) *cobra.Command {
	root := &cobra.Command{
		Use:               use,
		Short:             short,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(dsp.ErrUnknownOption, err.Error())
	})
	pf := root.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "Log as JSON")
	pf.StringVar(&inPath, "in", "-", "Input file, - for stdin")
	pf.StringVar(&outPath, "out", "-", "Output file, - for stdout")
	return root
}

func setup(cmd *cobra.Command, args []string) error {
	// subcommands may share flag variables; restore this command's defaults
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			f.Value.Set(f.DefValue)
		}
	})
	if err := ApplyEnv(cmd); err != nil {
		return err
	}
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return errors.Wrap(dsp.ErrUnknownOption, err.Error())
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(cmd.ErrOrStderr())
	if logJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return nil
}

// EnvName is the variable that overrides flag name of cmd.
func EnvName(cmd *cobra.Command, name string) string {
	name = strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	if cmd.HasParent() {
		return EnvPrefix + strings.ToUpper(cmd.Name()) + "_" + name
	}
	return EnvPrefix + name
}

// ApplyEnv sets every flag not given on the command line from its
// environment variable. Local flags use the subcommand name in the
// variable; inherited flags use the root form.
func ApplyEnv(cmd *cobra.Command) error {
	var err error
	set := func(owner *cobra.Command) func(f *pflag.Flag) {
		return func(f *pflag.Flag) {
			if err != nil || f.Changed {
				return
			}
			name := EnvName(owner, f.Name)
			if v, ok := os.LookupEnv(name); ok {
				logrus.WithFields(logrus.Fields{"flag": f.Name, "env": name}).Debug("flag from environment")
				if serr := cmd.Flags().Set(f.Name, v); serr != nil {
					err = errors.Wrapf(dsp.ErrUnknownOption, "%s: %v", name, serr)
				}
			}
		}
	}
	cmd.LocalFlags().VisitAll(set(cmd))
	cmd.InheritedFlags().VisitAll(set(cmd.Root()))
	return err
}

// Context is canceled on interrupt.
func Context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

// InputPath is the --in flag.
func InputPath() string { return inPath }

// OpenInput opens path, or the command's stdin for "-".
func OpenInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return bufio.NewReaderSize(cmd.InOrStdin(), ioBufSize), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(dsp.ErrStreamOpen, err.Error())
	}
	return bufio.NewReaderSize(f, ioBufSize), func() { f.Close() }, nil
}

// OpenOutput opens path, or the command's stdout for "-". The closer flushes.
func OpenOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	var (
		w io.Writer = cmd.OutOrStdout()
		c io.Closer
	)
	if path != "-" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, errors.Wrap(dsp.ErrStreamOpen, err.Error())
		}
		w, c = f, f
	}
	bw := bufio.NewWriterSize(w, ioBufSize)
	closer := func() error {
		if err := bw.Flush(); err != nil {
			return errors.Wrap(dsp.ErrStreamWrite, err.Error())
		}
		if c != nil {
			if err := c.Close(); err != nil {
				return errors.Wrap(dsp.ErrStreamClose, err.Error())
			}
		}
		return nil
	}
	return bw, closer, nil
}

// XfmFunc transforms one input stream into one output stream.
type XfmFunc func(ctx context.Context, r io.Reader, w io.Writer) error

// ApplyXfm runs xf between the --in and --out streams.
func ApplyXfm(cmd *cobra.Command, xf XfmFunc) error {
	r, rcloser, err := OpenInput(cmd, inPath)
	if err != nil {
		return err
	}
	defer rcloser()
	return ApplyGen(cmd, func(ctx context.Context, w io.Writer) error {
		return xf(ctx, r, w)
	})
}

// ApplyGen runs a producer that only writes to --out.
func ApplyGen(cmd *cobra.Command, gen func(ctx context.Context, w io.Writer) error) error {
	w, wcloser, err := OpenOutput(cmd, outPath)
	if err != nil {
		return err
	}
	ctx, cancel := Context(cmd)
	defer cancel()
	err = gen(ctx, w)
	if cerr := wcloser(); err == nil {
		err = cerr
	}
	return err
}

// Execute runs root and exits non-zero on failure.
func Execute(root *cobra.Command) {
	if err := root.Execute(); err != nil {
		code := dsp.Code(err)
		logrus.WithFields(logrus.Fields{
			"code":  code,
			"error": err.Error(),
		}).Errorf("%s encountered a fatal error: %s", root.Name(), dsp.Message(code))
		os.Exit(1)
	}
}
