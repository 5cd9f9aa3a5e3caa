package wola

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/chzchzchz/setikit/dsp"
)

// Run primes the history, then emits one frame per advance until the input
// runs short.
func Run(ctx context.Context, r dsp.BlockReader, w dsp.BlockWriter, cfg Config) error {
	e, err := NewEngine(cfg)
	if err != nil {
		return err
	}
	if !KnownOverlap(cfg.Overlap) {
		logrus.WithField("overlap", cfg.Overlap).Warn("overlap is not 0, 25 or 50; using 0")
	}
	if err := e.Prime(r); err != nil {
		return err
	}
	frames := 0
	defer func() {
		logrus.WithFields(logrus.Fields{
			"frames": frames,
			"fftlen": cfg.FFTLen,
			"folds":  cfg.Folds,
		}).Debug("wola done")
	}()
	for ctx.Err() == nil {
		if err := w.Write64(e.Frame()); err != nil {
			return errors.Wrap(dsp.ErrStreamWrite, err.Error())
		}
		frames++
		if err := e.Advance(r); err != nil {
			if dsp.IsEOF(err) {
				return nil
			}
			return errors.Wrap(dsp.ErrStreamRead, err.Error())
		}
	}
	return ctx.Err()
}

// DumpWindow prints the window one coefficient per line without touching
// any input.
func DumpWindow(w io.Writer, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return dsp.WriteFloatLines(w, NewWindow(cfg.WindowLen(), cfg.Folds))
}
