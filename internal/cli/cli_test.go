package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chzchzchz/setikit/dsp"
)

func newTestRoot(sub *cobra.Command) *cobra.Command {
	root := NewRoot("tool", "test tool")
	root.AddCommand(sub)
	root.SetErr(io.Discard)
	return root
}

func TestEnvName(t *testing.T) {
	sub := &cobra.Command{Use: "mix"}
	root := newTestRoot(sub)
	assert.Equal(t, "SETIKIT_MIX_SAMPLE_RATE", EnvName(sub, "sample-rate"))
	assert.Equal(t, "SETIKIT_LOG_LEVEL", EnvName(root, "log-level"))
}

func sumCmd(n *int) *cobra.Command {
	sub := &cobra.Command{
		Use:  "sum",
		RunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	sub.Flags().IntVarP(n, "number", "n", 1, "")
	return sub
}

func TestApplyEnv(t *testing.T) {
	defer logrus.SetLevel(logrus.WarnLevel)
	var n int
	root := newTestRoot(sumCmd(&n))
	t.Setenv("SETIKIT_SUM_NUMBER", "7")
	t.Setenv("SETIKIT_LOG_LEVEL", "debug")
	root.SetArgs([]string{"sum"})
	require.NoError(t, root.Execute())
	assert.Equal(t, 7, n)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	// command line wins
	root = newTestRoot(sumCmd(&n))
	root.SetArgs([]string{"sum", "-n", "3"})
	require.NoError(t, root.Execute())
	assert.Equal(t, 3, n)
}

func TestApplyEnvBadValue(t *testing.T) {
	var n int
	root := newTestRoot(sumCmd(&n))
	t.Setenv("SETIKIT_SUM_NUMBER", "many")
	root.SetArgs([]string{"sum"})
	assert.ErrorIs(t, root.Execute(), dsp.ErrUnknownOption)
}

func TestBadLogLevel(t *testing.T) {
	sub := &cobra.Command{Use: "x", RunE: func(cmd *cobra.Command, args []string) error { return nil }}
	root := newTestRoot(sub)
	root.SetArgs([]string{"x", "--log-level", "loud"})
	assert.ErrorIs(t, root.Execute(), dsp.ErrUnknownOption)
}

func TestApplyXfm(t *testing.T) {
	sub := &cobra.Command{
		Use: "upper",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ApplyXfm(cmd, func(ctx context.Context, r io.Reader, w io.Writer) error {
				b, err := io.ReadAll(r)
				if err != nil {
					return err
				}
				_, err = w.Write(bytes.ToUpper(b))
				return err
			})
		},
	}
	root := newTestRoot(sub)
	var out bytes.Buffer
	root.SetIn(bytes.NewBufferString("abc"))
	root.SetOut(&out)
	root.SetArgs([]string{"upper"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "ABC", out.String())
}

func TestOpenInputMissing(t *testing.T) {
	_, _, err := OpenInput(&cobra.Command{}, filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, dsp.ErrStreamOpen)
}

func TestOpenOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	w, closer, err := OpenOutput(&cobra.Command{}, path)
	require.NoError(t, err)
	_, err = io.WriteString(w, "data")
	require.NoError(t, err)
	require.NoError(t, closer())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
}
