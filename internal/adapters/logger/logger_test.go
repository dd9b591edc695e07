package logger_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pave/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger sets NO_COLOR so output is free of ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_InfoWarn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Info("building 2 targets")
	lg.Warn("no source for target docs")

	g := goldie.New(t)
	g.Assert(t, "info_warn", buf.Bytes())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "simple error",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name: "zerr chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("open pave.lua: no such file or directory"), "failed to load build script"),
				"build failed",
			),
			goldenName: "error_chain",
		},
		{
			name: "source location",
			err: func() error {
				inner := zerr.With(zerr.New("undefined symbol"), "name", "x")
				inner = zerr.With(inner, "file", "src/app.pv")
				inner = zerr.With(inner, "line", 3)
				inner = zerr.With(inner, "column", 5)
				return zerr.With(zerr.Wrap(inner, "compilation failed"), "target", "app")
			}(),
			goldenName: "error_location",
		},
		{
			name: "metadata on standard error",
			err: zerr.Wrap(
				zerr.With(context.Canceled, "function", "main"),
				"compile-time evaluation failed",
			),
			goldenName: "error_std_metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(zerr.With(zerr.Wrap(errors.New("disk full"), "failed to write assembly"), "target", "app"))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error":"failed to write assembly: disk full"`)
	assert.Contains(t, out, `"target":"app"`)
	assert.NotContains(t, out, "✗")

	buf.Reset()
	lg.SetJSON(false)
	lg.Info("back to pretty")
	assert.Equal(t, "back to pretty\n", buf.String())
}

func TestLogger_With(t *testing.T) {
	lg, buf := newTestLogger(t)
	hello := lg.With("target", "hello")

	hello.Info(`main evaluated to "42"`)
	hello.Error(zerr.New("link failed"))
	lg.Info("done")
	assert.Equal(t, "hello: main evaluated to \"42\"\n✗ hello: Error: link failed\ndone\n", buf.String())

	buf.Reset()
	child, ok := hello.(*logger.Logger)
	require.True(t, ok)
	child.SetJSON(true)
	child.Info("exports [a]")
	assert.Contains(t, buf.String(), `"target":"hello"`)
	assert.Contains(t, buf.String(), `"msg":"exports [a]"`)
}

func TestLogger_SetOutputNil(t *testing.T) {
	lg, _ := newTestLogger(t)
	require.NotPanics(t, func() { lg.SetOutput(nil) })
}
