package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pave/cmd/pave/commands"
	"go.trai.ch/pave/internal/app"
	"go.trai.ch/pave/internal/build"
	"go.trai.ch/pave/internal/core/domain"
)

type mockApp struct {
	json      bool
	buildFunc func(ctx context.Context, targetNames []string, opts app.BuildOptions) error
	targets   []app.TargetInfo
	callArgs  []string
	artifact  *domain.Artifact
	emitOut   string
	cleanOpts *app.CleanOptions
}

func (m *mockApp) UseJSON(enable bool) { m.json = enable }

func (m *mockApp) Build(ctx context.Context, targetNames []string, opts app.BuildOptions) error {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, targetNames, opts)
	}
	return nil
}

func (m *mockApp) Targets(context.Context) ([]app.TargetInfo, error) {
	return m.targets, nil
}

func (m *mockApp) Call(_ context.Context, library, function string, args []string) error {
	m.callArgs = append([]string{library, function}, args...)
	return nil
}

func (m *mockApp) Eval(context.Context, string, string) (*domain.Artifact, error) {
	return m.artifact, nil
}

func (m *mockApp) Emit(_ context.Context, _ string, out string) (string, error) {
	m.emitOut = out
	return "\t.text\n", nil
}

func (m *mockApp) Clean(_ context.Context, opts app.CleanOptions) error {
	m.cleanOpts = &opts
	return nil
}

func execute(t *testing.T, mock *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.BuildOptions
		var capturedTargets []string

		mock := &mockApp{
			buildFunc: func(_ context.Context, targetNames []string, opts app.BuildOptions) error {
				capturedOpts = opts
				capturedTargets = targetNames
				return nil
			},
		}

		_, err := execute(t, mock, "build", "hello", "--no-cache", "-j", "3", "--json")
		require.NoError(t, err)
		assert.True(t, capturedOpts.NoCache)
		assert.Equal(t, 3, capturedOpts.Jobs)
		assert.Equal(t, []string{"hello"}, capturedTargets)
		assert.True(t, mock.json)
	})

	t.Run("builds everything without targets", func(t *testing.T) {
		called := false
		mock := &mockApp{
			buildFunc: func(_ context.Context, targetNames []string, _ app.BuildOptions) error {
				called = true
				assert.Empty(t, targetNames)
				return nil
			},
		}

		_, err := execute(t, mock, "build")
		require.NoError(t, err)
		assert.True(t, called)
		assert.False(t, mock.json)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		mock := &mockApp{
			buildFunc: func(context.Context, []string, app.BuildOptions) error {
				return errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "build", "target")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Targets(t *testing.T) {
	mock := &mockApp{targets: []app.TargetInfo{
		{Name: "hello", Kind: domain.KindExecutable, UpToDate: true},
		{Name: "tools", Kind: domain.KindLibrary, Exports: []string{"a", "b"}},
		{Name: "other", Kind: domain.KindExecutable},
	}}

	out, err := execute(t, mock, "targets")
	require.NoError(t, err)
	assert.Equal(t, "hello executable (up to date)\ntools library [a, b]\nother executable\n", out)
}

func TestCommands_Call(t *testing.T) {
	mock := &mockApp{}

	_, err := execute(t, mock, "call", "tools", "greet", "world", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"tools", "greet", "world", "2"}, mock.callArgs)

	_, err = execute(t, &mockApp{}, "call", "tools")
	require.Error(t, err)
}

func TestCommands_Eval(t *testing.T) {
	tests := []struct {
		name     string
		artifact *domain.Artifact
		expected string
	}{
		{name: "known value", artifact: &domain.Artifact{Evaluated: true, Value: []byte("42")}, expected: "42\n"},
		{name: "void", artifact: &domain.Artifact{Evaluated: true}, expected: ""},
		{name: "unknown", artifact: &domain.Artifact{}, expected: "main is not known at compile time\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, &mockApp{artifact: tt.artifact}, "eval", "x.pv")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestCommands_Emit(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		mock := &mockApp{}
		out, err := execute(t, mock, "emit", "x.pv")
		require.NoError(t, err)
		assert.Equal(t, "\t.text\n", out)
		assert.Empty(t, mock.emitOut)
	})

	t.Run("file", func(t *testing.T) {
		mock := &mockApp{}
		out, err := execute(t, mock, "emit", "x.pv", "-o", "x.s")
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Equal(t, "x.s", mock.emitOut)
	})
}

func TestCommands_Clean(t *testing.T) {
	mock := &mockApp{}
	_, err := execute(t, mock, "clean", "--all")
	require.NoError(t, err)
	require.NotNil(t, mock.cleanOpts)
	assert.True(t, mock.cleanOpts.All)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}
