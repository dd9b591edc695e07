package toolchain_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pave/internal/adapters/toolchain"
	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/zerr"
)

type recorder struct {
	lines []string
}

func (r *recorder) Println(message string) {
	r.lines = append(r.lines, message)
}

type natives struct {
	calls []string
}

func (n *natives) CallNative(_ context.Context, library, function string) error {
	n.calls = append(n.calls, library+"."+function)
	return nil
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hello.pv")
	require.NoError(t, os.WriteFile(path, []byte(src), domain.FilePerm))
	return path
}

func TestCompiler_Compile(t *testing.T) {
	path := writeSource(t, `
fn greeting(): stringSlice "hello";

fn main(): stringSlice {
	print(greeting());
	call_native("std", "banner");
	greeting()
}
`)
	out := &recorder{}
	nat := &natives{}
	output := filepath.Join(t.TempDir(), "build", "hello.s")

	artifact, err := toolchain.NewCompiler().Compile(context.Background(), domain.CompileRequest{
		Target:     "hello",
		SourcePath: path,
		OutputPath: output,
		Entry:      domain.EntryPoint,
		IO:         out,
		Natives:    nat,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", artifact.Target)
	assert.Equal(t, []string{"greeting", "main"}, artifact.Functions)
	assert.True(t, artifact.Evaluated)
	assert.Equal(t, []byte("hello"), artifact.Value)
	assert.Equal(t, []string{"hello"}, out.lines)
	assert.Equal(t, []string{"std.banner"}, nat.calls)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, artifact.Assembly, string(written))
	assert.Equal(t, output, artifact.AssemblyPath)
	assert.True(t, strings.HasPrefix(artifact.Assembly, ".intel_syntax noprefix"))
	assert.Contains(t, artifact.Assembly, `"main":`)
}

func TestCompiler_Compile_RecordsReads(t *testing.T) {
	path := writeSource(t, `fn main() { print(read_file("msg.txt")); }`)
	data := filepath.Join(filepath.Dir(path), "msg.txt")
	require.NoError(t, os.WriteFile(data, []byte("hi"), 0o600))

	artifact, err := toolchain.NewCompiler().Compile(context.Background(), domain.CompileRequest{
		Target:     "hello",
		SourcePath: path,
		Entry:      domain.EntryPoint,
		IO:         &recorder{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{data}, artifact.Reads)
}

func TestCompiler_Compile_WithoutEntryOrOutput(t *testing.T) {
	path := writeSource(t, `fn helper() { print("never"); }`)
	out := &recorder{}

	artifact, err := toolchain.NewCompiler().Compile(context.Background(), domain.CompileRequest{
		Target:     "helper",
		SourcePath: path,
		IO:         out,
	})
	require.NoError(t, err)

	assert.False(t, artifact.Evaluated)
	assert.Empty(t, artifact.AssemblyPath)
	assert.NotEmpty(t, artifact.Assembly)
	assert.Empty(t, out.lines)
}

func TestCompiler_Compile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantErr  error
		wantLine int
		wantCol  int
	}{
		{
			name:     "undefined symbol",
			src:      "fn main() {\n\tmissing();\n}\n",
			wantErr:  domain.ErrCompileFailed,
			wantLine: 2,
			wantCol:  2,
		},
		{
			name:     "unclosed string",
			src:      "fn main() {\n  print(\"oops);\n}\n",
			wantErr:  domain.ErrCompileFailed,
			wantLine: 2,
			wantCol:  9,
		},
		{
			name:    "missing entry point",
			src:     `fn helper() {}`,
			wantErr: domain.ErrMissingEntryPoint,
		},
		{
			name:    "evaluation failure",
			src:     `fn main() { print(read_file("does-not-exist.txt")); }`,
			wantErr: domain.ErrEvaluationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, tt.src)

			_, err := toolchain.NewCompiler().Compile(context.Background(), domain.CompileRequest{
				Target:     "hello",
				SourcePath: path,
				Entry:      domain.EntryPoint,
				IO:         &recorder{},
			})
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())

			if tt.wantLine > 0 {
				var zErr *zerr.Error
				require.ErrorAs(t, err, &zErr)
				meta := zErr.Metadata()
				assert.Equal(t, path, meta["file"])
				assert.Equal(t, tt.wantLine, meta["line"])
				assert.Equal(t, tt.wantCol, meta["column"])
			}
		})
	}
}

func TestCompiler_Compile_MissingSource(t *testing.T) {
	_, err := toolchain.NewCompiler().Compile(context.Background(), domain.CompileRequest{
		SourcePath: filepath.Join(t.TempDir(), "nope.pv"),
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrSourceReadFailed.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
