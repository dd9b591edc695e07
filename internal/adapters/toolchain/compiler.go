// Package toolchain runs the .pv toolchain behind ports.Compiler.
package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/pave/internal/core/ports"
	"go.trai.ch/pave/internal/lang/amd64"
	"go.trai.ch/pave/internal/lang/ir"
	"go.trai.ch/pave/internal/lang/syntax"
	"go.trai.ch/pave/internal/lang/token"
	"go.trai.ch/pave/internal/lang/vm"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// Compiler tokenises, parses, lowers, evaluates and emits a single source file.
type Compiler struct{}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile runs the toolchain for req.
func (c *Compiler) Compile(ctx context.Context, req domain.CompileRequest) (*domain.Artifact, error) {
	//nolint:gosec // G304: source path is derived from the project layout
	src, err := os.ReadFile(req.SourcePath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", req.SourcePath)
	}

	module, err := c.lower(string(src))
	if err != nil {
		return nil, located(zerr.Wrap(err, domain.ErrCompileFailed.Error()), req.SourcePath, string(src), err)
	}

	artifact := &domain.Artifact{Target: req.Target}
	for _, fn := range module.Functions {
		artifact.Functions = append(artifact.Functions, fn.Name)
	}

	if req.Entry != "" {
		if _, ok := module.Function(req.Entry); !ok {
			return nil, zerr.With(zerr.With(domain.ErrMissingEntryPoint, "path", req.SourcePath), "entry", req.Entry)
		}

		machine := vm.New(module,
			vm.WithOutput(req.IO),
			vm.WithNatives(req.Natives),
			vm.WithBaseDir(filepath.Dir(req.SourcePath)),
		)
		result, err := machine.Run(ctx, req.Entry)
		if err != nil {
			return nil, located(zerr.Wrap(err, domain.ErrEvaluationFailed.Error()), req.SourcePath, string(src), err)
		}
		artifact.Value = result.Value
		artifact.Evaluated = result.Known
		artifact.Reads = machine.Reads()
	}

	unit, err := amd64.Generate(module)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "file", req.SourcePath)
	}
	artifact.Assembly = unit.String()

	if req.OutputPath != "" {
		if err := writeAssembly(req.OutputPath, artifact.Assembly); err != nil {
			return nil, err
		}
		artifact.AssemblyPath = req.OutputPath
	}

	return artifact, nil
}

func (c *Compiler) lower(src string) (*ir.Module, error) {
	tokens, err := token.Tokenise(src)
	if err != nil {
		return nil, err
	}
	file, err := syntax.ParseFile(tokens)
	if err != nil {
		return nil, err
	}
	return ir.Lower(file)
}

func writeAssembly(path, assembly string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrAssemblyWriteFailed.Error()), "path", path)
	}
	if err := os.WriteFile(path, []byte(assembly), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrAssemblyWriteFailed.Error()), "path", path)
	}
	return nil
}

// located attaches file, line and column metadata derived from the first offset found in cause.
func located(err error, path, src string, cause error) error {
	err = zerr.With(err, "file", path)

	offset, ok := findOffset(cause)
	if !ok {
		return err
	}
	line, column, ok := token.Locate(src, offset)
	if !ok {
		return err
	}
	return zerr.With(zerr.With(err, "line", line), "column", column)
}

func findOffset(err error) (int, bool) {
	for ; err != nil; err = errors.Unwrap(err) {
		z, ok := err.(*zerr.Error) //nolint:errorlint // each link is inspected on its own
		if !ok {
			continue
		}
		if offset, ok := z.Metadata()["offset"].(int); ok {
			return offset, true
		}
	}
	return 0, false
}
