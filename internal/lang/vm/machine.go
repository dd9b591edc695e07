// Package vm evaluates lowered functions at compile time.
//
// Evaluation is partial: a statement runs when all of its inputs are known,
// and is otherwise kept in a residual block. Builtins with side effects run
// through the capabilities handed to the Machine.
package vm

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/pave/internal/lang/ir"
	"go.trai.ch/zerr"
)

// MaxDepth bounds the nesting of evaluated calls.
const MaxDepth = 256

// Output receives text printed by evaluated code.
type Output interface {
	Println(message string)
}

// NativeCaller invokes an export of a library target.
type NativeCaller interface {
	CallNative(ctx context.Context, library, function string) error
}

// Machine evaluates functions of a single module.
type Machine struct {
	module  *ir.Module
	out     Output
	natives NativeCaller
	baseDir string
	reads   []string
}

// Option configures a Machine.
type Option func(*Machine)

// WithOutput sets where print and println write. Without it, printing
// statements stay in the residual.
func WithOutput(out Output) Option {
	return func(m *Machine) { m.out = out }
}

// WithNatives sets the library targets reachable through call_native.
// Without it, native calls stay in the residual.
func WithNatives(n NativeCaller) Option {
	return func(m *Machine) { m.natives = n }
}

// WithBaseDir sets the directory relative paths given to read_file resolve against.
func WithBaseDir(dir string) Option {
	return func(m *Machine) { m.baseDir = dir }
}

// New creates a Machine for module.
func New(module *ir.Module, opts ...Option) *Machine {
	m := &Machine{module: module}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result is the outcome of evaluating a function.
type Result struct {
	// Value holds the function's value when Known. It is nil for void functions.
	Value []byte
	// Known reports whether every statement ran and the value was computed.
	Known bool
	// Residual holds the statements that could not run, followed by the function's terminal.
	Residual ir.Block
}

// Run evaluates the function named name.
func (m *Machine) Run(ctx context.Context, name string) (*Result, error) {
	fn, ok := m.module.Function(name)
	if !ok {
		return nil, zerr.With(ErrUndefinedFunction, "function", name)
	}
	return m.run(ctx, fn, 0)
}

func (m *Machine) run(ctx context.Context, fn *ir.Function, depth int) (*Result, error) {
	vars := make(map[int][]byte)
	block := fn.Blocks[0]

	var residual []ir.Statement
	for _, s := range block.Statements {
		if err := ctx.Err(); err != nil {
			return nil, zerr.With(err, "function", fn.Name)
		}
		known, err := m.exec(ctx, s, vars, depth)
		if err != nil {
			return nil, err
		}
		if !known {
			residual = append(residual, s)
		}
	}

	res := &Result{Residual: ir.Block{Statements: residual, Terminal: block.Terminal}}
	if len(residual) > 0 {
		return res, nil
	}
	if block.Terminal.Var == ir.NoVar {
		res.Known = true
		return res, nil
	}
	if v, ok := vars[block.Terminal.Var]; ok {
		res.Value = v
		res.Known = true
	}
	return res, nil
}

// exec runs s and reports whether it could be evaluated.
func (m *Machine) exec(ctx context.Context, s ir.Statement, vars map[int][]byte, depth int) (bool, error) {
	switch op := s.Op.(type) {
	case ir.LoadGlobal:
		store(vars, s.Dest, m.module.Constants[op.Src].Data)
		return true, nil
	case ir.LoadLocal:
		v, ok := vars[op.Src]
		if !ok {
			return false, nil
		}
		store(vars, s.Dest, v)
		return true, nil
	case ir.Call:
		args := make([][]byte, len(op.Args))
		for i, a := range op.Args {
			v, ok := vars[a]
			if !ok {
				return false, nil
			}
			args[i] = v
		}
		value, known, err := m.call(ctx, op.Name(), args, depth)
		if err != nil || !known {
			return false, err
		}
		store(vars, s.Dest, value)
		return true, nil
	}
	return false, nil
}

func (m *Machine) call(ctx context.Context, name string, args [][]byte, depth int) ([]byte, bool, error) {
	if fn, ok := m.module.Function(name); ok {
		if depth+1 >= MaxDepth {
			return nil, false, zerr.With(ErrRecursionLimit, "function", name)
		}
		res, err := m.run(ctx, fn, depth+1)
		if err != nil {
			return nil, false, err
		}
		return res.Value, res.Known, nil
	}

	switch name {
	case ir.BuiltinPrint, ir.BuiltinPrintln, ir.BuiltinCompileIOPrintln:
		if m.out == nil {
			return nil, false, nil
		}
		m.out.Println(string(args[0]))
		return nil, true, nil
	case ir.BuiltinReadFile, ir.BuiltinCompileIOReadFile:
		return m.readFile(string(args[0]))
	case ir.BuiltinCallNative:
		if m.natives == nil {
			return nil, false, nil
		}
		library, function := string(args[0]), string(args[1])
		if err := m.natives.CallNative(ctx, library, function); err != nil {
			err = zerr.With(zerr.Wrap(err, ErrNativeCall.Error()), "library", library)
			return nil, false, zerr.With(err, "function", function)
		}
		return nil, true, nil
	}
	return nil, false, zerr.With(ErrUndefinedFunction, "function", name)
}

// Reads returns the paths read through read_file, in first-read order.
func (m *Machine) Reads() []string {
	return slices.Clone(m.reads)
}

func (m *Machine) readFile(path string) ([]byte, bool, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.baseDir, path)
	}
	if !slices.Contains(m.reads, path) {
		m.reads = append(m.reads, path)
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is chosen by the compiled source
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, ErrReadFile.Error()), "path", path)
	}
	return data, true, nil
}

func store(vars map[int][]byte, dest int, v []byte) {
	if dest != ir.NoVar {
		vars[dest] = v
	}
}
