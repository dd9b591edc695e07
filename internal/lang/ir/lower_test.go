package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pave/internal/lang/ir"
	"go.trai.ch/pave/internal/lang/syntax"
	"go.trai.ch/pave/internal/lang/token"
	"go.trai.ch/zerr"
)

func lower(t *testing.T, src string) (*ir.Module, error) {
	t.Helper()
	tokens, err := token.Tokenise(src)
	require.NoError(t, err)
	file, err := syntax.ParseFile(tokens)
	require.NoError(t, err)
	return ir.Lower(file)
}

func TestLower_Listing(t *testing.T) {
	src := `
fn greeting(): stringSlice "hello";

fn main() {
	let g = greeting();
	print(g);
	compile_io.println("done");
}
`
	module, err := lower(t, src)
	require.NoError(t, err)

	want := `const _c.0 [u8; 5] "hello"
const _c.1 [u8; 4] "done"
fn greeting(): stringSlice
  var %0 stringSlice
  block 0:
    %0 = load_global _c.0
    evaluate %0
fn main()
  var %0 stringSlice
  var %1 stringSlice
  var %2 stringSlice
  block 0:
    %0 = call greeting()
    %1 = load_local %0
    call print(%1)
    %2 = load_global _c.1
    call compile_io.println(%2)
    evaluate
`
	assert.Equal(t, want, module.String())
}

func TestLower_Module(t *testing.T) {
	module, err := lower(t, `fn main(): stringSlice other(); fn other(): stringSlice "x";`)
	require.NoError(t, err)

	require.Len(t, module.Functions, 2)
	assert.Equal(t, "main", module.Functions[0].Name)
	assert.Equal(t, "other", module.Functions[1].Name)

	main, ok := module.Function("main")
	require.True(t, ok)
	assert.True(t, main.Exported)
	assert.Equal(t, ir.StringSlice, main.Signature.Returns)
	assert.Equal(t, ir.Terminal{Kind: ir.Evaluate, Var: 0}, main.Blocks[0].Terminal)
	assert.Equal(t, []ir.Statement{
		{Op: ir.Call{Callee: []string{"other"}, Args: []int{}}, Dest: 0},
	}, main.Blocks[0].Statements)

	_, ok = module.Function("missing")
	assert.False(t, ok)

	require.Len(t, module.Constants, 1)
	assert.Equal(t, ir.Constant{Type: ir.ArrayOf(1), Data: []byte("x")}, module.Constants[0])
}

func TestLower_Return(t *testing.T) {
	module, err := lower(t, `fn f(): u8 { { return 7; } }`)
	require.NoError(t, err)

	f, _ := module.Function("f")
	assert.Equal(t, ir.Terminal{Kind: ir.Return, Var: 0}, f.Blocks[0].Terminal)
	assert.Equal(t, []ir.Type{ir.U8}, f.Vars)
}

func TestLower_BareReturn(t *testing.T) {
	module, err := lower(t, `fn main() { print("a"); return; }`)
	require.NoError(t, err)

	main, _ := module.Function("main")
	assert.Equal(t, ir.Terminal{Kind: ir.Return, Var: ir.NoVar}, main.Blocks[0].Terminal)
	assert.Len(t, main.Blocks[0].Statements, 2)
}

func TestLower_Shadowing(t *testing.T) {
	module, err := lower(t, `fn f(): u8 { let x = "a"; let x = 1; x }`)
	require.NoError(t, err)

	f, _ := module.Function("f")
	assert.Equal(t, []ir.Type{ir.StringSlice, ir.U8, ir.U8}, f.Vars)
	assert.Equal(t, ir.Terminal{Kind: ir.Evaluate, Var: 2}, f.Blocks[0].Terminal)
}

func TestLower_DiscardedValuesEmitNothing(t *testing.T) {
	module, err := lower(t, `fn main() { "unused"; 3; }`)
	require.NoError(t, err)

	main, _ := module.Function("main")
	assert.Empty(t, main.Blocks[0].Statements)
	assert.Empty(t, module.Constants)
}

func TestLower_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErr    error
		wantOffset int
	}{
		{name: "undefined symbol", input: `fn main() { x; }`, wantErr: ir.ErrUndefinedSymbol, wantOffset: 12},
		{name: "undefined type", input: `fn main(): string {}`, wantErr: ir.ErrUndefinedType, wantOffset: 11},
		{name: "variable is not callable", input: `fn main() { let x = 1; x(); }`, wantErr: ir.ErrNotCallable, wantOffset: 23},
		{name: "function is not indexable", input: `fn main() { print.x(); }`, wantErr: ir.ErrNotIndexable, wantOffset: 12},
		{name: "undefined member", input: `fn main() { compile_io.nope(); }`, wantErr: ir.ErrUndefinedSymbol, wantOffset: 23},
		{name: "function as value", input: `fn main() { let p = print; }`, wantErr: ir.ErrNotAValue, wantOffset: 20},
		{name: "member as value", input: `fn main() { let p = compile_io.println; }`, wantErr: ir.ErrNotAValue, wantOffset: 20},
		{name: "argument type", input: `fn main() { print(1); }`, wantErr: ir.ErrTypeMismatch, wantOffset: 18},
		{name: "extra argument", input: `fn main() { print("a", "b"); }`, wantErr: ir.ErrExtraArgument, wantOffset: 23},
		{name: "missing argument", input: `fn main() { call_native("a"); }`, wantErr: ir.ErrMissingArgument, wantOffset: 12},
		{name: "void argument", input: `fn main() { print(print("a")); }`, wantErr: ir.ErrVoidValue, wantOffset: 18},
		{name: "void binding", input: `fn main() { let x = print("a"); }`, wantErr: ir.ErrVoidValue, wantOffset: 20},
		{name: "no value for return type", input: `fn f(): u8 {}`, wantErr: ir.ErrMissingReturnValue, wantOffset: 11},
		{name: "bare return with return type", input: `fn f(): u8 { return; }`, wantErr: ir.ErrMissingReturnValue, wantOffset: 13},
		{name: "return type", input: `fn f(): u8 { return "x"; }`, wantErr: ir.ErrTypeMismatch, wantOffset: 20},
		{name: "value from void function", input: `fn main() { 1 }`, wantErr: ir.ErrTypeMismatch, wantOffset: 10},
		{name: "unreachable", input: `fn main() { return; print("x"); }`, wantErr: ir.ErrUnreachableCode, wantOffset: 20},
		{name: "block scope", input: `fn main() { { let x = "a"; }; print(x); }`, wantErr: ir.ErrUndefinedSymbol, wantOffset: 36},
		{name: "function scope", input: "fn a() let x = \"hi\";\nfn main(): stringSlice x;\n", wantErr: ir.ErrUndefinedSymbol, wantOffset: 44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lower(t, tt.input)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())

			zErr, ok := err.(*zerr.Error)
			require.True(t, ok, "expected *zerr.Error, got %T", err)
			assert.Equal(t, tt.wantOffset, zErr.Metadata()["offset"])
			assert.NotEmpty(t, zErr.Metadata()["function"])
		})
	}
}

func TestLower_TypeMismatchMetadata(t *testing.T) {
	_, err := lower(t, `fn main() { print(1); }`)
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "u8", zErr.Metadata()["got"])
	assert.Equal(t, "stringSlice", zErr.Metadata()["expected"])
	assert.Equal(t, "main", zErr.Metadata()["function"])
}

func TestType(t *testing.T) {
	tests := []struct {
		typ      ir.Type
		wantName string
		wantSize int
	}{
		{typ: ir.Void, wantName: "void", wantSize: 0},
		{typ: ir.U8, wantName: "u8", wantSize: 1},
		{typ: ir.Usize, wantName: "usize", wantSize: 8},
		{typ: ir.StringSlice, wantName: "stringSlice", wantSize: 16},
		{typ: ir.ArrayOf(5), wantName: "[u8; 5]", wantSize: 5},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.typ.String())
			assert.Equal(t, tt.wantSize, tt.typ.Size())
		})
	}

	for _, name := range []string{"void", "u8", "usize", "stringSlice"} {
		typ, ok := ir.TypeByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, typ.String())
	}
	_, ok := ir.TypeByName("string")
	assert.False(t, ok)
}

func TestLower_BindingsStayInFunction(t *testing.T) {
	var module *ir.Module
	var err error
	require.NotPanics(t, func() {
		module, err = lower(t, "fn a() let print = \"x\";\nfn main() { print(\"y\"); }\n")
	})
	require.NoError(t, err)

	main, ok := module.Function("main")
	require.True(t, ok)
	require.Len(t, main.Blocks[0].Statements, 2)
	assert.Equal(t, ir.Call{Callee: []string{"print"}, Args: []int{0}}, main.Blocks[0].Statements[1].Op)
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "print", input: `fn main() { print("a"); }`},
		{name: "println", input: `fn main() { println("a"); }`},
		{name: "read_file", input: `fn main(): stringSlice read_file("a");`},
		{name: "call_native", input: `fn main() { call_native("lib", "fn"); }`},
		{name: "compile_io.println", input: `fn main() { compile_io.println("a"); }`},
		{name: "compile_io.read_file", input: `fn main(): stringSlice compile_io.read_file("a");`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lower(t, tt.input)
			require.NoError(t, err)
		})
	}
}
