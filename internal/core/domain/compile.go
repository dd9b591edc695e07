package domain

import "context"

// NativeCaller resolves library exports for compiled sources.
type NativeCaller interface {
	CallNative(ctx context.Context, library, function string) error
}

// CompileRequest describes one toolchain invocation.
type CompileRequest struct {
	// Target names the unit being compiled. It is used in diagnostics.
	Target string
	// SourcePath is the .pv file to compile.
	SourcePath string
	// OutputPath receives the assembly. Nothing is written when empty.
	OutputPath string
	// Entry is evaluated at compile time. No evaluation happens when empty.
	Entry string
	// IO receives compile-time output.
	IO IO
	// Natives resolves call_native invocations. May be nil.
	Natives NativeCaller
}

// Artifact is the result of a successful compilation.
type Artifact struct {
	Target       string
	AssemblyPath string
	Assembly     string
	Functions    []string
	// Value holds the entry point's result when it was fully evaluated at compile time.
	Value []byte
	// Evaluated reports whether the entry point reduced to a known value.
	Evaluated bool
	// Reads lists the files read through read_file during evaluation.
	Reads []string
}
