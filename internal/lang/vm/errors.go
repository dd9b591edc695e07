package vm

import "go.trai.ch/zerr"

var (
	// ErrUndefinedFunction is returned when a called function exists neither in the module nor as a builtin.
	ErrUndefinedFunction = zerr.New("undefined function")

	// ErrRecursionLimit is returned when calls nest deeper than MaxDepth.
	ErrRecursionLimit = zerr.New("recursion limit exceeded")

	// ErrReadFile is returned when read_file cannot read its file.
	ErrReadFile = zerr.New("failed to read file")

	// ErrNativeCall is returned when call_native fails.
	ErrNativeCall = zerr.New("native call failed")
)
