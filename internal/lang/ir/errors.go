package ir

import "go.trai.ch/zerr"

var (
	// ErrUndefinedSymbol is returned when a name is not in scope.
	ErrUndefinedSymbol = zerr.New("undefined symbol")

	// ErrUndefinedType is returned for unknown type names.
	ErrUndefinedType = zerr.New("undefined type")

	// ErrNotCallable is returned when a call's callee is not a function.
	ErrNotCallable = zerr.New("symbol is not callable")

	// ErrNotIndexable is returned when a member is selected from something other than a namespace.
	ErrNotIndexable = zerr.New("symbol is not indexable")

	// ErrNotAValue is returned when a function or namespace is used as a value.
	ErrNotAValue = zerr.New("symbol is not a value")

	// ErrTypeMismatch is returned when a value has the wrong type.
	ErrTypeMismatch = zerr.New("type mismatch")

	// ErrExtraArgument is returned when a call passes more arguments than the callee accepts.
	ErrExtraArgument = zerr.New("extra argument")

	// ErrMissingArgument is returned when a call passes fewer arguments than the callee accepts.
	ErrMissingArgument = zerr.New("missing argument")

	// ErrVoidValue is returned when an expression without a value is used as one.
	ErrVoidValue = zerr.New("expression has no value")

	// ErrMissingReturnValue is returned when a function with a return type produces no value.
	ErrMissingReturnValue = zerr.New("missing return value")

	// ErrUnreachableCode is returned for statements after a return.
	ErrUnreachableCode = zerr.New("unreachable code")
)

func at(err error, offset int) error {
	return zerr.With(err, "offset", offset)
}

func mismatch(offset int, got, expected Type) error {
	return zerr.With(zerr.With(at(ErrTypeMismatch, offset), "got", got.String()), "expected", expected.String())
}
