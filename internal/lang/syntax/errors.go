package syntax

import "go.trai.ch/zerr"

var (
	// ErrAssignmentUnsupported is returned for assignments to existing names.
	ErrAssignmentUnsupported = zerr.New("assignment is not supported")

	// ErrExpectedTopLevel is returned for anything other than a function declaration at top level.
	ErrExpectedTopLevel = zerr.New("expected function declaration")

	// ErrExpectedName is returned when a name is missing.
	ErrExpectedName = zerr.New("expected name")

	// ErrExpectedAssign is returned when a let binding has no '='.
	ErrExpectedAssign = zerr.New("expected '='")

	// ErrExpectedExpression is returned when tokens do not form an expression.
	ErrExpectedExpression = zerr.New("expected expression")

	// ErrExpectedSemicolon is returned when an expression body is not terminated.
	ErrExpectedSemicolon = zerr.New("expected ';'")

	// ErrExpectedParameters is returned when a function declaration has no parameter list.
	ErrExpectedParameters = zerr.New("expected parameter list")

	// ErrParametersUnsupported is returned for function declarations with parameters.
	ErrParametersUnsupported = zerr.New("function parameters are not supported")

	// ErrDuplicateFunction is returned when a function name is declared twice.
	ErrDuplicateFunction = zerr.New("function already declared")
)

func at(err error, offset int) error {
	return zerr.With(err, "offset", offset)
}
