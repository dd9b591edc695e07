package domain

import (
	"context"
	"maps"
	"slices"
)

// TargetKind distinguishes executables from libraries.
type TargetKind string

const (
	// KindExecutable marks a target built by invoking its callback and compiling its source.
	KindExecutable TargetKind = "executable"
	// KindLibrary marks a named collection of callable exports.
	KindLibrary TargetKind = "library"
)

// IO is the capability handed to build callbacks for emitting diagnostic output.
type IO interface {
	// Println writes message followed by a line terminator.
	Println(message string)
}

// ExecutableFunc is invoked with an IO capability when its executable target is built.
type ExecutableFunc func(ctx context.Context, io IO) error

// LibraryFunc is a library export. It accepts any number of arguments of any type.
type LibraryFunc func(ctx context.Context, args ...any) error

// Target is a registered build target.
type Target struct {
	Name    InternedString
	Kind    TargetKind
	Run     ExecutableFunc
	Exports map[string]LibraryFunc
}

// ExportNames returns the library's export names in sorted order.
func (t *Target) ExportNames() []string {
	return slices.Sorted(maps.Keys(t.Exports))
}
