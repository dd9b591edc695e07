package domain

import (
	"context"
	"iter"
	"regexp"
	"sync"

	"go.trai.ch/zerr"
)

var validTargetNameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// Registry records the targets declared by a build script, in declaration order.
// Names are unique across executables and libraries.
type Registry struct {
	mu      sync.RWMutex
	targets map[InternedString]*Target
	order   []InternedString
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[InternedString]*Target),
	}
}

// Executable registers an executable target whose callback runs when the target is built.
func (r *Registry) Executable(name string, fn ExecutableFunc) error {
	if fn == nil {
		return zerr.With(ErrInvalidCallback, "target_name", name)
	}
	return r.add(&Target{
		Name: NewInternedString(name),
		Kind: KindExecutable,
		Run:  fn,
	})
}

// Library registers a library target. Every export must be a non-nil function with a non-empty name.
// A library without exports is valid.
func (r *Registry) Library(name string, exports map[string]LibraryFunc) error {
	copied := make(map[string]LibraryFunc, len(exports))
	for fnName, fn := range exports {
		if fnName == "" || fn == nil {
			return zerr.With(zerr.With(ErrNotCallable, "target_name", name), "export", fnName)
		}
		copied[fnName] = fn
	}
	return r.add(&Target{
		Name:    NewInternedString(name),
		Kind:    KindLibrary,
		Exports: copied,
	})
}

func (r *Registry) add(t *Target) error {
	name := t.Name.String()
	if !validTargetNameRegex.MatchString(name) {
		return zerr.With(ErrInvalidTargetName, "target_name", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.targets[t.Name]; exists {
		return zerr.With(ErrTargetAlreadyExists, "target_name", name)
	}
	r.targets[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Lookup returns the target registered under name.
func (r *Registry) Lookup(name string) (*Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.targets[NewInternedString(name)]
	return t, ok
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Names returns target names in declaration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	for i, n := range r.order {
		names[i] = n.String()
	}
	return names
}

// Walk yields targets in declaration order.
// Targets registered while walking are not visited.
func (r *Registry) Walk() iter.Seq[*Target] {
	r.mu.RLock()
	snapshot := make([]*Target, len(r.order))
	for i, n := range r.order {
		snapshot[i] = r.targets[n]
	}
	r.mu.RUnlock()

	return func(yield func(*Target) bool) {
		for _, t := range snapshot {
			if !yield(t) {
				return
			}
		}
	}
}

// Call invokes an export of a library target with the given arguments.
func (r *Registry) Call(ctx context.Context, library, function string, args ...any) error {
	t, ok := r.Lookup(library)
	if !ok {
		return zerr.With(ErrTargetNotFound, "target", library)
	}
	if t.Kind != KindLibrary {
		return zerr.With(ErrNotALibrary, "target", library)
	}
	fn, ok := t.Exports[function]
	if !ok {
		return zerr.With(zerr.With(ErrExportNotFound, "library", library), "function", function)
	}
	return fn(ctx, args...)
}

// CallNative invokes a library export without arguments.
// Compiled sources reach library targets through it.
func (r *Registry) CallNative(ctx context.Context, library, function string) error {
	return r.Call(ctx, library, function)
}
