// Package script runs Lua build scripts and turns their registrations into build targets.
package script

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/Shopify/go-lua"
	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/zerr"
)

// callbacksKey names the registry table holding every registered Lua function.
const callbacksKey = "pave.callbacks"

// Host loads build scripts. Each Load gets a fresh Lua state.
type Host struct {
	out domain.IO
}

// New creates a Host whose global println writes to out.
func New(out domain.IO) *Host {
	return &Host{out: out}
}

// session owns one Lua state and the registry filled by its script.
// A Lua state is single threaded, so every entry into it holds mu.
type session struct {
	mu       sync.Mutex
	l        *lua.State
	registry *domain.Registry
	out      domain.IO
	next     int
	// raised keeps the Go error behind the most recent Lua error raised by a binding.
	raised error
}

// Load runs the script at path and returns the targets it registered.
func (h *Host) Load(path string) (*domain.Registry, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrScriptNotFound, "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrScriptLoadFailed.Error()), "path", path)
	}

	s := &session{
		l:        lua.NewState(),
		registry: domain.NewRegistry(),
		out:      h.out,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lua.OpenLibraries(s.l)
	s.install()

	if err := lua.LoadFile(s.l, path, ""); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrScriptLoadFailed.Error()), "path", path)
	}
	if err := s.l.ProtectedCall(0, 0, 0); err != nil {
		return nil, zerr.With(zerr.Wrap(s.cause(err), domain.ErrScriptFailed.Error()), "path", path)
	}
	return s.registry, nil
}

// install sets the compiler, compile_io and println globals.
func (s *session) install() {
	l := s.l

	l.NewTable()
	l.SetField(lua.RegistryIndex, callbacksKey)

	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "executable", Function: s.executable},
		{Name: "library", Function: s.library},
	}, 0)
	l.SetGlobal("compiler")

	s.pushIO(s.out)
	l.SetGlobal("compile_io")

	l.PushGoFunction(s.println(s.out))
	l.SetGlobal("println")
}

// pushIO pushes a compile_io table bound to out.
func (s *session) pushIO(out domain.IO) {
	s.l.NewTable()
	s.l.PushGoFunction(s.println(out))
	s.l.SetField(-2, "println")
}

// println returns a Lua function writing its message to out.
// Both io.println(m) and io:println(m) are accepted.
func (s *session) println(out domain.IO) lua.Function {
	return func(l *lua.State) int {
		arg := 1
		if l.TypeOf(1) == lua.TypeTable && l.Top() > 1 {
			arg = 2
		}
		message := lua.CheckString(l, arg)
		if out != nil {
			out.Println(message)
		}
		return 0
	}
}

// compiler.executable(name, fn)
func (s *session) executable(l *lua.State) int {
	name := lua.CheckString(l, 1)

	var run domain.ExecutableFunc
	if l.IsFunction(2) {
		id := s.store(l, 2)
		run = func(ctx context.Context, out domain.IO) error {
			return s.invoke(ctx, name, id, func(l *lua.State) int {
				s.pushIO(out)
				return 1
			})
		}
	}

	if err := s.registry.Executable(name, run); err != nil {
		s.raise(l, err)
	}
	return 0
}

// compiler.library(name, {fn = function(...) end})
func (s *session) library(l *lua.State) int {
	name := lua.CheckString(l, 1)
	lua.CheckType(l, 2, lua.TypeTable)

	exports := make(map[string]domain.LibraryFunc)
	table := l.AbsIndex(2)
	l.PushNil()
	for l.Next(table) {
		key, ok := "", l.TypeOf(-2) == lua.TypeString
		if ok {
			key, _ = l.ToString(-2)
		}
		if !ok || !l.IsFunction(-1) {
			l.Pop(2)
			s.raise(l, zerr.With(zerr.With(domain.ErrNotCallable, "target_name", name), "export", key))
			return 0
		}

		id := s.store(l, -1)
		target := name + "." + key
		exports[key] = func(ctx context.Context, args ...any) error {
			return s.invoke(ctx, target, id, func(l *lua.State) int {
				for _, arg := range args {
					pushValue(l, arg)
				}
				return len(args)
			})
		}
		l.Pop(1)
	}

	if err := s.registry.Library(name, exports); err != nil {
		s.raise(l, err)
	}
	return 0
}

// store keeps the function at index in the callbacks table and returns its slot.
func (s *session) store(l *lua.State, index int) int {
	index = l.AbsIndex(index)
	s.next++
	l.Field(lua.RegistryIndex, callbacksKey)
	l.PushValue(index)
	l.RawSetInt(-2, s.next)
	l.Pop(1)
	return s.next
}

// invoke calls the stored function id with the arguments pushed by args.
// Lua code cannot be interrupted, so ctx is only checked before entering the state.
func (s *session) invoke(ctx context.Context, target string, id int, args func(*lua.State) int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	l := s.l
	top := l.Top()
	defer l.SetTop(top)

	l.Field(lua.RegistryIndex, callbacksKey)
	l.RawGetInt(-1, id)
	n := args(l)

	s.raised = nil
	if err := l.ProtectedCall(n, 0, 0); err != nil {
		return zerr.With(zerr.Wrap(s.cause(err), domain.ErrCallbackFailed.Error()), "target", target)
	}
	return nil
}

// raise records err and turns it into a Lua error. It does not return.
func (s *session) raise(l *lua.State, err error) {
	s.raised = err
	lua.Errorf(l, "%s", err.Error())
}

// cause prefers the Go error behind a binding failure over its Lua rendering.
func (s *session) cause(err error) error {
	raised := s.raised
	s.raised = nil
	if raised != nil && strings.Contains(err.Error(), raised.Error()) {
		return raised
	}
	return err
}

// pushValue converts a Go value into its Lua counterpart.
func pushValue(l *lua.State, v any) {
	switch v := v.(type) {
	case nil:
		l.PushNil()
	case string:
		l.PushString(v)
	case []byte:
		l.PushString(string(v))
	case bool:
		l.PushBoolean(v)
	case int:
		l.PushInteger(v)
	case int8:
		l.PushInteger(int(v))
	case int16:
		l.PushInteger(int(v))
	case int32:
		l.PushInteger(int(v))
	case int64:
		l.PushInteger(int(v))
	case uint8:
		l.PushInteger(int(v))
	case uint16:
		l.PushInteger(int(v))
	case uint32:
		l.PushInteger(int(v))
	case uint:
		l.PushNumber(float64(v))
	case uint64:
		l.PushNumber(float64(v))
	case float32:
		l.PushNumber(float64(v))
	case float64:
		l.PushNumber(v)
	case fmt.Stringer:
		l.PushString(v.String())
	default:
		l.PushString(fmt.Sprint(v))
	}
}
