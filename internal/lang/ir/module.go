package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// NoVar marks a statement without a destination or a terminal without a value.
const NoVar = -1

// Constant is an entry of the module's data section.
type Constant struct {
	Type Type
	Data []byte
}

// ConstantLabel returns the assembly label of the constant at index i.
func ConstantLabel(i int) string {
	return "_c." + strconv.Itoa(i)
}

// Module is a lowered source file.
type Module struct {
	Constants []Constant
	// Functions are kept in declaration order.
	Functions []*Function

	index map[string]*Function
}

// NewModule creates an empty module.
func NewModule() *Module {
	return &Module{index: make(map[string]*Function)}
}

// Function returns the function named name.
func (m *Module) Function(name string) (*Function, bool) {
	fn, ok := m.index[name]
	return fn, ok
}

func (m *Module) addFunction(fn *Function) {
	m.Functions = append(m.Functions, fn)
	m.index[fn.Name] = fn
}

func (m *Module) addConstant(c Constant) int {
	m.Constants = append(m.Constants, c)
	return len(m.Constants) - 1
}

// Signature describes parameter and return types.
type Signature struct {
	Params  []Type
	Returns Type
}

func (s Signature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	out := "(" + strings.Join(params, ", ") + ")"
	if s.Returns != Void {
		out += ": " + s.Returns.String()
	}
	return out
}

// Function is a lowered function. Vars holds the type of every variable the
// function's statements write, indexed by variable number.
type Function struct {
	Name      string
	Exported  bool
	Signature Signature
	Blocks    []Block
	Vars      []Type
}

func (f *Function) newVar(t Type) int {
	f.Vars = append(f.Vars, t)
	return len(f.Vars) - 1
}

// Block is a straight-line sequence of statements followed by a terminal.
type Block struct {
	Statements []Statement
	Terminal   Terminal
}

// Op is an operation performed by a statement.
type Op interface {
	String() string
	op()
}

// Call invokes a function or builtin. Callee is the dotted path of the callee.
type Call struct {
	Callee []string
	Args   []int
}

// LoadGlobal copies a module constant into a variable.
type LoadGlobal struct {
	Src int
}

// LoadLocal copies another variable.
type LoadLocal struct {
	Src int
}

func (Call) op()       {}
func (LoadGlobal) op() {}
func (LoadLocal) op()  {}

// Name returns the dotted callee name.
func (c Call) Name() string {
	return strings.Join(c.Callee, ".")
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = varName(a)
	}
	return "call " + c.Name() + "(" + strings.Join(args, ", ") + ")"
}

func (l LoadGlobal) String() string { return "load_global " + ConstantLabel(l.Src) }
func (l LoadLocal) String() string  { return "load_local " + varName(l.Src) }

// Statement performs Op and stores its result in Dest unless Dest is NoVar.
type Statement struct {
	Op   Op
	Dest int
}

func (s Statement) String() string {
	if s.Dest == NoVar {
		return s.Op.String()
	}
	return varName(s.Dest) + " = " + s.Op.String()
}

// TerminalKind says how control leaves a block.
type TerminalKind uint8

const (
	// Return leaves the function with Var as its result.
	Return TerminalKind = iota
	// Evaluate leaves the function with the value the body evaluated to.
	Evaluate
)

// Terminal ends a block. Var is NoVar when there is no value.
type Terminal struct {
	Kind TerminalKind
	Var  int
}

func (t Terminal) String() string {
	name := "return"
	if t.Kind == Evaluate {
		name = "evaluate"
	}
	if t.Var == NoVar {
		return name
	}
	return name + " " + varName(t.Var)
}

func varName(v int) string {
	return "%" + strconv.Itoa(v)
}

// String renders the module as a readable listing.
func (m *Module) String() string {
	var b strings.Builder
	for i, c := range m.Constants {
		fmt.Fprintf(&b, "const %s %s %q\n", ConstantLabel(i), c.Type, c.Data)
	}
	for _, fn := range m.Functions {
		fmt.Fprintf(&b, "fn %s%s\n", fn.Name, fn.Signature)
		for i, v := range fn.Vars {
			fmt.Fprintf(&b, "  var %s %s\n", varName(i), v)
		}
		for i, block := range fn.Blocks {
			fmt.Fprintf(&b, "  block %d:\n", i)
			for _, s := range block.Statements {
				fmt.Fprintf(&b, "    %s\n", s)
			}
			fmt.Fprintf(&b, "    %s\n", block.Terminal)
		}
	}
	return b.String()
}
