package amd64

import (
	"strconv"

	"go.trai.ch/pave/internal/lang/ir"
	"go.trai.ch/zerr"
)

// ErrUnsupportedType is returned for variables the code generator cannot place.
var ErrUnsupportedType = zerr.New("unsupported type in code generation")

const (
	blockLabel    = "0block"
	epilogueLabel = "epilogue"
)

// Generate compiles every function of module. Constants go to .data as
// _c.N; functions go to .text in declaration order.
func Generate(module *ir.Module) (*Unit, error) {
	unit := &Unit{}

	data := unit.Section(".data")
	for i, c := range module.Constants {
		var b Builder
		b.Bytes(c.Data)
		data.AddLabel(ir.ConstantLabel(i), false, b.Instructions())
	}

	text := unit.Section(".text")
	for _, fn := range module.Functions {
		if err := generateFunction(text, module, fn); err != nil {
			return nil, zerr.With(err, "function", fn.Name)
		}
	}
	return unit, nil
}

// frame maps variables to stack slots below rbp.
type frame struct {
	offsets []int
	size    int
}

func layout(fn *ir.Function) (frame, error) {
	f := frame{offsets: make([]int, len(fn.Vars))}
	for i, t := range fn.Vars {
		switch t.Kind {
		case ir.KindU8, ir.KindUsize, ir.KindSlice:
		default:
			return frame{}, zerr.With(ErrUnsupportedType, "type", t.String())
		}
		f.offsets[i] = f.size
		f.size += alignUp(t.Size(), 8)
	}
	f.size = alignUp(f.size, 16)
	return f, nil
}

func alignUp(n, to int) int {
	return (n + to - 1) / to * to
}

// word returns the qword of variable v at index w: 0 is the scalar or slice
// length, 1 is the slice pointer.
func (f frame) word(v, w int) Mem {
	return Qword(RBP, -(f.offsets[v] + 8*(w+1)))
}

func (f frame) ptr(v int) Mem    { return f.word(v, 1) }
func (f frame) length(v int) Mem { return f.word(v, 0) }

type funcGen struct {
	module *ir.Module
	fn     *ir.Function
	frame  frame
	b      Builder
}

func generateFunction(text *Section, module *ir.Module, fn *ir.Function) error {
	fr, err := layout(fn)
	if err != nil {
		return err
	}

	var prologue Builder
	prologue.Push(RBP)
	prologue.Mov(RBP, RSP)
	if fr.size > 0 {
		prologue.Sub(RSP, Imm(fr.size))
	}
	prologue.Jmp(LocalName(fn.Name, blockLabel))

	label := text.AddLabel(fn.Name, fn.Exported, prologue.Instructions())

	for i, block := range fn.Blocks {
		g := &funcGen{module: module, fn: fn, frame: fr}
		for _, s := range block.Statements {
			g.statement(s)
		}
		g.terminal(block.Terminal)
		if err := g.b.Err(); err != nil {
			return err
		}
		label.AddLocal(strconv.Itoa(i)+"block", g.b.Instructions())
	}

	var epilogue Builder
	if fr.size > 0 {
		epilogue.Add(RSP, Imm(fr.size))
	}
	epilogue.Leave()
	epilogue.Ret()
	label.AddLocal(epilogueLabel, epilogue.Instructions())

	return prologue.Err()
}

func (g *funcGen) statement(s ir.Statement) {
	switch op := s.Op.(type) {
	case ir.LoadGlobal:
		g.loadGlobal(op, s.Dest)
	case ir.LoadLocal:
		g.loadLocal(op, s.Dest)
	case ir.Call:
		g.call(op, s.Dest)
	}
}

func (g *funcGen) loadGlobal(op ir.LoadGlobal, dest int) {
	if dest == ir.NoVar {
		return
	}
	label := ir.ConstantLabel(op.Src)
	c := g.module.Constants[op.Src]
	switch c.Type.Kind {
	case ir.KindU8:
		g.b.Movzx(EAX, RIPRelative(label, BytePtr))
		g.b.Mov(g.frame.length(dest), RAX)
	case ir.KindArray:
		g.b.Lea(RAX, RIPRelative(label, Unsized))
		g.b.Mov(g.frame.ptr(dest), RAX)
		g.b.Mov(g.frame.length(dest), Imm(c.Type.Len))
	}
}

func (g *funcGen) loadLocal(op ir.LoadLocal, dest int) {
	if dest == ir.NoVar {
		return
	}
	words := 1
	if g.fn.Vars[op.Src].Kind == ir.KindSlice {
		words = 2
	}
	for w := range words {
		g.b.Mov(RAX, g.frame.word(op.Src, w))
		g.b.Mov(g.frame.word(dest, w), RAX)
	}
}

func (g *funcGen) call(op ir.Call, dest int) {
	var stack []Mem
	reg := 0
	for _, a := range op.Args {
		if g.fn.Vars[a].Kind == ir.KindSlice {
			if reg+2 <= len(IntArgRegisters) {
				g.b.Mov(IntArgRegisters[reg], g.frame.ptr(a))
				g.b.Mov(IntArgRegisters[reg+1], g.frame.length(a))
				reg += 2
			} else {
				stack = append(stack, g.frame.ptr(a), g.frame.length(a))
			}
			continue
		}
		if reg < len(IntArgRegisters) {
			g.b.Mov(IntArgRegisters[reg], g.frame.length(a))
			reg++
		} else {
			stack = append(stack, g.frame.length(a))
		}
	}

	pad := 0
	if len(stack)%2 != 0 {
		pad = 8
		g.b.Sub(RSP, Imm(pad))
	}
	for i := len(stack) - 1; i >= 0; i-- {
		g.b.Push(stack[i])
	}
	g.b.Call(op.Name())
	if cleanup := 8*len(stack) + pad; cleanup > 0 {
		g.b.Add(RSP, Imm(cleanup))
	}

	if dest == ir.NoVar {
		return
	}
	switch g.fn.Vars[dest].Kind {
	case ir.KindSlice:
		g.b.Mov(g.frame.ptr(dest), RAX)
		g.b.Mov(g.frame.length(dest), RDX)
	case ir.KindU8:
		g.b.Movzx(EAX, AL)
		g.b.Mov(g.frame.length(dest), RAX)
	default:
		g.b.Mov(g.frame.length(dest), RAX)
	}
}

func (g *funcGen) terminal(t ir.Terminal) {
	if t.Var != ir.NoVar {
		if g.fn.Vars[t.Var].Kind == ir.KindSlice {
			g.b.Mov(RAX, g.frame.ptr(t.Var))
			g.b.Mov(RDX, g.frame.length(t.Var))
		} else {
			g.b.Mov(RAX, g.frame.length(t.Var))
		}
	}
	g.b.Jmp(LocalName(g.fn.Name, epilogueLabel))
}
