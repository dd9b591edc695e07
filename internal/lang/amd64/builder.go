package amd64

import (
	"strings"

	"go.trai.ch/zerr"
)

// ErrInvalidOperands is recorded when an instruction is built with operands it does not accept.
var ErrInvalidOperands = zerr.New("invalid operands")

// Instruction is a single instruction or data directive.
type Instruction struct {
	Mnemonic string
	Operands []Operand
}

func (i Instruction) String() string {
	if len(i.Operands) == 0 {
		return i.Mnemonic
	}
	sep := ", "
	if i.Mnemonic == ".byte" {
		sep = ","
	}
	ops := make([]string, len(i.Operands))
	for n, o := range i.Operands {
		ops[n] = o.String()
	}
	return i.Mnemonic + " " + strings.Join(ops, sep)
}

// Builder accumulates instructions. The first invalid instruction is kept as
// a sticky error; later instructions are still appended.
type Builder struct {
	instrs []Instruction
	err    error
}

// Instructions returns the instructions built so far.
func (b *Builder) Instructions() []Instruction {
	return b.instrs
}

// Err returns the first operand error.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) emit(mnemonic string, ops ...Operand) {
	b.instrs = append(b.instrs, Instruction{Mnemonic: mnemonic, Operands: ops})
}

func (b *Builder) invalid(mnemonic string, ops ...Operand) {
	if b.err != nil {
		return
	}
	b.err = zerr.With(zerr.With(ErrInvalidOperands, "instruction", mnemonic), "operands", Instruction{Operands: ops, Mnemonic: mnemonic}.String())
}

// Mov copies src into dst. Memory to memory moves and sizeless memory
// destinations with an immediate source are invalid.
func (b *Builder) Mov(dst, src Operand) {
	switch d := dst.(type) {
	case Register:
		switch src.(type) {
		case Register, Mem, Imm:
			b.emit("mov", dst, src)
			return
		}
	case Mem:
		switch src.(type) {
		case Register:
			b.emit("mov", dst, src)
			return
		case Imm:
			if d.Size != Unsized {
				b.emit("mov", dst, src)
				return
			}
		}
	}
	b.invalid("mov", dst, src)
}

// Movzx zero-extends a byte or word in memory into dst.
func (b *Builder) Movzx(dst Register, src Operand) {
	switch s := src.(type) {
	case Mem:
		if s.Size == BytePtr || s.Size == WordPtr {
			b.emit("movzx", dst, src)
			return
		}
	case Register:
		if s == AL {
			b.emit("movzx", dst, src)
			return
		}
	}
	b.invalid("movzx", dst, src)
}

// Lea loads the address of src into dst.
func (b *Builder) Lea(dst Register, src Mem) {
	src.Size = Unsized
	b.emit("lea", dst, src)
}

// Add adds src to dst.
func (b *Builder) Add(dst, src Operand) {
	b.arith("add", dst, src)
}

// Sub subtracts src from dst.
func (b *Builder) Sub(dst, src Operand) {
	b.arith("sub", dst, src)
}

func (b *Builder) arith(mnemonic string, dst, src Operand) {
	switch dst.(type) {
	case Register:
		switch src.(type) {
		case Register, Mem, Imm:
			b.emit(mnemonic, dst, src)
			return
		}
	case Mem:
		switch src.(type) {
		case Register, Imm:
			b.emit(mnemonic, dst, src)
			return
		}
	}
	b.invalid(mnemonic, dst, src)
}

// Push pushes a register, a qword in memory or an immediate.
func (b *Builder) Push(src Operand) {
	switch s := src.(type) {
	case Register, Imm:
		b.emit("push", src)
		return
	case Mem:
		if s.Size == QwordPtr {
			b.emit("push", src)
			return
		}
	}
	b.invalid("push", src)
}

// Call calls the function named name.
func (b *Builder) Call(name string) {
	b.emit("call", Symbol(name))
}

// Jmp jumps to the label named name.
func (b *Builder) Jmp(name string) {
	b.emit("jmp", Symbol(name))
}

// Leave tears down the stack frame.
func (b *Builder) Leave() {
	b.emit("leave")
}

// Ret returns to the caller.
func (b *Builder) Ret() {
	b.emit("ret")
}

// Bytes emits data bytes. Empty data emits nothing.
func (b *Builder) Bytes(data []byte) {
	if len(data) == 0 {
		return
	}
	ops := make([]Operand, len(data))
	for i, d := range data {
		ops[i] = Imm(d)
	}
	b.emit(".byte", ops...)
}
