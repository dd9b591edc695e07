// Package amd64 renders lowered modules as x86-64 assembly in GAS Intel syntax.
package amd64

import (
	"strconv"
	"strings"
)

// Operand is an instruction operand.
type Operand interface {
	String() string
	operand()
}

// Register is a general purpose register.
type Register string

// Registers used by the code generator.
const (
	RAX Register = "rax"
	EAX Register = "eax"
	AL  Register = "al"
	RDI Register = "rdi"
	RSI Register = "rsi"
	RDX Register = "rdx"
	RCX Register = "rcx"
	R8  Register = "r8"
	R9  Register = "r9"
	RBP Register = "rbp"
	RSP Register = "rsp"
	RIP Register = "rip"
)

// IntArgRegisters are the System V integer argument registers in order.
var IntArgRegisters = [...]Register{RDI, RSI, RDX, RCX, R8, R9}

func (r Register) String() string { return string(r) }

// Size is the width of a memory access.
type Size uint8

const (
	// Unsized leaves the width to the instruction, as for lea.
	Unsized Size = iota
	BytePtr
	WordPtr
	DwordPtr
	QwordPtr
)

var sizeNames = [...]string{
	BytePtr:  "byte ptr",
	WordPtr:  "word ptr",
	DwordPtr: "dword ptr",
	QwordPtr: "qword ptr",
}

// Mem is a memory operand: [Base+Disp] or [Base+Label].
type Mem struct {
	Base  Register
	Disp  int
	Label string
	Size  Size
}

// Qword addresses eight bytes at base+disp.
func Qword(base Register, disp int) Mem {
	return Mem{Base: base, Disp: disp, Size: QwordPtr}
}

// Byte addresses one byte at base+disp.
func Byte(base Register, disp int) Mem {
	return Mem{Base: base, Disp: disp, Size: BytePtr}
}

// RIPRelative addresses label relative to the instruction pointer.
func RIPRelative(label string, size Size) Mem {
	return Mem{Base: RIP, Label: label, Size: size}
}

func (m Mem) String() string {
	var b strings.Builder
	if m.Size != Unsized {
		b.WriteString(sizeNames[m.Size])
		b.WriteByte(' ')
	}
	b.WriteByte('[')
	b.WriteString(string(m.Base))
	if m.Disp > 0 {
		b.WriteByte('+')
	}
	if m.Disp != 0 {
		b.WriteString(strconv.Itoa(m.Disp))
	}
	if m.Label != "" {
		b.WriteByte('+')
		b.WriteString(m.Label)
	}
	b.WriteByte(']')
	return b.String()
}

// Imm is an immediate value.
type Imm int64

func (i Imm) String() string { return strconv.FormatInt(int64(i), 10) }

// Symbol names a jump or call target. It is rendered quoted so names may contain dots and slashes.
type Symbol string

func (s Symbol) String() string { return strconv.Quote(string(s)) }

func (Register) operand() {}
func (Mem) operand()      {}
func (Imm) operand()      {}
func (Symbol) operand()   {}
