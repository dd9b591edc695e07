// Package ir lowers parsed source files into a typed, block-structured
// intermediate representation shared by the evaluator and the code generator.
package ir

import "fmt"

// Kind is the shape of a type.
type Kind uint8

const (
	KindVoid Kind = iota
	KindU8
	KindUsize
	KindSlice
	KindArray
)

// Type is a value type. Slices and arrays carry their element kind; arrays also
// carry their length. Types are comparable with ==.
type Type struct {
	Kind Kind
	Elem Kind
	Len  int
}

var (
	Void        = Type{Kind: KindVoid}
	U8          = Type{Kind: KindU8}
	Usize       = Type{Kind: KindUsize}
	StringSlice = Type{Kind: KindSlice, Elem: KindU8}
)

// ArrayOf returns the type of a u8 array with n elements.
func ArrayOf(n int) Type {
	return Type{Kind: KindArray, Elem: KindU8, Len: n}
}

// TypeByName resolves a type name used in source. The empty name is void.
func TypeByName(name string) (Type, bool) {
	switch name {
	case "", "void":
		return Void, true
	case "u8":
		return U8, true
	case "usize":
		return Usize, true
	case "stringSlice":
		return StringSlice, true
	}
	return Type{}, false
}

// Size returns the size of a value of t in bytes on amd64.
func (t Type) Size() int {
	switch t.Kind {
	case KindU8:
		return 1
	case KindUsize:
		return 8
	case KindSlice:
		return 16
	case KindArray:
		return Type{Kind: t.Elem}.Size() * t.Len
	default:
		return 0
	}
}

func (t Type) String() string {
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindU8:
		return "u8"
	case KindUsize:
		return "usize"
	case KindSlice:
		if t.Elem == KindU8 {
			return "stringSlice"
		}
		return "[]" + Type{Kind: t.Elem}.String()
	case KindArray:
		return fmt.Sprintf("[%s; %d]", Type{Kind: t.Elem}, t.Len)
	}
	return fmt.Sprintf("Type(%d)", t.Kind)
}
