// Package syntax builds expression trees and function declarations from tokens.
package syntax

import (
	"fmt"
	"strings"
)

// Expr is a node of an expression tree.
type Expr interface {
	// Pos returns the byte offset of the expression in the source.
	Pos() int
	String() string
	expr()
}

// Var references a name in scope.
type Var struct {
	Offset int
	Name   string
}

// StringLit is a string literal.
type StringLit struct {
	Offset int
	Value  string
}

// NumberLit is a u8 literal.
type NumberLit struct {
	Offset int
	Value  uint8
}

// Index selects the member Name of Left, as in compile_io.println.
type Index struct {
	Left       Expr
	Name       string
	NameOffset int
}

// Call applies Callee to Args.
type Call struct {
	Callee Expr
	Args   []Expr
}

// Return leaves the enclosing function. Value is nil for a bare return.
type Return struct {
	Offset int
	Value  Expr
}

// Block is a sequence of statements. Yields is set when the last statement
// is not followed by a semicolon, making its value the value of the block.
type Block struct {
	Offset int
	Stmts  []Expr
	Yields bool
}

// Let binds the value of Value to Name for the rest of the enclosing block.
type Let struct {
	Offset int
	Name   string
	Value  Expr
}

func (e *Var) Pos() int       { return e.Offset }
func (e *StringLit) Pos() int { return e.Offset }
func (e *NumberLit) Pos() int { return e.Offset }
func (e *Index) Pos() int     { return e.Left.Pos() }
func (e *Call) Pos() int      { return e.Callee.Pos() }
func (e *Return) Pos() int    { return e.Offset }
func (e *Block) Pos() int     { return e.Offset }
func (e *Let) Pos() int       { return e.Offset }

func (*Var) expr()       {}
func (*StringLit) expr() {}
func (*NumberLit) expr() {}
func (*Index) expr()     {}
func (*Call) expr()      {}
func (*Return) expr()    {}
func (*Block) expr()     {}
func (*Let) expr()       {}

func (e *Var) String() string       { return e.Name }
func (e *StringLit) String() string { return fmt.Sprintf("%q", e.Value) }
func (e *NumberLit) String() string { return fmt.Sprintf("%d", e.Value) }
func (e *Index) String() string     { return e.Left.String() + "." + e.Name }

func (e *Call) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

func (e *Return) String() string {
	if e.Value == nil {
		return "return"
	}
	return "return " + e.Value.String()
}

func (e *Block) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, s := range e.Stmts {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(s.String())
		if i < len(e.Stmts)-1 || !e.Yields {
			b.WriteString(";")
		}
	}
	b.WriteString("}")
	return b.String()
}

func (e *Let) String() string { return "let " + e.Name + " = " + e.Value.String() }

// FuncDecl is a top-level function declaration.
type FuncDecl struct {
	Offset int
	Name   string
	// Returns is the declared return type name, empty when omitted.
	Returns       string
	ReturnsOffset int
	Body          Expr
}

func (f *FuncDecl) String() string {
	head := "fn " + f.Name + "()"
	if f.Returns != "" {
		head += ": " + f.Returns
	}
	if _, ok := f.Body.(*Block); ok {
		return head + " " + f.Body.String()
	}
	return head + " " + f.Body.String() + ";"
}

// File is a parsed source file.
type File struct {
	Funcs []*FuncDecl
}

// Func returns the declaration named name.
func (f *File) Func(name string) (*FuncDecl, bool) {
	for _, fn := range f.Funcs {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}
