// Package token splits .pv source text into a tree of tokens.
//
// Brackets are matched while tokenising: parentheses and braces become single
// tokens holding their contents, and a parenthesised list that directly follows
// a callable token becomes a Call token holding one token list per argument.
package token

import (
	"fmt"
	"strings"
)

// Kind identifies the type of a token.
type Kind int

const (
	Name      Kind = iota // identifier
	Keyword               // let, return, fn
	Dot                   // .
	Call                  // (a, b) after a callee
	Assign                // =
	String                // "text"
	Number                // 42
	Parens                // (expr)
	Block                 // { ... }
	Semicolon             // ;
	Colon                 // :
	Comma                 // ,
)

var kindNames = [...]string{
	Name:      "name",
	Keyword:   "keyword",
	Dot:       "'.'",
	Call:      "call",
	Assign:    "'='",
	String:    "string",
	Number:    "number",
	Parens:    "parentheses",
	Block:     "block",
	Semicolon: "';'",
	Colon:     "':'",
	Comma:     "','",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords.
const (
	Let    = "let"
	Return = "return"
	Fn     = "fn"
)

// Token is a single lexical element. Offset is the byte offset of its first character.
type Token struct {
	Kind   Kind
	Offset int

	// Text holds the identifier, keyword or string contents.
	Text string
	// Value holds the value of a Number.
	Value uint8
	// Children holds the contents of Parens and Block tokens.
	Children []Token
	// Args holds one token list per argument of a Call.
	Args [][]Token
}

// Is reports whether t is the keyword kw.
func (t Token) Is(kw string) bool {
	return t.Kind == Keyword && t.Text == kw
}

func (t Token) String() string {
	switch t.Kind {
	case Name, Keyword:
		return t.Text
	case String:
		return fmt.Sprintf("%q", t.Text)
	case Number:
		return fmt.Sprintf("%d", t.Value)
	case Parens:
		return "(" + join(t.Children) + ")"
	case Block:
		return "{" + join(t.Children) + "}"
	case Call:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = join(a)
		}
		return "(" + strings.Join(args, ", ") + ")"
	default:
		return strings.Trim(t.Kind.String(), "'")
	}
}

func join(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
