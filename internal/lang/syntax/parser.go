package syntax

import (
	"go.trai.ch/pave/internal/lang/token"
	"go.trai.ch/zerr"
)

// ParseExpr parses tokens as a single expression.
func ParseExpr(tokens []token.Token) (Expr, error) {
	return parseExpr(tokens, 0)
}

// parseExpr parses tokens; pos is reported when tokens is empty.
func parseExpr(tokens []token.Token, pos int) (Expr, error) {
	if len(tokens) == 0 {
		return nil, at(ErrExpectedExpression, pos)
	}

	first := tokens[0]
	switch {
	case first.Is(token.Let):
		return parseLet(tokens)
	case first.Is(token.Return):
		if len(tokens) == 1 {
			return &Return{Offset: first.Offset}, nil
		}
		value, err := parseExpr(tokens[1:], first.Offset)
		if err != nil {
			return nil, err
		}
		return &Return{Offset: first.Offset, Value: value}, nil
	}

	for _, t := range tokens {
		if t.Kind == token.Assign {
			return nil, at(ErrAssignmentUnsupported, t.Offset)
		}
	}

	for i := len(tokens) - 1; i >= 0; i-- {
		switch tokens[i].Kind {
		case token.Call:
			return parseCall(tokens, i)
		case token.Dot:
			return parseIndex(tokens, i)
		}
	}

	if len(tokens) > 1 {
		return nil, unexpected(tokens[1])
	}
	return parseOperand(first)
}

func parseLet(tokens []token.Token) (Expr, error) {
	let := tokens[0]
	if len(tokens) < 2 || tokens[1].Kind != token.Name {
		return nil, at(ErrExpectedName, let.Offset)
	}
	if len(tokens) < 3 || tokens[2].Kind != token.Assign {
		return nil, at(ErrExpectedAssign, tokens[1].Offset)
	}
	value, err := parseExpr(tokens[3:], tokens[2].Offset)
	if err != nil {
		return nil, err
	}
	return &Let{Offset: let.Offset, Name: tokens[1].Text, Value: value}, nil
}

func parseCall(tokens []token.Token, i int) (Expr, error) {
	call := tokens[i]
	if i != len(tokens)-1 {
		return nil, unexpected(tokens[i+1])
	}
	callee, err := parseExpr(tokens[:i], call.Offset)
	if err != nil {
		return nil, err
	}

	args := make([]Expr, 0, len(call.Args))
	for _, a := range call.Args {
		arg, err := parseExpr(a, call.Offset)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &Call{Callee: callee, Args: args}, nil
}

func parseIndex(tokens []token.Token, i int) (Expr, error) {
	dot := tokens[i]
	if i+1 >= len(tokens) || tokens[i+1].Kind != token.Name {
		return nil, at(ErrExpectedName, dot.Offset)
	}
	if i+2 < len(tokens) {
		return nil, unexpected(tokens[i+2])
	}
	left, err := parseExpr(tokens[:i], dot.Offset)
	if err != nil {
		return nil, err
	}
	return &Index{Left: left, Name: tokens[i+1].Text, NameOffset: tokens[i+1].Offset}, nil
}

func parseOperand(t token.Token) (Expr, error) {
	switch t.Kind {
	case token.Name:
		return &Var{Offset: t.Offset, Name: t.Text}, nil
	case token.String:
		return &StringLit{Offset: t.Offset, Value: t.Text}, nil
	case token.Number:
		return &NumberLit{Offset: t.Offset, Value: t.Value}, nil
	case token.Parens:
		return parseExpr(t.Children, t.Offset)
	case token.Block:
		return parseBlock(t)
	default:
		return nil, unexpected(t)
	}
}

func parseBlock(t token.Token) (*Block, error) {
	block := &Block{Offset: t.Offset}
	start := 0
	for i, c := range t.Children {
		if c.Kind != token.Semicolon {
			continue
		}
		if err := block.appendStmt(t.Children[start:i]); err != nil {
			return nil, err
		}
		start = i + 1
	}
	if start < len(t.Children) {
		if err := block.appendStmt(t.Children[start:]); err != nil {
			return nil, err
		}
		block.Yields = true
	}
	return block, nil
}

func (b *Block) appendStmt(tokens []token.Token) error {
	if len(tokens) == 0 {
		return nil
	}
	stmt, err := parseExpr(tokens, tokens[0].Offset)
	if err != nil {
		return err
	}
	b.Stmts = append(b.Stmts, stmt)
	return nil
}

func unexpected(t token.Token) error {
	return zerr.With(at(ErrExpectedExpression, t.Offset), "found", t.Kind.String())
}
