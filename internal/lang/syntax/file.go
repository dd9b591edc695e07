package syntax

import (
	"go.trai.ch/pave/internal/lang/token"
	"go.trai.ch/zerr"
)

// ParseFile parses a sequence of function declarations:
//
//	fn name() [: type] { ... }
//	fn name() [: type] expr;
func ParseFile(tokens []token.Token) (*File, error) {
	file := &File{}
	seen := make(map[string]bool)

	p := &fileParser{tokens: tokens}
	for !p.done() {
		decl, err := p.parseFunc()
		if err != nil {
			return nil, err
		}
		if seen[decl.Name] {
			return nil, zerr.With(at(ErrDuplicateFunction, decl.Offset), "name", decl.Name)
		}
		seen[decl.Name] = true
		file.Funcs = append(file.Funcs, decl)
	}
	return file, nil
}

type fileParser struct {
	tokens []token.Token
	pos    int
}

func (p *fileParser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *fileParser) peek() (token.Token, bool) {
	if p.done() {
		return token.Token{}, false
	}
	return p.tokens[p.pos], true
}

// last returns the offset of the most recently consumed token.
func (p *fileParser) last() int {
	if p.pos == 0 {
		return 0
	}
	return p.tokens[p.pos-1].Offset
}

func (p *fileParser) parseFunc() (*FuncDecl, error) {
	fn, _ := p.peek()
	if !fn.Is(token.Fn) {
		return nil, at(ErrExpectedTopLevel, fn.Offset)
	}
	p.pos++

	name, ok := p.peek()
	if !ok || name.Kind != token.Name {
		return nil, at(ErrExpectedName, p.last())
	}
	p.pos++

	params, ok := p.peek()
	if !ok || params.Kind != token.Call {
		return nil, zerr.With(at(ErrExpectedParameters, p.last()), "name", name.Text)
	}
	if len(params.Args) > 0 {
		return nil, zerr.With(at(ErrParametersUnsupported, params.Offset), "name", name.Text)
	}
	p.pos++

	decl := &FuncDecl{Offset: name.Offset, Name: name.Text}

	if colon, ok := p.peek(); ok && colon.Kind == token.Colon {
		p.pos++
		typ, ok := p.peek()
		if !ok || typ.Kind != token.Name {
			return nil, at(ErrExpectedName, colon.Offset)
		}
		decl.Returns = typ.Text
		decl.ReturnsOffset = typ.Offset
		p.pos++
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	decl.Body = body
	return decl, nil
}

func (p *fileParser) parseBody() (Expr, error) {
	first, ok := p.peek()
	if !ok {
		return nil, at(ErrExpectedExpression, p.last())
	}
	if first.Kind == token.Block {
		p.pos++
		return parseBlock(first)
	}

	start := p.pos
	for ; !p.done(); p.pos++ {
		if p.tokens[p.pos].Kind != token.Semicolon {
			continue
		}
		expr, err := parseExpr(p.tokens[start:p.pos], p.tokens[p.pos].Offset)
		if err != nil {
			return nil, err
		}
		p.pos++
		return expr, nil
	}
	return nil, at(ErrExpectedSemicolon, p.last())
}
