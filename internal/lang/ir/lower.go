package ir

import (
	"strings"

	"go.trai.ch/pave/internal/lang/syntax"
	"go.trai.ch/zerr"
)

type decl interface {
	isDecl()
}

type funcDecl struct {
	sig Signature
}

type moduleDecl map[string]decl

type varDecl struct {
	index int
}

func (funcDecl) isDecl()   {}
func (moduleDecl) isDecl() {}
func (varDecl) isDecl()    {}

// Lower type-checks file and lowers every function into a module.
// Signatures are collected first, so functions may call functions declared later.
func Lower(file *syntax.File) (*Module, error) {
	module := NewModule()
	scope := globals()

	sigs := make([]Signature, len(file.Funcs))
	for i, fd := range file.Funcs {
		returns, ok := TypeByName(fd.Returns)
		if !ok {
			err := zerr.With(at(ErrUndefinedType, fd.ReturnsOffset), "type", fd.Returns)
			return nil, zerr.With(err, "function", fd.Name)
		}
		sigs[i] = Signature{Returns: returns}
		scope[fd.Name] = funcDecl{sig: sigs[i]}
	}

	for i, fd := range file.Funcs {
		fn, err := lowerFunc(module, scope, fd, sigs[i])
		if err != nil {
			return nil, zerr.With(err, "function", fd.Name)
		}
		module.addFunction(fn)
	}
	return module, nil
}

type lowerer struct {
	module   *Module
	fn       *Function
	scopes   []map[string]decl
	returned bool
}

func lowerFunc(module *Module, globals map[string]decl, fd *syntax.FuncDecl, sig Signature) (*Function, error) {
	l := &lowerer{
		module: module,
		fn: &Function{
			Name:      fd.Name,
			Exported:  true,
			Signature: sig,
			Blocks:    []Block{{Terminal: Terminal{Kind: Evaluate, Var: NoVar}}},
		},
		// Bindings of a function never reach the shared globals.
		scopes: []map[string]decl{globals, make(map[string]decl)},
	}

	v, typ, err := l.expr(fd.Body, true)
	if err != nil {
		return nil, err
	}
	if l.returned {
		return l.fn, nil
	}

	switch {
	case sig.Returns == Void && typ != Void:
		return nil, mismatch(fd.Body.Pos(), typ, Void)
	case sig.Returns == Void:
		v = NoVar
	case typ == Void:
		return nil, zerr.With(at(ErrMissingReturnValue, fd.Body.Pos()), "expected", sig.Returns.String())
	case typ != sig.Returns:
		return nil, mismatch(fd.Body.Pos(), typ, sig.Returns)
	}
	l.fn.Blocks[0].Terminal = Terminal{Kind: Evaluate, Var: v}
	return l.fn, nil
}

func (l *lowerer) emit(op Op, dest int) {
	b := &l.fn.Blocks[0]
	b.Statements = append(b.Statements, Statement{Op: op, Dest: dest})
}

func (l *lowerer) lookup(name string) (decl, bool) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if d, ok := l.scopes[i][name]; ok {
			return d, true
		}
	}
	return nil, false
}

// expr lowers e. When want is set and e has a value, the value is stored in
// the returned variable; otherwise the variable is NoVar. The returned type is
// the type of e either way.
func (l *lowerer) expr(e syntax.Expr, want bool) (int, Type, error) {
	switch e := e.(type) {
	case *syntax.StringLit:
		return l.constant(Constant{Type: ArrayOf(len(e.Value)), Data: []byte(e.Value)}, StringSlice, want)
	case *syntax.NumberLit:
		return l.constant(Constant{Type: U8, Data: []byte{e.Value}}, U8, want)
	case *syntax.Var:
		return l.variable(e, want)
	case *syntax.Index:
		path, _, err := l.resolve(e)
		if err != nil {
			return NoVar, Void, err
		}
		return NoVar, Void, zerr.With(at(ErrNotAValue, e.Pos()), "name", strings.Join(path, "."))
	case *syntax.Call:
		return l.call(e, want)
	case *syntax.Let:
		return NoVar, Void, l.let(e)
	case *syntax.Return:
		return NoVar, Void, l.ret(e)
	case *syntax.Block:
		return l.block(e, want)
	}
	return NoVar, Void, zerr.With(at(ErrNotAValue, e.Pos()), "expression", e.String())
}

func (l *lowerer) constant(c Constant, typ Type, want bool) (int, Type, error) {
	if !want {
		return NoVar, typ, nil
	}
	src := l.module.addConstant(c)
	dest := l.fn.newVar(typ)
	l.emit(LoadGlobal{Src: src}, dest)
	return dest, typ, nil
}

func (l *lowerer) variable(e *syntax.Var, want bool) (int, Type, error) {
	d, ok := l.lookup(e.Name)
	if !ok {
		return NoVar, Void, zerr.With(at(ErrUndefinedSymbol, e.Offset), "name", e.Name)
	}
	v, ok := d.(varDecl)
	if !ok {
		return NoVar, Void, zerr.With(at(ErrNotAValue, e.Offset), "name", e.Name)
	}

	typ := l.fn.Vars[v.index]
	if !want {
		return NoVar, typ, nil
	}
	dest := l.fn.newVar(typ)
	l.emit(LoadLocal{Src: v.index}, dest)
	return dest, typ, nil
}

// resolve turns a name or member chain into its dotted path and declaration.
func (l *lowerer) resolve(e syntax.Expr) ([]string, decl, error) {
	switch e := e.(type) {
	case *syntax.Var:
		d, ok := l.lookup(e.Name)
		if !ok {
			return nil, nil, zerr.With(at(ErrUndefinedSymbol, e.Offset), "name", e.Name)
		}
		return []string{e.Name}, d, nil
	case *syntax.Index:
		switch e.Left.(type) {
		case *syntax.Var, *syntax.Index:
		default:
			return nil, nil, zerr.With(at(ErrNotIndexable, e.Left.Pos()), "name", e.Left.String())
		}
		path, d, err := l.resolve(e.Left)
		if err != nil {
			return nil, nil, err
		}
		members, ok := d.(moduleDecl)
		if !ok {
			return nil, nil, zerr.With(at(ErrNotIndexable, e.Left.Pos()), "name", strings.Join(path, "."))
		}
		path = append(path, e.Name)
		member, ok := members[e.Name]
		if !ok {
			return nil, nil, zerr.With(at(ErrUndefinedSymbol, e.NameOffset), "name", strings.Join(path, "."))
		}
		return path, member, nil
	}
	return nil, nil, zerr.With(at(ErrNotCallable, e.Pos()), "name", e.String())
}

func (l *lowerer) call(e *syntax.Call, want bool) (int, Type, error) {
	path, d, err := l.resolve(e.Callee)
	if err != nil {
		return NoVar, Void, err
	}
	name := strings.Join(path, ".")
	fd, ok := d.(funcDecl)
	if !ok {
		return NoVar, Void, zerr.With(at(ErrNotCallable, e.Callee.Pos()), "name", name)
	}

	params := fd.sig.Params
	args := make([]int, 0, len(e.Args))
	for i, a := range e.Args {
		if i >= len(params) {
			return NoVar, Void, zerr.With(at(ErrExtraArgument, a.Pos()), "callee", name)
		}
		v, typ, err := l.expr(a, true)
		if err != nil {
			return NoVar, Void, err
		}
		if typ == Void {
			return NoVar, Void, zerr.With(at(ErrVoidValue, a.Pos()), "expression", a.String())
		}
		if typ != params[i] {
			return NoVar, Void, mismatch(a.Pos(), typ, params[i])
		}
		args = append(args, v)
	}
	if len(e.Args) < len(params) {
		err := zerr.With(at(ErrMissingArgument, e.Pos()), "callee", name)
		return NoVar, Void, zerr.With(err, "expected", params[len(e.Args)].String())
	}

	dest := NoVar
	if want && fd.sig.Returns != Void {
		dest = l.fn.newVar(fd.sig.Returns)
	}
	l.emit(Call{Callee: path, Args: args}, dest)
	return dest, fd.sig.Returns, nil
}

func (l *lowerer) let(e *syntax.Let) error {
	v, typ, err := l.expr(e.Value, true)
	if err != nil {
		return err
	}
	if typ == Void {
		return zerr.With(at(ErrVoidValue, e.Value.Pos()), "expression", e.Value.String())
	}
	l.scopes[len(l.scopes)-1][e.Name] = varDecl{index: v}
	return nil
}

func (l *lowerer) ret(e *syntax.Return) error {
	returns := l.fn.Signature.Returns
	term := Terminal{Kind: Return, Var: NoVar}

	if e.Value == nil {
		if returns != Void {
			return zerr.With(at(ErrMissingReturnValue, e.Offset), "expected", returns.String())
		}
	} else {
		v, typ, err := l.expr(e.Value, true)
		if err != nil {
			return err
		}
		switch {
		case returns == Void && typ != Void:
			return mismatch(e.Value.Pos(), typ, Void)
		case returns != Void && typ == Void:
			return zerr.With(at(ErrMissingReturnValue, e.Value.Pos()), "expected", returns.String())
		case typ != returns:
			return mismatch(e.Value.Pos(), typ, returns)
		}
		term.Var = v
	}

	l.fn.Blocks[0].Terminal = term
	l.returned = true
	return nil
}

func (l *lowerer) block(e *syntax.Block, want bool) (int, Type, error) {
	l.scopes = append(l.scopes, make(map[string]decl))
	defer func() { l.scopes = l.scopes[:len(l.scopes)-1] }()

	result, typ := NoVar, Void
	for i, s := range e.Stmts {
		if l.returned {
			return NoVar, Void, at(ErrUnreachableCode, s.Pos())
		}
		yields := e.Yields && i == len(e.Stmts)-1
		v, t, err := l.expr(s, want && yields)
		if err != nil {
			return NoVar, Void, err
		}
		if yields {
			result, typ = v, t
		}
	}
	return result, typ, nil
}
