package eval

import (
	"context"
	"io"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/sprs/compiler/ast"
	"github.com/slowlang/sprs/compiler/lex"
)

type (
	// Env is the variable store of a single function call.
	// if/else arms share it, there is no block scoping.
	Env map[string]Value

	// Funcs is the function table. It is read-only once built.
	Funcs map[string]*ast.Func

	Interp struct {
		Stdout io.Writer

		// MaxDepth limits nested user function calls. Zero means DefaultMaxDepth.
		MaxDepth int

		funcs Funcs
		depth int
		buf   []byte
	}

	// flow is the outcome of running statements: either completed or returning Value.
	flow struct {
		Value     Value
		Returning bool
	}
)

const Builtin = "print"

const DefaultMaxDepth = 10000

// NewFuncs indexes function definitions by name. A later definition replaces an earlier one.
func NewFuncs(p *ast.Program) Funcs {
	fs := Funcs{}

	for _, f := range p.Funcs() {
		fs[f.Name] = f
	}

	return fs
}

// Entry returns main if defined, the first function otherwise.
func Entry(p *ast.Program, fs Funcs) *ast.Func {
	if f, ok := fs["main"]; ok {
		return f
	}

	if l := p.Funcs(); len(l) != 0 {
		return l[0]
	}

	return nil
}

// Run executes the entry function of p with no arguments and returns its result.
func Run(ctx context.Context, p *ast.Program, stdout io.Writer) (Value, error) {
	it := &Interp{Stdout: stdout}

	return it.Run(ctx, p)
}

func (it *Interp) Run(ctx context.Context, p *ast.Program) (res Value, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "eval: run")
	defer tr.Finish("err", &err)

	it.funcs = NewFuncs(p)
	it.depth = 0

	if it.Stdout == nil {
		it.Stdout = os.Stdout
	}

	entry := Entry(p, it.funcs)
	if entry == nil {
		return nil, &Error{Kind: NoEntry}
	}

	tr.Printw("entry", "name", entry.Name, "funcs", len(it.funcs))

	return it.call(ctx, entry, nil, entry.Pos)
}

func (it *Interp) call(ctx context.Context, f *ast.Func, args []Value, pos lex.Pos) (_ Value, err error) {
	if len(args) != len(f.Params) {
		return nil, &Error{Kind: Arity, Name: f.Name, Pos: pos, Want: len(f.Params), Got: len(args)}
	}

	limit := it.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}

	if it.depth >= limit {
		return nil, &Error{Kind: CallDepth, Name: f.Name, Pos: pos, Want: it.depth}
	}

	it.depth++
	defer func() { it.depth-- }()

	env := make(Env, len(f.Params))

	for i, p := range f.Params {
		env[p] = args[i]
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("eval") {
		tr.Printw("call", "name", f.Name, "args", args, "depth", it.depth, "from", loc.Caller(1))
	}

	fl, err := it.block(ctx, env, f.Body)
	if err != nil {
		return nil, err
	}

	if !fl.Returning {
		return Unit{}, nil
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("eval") {
		tr.Printw("return", "name", f.Name, "value", fl.Value)
	}

	return fl.Value, nil
}

func (it *Interp) block(ctx context.Context, env Env, b *ast.Block) (fl flow, err error) {
	fl.Value = Unit{}

	if b == nil {
		return fl, nil
	}

	for _, s := range b.Stmts {
		fl, err = it.stmt(ctx, env, s)
		if err != nil {
			return fl, err
		}

		if fl.Returning {
			return fl, nil
		}
	}

	return fl, nil
}

func (it *Interp) stmt(ctx context.Context, env Env, s ast.Stmt) (fl flow, err error) {
	fl.Value = Unit{}

	switch s := s.(type) {
	case *ast.Assign:
		v, err := it.expr(ctx, env, s.Value)
		if err != nil {
			return fl, err
		}

		env[s.Name] = v

		if tr := tlog.SpanFromContext(ctx); tr.If("eval") {
			tr.Printw("assign", "name", s.Name, "value", v)
		}
	case *ast.ExprStmt:
		_, err = it.expr(ctx, env, s.X)
		if err != nil {
			return fl, err
		}
	case *ast.If:
		c, err := it.expr(ctx, env, s.Cond)
		if err != nil {
			return fl, err
		}

		switch {
		case Truthy(c):
			return it.block(ctx, env, s.Then)
		case s.Else != nil:
			return it.block(ctx, env, s.Else)
		}
	case *ast.Return:
		fl.Returning = true

		if s.Value == nil {
			return fl, nil
		}

		fl.Value, err = it.expr(ctx, env, s.Value)
		if err != nil {
			return fl, err
		}
	default:
		return fl, errors.New("unsupported statement: %T", s)
	}

	return fl, nil
}

func (it *Interp) expr(ctx context.Context, env Env, e ast.Expr) (Value, error) {
	switch e := e.(type) {
	case *ast.Number:
		return Int(e.Value), nil
	case *ast.Ident:
		v, ok := env[e.Name]
		if !ok {
			return nil, &Error{Kind: UndefinedVariable, Name: e.Name, Pos: e.Pos}
		}

		return v, nil
	case *ast.Add:
		l, r, err := it.binary(ctx, env, e.Left, e.Right)
		if err != nil {
			return nil, err
		}

		return Add(l, r), nil
	case *ast.Mul:
		l, r, err := it.binary(ctx, env, e.Left, e.Right)
		if err != nil {
			return nil, err
		}

		return Mul(l, r), nil
	case *ast.Eq:
		l, r, err := it.binary(ctx, env, e.Left, e.Right)
		if err != nil {
			return nil, err
		}

		return Equal(l, r), nil
	case *ast.Call:
		return it.callExpr(ctx, env, e)
	default:
		return nil, errors.New("unsupported expression: %T", e)
	}
}

func (it *Interp) binary(ctx context.Context, env Env, le, re ast.Expr) (l, r Value, err error) {
	l, err = it.expr(ctx, env, le)
	if err != nil {
		return nil, nil, err
	}

	r, err = it.expr(ctx, env, re)
	if err != nil {
		return nil, nil, err
	}

	return l, r, nil
}

func (it *Interp) callExpr(ctx context.Context, env Env, c *ast.Call) (Value, error) {
	args := make([]Value, len(c.Args))

	for i, a := range c.Args {
		v, err := it.expr(ctx, env, a)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	if c.Name == Builtin {
		return it.print(c, args)
	}

	f, ok := it.funcs[c.Name]
	if !ok {
		return nil, &Error{Kind: UndefinedFunction, Name: c.Name, Pos: c.Pos}
	}

	return it.call(ctx, f, args, c.Pos)
}

func (it *Interp) print(c *ast.Call, args []Value) (Value, error) {
	b := it.buf[:0]

	for _, a := range args {
		b = a.AppendText(b)
		b = append(b, '\n')
	}

	it.buf = b

	_, err := it.Stdout.Write(b)
	if err != nil {
		return nil, &Error{Kind: Output, Name: c.Name, Pos: c.Pos, Err: err}
	}

	return Unit{}, nil
}
