package analyze

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/sprs/compiler/ast"
	"github.com/slowlang/sprs/compiler/lex"
	"github.com/slowlang/sprs/compiler/set"
	"github.com/slowlang/sprs/compiler/tp"
)

type (
	// Hints is advisory type information. The evaluator never reads it.
	Hints struct {
		Funcs []FuncSig
		Vars  []VarHint
	}

	FuncSig struct {
		Name   string
		Index  int // item index in the program
		Params []string
		Ret    tp.Type
	}

	VarHint struct {
		Func string // empty for top-level items
		Name string
		Pos  lex.Pos
		Type tp.Type
	}

	builder struct {
		funcs []*ast.Func
		index map[string]int // func name -> position in funcs

		ret      []tp.Type
		done     set.Bitmap
		visiting set.Bitmap
	}

	// funcScope is a per-function view of assigned variable types.
	funcScope struct {
		name string
		vars map[string]tp.Type
		ret  tp.Type

		hints *[]VarHint
	}
)

// Build computes function signatures and variable hints for p. It never fails.
func Build(ctx context.Context, p *ast.Program) *Hints {
	b := &builder{
		funcs: p.Funcs(),
		index: map[string]int{},
	}

	b.ret = make([]tp.Type, len(b.funcs))
	b.done = set.MakeBitmap(len(b.funcs))
	b.visiting = set.MakeBitmap(len(b.funcs))

	for i, f := range b.funcs {
		b.index[f.Name] = i
	}

	h := &Hints{}

	fi := 0

	for ix, it := range p.Items {
		switch it := it.(type) {
		case *ast.Func:
			ret, vars := b.funcType(ctx, fi)
			fi++

			h.Funcs = append(h.Funcs, FuncSig{
				Name:   it.Name,
				Index:  ix,
				Params: it.Params,
				Ret:    ret,
			})

			h.Vars = append(h.Vars, vars...)
		case *ast.VarItem:
			s := &funcScope{vars: map[string]tp.Type{}}

			h.Vars = append(h.Vars, VarHint{
				Name: it.Name,
				Pos:  it.Pos,
				Type: b.exprType(ctx, s, it.Value),
			})
		}
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("hints") {
		for _, f := range h.Funcs {
			tr.Printw("func sig", "name", f.Name, "params", f.Params, "ret", f.Ret)
		}

		for _, v := range h.Vars {
			tr.Printw("var hint", "func", v.Func, "name", v.Name, "pos", v.Pos, "type", v.Type)
		}
	}

	return h
}

// funcType infers the return type of funcs[fi]. Var hints are collected on the first full pass.
func (b *builder) funcType(ctx context.Context, fi int) (ret tp.Type, vars []VarHint) {
	f := b.funcs[fi]

	b.visiting.Set(fi)
	defer b.visiting.Clear(fi)

	s := &funcScope{
		name:  f.Name,
		vars:  map[string]tp.Type{},
		hints: &vars,
	}

	for _, p := range f.Params {
		s.vars[p] = tp.Any{}
	}

	b.block(ctx, s, f.Body)

	ret = s.ret
	if !tp.Known(ret) {
		ret = tp.Any{}
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("hints") {
		tr.Printw("func type", "name", f.Name, "ret", ret, "visiting", b.visiting, "depth", b.visiting.Size())
	}

	b.ret[fi] = ret
	b.done.Set(fi)

	return ret, vars
}

func (b *builder) block(ctx context.Context, s *funcScope, blk *ast.Block) {
	if blk == nil {
		return
	}

	for _, x := range blk.Stmts {
		switch x := x.(type) {
		case *ast.Assign:
			t := b.exprType(ctx, s, x.Value)

			if prev, ok := s.vars[x.Name]; ok {
				t = tp.Join(prev, t)
			}

			s.vars[x.Name] = t

			*s.hints = append(*s.hints, VarHint{
				Func: s.name,
				Name: x.Name,
				Pos:  x.Pos,
				Type: t,
			})
		case *ast.If:
			b.block(ctx, s, x.Then)
			b.block(ctx, s, x.Else)
		case *ast.Return:
			if x.Value == nil {
				break
			}

			// Any returns don't weaken confident ones. Int and Bool together are Any.
			t := b.exprType(ctx, s, x.Value)
			if tp.Known(t) {
				s.ret = tp.Join(s.ret, t)
			}
		}
	}
}

func (b *builder) exprType(ctx context.Context, s *funcScope, e ast.Expr) tp.Type {
	switch e := e.(type) {
	case *ast.Number:
		return tp.I64
	case *ast.Eq:
		return tp.Bool{}
	case *ast.Add:
		return b.arith(ctx, s, e.Left, e.Right)
	case *ast.Mul:
		return b.arith(ctx, s, e.Left, e.Right)
	case *ast.Ident:
		if t, ok := s.vars[e.Name]; ok {
			return t
		}

		return tp.Any{}
	case *ast.Call:
		return b.callType(ctx, e)
	default:
		return tp.Any{}
	}
}

func (b *builder) arith(ctx context.Context, s *funcScope, l, r ast.Expr) tp.Type {
	lt := b.exprType(ctx, s, l)
	rt := b.exprType(ctx, s, r)

	if lt == tp.I64 && rt == tp.I64 {
		return tp.I64
	}

	return tp.Any{}
}

func (b *builder) callType(ctx context.Context, c *ast.Call) tp.Type {
	fi, ok := b.index[c.Name]
	if !ok || c.Name == "print" {
		return tp.Any{}
	}

	if b.done.IsSet(fi) {
		return b.ret[fi]
	}

	if b.visiting.IsSet(fi) {
		return tp.Any{}
	}

	ret, _ := b.funcType(ctx, fi)

	return ret
}
