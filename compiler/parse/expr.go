package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/sprs/compiler/ast"
	"github.com/slowlang/sprs/compiler/lex"
)

type (
	exprParser func(ctx context.Context, st int) (ast.Expr, int, error)

	// LeftToRight parses a left-associative chain of Arg separated by Op.
	LeftToRight struct {
		Op    lex.Kind
		Arg   exprParser
		BinOp func(pos lex.Pos, l, r ast.Expr) ast.Expr
	}
)

// Precedence tiers, weakest first: ==, +, *, factor.

func (s *State) parseExpr(ctx context.Context, st int) (ast.Expr, int, error) {
	return s.parseEq(ctx, st)
}

func (s *State) parseEq(ctx context.Context, st int) (ast.Expr, int, error) {
	r := LeftToRight{
		Op:  lex.Eq,
		Arg: s.parseAdd,
		BinOp: func(pos lex.Pos, l, r ast.Expr) ast.Expr {
			return &ast.Eq{Base: ast.Base{Pos: pos}, Left: l, Right: r}
		},
	}

	return r.Parse(ctx, s, st)
}

func (s *State) parseAdd(ctx context.Context, st int) (ast.Expr, int, error) {
	r := LeftToRight{
		Op:  lex.Plus,
		Arg: s.parseMul,
		BinOp: func(pos lex.Pos, l, r ast.Expr) ast.Expr {
			return &ast.Add{Base: ast.Base{Pos: pos}, Left: l, Right: r}
		},
	}

	return r.Parse(ctx, s, st)
}

func (s *State) parseMul(ctx context.Context, st int) (ast.Expr, int, error) {
	r := LeftToRight{
		Op:  lex.Star,
		Arg: s.parseFactor,
		BinOp: func(pos lex.Pos, l, r ast.Expr) ast.Expr {
			return &ast.Mul{Base: ast.Base{Pos: pos}, Left: l, Right: r}
		},
	}

	return r.Parse(ctx, s, st)
}

func (p LeftToRight) Parse(ctx context.Context, s *State, st int) (x ast.Expr, i int, err error) {
	x, i, err = p.Arg(ctx, st)
	if err != nil {
		return nil, i, err
	}

	for s.tok(i).Kind == p.Op {
		pos := s.tok(i).Pos

		var r ast.Expr

		r, i, err = p.Arg(ctx, i+1)
		if err != nil {
			return nil, i, errors.Wrap(err, "%v rhs", p.Op)
		}

		x = p.BinOp(pos, x, r)
	}

	return x, i, nil
}

func (s *State) parseFactor(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	tk := s.tok(st)

	switch tk.Kind {
	case lex.Int:
		return &ast.Number{Base: ast.Base{Pos: tk.Pos}, Value: tk.Int}, st + 1, nil
	case lex.Ident:
		if s.tok(st+1).Kind == lex.LParen {
			return s.parseCall(ctx, st)
		}

		return &ast.Ident{Base: ast.Base{Pos: tk.Pos}, Name: tk.Text}, st + 1, nil
	case lex.LParen:
		x, i, err = s.parseExpr(ctx, st+1)
		if err != nil {
			return nil, i, err
		}

		_, i, err = s.expect(i, lex.RParen)
		if err != nil {
			return nil, i, errors.Wrap(err, "parenthesized expression")
		}

		return x, i, nil
	default:
		return nil, st, NewUnexpected(tk, lex.Int, lex.Ident, lex.LParen)
	}
}

func (s *State) parseCall(ctx context.Context, st int) (x *ast.Call, i int, err error) {
	tk := s.tok(st)

	x = &ast.Call{
		Base: ast.Base{Pos: tk.Pos},
		Name: tk.Text,
	}

	i = st + 2 // name (

	if s.tok(i).Kind == lex.RParen {
		return x, i + 1, nil
	}

	for {
		var a ast.Expr

		a, i, err = s.parseExpr(ctx, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "call %v: arg %d", x.Name, len(x.Args))
		}

		x.Args = append(x.Args, a)

		next := s.tok(i)

		switch next.Kind {
		case lex.Comma:
			i++
		case lex.RParen:
			return x, i + 1, nil
		default:
			return nil, i, NewUnexpected(next, lex.Comma, lex.RParen)
		}
	}
}
