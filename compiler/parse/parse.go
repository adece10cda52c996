package parse

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/sprs/compiler/ast"
	"github.com/slowlang/sprs/compiler/lex"
)

type (
	State struct {
		toks []lex.Token
	}

	UnexpectedError struct {
		Token lex.Token
		Want  []lex.Kind
	}
)

// ParseText lexes and parses text.
func ParseText(ctx context.Context, text []byte) (*ast.Program, error) {
	toks, err := lex.Lex(ctx, text)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, toks)
}

// Parse builds a Program from toks. toks must end with an EOF token as produced by lex.Lex.
func Parse(ctx context.Context, toks []lex.Token) (p *ast.Program, err error) {
	if len(toks) == 0 || toks[len(toks)-1].Kind != lex.EOF {
		toks = append(toks[:len(toks):len(toks)], lex.Token{Kind: lex.EOF})
	}

	s := &State{toks: toks}

	return s.parseProgram(ctx)
}

func (s *State) parseProgram(ctx context.Context) (p *ast.Program, err error) {
	p = &ast.Program{}

	i := 0

	for {
		var it ast.Item

		it, i, err = s.parseItem(ctx, i)
		if err != nil {
			return nil, err
		}

		p.Items = append(p.Items, it)

		if s.tok(i).Kind == lex.EOF {
			break
		}
	}

	tlog.SpanFromContext(ctx).V("parse").Printw("program", "items", len(p.Items))

	return p, nil
}

func (s *State) parseItem(ctx context.Context, st int) (x ast.Item, i int, err error) {
	tk := s.tok(st)

	switch tk.Kind {
	case lex.Fn:
		return s.parseFunc(ctx, st)
	case lex.Ident:
		return s.parseVarItem(ctx, st)
	default:
		return nil, st, NewUnexpected(tk, lex.Fn, lex.Ident)
	}
}

func (s *State) parseFunc(ctx context.Context, st int) (f *ast.Func, i int, err error) {
	i = st + 1 // fn

	name, i, err := s.expect(i, lex.Ident)
	if err != nil {
		return nil, i, errors.Wrap(err, "func name")
	}

	f = &ast.Func{
		Base: ast.Base{Pos: s.tok(st).Pos},
		Name: name.Text,
	}

	f.Params, i, err = s.parseParams(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "fn %v", f.Name)
	}

	f.Body, i, err = s.parseBlock(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "fn %v", f.Name)
	}

	s.trace(ctx, "func", "name", f.Name, "params", f.Params, "stmts", len(f.Body.Stmts))

	return f, i, nil
}

func (s *State) parseParams(ctx context.Context, st int) (ps []string, i int, err error) {
	_, i, err = s.expect(st, lex.LParen)
	if err != nil {
		return
	}

	if s.tok(i).Kind == lex.RParen {
		return nil, i + 1, nil
	}

	for {
		var id lex.Token

		id, i, err = s.expect(i, lex.Ident)
		if err != nil {
			return nil, i, errors.Wrap(err, "param")
		}

		ps = append(ps, id.Text)

		tk := s.tok(i)

		switch tk.Kind {
		case lex.Comma:
			i++
		case lex.RParen:
			return ps, i + 1, nil
		default:
			return nil, i, NewUnexpected(tk, lex.Comma, lex.RParen)
		}
	}
}

func (s *State) parseVarItem(ctx context.Context, st int) (x *ast.VarItem, i int, err error) {
	name, val, i, err := s.parseAssignment(ctx, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "var %v", s.tok(st).Text)
	}

	x = &ast.VarItem{
		Base:  ast.Base{Pos: s.tok(st).Pos},
		Name:  name,
		Value: val,
	}

	return x, i, nil
}

func (s *State) parseBlock(ctx context.Context, st int) (b *ast.Block, i int, err error) {
	_, i, err = s.expect(st, lex.LBrace)
	if err != nil {
		return
	}

	b = &ast.Block{
		Base: ast.Base{Pos: s.tok(st).Pos},
	}

	for s.tok(i).Kind != lex.RBrace {
		var x ast.Stmt

		x, i, err = s.parseStatement(ctx, i)
		if err != nil {
			return nil, i, err
		}

		b.Stmts = append(b.Stmts, x)
	}

	return b, i + 1, nil
}

func (s *State) parseStatement(ctx context.Context, st int) (x ast.Stmt, i int, err error) {
	tk := s.tok(st)

	switch tk.Kind {
	case lex.If:
		return s.parseIf(ctx, st)
	case lex.Return:
		return s.parseReturn(ctx, st)
	case lex.Ident:
		if s.tok(st+1).Kind == lex.Assign {
			var name string
			var val ast.Expr

			name, val, i, err = s.parseAssignment(ctx, st)
			if err != nil {
				return nil, i, errors.Wrap(err, "assignment %v", tk.Text)
			}

			return &ast.Assign{Base: ast.Base{Pos: tk.Pos}, Name: name, Value: val}, i, nil
		}
	case lex.EOF:
		return nil, st, NewUnexpected(tk, lex.RBrace)
	}

	e, i, err := s.parseExpr(ctx, st)
	if err != nil {
		return nil, i, err
	}

	_, i, err = s.expect(i, lex.Semi)
	if err != nil {
		return nil, i, errors.Wrap(err, "expression statement")
	}

	return &ast.ExprStmt{Base: ast.Base{Pos: tk.Pos}, X: e}, i, nil
}

func (s *State) parseAssignment(ctx context.Context, st int) (name string, val ast.Expr, i int, err error) {
	id, i, err := s.expect(st, lex.Ident)
	if err != nil {
		return
	}

	_, i, err = s.expect(i, lex.Assign)
	if err != nil {
		return
	}

	val, i, err = s.parseExpr(ctx, i)
	if err != nil {
		return "", nil, i, errors.Wrap(err, "rhs")
	}

	_, i, err = s.expect(i, lex.Semi)
	if err != nil {
		return
	}

	s.trace(ctx, "assignment", "lhs", id.Text, "rhs", val)

	return id.Text, val, i, nil
}

func (s *State) parseIf(ctx context.Context, st int) (x *ast.If, i int, err error) {
	x = &ast.If{
		Base: ast.Base{Pos: s.tok(st).Pos},
	}

	x.Cond, i, err = s.parseExpr(ctx, st+1)
	if err != nil {
		return nil, i, errors.Wrap(err, "if cond")
	}

	_, i, err = s.expect(i, lex.Then)
	if err != nil {
		return nil, i, errors.Wrap(err, "if")
	}

	x.Then, i, err = s.parseBlock(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "if then")
	}

	if s.tok(i).Kind != lex.Else {
		return x, i, nil
	}

	x.Else, i, err = s.parseBlock(ctx, i+1)
	if err != nil {
		return nil, i, errors.Wrap(err, "if else")
	}

	return x, i, nil
}

func (s *State) parseReturn(ctx context.Context, st int) (x *ast.Return, i int, err error) {
	x = &ast.Return{
		Base: ast.Base{Pos: s.tok(st).Pos},
	}

	i = st + 1

	if s.tok(i).Kind == lex.Semi {
		return x, i + 1, nil
	}

	x.Value, i, err = s.parseExpr(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "return")
	}

	_, i, err = s.expect(i, lex.Semi)
	if err != nil {
		return nil, i, errors.Wrap(err, "return")
	}

	s.trace(ctx, "return", "val", x.Value)

	return x, i, nil
}

func (s *State) tok(i int) lex.Token {
	if i >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}

	return s.toks[i]
}

func (s *State) expect(st int, k lex.Kind) (tk lex.Token, i int, err error) {
	tk = s.tok(st)
	if tk.Kind != k {
		return tk, st, NewUnexpected(tk, k)
	}

	return tk, st + 1, nil
}

func (s *State) trace(ctx context.Context, msg string, kvs ...interface{}) {
	tr := tlog.SpanFromContext(ctx)
	if !tr.If("parse") {
		return
	}

	tr.Printw(msg, append(kvs, "from", loc.Callers(1, 2))...)
}

func NewUnexpected(got lex.Token, want ...lex.Kind) error {
	return UnexpectedError{
		Token: got,
		Want:  want,
	}
}

func (e UnexpectedError) Error() string {
	l := make([]string, len(e.Want))

	for i := range e.Want {
		l[i] = e.Want[i].String()
	}

	return fmt.Sprintf("%v: parse: unexpected %v, want %v", e.Token.Pos, e.Token, strings.Join(l, " or "))
}
