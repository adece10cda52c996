package parse

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/sprs/compiler/ast"
	"github.com/slowlang/sprs/compiler/lex"
)

// sexpr prints an expression tree ignoring positions.
func sexpr(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.Number:
		return fmt.Sprintf("%d", x.Value)
	case *ast.Ident:
		return x.Name
	case *ast.Add:
		return fmt.Sprintf("(+ %s %s)", sexpr(x.Left), sexpr(x.Right))
	case *ast.Mul:
		return fmt.Sprintf("(* %s %s)", sexpr(x.Left), sexpr(x.Right))
	case *ast.Eq:
		return fmt.Sprintf("(== %s %s)", sexpr(x.Left), sexpr(x.Right))
	case *ast.Call:
		l := []string{x.Name}

		for _, a := range x.Args {
			l = append(l, sexpr(a))
		}

		return "(call " + strings.Join(l, " ") + ")"
	default:
		return fmt.Sprintf("%T", x)
	}
}

func parseExprText(t *testing.T, text string) ast.Expr {
	t.Helper()

	p, err := ParseText(context.Background(), []byte("fn main() { "+text+"; }"))
	require.NoError(t, err)

	f := p.Items[0].(*ast.Func)
	require.Len(t, f.Body.Stmts, 1)

	return f.Body.Stmts[0].(*ast.ExprStmt).X
}

func TestPrecedence(t *testing.T) {
	for _, tc := range []struct {
		in, exp string
	}{
		{"1", "1"},
		{"a + b * c", "(+ a (* b c))"},
		{"a * b + c", "(+ (* a b) c)"},
		{"a == b + c", "(== a (+ b c))"},
		{"a + b == c + d", "(== (+ a b) (+ c d))"},
		{"1 + 2 + 3", "(+ (+ 1 2) 3)"},
		{"1 * 2 * 3", "(* (* 1 2) 3)"},
		{"a == b == c", "(== (== a b) c)"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"1 + (2 + 3)", "(+ 1 (+ 2 3))"},
		{"((x))", "x"},
		{"f()", "(call f)"},
		{"f(1, a + 2, g(b))", "(call f 1 (+ a 2) (call g b))"},
		{"f(x) * 2", "(* (call f x) 2)"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			x := parseExprText(t, tc.in)
			assert.Equal(t, tc.exp, sexpr(x))
		})
	}
}

func TestProgram(t *testing.T) {
	p, err := ParseText(context.Background(), []byte(`
limit = 10;

fn test() {
	a = 5;
	b = 10;
	if a == 5 then {
		return a;
	}
	return b;
}

fn main() {
	x = test();
	print(x);
	if x then { return; } else { x = 1; }
}
`))
	require.NoError(t, err)
	require.Len(t, p.Items, 3)

	v := p.Items[0].(*ast.VarItem)
	assert.Equal(t, "limit", v.Name)
	assert.Equal(t, "10", sexpr(v.Value))

	fs := p.Funcs()
	require.Len(t, fs, 2)
	assert.Equal(t, "test", fs[0].Name)
	assert.Equal(t, "main", fs[1].Name)

	body := fs[0].Body.Stmts
	require.Len(t, body, 4)

	assert.Equal(t, "a", body[0].(*ast.Assign).Name)

	cond := body[2].(*ast.If)
	assert.Equal(t, "(== a 5)", sexpr(cond.Cond))
	assert.Nil(t, cond.Else)
	require.Len(t, cond.Then.Stmts, 1)
	assert.Equal(t, "a", sexpr(cond.Then.Stmts[0].(*ast.Return).Value))

	main := fs[1].Body.Stmts
	require.Len(t, main, 3)

	assert.Equal(t, "(call test)", sexpr(main[0].(*ast.Assign).Value))
	assert.Equal(t, "(call print x)", sexpr(main[1].(*ast.ExprStmt).X))

	ifelse := main[2].(*ast.If)
	require.NotNil(t, ifelse.Else)
	assert.Nil(t, ifelse.Then.Stmts[0].(*ast.Return).Value)
	assert.Equal(t, "x", ifelse.Else.Stmts[0].(*ast.Assign).Name)

	assert.Equal(t, lex.Pos{Offset: 14, Line: 4, Col: 1}, fs[0].Pos)
}

func TestParams(t *testing.T) {
	p, err := ParseText(context.Background(), []byte("fn f(a, b, c) {} fn g() {}"))
	require.NoError(t, err)

	fs := p.Funcs()
	assert.Equal(t, []string{"a", "b", "c"}, fs[0].Params)
	assert.Empty(t, fs[1].Params)
	assert.Empty(t, fs[1].Body.Stmts)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		got  lex.Kind
		want []lex.Kind
	}{
		{"empty", "", lex.EOF, []lex.Kind{lex.Fn, lex.Ident}},
		{"no_semi", "fn main() { x = 1 }", lex.RBrace, []lex.Kind{lex.Semi}},
		{"unclosed", "fn main() { x = 1;", lex.EOF, []lex.Kind{lex.RBrace}},
		{"no_then", "fn main() { if x { } }", lex.LBrace, []lex.Kind{lex.Then}},
		{"bad_factor", "fn main() { x = + 1; }", lex.Plus, []lex.Kind{lex.Int, lex.Ident, lex.LParen}},
		{"bad_param", "fn main(a b) {}", lex.Ident, []lex.Kind{lex.Comma, lex.RParen}},
		{"if_semi", "fn main() { if 1 then { }; }", lex.Semi, []lex.Kind{lex.Int, lex.Ident, lex.LParen}},
		{"item", "return 1;", lex.Return, []lex.Kind{lex.Fn, lex.Ident}},
		{"unclosed_paren", "fn main() { x = (1 + 2; }", lex.Semi, []lex.Kind{lex.RParen}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseText(context.Background(), []byte(tc.in))
			require.Error(t, err)

			assert.Contains(t, err.Error(), "parse: unexpected "+tc.got.String())

			var want []string
			for _, k := range tc.want {
				want = append(want, k.String())
			}

			assert.Contains(t, err.Error(), "want "+strings.Join(want, " or "))
		})
	}
}

func TestParseNoEOF(t *testing.T) {
	toks := []lex.Token{
		{Kind: lex.Ident, Text: "x"},
		{Kind: lex.Assign},
		{Kind: lex.Int, Text: "1", Int: 1},
		{Kind: lex.Semi},
	}

	p, err := Parse(context.Background(), toks)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Len(t, toks, 4)
}
