package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/sprs/compiler/ast"
	"github.com/slowlang/sprs/compiler/lex"
	"github.com/slowlang/sprs/compiler/parse"
)

const program = `limit = 10;

fn test(a, b) {
	x = a + b * 2;
	if x == 5 then {
		return a;
	} else {
		print(x, (a + b) * 2);
	}
	if x then {
		return;
	}
	return 1 + 2 + 3 + (4 + 5);
}

fn main() {
	print(test(1, 2) == (1 == 1));
}
`

func TestFormatCanonical(t *testing.T) {
	ctx := context.Background()

	p, err := parse.ParseText(ctx, []byte(program))
	require.NoError(t, err)

	b, err := Format(ctx, nil, p)
	require.NoError(t, err)

	assert.Equal(t, program, string(b))
}

func TestFormatRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, text := range []string{
		"fn main(){print(2+3*4);}",
		"fn main() { x = (1 + 2) * 3; y = 1 + (2 + 3); z = (1 == 2) == (3 == 4); return x; }",
		"fn f(a,b){if a then{return b;}else{if b then{return;}}} fn main(){f(1,2);}",
		"v = 1 * (2 * 3);",
	} {
		p1, err := parse.ParseText(ctx, []byte(text))
		require.NoError(t, err, "%s", text)

		b, err := Format(ctx, nil, p1)
		require.NoError(t, err)

		p2, err := parse.ParseText(ctx, b)
		require.NoError(t, err, "%s", b)

		assert.Equal(t, stripPos(p1), stripPos(p2), "%s", b)
	}
}

func TestFormatExpr(t *testing.T) {
	x := &ast.Mul{
		Left:  &ast.Add{Left: &ast.Number{Value: 1}, Right: &ast.Ident{Name: "a"}},
		Right: &ast.Call{Name: "f"},
	}

	b, err := Format(context.Background(), nil, x)
	require.NoError(t, err)
	assert.Equal(t, "(1 + a) * f()", string(b))

	b, err = Format(context.Background(), nil, &ast.Number{Value: -3})
	require.NoError(t, err)
	assert.Equal(t, "-3", string(b))
}

func TestFormatUnsupported(t *testing.T) {
	_, err := Format(context.Background(), nil, &ast.Program{Items: []ast.Item{"junk"}})
	assert.Error(t, err)
}

// stripPos zeroes positions so trees from different texts compare equal.
func stripPos(x ast.Node) ast.Node {
	var zero lex.Pos

	switch x := x.(type) {
	case *ast.Program:
		for i, it := range x.Items {
			x.Items[i] = stripPos(it)
		}
	case *ast.Func:
		x.Pos = zero
		stripPos(x.Body)
	case *ast.VarItem:
		x.Pos = zero
		x.Value = stripPos(x.Value)
	case *ast.Block:
		if x == nil {
			return x
		}

		x.Pos = zero

		for i, s := range x.Stmts {
			x.Stmts[i] = stripPos(s)
		}
	case *ast.Assign:
		x.Pos = zero
		x.Value = stripPos(x.Value)
	case *ast.ExprStmt:
		x.Pos = zero
		x.X = stripPos(x.X)
	case *ast.If:
		x.Pos = zero
		x.Cond = stripPos(x.Cond)
		stripPos(x.Then)
		stripPos(x.Else)
	case *ast.Return:
		x.Pos = zero

		if x.Value != nil {
			x.Value = stripPos(x.Value)
		}
	case *ast.Number:
		x.Pos = zero
	case *ast.Ident:
		x.Pos = zero
	case *ast.Call:
		x.Pos = zero

		for i, a := range x.Args {
			x.Args[i] = stripPos(a)
		}
	case *ast.Add:
		x.Pos = zero
		x.Left, x.Right = stripPos(x.Left), stripPos(x.Right)
	case *ast.Mul:
		x.Pos = zero
		x.Left, x.Right = stripPos(x.Left), stripPos(x.Right)
	case *ast.Eq:
		x.Pos = zero
		x.Left, x.Right = stripPos(x.Left), stripPos(x.Right)
	}

	return x
}
