package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/sprs/compiler/ast"
)

const (
	precEq = iota + 1
	precAdd
	precMul
	precFactor
)

// Format appends canonical source text of x to b.
// x may be a *ast.Program, an item, a statement or an expression.
func Format(ctx context.Context, b []byte, x ast.Node) ([]byte, error) {
	return format(ctx, b, x, 0)
}

func format(ctx context.Context, b []byte, x ast.Node, d int) ([]byte, error) {
	switch x := x.(type) {
	case *ast.Program:
		return formatProgram(ctx, b, x, d)
	case *ast.Func:
		return formatFunc(ctx, b, x, d)
	case *ast.VarItem:
		return formatVarItem(ctx, b, x, d)
	case *ast.Block:
		return formatBlock(ctx, b, x, d)
	case *ast.Assign, *ast.ExprStmt, *ast.If, *ast.Return:
		return formatStmt(ctx, b, x, d)
	default:
		return formatExpr(ctx, b, x, 0)
	}
}

func formatProgram(ctx context.Context, b []byte, x *ast.Program, d int) (_ []byte, err error) {
	for i, it := range x.Items {
		if i != 0 {
			b = append(b, '\n')
		}

		switch it := it.(type) {
		case *ast.Func:
			b, err = formatFunc(ctx, b, it, d)
			if err != nil {
				return nil, errors.Wrap(err, "fn %v", it.Name)
			}
		case *ast.VarItem:
			b, err = formatVarItem(ctx, b, it, d)
			if err != nil {
				return nil, errors.Wrap(err, "var %v", it.Name)
			}
		default:
			return nil, errors.New("unsupported item: %T", it)
		}
	}

	return b, nil
}

func formatFunc(ctx context.Context, b []byte, x *ast.Func, d int) ([]byte, error) {
	b = app(b, d, "fn %s(", x.Name)

	for i, p := range x.Params {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = append(b, p...)
	}

	b = append(b, ") "...)

	b, err := formatBlock(ctx, b, x.Body, d)
	if err != nil {
		return nil, errors.Wrap(err, "body")
	}

	b = append(b, '\n')

	return b, nil
}

func formatVarItem(ctx context.Context, b []byte, x *ast.VarItem, d int) ([]byte, error) {
	b = app(b, d, "%s = ", x.Name)

	b, err := formatExpr(ctx, b, x.Value, 0)
	if err != nil {
		return nil, errors.Wrap(err, "value")
	}

	b = append(b, ";\n"...)

	return b, nil
}

// formatBlock writes braces and statements. The opening brace continues the current line.
func formatBlock(ctx context.Context, b []byte, x *ast.Block, d int) (_ []byte, err error) {
	if x == nil {
		return nil, errors.New("nil block")
	}

	b = append(b, "{\n"...)

	for _, s := range x.Stmts {
		b, err = formatStmt(ctx, b, s, d+1)
		if err != nil {
			return nil, err
		}
	}

	b = app(b, d, "}")

	return b, nil
}

func formatStmt(ctx context.Context, b []byte, s ast.Stmt, d int) (_ []byte, err error) {
	switch s := s.(type) {
	case *ast.Assign:
		b = app(b, d, "%s = ", s.Name)

		b, err = formatExpr(ctx, b, s.Value, 0)
		if err != nil {
			return nil, errors.Wrap(err, "assignment %v", s.Name)
		}

		b = append(b, ";\n"...)
	case *ast.ExprStmt:
		b = app(b, d, "")

		b, err = formatExpr(ctx, b, s.X, 0)
		if err != nil {
			return nil, errors.Wrap(err, "expr")
		}

		b = append(b, ";\n"...)
	case *ast.Return:
		if s.Value == nil {
			b = app(b, d, "return;\n")
			break
		}

		b = app(b, d, "return ")

		b, err = formatExpr(ctx, b, s.Value, 0)
		if err != nil {
			return nil, errors.Wrap(err, "return")
		}

		b = append(b, ";\n"...)
	case *ast.If:
		b = app(b, d, "if ")

		b, err = formatExpr(ctx, b, s.Cond, 0)
		if err != nil {
			return nil, errors.Wrap(err, "cond")
		}

		b = append(b, " then "...)

		b, err = formatBlock(ctx, b, s.Then, d)
		if err != nil {
			return nil, errors.Wrap(err, "then block")
		}

		if s.Else != nil {
			b = append(b, " else "...)

			b, err = formatBlock(ctx, b, s.Else, d)
			if err != nil {
				return nil, errors.Wrap(err, "else block")
			}
		}

		b = append(b, '\n')
	default:
		return nil, errors.New("unsupported stmt: %T", s)
	}

	return b, nil
}

// formatExpr writes x, parenthesized if it binds weaker than need.
func formatExpr(ctx context.Context, b []byte, x ast.Expr, need int) (_ []byte, err error) {
	p := prec(x)

	if p < need {
		b = append(b, '(')
	}

	switch x := x.(type) {
	case *ast.Number:
		b = hfmt.Appendf(b, "%d", x.Value)
	case *ast.Ident:
		b = append(b, x.Name...)
	case *ast.Call:
		b = append(b, x.Name...)
		b = append(b, '(')

		for i, a := range x.Args {
			if i != 0 {
				b = append(b, ", "...)
			}

			b, err = formatExpr(ctx, b, a, 0)
			if err != nil {
				return nil, errors.Wrap(err, "call %v: arg %d", x.Name, i)
			}
		}

		b = append(b, ')')
	case *ast.Eq:
		b, err = formatBinOp(ctx, b, " == ", x.Left, x.Right, p)
	case *ast.Add:
		b, err = formatBinOp(ctx, b, " + ", x.Left, x.Right, p)
	case *ast.Mul:
		b, err = formatBinOp(ctx, b, " * ", x.Left, x.Right, p)
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	if err != nil {
		return nil, err
	}

	if p < need {
		b = append(b, ')')
	}

	return b, nil
}

// formatBinOp keeps left associativity: a right operand of the same tier gets parentheses.
func formatBinOp(ctx context.Context, b []byte, op string, l, r ast.Expr, p int) (_ []byte, err error) {
	b, err = formatExpr(ctx, b, l, p)
	if err != nil {
		return nil, errors.Wrap(err, "left")
	}

	b = append(b, op...)

	b, err = formatExpr(ctx, b, r, p+1)
	if err != nil {
		return nil, errors.Wrap(err, "right")
	}

	return b, nil
}

func prec(x ast.Expr) int {
	switch x.(type) {
	case *ast.Eq:
		return precEq
	case *ast.Add:
		return precAdd
	case *ast.Mul:
		return precMul
	default:
		return precFactor
	}
}

func app(b []byte, d int, f string, args ...any) []byte {
	for i := 0; i < d; i++ {
		b = append(b, '\t')
	}

	b = hfmt.Appendf(b, f, args...)

	return b
}
