package compiler

import (
	"context"
	"io"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/sprs/compiler/analyze"
	"github.com/slowlang/sprs/compiler/ast"
	"github.com/slowlang/sprs/compiler/eval"
	"github.com/slowlang/sprs/compiler/lex"
	"github.com/slowlang/sprs/compiler/parse"
)

type (
	Runner struct {
		Stdout io.Writer

		MaxDepth int

		// Hints makes Run build type hints and log them before executing.
		Hints bool
	}
)

func ReadFile(ctx context.Context, name string) ([]byte, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return text, nil
}

func Tokens(ctx context.Context, name string, text []byte) ([]lex.Token, error) {
	toks, err := lex.Lex(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "%v", name)
	}

	return toks, nil
}

func ParseFile(ctx context.Context, name string) (*ast.Program, error) {
	text, err := ReadFile(ctx, name)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, name, text)
}

func Parse(ctx context.Context, name string, text []byte) (p *ast.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse", "name", name)
	defer tr.Finish("err", &err)

	toks, err := Tokens(ctx, name, text)
	if err != nil {
		return nil, err
	}

	p, err = parse.Parse(ctx, toks)
	if err != nil {
		return nil, errors.Wrap(err, "%v", name)
	}

	return p, nil
}

// Hints builds advisory type hints. It never fails.
func Hints(ctx context.Context, p *ast.Program) *analyze.Hints {
	return analyze.Build(ctx, p)
}

func (r *Runner) RunFile(ctx context.Context, name string) (eval.Value, error) {
	text, err := ReadFile(ctx, name)
	if err != nil {
		return nil, err
	}

	return r.Run(ctx, name, text)
}

// Run parses and executes text. Output of print goes to r.Stdout.
func (r *Runner) Run(ctx context.Context, name string, text []byte) (res eval.Value, err error) {
	p, err := Parse(ctx, name, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	if r.Hints {
		h := analyze.Build(ctx, p)

		for _, f := range h.Funcs {
			tlog.SpanFromContext(ctx).Printw("hint", "func", f.Name, "params", f.Params, "ret", f.Ret)
		}

		for _, v := range h.Vars {
			tlog.SpanFromContext(ctx).Printw("hint", "func", v.Func, "var", v.Name, "pos", v.Pos, "type", v.Type)
		}
	}

	it := &eval.Interp{
		Stdout:   r.Stdout,
		MaxDepth: r.MaxDepth,
	}

	res, err = it.Run(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "eval")
	}

	return res, nil
}
