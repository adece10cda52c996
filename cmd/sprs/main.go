package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/sprs/compiler"
	"github.com/slowlang/sprs/compiler/eval"
	"github.com/slowlang/sprs/compiler/format"
)

func main() {
	runCmd := &cli.Command{
		Name:   "run",
		Action: runAct,
		Args:   cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("hints", false, "log type hints before running"),
			cli.NewFlag("max-depth", 0, "nested call limit, 0 for default"),
		},
	}

	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	tokensCmd := &cli.Command{
		Name:   "tokens",
		Action: tokensAct,
		Args:   cli.Args{},
	}

	hintsCmd := &cli.Command{
		Name:   "hints",
		Action: hintsAct,
		Args:   cli.Args{},
	}

	replCmd := &cli.Command{
		Name:   "repl",
		Action: replAct,
		Flags: []*cli.Flag{
			cli.NewFlag("hints", false, "log type hints before running"),
			cli.NewFlag("max-depth", 0, "nested call limit, 0 for default"),
		},
	}

	app := &cli.Command{
		Name:        "sprs",
		Description: "sprs runs programs written in a tiny expression language",
		Flags: []*cli.Flag{
			cli.NewFlag("config", DefaultConfig, "config file, ignored if default is missing"),
			cli.NewFlag("verbosity,v", "", "tlog verbosity topics: lex, parse, hints, eval"),
		},
		Commands: []*cli.Command{
			runCmd,
			parseCmd,
			tokensCmd,
			hintsCmd,
			replCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

var cfg Config

// setup loads the config file and applies global flags on top of it.
func setup(c *cli.Command) (err error) {
	name := c.String("config")

	cfg, err = LoadConfig(name, name == DefaultConfig)
	if err != nil {
		return errors.Wrap(err, "config")
	}

	if v := c.String("verbosity"); v != "" {
		cfg.Verbosity = v
	}

	if cfg.Verbosity != "" {
		tlog.SetVerbosity(cfg.Verbosity)
	}

	return nil
}

func runner(c *cli.Command) *compiler.Runner {
	r := &compiler.Runner{
		Stdout:   os.Stdout,
		MaxDepth: cfg.MaxDepth,
		Hints:    cfg.Hints,
	}

	if d := c.Int("max-depth"); d != 0 {
		r.MaxDepth = d
	}

	if c.Bool("hints") {
		r.Hints = true
	}

	return r
}

func rootContext(c *cli.Command) (context.Context, error) {
	err := setup(c)
	if err != nil {
		return nil, err
	}

	return tlog.ContextWithSpan(context.Background(), tlog.Root()), nil
}

func runAct(c *cli.Command) (err error) {
	ctx, err := rootContext(c)
	if err != nil {
		return err
	}

	if len(c.Args) == 0 {
		return errors.New("no files to run")
	}

	r := runner(c)

	for _, a := range c.Args {
		res, err := r.RunFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "run %v", a)
		}

		tlog.Printw("program finished", "name", a, "result", eval.Format(res))
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx, err := rootContext(c)
	if err != nil {
		return err
	}

	var b []byte

	for _, a := range c.Args {
		p, err := compiler.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err = format.Format(ctx, b[:0], p)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		_, err = os.Stdout.Write(b)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func tokensAct(c *cli.Command) (err error) {
	ctx, err := rootContext(c)
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		text, err := compiler.ReadFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "tokens %v", a)
		}

		toks, err := compiler.Tokens(ctx, a, text)
		if err != nil {
			return errors.Wrap(err, "tokens %v", a)
		}

		for _, t := range toks {
			fmt.Printf("%v\t%v\n", t.Pos, t)
		}
	}

	return nil
}

func hintsAct(c *cli.Command) (err error) {
	ctx, err := rootContext(c)
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		p, err := compiler.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "hints %v", a)
		}

		printHints(compiler.Hints(ctx, p))
	}

	return nil
}
