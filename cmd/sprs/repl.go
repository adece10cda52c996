package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"

	"github.com/slowlang/sprs/compiler"
	"github.com/slowlang/sprs/compiler/analyze"
	"github.com/slowlang/sprs/compiler/eval"
	"github.com/slowlang/sprs/compiler/format"
)

const (
	promptMain = "sprs> "
	promptCont = "....> "
)

const replHelp = `enter a complete program, it runs once braces are balanced
:tokens <program>  print tokens
:ast <program>     print formatted syntax tree
:hints <program>   print type hints
:quit              exit
`

func replAct(c *cli.Command) (err error) {
	ctx, err := rootContext(c)
	if err != nil {
		return err
	}

	r := runner(c)

	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)

	for {
		chunk, ok := readChunk(ln)
		if !ok {
			fmt.Println()
			return nil
		}

		src := strings.TrimSpace(chunk)
		if src == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(src, ":") {
			if replCommand(ctx, os.Stdout, src) {
				return nil
			}

			continue
		}

		res, err := r.Run(ctx, "repl", []byte(src))
		if err != nil {
			fmt.Println(err)
			continue
		}

		fmt.Printf("= %v\n", eval.Format(res))
	}
}

type chunk struct {
	b     strings.Builder
	depth int
}

// add appends a line and reports whether curly braces are balanced.
func (c *chunk) add(line string) bool {
	if c.b.Len() != 0 {
		c.b.WriteByte('\n')
	}

	c.b.WriteString(line)

	c.depth += braceDepth(line)

	return c.depth <= 0
}

// readChunk reads lines until curly braces are balanced.
// It returns false on end of input.
func readChunk(ln *liner.State) (string, bool) {
	var c chunk

	for {
		prompt := promptMain
		if c.b.Len() != 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if err == io.EOF {
			return "", false
		}
		if err == liner.ErrPromptAborted {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if c.add(line) {
			return c.b.String(), true
		}
	}
}

func braceDepth(s string) (d int) {
	for _, c := range s {
		switch c {
		case '{':
			d++
		case '}':
			d--
		}
	}

	return d
}

// replCommand handles a meta command. It reports whether to exit.
func replCommand(ctx context.Context, w io.Writer, line string) (exit bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	err := func() error {
		switch cmd {
		case ":quit", ":q":
			exit = true
		case ":help", ":h":
			fmt.Fprint(w, replHelp)
		case ":tokens":
			toks, err := compiler.Tokens(ctx, "repl", []byte(arg))
			if err != nil {
				return err
			}

			for _, t := range toks {
				fmt.Fprintf(w, "%v\t%v\n", t.Pos, t)
			}
		case ":ast":
			p, err := compiler.Parse(ctx, "repl", []byte(arg))
			if err != nil {
				return err
			}

			b, err := format.Format(ctx, nil, p)
			if err != nil {
				return errors.Wrap(err, "format")
			}

			_, err = w.Write(b)
			if err != nil {
				return err
			}
		case ":hints":
			p, err := compiler.Parse(ctx, "repl", []byte(arg))
			if err != nil {
				return err
			}

			writeHints(w, compiler.Hints(ctx, p))
		default:
			return errors.New("unknown command %q, try :help", cmd)
		}

		return nil
	}()
	if err != nil {
		fmt.Fprintln(w, err)
	}

	return exit
}

func printHints(h *analyze.Hints) {
	writeHints(os.Stdout, h)
}

func writeHints(w io.Writer, h *analyze.Hints) {
	var b bytes.Buffer

	for _, f := range h.Funcs {
		fmt.Fprintf(&b, "fn %s(%s) %v\n", f.Name, strings.Join(f.Params, ", "), f.Ret)
	}

	for _, v := range h.Vars {
		name := v.Name
		if v.Func != "" {
			name = v.Func + "." + v.Name
		}

		fmt.Fprintf(&b, "%v\t%s\t%v\n", v.Pos, name, v.Type)
	}

	_, _ = w.Write(b.Bytes())
}
