package ast

import (
	"github.com/slowlang/sprs/compiler/lex"
	"github.com/slowlang/sprs/compiler/tp"
)

type (
	Node interface {
	}

	Item interface{}
	Stmt interface{}
	Expr interface{}

	Base struct {
		Pos lex.Pos
	}

	Program struct {
		Items []Item
	}

	Func struct {
		Base `tlog:",embed"`

		Name   string
		Params []string
		Body   *Block
	}

	// VarItem is a top-level assignment. It is parsed but never executed.
	VarItem struct {
		Base `tlog:",embed"`

		Name  string
		Value Expr
	}

	Block struct {
		Base `tlog:",embed"`

		Stmts []Stmt
	}

	Assign struct {
		Base `tlog:",embed"`

		Name  string
		Value Expr
	}

	ExprStmt struct {
		Base `tlog:",embed"`

		X Expr
	}

	If struct {
		Base `tlog:",embed"`

		Cond Expr
		Then *Block
		Else *Block // nil if absent
	}

	Return struct {
		Base `tlog:",embed"`

		Value Expr // nil for bare return
	}

	Number struct {
		Base `tlog:",embed"`

		Value int64
	}

	Ident struct {
		Base `tlog:",embed"`

		Name string
	}

	Call struct {
		Base `tlog:",embed"`

		Name string
		Args []Expr
		Type tp.Type // reserved, never set by the parser
	}

	Add struct {
		Base `tlog:",embed"`

		Left  Expr
		Right Expr
	}

	Mul struct {
		Base `tlog:",embed"`

		Left  Expr
		Right Expr
	}

	Eq struct {
		Base `tlog:",embed"`

		Left  Expr
		Right Expr
	}
)

// Funcs returns function definitions in program order.
func (p *Program) Funcs() (fs []*Func) {
	for _, it := range p.Items {
		if f, ok := it.(*Func); ok {
			fs = append(fs, f)
		}
	}

	return fs
}
