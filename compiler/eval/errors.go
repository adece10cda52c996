package eval

import (
	"fmt"

	"github.com/slowlang/sprs/compiler/lex"
)

type (
	ErrorKind int

	// Error is a runtime fault. Arithmetic on mismatched values is not one of them.
	Error struct {
		Kind ErrorKind
		Name string
		Pos  lex.Pos

		Want int
		Got  int

		Err error
	}
)

const (
	_ ErrorKind = iota
	UndefinedVariable
	UndefinedFunction
	Arity
	NoEntry
	CallDepth
	Output
)

func (k ErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "undefined variable"
	case UndefinedFunction:
		return "undefined function"
	case Arity:
		return "argument count mismatch"
	case NoEntry:
		return "no entry function"
	case CallDepth:
		return "call depth exceeded"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (e *Error) Error() string {
	switch e.Kind {
	case NoEntry:
		return "eval: program has no functions"
	case Arity:
		return fmt.Sprintf("%v: eval: %v: %s wants %d args, got %d", e.Pos, e.Kind, e.Name, e.Want, e.Got)
	case CallDepth:
		return fmt.Sprintf("%v: eval: %v: calling %s at depth %d", e.Pos, e.Kind, e.Name, e.Want)
	case Output:
		return fmt.Sprintf("%v: eval: %v: %v", e.Pos, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%v: eval: %v: %s", e.Pos, e.Kind, e.Name)
	}
}

func (e *Error) Unwrap() error { return e.Err }
