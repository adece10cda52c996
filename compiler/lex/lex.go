package lex

import (
	"context"
	"fmt"
	"strconv"

	"tlog.app/go/tlog"
)

type (
	Kind int

	Pos struct {
		Offset int
		Line   int
		Col    int
	}

	Token struct {
		Kind Kind
		Pos  Pos
		End  int

		Text string
		Int  int64
	}

	Spaces uint64

	Error struct {
		Pos    Pos
		Char   byte
		Text   string // offending literal, empty for a bad character
		Reason string
	}

	state struct {
		b []byte

		line int
		bol  int // offset of the beginning of the current line
	}
)

const (
	EOF Kind = iota

	LBrace
	RBrace
	LParen
	RParen

	Plus
	Star
	Assign
	Eq

	Semi
	Comma

	If
	Then
	Else
	Fn
	Return

	Ident
	Int
)

var Whitespace = NewSpaces(' ', '\t', '\r', '\n', '\f', '\v')

var keywords = map[string]Kind{
	"if":     If,
	"then":   Then,
	"else":   Else,
	"fn":     Fn,
	"return": Return,
}

var kindNames = [...]string{
	EOF:    "EOF",
	LBrace: "'{'",
	RBrace: "'}'",
	LParen: "'('",
	RParen: "')'",
	Plus:   "'+'",
	Star:   "'*'",
	Assign: "'='",
	Eq:     "'=='",
	Semi:   "';'",
	Comma:  "','",
	If:     "if",
	Then:   "then",
	Else:   "else",
	Fn:     "fn",
	Return: "return",
	Ident:  "identifier",
	Int:    "integer",
}

// Lex splits text into tokens. The result always ends with a single EOF token.
func Lex(ctx context.Context, text []byte) (toks []Token, err error) {
	s := &state{b: text, line: 1}

	for i := 0; ; {
		var tk Token

		tk, i, err = s.next(i)
		if err != nil {
			return nil, err
		}

		toks = append(toks, tk)

		if tk.Kind == EOF {
			break
		}
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("lex") {
		tr.Printw("lexed", "size", len(text), "tokens", len(toks))
	}

	return toks, nil
}

func (s *state) next(st int) (tk Token, i int, err error) {
	st = s.skip(st)
	i = st

	tk.Pos = s.pos(st)

	if i == len(s.b) {
		tk.Kind = EOF
		tk.End = i

		return tk, i, nil
	}

	c := s.b[i]

	switch c {
	case '{':
		tk.Kind = LBrace
	case '}':
		tk.Kind = RBrace
	case '(':
		tk.Kind = LParen
	case ')':
		tk.Kind = RParen
	case '+':
		tk.Kind = Plus
	case '*':
		tk.Kind = Star
	case ';':
		tk.Kind = Semi
	case ',':
		tk.Kind = Comma
	case '=':
		tk.Kind = Assign

		if i+1 < len(s.b) && s.b[i+1] == '=' {
			tk.Kind = Eq
			i++
		}
	}

	if tk.Kind != EOF {
		i++

		tk.End = i
		tk.Text = string(s.b[st:i])

		return tk, i, nil
	}

	switch {
	case isIdentStart(c):
		i = skipIdent(s.b, i)

		tk.Kind = Ident
		tk.Text = string(s.b[st:i])

		if kw, ok := keywords[tk.Text]; ok {
			tk.Kind = kw
		}
	case isDigit(c):
		i = skipNum(s.b, i)

		tk.Kind = Int
		tk.Text = string(s.b[st:i])

		tk.Int, err = strconv.ParseInt(tk.Text, 10, 64)
		if err != nil {
			return tk, st, &Error{Pos: tk.Pos, Text: tk.Text, Reason: "integer literal overflows int64"}
		}
	default:
		return tk, st, &Error{Pos: tk.Pos, Char: c, Reason: "unexpected character"}
	}

	tk.End = i

	return tk, i, nil
}

func (s *state) skip(i int) int {
	for i < len(s.b) && Whitespace.Has(s.b[i]) {
		if s.b[i] == '\n' {
			s.line++
			s.bol = i + 1
		}

		i++
	}

	return i
}

func (s *state) pos(off int) Pos {
	return Pos{
		Offset: off,
		Line:   s.line,
		Col:    off - s.bol + 1,
	}
}

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Has(c byte) bool {
	return c < 64 && s&(1<<c) != 0
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (isIdentStart(b[i]) || isDigit(b[i])) {
		i++
	}

	return i
}

func skipNum(b []byte, i int) int {
	for i < len(b) && isDigit(b[i]) {
		i++
	}

	return i
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, Int:
		return fmt.Sprintf("%v %q", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}

func (e *Error) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("%v: lex: %s: %s", e.Pos, e.Reason, e.Text)
	}

	return fmt.Sprintf("%v: lex: %s %q", e.Pos, e.Reason, e.Char)
}
