package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/sprs/compiler/parse"
	"github.com/slowlang/sprs/compiler/tp"
)

func build(t *testing.T, text string) *Hints {
	t.Helper()

	ctx := context.Background()

	p, err := parse.ParseText(ctx, []byte(text))
	require.NoError(t, err)

	return Build(ctx, p)
}

func rets(h *Hints) map[string]tp.Type {
	m := map[string]tp.Type{}

	for _, f := range h.Funcs {
		m[f.Name] = f.Ret
	}

	return m
}

func vars(h *Hints) map[string]tp.Type {
	m := map[string]tp.Type{}

	for _, v := range h.Vars {
		name := v.Name
		if v.Func != "" {
			name = v.Func + "." + name
		}

		m[name] = v.Type
	}

	return m
}

func TestReturnTypes(t *testing.T) {
	h := build(t, `
fn num() { return 1 + 2 * 3; }
fn cmp(a) { return a == 1; }
fn param(a) { return a + 1; }
fn mixed(a) { if a then { return 1; } else { return 1 == 1; } }
fn same(a) { if a then { return 1; } return 2; }
fn none() { print(1); }
fn bare() { return; }
fn call() { return num(); }
fn later() { return after() * 2; }
fn after() { return 4; }
fn builtin() { return print(1); }
fn unknown() { return nosuch(); }
`)

	assert.Equal(t, map[string]tp.Type{
		"num":     tp.I64,
		"cmp":     tp.Bool{},
		"param":   tp.Any{},
		"mixed":   tp.Any{},
		"same":    tp.I64,
		"none":    tp.Any{},
		"bare":    tp.Any{},
		"call":    tp.I64,
		"later":   tp.I64,
		"after":   tp.I64,
		"builtin": tp.Any{},
		"unknown": tp.Any{},
	}, rets(h))

	require.Len(t, h.Funcs, 12)
	assert.Equal(t, "num", h.Funcs[0].Name)
	assert.Equal(t, 1, h.Funcs[1].Index)
	assert.Equal(t, []string{"a"}, h.Funcs[1].Params)
}

func TestRecursion(t *testing.T) {
	h := build(t, `
fn fact(n) { if n == 0 then { return 1; } return n * fact(n); }
fn ping(n) { return pong(n); }
fn pong(n) { return ping(n) + 1; }
fn self() { return self(); }
`)

	r := rets(h)

	// n * fact(n) is Any, the literal 1 decides.
	assert.Equal(t, tp.I64, r["fact"])
	assert.Equal(t, tp.Any{}, r["ping"])
	assert.Equal(t, tp.Any{}, r["pong"])
	assert.Equal(t, tp.Any{}, r["self"])
}

func TestVarHints(t *testing.T) {
	h := build(t, `
top = 1 == 2;

fn main() {
	a = 5;
	b = a * 2;
	c = a == b;
	d = a;
	if c then { d = c; }
	e = nosuch + 1;
}
`)

	assert.Equal(t, map[string]tp.Type{
		"top":    tp.Bool{},
		"main.a": tp.I64,
		"main.b": tp.I64,
		"main.c": tp.Bool{},
		"main.d": tp.Any{},
		"main.e": tp.Any{},
	}, vars(h))

	assert.Equal(t, "top", h.Vars[0].Name)
	assert.Equal(t, "", h.Vars[0].Func)
	assert.Equal(t, 2, h.Vars[0].Pos.Line)
}

func TestConfidentReturnWins(t *testing.T) {
	h := build(t, `
fn anyFirst(a) { if a then { return a; } return 1; }
fn anyLast(a) { if a then { return 1; } return a; }
fn bareThen(a) { if a then { return; } return 1; }
fn bareElse(a) { if a then { return 1 == a; } else { return; } }
fn onlyAny(a) { if a then { return a; } return a + 1; }
fn conflict(a) { if a then { return 1; } return a; return 1 == 1; }
fn conflictThenInt(a) { if a then { return 1 == 1; } return 2; return 3; }
`)

	assert.Equal(t, map[string]tp.Type{
		"anyFirst":        tp.I64,
		"anyLast":         tp.I64,
		"bareThen":        tp.I64,
		"bareElse":        tp.Bool{},
		"onlyAny":         tp.Any{},
		"conflict":        tp.Any{},
		"conflictThenInt": tp.Any{},
	}, rets(h))
}
