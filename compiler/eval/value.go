package eval

import (
	"strconv"
)

type (
	// Value is a runtime value: Int, Bool, Str or Unit.
	Value interface {
		AppendText(b []byte) []byte
	}

	Int  int64
	Bool bool
	Str  string
	Unit struct{}
)

// Format returns canonical text of v, the way print writes it.
func Format(v Value) string {
	if v == nil {
		return "()"
	}

	return string(v.AppendText(nil))
}

// Truthy coerces v for if conditions.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case Int:
		return v != 0
	default:
		return false
	}
}

// Add is Int+Int, anything else is Unit.
func Add(l, r Value) Value {
	x, ok1 := l.(Int)
	y, ok2 := r.(Int)

	if !ok1 || !ok2 {
		return Unit{}
	}

	return x + y
}

// Mul is Int*Int, anything else is Unit.
func Mul(l, r Value) Value {
	x, ok1 := l.(Int)
	y, ok2 := r.(Int)

	if !ok1 || !ok2 {
		return Unit{}
	}

	return x * y
}

// Equal compares variant and value. Different variants are never equal.
func Equal(l, r Value) Bool {
	return Bool(l == r)
}

func (v Int) AppendText(b []byte) []byte {
	return strconv.AppendInt(b, int64(v), 10)
}

func (v Bool) AppendText(b []byte) []byte {
	return strconv.AppendBool(b, bool(v))
}

func (v Str) AppendText(b []byte) []byte {
	return append(b, v...)
}

func (Unit) AppendText(b []byte) []byte {
	return append(b, "()"...)
}

func (v Int) String() string  { return Format(v) }
func (v Bool) String() string { return Format(v) }
func (v Str) String() string  { return string(v) }
func (Unit) String() string   { return "()" }
