package runtime

import (
	"fmt"
	"strconv"
)

// ValueKind discriminates values.
type ValueKind int8

// Kinds of values.
const (
	NoneKind ValueKind = iota
	UintKind
	StringKind
	CallableKind
)

func (k ValueKind) String() string {
	switch k {
	case NoneKind:
		return "none"
	case UintKind:
		return "uint"
	case StringKind:
		return "string"
	case CallableKind:
		return "callable"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Callable is something which may be invoked with an activation holding the
// arguments as operands.
type Callable interface {
	Name() string
	Invoke(act *Activation) (Value, error)
}

// Value is a tagged runtime value. The zero value is None.
type Value struct {
	kind ValueKind
	u    uint64
	s    string
	c    Callable
}

// None returns the empty value.
func None() Value { return Value{} }

// Uint wraps an unsigned integer.
func Uint(u uint64) Value { return Value{kind: UintKind, u: u} }

// Str wraps a string.
func Str(s string) Value { return Value{kind: StringKind, s: s} }

// Func wraps a callable. c may be nil, resulting in a nil callable value.
func Func(c Callable) Value { return Value{kind: CallableKind, c: c} }

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsNone is a predicate: is v the empty value?
func (v Value) IsNone() bool { return v.kind == NoneKind }

// AsUint returns the integer payload, if v is of kind uint.
func (v Value) AsUint() (uint64, bool) {
	return v.u, v.kind == UintKind
}

// AsString returns the string payload, if v is of kind string.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == StringKind
}

// AsCallable returns the callable payload, if v is of kind callable.
func (v Value) AsCallable() (Callable, bool) {
	return v.c, v.kind == CallableKind
}

// Truthy returns the truth value of v: integers are true if non-zero,
// callables if non-nil. Other kinds yield ErrNotBoolean.
func (v Value) Truthy() (bool, error) {
	switch v.kind {
	case UintKind:
		return v.u != 0, nil
	case CallableKind:
		return v.c != nil, nil
	}
	return false, fmt.Errorf("%s: %w", v.kind, ErrNotBoolean)
}

// Equal compares two values of the same kind.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case UintKind:
		return v.u == w.u
	case StringKind:
		return v.s == w.s
	case CallableKind:
		return v.c == w.c
	}
	return true
}

// String renders v the way println prints it.
func (v Value) String() string {
	switch v.kind {
	case UintKind:
		return strconv.FormatUint(v.u, 10)
	case StringKind:
		return v.s
	case CallableKind:
		if v.c == nil {
			return "<nil callable>"
		}
		return fmt.Sprintf("<callable %s>", v.c.Name())
	}
	return "<none>"
}
