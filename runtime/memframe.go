package runtime

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
)

// Activation is the runtime record of a call. It holds a chain of scopes,
// the innermost being current, and a stack of pending operands.
type Activation struct {
	Name      string
	caller    *Activation
	base      *Scope
	scope     *Scope // innermost
	nscopes   int
	operands  *arraylist.List
	limits    Limits
	returning bool
	retval    Value
}

func newActivation(nm string, caller *Activation, limits Limits) *Activation {
	act := &Activation{
		Name:     nm,
		caller:   caller,
		operands: arraylist.New(),
		limits:   limits,
	}
	act.base = NewScope(nm, nil, limits.MaxSymbols)
	act.scope = act.base
	act.nscopes = 1
	return act
}

func (act *Activation) String() string {
	return fmt.Sprintf("<activation %s>", act.Name)
}

// Caller returns the activation of the caller, or nil for the global activation.
func (act *Activation) Caller() *Activation {
	return act.caller
}

// IsRoot is a predicate: Is this the global activation?
func (act *Activation) IsRoot() bool {
	return act.caller == nil
}

// Base returns the outermost scope of the activation, holding parameters.
func (act *Activation) Base() *Scope {
	return act.base
}

// Current returns the innermost scope.
func (act *Activation) Current() *Scope {
	return act.scope
}

// Scopes counts the scopes of the activation, including the base scope.
func (act *Activation) Scopes() int {
	return act.nscopes
}

// PushScope opens a new innermost scope.
func (act *Activation) PushScope() error {
	if act.nscopes >= act.limits.MaxScopes {
		return &OverflowError{What: "scopes", Limit: act.limits.MaxScopes}
	}
	act.scope = NewScope(act.Name, act.scope, act.limits.MaxSymbols)
	act.nscopes++
	tracer().P("activation", act.Name).Debugf("pushing scope #%d", act.nscopes)
	return nil
}

// PopScope closes the innermost scope, dropping its symbols. The base scope
// cannot be popped, and operands must not be pending.
func (act *Activation) PopScope() error {
	if act.scope == act.base {
		return fmt.Errorf("pop of base scope of %s: %w", act.Name, ErrUnbalanced)
	}
	if n := act.operands.Size(); n > 0 {
		return fmt.Errorf("%d operands pending in %s: %w", n, act.Name, ErrUnbalanced)
	}
	tracer().P("activation", act.Name).Debugf("popping scope #%d", act.nscopes)
	act.scope = act.scope.Parent
	act.nscopes--
	return nil
}

// Resolve finds a symbol in this activation's scopes, innermost first.
func (act *Activation) Resolve(name string) (*Symbol, bool) {
	sym, _ := act.scope.Resolve(name)
	return sym, sym != nil
}

// --- Operands --------------------------------------------------------------

// Push pushes an operand.
func (act *Activation) Push(v Value) error {
	if act.operands.Size() >= act.limits.MaxOperands {
		return &OverflowError{What: "operands", Limit: act.limits.MaxOperands}
	}
	act.operands.Add(v)
	return nil
}

// Pop pops the topmost operand. It returns false if there is none.
func (act *Activation) Pop() (Value, bool) {
	n := act.operands.Size()
	if n == 0 {
		return None(), false
	}
	v, _ := act.operands.Get(n - 1)
	act.operands.Remove(n - 1)
	return v.(Value), true
}

// Operands returns the pending operands, bottom to top.
func (act *Activation) Operands() []Value {
	vals := make([]Value, act.operands.Size())
	act.operands.Each(func(i int, v interface{}) {
		vals[i] = v.(Value)
	})
	return vals
}

// NumOperands counts the pending operands.
func (act *Activation) NumOperands() int {
	return act.operands.Size()
}

// Drain drops all pending operands.
func (act *Activation) Drain() {
	act.operands.Clear()
}

// --- Returns ---------------------------------------------------------------

// SetReturn records the result of the call and marks the activation as
// returning.
func (act *Activation) SetReturn(v Value) {
	act.returning = true
	act.retval = v
}

// Returning is a predicate: has a return been executed?
func (act *Activation) Returning() bool {
	return act.returning
}

// ReturnValue is the value recorded by SetReturn.
func (act *Activation) ReturnValue() Value {
	return act.retval
}

// ClearReturn resets the return state.
func (act *Activation) ClearReturn() {
	act.returning = false
	act.retval = None()
}

// reset drops all but the base scope, pending operands and the return state.
func (act *Activation) reset() {
	act.scope = act.base
	act.nscopes = 1
	act.Drain()
	act.ClearReturn()
}

// ---------------------------------------------------------------------------

// CallStack is a stack of activations. The bottommost activation holds the
// global symbols and is never popped.
type CallStack struct {
	base   *Activation
	tos    *Activation
	depth  int
	limits Limits
}

// NewCallStack creates a call stack with the global activation in place.
func NewCallStack(limits Limits) *CallStack {
	limits = limits.normalize()
	cs := &CallStack{limits: limits}
	cs.base = newActivation("global", nil, limits)
	cs.tos = cs.base
	cs.depth = 1
	return cs
}

// Limits returns the bounds in effect.
func (cs *CallStack) Limits() Limits {
	return cs.limits
}

// Current gets the current activation (TOS).
func (cs *CallStack) Current() *Activation {
	return cs.tos
}

// Globals gets the global activation.
func (cs *CallStack) Globals() *Activation {
	return cs.base
}

// Depth counts the activations, including the global one.
func (cs *CallStack) Depth() int {
	return cs.depth
}

// Push creates a new activation as TOS, having the recent TOS as its caller.
func (cs *CallStack) Push(nm string) (*Activation, error) {
	if cs.depth >= cs.limits.MaxDepth {
		return nil, &OverflowError{What: "call stack", Limit: cs.limits.MaxDepth}
	}
	act := newActivation(nm, cs.tos, cs.limits)
	cs.tos = act
	cs.depth++
	tracer().P("activation", nm).Debugf("pushing new activation, depth %d", cs.depth)
	return act, nil
}

// Pop pops the topmost activation and returns it.
func (cs *CallStack) Pop() (*Activation, error) {
	if cs.tos == cs.base {
		return nil, fmt.Errorf("pop of global activation: %w", ErrUnbalanced)
	}
	act := cs.tos
	tracer().Debugf("popping activation [%s]", act.Name)
	cs.tos = act.caller
	cs.depth--
	return act, nil
}

// Resolve finds a symbol, searching the activations newest-first and their
// scopes innermost-first.
func (cs *CallStack) Resolve(name string) (*Symbol, bool) {
	for act := cs.tos; act != nil; act = act.caller {
		if sym, ok := act.Resolve(name); ok {
			return sym, true
		}
	}
	return nil, false
}

// UnwindTo pops activations until depth is reached, then resets the
// activation left on top to its base scope, without operands.
func (cs *CallStack) UnwindTo(depth int) {
	if depth < 1 {
		depth = 1
	}
	for cs.depth > depth {
		cs.Pop()
	}
	cs.tos.reset()
	tracer().Debugf("call stack unwound to depth %d", cs.depth)
}
