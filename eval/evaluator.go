package eval

import (
	"io"
	"os"

	"github.com/npillmayer/koan/ast"
	"github.com/npillmayer/koan/parser"
	"github.com/npillmayer/koan/runtime"
	"github.com/npillmayer/koan/scanner"
)

// Evaluator evaluates syntax trees. Global definitions persist across calls
// to EvalModule, which makes an evaluator usable for a REPL.
type Evaluator struct {
	stack   *runtime.CallStack
	out     io.Writer
	limits  runtime.Limits
	natives []*Native
}

// Option configures an evaluator.
type Option func(*Evaluator)

// WithOutput sets the sink for println. Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(ev *Evaluator) {
		ev.out = w
	}
}

// WithLimits bounds the evaluator's call stack.
func WithLimits(l runtime.Limits) Option {
	return func(ev *Evaluator) {
		ev.limits = l
	}
}

// WithNative defines a host function in the global scope.
func WithNative(name string, fn NativeFunc) Option {
	return func(ev *Evaluator) {
		ev.natives = append(ev.natives, &Native{name: name, fn: fn, ev: ev})
	}
}

// New creates an evaluator. The global scope holds 'println' and all
// natives given as options.
func New(opts ...Option) *Evaluator {
	ev := &Evaluator{out: os.Stdout}
	ev.natives = []*Native{{name: "println", fn: Println, ev: ev}}
	for _, opt := range opts {
		opt(ev)
	}
	ev.stack = runtime.NewCallStack(ev.limits)
	for _, n := range ev.natives {
		if err := ev.stack.Globals().Current().Define(n.name, runtime.Func(n)); err != nil {
			tracer().Errorf("cannot define native %s: %v", n.name, err)
		}
	}
	return ev
}

// Stack returns the evaluator's call stack.
func (ev *Evaluator) Stack() *runtime.CallStack {
	return ev.stack
}

// Lookup resolves a name along the call stack.
func (ev *Evaluator) Lookup(name string) (runtime.Value, bool) {
	sym, ok := ev.stack.Resolve(name)
	if !ok {
		return runtime.None(), false
	}
	return sym.Value, true
}

// EvalModule evaluates the statements of a module in the global activation.
// A top-level return stops evaluation; its value is the result.
func (ev *Evaluator) EvalModule(m *ast.Module) (runtime.Value, error) {
	act := ev.stack.Current()
	for _, st := range m.Statements {
		if err := ev.eval(st); err != nil {
			ev.stack.UnwindTo(1)
			return runtime.None(), err
		}
		act.Drain()
		if act.Returning() {
			v := act.ReturnValue()
			act.ClearReturn()
			return v, nil
		}
	}
	return runtime.None(), nil
}

// Eval evaluates a single node in the current activation. Results stay on
// the operand stack; the value of a top-level return is pushed there, too.
func (ev *Evaluator) Eval(n ast.Node) error {
	act := ev.stack.Current()
	if err := ev.eval(n); err != nil {
		ev.stack.UnwindTo(1)
		return err
	}
	if act.Returning() {
		v := act.ReturnValue()
		act.ClearReturn()
		if !v.IsNone() {
			return wrapRuntime(act.Push(v), scanner.Token{})
		}
	}
	return nil
}

// Call invokes a callable bound to name with the given arguments.
func (ev *Evaluator) Call(name string, args ...runtime.Value) (runtime.Value, error) {
	tok := scanner.Token{Kind: scanner.Identifier, Text: name}
	v, ok := ev.Lookup(name)
	if !ok {
		return runtime.None(), newError(Unresolved, tok, "unresolved name '%s'", name)
	}
	c, err := callableOf(v, tok)
	if err != nil {
		return runtime.None(), err
	}
	result, err := ev.invoke(c, args, tok)
	if err != nil {
		ev.stack.UnwindTo(1)
	}
	return result, err
}

// Run parses and evaluates a source text, then calls 'main' if the module
// defines it. The result is main's return value, or the module's result if
// there is no main.
func Run(src []byte, out io.Writer) (runtime.Value, error) {
	m, err := parser.Parse(src)
	if err != nil {
		return runtime.None(), err
	}
	ev := New(WithOutput(out))
	result, err := ev.EvalModule(m)
	if err != nil {
		return runtime.None(), err
	}
	if v, ok := ev.Lookup("main"); ok {
		if _, isCallable := v.AsCallable(); isCallable {
			return ev.Call("main")
		}
	}
	return result, nil
}

// --- Node evaluation -------------------------------------------------------

func (ev *Evaluator) eval(n ast.Node) error {
	act := ev.stack.Current()
	switch n := n.(type) {
	case *ast.Function:
		f := &Function{Decl: n, ev: ev}
		tracer().Debugf("declaring %v", f)
		return wrapRuntime(act.Current().Define(n.Name.Text, runtime.Func(f)), n.Name)
	case *ast.FunctionCall:
		return ev.call(n)
	case *ast.Block:
		return ev.block(n)
	case *ast.If:
		return ev.ifStatement(n)
	case *ast.Return:
		return ev.returnStatement(n)
	case *ast.Declaration:
		return ev.declaration(n)
	case *ast.Identifier:
		sym, ok := ev.stack.Resolve(n.Name())
		if !ok {
			return newError(Unresolved, n.Token, "unresolved name '%s'", n.Name())
		}
		return wrapRuntime(act.Push(sym.Value), n.Token)
	case *ast.Literal:
		v, err := literal(n.Token)
		if err != nil {
			return err
		}
		return wrapRuntime(act.Push(v), n.Token)
	case *ast.Expression:
		return ev.expression(n)
	case *ast.Module:
		_, err := ev.EvalModule(n)
		return err
	}
	return &Error{Kind: Unsupported, Msg: "cannot evaluate node"}
}

// block evaluates statements in a new scope. Evaluation stops after a
// statement which executed a return.
func (ev *Evaluator) block(b *ast.Block) error {
	act := ev.stack.Current()
	if err := act.PushScope(); err != nil {
		return wrapRuntime(err, b.LBrace)
	}
	for _, st := range b.Statements {
		if err := ev.eval(st); err != nil {
			return err
		}
		act.Drain()
		if act.Returning() {
			break
		}
	}
	return wrapRuntime(act.PopScope(), b.LBrace)
}

func (ev *Evaluator) ifStatement(n *ast.If) error {
	cond, err := ev.operand(n.Cond, n.Keyword, "condition has no value")
	if err != nil {
		return err
	}
	truth, err := cond.Truthy()
	if err != nil {
		return &Error{Kind: NotBoolean, Token: n.Keyword, Msg: "if condition", Err: err}
	}
	if truth {
		return ev.eval(n.Then)
	} else if n.Else != nil {
		return ev.eval(n.Else)
	}
	return nil
}

func (ev *Evaluator) returnStatement(n *ast.Return) error {
	act := ev.stack.Current()
	v := runtime.None()
	if n.Value != nil {
		base := act.NumOperands()
		if err := ev.eval(n.Value); err != nil {
			return err
		}
		if act.NumOperands() > base {
			v, _ = act.Pop()
		}
	}
	act.SetReturn(v)
	return nil
}

func (ev *Evaluator) declaration(n *ast.Declaration) error {
	act := ev.stack.Current()
	v := runtime.None()
	if n.Init != nil {
		var err error
		v, err = ev.operand(n.Init, n.Name, "initializer of '%s' has no value", n.Name.Text)
		if err != nil {
			return err
		}
	}
	return wrapRuntime(act.Current().Define(n.Name.Text, v), n.Name)
}

// operand evaluates n, which has to leave exactly one value on the operand
// stack. The value is popped and returned. Operands pending from enclosing
// expressions are never consumed.
func (ev *Evaluator) operand(n ast.Node, tok scanner.Token, format string, args ...interface{}) (runtime.Value, error) {
	act := ev.stack.Current()
	base := act.NumOperands()
	if err := ev.eval(n); err != nil {
		return runtime.None(), err
	}
	if act.NumOperands() != base+1 {
		return runtime.None(), newError(MissingOperand, tok, format, args...)
	}
	v, _ := act.Pop()
	return v, nil
}

// --- Calls -----------------------------------------------------------------

func callableOf(v runtime.Value, tok scanner.Token) (runtime.Callable, error) {
	c, ok := v.AsCallable()
	if !ok {
		return nil, newError(NotCallable, tok, "%s value is not callable", v.Kind())
	}
	if c == nil {
		return nil, newError(NilCallable, tok, "call of nil callable")
	}
	return c, nil
}

func (ev *Evaluator) call(n *ast.FunctionCall) error {
	caller := ev.stack.Current()
	v, err := ev.operand(n.Callee, n.Paren, "callee has no value")
	if err != nil {
		return err
	}
	c, err := callableOf(v, n.Paren)
	if err != nil {
		return err
	}
	base := caller.NumOperands()
	for i, arg := range n.Args {
		if err := ev.eval(arg); err != nil {
			return err
		}
		if caller.NumOperands() != base+i+1 {
			return newError(MissingOperand, n.Paren, "argument #%d of %s has no value", i+1, c.Name())
		}
	}
	args := make([]runtime.Value, len(n.Args))
	for i := len(args) - 1; i >= 0; i-- {
		args[i], _ = caller.Pop()
	}
	result, err := ev.invoke(c, args, n.Paren)
	if err != nil {
		return err
	}
	if !result.IsNone() {
		return wrapRuntime(caller.Push(result), n.Paren)
	}
	return nil
}

// invoke runs c in a new activation holding args as operands, in order.
func (ev *Evaluator) invoke(c runtime.Callable, args []runtime.Value, tok scanner.Token) (runtime.Value, error) {
	tracer().Debugf("call %s with %d arguments", c.Name(), len(args))
	callee, err := ev.stack.Push(c.Name())
	if err != nil {
		return runtime.None(), wrapRuntime(err, tok)
	}
	defer ev.stack.Pop()
	for _, a := range args {
		if err := callee.Push(a); err != nil {
			return runtime.None(), wrapRuntime(err, tok)
		}
	}
	return c.Invoke(callee)
}
