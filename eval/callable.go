package eval

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/koan/ast"
	"github.com/npillmayer/koan/runtime"
)

// Function is an interpreted function: a declaration bound to the evaluator
// which runs its body.
type Function struct {
	Decl *ast.Function
	ev   *Evaluator
}

var _ runtime.Callable = (*Function)(nil)

// Name is part of interface runtime.Callable.
func (f *Function) Name() string {
	return f.Decl.Name.Text
}

// Arity returns the number of declared parameters.
func (f *Function) Arity() int {
	return len(f.Decl.Params)
}

// Invoke binds the arguments pending in act to the parameters and evaluates
// the body. The result is the value of an executed return statement, or None.
func (f *Function) Invoke(act *runtime.Activation) (runtime.Value, error) {
	args := act.Operands()
	if len(args) != f.Arity() {
		return runtime.None(), newError(ArityMismatch, f.Decl.Name,
			"%s expects %d arguments, got %d", f.Name(), f.Arity(), len(args))
	}
	act.Drain()
	for i, p := range f.Decl.Params {
		if err := act.Base().Define(p.Name.Text, args[i]); err != nil {
			return runtime.None(), wrapRuntime(err, p.Name)
		}
	}
	if err := f.ev.block(f.Decl.Body); err != nil {
		return runtime.None(), err
	}
	if act.Returning() {
		return act.ReturnValue(), nil
	}
	return runtime.None(), nil
}

func (f *Function) String() string {
	return fmt.Sprintf("<function %s/%d>", f.Name(), f.Arity())
}

// --- Natives ---------------------------------------------------------------

// NativeFunc is a host function. It receives the arguments in source order
// and the evaluator's output sink.
type NativeFunc func(out io.Writer, args []runtime.Value) (runtime.Value, error)

// Native is a callable implemented in Go.
type Native struct {
	name string
	fn   NativeFunc
	ev   *Evaluator
}

var _ runtime.Callable = (*Native)(nil)

// Name is part of interface runtime.Callable.
func (n *Native) Name() string {
	return n.name
}

// Invoke consumes all operands pending in act as arguments.
func (n *Native) Invoke(act *runtime.Activation) (runtime.Value, error) {
	args := act.Operands()
	act.Drain()
	return n.fn(n.ev.out, args)
}

func (n *Native) String() string {
	return fmt.Sprintf("<native %s>", n.name)
}

// Println writes its arguments, separated by blanks and terminated by a
// newline.
func Println(out io.Writer, args []runtime.Value) (runtime.Value, error) {
	strs := make([]string, len(args))
	for i, a := range args {
		strs[i] = a.String()
	}
	_, err := io.WriteString(out, strings.Join(strs, " ")+"\n")
	return runtime.None(), err
}
