package eval

import (
	"github.com/npillmayer/koan/ast"
	"github.com/npillmayer/koan/runtime"
	"github.com/npillmayer/koan/scanner"
)

// literal converts a literal token to a value. Integers wrap around silently,
// a leading minus sign negates in two's complement.
func literal(tok scanner.Token) (runtime.Value, error) {
	if tok.Kind == scanner.StringLiteral {
		return runtime.Str(tok.Text), nil
	}
	digits, neg := tok.Text, false
	if len(digits) > 0 && digits[0] == '-' {
		digits, neg = digits[1:], true
	}
	if len(digits) == 0 {
		return runtime.None(), newError(InvalidLiteral, tok, "invalid integer literal %q", tok.Text)
	}
	var u uint64
	for _, d := range []byte(digits) {
		if d < '0' || d > '9' {
			return runtime.None(), newError(InvalidLiteral, tok, "invalid integer literal %q", tok.Text)
		}
		u = u*10 + uint64(d-'0')
	}
	if neg {
		u = -u
	}
	return runtime.Uint(u), nil
}

func (ev *Evaluator) expression(n *ast.Expression) error {
	if n.Op.Kind == scanner.Assign {
		return ev.assignment(n)
	}
	act := ev.stack.Current()
	left, err := ev.operand(n.Left, n.Op, "left operand of '%s' has no value", n.Op.Text)
	if err != nil {
		return err
	}
	right, err := ev.operand(n.Right, n.Op, "right operand of '%s' has no value", n.Op.Text)
	if err != nil {
		return err
	}
	v, err := binary(n.Op, left, right)
	if err != nil {
		return err
	}
	return wrapRuntime(act.Push(v), n.Op)
}

func (ev *Evaluator) assignment(n *ast.Expression) error {
	act := ev.stack.Current()
	target, ok := n.Left.(*ast.Identifier)
	if !ok {
		return newError(Unsupported, n.Op, "left side of assignment is not a variable")
	}
	v, err := ev.operand(n.Right, n.Op, "right side of assignment has no value")
	if err != nil {
		return err
	}
	sym, ok := ev.stack.Resolve(target.Name())
	if !ok {
		return newError(Unresolved, target.Token, "assignment to undeclared '%s'", target.Name())
	}
	sym.Value = v
	return wrapRuntime(act.Push(v), n.Op)
}

func bool2uint(b bool) runtime.Value {
	if b {
		return runtime.Uint(1)
	}
	return runtime.Uint(0)
}

// binary applies a binary operator. Arithmetic is unsigned with wrap-around.
func binary(op scanner.Token, left, right runtime.Value) (runtime.Value, error) {
	if op.Kind == scanner.Equal || op.Kind == scanner.NotEqual {
		if l, ok := left.AsString(); ok {
			r, ok := right.AsString()
			if !ok {
				return runtime.None(), mismatch(op, left, right)
			}
			return bool2uint((l == r) == (op.Kind == scanner.Equal)), nil
		}
	}
	l, ok1 := left.AsUint()
	r, ok2 := right.AsUint()
	if !ok1 || !ok2 {
		return runtime.None(), mismatch(op, left, right)
	}
	switch op.Kind {
	case scanner.Plus:
		return runtime.Uint(l + r), nil
	case scanner.Minus:
		return runtime.Uint(l - r), nil
	case scanner.Star:
		return runtime.Uint(l * r), nil
	case scanner.Slash:
		if r == 0 {
			return runtime.None(), newError(DivideByZero, op, "division by zero")
		}
		return runtime.Uint(l / r), nil
	case scanner.Equal:
		return bool2uint(l == r), nil
	case scanner.NotEqual:
		return bool2uint(l != r), nil
	case scanner.Less:
		return bool2uint(l < r), nil
	case scanner.LessEqual:
		return bool2uint(l <= r), nil
	case scanner.Greater:
		return bool2uint(l > r), nil
	case scanner.GreaterEqual:
		return bool2uint(l >= r), nil
	}
	return runtime.None(), newError(Unsupported, op, "unknown operator '%s'", op.Text)
}

func mismatch(op scanner.Token, left, right runtime.Value) error {
	return newError(TypeMismatch, op, "operator '%s' not applicable to %s and %s",
		op.Text, left.Kind(), right.Kind())
}
