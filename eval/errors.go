package eval

import (
	"errors"
	"fmt"

	"github.com/npillmayer/koan/runtime"
	"github.com/npillmayer/koan/scanner"
)

// ErrorKind classifies evaluation errors.
type ErrorKind int8

// Kinds of evaluation errors.
const (
	Unresolved ErrorKind = iota
	NotCallable
	NilCallable
	MissingOperand
	TypeMismatch
	NotBoolean
	ArityMismatch
	DivideByZero
	InvalidLiteral
	StackOverflow
	Unsupported
	Internal
)

// Sentinels for errors.Is, one per error kind.
var (
	ErrUnresolved     = errors.New("unresolved name")
	ErrNotCallable    = errors.New("value is not callable")
	ErrNilCallable    = errors.New("nil callable")
	ErrMissingOperand = errors.New("missing operand")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrNotBoolean     = errors.New("condition is not boolean")
	ErrArityMismatch  = errors.New("wrong number of arguments")
	ErrDivideByZero   = errors.New("division by zero")
	ErrInvalidLiteral = errors.New("invalid literal")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrUnsupported    = errors.New("unsupported construct")
	ErrInternal       = errors.New("internal error")
)

var sentinels = [...]error{
	Unresolved:     ErrUnresolved,
	NotCallable:    ErrNotCallable,
	NilCallable:    ErrNilCallable,
	MissingOperand: ErrMissingOperand,
	TypeMismatch:   ErrTypeMismatch,
	NotBoolean:     ErrNotBoolean,
	ArityMismatch:  ErrArityMismatch,
	DivideByZero:   ErrDivideByZero,
	InvalidLiteral: ErrInvalidLiteral,
	StackOverflow:  ErrStackOverflow,
	Unsupported:    ErrUnsupported,
	Internal:       ErrInternal,
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(sentinels) {
		return fmt.Sprintf("errorkind(%d)", int(k))
	}
	return sentinels[k].Error()
}

// Error is an evaluation error, located at the token of the offending node.
type Error struct {
	Kind  ErrorKind
	Token scanner.Token
	Msg   string
	Err   error // underlying cause, if any
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if !e.Token.Pos.IsValid() {
		return msg
	}
	return e.Token.Pos.String() + ": " + msg
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return int(e.Kind) < len(sentinels) && target == sentinels[e.Kind]
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, tok scanner.Token, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Token: tok, Msg: fmt.Sprintf(format, args...)}
}

// wrapRuntime converts errors of the runtime model into evaluation errors.
// Bound violations become StackOverflow, anything else is a broken invariant.
func wrapRuntime(err error, tok scanner.Token) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, runtime.ErrStackOverflow) {
		return &Error{Kind: StackOverflow, Token: tok, Msg: "runtime limit", Err: err}
	}
	return &Error{Kind: Internal, Token: tok, Msg: "runtime invariant violated", Err: err}
}
