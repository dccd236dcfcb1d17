/*
Package runtime implements the runtime environment of the tree-walking
interpreter, consisting of values, symbols, scopes, activations and a call
stack.

For a thorough discussion of an interpreter's runtime environment, refer to
"Language Implementation Patterns" by Terence Parr.

Scopes and Symbols

A scope holds symbol definitions in insertion order. Scopes link back to an
enclosing scope, forming a chain from the innermost block of a function to
the function's base scope.

Activations

An activation is created for every call. It owns a stack of scopes and an
operand stack for intermediate values. Activations link back to their
caller, forming the call stack. Name resolution searches the call stack
newest-first, and within each activation the scopes innermost-first. A
callee therefore sees the bindings of its callers (dynamic scoping).

All stacks are bounded; exceeding a bound yields an *OverflowError.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software or the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package runtime

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'koan.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("koan.runtime")
}

// Limits bounds the runtime's stacks. Zero fields are replaced by defaults.
type Limits struct {
	MaxDepth    int // activations on the call stack
	MaxScopes   int // nested scopes per activation
	MaxSymbols  int // symbols per scope
	MaxOperands int // pending operands per activation
}

// DefaultLimits returns the limits used if none are given.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:    1024,
		MaxScopes:   256,
		MaxSymbols:  256,
		MaxOperands: 256,
	}
}

func (l Limits) normalize() Limits {
	d := DefaultLimits()
	if l.MaxDepth <= 0 {
		l.MaxDepth = d.MaxDepth
	}
	if l.MaxScopes <= 0 {
		l.MaxScopes = d.MaxScopes
	}
	if l.MaxSymbols <= 0 {
		l.MaxSymbols = d.MaxSymbols
	}
	if l.MaxOperands <= 0 {
		l.MaxOperands = d.MaxOperands
	}
	return l
}

// --- Errors ----------------------------------------------------------------

// ErrStackOverflow is wrapped by every *OverflowError.
var ErrStackOverflow = errors.New("stack overflow")

// ErrNotBoolean is returned for values which have no truth value.
var ErrNotBoolean = errors.New("value is not usable as a condition")

// ErrUnbalanced signals a scope pop which would violate stack discipline.
var ErrUnbalanced = errors.New("unbalanced scope")

// OverflowError reports a bounded stack running full.
type OverflowError struct {
	What  string // "call stack", "scopes", "symbols", "operands"
	Limit int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s overflow: limit of %d exceeded", e.What, e.Limit)
}

func (e *OverflowError) Unwrap() error {
	return ErrStackOverflow
}
