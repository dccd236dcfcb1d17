/*
Package eval implements a tree-walking evaluator for syntax trees.

Evaluation works on the call stack of package runtime: every node pushes
its result, if any, onto the operand stack of the current activation.
Statements drop whatever their expressions left behind. Function calls
move their arguments into a fresh activation, where the callee finds them
as operands in source order.

Names are resolved along the call stack, so a function sees the variables
of its callers. There are no closures.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package eval

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'koan.eval'.
func tracer() tracing.Trace {
	return tracing.Select("koan.eval")
}
