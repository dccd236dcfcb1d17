/*
Package vm implements a small stack-based bytecode machine.

A VM executes the functions of a Module. All data lives in one flat array
of 32-bit words. Every call gets a frame with a base pointer (BP) and a
stack pointer (SP) into this array; a callee's frame starts at its first
argument, which the caller pushed. Returning moves at most one word, the
top of the callee's stack, to the caller.

Instructions are one byte, optionally followed by an immediate:

    NOP                  no operation
    PUSH  imm32          push a little-endian constant
    POP                  drop the top word
    DUP                  duplicate the top word
    XCHG                 swap the two top words
    CALL  idx32          call function #idx
    RET                  return to the caller
    ADD SUB MUL DIV      signed 32-bit arithmetic on the two top words
    BZ BNZ  rel8         pop, branch if zero / non-zero
    BNE     rel8         branch if the two top words differ, pop one
    LT LTE               compare the two top words, push 0 or 1
    HALT                 stop the machine
    PANIC                raise a software trap
    BRK                  stop at a breakpoint

Branch offsets are relative to the address behind the branch instruction.
Any violation of the machine's rules raises a *Trap, which halts the VM.
Clients may drive a VM by Step or Run, which makes single-stepping
debuggers easy to build.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package vm

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'koan.vm'.
func tracer() tracing.Trace {
	return tracing.Select("koan.vm")
}
