package vm

import (
	"errors"
	"fmt"
	"io"
)

// TrapKind classifies traps.
type TrapKind int8

// Kinds of traps.
const (
	StackUnderflow TrapKind = iota
	AddressOutOfBounds
	UnknownOpcode
	CallStackOverflow
	BadFunctionIndex
	SoftwarePanic
	PCNotAdvanced
	PCOutOfBounds
	TruncatedInstruction
	DivideByZero
	EmptyCallStack
	BadArgument
)

var trapNames = [...]string{
	"stack underflow",
	"address out of bounds",
	"unknown opcode",
	"call stack overflow",
	"bad function index",
	"software panic",
	"pc not advanced",
	"pc out of bounds",
	"truncated instruction",
	"divide by zero",
	"empty call stack",
	"bad argument",
}

func (k TrapKind) String() string {
	if k < 0 || int(k) >= len(trapNames) {
		return fmt.Sprintf("trap(%d)", int(k))
	}
	return trapNames[k]
}

// ErrHalted is returned when stepping a halted VM.
var ErrHalted = errors.New("vm is halted")

// ErrBreakpoint is returned when stepping a VM stopped at a breakpoint.
var ErrBreakpoint = errors.New("vm stopped at breakpoint")

// dumpWords is the number of memory words a trap records.
const dumpWords = 20

// Trap is a fatal machine error. It carries a snapshot of the machine state
// at the faulting instruction.
type Trap struct {
	Kind     TrapKind
	Reason   string
	Opcode   Opcode
	Function string
	PC       uint32
	BP       uint32
	SP       uint32
	Depth    int
	Stack    []int32 // words of the faulting frame, BP to SP
	Memory   []int32 // first words of memory
}

func (t *Trap) Error() string {
	return fmt.Sprintf("trap: %s in %s at %04Xh (%s): %s", t.Kind, t.Function, t.PC, t.Opcode, t.Reason)
}

// Dump writes a diagnostic of the machine state.
func (t *Trap) Dump(w io.Writer) {
	fmt.Fprintf(w, "*** %s: %s\n", t.Kind, t.Reason)
	fmt.Fprintf(w, "    function %s, pc %04Xh, opcode %s (%02Xh)\n", t.Function, t.PC, t.Opcode, byte(t.Opcode))
	fmt.Fprintf(w, "    bp %d, sp %d, call depth %d\n", t.BP, t.SP, t.Depth)
	fmt.Fprintf(w, "    stack  %v\n", t.Stack)
	fmt.Fprintf(w, "    memory %v\n", t.Memory)
}

// raise creates a trap for the current frame, halts the VM and returns the trap.
func (vm *VM) raise(kind TrapKind, op Opcode, format string, args ...interface{}) *Trap {
	t := &Trap{
		Kind:   kind,
		Reason: fmt.Sprintf(format, args...),
		Opcode: op,
		Depth:  vm.depth,
	}
	if vm.depth > 0 {
		f := vm.frames[vm.depth-1]
		t.Function, t.PC, t.BP, t.SP = f.Function.Name, f.PC, f.BP, f.SP
		if f.SP >= f.BP && int(f.SP) <= len(vm.memory) {
			t.Stack = append([]int32{}, vm.memory[f.BP:f.SP]...)
		}
	}
	n := dumpWords
	if n > len(vm.memory) {
		n = len(vm.memory)
	}
	t.Memory = append([]int32{}, vm.memory[:n]...)
	vm.trap = t
	vm.flags |= Halted | Trapped
	tracer().Errorf("%v", t)
	return t
}
