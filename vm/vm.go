package vm

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Frame is the state of one call. BP and SP index the VM's memory; the
// frame's stack consists of the words from BP up to SP (exclusive).
type Frame struct {
	PC       uint32
	BP       uint32
	SP       uint32
	Function *Function
}

// Size counts the words on the frame's stack.
func (f Frame) Size() int {
	return int(f.SP) - int(f.BP)
}

// StateFlags describe the run state of a VM.
type StateFlags uint8

// State flags
const (
	Halted StateFlags = 1 << iota
	Breakpoint
	Trapped
)

// VM is a stack machine executing a module. A VM is not safe for concurrent
// use; separate VMs share nothing.
type VM struct {
	module    *Module
	memory    []int32
	frames    []Frame
	depth     int
	flags     StateFlags
	trap      *Trap
	result    int32
	hasResult bool
	out       io.Writer
	trace     bool
}

// Option configures a VM.
type Option func(*VM)

// WithMemorySize sets the number of memory words. Default is 4096.
func WithMemorySize(words int) Option {
	return func(vm *VM) {
		if words > 0 {
			vm.memory = make([]int32, words)
		}
	}
}

// WithMaxFrames bounds the call depth. Default is 256.
func WithMaxFrames(n int) Option {
	return func(vm *VM) {
		if n > 0 {
			vm.frames = make([]Frame, n)
		}
	}
}

// WithOutput sets the sink natives write to. Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) {
		vm.out = w
	}
}

// WithTrace switches per-instruction tracing on or off.
func WithTrace(on bool) Option {
	return func(vm *VM) {
		vm.trace = on
	}
}

// New creates a VM for module m, ready to execute function 0.
func New(m *Module, opts ...Option) (*VM, error) {
	if m == nil || len(m.Functions) == 0 {
		return nil, errors.New("vm: module without functions")
	}
	for i, f := range m.Functions {
		if f == nil {
			return nil, fmt.Errorf("vm: function #%d is nil", i)
		}
		if f.NumArgs < 0 {
			return nil, fmt.Errorf("vm: function %s has negative argument count %d", f.Name, f.NumArgs)
		}
		if f.IsNative() && f.Native == nil {
			return nil, fmt.Errorf("vm: native function %s has no implementation", f.Name)
		}
	}
	if m.Functions[0].NumArgs != 0 {
		return nil, fmt.Errorf("vm: entry function %s must not take arguments", m.Functions[0].Name)
	}
	vm := &VM{
		module: m,
		memory: make([]int32, 4096),
		frames: make([]Frame, 256),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.frames[0] = Frame{Function: m.Functions[0]}
	vm.depth = 1
	tracer().Debugf("vm for %d functions, %d words of memory", len(m.Functions), len(vm.memory))
	return vm, nil
}

// --- Inspection ------------------------------------------------------------

// Module returns the module under execution.
func (vm *VM) Module() *Module { return vm.module }

// Flags returns the run state flags.
func (vm *VM) Flags() StateFlags { return vm.flags }

// Halted is a predicate: has the VM stopped for good? A trapped VM is halted.
func (vm *VM) Halted() bool { return vm.flags&Halted != 0 }

// AtBreakpoint is a predicate: is the VM stopped at a breakpoint?
func (vm *VM) AtBreakpoint() bool { return vm.flags&Breakpoint != 0 }

// Trap returns the trap which halted the VM, if any.
func (vm *VM) Trap() *Trap { return vm.trap }

// Depth returns the number of active frames.
func (vm *VM) Depth() int { return vm.depth }

// Frames returns a copy of the active frames, outermost first.
func (vm *VM) Frames() []Frame {
	return append([]Frame{}, vm.frames[:vm.depth]...)
}

// Frame returns the innermost frame. It returns a zero frame if the call
// stack is empty.
func (vm *VM) Frame() Frame {
	if vm.depth == 0 {
		return Frame{}
	}
	return vm.frames[vm.depth-1]
}

// Stack returns a copy of the innermost frame's stack words, bottom to top.
func (vm *VM) Stack() []int32 {
	if vm.depth == 0 {
		return nil
	}
	f := vm.frames[vm.depth-1]
	return append([]int32{}, vm.memory[f.BP:f.SP]...)
}

// Memory gives access to the VM's memory. Clients must not modify it.
func (vm *VM) Memory() []int32 { return vm.memory }

// Result returns the word returned by the outermost frame, if there was one.
func (vm *VM) Result() (int32, bool) { return vm.result, vm.hasResult }

// Output is the sink natives should write to.
func (vm *VM) Output() io.Writer { return vm.out }

// --- Execution -------------------------------------------------------------

// Resume clears a breakpoint stop.
func (vm *VM) Resume() {
	vm.flags &^= Breakpoint
}

// Run executes instructions until the VM halts or stops at a breakpoint.
func (vm *VM) Run() error {
	for !vm.Halted() && !vm.AtBreakpoint() {
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step executes one instruction, or one native function call.
func (vm *VM) Step() error {
	if vm.trap != nil {
		return vm.trap
	}
	if vm.Halted() {
		return ErrHalted
	}
	if vm.AtBreakpoint() {
		return ErrBreakpoint
	}
	if vm.depth == 0 {
		return vm.raise(EmptyCallStack, NOP, "no frame to execute")
	}
	frame := &vm.frames[vm.depth-1]
	if frame.Function.IsNative() {
		return vm.runNative(frame)
	}
	pc := frame.PC
	ins := decode(frame.Function.Body, int(pc))
	switch {
	case int(pc) >= len(frame.Function.Body):
		return vm.raise(PCOutOfBounds, NOP, "pc %04Xh outside of %d bytes of code", pc, len(frame.Function.Body))
	case !ins.Op.Valid():
		return vm.raise(UnknownOpcode, ins.Op, "opcode %02Xh", byte(ins.Op))
	case ins.Bad != "":
		return vm.raise(TruncatedInstruction, ins.Op, "%s needs %d bytes", ins.Op, ins.Op.Size())
	}
	if vm.trace {
		tracer().Debugf("%10s+%04Xh %4d %4.02Xh   %s ", frame.Function.Name, pc, frame.SP, byte(ins.Op), ins)
	}
	depth := vm.depth
	if err := vm.execute(frame, ins); err != nil {
		return err
	}
	if !vm.Halted() && vm.depth == depth && frame.PC == pc {
		return vm.raise(PCNotAdvanced, ins.Op, "instruction did not advance pc")
	}
	return nil
}
