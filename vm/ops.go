package vm

import (
	"fmt"
	"strings"
)

// need checks that the frame holds at least n words.
func (vm *VM) need(f *Frame, n int, op Opcode) error {
	if f.Size() < n {
		return vm.raise(StackUnderflow, op, "%s needs %d words, stack has %d", op, n, f.Size())
	}
	return nil
}

func (vm *VM) push(f *Frame, w int32, op Opcode) error {
	if int(f.SP) >= len(vm.memory) {
		return vm.raise(AddressOutOfBounds, op, "stack overflows memory of %d words", len(vm.memory))
	}
	vm.memory[f.SP] = w
	f.SP++
	return nil
}

func b2w(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// execute runs a decoded instruction in frame f.
func (vm *VM) execute(f *Frame, ins Instruction) error {
	op := ins.Op
	next := f.PC + uint32(ins.Size)
	switch op {
	case NOP:
	case PUSH:
		if err := vm.push(f, ins.Operand, op); err != nil {
			return err
		}
	case POP:
		if err := vm.need(f, 1, op); err != nil {
			return err
		}
		f.SP--
	case DUP:
		if err := vm.need(f, 1, op); err != nil {
			return err
		}
		if err := vm.push(f, vm.memory[f.SP-1], op); err != nil {
			return err
		}
	case XCHG:
		if err := vm.need(f, 2, op); err != nil {
			return err
		}
		m := vm.memory
		m[f.SP-1], m[f.SP-2] = m[f.SP-2], m[f.SP-1]
	case CALL:
		if err := vm.call(f, ins); err != nil {
			return err
		}
		f.PC = next
		return nil
	case RET:
		return vm.ret(f, op)
	case ADD, SUB, MUL, DIV, LT, LTE:
		if err := vm.need(f, 2, op); err != nil {
			return err
		}
		a, b := vm.memory[f.SP-2], vm.memory[f.SP-1]
		var r int32
		switch op {
		case ADD:
			r = a + b
		case SUB:
			r = a - b
		case MUL:
			r = a * b
		case DIV:
			if b == 0 {
				return vm.raise(DivideByZero, op, "%d / 0", a)
			}
			r = a / b
		case LT:
			r = b2w(a < b)
		case LTE:
			r = b2w(a <= b)
		}
		f.SP--
		vm.memory[f.SP-1] = r
	case BZ, BNZ, BNE:
		var taken bool
		if op == BNE {
			if err := vm.need(f, 2, op); err != nil {
				return err
			}
			taken = vm.memory[f.SP-2] != vm.memory[f.SP-1]
		} else {
			if err := vm.need(f, 1, op); err != nil {
				return err
			}
			taken = (vm.memory[f.SP-1] == 0) == (op == BZ)
		}
		f.SP--
		if taken {
			target := ins.Target()
			if target < 0 || target >= len(f.Function.Body) {
				return vm.raise(PCOutOfBounds, op, "branch target %04Xh outside of code", target)
			}
			next = uint32(target)
		}
	case HALT:
		vm.flags |= Halted
		tracer().Infof("vm halted in %s", f.Function.Name)
		return nil
	case PANIC:
		return vm.raise(SoftwarePanic, op, "panic in %s", f.Function.Name)
	case BRK:
		vm.flags |= Breakpoint
		tracer().Infof("breakpoint in %s at %04Xh", f.Function.Name, f.PC)
	}
	f.PC = next
	return nil
}

// call pushes a frame for the function indexed by ins. The arguments stay in
// place and become the bottom of the callee's stack.
func (vm *VM) call(f *Frame, ins Instruction) error {
	idx := uint32(ins.Operand)
	if int(idx) >= len(vm.module.Functions) || ins.Operand < 0 {
		return vm.raise(BadFunctionIndex, CALL, "no function #%d", idx)
	}
	callee := vm.module.Functions[idx]
	if vm.depth >= len(vm.frames) {
		return vm.raise(CallStackOverflow, CALL, "call of %s exceeds %d frames", callee.Name, len(vm.frames))
	}
	if err := vm.need(f, callee.NumArgs, CALL); err != nil {
		return err
	}
	bp := f.SP - uint32(callee.NumArgs)
	vm.frames[vm.depth] = Frame{BP: bp, SP: f.SP, Function: callee}
	f.SP = bp
	vm.depth++
	tracer().Debugf("call %s, depth %d", callee.Name, vm.depth)
	return nil
}

// ret pops frame f, which has to be the innermost one. The top word of f's
// stack, if any, is pushed to the caller. Returning from the outermost frame
// halts the VM.
func (vm *VM) ret(f *Frame, op Opcode) error {
	hasValue := f.SP > f.BP
	var w int32
	if hasValue {
		w = vm.memory[f.SP-1]
	}
	vm.depth--
	tracer().Debugf("return from %s, depth %d", f.Function.Name, vm.depth)
	if vm.depth == 0 {
		vm.result, vm.hasResult = w, hasValue
		vm.flags |= Halted
		return nil
	}
	if hasValue {
		caller := &vm.frames[vm.depth-1]
		if err := vm.push(caller, w, op); err != nil {
			return err
		}
	}
	return nil
}

// runNative executes a native function synchronously and returns like RET.
func (vm *VM) runNative(f *Frame) error {
	fn := f.Function
	tracer().Debugf("%10s  native call with %d args", fn.Name, f.Size())
	err := fn.Native(vm)
	if vm.trap != nil {
		// raised by Arg, Drop or Push, whether passed on, wrapped or ignored
		return vm.trap
	}
	if err != nil {
		return vm.raise(SoftwarePanic, CALL, "native %s: %v", fn.Name, err)
	}
	if f.SP < f.BP {
		return vm.raise(StackUnderflow, CALL, "native %s dropped below its frame", fn.Name)
	}
	return vm.ret(f, RET)
}

// --- Native function support -----------------------------------------------

// Arg returns argument #i of the running native function.
func (vm *VM) Arg(i int) (int32, error) {
	if vm.depth == 0 {
		return 0, vm.raise(EmptyCallStack, CALL, "argument access without frame")
	}
	f := vm.Frame()
	if i < 0 || i >= f.Size() {
		return 0, vm.raise(BadArgument, CALL, "%s has no argument #%d", f.Function.Name, i)
	}
	return vm.memory[int(f.BP)+i], nil
}

// Drop removes n words from the innermost frame's stack.
func (vm *VM) Drop(n int) error {
	if vm.depth == 0 {
		return vm.raise(EmptyCallStack, CALL, "drop without frame")
	}
	f := &vm.frames[vm.depth-1]
	if n < 0 || n > f.Size() {
		return vm.raise(BadArgument, CALL, "cannot drop %d of %d words", n, f.Size())
	}
	f.SP -= uint32(n)
	return nil
}

// Push pushes a word onto the innermost frame's stack. A native function
// returns a value this way.
func (vm *VM) Push(w int32) error {
	if vm.depth == 0 {
		return vm.raise(EmptyCallStack, CALL, "push without frame")
	}
	return vm.push(&vm.frames[vm.depth-1], w, CALL)
}

// Println is a native function printing its arguments, separated by blanks.
func Println(vm *VM) error {
	n := vm.Frame().Size()
	words := make([]string, n)
	for i := 0; i < n; i++ {
		w, err := vm.Arg(i)
		if err != nil {
			return err
		}
		words[i] = fmt.Sprint(w)
	}
	if _, err := fmt.Fprintln(vm.Output(), strings.Join(words, " ")); err != nil {
		return err
	}
	return vm.Drop(n)
}
