package vm

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// runGlobal assembles fns into a module and runs it to completion.
func runGlobal(t *testing.T, global *Assembler, more ...*Function) (*VM, error) {
	t.Helper()
	g, err := global.Function()
	be.Err(t, err, nil)
	machine, err := New(NewModule(append([]*Function{g}, more...)...))
	be.Err(t, err, nil)
	return machine, machine.Run()
}

func trapOf(t *testing.T, err error) *Trap {
	t.Helper()
	var trap *Trap
	be.True(t, errors.As(err, &trap))
	return trap
}

func TestArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	for _, c := range []struct {
		a, b int32
		op   Opcode
		want int32
	}{
		{3, 4, ADD, 7},
		{5, 1, LTE, 0},
		{1, 5, LTE, 1},
		{5, 5, LTE, 1},
		{5, 5, LT, 0},
		{-3, 2, LT, 1},
		{3, 10, SUB, -7},
		{-6, 7, MUL, -42},
		{-7, 2, DIV, -3},
		{2147483647, 1, ADD, -2147483648},
	} {
		machine, err := runGlobal(t, NewAssembler("$global", 0).Push(c.a).Push(c.b).Op(c.op, RET))
		be.Err(t, err, nil)
		be.True(t, machine.Halted())
		r, ok := machine.Result()
		be.True(t, ok)
		be.Equal(t, r, c.want)
		be.Equal(t, machine.Depth(), 0)
	}
}

func TestStackInstructions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	machine, err := runGlobal(t, NewAssembler("$global", 0).
		Push(1).Push(2).Op(XCHG).Op(DUP).Push(3).Op(POP, NOP, HALT))
	be.Err(t, err, nil)
	be.Equal(t, machine.Stack(), []int32{2, 1, 1})
	_, ok := machine.Result()
	be.True(t, !ok)
}

func TestBranches(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	for _, c := range []struct {
		a, b int32
		op   Opcode
		want []int32
	}{
		{1, 2, BNE, []int32{1}},
		{2, 2, BNE, []int32{2, 99}},
		{7, 0, BZ, []int32{7}},
		{7, 1, BZ, []int32{7, 99}},
		{7, 1, BNZ, []int32{7}},
		{7, 0, BNZ, []int32{7, 99}},
	} {
		machine, err := runGlobal(t, NewAssembler("$global", 0).
			Push(c.a).Push(c.b).Branch(c.op, "skip").Push(99).
			Label("skip").Op(HALT))
		be.Err(t, err, nil)
		be.Equal(t, machine.Stack(), c.want)
	}
}

func fibModule(t *testing.T, n int32, last Opcode) *Module {
	g, err := NewAssembler("$global", 0).Push(n).Call(1).Op(last).Function()
	be.Err(t, err, nil)
	return NewModule(g, SampleFib(1))
}

func TestFibonacci(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	for _, c := range []struct{ n, fib int32 }{
		{0, 0}, {1, 1}, {2, 1}, {9, 34}, {10, 55}, {15, 610},
	} {
		machine, err := New(fibModule(t, c.n, RET))
		be.Err(t, err, nil)
		be.Err(t, machine.Run(), nil)
		r, ok := machine.Result()
		be.True(t, ok)
		be.Equal(t, r, c.fib)
	}
}

func TestFibonacciLeavesStackBalanced(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	machine, err := New(fibModule(t, 10, HALT))
	be.Err(t, err, nil)
	maxDepth := 0
	for !machine.Halted() {
		be.Err(t, machine.Step(), nil)
		if machine.Depth() > maxDepth {
			maxDepth = machine.Depth()
		}
	}
	be.Equal(t, machine.Depth(), 1)
	be.Equal(t, machine.Stack(), []int32{55})
	f := machine.Frame()
	be.Equal(t, f.BP, uint32(0))
	be.Equal(t, f.SP, uint32(1))
	be.Equal(t, maxDepth, 11)
	be.Equal(t, machine.Step(), ErrHalted)
}

func TestSampleModule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	var out bytes.Buffer
	machine, err := New(SampleModule(), WithOutput(&out), WithTrace(true))
	be.Err(t, err, nil)
	be.Err(t, machine.Run(), nil)
	be.True(t, machine.Halted())
	be.True(t, machine.Trap() == nil)
	be.Equal(t, out.String(), "0\n1\n1\n2\n3\n5\n8\n13\n21\n34\n")
	be.Equal(t, machine.Depth(), 1)
	be.Equal(t, len(machine.Stack()), 0)
}

func TestUnknownOpcode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	bad := &Function{Name: "$global", Body: []byte{byte(PUSH), 1, 0, 0, 0, 0xEE}}
	machine, err := New(NewModule(bad))
	be.Err(t, err, nil)
	err = machine.Run()
	trap := trapOf(t, err)
	be.Equal(t, trap.Kind, UnknownOpcode)
	be.Equal(t, trap.Opcode, Opcode(0xEE))
	be.Equal(t, trap.PC, uint32(5))
	be.Equal(t, trap.Function, "$global")
	be.Equal(t, trap.Stack, []int32{1})
	be.Equal(t, len(trap.Memory), 20)
	be.True(t, machine.Halted())
	be.Equal(t, machine.Step(), error(trap))
	var dump strings.Builder
	trap.Dump(&dump)
	be.True(t, strings.Contains(dump.String(), "unknown opcode"))
	be.True(t, strings.Contains(dump.String(), "EEh"))
	//
	// other machines are unaffected
	var out bytes.Buffer
	other, err := New(SampleModule(), WithOutput(&out))
	be.Err(t, err, nil)
	be.Err(t, other.Run(), nil)
	be.Equal(t, strings.Count(out.String(), "\n"), 10)
}

func TestTraps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	loop := NewAssembler("r", 0).Call(1).Op(RET).MustFunction()
	for _, c := range []struct {
		name   string
		global *Assembler
		more   []*Function
		kind   TrapKind
	}{
		{"add on empty stack", NewAssembler("$global", 0).Push(1).Op(ADD), nil, StackUnderflow},
		{"pop on empty stack", NewAssembler("$global", 0).Op(POP), nil, StackUnderflow},
		{"branch on empty stack", NewAssembler("$global", 0).Branch(BZ, "x").Label("x").Op(HALT), nil, StackUnderflow},
		{"missing argument", NewAssembler("$global", 0).Call(1).Op(HALT), []*Function{SampleFib(1)}, StackUnderflow},
		{"bad index", NewAssembler("$global", 0).Call(7).Op(HALT), nil, BadFunctionIndex},
		{"endless recursion", NewAssembler("$global", 0).Call(1).Op(HALT), []*Function{loop}, CallStackOverflow},
		{"division", NewAssembler("$global", 0).Push(1).Push(0).Op(DIV), nil, DivideByZero},
		{"panic", NewAssembler("$global", 0).Op(PANIC), nil, SoftwarePanic},
		{"branch to self", NewAssembler("$global", 0).Push(0).Label("self").Branch(BZ, "self"), nil, PCNotAdvanced},
		{"running off the end", NewAssembler("$global", 0).Push(1), nil, PCOutOfBounds},
	} {
		machine, err := runGlobal(t, c.global, c.more...)
		trap := trapOf(t, err)
		t.Logf("%s: %v", c.name, trap)
		be.Equal(t, trap.Kind, c.kind)
		be.True(t, machine.Halted())
		be.True(t, machine.Flags()&Trapped != 0)
	}
}

func TestCallStackOverflowDepth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	g := NewAssembler("$global", 0).Call(1).Op(HALT).MustFunction()
	r := NewAssembler("r", 0).Call(1).Op(RET).MustFunction()
	machine, err := New(NewModule(g, r), WithMaxFrames(8))
	be.Err(t, err, nil)
	trap := trapOf(t, machine.Run())
	be.Equal(t, trap.Kind, CallStackOverflow)
	be.Equal(t, trap.Depth, 8)
	be.Equal(t, len(machine.Frames()), 8)
}

func TestTruncatedInstruction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	machine, err := New(NewModule(&Function{Name: "$global", Body: []byte{byte(PUSH), 1, 0}}))
	be.Err(t, err, nil)
	be.Equal(t, trapOf(t, machine.Step()).Kind, TruncatedInstruction)
}

func TestMemoryBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	g := NewAssembler("$global", 0).Push(1).Push(2).Push(3).Op(HALT).MustFunction()
	machine, err := New(NewModule(g), WithMemorySize(2))
	be.Err(t, err, nil)
	trap := trapOf(t, machine.Run())
	be.Equal(t, trap.Kind, AddressOutOfBounds)
	be.Equal(t, trap.Memory, []int32{1, 2})
}

func TestBreakpoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	machine, err := runGlobal(t, NewAssembler("$global", 0).Push(1).Op(BRK).Push(2).Op(ADD, RET))
	be.Err(t, err, nil)
	be.True(t, machine.AtBreakpoint())
	be.True(t, !machine.Halted())
	be.Equal(t, machine.Stack(), []int32{1})
	be.Equal(t, machine.Step(), ErrBreakpoint)
	machine.Resume()
	be.Err(t, machine.Run(), nil)
	r, ok := machine.Result()
	be.True(t, ok)
	be.Equal(t, r, int32(3))
}

func TestNativeArguments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	sum := NativeFunction("sum", 3, func(machine *VM) error {
		var s int32
		for i := 0; i < 3; i++ {
			w, err := machine.Arg(i)
			if err != nil {
				return err
			}
			s = s*10 + w
		}
		if err := machine.Drop(3); err != nil {
			return err
		}
		return machine.Push(s)
	})
	machine, err := runGlobal(t, NewAssembler("$global", 0).Push(1).Push(2).Push(3).Call(1).Op(RET), sum)
	be.Err(t, err, nil)
	r, _ := machine.Result()
	be.Equal(t, r, int32(123))
	//
	greedy := NativeFunction("greedy", 1, func(machine *VM) error {
		_, err := machine.Arg(1)
		return err
	})
	_, err = runGlobal(t, NewAssembler("$global", 0).Push(1).Call(1).Op(RET), greedy)
	be.Equal(t, trapOf(t, err).Kind, BadArgument)
	//
	failing := NativeFunction("failing", 0, func(*VM) error {
		return errors.New("boom")
	})
	_, err = runGlobal(t, NewAssembler("$global", 0).Call(1).Op(RET), failing)
	trap := trapOf(t, err)
	be.Equal(t, trap.Kind, SoftwarePanic)
	be.True(t, strings.Contains(trap.Reason, "boom"))
}

func TestNativeKeepsHelperTrap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	wrapping := NativeFunction("wrapping", 1, func(machine *VM) error {
		if err := machine.Drop(2); err != nil {
			return fmt.Errorf("wrapping: %w", err)
		}
		return nil
	})
	machine, err := runGlobal(t, NewAssembler("$global", 0).Push(1).Call(1).Op(RET), wrapping)
	be.Equal(t, trapOf(t, err).Kind, BadArgument)
	be.Equal(t, machine.Trap().Kind, BadArgument)
	//
	careless := NativeFunction("careless", 1, func(machine *VM) error {
		machine.Arg(5)
		return nil
	})
	machine, err = runGlobal(t, NewAssembler("$global", 0).Push(1).Call(1).Op(RET), careless)
	be.Equal(t, trapOf(t, err).Kind, BadArgument)
	be.True(t, machine.Halted())
	_, ok := machine.Result()
	be.True(t, !ok)
}

func TestNewRejectsBadModules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	_, err := New(nil)
	be.Err(t, err)
	_, err = New(NewModule())
	be.Err(t, err)
	_, err = New(NewModule(SampleFib(0)))
	be.Err(t, err)
	_, err = New(NewModule(&Function{Name: "n", Flags: FlagNative}))
	be.Err(t, err)
	g := NewAssembler("$global", 0).Op(RET).MustFunction()
	_, err = New(NewModule(g, &Function{Name: "neg", NumArgs: -1, Body: []byte{byte(RET)}}))
	be.Err(t, err)
}

func TestModuleLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	machine, err := New(SampleModule())
	be.Err(t, err, nil)
	idx, fn := machine.Module().Lookup("fib")
	be.Equal(t, idx, SampleFibIndex)
	be.Equal(t, fn.NumArgs, 1)
	idx, fn = machine.Module().Lookup("nope")
	be.Equal(t, idx, -1)
	be.True(t, fn == nil)
}
