package vm

// Function indices of the sample module.
const (
	SampleGlobalIndex = iota
	SampleMainIndex
	SampleFibIndex
	SamplePrintlnIndex
)

// SampleFib assembles a recursive Fibonacci function with fib(0) = 0 and
// fib(1) = 1. It expects to be function #fibIndex of its module.
func SampleFib(fibIndex int) *Function {
	return NewAssembler("fib", 1).
		Op(DUP).Push(1).Op(LTE).
		Branch(BZ, "recurse").
		Op(RET). // fib(x) = x for x <= 1
		Label("recurse").
		Op(DUP).Push(-2).Op(ADD).Call(fibIndex).
		Op(XCHG).Push(-1).Op(ADD).Call(fibIndex).
		Op(ADD, RET).
		MustFunction()
}

// SampleModule returns a module which prints fib(0) to fib(9):
//
//     #0 $global   CALL main; HALT
//     #1 main      for i := 0; i < 10; i++ { println(fib(i)) }
//     #2 fib       recursive Fibonacci
//     #3 println   native
//
func SampleModule() *Module {
	global := NewAssembler("$global", 0).
		Call(SampleMainIndex).Op(HALT).
		MustFunction()
	main := NewAssembler("main", 0).
		Push(0).
		Label("loop").
		Op(DUP).Call(SampleFibIndex).Call(SamplePrintlnIndex).
		Push(1).Op(ADD).
		Op(DUP).Push(10).Op(LT).
		Branch(BNZ, "loop").
		Op(POP, RET).
		MustFunction()
	return NewModule(global, main, SampleFib(SampleFibIndex), NativeFunction("println", 1, Println))
}
