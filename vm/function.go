package vm

import "fmt"

// Flags qualify functions.
type Flags uint8

// FlagNative marks functions implemented in Go.
const FlagNative Flags = 1

// NativeFunc is a host function. It finds its arguments with vm.Arg and has
// to remove them with vm.Drop. If it leaves a word on its stack, this word is
// returned to the caller.
type NativeFunc func(vm *VM) error

// Function is either a bytecode body or a native function.
type Function struct {
	Name    string
	NumArgs int
	Flags   Flags
	Body    []byte
	Native  NativeFunc
}

// NativeFunction creates a function implemented by fn.
func NativeFunction(name string, numArgs int, fn NativeFunc) *Function {
	return &Function{Name: name, NumArgs: numArgs, Flags: FlagNative, Native: fn}
}

// IsNative is a predicate: is this a host function?
func (f *Function) IsNative() bool {
	return f.Flags&FlagNative != 0
}

func (f *Function) String() string {
	if f.IsNative() {
		return fmt.Sprintf("<native %s/%d>", f.Name, f.NumArgs)
	}
	return fmt.Sprintf("<function %s/%d, %d bytes>", f.Name, f.NumArgs, len(f.Body))
}

// Module is a table of functions, addressed by index. Function 0 is the
// entry point.
type Module struct {
	Functions []*Function
}

// NewModule creates a module from functions, in index order.
func NewModule(fns ...*Function) *Module {
	return &Module{Functions: fns}
}

// Lookup finds a function by name. It returns -1 if there is none.
func (m *Module) Lookup(name string) (int, *Function) {
	for i, f := range m.Functions {
		if f.Name == name {
			return i, f
		}
	}
	return -1, nil
}
