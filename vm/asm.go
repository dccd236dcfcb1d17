package vm

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Assembler builds the body of a function. Calls may be chained:
//
//     fn, err := vm.NewAssembler("add", 2).Op(ADD, RET).Function()
//
// Branches refer to labels, which may be defined before or after the branch.
// The first error sticks and is reported by Function.
type Assembler struct {
	name    string
	numArgs int
	code    []byte
	labels  map[string]int
	fixups  []fixup
	err     error
}

type fixup struct {
	at    int // offset of the branch instruction
	label string
}

// NewAssembler starts a function.
func NewAssembler(name string, numArgs int) *Assembler {
	return &Assembler{
		name:    name,
		numArgs: numArgs,
		labels:  make(map[string]int),
	}
}

func (a *Assembler) fail(format string, args ...interface{}) *Assembler {
	if a.err == nil {
		a.err = fmt.Errorf("assembling %s at %04Xh: %s", a.name, len(a.code), fmt.Sprintf(format, args...))
	}
	return a
}

// Op appends instructions without operand.
func (a *Assembler) Op(ops ...Opcode) *Assembler {
	for _, op := range ops {
		if !op.Valid() || op.Size() != 1 {
			return a.fail("%s needs an operand", op)
		}
		a.code = append(a.code, byte(op))
	}
	return a
}

// Push appends a PUSH of a constant.
func (a *Assembler) Push(w int32) *Assembler {
	a.code = append(a.code, byte(PUSH))
	a.code = binary.LittleEndian.AppendUint32(a.code, uint32(w))
	return a
}

// Call appends a CALL of function #index.
func (a *Assembler) Call(index int) *Assembler {
	if index < 0 || index > math.MaxInt32 {
		return a.fail("bad function index %d", index)
	}
	a.code = append(a.code, byte(CALL))
	a.code = binary.LittleEndian.AppendUint32(a.code, uint32(index))
	return a
}

// Branch appends a branch instruction (BZ, BNZ or BNE) to a label.
func (a *Assembler) Branch(op Opcode, label string) *Assembler {
	if !op.IsBranch() {
		return a.fail("%s is not a branch", op)
	}
	a.fixups = append(a.fixups, fixup{at: len(a.code), label: label})
	a.code = append(a.code, byte(op), 0)
	return a
}

// Label names the current position.
func (a *Assembler) Label(name string) *Assembler {
	if _, dup := a.labels[name]; dup {
		return a.fail("label %s defined twice", name)
	}
	a.labels[name] = len(a.code)
	return a
}

// Function resolves branch targets and returns the assembled function.
func (a *Assembler) Function() (*Function, error) {
	for _, fx := range a.fixups {
		target, ok := a.labels[fx.label]
		if !ok {
			return nil, fmt.Errorf("assembling %s: undefined label %s", a.name, fx.label)
		}
		rel := target - (fx.at + 2)
		if rel < math.MinInt8 || rel > math.MaxInt8 {
			return nil, fmt.Errorf("assembling %s: branch at %04Xh to %s out of range (%d)", a.name, fx.at, fx.label, rel)
		}
		a.code[fx.at+1] = byte(int8(rel))
	}
	if a.err != nil {
		return nil, a.err
	}
	return &Function{Name: a.name, NumArgs: a.numArgs, Body: a.code}, nil
}

// MustFunction is like Function, but panics on error. Use it for statically
// known code only.
func (a *Assembler) MustFunction() *Function {
	fn, err := a.Function()
	if err != nil {
		panic(err)
	}
	return fn
}
