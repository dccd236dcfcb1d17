package vm

import (
	"encoding/binary"
	"fmt"
)

// Opcode is the first byte of an instruction.
type Opcode byte

// Opcodes, in order of their byte values.
const (
	NOP Opcode = iota
	PUSH
	POP
	DUP
	XCHG
	CALL
	RET
	ADD
	SUB
	MUL
	DIV
	BZ
	BNZ
	BNE
	LT
	LTE
	HALT
	PANIC
	BRK
	numOpcodes
)

var opcodeNames = [numOpcodes]string{
	"NOP", "PUSH", "POP", "DUP", "XCHG", "CALL", "RET", "ADD", "SUB", "MUL",
	"DIV", "BZ", "BNZ", "BNE", "LT", "LTE", "HALT", "PANIC", "BRK",
}

// Valid is a predicate: is op a known opcode?
func (op Opcode) Valid() bool {
	return op < numOpcodes
}

func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("?%02Xh", byte(op))
	}
	return opcodeNames[op]
}

// Size returns the length of an instruction in bytes, including its operand.
func (op Opcode) Size() int {
	switch op {
	case PUSH, CALL:
		return 5
	case BZ, BNZ, BNE:
		return 2
	}
	return 1
}

// IsBranch is a predicate: does op carry a relative branch offset?
func (op Opcode) IsBranch() bool {
	return op == BZ || op == BNZ || op == BNE
}

// --- Decoding --------------------------------------------------------------

// Instruction is a decoded instruction.
type Instruction struct {
	Offset  int    // position within the function body
	Op      Opcode
	Operand int32  // immediate, call index or branch offset
	Size    int    // bytes consumed
	Bad     string // non-empty if the instruction could not be decoded
}

// Target returns the destination of a branch instruction.
func (ins Instruction) Target() int {
	return ins.Offset + ins.Size + int(ins.Operand)
}

func (ins Instruction) String() string {
	if ins.Bad != "" {
		return fmt.Sprintf("%04X  %-6s %s", ins.Offset, ins.Op, ins.Bad)
	}
	switch {
	case ins.Op == PUSH:
		return fmt.Sprintf("%04X  %-6s %d", ins.Offset, ins.Op, ins.Operand)
	case ins.Op == CALL:
		return fmt.Sprintf("%04X  %-6s #%d", ins.Offset, ins.Op, ins.Operand)
	case ins.Op.IsBranch():
		return fmt.Sprintf("%04X  %-6s %+d (-> %04X)", ins.Offset, ins.Op, ins.Operand, ins.Target())
	}
	return fmt.Sprintf("%04X  %s", ins.Offset, ins.Op)
}

// decode decodes the instruction at offset pc of body.
func decode(body []byte, pc int) Instruction {
	ins := Instruction{Offset: pc, Size: 1}
	if pc < 0 || pc >= len(body) {
		ins.Bad = "outside of function body"
		return ins
	}
	ins.Op = Opcode(body[pc])
	if !ins.Op.Valid() {
		ins.Bad = "unknown opcode"
		return ins
	}
	ins.Size = ins.Op.Size()
	if pc+ins.Size > len(body) {
		ins.Bad = "truncated instruction"
		ins.Size = len(body) - pc
		return ins
	}
	switch ins.Size {
	case 5:
		ins.Operand = int32(binary.LittleEndian.Uint32(body[pc+1:]))
	case 2:
		ins.Operand = int32(int8(body[pc+1]))
	}
	return ins
}

// Disassemble decodes the body of an interpreted function. Decoding goes on
// after bad instructions, one byte at a time.
func Disassemble(fn *Function) []Instruction {
	if fn == nil || fn.IsNative() {
		return nil
	}
	var code []Instruction
	for pc := 0; pc < len(fn.Body); {
		ins := decode(fn.Body, pc)
		code = append(code, ins)
		pc += ins.Size
	}
	return code
}
