package vm

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestAssembleFib(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	fib := SampleFib(2)
	be.Equal(t, fib.Body[:11], []byte{
		byte(DUP), byte(PUSH), 1, 0, 0, 0, byte(LTE), byte(BZ), 1, byte(RET), byte(DUP),
	})
	be.Equal(t, len(fib.Body), 36)
	be.Equal(t, fib.Body[18], byte(2)) // call index
}

func TestAssemblerErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	_, err := NewAssembler("f", 0).Branch(BZ, "nowhere").Function()
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "undefined label"))
	//
	_, err = NewAssembler("f", 0).Label("a").Op(NOP).Label("a").Function()
	be.Err(t, err)
	//
	_, err = NewAssembler("f", 0).Op(PUSH).Function()
	be.Err(t, err)
	//
	_, err = NewAssembler("f", 0).Branch(ADD, "x").Label("x").Function()
	be.Err(t, err)
	//
	far := NewAssembler("f", 0).Label("top")
	for i := 0; i < 130; i++ {
		far.Op(NOP)
	}
	_, err = far.Branch(BNZ, "top").Function()
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "out of range"))
	//
	near := NewAssembler("f", 0).Label("top")
	for i := 0; i < 126; i++ {
		near.Op(NOP)
	}
	fn, err := near.Branch(BNZ, "top").Function()
	be.Err(t, err, nil)
	be.Equal(t, int8(fn.Body[127]), int8(-128))
}

func TestDisassemble(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.vm")
	defer teardown()
	//
	code := Disassemble(SampleFib(2))
	var lines []string
	for _, ins := range code {
		lines = append(lines, ins.String())
	}
	be.Equal(t, lines[:6], []string{
		"0000  DUP",
		"0001  PUSH   1",
		"0006  LTE",
		"0007  BZ     +1 (-> 000A)",
		"0009  RET",
		"000A  DUP",
	})
	be.Equal(t, code[6].Operand, int32(-2))
	be.Equal(t, lines[8], "0011  CALL   #2")
	//
	bad := Disassemble(&Function{Body: []byte{0xEE, byte(NOP), byte(PUSH), 1}})
	be.Equal(t, len(bad), 3)
	be.Equal(t, bad[0].String(), "0000  ?EEh   unknown opcode")
	be.Equal(t, bad[1].Op, NOP)
	be.Equal(t, bad[2].Bad, "truncated instruction")
	//
	be.True(t, Disassemble(NativeFunction("n", 0, Println)) == nil)
}
