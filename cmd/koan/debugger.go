package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/koan/vm"
	"github.com/pterm/pterm"
)

func runSampleVM(step bool, trace bool) error {
	machine, err := vm.New(vm.SampleModule(), vm.WithOutput(os.Stdout), vm.WithTrace(trace))
	if err != nil {
		return err
	}
	if step {
		return debug(machine)
	}
	if err := machine.Run(); err != nil {
		reportTrap(err)
		return err
	}
	if r, ok := machine.Result(); ok {
		pterm.Info.Printf("result %d\n", r)
	}
	return nil
}

func reportTrap(err error) {
	if t, ok := err.(*vm.Trap); ok {
		t.Dump(os.Stderr)
	}
}

// debug runs an interactive single-step debugger on a VM.
func debug(machine *vm.VM) error {
	rl, err := readline.New("vm> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	pterm.Info.Println("VM debugger, type 'help' for commands")
	showInstruction(machine)
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			return nil
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			args = []string{"step"}
		}
		switch args[0] {
		case "s", "step":
			n := 1
			if len(args) > 1 {
				n, _ = strconv.Atoi(args[1])
			}
			for i := 0; i < n; i++ {
				if err := machine.Step(); err != nil {
					pterm.Error.Println(err.Error())
					reportTrap(err)
					break
				}
			}
			showInstruction(machine)
		case "c", "continue":
			machine.Resume()
			if err := machine.Run(); err != nil {
				pterm.Error.Println(err.Error())
				reportTrap(err)
			}
			showInstruction(machine)
		case "f", "frames":
			for i, f := range machine.Frames() {
				pterm.Printf("#%-3d %-10s pc %04Xh  bp %4d  sp %4d\n", i, f.Function.Name, f.PC, f.BP, f.SP)
			}
		case "st", "stack":
			pterm.Println(fmt.Sprint(machine.Stack()))
		case "m", "mem":
			n := 16
			if len(args) > 1 {
				n, _ = strconv.Atoi(args[1])
			}
			mem := machine.Memory()
			if n > len(mem) || n < 0 {
				n = len(mem)
			}
			pterm.Println(fmt.Sprint(mem[:n]))
		case "d", "disasm":
			f := machine.Frame()
			if f.Function == nil {
				break
			}
			for _, ins := range vm.Disassemble(f.Function) {
				marker := "  "
				if ins.Offset == int(f.PC) {
					marker = "=>"
				}
				pterm.Println(marker + " " + ins.String())
			}
		case "q", "quit":
			return nil
		default:
			pterm.Println("commands: step [n], continue, frames, stack, mem [n], disasm, quit")
		}
	}
}

func showInstruction(machine *vm.VM) {
	switch {
	case machine.Trap() != nil:
		pterm.Error.Println("trapped: " + machine.Trap().Kind.String())
		return
	case machine.Halted():
		if r, ok := machine.Result(); ok {
			pterm.Info.Printf("halted, result %d\n", r)
		} else {
			pterm.Info.Println("halted")
		}
		return
	}
	f := machine.Frame()
	if f.Function.IsNative() {
		pterm.Printf("%-10s native call, args %v\n", f.Function.Name, machine.Stack())
		return
	}
	for _, ins := range vm.Disassemble(f.Function) {
		if ins.Offset == int(f.PC) {
			bp := ""
			if machine.AtBreakpoint() {
				bp = "  (breakpoint)"
			}
			pterm.Printf("%-10s %s   stack %v%s\n", f.Function.Name, ins, machine.Stack(), bp)
			return
		}
	}
}
