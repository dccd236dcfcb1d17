package main

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/koan/eval"
	"github.com/npillmayer/koan/parser"
	"github.com/npillmayer/koan/runtime"
	"github.com/npillmayer/koan/scanner"
	"github.com/pterm/pterm"
)

const (
	prompt     = "koan> "
	contPrompt = "....> "
)

// Intp is our interpreter object
type Intp struct {
	ev         *eval.Evaluator
	repl       *readline.Instance
	showTokens bool
	pending    strings.Builder // input of an incomplete statement
}

func startREPL(initf string, showTokens bool) error {
	repl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer repl.Close()
	intp := &Intp{
		ev:         eval.New(eval.WithOutput(os.Stdout)),
		repl:       repl,
		showTokens: showTokens,
	}
	pterm.Info.Println("Welcome to Koan")
	tracer().Infof("Quit with <ctrl>D")
	intp.loadInitFile(initf)
	intp.REPL()
	return nil
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	if _, err := intp.Eval(string(src)); err != nil {
		pterm.Error.Println(filename + ": " + err.Error())
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if strings.TrimSpace(line) == "" {
			if intp.pending.Len() > 0 {
				pterm.Error.Println("incomplete input discarded")
				intp.pending.Reset()
				intp.repl.SetPrompt(prompt)
			}
			continue
		}
		if intp.pending.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			if quit := intp.command(strings.TrimSpace(line)); quit {
				break
			}
			continue
		}
		intp.pending.WriteString(line)
		intp.pending.WriteByte('\n')
		v, err := intp.Eval(intp.pending.String())
		var d *parser.Diagnostic
		if errors.As(err, &d) && d.Actual.Kind == scanner.EOF {
			intp.repl.SetPrompt(contPrompt) // statement continues on next line
			continue
		}
		intp.pending.Reset()
		intp.repl.SetPrompt(prompt)
		if err != nil {
			pterm.Error.Println(err.Error())
		} else if !v.IsNone() {
			pterm.Info.Println(v.String())
		}
	}
	println("Good bye!")
}

// Eval parses and evaluates input in the global activation. Definitions
// persist from one input to the next.
func (intp *Intp) Eval(input string) (runtime.Value, error) {
	if intp.showTokens {
		tokens, _ := scanner.Tokenize([]byte(input))
		for _, t := range tokens {
			pterm.Println(t.String())
		}
	}
	m, err := parser.Parse([]byte(input))
	if err != nil {
		return runtime.None(), err
	}
	return intp.ev.EvalModule(m)
}

// command executes REPL commands, which start with a colon.
func (intp *Intp) command(line string) bool {
	args := strings.Fields(line)
	switch args[0] {
	case ":q", ":quit":
		return true
	case ":vars":
		globals := intp.ev.Stack().Globals().Base()
		w := bufio.NewWriter(os.Stdout)
		globals.Each(func(sym *runtime.Symbol) {
			w.WriteString(sym.Name + " = " + sym.Value.String() + "\n")
		})
		w.Flush()
	case ":ast":
		m, err := parser.Parse([]byte(strings.TrimPrefix(line, args[0])))
		if err != nil {
			pterm.Error.Println(err.Error())
			return false
		}
		renderTree(m)
	case ":tokens":
		intp.showTokens = !intp.showTokens
		pterm.Info.Printf("token listing %v\n", intp.showTokens)
	default:
		pterm.Error.Println("unknown command " + args[0] + ", try :vars :ast :tokens :quit")
	}
	return false
}
