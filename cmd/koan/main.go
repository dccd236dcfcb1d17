package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/koan/ast"
	"github.com/npillmayer/koan/eval"
	"github.com/npillmayer/koan/parser"
	"github.com/npillmayer/koan/scanner"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
)

var traceKeys = []string{
	"koan.cli", "koan.scanner", "koan.parser", "koan.runtime", "koan.eval", "koan.vm",
}

func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	initf := flag.String("init", "", "Initial load for the REPL")
	step := flag.Bool("step", false, "Start the VM in the debugger")
	flag.Usage = usage
	flag.Parse()
	setTraceLevel(tracing.TraceLevelFromString(*tlevel))
	tracer().Infof("Trace level is %s", *tlevel)
	//
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	var err error
	switch cmd := args[0]; cmd {
	case "run", "tokens", "ast":
		if len(args) != 2 {
			usage()
			os.Exit(1)
		}
		err = runFileCommand(cmd, args[1])
	case "repl":
		err = startREPL(*initf, gconf.GetBool("koan-show-tokens"))
	case "vm":
		err = runSampleVM(*step, gconf.GetBool("koan-vm-trace"))
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: koan [flags] run|tokens|ast <file>\n")
	fmt.Fprintf(os.Stderr, "       koan [flags] repl|vm\n")
	flag.PrintDefaults()
}

func setTraceLevel(level tracing.TraceLevel) {
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func runFileCommand(cmd string, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch cmd {
	case "tokens":
		return printTokens(src)
	case "ast":
		m, err := parser.Parse(src)
		if err != nil {
			return err
		}
		pterm.Println(ast.SExpr(m))
		renderTree(m)
		return nil
	}
	result, err := eval.Run(src, os.Stdout)
	if err != nil {
		return err
	}
	if !result.IsNone() {
		pterm.Info.Println(result.String())
	}
	return nil
}

func printTokens(src []byte) error {
	tokens, err := scanner.Tokenize(src)
	pterm.DefaultTable.WithHasHeader().WithData(tokenTable(tokens)).Render()
	return err
}

func tokenTable(tokens []scanner.Token) pterm.TableData {
	data := pterm.TableData{{"pos", "kind", "class", "text"}}
	for _, t := range tokens {
		data = append(data, []string{t.Pos.String(), t.Kind.String(), tokenClass(t.Kind), t.Text})
	}
	return data
}

func tokenClass(tt scanner.TokType) string {
	switch {
	case tt.IsKeyword():
		return "keyword"
	case tt.IsError():
		return "error"
	case tt == scanner.IntegerLiteral || tt == scanner.StringLiteral:
		return "literal"
	case tt == scanner.Identifier:
		return "name"
	}
	return ""
}

// renderTree displays a syntax tree on a terminal.
func renderTree(n ast.Node) {
	var ll pterm.LeveledList
	ast.Walk(n, func(node ast.Node, depth int) bool {
		ll = append(ll, pterm.LeveledListItem{Level: depth, Text: nodeLabel(node)})
		return true
	})
	tracer().Debugf("|ll| = %d", len(ll))
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
}

func nodeLabel(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Function:
		return fmt.Sprintf("function %s : %s", n.Name.Text, n.ReturnType.Text)
	case *ast.Declaration:
		return fmt.Sprintf("var %s : %s", n.Name.Text, n.Type.Text)
	case *ast.Identifier:
		return n.Name()
	case *ast.Literal:
		if n.IsString() {
			return fmt.Sprintf("%q", n.Token.Text)
		}
		return n.Token.Text
	case *ast.Expression:
		return n.Op.Text
	}
	return n.Kind().String()
}
