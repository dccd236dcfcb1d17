package parser

import (
	"fmt"
	"strings"

	"github.com/npillmayer/koan"
	"github.com/npillmayer/koan/scanner"
)

// Diagnostic describes a syntax error: what the parser expected and what it
// found instead. For lexical errors, Err holds the *scanner.Error.
type Diagnostic struct {
	Expected []scanner.TokType
	Actual   scanner.Token
	Pos      koan.Position
	Msg      string
	Err      error
}

func (d *Diagnostic) Error() string {
	if d.Err != nil {
		return d.Err.Error()
	}
	var b strings.Builder
	b.WriteString(d.Pos.String())
	b.WriteString(": ")
	if d.Msg != "" {
		b.WriteString(d.Msg)
	} else {
		b.WriteString("syntax error")
	}
	if len(d.Expected) > 0 {
		exp := make([]string, len(d.Expected))
		for i, tt := range d.Expected {
			exp[i] = fmt.Sprintf("%q", tt.String())
		}
		fmt.Fprintf(&b, ", expected %s", strings.Join(exp, " or "))
	}
	if d.Actual.Kind == scanner.EOF {
		b.WriteString(", found end of input")
	} else {
		fmt.Fprintf(&b, ", found %q", d.Actual.Text)
	}
	return b.String()
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}
