package ast

import (
	"strconv"
	"strings"

	"github.com/cnf/structhash"
)

// SExpr renders a tree as an S-expression, e.g.
//
//     (function main () uint (block (return (+ 1 2))))
//
func SExpr(n Node) string {
	var b strings.Builder
	writeSExpr(&b, n)
	return b.String()
}

func writeSExpr(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("nil")
	case *Identifier:
		b.WriteString(n.Token.Text)
	case *Literal:
		if n.IsString() {
			b.WriteString(strconv.Quote(n.Token.Text))
		} else {
			b.WriteString(n.Token.Text)
		}
	case *Module:
		list(b, "module", n.Statements)
	case *Block:
		list(b, "block", n.Statements)
	case *Function:
		b.WriteString("(function ")
		b.WriteString(n.Name.Text)
		b.WriteString(" (")
		for i, p := range n.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p.Name.Text + ":" + p.Type.Text)
		}
		b.WriteString(") ")
		b.WriteString(n.ReturnType.Text)
		b.WriteByte(' ')
		writeSExpr(b, n.Body)
		b.WriteByte(')')
	case *FunctionCall:
		list(b, "call", append([]Node{n.Callee}, n.Args...))
	case *Return:
		list(b, "return", nonNil(n.Value))
	case *If:
		list(b, "if", nonNil(n.Cond, n.Then, n.Else))
	case *Declaration:
		b.WriteString("(var " + n.Name.Text + " " + n.Type.Text)
		if n.Init != nil {
			b.WriteByte(' ')
			writeSExpr(b, n.Init)
		}
		b.WriteByte(')')
	case *Expression:
		list(b, n.Op.Text, []Node{n.Left, n.Right})
	}
}

func list(b *strings.Builder, head string, nodes []Node) {
	b.WriteByte('(')
	b.WriteString(head)
	for _, n := range nodes {
		b.WriteByte(' ')
		writeSExpr(b, n)
	}
	b.WriteByte(')')
}

// --- Fingerprints ----------------------------------------------------------

// shape is the hashable image of a node.
type shape struct {
	Kind     string
	Text     []string
	Line     int
	Column   int
	Children []shape
}

func shapeOf(n Node) shape {
	sh := shape{Kind: n.Kind().String(), Line: n.Pos().Line, Column: n.Pos().Column}
	switch n := n.(type) {
	case *Function:
		sh.Text = []string{n.Name.Text, n.ReturnType.Text}
	case *Declaration:
		sh.Text = []string{n.Name.Text, n.Type.Text}
	case *Identifier:
		sh.Text = []string{n.Token.Text}
	case *Literal:
		sh.Text = []string{n.Token.Kind.String(), n.Token.Text}
	case *Expression:
		sh.Text = []string{n.Op.Text}
	}
	for _, ch := range Children(n) {
		sh.Children = append(sh.Children, shapeOf(ch))
	}
	return sh
}

// Fingerprint returns a structural hash of the tree rooted at n, covering
// node kinds, token texts and positions. Equal trees have equal fingerprints.
func Fingerprint(n Node) (string, error) {
	if n == nil {
		return structhash.Hash(shape{}, 1)
	}
	return structhash.Hash(shapeOf(n), 1)
}
