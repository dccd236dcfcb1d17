package ast

import (
	"fmt"

	"github.com/npillmayer/koan"
	"github.com/npillmayer/koan/scanner"
)

// NodeKind enumerates the types of syntax tree nodes.
type NodeKind int8

// Node kinds
const (
	ModuleNode NodeKind = iota
	FunctionNode
	FunctionCallNode
	ReturnNode
	BlockNode
	IfNode
	DeclarationNode
	IdentifierNode
	LiteralNode
	ExpressionNode
)

var kindNames = [...]string{
	"module", "function", "call", "return", "block", "if",
	"var", "identifier", "literal", "expression",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("nodekind(%d)", int(k))
	}
	return kindNames[k]
}

// Node is the common interface of all syntax tree nodes.
type Node interface {
	Kind() NodeKind
	Pos() koan.Position
}

// Module is the root of a syntax tree.
type Module struct {
	Statements []Node
}

// Function is a function declaration.
type Function struct {
	Keyword    scanner.Token // 'function'
	Name       scanner.Token
	Params     []*Declaration
	ReturnType scanner.Token
	Body       *Block
}

// FunctionCall applies a callee expression to arguments.
type FunctionCall struct {
	Callee Node
	Paren  scanner.Token // opening parenthesis
	Args   []Node
}

// Return is a return statement. Value is nil for a bare 'return;'.
type Return struct {
	Keyword scanner.Token
	Value   Node
}

// Block is a brace-delimited statement list, opening a new scope.
type Block struct {
	LBrace     scanner.Token
	Statements []Node
}

// If is a conditional statement. Else is nil if absent.
type If struct {
	Keyword scanner.Token
	Cond    Node
	Then    Node
	Else    Node
}

// Declaration is a typed name, either a function parameter or a 'var'
// statement. Init is nil if there is no initializer.
type Declaration struct {
	Name scanner.Token
	Type scanner.Token
	Init Node
}

// Identifier references a name.
type Identifier struct {
	Token scanner.Token
}

// Literal is an integer or string literal.
type Literal struct {
	Token scanner.Token
}

// Expression is a binary operation. Op holds the operator token.
type Expression struct {
	Op    scanner.Token
	Left  Node
	Right Node
}

// Name returns the identifier's text.
func (id *Identifier) Name() string { return id.Token.Text }

// IsString is a predicate: is this a string literal?
func (l *Literal) IsString() bool { return l.Token.Kind == scanner.StringLiteral }

func (*Module) Kind() NodeKind       { return ModuleNode }
func (*Function) Kind() NodeKind     { return FunctionNode }
func (*FunctionCall) Kind() NodeKind { return FunctionCallNode }
func (*Return) Kind() NodeKind       { return ReturnNode }
func (*Block) Kind() NodeKind        { return BlockNode }
func (*If) Kind() NodeKind           { return IfNode }
func (*Declaration) Kind() NodeKind  { return DeclarationNode }
func (*Identifier) Kind() NodeKind   { return IdentifierNode }
func (*Literal) Kind() NodeKind      { return LiteralNode }
func (*Expression) Kind() NodeKind   { return ExpressionNode }

// Pos returns the position of the first statement, or line 1 for an empty module.
func (m *Module) Pos() koan.Position {
	if len(m.Statements) > 0 {
		return m.Statements[0].Pos()
	}
	return koan.Position{Line: 1, Column: 1}
}

func (f *Function) Pos() koan.Position     { return f.Keyword.Pos }
func (c *FunctionCall) Pos() koan.Position { return c.Callee.Pos() }
func (r *Return) Pos() koan.Position       { return r.Keyword.Pos }
func (b *Block) Pos() koan.Position        { return b.LBrace.Pos }
func (i *If) Pos() koan.Position           { return i.Keyword.Pos }
func (d *Declaration) Pos() koan.Position  { return d.Name.Pos }
func (id *Identifier) Pos() koan.Position  { return id.Token.Pos }
func (l *Literal) Pos() koan.Position      { return l.Token.Pos }
func (e *Expression) Pos() koan.Position   { return e.Left.Pos() }

// Children returns the direct sub-nodes of n, in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Module:
		return n.Statements
	case *Function:
		ch := make([]Node, 0, len(n.Params)+1)
		for _, p := range n.Params {
			ch = append(ch, p)
		}
		if n.Body != nil {
			ch = append(ch, n.Body)
		}
		return ch
	case *FunctionCall:
		return append([]Node{n.Callee}, n.Args...)
	case *Return:
		return nonNil(n.Value)
	case *Block:
		return n.Statements
	case *If:
		return nonNil(n.Cond, n.Then, n.Else)
	case *Declaration:
		return nonNil(n.Init)
	case *Expression:
		return nonNil(n.Left, n.Right)
	}
	return nil
}

func nonNil(nodes ...Node) []Node {
	ch := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			ch = append(ch, n)
		}
	}
	return ch
}

// Walk traverses the tree rooted at n in pre-order. If visit returns false,
// the children of the current node are skipped.
func Walk(n Node, visit func(Node, int) bool) {
	walk(n, 0, visit)
}

func walk(n Node, depth int, visit func(Node, int) bool) {
	if n == nil || !visit(n, depth) {
		return
	}
	for _, ch := range Children(n) {
		walk(ch, depth+1, visit)
	}
}
