package parser

import (
	"github.com/npillmayer/koan/ast"
	"github.com/npillmayer/koan/scanner"
)

// Tokenizer is a source of tokens. After the input is exhausted it has to
// return EOF tokens.
type Tokenizer interface {
	NextToken() scanner.Token
}

// Parser is a recursive descent parser. A parser is single-use: create one
// per token stream.
type Parser struct {
	tokens Tokenizer
	tok    scanner.Token // lookahead
	err    *Diagnostic   // first error, aborts the parse
}

// New creates a parser reading from a tokenizer.
func New(tokenizer Tokenizer) *Parser {
	return &Parser{tokens: tokenizer}
}

// Parse scans and parses a source text.
func Parse(src []byte) (*ast.Module, error) {
	sc, err := scanner.New(src, scanner.ErrorHandler(func(error) {}))
	if err != nil {
		return nil, err
	}
	return New(sc).BuildAST()
}

// BuildAST parses a module. On the first syntax error it stops and returns a
// *Diagnostic.
func (p *Parser) BuildAST() (*ast.Module, error) {
	p.advance()
	m := &ast.Module{}
	for p.err == nil && p.tok.Kind != scanner.EOF {
		if st := p.statement(); st != nil {
			m.Statements = append(m.Statements, st)
		}
	}
	if p.err != nil {
		tracer().Infof("parse error: %v", p.err)
		return nil, p.err
	}
	tracer().Debugf("parsed module with %d statements", len(m.Statements))
	return m, nil
}

// --- Token handling --------------------------------------------------------

func (p *Parser) advance() {
	if p.err != nil {
		return
	}
	p.tok = p.tokens.NextToken()
	if p.tok.IsError() {
		se := &scanner.Error{Kind: p.tok.Kind, Text: p.tok.Text, Pos: p.tok.Pos}
		p.err = &Diagnostic{Actual: p.tok, Pos: p.tok.Pos, Err: se}
	}
}

// expect consumes a token of kind tt or records a diagnostic.
func (p *Parser) expect(tt scanner.TokType, msg string) scanner.Token {
	t := p.tok
	if t.Kind != tt {
		p.fail(msg, tt)
		return t
	}
	p.advance()
	return t
}

// accept consumes the lookahead if it is of one of the given kinds.
func (p *Parser) accept(kinds ...scanner.TokType) (scanner.Token, bool) {
	t := p.tok
	if t.Is(kinds...) {
		p.advance()
		return t, true
	}
	return t, false
}

func (p *Parser) fail(msg string, expected ...scanner.TokType) {
	if p.err != nil {
		return
	}
	p.err = &Diagnostic{Expected: expected, Actual: p.tok, Pos: p.tok.Pos, Msg: msg}
}

func (p *Parser) failed() bool {
	return p.err != nil
}

// --- Statements ------------------------------------------------------------

func (p *Parser) statement() ast.Node {
	tracer().Debugf("statement starting with %v", p.tok)
	switch p.tok.Kind {
	case scanner.KeywordFunction:
		return p.function()
	case scanner.KeywordIf:
		return p.ifStatement()
	case scanner.LBrace:
		if b := p.block(); b != nil {
			return b
		}
		return nil
	case scanner.KeywordReturn:
		return p.returnStatement()
	case scanner.KeywordVar:
		return p.varStatement()
	}
	expr := p.expression()
	p.expect(scanner.Semicolon, "expression statement not terminated")
	if p.failed() {
		return nil
	}
	return expr
}

func (p *Parser) function() ast.Node {
	fn := &ast.Function{Keyword: p.tok}
	p.advance()
	fn.Name = p.expect(scanner.Identifier, "function name missing")
	p.expect(scanner.LParen, "parameter list missing")
	if p.tok.Kind != scanner.RParen && !p.failed() {
		for {
			fn.Params = append(fn.Params, p.parameter())
			if _, ok := p.accept(scanner.Comma); !ok || p.failed() {
				break
			}
		}
	}
	p.expect(scanner.RParen, "parameter list not closed")
	p.expect(scanner.Colon, "return type missing")
	fn.ReturnType = p.typeName()
	if p.failed() {
		return nil
	}
	if p.tok.Kind != scanner.LBrace {
		p.fail("function body missing", scanner.LBrace)
		return nil
	}
	fn.Body = p.block()
	if p.failed() {
		return nil
	}
	return fn
}

func (p *Parser) parameter() *ast.Declaration {
	d := &ast.Declaration{}
	d.Name = p.expect(scanner.Identifier, "parameter name missing")
	p.expect(scanner.Colon, "parameter type missing")
	d.Type = p.typeName()
	return d
}

func (p *Parser) typeName() scanner.Token {
	t, ok := p.accept(scanner.KeywordInt, scanner.KeywordUint)
	if !ok {
		p.fail("type name missing", scanner.KeywordInt, scanner.KeywordUint)
	}
	return t
}

func (p *Parser) ifStatement() ast.Node {
	n := &ast.If{Keyword: p.tok}
	p.advance()
	p.expect(scanner.LParen, "condition must be parenthesized")
	n.Cond = p.expression()
	p.expect(scanner.RParen, "condition not closed")
	if p.failed() {
		return nil
	}
	n.Then = p.statement()
	if p.failed() {
		return nil
	}
	if _, ok := p.accept(scanner.KeywordElse); ok {
		n.Else = p.statement()
		if p.failed() {
			return nil
		}
	}
	return n
}

func (p *Parser) block() *ast.Block {
	b := &ast.Block{LBrace: p.tok}
	p.advance()
	for !p.failed() && p.tok.Kind != scanner.RBrace {
		if p.tok.Kind == scanner.EOF {
			p.fail("block not closed", scanner.RBrace)
			break
		}
		if st := p.statement(); st != nil {
			b.Statements = append(b.Statements, st)
		}
	}
	p.expect(scanner.RBrace, "block not closed")
	if p.failed() {
		return nil
	}
	return b
}

func (p *Parser) returnStatement() ast.Node {
	r := &ast.Return{Keyword: p.tok}
	p.advance()
	if p.tok.Kind != scanner.Semicolon {
		r.Value = p.expression()
	}
	p.expect(scanner.Semicolon, "return statement not terminated")
	if p.failed() {
		return nil
	}
	return r
}

func (p *Parser) varStatement() ast.Node {
	p.advance()
	d := &ast.Declaration{}
	d.Name = p.expect(scanner.Identifier, "variable name missing")
	p.expect(scanner.Colon, "variable type missing")
	d.Type = p.typeName()
	if _, ok := p.accept(scanner.Assign); ok && !p.failed() {
		d.Init = p.expression()
	}
	p.expect(scanner.Semicolon, "variable declaration not terminated")
	if p.failed() {
		return nil
	}
	return d
}

// --- Expressions -----------------------------------------------------------

var binaryOps = []scanner.TokType{
	scanner.Plus, scanner.Minus, scanner.Equal, scanner.NotEqual,
	scanner.Less, scanner.LessEqual, scanner.Greater, scanner.GreaterEqual,
	scanner.Assign,
}

func (p *Parser) expression() ast.Node {
	left := p.term()
	if p.failed() {
		return nil
	}
	op, ok := p.accept(binaryOps...)
	if !ok {
		return left
	}
	if op.Kind == scanner.Assign {
		if _, isId := left.(*ast.Identifier); !isId {
			p.err = &Diagnostic{Actual: op, Pos: op.Pos, Msg: "left side of assignment is not a variable"}
			return nil
		}
	}
	right := p.expression()
	if p.failed() {
		return nil
	}
	return &ast.Expression{Op: op, Left: left, Right: right}
}

func (p *Parser) term() ast.Node {
	left := p.factor()
	for !p.failed() {
		op, ok := p.accept(scanner.Star, scanner.Slash)
		if !ok {
			break
		}
		right := p.factor()
		if p.failed() {
			return nil
		}
		left = &ast.Expression{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) factor() ast.Node {
	n := p.primary()
	for !p.failed() && p.tok.Kind == scanner.LParen {
		call := &ast.FunctionCall{Callee: n, Paren: p.tok}
		p.advance()
		if p.tok.Kind != scanner.RParen {
			for !p.failed() {
				call.Args = append(call.Args, p.expression())
				if _, ok := p.accept(scanner.Comma); !ok {
					break
				}
			}
		}
		p.expect(scanner.RParen, "argument list not closed")
		n = call
	}
	if p.failed() {
		return nil
	}
	return n
}

func (p *Parser) primary() ast.Node {
	t := p.tok
	switch t.Kind {
	case scanner.IntegerLiteral, scanner.StringLiteral:
		p.advance()
		return &ast.Literal{Token: t}
	case scanner.Identifier:
		p.advance()
		return &ast.Identifier{Token: t}
	case scanner.LParen:
		p.advance()
		e := p.expression()
		p.expect(scanner.RParen, "parenthesized expression not closed")
		return e
	}
	p.fail("expression expected", scanner.IntegerLiteral, scanner.StringLiteral,
		scanner.Identifier, scanner.LParen)
	return nil
}
