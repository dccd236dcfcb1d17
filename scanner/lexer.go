package scanner

import (
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine setup

// Operators and punctuation, as literal lexemes. Order does not matter, the DFA
// prefers the longest match ('<=' over '<').
var punctuation = []TokType{
	LParen, RParen, LBrace, RBrace, Colon, Comma, Semicolon,
	Assign, Equal, NotEqual, Plus, Minus, Star, Slash,
	Less, LessEqual, Greater, GreaterEqual,
}

var lexer *lexmachine.Lexer
var lexerErr error

var compileOnce sync.Once // monitors one-time compilation of the DFA

// compiledLexer returns the process-wide lexer, compiling it on first use.
func compiledLexer() (*lexmachine.Lexer, error) {
	compileOnce.Do(func() {
		tracer().Debugf("compiling scanner DFA")
		lexer, lexerErr = newLexer()
		if lexerErr != nil {
			tracer().Errorf("error compiling DFA: %v", lexerErr)
		}
	})
	return lexer, lexerErr
}

// newLexer registers the lexical rules. For matches of equal length, rules
// added first win.
func newLexer() (*lexmachine.Lexer, error) {
	lx := lexmachine.NewLexer()
	lx.Add([]byte(`( |\t|\n|\r)+`), skip)
	lx.Add([]byte(`//[^\n]*`), skip)
	lx.Add([]byte(`/\*([^\*]|\*+[^\*/])*\*+/`), skip)
	lx.Add([]byte(`/\*([^\*]|\*+[^\*/])*\**`), makeToken(UnterminatedComment))
	lx.Add([]byte(`"[^"]*"`), makeToken(StringLiteral))
	lx.Add([]byte(`'[^']*'`), makeToken(StringLiteral))
	lx.Add([]byte(`"[^"]*`), makeToken(UnterminatedString))
	lx.Add([]byte(`'[^']*`), makeToken(UnterminatedString))
	lx.Add([]byte(`\-?[0-9]+`), makeToken(IntegerLiteral))
	lx.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), identifierOrKeyword)
	for _, tt := range punctuation {
		lit := tt.String()
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		lx.Add([]byte(r), makeToken(tt))
	}
	if err := lx.Compile(); err != nil {
		return nil, err
	}
	return lx, nil
}

// skip is an action which ignores the scanned match.
func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// makeToken is an action which wraps a scanned match into a lexmachine token.
func makeToken(tt TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(tt), string(m.Bytes), m), nil
	}
}

// identifierOrKeyword reclassifies a scanned identifier through the keyword table.
func identifierOrKeyword(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	tt := Identifier
	if kw, ok := Keyword(string(m.Bytes)); ok {
		tt = kw
	}
	return s.Token(int(tt), string(m.Bytes), m), nil
}
