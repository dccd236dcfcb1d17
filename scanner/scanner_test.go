package scanner

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/npillmayer/koan"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func kinds(tokens []Token) []TokType {
	kk := make([]TokType, len(tokens))
	for i, t := range tokens {
		kk[i] = t.Kind
	}
	return kk
}

func TestScanKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.scanner")
	defer teardown()
	//
	for _, c := range []struct {
		input string
		kinds []TokType
	}{
		{"", []TokType{EOF}},
		{"   \n\t ", []TokType{EOF}},
		{"x", []TokType{Identifier, EOF}},
		{"1+12", []TokType{IntegerLiteral, Plus, IntegerLiteral, EOF}},
		{"a <= b", []TokType{Identifier, LessEqual, Identifier, EOF}},
		{"a<b>c>=d", []TokType{Identifier, Less, Identifier, Greater, Identifier, GreaterEqual, Identifier, EOF}},
		{"x = y == z != w", []TokType{Identifier, Assign, Identifier, Equal, Identifier, NotEqual, Identifier, EOF}},
		{"f(a, b);", []TokType{Identifier, LParen, Identifier, Comma, Identifier, RParen, Semicolon, EOF}},
		{"{ } : * /", []TokType{LBrace, RBrace, Colon, Star, Slash, EOF}},
		{"function if else return var int uint",
			[]TokType{KeywordFunction, KeywordIf, KeywordElse, KeywordReturn, KeywordVar, KeywordInt, KeywordUint, EOF}},
		{"functions iff _return", []TokType{Identifier, Identifier, Identifier, EOF}},
		{`"hello" 'world'`, []TokType{StringLiteral, StringLiteral, EOF}},
		{"a // comment\nb", []TokType{Identifier, Identifier, EOF}},
		{"a /* multi\nline ** */ b", []TokType{Identifier, Identifier, EOF}},
		{"a-5", []TokType{Identifier, IntegerLiteral, EOF}},
		{"a - 5", []TokType{Identifier, Minus, IntegerLiteral, EOF}},
	} {
		tokens, err := Tokenize([]byte(c.input))
		be.Err(t, err, nil)
		be.Equal(t, kinds(tokens), c.kinds)
	}
}

func TestKeywordTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.scanner")
	defer teardown()
	//
	for _, w := range []string{"function", "if", "else", "return", "var", "int", "uint"} {
		tt, ok := Keyword(w)
		be.True(t, ok)
		be.True(t, tt.IsKeyword())
		be.Equal(t, tt.String(), w)
	}
	_, ok := Keyword("println")
	be.True(t, !ok)
	be.True(t, !Identifier.IsKeyword())
	be.True(t, !UnterminatedString.IsKeyword())
}

func TestScanFunctionHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.scanner")
	defer teardown()
	//
	tokens, err := Tokenize([]byte("function main(): uint { return 1+2; }"))
	be.Err(t, err, nil)
	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	be.Equal(t, strings.Join(texts, " "), "function main ( ) : uint { return 1 + 2 ; } ")
	be.Equal(t, len(tokens), 14)
	be.Equal(t, tokens[0].Kind, KeywordFunction)
	be.Equal(t, tokens[1].Kind, Identifier)
}

func TestScanPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.scanner")
	defer teardown()
	//
	src := "function main\n  x = 'ab';\n"
	tokens, err := Tokenize([]byte(src))
	be.Err(t, err, nil)
	want := []koan.Position{
		{Line: 1, Column: 1, Offset: 0},  // function
		{Line: 1, Column: 10, Offset: 9}, // main
		{Line: 2, Column: 3, Offset: 16}, // x
		{Line: 2, Column: 5, Offset: 18}, // =
		{Line: 2, Column: 8, Offset: 21}, // ab, behind the quote
		{Line: 2, Column: 11, Offset: 24}, // ;
		{Line: 3, Column: 1, Offset: 26}, // EOF
	}
	be.Equal(t, len(tokens), len(want))
	for i, tok := range tokens {
		be.Equal(t, tok.Pos, want[i])
	}
	be.Equal(t, tokens[4].Text, "ab")
	be.Equal(t, tokens[4].Span(), koan.Span{21, 23})
}

func TestScanNegativeLiteral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.scanner")
	defer teardown()
	//
	tokens, err := Tokenize([]byte("-5 -x"))
	be.Err(t, err, nil)
	be.Equal(t, kinds(tokens), []TokType{IntegerLiteral, Minus, Identifier, EOF})
	be.Equal(t, tokens[0].Text, "-5")
}

func TestScanEOFIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.scanner")
	defer teardown()
	//
	s, err := New([]byte("a"))
	be.Err(t, err, nil)
	be.Equal(t, s.NextToken().Kind, Identifier)
	for i := 0; i < 3; i++ {
		tok := s.NextToken()
		be.Equal(t, tok.Kind, EOF)
		be.Equal(t, tok.Pos.Offset, 1)
	}
}

func TestScanErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.scanner")
	defer teardown()
	//
	for _, c := range []struct {
		input string
		kinds []TokType
		text  string // text of the error token
		pos   koan.Position
	}{
		{"a $ b", []TokType{Identifier, Unexpected, Identifier, EOF}, "$", koan.Position{Line: 1, Column: 3, Offset: 2}},
		{"x = 'abc", []TokType{Identifier, Assign, UnterminatedString, EOF}, "abc", koan.Position{Line: 1, Column: 6, Offset: 5}},
		{"x /* never closed", []TokType{Identifier, UnterminatedComment, EOF}, "/* never closed", koan.Position{Line: 1, Column: 3, Offset: 2}},
	} {
		var reported []error
		s, err := New([]byte(c.input), ErrorHandler(func(e error) {
			reported = append(reported, e)
		}))
		be.Err(t, err, nil)
		var tokens []Token
		for tok := s.NextToken(); ; tok = s.NextToken() {
			tokens = append(tokens, tok)
			if tok.Kind == EOF {
				break
			}
		}
		be.Equal(t, kinds(tokens), c.kinds)
		be.Equal(t, len(reported), 1)
		be.Equal(t, s.ErrorCount(), 1)
		var scanErr *Error
		be.True(t, errors.As(reported[0], &scanErr))
		be.Equal(t, scanErr.Text, c.text)
		be.Equal(t, scanErr.Pos, c.pos)
		be.True(t, tokens[len(tokens)-2].IsError())
	}
}

func TestTokenizeReportsFirstError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.scanner")
	defer teardown()
	//
	tokens, err := Tokenize([]byte("# a @"))
	be.Err(t, err)
	be.Equal(t, kinds(tokens), []TokType{Unexpected, Identifier, Unexpected, EOF})
	be.True(t, strings.Contains(err.Error(), `"#"`))
}

// Tokens written out with blanks in between scan back to the same sequence.
func TestScanRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.scanner")
	defer teardown()
	//
	pool := []Token{
		{Kind: Identifier, Text: "x"},
		{Kind: Identifier, Text: "fib_2"},
		{Kind: IntegerLiteral, Text: "42"},
		{Kind: IntegerLiteral, Text: "-7"},
		{Kind: KeywordReturn, Text: "return"},
		{Kind: KeywordUint, Text: "uint"},
	}
	for _, tt := range punctuation {
		pool = append(pool, Token{Kind: tt, Text: tt.String()})
	}
	rnd := rand.New(rand.NewSource(4711))
	for round := 0; round < 50; round++ {
		n := 1 + rnd.Intn(30)
		var words []string
		var want []TokType
		for i := 0; i < n; i++ {
			tok := pool[rnd.Intn(len(pool))]
			words = append(words, tok.Text)
			want = append(want, tok.Kind)
		}
		want = append(want, EOF)
		tokens, err := Tokenize([]byte(strings.Join(words, " ")))
		be.Err(t, err, nil)
		be.Equal(t, kinds(tokens), want)
		for i, w := range words {
			be.Equal(t, tokens[i].Text, w)
		}
	}
}
