package scanner

import (
	"fmt"

	"github.com/npillmayer/koan"
)

// TokType is a category type for tokens.
type TokType int

// Token categories. Error kinds are grouped right after EOF.
const (
	EOF TokType = iota
	Unexpected
	UnterminatedString
	UnterminatedComment
	Identifier
	IntegerLiteral
	StringLiteral
	KeywordFunction
	KeywordIf
	KeywordElse
	KeywordReturn
	KeywordVar
	KeywordInt
	KeywordUint
	LParen
	RParen
	LBrace
	RBrace
	Colon
	Comma
	Semicolon
	Assign
	Equal
	NotEqual
	Plus
	Minus
	Star
	Slash
	Less
	LessEqual
	Greater
	GreaterEqual
)

var tokenNames = map[TokType]string{
	EOF:                 "eof",
	Unexpected:          "unexpected",
	UnterminatedString:  "unterminated-string",
	UnterminatedComment: "unterminated-comment",
	Identifier:          "identifier",
	IntegerLiteral:      "integer-literal",
	StringLiteral:       "string-literal",
	KeywordFunction:     "function",
	KeywordIf:           "if",
	KeywordElse:         "else",
	KeywordReturn:       "return",
	KeywordVar:          "var",
	KeywordInt:          "int",
	KeywordUint:         "uint",
	LParen:              "(",
	RParen:              ")",
	LBrace:              "{",
	RBrace:              "}",
	Colon:               ":",
	Comma:               ",",
	Semicolon:           ";",
	Assign:              "=",
	Equal:               "==",
	NotEqual:            "!=",
	Plus:                "+",
	Minus:               "-",
	Star:                "*",
	Slash:               "/",
	Less:                "<",
	LessEqual:           "<=",
	Greater:             ">",
	GreaterEqual:        ">=",
}

func (tt TokType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("tokentype(%d)", int(tt))
}

// IsError is a predicate: does tt denote a lexical error?
func (tt TokType) IsError() bool {
	return tt >= Unexpected && tt <= UnterminatedComment
}

// IsKeyword is a predicate: is tt a reserved word?
func (tt TokType) IsKeyword() bool {
	return tt >= KeywordFunction && tt <= KeywordUint
}

// keywords maps reserved words to their token types. Identifiers are looked
// up here after scanning.
var keywords = map[string]TokType{
	"function": KeywordFunction,
	"if":       KeywordIf,
	"else":     KeywordElse,
	"return":   KeywordReturn,
	"var":      KeywordVar,
	"int":      KeywordInt,
	"uint":     KeywordUint,
}

// Keyword returns the token type for a reserved word, if s is one.
func Keyword(s string) (TokType, bool) {
	tt, ok := keywords[s]
	return tt, ok
}

// --- Tokens ----------------------------------------------------------------

// Token is an immutable lexical unit. Text is the token's lexeme, with
// quotes stripped for string literals. Pos locates the first byte of Text.
type Token struct {
	Kind TokType
	Text string
	Pos  koan.Position
}

// Span returns the byte range of the token's text.
func (t Token) Span() koan.Span {
	from := uint64(t.Pos.Offset)
	return koan.Span{from, from + uint64(len(t.Text))}
}

// Is is a predicate: is the token of one of the given kinds?
func (t Token) Is(kinds ...TokType) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// IsError is a predicate: is this an error-kind token?
func (t Token) IsError() bool {
	return t.Kind.IsError()
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return fmt.Sprintf("<eof @%s>", t.Pos)
	case Identifier, IntegerLiteral, StringLiteral, Unexpected, UnterminatedString, UnterminatedComment:
		return fmt.Sprintf("<%s %q @%s>", t.Kind, t.Text, t.Pos)
	}
	return fmt.Sprintf("<%q @%s>", t.Kind.String(), t.Pos)
}
