package scanner

import (
	"fmt"
	"unicode/utf8"

	"github.com/npillmayer/koan"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Error is a lexical error. It is reported to the scanner's error handler,
// while an error-kind token is handed to the caller.
type Error struct {
	Kind TokType // one of Unexpected, UnterminatedString, UnterminatedComment
	Text string
	Pos  koan.Position
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnterminatedString:
		return fmt.Sprintf("%s: unterminated string literal", e.Pos)
	case UnterminatedComment:
		return fmt.Sprintf("%s: unterminated block comment", e.Pos)
	}
	return fmt.Sprintf("%s: unexpected character %q", e.Pos, e.Text)
}

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// Scanner produces tokens for one source text. Create one with New.
type Scanner struct {
	lms    *lexmachine.Scanner
	src    []byte
	cursor koan.Position // line/column bookkeeping, advanced monotonically
	done   bool
	eof    Token
	errors int
	Error  func(error) // error handler
}

// Option configures a scanner.
type Option func(*Scanner)

// ErrorHandler sets the handler called for every lexical error.
func ErrorHandler(h func(error)) Option {
	return func(s *Scanner) {
		s.SetErrorHandler(h)
	}
}

// New creates a scanner for src. It will return an error if the DFA could
// not be compiled.
func New(src []byte, opts ...Option) (*Scanner, error) {
	lx, err := compiledLexer()
	if err != nil {
		return nil, err
	}
	lms, err := lx.Scanner(src)
	if err != nil {
		return nil, err
	}
	s := &Scanner{
		lms:    lms,
		src:    src,
		cursor: koan.Position{Line: 1, Column: 1},
		Error:  logError,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SetErrorHandler sets an error handler for the scanner.
func (s *Scanner) SetErrorHandler(h func(error)) {
	if h == nil {
		s.Error = logError
		return
	}
	s.Error = h
}

// ErrorCount returns the number of lexical errors seen so far.
func (s *Scanner) ErrorCount() int {
	return s.errors
}

// NextToken is part of the Tokenizer interface.
func (s *Scanner) NextToken() Token {
	if s.done {
		return s.eof
	}
	tok, err, eos := s.lms.Next()
	if ui, is := err.(*machines.UnconsumedInput); is {
		return s.unexpected(ui.StartTC)
	} else if err != nil {
		// lexmachine reports action errors only; our actions have none
		tracer().Errorf("scanner: %v", err)
		return s.unexpected(s.lms.TC)
	}
	if eos {
		s.done = true
		s.eof = Token{Kind: EOF, Pos: s.positionAt(len(s.src))}
		tracer().Debugf("scanner reached end of input")
		return s.eof
	}
	lt := tok.(*lexmachine.Token)
	t := s.makeToken(TokType(lt.Type), lt.TC, lt.Lexeme)
	tracer().Debugf("token %v", t)
	if t.IsError() {
		s.report(t)
	}
	return t
}

func (s *Scanner) makeToken(tt TokType, tc int, lexeme []byte) Token {
	text := string(lexeme)
	switch tt {
	case StringLiteral: // strip the quotes
		text = text[1 : len(text)-1]
		tc++
	case UnterminatedString:
		text = text[1:]
		tc++
	}
	return Token{Kind: tt, Text: text, Pos: s.positionAt(tc)}
}

// unexpected produces an error token for the rune at offset tc and makes
// lexmachine resume right behind it.
func (s *Scanner) unexpected(tc int) Token {
	if tc >= len(s.src) {
		s.lms.TC = len(s.src)
		return s.NextToken()
	}
	_, size := utf8.DecodeRune(s.src[tc:])
	t := Token{Kind: Unexpected, Text: string(s.src[tc : tc+size]), Pos: s.positionAt(tc)}
	s.lms.TC = tc + size
	s.report(t)
	return t
}

func (s *Scanner) report(t Token) {
	s.errors++
	s.Error(&Error{Kind: t.Kind, Text: t.Text, Pos: t.Pos})
}

// positionAt advances the cursor to byte offset off. Offsets never decrease
// between calls.
func (s *Scanner) positionAt(off int) koan.Position {
	for s.cursor.Offset < off && s.cursor.Offset < len(s.src) {
		if s.src[s.cursor.Offset] == '\n' {
			s.cursor.Line++
			s.cursor.Column = 1
		} else {
			s.cursor.Column++
		}
		s.cursor.Offset++
	}
	return s.cursor
}

// --- Utilities -------------------------------------------------------------

// Tokenize scans src completely. The returned slice always ends with an EOF
// token. If lexical errors occurred, the first one is returned as error,
// together with all tokens.
func Tokenize(src []byte) ([]Token, error) {
	var first error
	s, err := New(src, ErrorHandler(func(e error) {
		if first == nil {
			first = e
		}
	}))
	if err != nil {
		return nil, err
	}
	var tokens []Token
	for {
		t := s.NextToken()
		tokens = append(tokens, t)
		if t.Kind == EOF {
			break
		}
	}
	return tokens, first
}
