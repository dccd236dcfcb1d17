/*
Package casebook reads end-to-end test cases from Markdown documents.

A casebook is an ordinary Markdown file. Every heading starting with
"Case: " opens a test case. A case holds exactly one fenced code block of
language "koan", the program under test, followed by any number of
expectation blocks:

    ast      S-expression of the parsed program
    output   text the program prints
    result   value of the program
    error    a fragment of the expected error message

Code blocks without a language are ignored, which leaves room for
explanations.
*/
package casebook

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Kinds of expectations
const (
	ExpectAST    = "ast"
	ExpectOutput = "output"
	ExpectResult = "result"
	ExpectError  = "error"
)

const programFence = "koan"

// Expectation is the content of an expectation block.
type Expectation struct {
	Kind    string
	Content string
}

// Case is a single test case of a casebook.
type Case struct {
	Name         string
	Line         int // line of the case heading
	Program      string
	Expectations []Expectation
}

// Expect returns the content of the first expectation of a kind.
func (c Case) Expect(kind string) (string, bool) {
	for _, e := range c.Expectations {
		if e.Kind == kind {
			return e.Content, true
		}
	}
	return "", false
}

// Load reads a casebook from a file.
func Load(path string) ([]Case, error) {
	md, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := Parse(md)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Parse extracts the test cases of a Markdown document.
func Parse(source []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	var cases []Case
	var current *Case
	flush := func() error {
		if current == nil {
			return nil
		}
		if current.Program == "" {
			return fmt.Errorf("line %d: case '%s' has no program", current.Line, current.Name)
		}
		if len(current.Expectations) == 0 {
			return fmt.Errorf("line %d: case '%s' has no expectations", current.Line, current.Name)
		}
		cases = append(cases, *current)
		return nil
	}
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			heading := headingText(n, source)
			if !strings.HasPrefix(heading, "Case: ") {
				return ast.WalkSkipChildren, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			current = &Case{
				Name: strings.TrimPrefix(heading, "Case: "),
				Line: lineOf(n, source),
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			if lang == "" {
				return ast.WalkContinue, nil
			}
			line := lineOf(n, source)
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: '%s' block outside of a case", line, lang)
			}
			content := strings.TrimRight(blockContent(n, source), "\n")
			switch lang {
			case programFence:
				if current.Program != "" {
					return ast.WalkStop, fmt.Errorf("line %d: second program in case '%s'", line, current.Name)
				}
				current.Program = content
			case ExpectAST, ExpectOutput, ExpectResult, ExpectError:
				current.Expectations = append(current.Expectations, Expectation{Kind: lang, Content: content})
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown block language '%s' in case '%s'", line, lang, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

func headingText(h *ast.Heading, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(b *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < b.Lines().Len(); i++ {
		line := b.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// lineOf finds the 1-based source line of a block node's content.
func lineOf(n ast.Node, source []byte) int {
	if n.Lines().Len() == 0 {
		return 1
	}
	return bytes.Count(source[:n.Lines().At(0).Start], []byte("\n")) + 1
}
