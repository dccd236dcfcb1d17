package koan_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/npillmayer/koan/ast"
	"github.com/npillmayer/koan/eval"
	"github.com/npillmayer/koan/internal/casebook"
	"github.com/npillmayer/koan/parser"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestCasebooks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "koan.eval")
	defer teardown()
	//
	books, err := filepath.Glob(filepath.Join("testdata", "*.md"))
	be.Err(t, err, nil)
	be.True(t, len(books) > 0)
	for _, path := range books {
		cases, err := casebook.Load(path)
		be.Err(t, err, nil)
		for _, c := range cases {
			t.Run(filepath.Base(path)+"/"+c.Name, func(t *testing.T) {
				runCase(t, c)
			})
		}
	}
}

func runCase(t *testing.T, c casebook.Case) {
	if want, ok := c.Expect(casebook.ExpectAST); ok {
		m, err := parser.Parse([]byte(c.Program))
		be.Err(t, err, nil)
		be.Equal(t, ast.SExpr(m), want)
	}
	var out bytes.Buffer
	v, err := eval.Run([]byte(c.Program), &out)
	if want, ok := c.Expect(casebook.ExpectError); ok {
		be.Err(t, err)
		be.True(t, strings.Contains(err.Error(), want))
		t.Logf("error: %v", err)
	} else {
		be.Err(t, err, nil)
	}
	if want, ok := c.Expect(casebook.ExpectOutput); ok {
		be.Equal(t, strings.TrimRight(out.String(), "\n"), want)
	}
	if want, ok := c.Expect(casebook.ExpectResult); ok {
		be.Equal(t, v.String(), want)
	}
}
