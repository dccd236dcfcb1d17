/*
Package scanner converts Koan source text into a stream of tokens.

The scanner is backed by a lexmachine DFA, compiled once per process. Tokens are
produced lazily by NextToken, one at a time; a scanner cannot be rewound, it has
to be re-created to start over. Once the input is exhausted, NextToken keeps
returning EOF tokens.

	sc, err := scanner.New([]byte("function main(): uint { return 1+2; }"))
	if err != nil {
		// DFA compile error
	}
	for tok := sc.NextToken(); tok.Kind != scanner.EOF; tok = sc.NextToken() {
		…
	}

Lexical errors do not stop the scanner. Unrecognized characters, unterminated
strings and unterminated block comments are delivered as error-kind tokens,
and the scanner's error handler is called with a *scanner.Error for each of them.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'koan.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("koan.scanner")
}
