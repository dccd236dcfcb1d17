/*
Package parser implements a recursive descent parser, building an AST from
a stream of tokens with one token of lookahead.

The grammar, in informal EBNF:

    Module        ::= Statement* EOF
    Statement     ::= Function | If | Block | Return | Var | Expression ';'
    Function      ::= 'function' Identifier '(' Params? ')' ':' Type Block
    Params        ::= Identifier ':' Type (',' Identifier ':' Type)*
    Type          ::= 'int' | 'uint'
    If            ::= 'if' '(' Expression ')' Statement ('else' Statement)?
    Return        ::= 'return' Expression? ';'
    Var           ::= 'var' Identifier ':' Type ('=' Expression)? ';'
    Block         ::= '{' Statement* '}'
    Expression    ::= Term (BinaryOp Expression)?
    BinaryOp      ::= '+' | '-' | '==' | '!=' | '<' | '<=' | '>' | '>=' | '='
    Term          ::= Factor (('*' | '/') Factor)*
    Factor        ::= Primary ('(' Args? ')')*
    Primary       ::= Literal | Identifier | '(' Expression ')'

Binary operators of an Expression are right-associative and share one
precedence level; '*' and '/' bind tighter and associate to the left.

Parsing stops at the first error, which is reported as a *Diagnostic.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'koan.parser'.
func tracer() tracing.Trace {
	return tracing.Select("koan.parser")
}
