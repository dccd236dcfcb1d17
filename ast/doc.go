/*
Package ast defines the syntax tree produced by the parser.

Every node type implements Node. Statement lists and argument lists are
plain slices; binary expressions carry explicit operands. Trees are
immutable after parsing and may be shared between evaluators.

SExpr renders a tree in a compact S-expression notation, which is what
tests and the command line tool print. Fingerprint computes a structural
hash over a tree, suitable for checking that two parses agree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast
