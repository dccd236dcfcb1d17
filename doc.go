/*
Package koan is a small scripting language toolchain.

Koan consists of a scanner, a recursive-descent parser producing an abstract
syntax tree, and two independent execution engines: a tree-walking evaluator
working on the AST, and a stack-based bytecode VM executing hand-assembled
programs. Package structure is as follows:

■ scanner: Package scanner converts source text into a lazy stream of tokens.

■ parser: Package parser builds an AST from a token stream, reporting the first
syntax error as a structured diagnostic.

■ ast: Package ast defines the node types of the abstract syntax tree.

■ runtime: Package runtime provides values, scopes, activations and the call stack
of the evaluator.

■ eval: Package eval implements the tree-walking evaluator.

■ vm: Package vm implements the bytecode virtual machine, together with an
assembler and a disassembler.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package koan
