/*
Command koan runs, inspects and debugs Koan programs.

Usage:

    koan [flags] run <file>      evaluate a program and call its main function
    koan [flags] tokens <file>   list the tokens of a program
    koan [flags] ast <file>      print the syntax tree of a program
    koan [flags] repl            interactive evaluation
    koan [flags] vm              execute the bytecode sample module

Flags:

    -trace <level>   trace level [Debug|Info|Error]
    -init <file>     program to load before entering the REPL
    -step            start the VM in the interactive debugger

Configuration switches 'koan-vm-trace' and 'koan-show-tokens' turn on
per-instruction VM tracing and token listings in the REPL.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'koan.cli'
func tracer() tracing.Trace {
	return tracing.Select("koan.cli")
}
