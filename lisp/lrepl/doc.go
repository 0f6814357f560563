/*
Package lrepl/main provides an interactive command line tool (L.REPL) for
the Lisp interpreter of package lisp. L.REPL reads expressions, evaluates
them and prints the results. It serves as a sandbox for watching the
garbage collector at work: the heap's capacity and marking strategy can be
chosen by flags, and the collection history can be inspected.

Commands besides Lisp expressions:

    :stats          show heap counters and the recent collection history
    :tree <expr>    evaluate expr and display the result as a tree
    :gc             run a collection
    :quit           leave the REPL (as does <ctrl>D)

L.REPL reads its configuration from a 'cellar' NestedText file at the
standard configuration locations, if present. Flags override configuration.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cellar.repl'
func tracer() tracing.Trace {
	return tracing.Select("cellar.repl")
}
