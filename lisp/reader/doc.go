/*
Package reader reads the textual form of Lisp expressions.

The reader produces a tree of Datum values without touching any heap;
the interpreter turns data into cells. Input may contain any number of
expressions. A semicolon starts a comment extending to the end of the
line. Symbols are normalized to upper case and truncated to the maximum
name length of the heap. 'x reads as (QUOTE x), and both () and NIL read
as the empty list.

Scanning is done with a DFA built by lexmachine
(github.com/timtadh/lexmachine).

# Tracing

The reader traces to key 'cellar.reader'.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package reader

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cellar.reader'.
func tracer() tracing.Trace {
	return tracing.Select("cellar.reader")
}
