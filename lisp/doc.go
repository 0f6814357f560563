/*
Package lisp implements a small Lisp interpreter on top of a cell heap.

All data of the interpreter lives in heap cells: code read from the
reader, numbers and symbols, closures and the environments they capture.
Builtins are heap cells holding a Go function.

Special forms are COND, DEFINE, LABEL, LAMBDA and QUOTE. LABEL binds a
name globally before evaluating the value expression, so the value may
refer to itself:

	(label fact (lambda (n) (cond ((< n 2) 1) (t (* n (fact (- n 1)))))))

Booleans are the symbol T and NIL; every value other than T is false.

# Reachability

The heap collects everything not reachable from its two roots, the symbol
table and the environment. The interpreter keeps its temporaries alive by
pushing scratch bindings onto the head of the environment root and popping
them when an evaluation step is done. Global definitions are linked in
below the scratch bindings. A freshly allocated cell must become reachable
before the next allocation; code in this package either stores it into a
scratch binding right away or reserves enough cells up front.

# Tracing

The interpreter traces to key 'cellar.lisp'.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package lisp

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cellar.lisp'.
func tracer() tracing.Trace {
	return tracing.Select("cellar.lisp")
}
