/*
Package heap implements a fixed-capacity arena of uniform cells with a
free-list allocator and a mark-and-sweep collector.

Cells are addressed by Ref, an index into the arena. Two slots are reserved:
Nil (slot 0), which is permanently marked and never collected, and a
virtual root (slot 1), which serves as the sentinel parent while marking
with pointer reversal. Arena cells occupy the slots 2 … capacity+1.

A heap carries exactly two roots: the symbol table chain and the
environment chain. Everything reachable from either root survives a
collection; everything else is returned to the free list.

Marking is available in two strategies. The recursive strategy walks the
left child recursively and iterates along the right child. The reversal
strategy (Schorr-Waite, in the formulation of Gries) needs no auxiliary
stack: it stores the return path in the child links of the cells on the
current path and uses a two-bit visit mark per cell. All links are
restored when marking finishes.

# Configuration

The heap reads three keys from the global configuration (package
github.com/npillmayer/schuko/gconf) when it is created:

	gc-mark-strategy    "reversal" (default) or "recursive"
	gc-verify-restore   compare a digest of all links before and after marking
	trace-gc            trace a report of every collection at level Info

Options passed to New override configuration values.

# Tracing

The heap traces to key 'cellar.heap'.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package heap

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cellar.heap'.
func tracer() tracing.Trace {
	return tracing.Select("cellar.heap")
}
