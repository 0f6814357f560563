/*
Package cellar is a small Lisp system built around a fixed-size cell heap.

Every value of the language lives in one of a bounded number of uniformly
sized cells. Unused cells are threaded onto a free list, and when the list
runs dry a stop-the-world mark-and-sweep collector reclaims whatever cannot
be reached from the symbol table and the active environment. Package
structure is as follows:

■ heap: Package heap implements the cell arena, the free-list allocator, the
symbol table, environment chains and the collector with its two marking
strategies (recursive and pointer-reversing).

■ lisp: Package lisp implements an evaluator for s-expressions living in the
heap, together with its built-in functions.

■ lisp/reader: Package reader tokenizes and parses s-expressions.

■ lisp/lrepl: An interactive command line tool.

The base package contains token types used by the reader.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cellar
