package heap

import "fmt"

// Ref addresses a cell of a heap. It is an index into the heap's arena.
type Ref uint32

// Nil is the distinguished empty reference. It denotes the empty list as
// well as the absence of a value.
const Nil Ref = 0

// vroot is the sentinel parent used by pointer-reversal marking.
const vroot Ref = 1

// firstCell is the lowest index of an allocatable cell.
const firstCell Ref = 2

// Type is the variant tag of a cell.
type Type uint8

// Cell variants. Pair and Closure cells hold two links and are interior
// nodes of the cell graph, all other variants are leaves.
const (
	Free    Type = iota // on the free list
	Pair                // left/right links (car/cdr)
	Number              // float64 payload
	Symbol              // symbol id payload
	Text                // short name payload
	Native              // builtin function with fixed or variable arity
	Closure             // left: body, right: pair of (parameters . environment)
)

func (t Type) String() string {
	switch t {
	case Free:
		return "free"
	case Pair:
		return "pair"
	case Number:
		return "number"
	case Symbol:
		return "symbol"
	case Text:
		return "text"
	case Native:
		return "native"
	case Closure:
		return "closure"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// IsLeaf is true for variants without child links.
func (t Type) IsLeaf() bool {
	return t != Pair && t != Closure
}

// Mark is the per-cell marking state used by the collector. The recursive
// strategy only ever uses Unvisited and Visited.
type Mark uint8

// Marking states. Reversal marking advances a cell through all four of them.
const (
	Unvisited Mark = iota
	Arrived
	LeftDone
	Visited
)

// SymbolID identifies an interned name.
type SymbolID uint16

// NativeFunc is the Go implementation of a builtin function. It receives
// its arguments already evaluated.
type NativeFunc func(args []Ref) (Ref, error)

// Variadic is the arity of builtins accepting any number of arguments.
const Variadic = -1

// NameLength is the size of a Text payload. Names are limited to
// NameLength-1 bytes.
const NameLength = 8

type cell struct {
	typ   Type
	mark  Mark
	left  Ref
	right Ref
	num   float64
	sym   SymbolID
	text  [NameLength]byte
	fn    NativeFunc
	arity int
}

func (c *cell) hasLinks() bool {
	return !c.typ.IsLeaf()
}
