package heap

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/schuko/gconf"
)

// DefaultCapacity is the number of arena cells of a heap created without
// WithCapacity.
const DefaultCapacity = 2048

// MaxSymbols is the maximum number of distinct names a heap can intern.
const MaxSymbols = 128

// MarkStrategy selects the marking algorithm of the collector.
type MarkStrategy int

// Marking strategies.
const (
	MarkReversal  MarkStrategy = iota // Schorr-Waite/Gries pointer reversal
	MarkRecursive                     // depth-first, recursive on left links
)

func (s MarkStrategy) String() string {
	if s == MarkRecursive {
		return "recursive"
	}
	return "reversal"
}

// MarkStrategyFromString maps a configuration value to a strategy.
// Unknown values select pointer reversal.
func MarkStrategyFromString(s string) MarkStrategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "recursive", "rec":
		return MarkRecursive
	}
	return MarkReversal
}

// Heap is an arena of cells together with its free list and the two
// roots of the cell graph. A heap is not safe for concurrent use.
type Heap struct {
	cells      []cell
	free       Ref // head of the free list, linked through right
	nfree      int
	symbols    Ref // root: symbol table chain
	env        Ref // root: environment chain
	nextSym    SymbolID
	strategy   MarkStrategy
	verify     bool
	traceGC    bool
	collecting bool
	stats      Stats
	history    *arraylist.List // of CollectionReport
}

// Option configures a heap at creation time.
type Option func(*Heap)

// WithCapacity sets the number of arena cells.
func WithCapacity(n int) Option {
	return func(h *Heap) {
		if n < 1 {
			panic(fatalf(ErrInvariant, "heap capacity must be positive, is %d", n))
		}
		h.cells = make([]cell, int(firstCell)+n)
	}
}

// WithMarkStrategy selects the marking algorithm.
func WithMarkStrategy(s MarkStrategy) Option {
	return func(h *Heap) {
		h.strategy = s
	}
}

// WithRestoreCheck switches verification of link restoration after each
// mark phase on or off.
func WithRestoreCheck(on bool) Option {
	return func(h *Heap) {
		h.verify = on
	}
}

// New creates a heap. Without options, capacity is DefaultCapacity and
// strategy and verification are taken from the global configuration.
// All arena cells start out on the free list, ordered by ascending index.
func New(opts ...Option) *Heap {
	h := &Heap{
		strategy: MarkStrategyFromString(gconf.GetString("gc-mark-strategy")),
		verify:   gconf.GetBool("gc-verify-restore"),
		traceGC:  gconf.GetBool("trace-gc"),
		history:  arraylist.New(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.cells == nil {
		h.cells = make([]cell, int(firstCell)+DefaultCapacity)
	}
	h.cells[Nil] = cell{typ: Pair, mark: Visited, left: Nil, right: Nil}
	h.cells[vroot] = cell{typ: Pair, mark: Unvisited, left: Nil, right: Nil}
	h.free = Nil
	for r := Ref(len(h.cells)) - 1; r >= firstCell; r-- {
		h.cells[r] = cell{typ: Free, left: Nil, right: h.free}
		h.free = r
	}
	h.nfree = len(h.cells) - int(firstCell)
	h.symbols, h.env = Nil, Nil
	h.stats.Capacity = h.nfree
	tracer().Debugf("heap created with %d cells, marking by %s", h.nfree, h.strategy)
	return h
}

// Capacity returns the number of arena cells.
func (h *Heap) Capacity() int {
	return len(h.cells) - int(firstCell)
}

// Strategy returns the marking strategy in use.
func (h *Heap) Strategy() MarkStrategy {
	return h.strategy
}

// SetStrategy switches the marking strategy for subsequent collections.
func (h *Heap) SetStrategy(s MarkStrategy) {
	h.strategy = s
}

// FreeCount returns the current length of the free list.
func (h *Heap) FreeCount() int {
	return h.nfree
}

// --- Allocation ------------------------------------------------------------

// Allocate pops a cell from the free list. If the free list is empty, a
// collection is run first. If it is still empty afterwards, Allocate
// panics with ErrOutOfCells.
//
// The returned cell is not reachable from any root. Clients must link it
// into a rooted structure before the next allocation.
func (h *Heap) Allocate() Ref {
	if h.collecting {
		panic(fatalf(ErrInvariant, "allocation during collection"))
	}
	if h.free == Nil {
		h.Collect()
		if h.free == Nil {
			tracer().Errorf("free list empty after collection (capacity %d)", h.Capacity())
			panic(fatalf(ErrOutOfCells, "all %d cells are live", h.Capacity()))
		}
	}
	r := h.free
	c := &h.cells[r]
	if c.typ != Free {
		panic(fatalf(ErrInvariant, "cell %d on free list has type %s", r, c.typ))
	}
	h.free = c.right
	h.nfree--
	*c = cell{typ: Pair, left: Nil, right: Nil}
	h.stats.Allocations++
	return r
}

// Reserve makes sure that at least n cells can be allocated without an
// intervening collection. Constructions which allocate several cells
// before the first of them becomes reachable call Reserve up front.
func (h *Heap) Reserve(n int) {
	if h.nfree >= n {
		return
	}
	h.Collect()
	if h.nfree < n {
		panic(fatalf(ErrOutOfCells, "need %d cells, %d free after collection", n, h.nfree))
	}
}

// MakePair allocates a pair cell with the given links.
func (h *Heap) MakePair(left, right Ref) Ref {
	r := h.Allocate()
	c := &h.cells[r]
	c.left, c.right = left, right
	return r
}

// MakeNumber allocates a number cell.
func (h *Heap) MakeNumber(x float64) Ref {
	r := h.Allocate()
	c := &h.cells[r]
	c.typ, c.num = Number, x
	return r
}

// MakeSymbol allocates a symbol cell for an id.
func (h *Heap) MakeSymbol(id SymbolID) Ref {
	r := h.Allocate()
	c := &h.cells[r]
	c.typ, c.sym = Symbol, id
	return r
}

// MakeText allocates a text cell. Names must be shorter than NameLength.
func (h *Heap) MakeText(s string) Ref {
	if len(s) >= NameLength {
		panic(fatalf(ErrInvariant, "text %q exceeds %d bytes", s, NameLength-1))
	}
	r := h.Allocate()
	c := &h.cells[r]
	c.typ = Text
	copy(c.text[:], s)
	return r
}

// MakeNative allocates a builtin function cell. Arity may be Variadic.
func (h *Heap) MakeNative(fn NativeFunc, arity int) Ref {
	r := h.Allocate()
	c := &h.cells[r]
	c.typ, c.fn, c.arity = Native, fn, arity
	return r
}

// MakeClosure allocates a closure: a cell linking to the body and to a
// pair of (parameters . environment). Body, parameters and env must be
// reachable from a root when MakeClosure is called.
func (h *Heap) MakeClosure(body, params, env Ref) Ref {
	h.Reserve(2)
	inner := h.MakePair(params, env)
	r := h.Allocate()
	c := &h.cells[r]
	c.typ, c.left, c.right = Closure, body, inner
	return r
}

// --- Accessors -------------------------------------------------------------

func (h *Heap) at(r Ref) *cell {
	if int(r) >= len(h.cells) || r == vroot {
		panic(fatalf(ErrInvariant, "reference %d out of range", r))
	}
	return &h.cells[r]
}

// Type returns the variant of a cell. Nil is reported as Pair.
func (h *Heap) Type(r Ref) Type {
	return h.at(r).typ
}

// Left returns the left link (car) of a pair or the body of a closure.
func (h *Heap) Left(r Ref) Ref {
	c := h.at(r)
	if !c.hasLinks() {
		panic(fatalf(ErrInvariant, "left of %s cell %d", c.typ, r))
	}
	return c.left
}

// Right returns the right link (cdr) of a pair or a closure.
func (h *Heap) Right(r Ref) Ref {
	c := h.at(r)
	if !c.hasLinks() {
		panic(fatalf(ErrInvariant, "right of %s cell %d", c.typ, r))
	}
	return c.right
}

// SetLeft overwrites the left link of a pair. Nil is immutable.
func (h *Heap) SetLeft(r, v Ref) {
	c := h.mutable(r)
	c.left = v
}

// SetRight overwrites the right link of a pair. Nil is immutable.
func (h *Heap) SetRight(r, v Ref) {
	c := h.mutable(r)
	c.right = v
}

func (h *Heap) mutable(r Ref) *cell {
	c := h.at(r)
	if r == Nil || c.typ != Pair {
		panic(fatalf(ErrInvariant, "cannot modify links of %s cell %d", c.typ, r))
	}
	return c
}

// NumberValue returns the payload of a number cell.
func (h *Heap) NumberValue(r Ref) float64 {
	return h.leaf(r, Number).num
}

// SymbolValue returns the id of a symbol cell.
func (h *Heap) SymbolValue(r Ref) SymbolID {
	return h.leaf(r, Symbol).sym
}

// TextValue returns the payload of a text cell.
func (h *Heap) TextValue(r Ref) string {
	c := h.leaf(r, Text)
	n := 0
	for n < NameLength && c.text[n] != 0 {
		n++
	}
	return string(c.text[:n])
}

// NativeValue returns the function and arity of a builtin cell.
func (h *Heap) NativeValue(r Ref) (NativeFunc, int) {
	c := h.leaf(r, Native)
	return c.fn, c.arity
}

func (h *Heap) leaf(r Ref, t Type) *cell {
	c := h.at(r)
	if r == Nil || c.typ != t {
		panic(fatalf(ErrInvariant, "cell %d is %s, expected %s", r, c.typ, t))
	}
	return c
}

// String returns a short description of a cell, for tracing.
func (h *Heap) String(r Ref) string {
	if r == Nil {
		return "nil"
	}
	c := h.at(r)
	switch c.typ {
	case Number:
		return fmt.Sprintf("#%d:%g", r, c.num)
	case Symbol:
		return fmt.Sprintf("#%d:sym%d", r, c.sym)
	case Text:
		return fmt.Sprintf("#%d:%q", r, h.TextValue(r))
	case Pair, Closure:
		return fmt.Sprintf("#%d:%s(%d,%d)", r, c.typ, c.left, c.right)
	}
	return fmt.Sprintf("#%d:%s", r, c.typ)
}
