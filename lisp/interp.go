package lisp

import (
	"errors"
	"fmt"

	"github.com/npillmayer/cellar/heap"
	"github.com/npillmayer/cellar/lisp/reader"
)

// Evaluation errors. They are recoverable: the interpreter discards all
// temporaries of the failed evaluation and stays usable.
var (
	ErrSyntax      = errors.New("malformed expression")
	ErrArity       = errors.New("wrong number of arguments")
	ErrType        = errors.New("type mismatch")
	ErrNotCallable = errors.New("not callable")
	ErrDivByZero   = errors.New("division by zero")
)

// Predefined symbols. Their ids are fixed, as they are interned first.
const (
	COND heap.SymbolID = iota
	DEFINE
	LABEL
	LAMBDA
	QUOTE
	EVAL
	APPLY
	CONS
	CAR
	CDR
	EQ
	ATOM
	NULL
	NOT
	AND
	OR
	PLUS
	MINUS
	DIV
	TIMES
	LT
	GT
	F
	T
	MAP
	REDUCE
	GC
)

var predefined = []string{
	"COND", "DEFINE", "LABEL", "LAMBDA", "QUOTE",
	"EVAL", "APPLY", "CONS", "CAR", "CDR",
	"EQ", "ATOM", "NULL", "NOT", "AND", "OR",
	"+", "-", "/", "*", "<", ">",
	"F", "T", "MAP", "REDUCE", "GC",
}

// scratchName names the bindings which hold evaluator temporaries. The
// reader never produces a symbol containing '%'.
const scratchName = "%TMP"

// Interpreter evaluates expressions against a global environment kept in
// a heap. An interpreter is not safe for concurrent use.
type Interpreter struct {
	heap   *heap.Heap
	global heap.Ref      // head of the global bindings
	depth  int           // number of scratch bindings above global
	tmp    heap.SymbolID // id of scratchName
}

// New creates an interpreter using h. It interns the predefined symbols
// and installs the builtins as global bindings. h must be fresh.
func New(h *heap.Heap) *Interpreter {
	if h.SymbolCount() != 0 || h.Env() != heap.Nil {
		panic(fmt.Sprintf("interpreter needs a fresh heap, has %d symbols", h.SymbolCount()))
	}
	in := &Interpreter{heap: h, global: heap.Nil}
	for i, name := range predefined {
		if id := h.Intern(name); int(id) != i {
			panic(fmt.Sprintf("predefined symbol %s interned as %d", name, id))
		}
	}
	in.tmp = h.Intern(scratchName)
	in.installBuiltins()
	in.defineGlobal(T, h.SymbolCell(T))
	in.defineGlobal(F, heap.Nil)
	tracer().Debugf("interpreter ready, %d free cells", h.FreeCount())
	return in
}

// Heap returns the heap of the interpreter.
func (in *Interpreter) Heap() *heap.Heap {
	return in.heap
}

// Global returns the head of the global environment.
func (in *Interpreter) Global() heap.Ref {
	return in.global
}

// --- Top level -------------------------------------------------------------

// Eval materializes a datum in the heap and evaluates it in the global
// environment. The result is valid until the next allocation.
func (in *Interpreter) Eval(d *reader.Datum) (heap.Ref, error) {
	mark := in.depth
	defer in.popTo(mark)
	slot := in.push(heap.Nil)
	expr := in.materialize(d)
	in.set(slot, expr)
	tracer().Debugf("eval %s", in.Sprint(expr))
	return in.eval(expr, in.global)
}

// EvalString reads all expressions of input, evaluates them in turn and
// returns the printed result of the last one. It stops at the first error.
func (in *Interpreter) EvalString(input string) (string, error) {
	data, err := reader.Read(input)
	if err != nil {
		return "", err
	}
	result := "NIL"
	for _, d := range data {
		r, err := in.Eval(d)
		if err != nil {
			return "", err
		}
		result = in.Sprint(r)
	}
	return result, nil
}

// materialize builds the heap representation of a datum. Symbols share
// the cells of the symbol table.
func (in *Interpreter) materialize(d *reader.Datum) heap.Ref {
	h := in.heap
	switch d.Kind {
	case reader.NumberDatum:
		return h.MakeNumber(d.Number)
	case reader.SymbolDatum:
		return h.SymbolCell(h.Intern(d.Name))
	}
	if len(d.Items) == 0 {
		return heap.Nil
	}
	mark := in.depth
	defer in.popTo(mark)
	l := in.newListBuilder()
	for _, item := range d.Items {
		l.append(in.materialize(item))
	}
	return l.head
}

// --- Scratch bindings ------------------------------------------------------

// push adds a scratch binding holding v to the head of the environment
// root and returns its link. v must already be reachable.
func (in *Interpreter) push(v heap.Ref) heap.Ref {
	h := in.heap
	link := h.Extend(h.Env(), in.tmp, v)
	h.SetEnv(link)
	in.depth++
	return link
}

// set replaces the value held by a scratch binding. It does not allocate,
// so a fresh cell may be stored.
func (in *Interpreter) set(slot, v heap.Ref) {
	in.heap.Rebind(slot, v)
}

// popTo removes scratch bindings until depth of them are left.
func (in *Interpreter) popTo(depth int) {
	h := in.heap
	env := h.Env()
	for ; in.depth > depth; in.depth-- {
		env = h.Right(env)
	}
	h.SetEnv(env)
}

// defineGlobal binds id to v in the global environment, which is linked
// in below the scratch bindings. v must be reachable. It returns the new
// global environment head.
func (in *Interpreter) defineGlobal(id heap.SymbolID, v heap.Ref) heap.Ref {
	h := in.heap
	g := h.Extend(in.global, id, v)
	if in.depth == 0 {
		h.SetEnv(g)
	} else {
		bottom := h.Env()
		for i := 1; i < in.depth; i++ {
			bottom = h.Right(bottom)
		}
		if h.Right(bottom) != in.global {
			panic(fmt.Sprintf("scratch bindings detached from global environment at %d", bottom))
		}
		h.SetRight(bottom, g)
	}
	in.global = g
	return g
}

// listBuilder appends to a list kept alive by a scratch binding. Both of
// its scratch bindings live until the caller pops them.
type listBuilder struct {
	in         *Interpreter
	slot, item heap.Ref
	head, last heap.Ref
}

func (in *Interpreter) newListBuilder() *listBuilder {
	return &listBuilder{
		in:   in,
		slot: in.push(heap.Nil),
		item: in.push(heap.Nil),
		head: heap.Nil,
		last: heap.Nil,
	}
}

// append adds v to the end of the list. v may be fresh.
func (l *listBuilder) append(v heap.Ref) {
	h := l.in.heap
	l.in.set(l.item, v)
	c := h.MakePair(v, heap.Nil)
	if l.last == heap.Nil {
		l.head = c
		l.in.set(l.slot, c)
	} else {
		h.SetRight(l.last, c)
	}
	l.last = c
}
