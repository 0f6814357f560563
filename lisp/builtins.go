package lisp

import (
	"fmt"

	"github.com/npillmayer/cellar/heap"
)

type builtin struct {
	sym   heap.SymbolID
	arity int
	fn    func(in *Interpreter, args []heap.Ref) (heap.Ref, error)
}

var builtins = []builtin{
	{EVAL, 1, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.eval(args[0], in.global)
	}},
	{APPLY, 2, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		if err := in.checkList("APPLY", args[1]); err != nil {
			return heap.Nil, err
		}
		return in.apply(args[0], args[1])
	}},
	{CONS, 2, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.heap.MakePair(args[0], args[1]), nil
	}},
	{CAR, 1, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		if err := in.checkPair("CAR", args[0]); err != nil {
			return heap.Nil, err
		}
		return in.heap.Left(args[0]), nil
	}},
	{CDR, 1, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		if err := in.checkPair("CDR", args[0]); err != nil {
			return heap.Nil, err
		}
		return in.heap.Right(args[0]), nil
	}},
	{EQ, 2, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.boolean(in.eq(args[0], args[1])), nil
	}},
	{ATOM, 1, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.boolean(in.isAtom(args[0])), nil
	}},
	{NULL, 1, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.boolean(args[0] == heap.Nil), nil
	}},
	{NOT, 1, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.boolean(!in.truthy(args[0])), nil
	}},
	{AND, heap.Variadic, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		for _, a := range args {
			if !in.truthy(a) {
				return heap.Nil, nil
			}
		}
		return in.boolean(true), nil
	}},
	{OR, heap.Variadic, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		for _, a := range args {
			if in.truthy(a) {
				return in.boolean(true), nil
			}
		}
		return heap.Nil, nil
	}},
	{PLUS, heap.Variadic, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.fold("+", args, 0, func(acc, x float64) (float64, error) { return acc + x, nil })
	}},
	{TIMES, heap.Variadic, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.fold("*", args, 1, func(acc, x float64) (float64, error) { return acc * x, nil })
	}},
	{MINUS, heap.Variadic, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		if len(args) == 0 {
			return heap.Nil, fmt.Errorf("%w: - needs at least 1 argument", ErrArity)
		}
		if len(args) == 1 {
			return in.fold("-", args, 0, func(acc, x float64) (float64, error) { return acc - x, nil })
		}
		first, err := in.number("-", args[0])
		if err != nil {
			return heap.Nil, err
		}
		return in.fold("-", args[1:], first, func(acc, x float64) (float64, error) { return acc - x, nil })
	}},
	{DIV, heap.Variadic, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		div := func(acc, x float64) (float64, error) {
			if x == 0 {
				return 0, ErrDivByZero
			}
			return acc / x, nil
		}
		if len(args) == 0 {
			return heap.Nil, fmt.Errorf("%w: / needs at least 1 argument", ErrArity)
		}
		if len(args) == 1 {
			return in.fold("/", args, 1, div)
		}
		first, err := in.number("/", args[0])
		if err != nil {
			return heap.Nil, err
		}
		return in.fold("/", args[1:], first, div)
	}},
	{LT, 2, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.compare("<", args, func(a, b float64) bool { return a < b })
	}},
	{GT, 2, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.compare(">", args, func(a, b float64) bool { return a > b })
	}},
	{MAP, 2, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.mapList(args[0], args[1])
	}},
	{REDUCE, 3, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		return in.reduceList(args[0], args[1], args[2])
	}},
	{GC, 0, func(in *Interpreter, args []heap.Ref) (heap.Ref, error) {
		in.heap.Collect()
		return heap.Nil, nil
	}},
}

// installBuiltins binds a native cell for every builtin in the global
// environment.
func (in *Interpreter) installBuiltins() {
	h := in.heap
	for _, b := range builtins {
		b := b
		fn := func(args []heap.Ref) (heap.Ref, error) {
			return b.fn(in, args)
		}
		h.Reserve(3)
		in.defineGlobal(b.sym, h.MakeNative(fn, b.arity))
	}
}

func (in *Interpreter) number(op string, r heap.Ref) (float64, error) {
	if r == heap.Nil || in.heap.Type(r) != heap.Number {
		return 0, fmt.Errorf("%w: %s given non-numeric argument %s", ErrType, op, in.Sprint(r))
	}
	return in.heap.NumberValue(r), nil
}

// fold combines the numeric arguments into acc and allocates a single
// number cell for the result.
func (in *Interpreter) fold(op string, args []heap.Ref, acc float64,
	f func(float64, float64) (float64, error)) (heap.Ref, error) {
	//
	for _, a := range args {
		x, err := in.number(op, a)
		if err != nil {
			return heap.Nil, err
		}
		if acc, err = f(acc, x); err != nil {
			return heap.Nil, fmt.Errorf("%w in %s", err, op)
		}
	}
	return in.heap.MakeNumber(acc), nil
}

func (in *Interpreter) compare(op string, args []heap.Ref, less func(a, b float64) bool) (heap.Ref, error) {
	a, err := in.number(op, args[0])
	if err != nil {
		return heap.Nil, err
	}
	b, err := in.number(op, args[1])
	if err != nil {
		return heap.Nil, err
	}
	return in.boolean(less(a, b)), nil
}

// eq compares numbers by value and symbols by id. Any other values are
// equal only if they are the same cell.
func (in *Interpreter) eq(a, b heap.Ref) bool {
	h := in.heap
	if a == b {
		return true
	}
	if a == heap.Nil || b == heap.Nil || h.Type(a) != h.Type(b) {
		return false
	}
	switch h.Type(a) {
	case heap.Number:
		return h.NumberValue(a) == h.NumberValue(b)
	case heap.Symbol:
		return h.SymbolValue(a) == h.SymbolValue(b)
	}
	return false
}

func (in *Interpreter) checkPair(op string, r heap.Ref) error {
	if r == heap.Nil {
		return fmt.Errorf("%w: %s called on NIL", ErrType, op)
	}
	if in.heap.Type(r) != heap.Pair {
		return fmt.Errorf("%w: %s called on atom %s", ErrType, op, in.Sprint(r))
	}
	return nil
}

func (in *Interpreter) checkList(op string, r heap.Ref) error {
	h := in.heap
	for ; r != heap.Nil; r = h.Right(r) {
		if h.Type(r) != heap.Pair {
			return fmt.Errorf("%w: %s needs a proper list", ErrType, op)
		}
	}
	return nil
}

// mapList applies f to every element of list and returns the list of
// results.
func (in *Interpreter) mapList(f, list heap.Ref) (heap.Ref, error) {
	h := in.heap
	if err := in.checkList("MAP", list); err != nil {
		return heap.Nil, err
	}
	mark := in.depth
	defer in.popTo(mark)
	l := in.newListBuilder()
	argslot := in.push(heap.Nil)
	for x := list; x != heap.Nil; x = h.Right(x) {
		arg := h.MakePair(h.Left(x), heap.Nil)
		in.set(argslot, arg)
		v, err := in.apply(f, arg)
		if err != nil {
			return heap.Nil, err
		}
		l.append(v)
	}
	return l.head, nil
}

// reduceList folds list from the left: (f (f (f init x1) x2) …).
func (in *Interpreter) reduceList(f, init, list heap.Ref) (heap.Ref, error) {
	h := in.heap
	if err := in.checkList("REDUCE", list); err != nil {
		return heap.Nil, err
	}
	mark := in.depth
	defer in.popTo(mark)
	accslot := in.push(init)
	argslot := in.push(heap.Nil)
	acc := init
	for x := list; x != heap.Nil; x = h.Right(x) {
		h.Reserve(2)
		arg := h.MakePair(acc, h.MakePair(h.Left(x), heap.Nil))
		in.set(argslot, arg)
		v, err := in.apply(f, arg)
		if err != nil {
			return heap.Nil, err
		}
		acc = v
		in.set(accslot, acc)
	}
	return acc, nil
}
