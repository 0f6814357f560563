package lisp

import (
	"errors"
	"fmt"

	"github.com/npillmayer/cellar/heap"
)

// eval evaluates expr in env. expr and env must be reachable. A Nil env
// denotes the global environment. The result may be a fresh cell.
func (in *Interpreter) eval(expr, env heap.Ref) (heap.Ref, error) {
	h := in.heap
	if env == heap.Nil {
		env = in.global
	}
	if in.isAtom(expr) {
		return in.evalAtom(expr, env)
	}
	op := h.Left(expr)
	if op != heap.Nil && h.Type(op) == heap.Symbol {
		return in.evalForm(h.SymbolValue(op), h.Right(expr), env)
	}
	mark := in.depth
	defer in.popTo(mark)
	fslot := in.push(heap.Nil)
	f, err := in.eval(op, env)
	if err != nil {
		return heap.Nil, err
	}
	in.set(fslot, f)
	aslot := in.push(heap.Nil)
	args, err := in.evalList(h.Right(expr), env)
	if err != nil {
		return heap.Nil, err
	}
	in.set(aslot, args)
	return in.apply(f, args)
}

func (in *Interpreter) isAtom(r heap.Ref) bool {
	return r == heap.Nil || in.heap.Type(r) != heap.Pair
}

// evalAtom looks up symbols, every other atom evaluates to itself.
// A symbol missing from a captured environment is looked up in the current
// global environment, so closures see definitions made after their creation.
func (in *Interpreter) evalAtom(r, env heap.Ref) (heap.Ref, error) {
	h := in.heap
	if r == heap.Nil || h.Type(r) != heap.Symbol {
		return r, nil
	}
	id := h.SymbolValue(r)
	v, err := h.Lookup(id, env)
	if err != nil && env != in.global && errors.Is(err, heap.ErrUnbound) {
		v, err = h.Lookup(id, in.global)
	}
	return v, err
}

func (in *Interpreter) evalForm(op heap.SymbolID, args, env heap.Ref) (heap.Ref, error) {
	h := in.heap
	switch op {
	case COND:
		return in.evalCond(args, env)
	case DEFINE:
		return in.evalDefine(args, env)
	case LABEL:
		return in.evalLabel(args)
	case LAMBDA:
		params, body, err := in.formArgs("LAMBDA", args)
		if err != nil {
			return heap.Nil, err
		}
		for p := params; p != heap.Nil; p = h.Right(p) {
			if h.Type(p) != heap.Pair || !in.isSymbol(h.Left(p)) {
				return heap.Nil, fmt.Errorf("%w: LAMBDA parameters must be a list of symbols", ErrSyntax)
			}
		}
		return h.MakeClosure(body, params, env), nil
	case QUOTE:
		if args == heap.Nil || h.Type(args) != heap.Pair {
			return heap.Nil, fmt.Errorf("%w: QUOTE needs an argument", ErrSyntax)
		}
		return h.Left(args), nil
	}
	mark := in.depth
	defer in.popTo(mark)
	f, err := in.evalAtom(h.SymbolCell(op), env)
	if err != nil {
		return heap.Nil, err
	}
	in.push(f)
	slot := in.push(heap.Nil)
	list, err := in.evalList(args, env)
	if err != nil {
		return heap.Nil, err
	}
	in.set(slot, list)
	return in.apply(f, list)
}

// formArgs destructures the arguments of a special form (form a b).
func (in *Interpreter) formArgs(form string, args heap.Ref) (heap.Ref, heap.Ref, error) {
	h := in.heap
	if in.length(args) != 2 {
		return heap.Nil, heap.Nil, fmt.Errorf("%w: %s needs 2 arguments", ErrSyntax, form)
	}
	return h.Left(args), h.Left(h.Right(args)), nil
}

// evalCond evaluates the clauses (test expr) in order and returns the value
// of expr for the first test evaluating to T. With no such test, it
// returns NIL.
func (in *Interpreter) evalCond(clauses, env heap.Ref) (heap.Ref, error) {
	h := in.heap
	for c := clauses; c != heap.Nil; c = h.Right(c) {
		if h.Type(c) != heap.Pair {
			return heap.Nil, fmt.Errorf("%w: COND clauses", ErrSyntax)
		}
		test, expr, err := in.formArgs("COND clause", h.Left(c))
		if err != nil {
			return heap.Nil, err
		}
		v, err := in.eval(test, env)
		if err != nil {
			return heap.Nil, err
		}
		if in.truthy(v) {
			return in.eval(expr, env)
		}
	}
	return heap.Nil, nil
}

// evalDefine evaluates the value expression in env, then binds the name in
// the global environment.
func (in *Interpreter) evalDefine(args, env heap.Ref) (heap.Ref, error) {
	name, expr, err := in.formArgs("DEFINE", args)
	if err != nil {
		return heap.Nil, err
	}
	if !in.isSymbol(name) {
		return heap.Nil, fmt.Errorf("%w: DEFINE needs a symbol to bind", ErrSyntax)
	}
	mark := in.depth
	defer in.popTo(mark)
	slot := in.push(heap.Nil)
	v, err := in.eval(expr, env)
	if err != nil {
		return heap.Nil, err
	}
	in.set(slot, v)
	in.defineGlobal(in.heap.SymbolValue(name), v)
	return v, nil
}

// evalLabel binds the name globally to NIL, evaluates the value expression
// in the extended global environment and back-patches the binding with
// the result. A closure created this way captures its own binding.
func (in *Interpreter) evalLabel(args heap.Ref) (heap.Ref, error) {
	name, expr, err := in.formArgs("LABEL", args)
	if err != nil {
		return heap.Nil, err
	}
	if !in.isSymbol(name) {
		return heap.Nil, fmt.Errorf("%w: LABEL needs a symbol to bind", ErrSyntax)
	}
	g := in.defineGlobal(in.heap.SymbolValue(name), heap.Nil)
	v, err := in.eval(expr, g)
	if err != nil {
		return heap.Nil, err
	}
	in.heap.Rebind(g, v)
	return v, nil
}

// evalList evaluates each element of args and returns the list of results.
func (in *Interpreter) evalList(args, env heap.Ref) (heap.Ref, error) {
	h := in.heap
	if args == heap.Nil {
		return heap.Nil, nil
	}
	mark := in.depth
	defer in.popTo(mark)
	l := in.newListBuilder()
	for a := args; a != heap.Nil; a = h.Right(a) {
		if h.Type(a) != heap.Pair {
			return heap.Nil, fmt.Errorf("%w: improper argument list", ErrSyntax)
		}
		v, err := in.eval(h.Left(a), env)
		if err != nil {
			return heap.Nil, err
		}
		l.append(v)
	}
	return l.head, nil
}

// apply calls f with an evaluated argument list. f and args must be
// reachable.
func (in *Interpreter) apply(f, args heap.Ref) (heap.Ref, error) {
	h := in.heap
	if f == heap.Nil {
		return heap.Nil, fmt.Errorf("%w: cannot apply NIL", ErrNotCallable)
	}
	switch h.Type(f) {
	case heap.Closure:
		return in.applyClosure(f, args)
	case heap.Native:
		fn, arity := h.NativeValue(f)
		argv := make([]heap.Ref, 0, 4)
		for a := args; a != heap.Nil; a = h.Right(a) {
			if h.Type(a) != heap.Pair {
				return heap.Nil, fmt.Errorf("%w: improper argument list", ErrSyntax)
			}
			argv = append(argv, h.Left(a))
		}
		if arity != heap.Variadic && arity != len(argv) {
			return heap.Nil, fmt.Errorf("%w: builtin takes %d, called with %d", ErrArity, arity, len(argv))
		}
		return fn(argv)
	}
	return heap.Nil, fmt.Errorf("%w: %s", ErrNotCallable, in.Sprint(f))
}

// applyClosure binds the parameters of f to args, in front of the
// environment captured by f, and evaluates the body there. Missing
// arguments are an error, extra arguments are ignored.
func (in *Interpreter) applyClosure(f, args heap.Ref) (heap.Ref, error) {
	h := in.heap
	body := h.Left(f)
	params, env := h.Left(h.Right(f)), h.Right(h.Right(f))
	if env == heap.Nil {
		env = in.global
	}
	mark := in.depth
	defer in.popTo(mark)
	slot := in.push(env)
	p, a := params, args
	for ; p != heap.Nil; p, a = h.Right(p), h.Right(a) {
		if a == heap.Nil {
			return heap.Nil, fmt.Errorf("%w: not enough arguments for function", ErrArity)
		}
		env = h.Extend(env, h.SymbolValue(h.Left(p)), h.Left(a))
		in.set(slot, env)
	}
	if a != heap.Nil {
		tracer().Infof("too many arguments for function, ignoring %d", in.length(a))
	}
	return in.eval(body, env)
}

// --- Helpers ---------------------------------------------------------------

func (in *Interpreter) isSymbol(r heap.Ref) bool {
	return r != heap.Nil && in.heap.Type(r) == heap.Symbol
}

// truthy is true for the symbol T only.
func (in *Interpreter) truthy(r heap.Ref) bool {
	return in.isSymbol(r) && in.heap.SymbolValue(r) == T
}

func (in *Interpreter) boolean(b bool) heap.Ref {
	if b {
		return in.heap.SymbolCell(T)
	}
	return heap.Nil
}

func (in *Interpreter) length(list heap.Ref) int {
	h := in.heap
	n := 0
	for ; list != heap.Nil && h.Type(list) == heap.Pair; list = h.Right(list) {
		n++
	}
	return n
}
