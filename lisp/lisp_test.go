package lisp

import (
	"errors"
	"testing"

	"github.com/npillmayer/cellar/heap"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func newInterpreter(capacity int, s heap.MarkStrategy) *Interpreter {
	return New(heap.New(heap.WithCapacity(capacity), heap.WithMarkStrategy(s),
		heap.WithRestoreCheck(true)))
}

type evalCase struct {
	input, expected string
}

func checkEval(t *testing.T, in *Interpreter, cases []evalCase) {
	t.Helper()
	for _, c := range cases {
		result, err := in.EvalString(c.input)
		if err != nil {
			t.Errorf("%s: unexpected error %v", c.input, err)
			continue
		}
		if result != c.expected {
			t.Errorf("%s: expected %s, got %s", c.input, c.expected, result)
		}
		checkScratch(t, in)
	}
}

// checkScratch asserts that no scratch bindings are left over.
func checkScratch(t *testing.T, in *Interpreter) {
	t.Helper()
	if in.depth != 0 || in.heap.Env() != in.global {
		t.Errorf("scratch bindings left on environment root (depth %d)", in.depth)
	}
}

func TestArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.lisp")
	defer teardown()
	//
	in := newInterpreter(512, heap.MarkReversal)
	checkEval(t, in, []evalCase{
		{"(+ 1 2 3)", "6"},
		{"(+)", "0"},
		{"(- 10 4 1)", "5"},
		{"(- 5)", "-5"},
		{"(* 2 3 0.5)", "3"},
		{"(/ 8 2)", "4"},
		{"(/ 4)", "0.25"},
		{"(< 1 2)", "T"},
		{"(> 1 2)", "NIL"},
		{"2.5", "2.5"},
	})
	if _, err := in.EvalString("(/ 1 0)"); !errors.Is(err, ErrDivByZero) {
		t.Errorf("expected division by zero, got %v", err)
	}
	if _, err := in.EvalString("(+ 1 'a)"); !errors.Is(err, ErrType) {
		t.Errorf("expected type error, got %v", err)
	}
	checkScratch(t, in)
}

func TestListPrimitives(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.lisp")
	defer teardown()
	//
	in := newInterpreter(512, heap.MarkReversal)
	checkEval(t, in, []evalCase{
		{"(car '(a b))", "A"},
		{"(cdr '(a b))", "(B)"},
		{"(cons 1 2)", "(1 . 2)"},
		{"(cons 1 '(2))", "(1 2)"},
		{"(atom 'a)", "T"},
		{"(atom '(a))", "NIL"},
		{"(null nil)", "T"},
		{"(null '(a))", "NIL"},
		{"(eq 'a 'a)", "T"},
		{"(eq 1 1)", "T"},
		{"(eq '(1) '(1))", "NIL"},
		{"(eq nil nil)", "T"},
		{"t", "T"},
		{"f", "NIL"},
	})
	if _, err := in.EvalString("(car nil)"); !errors.Is(err, ErrType) {
		t.Errorf("expected type error for (car nil), got %v", err)
	}
	if _, err := in.EvalString("(car '(1) '(2))"); !errors.Is(err, ErrArity) {
		t.Errorf("expected arity error, got %v", err)
	}
}

func TestLogic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.lisp")
	defer teardown()
	//
	in := newInterpreter(512, heap.MarkRecursive)
	checkEval(t, in, []evalCase{
		{"(not nil)", "T"},
		{"(not 1)", "T"},
		{"(not t)", "NIL"},
		{"(and t t)", "T"},
		{"(and t nil)", "NIL"},
		{"(or nil t)", "T"},
		{"(or)", "NIL"},
		{"(cond ((eq 1 2) 'a) (t 'b))", "B"},
		{"(cond ((eq 1 2) 'a))", "NIL"},
	})
}

func TestLambda(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.lisp")
	defer teardown()
	//
	in := newInterpreter(1024, heap.MarkReversal)
	checkEval(t, in, []evalCase{
		{"((lambda (x y) (+ x y)) 1 2)", "3"},
		{"(define add (lambda (n) (lambda (x) (+ x n))))", "#<LAMBDA (LAMBDA (X) (+ X N))>"},
		{"((add 5) 10)", "15"},
		{"((lambda (x) x) 1 2)", "1"},
		{"((lambda (x) ((lambda (x) x) 2)) 1)", "2"},
	})
	if _, err := in.EvalString("((lambda (x y) x) 1)"); !errors.Is(err, ErrArity) {
		t.Errorf("expected arity error, got %v", err)
	}
	if _, err := in.EvalString("(lambda (1) x)"); !errors.Is(err, ErrSyntax) {
		t.Errorf("expected syntax error, got %v", err)
	}
	checkScratch(t, in)
}

func TestLabelRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.lisp")
	defer teardown()
	//
	in := newInterpreter(1024, heap.MarkReversal)
	checkEval(t, in, []evalCase{
		{"(label fact (lambda (n) (cond ((< n 2) 1) (t (* n (fact (- n 1)))))))",
			"#<LAMBDA (COND ((< N 2) 1) (T (* N (FACT (- N 1)))))>"},
		{"(fact 5)", "120"},
		{"(define f (lambda () (g)))", "#<LAMBDA (G)>"},
		{"(define g (lambda () 42))", "#<LAMBDA 42>"},
		{"(f)", "42"},
	})
}

func TestHigherOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.lisp")
	defer teardown()
	//
	in := newInterpreter(1024, heap.MarkReversal)
	checkEval(t, in, []evalCase{
		{"(map (lambda (x) (* x x)) '(1 2 3))", "(1 4 9)"},
		{"(map car '((a b) (c d)))", "(A C)"},
		{"(reduce + 0 '(1 2 3 4))", "10"},
		{"(reduce cons nil '(1 2))", "((NIL . 1) . 2)"},
		{"(apply + '(1 2))", "3"},
		{"(eval '(+ 1 2))", "3"},
		{"car", "#<BUILTIN/1>"},
		{"+", "#<BUILTIN/n>"},
	})
	if _, err := in.EvalString("(apply + 1)"); !errors.Is(err, ErrType) {
		t.Errorf("expected type error, got %v", err)
	}
}

func TestEvaluationErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.lisp")
	defer teardown()
	//
	in := newInterpreter(512, heap.MarkReversal)
	if _, err := in.EvalString("(foo 1)"); !errors.Is(err, heap.ErrUnbound) {
		t.Errorf("expected unbound symbol, got %v", err)
	}
	if _, err := in.EvalString("(1 2)"); !errors.Is(err, ErrNotCallable) {
		t.Errorf("expected not callable, got %v", err)
	}
	if _, err := in.EvalString("(nil)"); !errors.Is(err, ErrNotCallable) {
		t.Errorf("expected not callable, got %v", err)
	}
	if _, err := in.EvalString("(quote)"); !errors.Is(err, ErrSyntax) {
		t.Errorf("expected syntax error, got %v", err)
	}
	checkScratch(t, in)
	checkEval(t, in, []evalCase{{"(+ 1 1)", "2"}})
}

// Forced collections in the middle of an evaluation must not reclaim
// any intermediate value.
func TestCollectionDuringEvaluation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.lisp")
	defer teardown()
	//
	for _, s := range []heap.MarkStrategy{heap.MarkRecursive, heap.MarkReversal} {
		in := newInterpreter(512, s)
		checkEval(t, in, []evalCase{
			{"(+ 1 (car (cons 2 (gc))))", "3"},
			{"(label g (lambda (x) (cons (gc) x)))", "#<LAMBDA (CONS (GC) X)>"},
			{"(g '(1 2))", "(NIL 1 2)"},
			{"(map (lambda (x) (cons x (gc))) '(1 2))", "((1) (2))"},
			{"(define x (cons 1 2))", "(1 . 2)"},
			{"(gc)", "NIL"},
			{"x", "(1 . 2)"},
		})
		if n := in.Heap().Stats().Collections; n < 5 {
			t.Errorf("%s: expected at least 5 collections, have %d", s, n)
		}
	}
}

// A heap barely larger than the interpreter's resident set forces
// frequent collections.
func TestSmallHeap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.lisp")
	defer teardown()
	//
	for _, s := range []heap.MarkStrategy{heap.MarkRecursive, heap.MarkReversal} {
		in := newInterpreter(600, s)
		checkEval(t, in, []evalCase{
			{"(label fact (lambda (n) (cond ((< n 2) 1) (t (* n (fact (- n 1)))))))",
				"#<LAMBDA (COND ((< N 2) 1) (T (* N (FACT (- N 1)))))>"},
		})
		for i := 0; i < 10; i++ {
			checkEval(t, in, []evalCase{{"(fact 10)", "3628800"}})
		}
		if in.Heap().Stats().Collections == 0 {
			t.Errorf("%s: expected collections to happen", s)
		}
	}
}
