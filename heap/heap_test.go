package heap

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func expectFatal(t *testing.T, kind error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		fe, ok := r.(*FatalError)
		if !ok {
			t.Fatalf("expected fatal error %q, got %v", kind, r)
		}
		if !errors.Is(fe, kind) {
			t.Errorf("expected fatal error %q, got %q", kind, fe)
		}
	}()
	f()
}

func TestAllocateAscending(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.heap")
	defer teardown()
	//
	h := New(WithCapacity(8))
	if h.FreeCount() != 8 {
		t.Fatalf("expected 8 free cells, have %d", h.FreeCount())
	}
	a, b := h.Allocate(), h.Allocate()
	if a != firstCell || b != firstCell+1 {
		t.Errorf("expected cells %d and %d, got %d and %d", firstCell, firstCell+1, a, b)
	}
	if h.Type(a) != Pair || h.Left(a) != Nil || h.Right(a) != Nil {
		t.Errorf("fresh cell should be an empty pair, is %s", h.String(a))
	}
	if h.FreeCount() != 6 {
		t.Errorf("expected 6 free cells, have %d", h.FreeCount())
	}
}

func TestConstructors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.heap")
	defer teardown()
	//
	h := New(WithCapacity(16))
	n := h.MakeNumber(3.5)
	if h.Type(n) != Number || h.NumberValue(n) != 3.5 {
		t.Errorf("number cell broken: %s", h.String(n))
	}
	x := h.MakeText("LAMBDA")
	if h.TextValue(x) != "LAMBDA" {
		t.Errorf("expected text LAMBDA, got %q", h.TextValue(x))
	}
	p := h.MakePair(n, x)
	if h.Left(p) != n || h.Right(p) != x {
		t.Errorf("pair links broken: %s", h.String(p))
	}
	f := h.MakeNative(func(args []Ref) (Ref, error) { return Nil, nil }, Variadic)
	if _, arity := h.NativeValue(f); arity != Variadic {
		t.Errorf("expected variadic builtin, arity is %d", arity)
	}
	c := h.MakeClosure(p, Nil, Nil)
	if h.Type(c) != Closure || h.Left(c) != p || h.Left(h.Right(c)) != Nil {
		t.Errorf("closure links broken: %s", h.String(c))
	}
	expectFatal(t, ErrInvariant, func() { h.NumberValue(x) })
	expectFatal(t, ErrInvariant, func() { h.MakeText("TOOLONGNAME") })
}

func TestNilIsImmutable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.heap")
	defer teardown()
	//
	h := New(WithCapacity(4))
	r := h.Allocate()
	expectFatal(t, ErrInvariant, func() { h.SetRight(Nil, r) })
	expectFatal(t, ErrInvariant, func() { h.SetLeft(Nil, r) })
}

func TestExhaustion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.heap")
	defer teardown()
	//
	for _, s := range []MarkStrategy{MarkRecursive, MarkReversal} {
		h := New(WithCapacity(4), WithMarkStrategy(s))
		last := h.Allocate()
		h.SetEnv(last)
		for i := 1; i < 4; i++ {
			r := h.Allocate()
			h.SetRight(last, r)
			last = r
		}
		expectFatal(t, ErrOutOfCells, func() { h.Allocate() })
		if h.Stats().Collections != 1 {
			t.Errorf("expected a collection before giving up, have %d", h.Stats().Collections)
		}
	}
}

func TestGarbageIsRecycled(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.heap")
	defer teardown()
	//
	h := New(WithCapacity(4))
	for i := 0; i < 4; i++ {
		h.Allocate()
	}
	r := h.Allocate()
	if r != firstCell {
		t.Errorf("expected lowest cell after collection, got %d", r)
	}
	hist := h.History()
	if len(hist) != 1 || hist[0].Reclaimed != 4 || hist[0].Marked != 0 {
		t.Errorf("unexpected collection history %+v", hist)
	}
}

func TestReserve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.heap")
	defer teardown()
	//
	h := New(WithCapacity(4))
	h.Allocate()
	h.Allocate()
	h.Allocate()
	h.Reserve(2) // collects the three garbage cells
	if h.FreeCount() != 4 {
		t.Errorf("expected 4 free cells after reserve, have %d", h.FreeCount())
	}
	expectFatal(t, ErrOutOfCells, func() { h.Reserve(5) })
}

// Conservation: with k reachable cells, a collection of a full heap
// reclaims exactly capacity-k cells.
func TestConservation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.heap")
	defer teardown()
	//
	const capacity = 16
	for _, s := range []MarkStrategy{MarkRecursive, MarkReversal} {
		h := New(WithCapacity(capacity), WithMarkStrategy(s), WithRestoreCheck(true))
		var list Ref = Nil
		for i := 0; i < 3; i++ {
			n := h.MakeNumber(float64(i))
			list = h.MakePair(n, list)
			h.SetEnv(list)
		}
		k := 6
		for h.FreeCount() > 0 {
			h.MakeNumber(99)
		}
		if got := h.Collect(); got != capacity-k {
			t.Errorf("%s: expected %d reclaimed cells, got %d", s, capacity-k, got)
		}
		if h.FreeCount() != capacity-k {
			t.Errorf("%s: expected %d free cells, have %d", s, capacity-k, h.FreeCount())
		}
		if got := h.Collect(); got != 0 {
			t.Errorf("%s: second collection should reclaim nothing, got %d", s, got)
		}
		st := h.Stats()
		if st.Collections != 2 || st.Reclaimed != capacity-k {
			t.Errorf("%s: unexpected stats %+v", s, st)
		}
		if h.NumberValue(h.Left(h.Env())) != 2 {
			t.Errorf("%s: live list damaged", s)
		}
	}
}
