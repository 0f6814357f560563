package heap

import (
	"bytes"
)

// Stats summarizes the allocation history of a heap.
type Stats struct {
	Capacity    int // number of arena cells
	Free        int // current length of the free list
	Allocations int // cells handed out since creation
	Collections int // completed collection cycles
	Reclaimed   int // cells returned to the free list, summed over all cycles
}

// CollectionReport describes a single collection cycle.
type CollectionReport struct {
	Cycle     int
	Strategy  MarkStrategy
	Marked    int // cells reached from the roots
	Reclaimed int // previously allocated cells returned to the free list
	Live      int // cells not on the free list after the cycle
}

// maxHistory bounds the number of retained collection reports.
const maxHistory = 32

// Stats returns a snapshot of the heap's counters.
func (h *Heap) Stats() Stats {
	s := h.stats
	s.Free = h.nfree
	return s
}

// History returns the reports of the most recent collection cycles,
// oldest first.
func (h *Heap) History() []CollectionReport {
	reports := make([]CollectionReport, 0, h.history.Size())
	for _, v := range h.history.Values() {
		reports = append(reports, v.(CollectionReport))
	}
	return reports
}

// Collect runs a full mark and sweep cycle and returns the number of
// reclaimed cells. Cells reachable from the symbol table or from the
// environment survive, all other arena cells end up on the free list,
// ordered by ascending index.
func (h *Heap) Collect() int {
	if h.collecting {
		panic(fatalf(ErrInvariant, "collection re-entered"))
	}
	h.collecting = true
	defer func() { h.collecting = false }()
	var before []byte
	if h.verify {
		before = h.LinkDigest()
	}
	marked := 0
	for _, r := range h.roots() {
		marked += h.mark(r, h.strategy)
	}
	if h.verify {
		if after := h.LinkDigest(); !bytes.Equal(before, after) {
			panic(fatalf(ErrInvariant, "links not restored after %s marking", h.strategy))
		}
	}
	reclaimed := h.sweep()
	h.stats.Collections++
	h.stats.Reclaimed += reclaimed
	report := CollectionReport{
		Cycle:     h.stats.Collections,
		Strategy:  h.strategy,
		Marked:    marked,
		Reclaimed: reclaimed,
		Live:      h.Capacity() - h.nfree,
	}
	h.history.Add(report)
	if h.history.Size() > maxHistory {
		h.history.Remove(0)
	}
	if h.traceGC {
		tracer().P("gc", report.Cycle).Infof("%s marking: %d marked, %d reclaimed, %d live",
			report.Strategy, marked, reclaimed, report.Live)
	} else {
		tracer().Debugf("gc #%d: %d reclaimed, %d free", report.Cycle, reclaimed, h.nfree)
	}
	return reclaimed
}

// sweep rebuilds the free list from scratch. Marked cells are reset to
// Unvisited, unmarked cells become Free. Iterating from the top of the
// arena downwards leaves the free list in ascending order. Cells which
// were already free are relinked but not counted as reclaimed.
func (h *Heap) sweep() int {
	reclaimed := 0
	h.free, h.nfree = Nil, 0
	for r := Ref(len(h.cells)) - 1; r >= firstCell; r-- {
		c := &h.cells[r]
		if c.mark != Unvisited {
			if c.mark != Visited {
				panic(fatalf(ErrInvariant, "cell %d left partially marked (%d)", r, c.mark))
			}
			c.mark = Unvisited
			continue
		}
		if c.typ != Free {
			reclaimed++
		}
		*c = cell{typ: Free, left: Nil, right: h.free}
		h.free = r
		h.nfree++
	}
	return reclaimed
}
