package main

import (
	"testing"

	"github.com/npillmayer/cellar/heap"
	"github.com/npillmayer/cellar/lisp/reader"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pterm/pterm"
)

func TestLeveledCells(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.repl")
	defer teardown()
	//
	intp, err := newIntp(1024)
	if err != nil {
		t.Fatal(err)
	}
	data, err := reader.Read("(cons 'a (cons '(b c) 'd))")
	if err != nil {
		t.Fatal(err)
	}
	r, err := intp.lisp.Eval(data[0])
	if err != nil {
		t.Fatal(err)
	}
	ll := leveledCells(intp.lisp, r, pterm.LeveledList{}, 0)
	expected := []pterm.LeveledListItem{
		{Level: 0, Text: "A"},
		{Level: 1, Text: "B"},
		{Level: 1, Text: "C"},
		{Level: 0, Text: ". D"},
	}
	if len(ll) != len(expected) {
		t.Fatalf("expected %d items, got %v", len(expected), ll)
	}
	for i, item := range ll {
		if item != expected[i] {
			t.Errorf("item %d: expected %v, got %v", i, expected[i], item)
		}
	}
}

func TestHistoryTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.repl")
	defer teardown()
	//
	data := historyTable([]heap.CollectionReport{
		{Cycle: 1, Strategy: heap.MarkRecursive, Marked: 10, Reclaimed: 5, Live: 10},
	})
	if len(data) != 2 || data[1][1] != "recursive" || data[1][3] != "5" {
		t.Errorf("unexpected table %v", data)
	}
}

func TestExecute(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.repl")
	defer teardown()
	//
	intp, err := newIntp(512)
	if err != nil {
		t.Fatal(err)
	}
	if intp.Execute(":gc") || intp.Execute(":stats") {
		t.Errorf("commands must not quit the REPL")
	}
	if !intp.Execute(":quit") {
		t.Errorf(":quit should quit the REPL")
	}
	if intp.lisp.Heap().Stats().Collections != 1 {
		t.Errorf("expected one collection")
	}
	if _, err := newIntp(16); err == nil {
		t.Errorf("expected a fatal error for a heap too small for the interpreter")
	}
}
