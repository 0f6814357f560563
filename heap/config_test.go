package heap

import (
	"testing"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestConfiguredDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cellar.heap")
	defer teardown()
	//
	defer gconf.Initialize(testconfig.Conf{})
	gconf.Initialize(testconfig.Conf{
		"gc-mark-strategy":  "recursive",
		"gc-verify-restore": "true",
		"trace-gc":          "true",
	})
	h := New(WithCapacity(8))
	if h.Strategy() != MarkRecursive || !h.verify || !h.traceGC {
		t.Errorf("heap did not pick up configuration: %s, verify=%v", h.Strategy(), h.verify)
	}
	h = New(WithCapacity(8), WithMarkStrategy(MarkReversal), WithRestoreCheck(false))
	if h.Strategy() != MarkReversal || h.verify {
		t.Errorf("options must override configuration")
	}
	gconf.Initialize(testconfig.Conf{})
	if New(WithCapacity(8)).Strategy() != MarkReversal {
		t.Errorf("expected pointer reversal as default strategy")
	}
}

func TestMarkStrategyFromString(t *testing.T) {
	for in, expected := range map[string]MarkStrategy{
		"recursive":   MarkRecursive,
		" Recursive ": MarkRecursive,
		"reversal":    MarkReversal,
		"":            MarkReversal,
		"other":       MarkReversal,
	} {
		if got := MarkStrategyFromString(in); got != expected {
			t.Errorf("%q: expected %s, got %s", in, expected, got)
		}
	}
}
