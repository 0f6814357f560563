package cellar

import "testing"

func TestSpan(t *testing.T) {
	s := Span{4, 9}
	if s.From() != 4 || s.To() != 9 || s.Len() != 5 {
		t.Errorf("span accessors broken for %v", s)
	}
	if s.IsNull() || !(Span{}).IsNull() {
		t.Errorf("null span detection broken")
	}
	if e := s.Extend(Span{1, 6}); e != (Span{1, 9}) {
		t.Errorf("expected (1…9), got %v", e)
	}
	if s.String() != "(4…9)" {
		t.Errorf("unexpected span string %s", s)
	}
}
