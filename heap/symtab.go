package heap

// The symbol table is a chain of pairs hanging off the symbols root.
// Each link's left points to an entry pair (symbol-cell . text-cell):
//
//     symbols → [ • | • ] → [ • | • ] → … → Nil
//                 ↓
//               [ sym | text ]
//
// Interning a new name costs four cells: symbol, text, entry and link.

// Intern returns the id for name, creating a new entry if name has not
// been seen before. Ids are handed out densely, starting at 0, in order
// of first occurrence.
//
// Interning more than MaxSymbols distinct names panics with
// ErrSymbolTableFull. Names must be non-empty and shorter than NameLength.
func (h *Heap) Intern(name string) SymbolID {
	if id, ok := h.findName(name); ok {
		return id
	}
	if len(name) == 0 || len(name) >= NameLength {
		panic(fatalf(ErrInvariant, "cannot intern name %q of length %d", name, len(name)))
	}
	if int(h.nextSym) >= MaxSymbols {
		tracer().Errorf("symbol table full, cannot intern %q", name)
		panic(fatalf(ErrSymbolTableFull, "%d symbols interned", MaxSymbols))
	}
	h.Reserve(4)
	id := h.nextSym
	sym := h.MakeSymbol(id)
	text := h.MakeText(name)
	entry := h.MakePair(sym, text)
	h.symbols = h.MakePair(entry, h.symbols)
	h.nextSym++
	tracer().Debugf("interned %q as symbol %d", name, id)
	return id
}

// Resolve returns the name interned for id. Resolving an id which has
// never been handed out is an invariant violation.
func (h *Heap) Resolve(id SymbolID) string {
	entry, ok := h.findID(id)
	if !ok {
		panic(fatalf(ErrInvariant, "symbol id %d not in symbol table", id))
	}
	return h.TextValue(h.cells[entry].right)
}

// SymbolCell returns the symbol cell of the table entry for id. The cell
// is reachable from the symbols root for the lifetime of the heap and may
// be shared by any structure referring to the symbol.
func (h *Heap) SymbolCell(id SymbolID) Ref {
	entry, ok := h.findID(id)
	if !ok {
		panic(fatalf(ErrInvariant, "symbol id %d not in symbol table", id))
	}
	return h.cells[entry].left
}

// SymbolCount returns the number of interned names.
func (h *Heap) SymbolCount() int {
	return int(h.nextSym)
}

func (h *Heap) findName(name string) (SymbolID, bool) {
	for link := h.symbols; link != Nil; link = h.cells[link].right {
		entry := h.entry(link)
		if h.TextValue(h.cells[entry].right) == name {
			return h.SymbolValue(h.cells[entry].left), true
		}
	}
	return 0, false
}

func (h *Heap) findID(id SymbolID) (Ref, bool) {
	for link := h.symbols; link != Nil; link = h.cells[link].right {
		entry := h.entry(link)
		if h.SymbolValue(h.cells[entry].left) == id {
			return entry, true
		}
	}
	return Nil, false
}

func (h *Heap) entry(link Ref) Ref {
	if h.cells[link].typ != Pair {
		panic(fatalf(ErrInvariant, "symbol table link %d is %s", link, h.cells[link].typ))
	}
	entry := h.cells[link].left
	if entry == Nil || h.cells[entry].typ != Pair {
		panic(fatalf(ErrInvariant, "malformed symbol table entry at %d", link))
	}
	return entry
}
