package heap

import "fmt"

// An environment is a chain of links, each pointing to a binding pair
// (symbol-cell . value):
//
//     env → [ • | • ] → [ • | • ] → … → Nil
//             ↓
//           [ sym | value ]
//
// Extending an environment shares the old chain as the tail of the new
// one, so every environment ever returned stays valid.

// Lookup searches env from its head and returns the value of the first
// binding for id. If there is none, it returns an *UnboundError.
func (h *Heap) Lookup(id SymbolID, env Ref) (Ref, error) {
	for link := env; link != Nil; link = h.cells[link].right {
		b := h.Binding(link)
		if h.SymbolValue(h.cells[b].left) == id {
			return h.cells[b].right, nil
		}
	}
	name, ok := h.nameOf(id)
	if !ok {
		name = fmt.Sprintf("#%d", id)
	}
	return Nil, &UnboundError{Symbol: id, Name: name}
}

// Extend allocates a binding of id to value in front of env and returns the
// new environment head. The binding refers to the symbol table's cell for
// id. value and env must be reachable from a root.
func (h *Heap) Extend(env Ref, id SymbolID, value Ref) Ref {
	sym := h.SymbolCell(id)
	h.Reserve(2)
	b := h.MakePair(sym, value)
	return h.MakePair(b, env)
}

// Binding returns the binding pair an environment link points to.
func (h *Heap) Binding(link Ref) Ref {
	c := h.at(link)
	if link == Nil || c.typ != Pair {
		panic(fatalf(ErrInvariant, "environment link %d is %s", link, c.typ))
	}
	b := c.left
	if b == Nil || h.cells[b].typ != Pair || h.cells[h.cells[b].left].typ != Symbol {
		panic(fatalf(ErrInvariant, "malformed binding at environment link %d", link))
	}
	return b
}

// Rebind overwrites the value of the head binding of env. This is how a
// binding is back-patched to refer to a value that captured the binding
// itself, which creates a cycle in the cell graph.
func (h *Heap) Rebind(env, value Ref) {
	h.cells[h.Binding(env)].right = value
}

// BindingValue returns the value of the head binding of env.
func (h *Heap) BindingValue(env Ref) Ref {
	return h.cells[h.Binding(env)].right
}

func (h *Heap) nameOf(id SymbolID) (string, bool) {
	entry, ok := h.findID(id)
	if !ok {
		return "", false
	}
	return h.TextValue(h.cells[entry].right), true
}
