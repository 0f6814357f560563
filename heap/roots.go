package heap

// Symbols returns the head of the symbol table chain.
func (h *Heap) Symbols() Ref {
	return h.symbols
}

// SetSymbols replaces the symbol table root.
func (h *Heap) SetSymbols(r Ref) {
	h.symbols = r
}

// Env returns the head of the environment chain.
func (h *Heap) Env() Ref {
	return h.env
}

// SetEnv replaces the environment root. Cells reachable only from the
// previous environment become garbage.
func (h *Heap) SetEnv(r Ref) {
	h.env = r
}

// roots lists the roots of the cell graph in marking order.
func (h *Heap) roots() [2]Ref {
	return [2]Ref{h.symbols, h.env}
}
