package heap

// mark marks every cell reachable from r with the heap's strategy and
// returns the number of cells newly marked.
func (h *Heap) mark(r Ref, strategy MarkStrategy) int {
	if strategy == MarkRecursive {
		return h.markRecursive(r)
	}
	return h.markReversal(r)
}

// markRecursive recurses on left links and iterates along right links,
// so the recursion depth is bounded by the nesting depth of left links.
func (h *Heap) markRecursive(r Ref) int {
	count := 0
	for {
		c := &h.cells[r]
		if c.mark == Visited {
			return count
		}
		if c.typ == Free {
			panic(fatalf(ErrInvariant, "free cell %d is reachable", r))
		}
		c.mark = Visited
		count++
		if c.typ.IsLeaf() {
			return count
		}
		count += h.markRecursive(c.left)
		r = c.right
	}
}

// markReversal marks without an auxiliary stack. The path back to the
// root is kept in the links of the cells on the current path: on every
// visit of an interior cell its (left, right, parent) triple is rotated,
// so after the third visit both links hold their original values again.
// The cell's mark counts the visits. Leaf children are marked in place
// and never entered.
//
// The virtual root is set up as a parent whose next visit is its last,
// with its right link holding r. Nil is permanently Visited and acts as
// the terminal of every chain.
func (h *Heap) markReversal(r Ref) int {
	cells := h.cells
	root := &cells[r]
	if root.mark == Visited {
		return 0
	}
	if root.typ == Free {
		panic(fatalf(ErrInvariant, "free cell %d is reachable", r))
	}
	if root.typ.IsLeaf() {
		root.mark = Visited
		return 1
	}
	cells[vroot] = cell{typ: Pair, mark: LeftDone, left: Nil, right: r}
	count := 0
	current, previous := r, vroot
	for current != vroot {
		cur := &cells[current]
		if cur.mark == Visited {
			panic(fatalf(ErrInvariant, "marking re-entered completed cell %d", current))
		}
		cur.mark++
		if cur.mark == Visited {
			count++
		}
		left := &cells[cur.left]
		if left.typ == Free {
			panic(fatalf(ErrInvariant, "free cell %d is reachable", cur.left))
		}
		if left.typ.IsLeaf() && left.mark != Visited {
			left.mark = Visited
			count++
		}
		if cur.mark == Visited || left.mark == Unvisited {
			// advance: descend into the left link
			next := cur.left
			cur.left, cur.right = cur.right, previous
			previous = current
			current = next
		} else {
			// rotate in place: the left link is done or already marked
			l := cur.left
			cur.left, cur.right = cur.right, previous
			previous = l
		}
	}
	return count
}
