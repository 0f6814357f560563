package heap

import (
	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// link is the serialized form of a cell's links, for digesting.
type link struct {
	L, R Ref
}

// LinkDigest returns a SHA-1 digest over the links of Nil and of every
// arena cell. Marking must leave the digest unchanged.
func (h *Heap) LinkDigest() []byte {
	links := make([]link, 0, len(h.cells))
	links = append(links, link{h.cells[Nil].left, h.cells[Nil].right})
	for r := firstCell; int(r) < len(h.cells); r++ {
		links = append(links, link{h.cells[r].left, h.cells[r].right})
	}
	return structhash.Sha1(links, 1)
}

// Reached marks the cell graph from both roots with the given strategy and
// returns the set of reached arena cells. Marks are reset afterwards and
// nothing is reclaimed. Reached is used to compare strategies.
func (h *Heap) Reached(strategy MarkStrategy) *treeset.Set {
	if h.collecting {
		panic(fatalf(ErrInvariant, "collection re-entered"))
	}
	h.collecting = true
	defer func() { h.collecting = false }()
	for _, r := range h.roots() {
		h.mark(r, strategy)
	}
	set := treeset.NewWith(utils.UInt32Comparator)
	for r := firstCell; int(r) < len(h.cells); r++ {
		c := &h.cells[r]
		if c.mark == Visited {
			set.Add(uint32(r))
		}
		c.mark = Unvisited
	}
	return set
}
