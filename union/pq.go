package union

import "container/heap"

// cursor is one bitmap's position in the heap-driven aggregation walk,
// the Go analogue of roaring_pq_element_s{bitmap, idx}.
type cursor struct {
	bm  *Bitmap
	idx int
}

func (c cursor) exhausted() bool { return c.idx >= c.bm.Size() }

func (c cursor) key() uint16 { return c.bm.KeyAtIndex(c.idx) }

func (c cursor) container() Container { return c.bm.ContainerAtIndex(c.idx) }

func (c cursor) advance() cursor { return cursor{bm: c.bm, idx: c.idx + 1} }

// pqHeap is a container/heap.Interface over cursors, ordered by the
// four-criteria comparator documented on less(): chunk key first, then
// full containers, then bitsets with a deferred cardinality, then larger
// containers first.
type pqHeap []cursor

func (h pqHeap) Len() int { return len(h) }

func (h pqHeap) Less(i, j int) bool { return less(h[i], h[j]) }

func (h pqHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pqHeap) Push(x interface{}) {
	*h = append(*h, x.(cursor))
}

func (h *pqHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// less is compare() from roaring_priority_queue.c, corrected: the
// original's second UNKNOWN-cardinality tiebreak re-tests the first
// element's type and bitset twice instead of testing the second
// element, which made the comparator occasionally order two run
// containers as if the second one were an untested bitset. Here each
// criterion inspects its own side. The criteria, in order: smaller
// chunk key first; at equal keys a full container first, then a bitset
// whose cardinality is still unknown, then the larger sizeEstimate.
func less(a, b cursor) bool {
	if a.key() != b.key() {
		return a.key() < b.key()
	}
	ca, cb := a.container(), b.container()
	if fa, fb := knownFull(ca), knownFull(cb); fa != fb {
		return fa
	}
	if ua, ub := isUnknownCardinalityBitset(ca), isUnknownCardinalityBitset(cb); ua != ub {
		return ua
	}
	return sizeEstimate(ca) > sizeEstimate(cb)
}

// knownFull reports fullness without resolving a deferred bitset
// cardinality, so an unknown-cardinality bitset counts as not full.
func knownFull(c Container) bool {
	if b, ok := c.(*bitsetContainer); ok {
		return b.card == fullCardinality
	}
	return isFullContainer(c)
}

// containerTypeRank ranks the container types: run 0, bitset 1,
// array 2.
func containerTypeRank(t ContainerType) int {
	switch t {
	case RunContainerType:
		return 0
	case BitsetContainerType:
		return 1
	case ArrayContainerType:
		return 2
	default:
		return 3
	}
}

// newPQ builds a compacted heap over every bitmap's first chunk,
// skipping empty bitmaps entirely. The C original's create_pq indexes
// answer->elements[i] by the source loop variable even when a bitmap is
// skipped, leaving uninitialized gaps in the backing array whenever an
// empty bitmap precedes a non-empty one; appending unconditionally here
// makes that class of bug unrepresentable.
func newPQ(bitmaps []*Bitmap) pqHeap {
	h := make(pqHeap, 0, len(bitmaps))
	for _, bm := range bitmaps {
		if bm.Size() == 0 {
			continue
		}
		h = append(h, cursor{bm: bm, idx: 0})
	}
	heap.Init(&h)
	return h
}

func (h *pqHeap) peek() cursor {
	return (*h)[0]
}

func (h *pqHeap) popTop() cursor {
	return heap.Pop(h).(cursor)
}

// replaceTop swaps the root for c (or drops it if c is exhausted) and
// restores the heap property, avoiding a full pop+push pair.
func (h *pqHeap) replaceTop(c cursor) {
	if c.exhausted() {
		heap.Pop(h)
		return
	}
	(*h)[0] = c
	heap.Fix(h, 0)
}
