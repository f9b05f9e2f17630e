package union

// OrManyHeap unions bitmaps together by draining a priority queue of
// per-bitmap cursors, always advancing whichever cursor currently sits
// on the smallest chunk key and lazily folding same-key containers
// together, the Go port of roaring_bitmap_or_many_heap. It never
// mutates any of the input bitmaps.
func OrManyHeap(bitmaps []*Bitmap, stats ...*Stats) (*Bitmap, error) {
	st := firstStats(stats)

	nonEmpty := make([]*Bitmap, 0, len(bitmaps))
	for _, bm := range bitmaps {
		if bm != nil && bm.Size() > 0 {
			nonEmpty = append(nonEmpty, bm)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return newBitmap(), nil
	case 1:
		return nonEmpty[0].cloneDeep(), nil
	}

	pq := newPQ(nonEmpty)
	result := newBitmap()

	for pq.Len() > 0 {
		top := pq.peek()
		key := top.key()

		pending := unwrapShared(top.container()).Clone()
		pq.replaceTop(top.advance())

		for pq.Len() > 0 && pq.peek().key() == key {
			next := pq.popTop()
			merged, err := containerLazyIOR(pending, next.container())
			if err != nil {
				if st != nil {
					st.AllocFailures.Inc()
				}
				return nil, err
			}
			pending = merged
			if advanced := next.advance(); !advanced.exhausted() {
				heapPush(&pq, advanced)
			}
		}

		if st != nil {
			st.Folds.Inc()
		}
		result.chunks.append(key, pending)
	}

	if err := repairAfterLazy(result); err != nil {
		return nil, err
	}
	return result, nil
}

// heapPush appends c and sifts it up, the same work container/heap's
// Push does, written out so call sites read like the rest of the pq.go
// vocabulary.
func heapPush(h *pqHeap, c cursor) {
	*h = append(*h, c)
	fixUp(h, len(*h)-1)
}

// fixUp sifts the element at index i up toward the root until its
// parent no longer orders after it under less.
func fixUp(h *pqHeap, i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less((*h)[i], (*h)[parent]) {
			break
		}
		(*h)[i], (*h)[parent] = (*h)[parent], (*h)[i]
		i = parent
	}
}

// containerLazyIOR folds src into dst in place where possible, skipping
// cardinality maintenance on any bitset it touches. Fullness is checked
// immediately after each union call, never deferred past an early
// return, which is the fix for the container library's known "or_many"
// bug class where a full-run short-circuit could be skipped by a stray
// break before the check ran.
func containerLazyIOR(dst, src Container) (Container, error) {
	if isFullContainer(dst) || isFullContainer(src) {
		return newFullRunContainer(), nil
	}

	switch d := dst.(type) {
	case *arrayContainer:
		switch s := src.(type) {
		case *arrayContainer:
			result := arrayArrayLazyUnion(d, s)
			return afterFullnessCheck(result), nil
		case *bitsetContainer:
			result := arrayBitsetLazyUnion(d, s)
			return afterFullnessCheck(result), nil
		case *runContainer:
			result := arrayRunUnion(d, s)
			return afterFullnessCheck(result), nil
		}
	case *bitsetContainer:
		switch s := src.(type) {
		case *arrayContainer:
			s2 := newBitsetContainer()
			s2.copyFrom(d)
			s2.setList(s.values)
			s2.card = BitsetUnknownCardinality
			return afterFullnessCheck(s2), nil
		case *bitsetContainer:
			bitsetBitsetLazyUnion(d, d, s)
			return afterFullnessCheck(d), nil
		case *runContainer:
			if s.isFull() {
				return newFullRunContainer(), nil
			}
			result := runBitsetLazyUnion(s, d)
			return afterFullnessCheck(result), nil
		}
	case *runContainer:
		switch s := src.(type) {
		case *arrayContainer:
			result := arrayRunInplaceUnion(s, d)
			return afterFullnessCheck(result), nil
		case *bitsetContainer:
			result := runBitsetLazyUnion(d, s)
			return afterFullnessCheck(result), nil
		case *runContainer:
			runRunInplaceUnion(d, s)
			return afterFullnessCheck(d), nil
		}
	}
	return nil, &AllocError{Variant: dst.Type(), Size: 0}
}

func afterFullnessCheck(c Container) Container {
	if isFullContainer(c) {
		return newFullRunContainer()
	}
	return c
}
