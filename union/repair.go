package union

// repairAfterLazy finalizes a bitmap produced by lazy unions: every
// bitset container left with a deferred cardinality gets it computed,
// and every container gets a chance to shrink to its most compact
// representation. Ported from roaring_bitmap_repair_after_lazy.
func repairAfterLazy(b *Bitmap) error {
	for i := 0; i < b.chunks.size(); i++ {
		c := b.chunks.containerAtIndex(i)
		if bs, ok := c.(*bitsetContainer); ok && bs.card == BitsetUnknownCardinality {
			bs.Cardinality()
		}
		b.chunks.containers[i] = runOptimize(c)
	}
	return nil
}
