package union

// Cross-type union primitives, one per pair of container variants that
// can actually occur, ported from the container library's
// mixed_union.c. Every *LazyUnion variant skips bitset cardinality
// maintenance, leaving BitsetUnknownCardinality behind for repair to
// resolve later (invariant 5).

// arrayBitsetUnion returns a bitset with every value from a and b set,
// with an exact cardinality.
func arrayBitsetUnion(a *arrayContainer, b *bitsetContainer) *bitsetContainer {
	out := newBitsetContainer()
	out.copyFrom(b)
	out.card = out.setListWithCard(a.values, b.Cardinality())
	return out
}

// arrayBitsetLazyUnion is arrayBitsetUnion without cardinality
// maintenance.
func arrayBitsetLazyUnion(a *arrayContainer, b *bitsetContainer) *bitsetContainer {
	out := newBitsetContainer()
	out.copyFrom(b)
	out.setList(a.values)
	out.card = BitsetUnknownCardinality
	return out
}

// runBitsetUnion returns a bitset with every value from r and b set,
// with an exact cardinality. r must not be full; callers are expected
// to have already special-cased full runs upstream (§7.2).
func runBitsetUnion(r *runContainer, b *bitsetContainer) *bitsetContainer {
	if r.isFull() {
		panic("union: runBitsetUnion called with a full run container")
	}
	out := newBitsetContainer()
	out.copyFrom(b)
	card := out.Cardinality()
	for _, run := range r.runs {
		card += setRangeCardDelta(out, run)
	}
	out.card = card
	return out
}

// runBitsetLazyUnion is runBitsetUnion without cardinality maintenance.
func runBitsetLazyUnion(r *runContainer, b *bitsetContainer) *bitsetContainer {
	if r.isFull() {
		panic("union: runBitsetLazyUnion called with a full run container")
	}
	out := newBitsetContainer()
	out.copyFrom(b)
	for _, run := range r.runs {
		out.setLenRange(run.start, int(run.length)+1)
	}
	out.card = BitsetUnknownCardinality
	return out
}

// setRangeCardDelta sets a run's bit range on b and returns how many
// previously-unset bits it added.
func setRangeCardDelta(b *bitsetContainer, run runInterval) int {
	before := b.computeCardinality()
	b.setLenRange(run.start, int(run.length)+1)
	return b.computeCardinality() - before
}

// arrayRunUnion returns the sorted-run union of an array and a run
// container, built by walking both in lockstep and folding array values
// into runs as they're encountered.
func arrayRunUnion(a *arrayContainer, r *runContainer) *runContainer {
	out := newRunContainerGivenCapacity(len(a.values) + len(r.runs))
	ai, ri := 0, 0
	for ai < len(a.values) && ri < len(r.runs) {
		run := r.runs[ri]
		if a.values[ai] < run.start {
			out.appendRunValue(a.values[ai])
			ai++
			continue
		}
		if int(a.values[ai]) < run.end() {
			// value already covered by this run: consume values but don't
			// double count, then emit the run once we fall behind it again.
			for ai < len(a.values) && int(a.values[ai]) < run.end() {
				ai++
			}
			out.appendRun(run)
			ri++
			continue
		}
		out.appendRun(run)
		ri++
	}
	for ; ai < len(a.values); ai++ {
		out.appendRunValue(a.values[ai])
	}
	for ; ri < len(r.runs); ri++ {
		out.appendRun(r.runs[ri])
	}
	return out
}

// arrayRunInplaceUnion computes the same result as arrayRunUnion and
// stores it in r, matching the contract's in-place entry point. The C
// original grows r's backing array and
// memmoves the existing runs to the tail before merging forward into
// the freed head; this port takes the simpler and equally correct
// route of merging into a fresh buffer and only then swapping it into
// r, since Go slice growth doesn't expose the same amortized-copy
// incentive that trick was chasing.
func arrayRunInplaceUnion(a *arrayContainer, r *runContainer) *runContainer {
	merged := arrayRunUnion(a, r)
	r.runs = merged.runs
	return r
}

// arrayArrayUnion returns the plain sorted union of two array
// containers as an array, with no threshold promotion.
func arrayArrayUnion(a, b *arrayContainer) *arrayContainer {
	out := newArrayContainerGivenCapacity(len(a.values) + len(b.values))
	out.values = unionUint16(out.values, a.values, b.values)
	return out
}

// arrayArrayUnionThreshold returns the union of two array containers,
// promoting to a bitset once the combined upper bound on cardinality
// exceeds threshold. eager controls whether the resulting bitset (if
// any) gets an exact or unknown cardinality.
func arrayArrayUnionThreshold(a, b *arrayContainer, threshold int, eager bool) Container {
	bound := len(a.values) + len(b.values)
	if bound <= threshold {
		return arrayArrayUnion(a, b)
	}
	out := newBitsetContainer()
	if eager {
		out.card = out.setListWithCard(a.values, 0)
		out.card = out.setListWithCard(b.values, out.card)
	} else {
		out.setList(a.values)
		out.setList(b.values)
		out.card = BitsetUnknownCardinality
	}
	return out
}

// arrayArrayUnionEager promotes to an exact-cardinality bitset once the
// union could plausibly exceed ArrayThreshold.
func arrayArrayUnionEager(a, b *arrayContainer) Container {
	return arrayArrayUnionThreshold(a, b, ArrayThreshold, true)
}

// arrayArrayLazyUnion promotes to an unknown-cardinality bitset once
// the union could plausibly exceed ArrayLazyLowerBound, a higher bar
// than the eager path since the caller plans to keep unioning before
// anyone needs the cardinality.
func arrayArrayLazyUnion(a, b *arrayContainer) Container {
	return arrayArrayUnionThreshold(a, b, ArrayLazyLowerBound, false)
}

// bitsetBitsetLazyUnion ORs two bitsets' words without maintaining
// cardinality, leaving the sentinel behind for repair.
func bitsetBitsetLazyUnion(dst, a, b *bitsetContainer) {
	orWords(dst, a, b)
	dst.card = BitsetUnknownCardinality
}

// runRunInplaceUnion folds src's runs into dst in place.
func runRunInplaceUnion(dst, src *runContainer) {
	dst.unionInPlace(src)
}
