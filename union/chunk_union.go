package union

// ContainerOrMany folds containers into a single container representing
// their union, using only bitset and run accumulators (never array) as
// the accumulator type, per the container library's preferred
// container_or_many strategy: promoting to an array accumulator only to
// immediately re-promote to a bitset on the next fold wastes work, so
// array inputs are folded straight into whichever accumulator is
// already running.
//
// containers must be non-empty pointers into a single chunk; the
// caller is responsible for having grouped them by chunk key.
func ContainerOrMany(containers []Container, stats ...*Stats) (Container, error) {
	st := firstStats(stats)
	switch len(containers) {
	case 0:
		return nil, nil
	case 1:
		return unwrapShared(containers[0]).Clone(), nil
	}

	for _, c := range containers {
		if isFullContainer(c) {
			return newFullRunContainer(), nil
		}
	}

	var (
		bitsetAcc *bitsetContainer
		runAcc    *runContainer
	)

	fold := func(c Container) error {
		switch v := unwrapShared(c).(type) {
		case *arrayContainer:
			switch {
			case bitsetAcc != nil:
				bitsetAcc.setList(v.values)
				bitsetAcc.card = BitsetUnknownCardinality
				promoteLog("array folded into bitset accumulator", len(v.values))
			case runAcc != nil:
				runAcc = arrayRunInplaceUnion(v, runAcc)
			default:
				bitsetAcc = newBitsetContainerFromArray(v)
				bitsetAcc.card = BitsetUnknownCardinality
				if st != nil {
					st.Promotions.Inc()
				}
			}
		case *bitsetContainer:
			switch {
			case bitsetAcc != nil:
				bitsetBitsetLazyUnion(bitsetAcc, bitsetAcc, v)
			case runAcc != nil:
				promoted := runBitsetLazyUnion(runAcc, v)
				bitsetAcc = promoted
				runAcc = nil
				if st != nil {
					st.Promotions.Inc()
				}
			default:
				bitsetAcc = v.Clone().(*bitsetContainer)
				bitsetAcc.card = BitsetUnknownCardinality
			}
		case *runContainer:
			if v.isFull() {
				return errFullRun
			}
			switch {
			case bitsetAcc != nil:
				promoted := runBitsetLazyUnion(v, bitsetAcc)
				bitsetAcc = promoted
			case runAcc != nil:
				runRunInplaceUnion(runAcc, v)
			default:
				runAcc = v.Clone().(*runContainer)
			}
		}
		return nil
	}

	for _, c := range containers {
		if err := fold(c); err == errFullRun {
			return newFullRunContainer(), nil
		}
		if runAcc != nil && runAcc.isFull() {
			return newFullRunContainer(), nil
		}
		if bitsetAcc != nil && isUnknownCardinalityBitset(bitsetAcc) {
			bitsetAcc.Cardinality()
			if bitsetAcc.card == fullCardinality {
				return newFullRunContainer(), nil
			}
			bitsetAcc.card = BitsetUnknownCardinality
		}
	}

	if st != nil {
		st.Folds.Add(int64(len(containers)))
	}

	if bitsetAcc != nil {
		return runOptimize(bitsetAcc), nil
	}
	return runOptimize(runAcc), nil
}

var errFullRun = &allocLikeSentinel{"full run container encountered mid-fold"}

// allocLikeSentinel is a tiny internal control-flow error, never
// surfaced to callers of ContainerOrMany.
type allocLikeSentinel struct{ msg string }

func (e *allocLikeSentinel) Error() string { return e.msg }

func firstStats(stats []*Stats) *Stats {
	if len(stats) == 0 {
		return nil
	}
	return stats[0]
}

// runOptimize converts c to its canonical variant after a union
// completes: a bitset with at most ArrayThreshold members becomes an
// array, a larger bitset becomes a run container when that is smaller
// than the bitset, and a run container becomes whichever of run, array
// or bitset is smallest. Array containers are returned unchanged. Apart
// from the single-input clone, it is the only place ContainerOrMany
// produces an array result, since the fold loop itself only ever
// accumulates bitset or run containers.
func runOptimize(c Container) Container {
	switch v := c.(type) {
	case *bitsetContainer:
		v.Cardinality()
		if v.card <= ArrayThreshold {
			return bitsetToArray(v)
		}
		if asRun, ok := tryBitsetToRun(v); ok {
			return canonicalizeRun(asRun)
		}
		return v
	case *runContainer:
		return canonicalizeRun(v)
	default:
		return c
	}
}

// canonicalizeRun demotes a run container to array or bitset when
// either would be smaller, mirroring the container library's
// convert_run_to_efficient_container.
func canonicalizeRun(r *runContainer) Container {
	card := r.cardinality()
	runBytes := r.byteSize()
	arrayBytes := card * 2
	bitsetBytes := bitsetWords * 8
	switch {
	case runBytes <= arrayBytes && runBytes <= bitsetBytes:
		return r
	case arrayBytes <= bitsetBytes:
		return runToArray(r)
	default:
		return runToBitset(r)
	}
}

// tryBitsetToRun converts a bitset to runs only when doing so is
// worthwhile, i.e. when the resulting run byte size beats the bitset's
// fixed size.
func tryBitsetToRun(b *bitsetContainer) (*runContainer, bool) {
	values := b.extractSetBits()
	runs := computeRunsFromSortedValues(values)
	if runs.byteSize() >= bitsetWords*8 {
		return nil, false
	}
	return runs, true
}

func computeRunsFromSortedValues(values []uint16) *runContainer {
	rc := newRunContainerGivenCapacity(len(values))
	for _, v := range values {
		rc.appendRunValue(v)
	}
	return rc
}

func bitsetToArray(b *bitsetContainer) *arrayContainer {
	out := newArrayContainerGivenCapacity(b.Cardinality())
	out.values = b.extractSetBits()
	return out
}

func runToArray(r *runContainer) *arrayContainer {
	out := newArrayContainerGivenCapacity(r.cardinality())
	for _, run := range r.runs {
		for v := int(run.start); v < run.end(); v++ {
			out.values = append(out.values, uint16(v))
		}
	}
	return out
}

func runToBitset(r *runContainer) *bitsetContainer {
	out := newBitsetContainer()
	for _, run := range r.runs {
		out.setLenRange(run.start, int(run.length)+1)
	}
	out.card = r.cardinality()
	return out
}

func promoteLog(msg string, n int) {
	logger.Debug(msg, zapIntField("count", n))
}
