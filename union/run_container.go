package union

// runInterval is one run: the closed interval [start, start+length].
// length stores count-1 so a single run can still express the full
// 65,536-value universe without overflowing uint16.
type runInterval struct {
	start  uint16
	length uint16
}

func (r runInterval) end() int { return int(r.start) + int(r.length) + 1 } // exclusive

// runContainer is a sorted, non-overlapping, non-adjacent sequence of
// runs.
type runContainer struct {
	runs []runInterval
}

func newRunContainerGivenCapacity(capacity int) *runContainer {
	mustCapacity(checkRunCapacity(capacity))
	return &runContainer{runs: make([]runInterval, 0, capacity)}
}

// newRunContainerRange builds a single run covering [start, end).
func newRunContainerRange(start, end int) *runContainer {
	rc := newRunContainerGivenCapacity(1)
	rc.runs = append(rc.runs, runInterval{start: uint16(start), length: uint16(end - start - 1)})
	return rc
}

func newFullRunContainer() *runContainer {
	return newRunContainerRange(0, fullCardinality)
}

// NewRunContainer constructs a run container from a sorted, disjoint,
// non-adjacent list of [start, start+length) runs, given as (start,
// count) pairs. It exists so callers outside this package can exercise
// ContainerOrMany directly; full bitmap construction is out of scope.
func NewRunContainer(starts, counts []uint16) Container {
	rc := newRunContainerGivenCapacity(len(starts))
	for i := range starts {
		rc.runs = append(rc.runs, runInterval{start: starts[i], length: counts[i] - 1})
	}
	return rc
}

func (rc *runContainer) Cardinality() int { return rc.cardinality() }

func (rc *runContainer) Type() ContainerType { return RunContainerType }

func (rc *runContainer) Clone() Container {
	out := newRunContainerGivenCapacity(len(rc.runs))
	out.runs = append(out.runs, rc.runs...)
	return out
}

func (rc *runContainer) sealed() {}

func (rc *runContainer) cardinality() int {
	n := 0
	for _, r := range rc.runs {
		n += int(r.length) + 1
	}
	return n
}

func (rc *runContainer) numRuns() int { return len(rc.runs) }

// byteSize mirrors the wire size of an rle16_t array: one (value, length)
// pair of uint16s per run.
func (rc *runContainer) byteSize() int { return len(rc.runs) * 4 }

func (rc *runContainer) isFull() bool {
	return len(rc.runs) == 1 && rc.runs[0].start == 0 && rc.runs[0].length == fullCardinality-1
}

func (rc *runContainer) grow(minCapacity int) {
	if cap(rc.runs) >= minCapacity {
		return
	}
	grown := make([]runInterval, len(rc.runs), minCapacity)
	copy(grown, rc.runs)
	rc.runs = grown
}

// appendFirst appends the first run emitted into an otherwise-empty
// container.
func (rc *runContainer) appendFirst(r runInterval) {
	rc.runs = append(rc.runs, r)
}

// appendValueFirst appends the first single-value run emitted into an
// otherwise-empty container.
func (rc *runContainer) appendValueFirst(v uint16) {
	rc.runs = append(rc.runs, runInterval{start: v})
}

// append extends the previous run to cover r if r abuts or overlaps it
// (r.start <= previous end), growing to max(previousend, r's end)
// rather than assuming simple adjacency; otherwise it starts a new run.
// Mirrors run_container_append's "vl.value <= previousend+1" merge
// test. Requires at least one run already present.
func (rc *runContainer) append(r runInterval) {
	last := &rc.runs[len(rc.runs)-1]
	lastEnd := last.end()
	if int(r.start) <= lastEnd {
		newEnd := lastEnd
		if end := r.end(); end > newEnd {
			newEnd = end
		}
		last.length = uint16(newEnd - int(last.start) - 1)
		return
	}
	rc.runs = append(rc.runs, r)
}

// appendValue extends the previous run to cover v if v abuts or falls
// within it, else starts a new single-value run. Requires at least one
// run already present.
func (rc *runContainer) appendValue(v uint16) {
	last := &rc.runs[len(rc.runs)-1]
	lastEnd := last.end()
	if int(v) <= lastEnd {
		newEnd := lastEnd
		if end := int(v) + 1; end > newEnd {
			newEnd = end
		}
		last.length = uint16(newEnd - int(last.start) - 1)
		return
	}
	rc.runs = append(rc.runs, runInterval{start: v})
}

// unionInPlace merges src's runs into rc, coalescing adjacent runs,
// replacing rc's backing slice with the merged sequence.
func (rc *runContainer) unionInPlace(src *runContainer) {
	merged := newRunContainerGivenCapacity(len(rc.runs) + len(src.runs))
	i, j := 0, 0
	for i < len(rc.runs) && j < len(src.runs) {
		var r runInterval
		if rc.runs[i].start <= src.runs[j].start {
			r = rc.runs[i]
			i++
		} else {
			r = src.runs[j]
			j++
		}
		merged.appendRun(r)
	}
	for ; i < len(rc.runs); i++ {
		merged.appendRun(rc.runs[i])
	}
	for ; j < len(src.runs); j++ {
		merged.appendRun(src.runs[j])
	}
	rc.runs = merged.runs
}

// appendRun is append/appendFirst unified for callers building a run
// sequence incrementally without tracking whether it's still empty.
func (rc *runContainer) appendRun(r runInterval) {
	if len(rc.runs) == 0 {
		rc.appendFirst(r)
		return
	}
	rc.append(r)
}

// appendRunValue is appendValue/appendValueFirst unified.
func (rc *runContainer) appendRunValue(v uint16) {
	if len(rc.runs) == 0 {
		rc.appendValueFirst(v)
		return
	}
	rc.appendValue(v)
}
