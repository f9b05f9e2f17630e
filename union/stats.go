package union

import "go.uber.org/atomic"

// Stats accumulates coarse counters across one or more ContainerOrMany
// / OrManyHeap calls. Its fields are safe for concurrent use from
// multiple goroutines sharing the same *Stats (§5): every mutation goes
// through go.uber.org/atomic, the same library nakama's runtime uses
// for its own cross-goroutine counters.
type Stats struct {
	// Folds counts fold work: ContainerOrMany adds its input count when
	// a multi-container call runs its fold to the end, and OrManyHeap
	// adds one per result chunk it builds.
	Folds atomic.Int64
	// Promotions counts array-to-bitset or run-to-bitset accumulator
	// promotions.
	Promotions atomic.Int64
	// AllocFailures counts AllocError returns observed by callers that
	// chose to report them here.
	AllocFailures atomic.Int64
}

// StatsSnapshot is a point-in-time, non-atomic copy of Stats for
// logging or assertions.
type StatsSnapshot struct {
	Folds         int64
	Promotions    int64
	AllocFailures int64
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Folds:         s.Folds.Load(),
		Promotions:    s.Promotions.Load(),
		AllocFailures: s.AllocFailures.Load(),
	}
}
