// Package union implements the many-way union (OR-many) core of a
// Roaring-style compressed bitmap: per-chunk multi-way container union
// (ContainerOrMany) and cross-chunk heap-driven bitmap aggregation
// (OrManyHeap). Construction, serialization and iteration of whole
// bitmaps are intentionally minimal here; they belong to an enclosing
// bitmap layer that this package does not attempt to replace.
package union
