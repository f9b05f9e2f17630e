package union

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOrManyHeapEmptyAndSingle(t *testing.T) {
	out, err := OrManyHeap(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", out.Size())
	}

	bm, _ := NewBitmapFromChunks([]uint16{0}, []Container{NewArrayContainer([]uint16{1, 2, 3})})
	out, err = OrManyHeap([]*Bitmap{bm})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Size() != 1 || out.ContainerAtIndex(0).Cardinality() != 3 {
		t.Fatalf("single-bitmap union changed shape: size=%d", out.Size())
	}
}

func TestOrManyHeapMergesSameKeyAcrossBitmaps(t *testing.T) {
	Convey("OrManyHeap folds same-key containers across bitmaps", t, func() {
		bm1, _ := NewBitmapFromChunks([]uint16{0, 5}, []Container{
			NewArrayContainer([]uint16{1, 2}), NewArrayContainer([]uint16{9}),
		})
		bm2, _ := NewBitmapFromChunks([]uint16{0, 3}, []Container{
			NewArrayContainer([]uint16{2, 3}), NewArrayContainer([]uint16{7}),
		})
		out, err := OrManyHeap([]*Bitmap{bm1, bm2})
		So(err, ShouldBeNil)
		So(out.Size(), ShouldEqual, 3)

		So(len(out.Values()), ShouldEqual, 5)
	})
}

func TestOrManyHeapDoesNotMutateInputs(t *testing.T) {
	bm1, _ := NewBitmapFromChunks([]uint16{0}, []Container{NewArrayContainer([]uint16{1, 2})})
	bm2, _ := NewBitmapFromChunks([]uint16{0}, []Container{NewArrayContainer([]uint16{3, 4})})
	before1 := bm1.ContainerAtIndex(0).Cardinality()
	before2 := bm2.ContainerAtIndex(0).Cardinality()

	if _, err := OrManyHeap([]*Bitmap{bm1, bm2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bm1.ContainerAtIndex(0).Cardinality() != before1 {
		t.Fatal("bm1 was mutated by OrManyHeap")
	}
	if bm2.ContainerAtIndex(0).Cardinality() != before2 {
		t.Fatal("bm2 was mutated by OrManyHeap")
	}
}

func TestOrManyHeapMergesOverlappingRunsAtSameKey(t *testing.T) {
	Convey("OrManyHeap merges overlapping run containers into disjoint runs", t, func() {
		bm1, _ := NewBitmapFromChunks([]uint16{0}, []Container{newRunContainerRange(0, 5)}) // {0..4}
		bm2, _ := NewBitmapFromChunks([]uint16{0}, []Container{newRunContainerRange(3, 8)}) // {3..7}

		out, err := OrManyHeap([]*Bitmap{bm1, bm2})
		So(err, ShouldBeNil)
		So(out.Size(), ShouldEqual, 1)
		So(out.ContainerAtIndex(0).Cardinality(), ShouldEqual, 8)

		values := out.Values()
		So(len(values), ShouldEqual, 8)
		for i, v := range values {
			So(v, ShouldEqual, uint32(i))
		}
	})
}

func TestOrManyHeapAcrossManyChunks(t *testing.T) {
	keys := []uint16{0, 1, 2, 3}
	containers := make([]Container, len(keys))
	for i := range keys {
		containers[i] = NewArrayContainer([]uint16{uint16(i)})
	}
	bm, _ := NewBitmapFromChunks(keys, containers)
	out, err := OrManyHeap([]*Bitmap{bm, bm.cloneDeep()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Size() != len(keys) {
		t.Fatalf("Size() = %d, want %d", out.Size(), len(keys))
	}
	for i, k := range keys {
		if out.KeyAtIndex(i) != k {
			t.Fatalf("KeyAtIndex(%d) = %d, want %d", i, out.KeyAtIndex(i), k)
		}
		if out.ContainerAtIndex(i).Cardinality() != 1 {
			t.Fatalf("chunk %d cardinality = %d, want 1", k, out.ContainerAtIndex(i).Cardinality())
		}
	}
}
