package union

import "testing"

func TestNewBitmapFromChunksRejectsMismatchedLengths(t *testing.T) {
	_, err := NewBitmapFromChunks([]uint16{0, 1}, []Container{NewArrayContainer([]uint16{1})})
	if err == nil {
		t.Fatal("expected error for mismatched keys/containers lengths")
	}
}

func TestNewBitmapFromChunksRejectsUnsortedKeys(t *testing.T) {
	_, err := NewBitmapFromChunks(
		[]uint16{5, 1},
		[]Container{NewArrayContainer([]uint16{1}), NewArrayContainer([]uint16{1})},
	)
	if err == nil {
		t.Fatal("expected error for unsorted keys")
	}
}

func TestBitmapValuesSpansChunks(t *testing.T) {
	bm, err := NewBitmapFromChunks(
		[]uint16{0, 1},
		[]Container{NewArrayContainer([]uint16{1, 2}), NewArrayContainer([]uint16{3})},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values := bm.Values()
	want := []uint32{1, 2, 1<<16 | 3}
	if len(values) != len(want) {
		t.Fatalf("values = %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("values = %v, want %v", values, want)
		}
	}
}

func TestBitmapCloneDeepIsIndependent(t *testing.T) {
	bm, _ := NewBitmapFromChunks([]uint16{0}, []Container{NewArrayContainer([]uint16{1, 2})})
	clone := bm.cloneDeep()
	clone.ContainerAtIndex(0).(*arrayContainer).values[0] = 99
	if bm.ContainerAtIndex(0).(*arrayContainer).values[0] == 99 {
		t.Fatal("cloneDeep shared backing storage with the original")
	}
}
