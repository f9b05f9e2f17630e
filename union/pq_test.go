package union

import "testing"

func TestNewPQSkipsEmptyBitmaps(t *testing.T) {
	empty := newBitmap()
	nonEmpty, _ := NewBitmapFromChunks([]uint16{0}, []Container{NewArrayContainer([]uint16{1})})
	h := newPQ([]*Bitmap{empty, nonEmpty, empty})
	if h.Len() != 1 {
		t.Fatalf("heap length = %d, want 1", h.Len())
	}
}

func TestLessOrdersByKeyFirst(t *testing.T) {
	bmLow, _ := NewBitmapFromChunks([]uint16{1}, []Container{NewArrayContainer([]uint16{1})})
	bmHigh, _ := NewBitmapFromChunks([]uint16{2}, []Container{NewArrayContainer([]uint16{1})})
	a := cursor{bm: bmLow, idx: 0}
	b := cursor{bm: bmHigh, idx: 0}
	if !less(a, b) {
		t.Fatal("expected lower chunk key to sort first")
	}
	if less(b, a) {
		t.Fatal("expected higher chunk key not to sort first")
	}
}

func TestLessOrdersLargerContainerFirstAtSameKey(t *testing.T) {
	bmArray, _ := NewBitmapFromChunks([]uint16{0}, []Container{NewArrayContainer([]uint16{1})})
	bmRun, _ := NewBitmapFromChunks([]uint16{0}, []Container{newRunContainerRange(0, 5)})
	a := cursor{bm: bmArray, idx: 0}
	r := cursor{bm: bmRun, idx: 0}
	if !less(r, a) {
		t.Fatal("expected the 5-member run container to sort before the 1-member array container at the same key")
	}
}

func TestPQDrainsInKeyOrder(t *testing.T) {
	bm1, _ := NewBitmapFromChunks([]uint16{0, 2}, []Container{
		NewArrayContainer([]uint16{1}), NewArrayContainer([]uint16{1}),
	})
	bm2, _ := NewBitmapFromChunks([]uint16{1}, []Container{NewArrayContainer([]uint16{1})})
	h := newPQ([]*Bitmap{bm1, bm2})

	var keys []uint16
	for h.Len() > 0 {
		top := h.peek()
		keys = append(keys, top.key())
		h.replaceTop(top.advance())
	}
	want := []uint16{0, 1, 2}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}
