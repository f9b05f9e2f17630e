package union

import "testing"

func TestArrayBitsetUnion(t *testing.T) {
	a := NewArrayContainer([]uint16{1, 2, 3}).(*arrayContainer)
	b := newBitsetContainer()
	b.card = b.setListWithCard([]uint16{3, 4, 5}, 0)
	out := arrayBitsetUnion(a, b)
	if out.Cardinality() != 5 {
		t.Fatalf("cardinality = %d, want 5", out.Cardinality())
	}
}

func TestRunBitsetUnion(t *testing.T) {
	r := newRunContainerRange(0, 3) // {0,1,2}
	b := newBitsetContainer()
	b.card = b.setListWithCard([]uint16{2, 5}, 0)
	out := runBitsetUnion(r, b)
	if out.Cardinality() != 4 { // {0,1,2,5}
		t.Fatalf("cardinality = %d, want 4", out.Cardinality())
	}
}

func TestRunBitsetUnionPanicsOnFullRun(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for full run container")
		}
	}()
	runBitsetUnion(newFullRunContainer(), newBitsetContainer())
}

func TestArrayRunUnion(t *testing.T) {
	a := NewArrayContainer([]uint16{0, 5, 20}).(*arrayContainer)
	r := newRunContainerRange(3, 7) // [3,7)
	out := arrayRunUnion(a, r)
	want := []uint32{0, 3, 4, 5, 6, 20}
	got := runToArray(out)
	if len(got.values) != len(want) {
		t.Fatalf("values = %v, want %v", got.values, want)
	}
	for i, v := range got.values {
		if uint32(v) != want[i] {
			t.Fatalf("values[%d] = %d, want %d", i, v, want[i])
		}
	}
}

func TestArrayArrayLazyUnionPromotes(t *testing.T) {
	old := ArrayLazyLowerBound
	ArrayLazyLowerBound = 4
	defer func() { ArrayLazyLowerBound = old }()

	a := NewArrayContainer([]uint16{1, 2}).(*arrayContainer)
	b := NewArrayContainer([]uint16{3, 4, 5}).(*arrayContainer)
	out := arrayArrayLazyUnion(a, b)
	bs, ok := out.(*bitsetContainer)
	if !ok {
		t.Fatalf("type = %T, want *bitsetContainer", out)
	}
	if bs.card != BitsetUnknownCardinality {
		t.Fatalf("card = %d, want unknown sentinel", bs.card)
	}
}

func TestBitsetBitsetLazyUnionLeavesCardinalityUnknown(t *testing.T) {
	a := newBitsetContainer()
	a.setBit(1)
	b := newBitsetContainer()
	b.setBit(2)
	dst := newBitsetContainer()
	bitsetBitsetLazyUnion(dst, a, b)
	if dst.card != BitsetUnknownCardinality {
		t.Fatalf("card = %d, want unknown sentinel", dst.card)
	}
	if dst.Cardinality() != 2 {
		t.Fatalf("resolved cardinality = %d, want 2", dst.Cardinality())
	}
}
