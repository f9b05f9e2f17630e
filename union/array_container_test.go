package union

import "testing"

func TestUnionUint16(t *testing.T) {
	cases := []struct {
		a, b, want []uint16
	}{
		{nil, nil, []uint16{}},
		{[]uint16{1, 2, 3}, nil, []uint16{1, 2, 3}},
		{[]uint16{1, 2, 3}, []uint16{3, 4, 5}, []uint16{1, 2, 3, 4, 5}},
		{[]uint16{1, 3, 5}, []uint16{2, 4, 6}, []uint16{1, 2, 3, 4, 5, 6}},
		{[]uint16{1, 2}, []uint16{1, 2}, []uint16{1, 2}},
	}
	for _, c := range cases {
		got := unionUint16(nil, c.a, c.b)
		if !equalUint16(got, c.want) {
			t.Errorf("unionUint16(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestArrayArrayUnion(t *testing.T) {
	a := NewArrayContainer([]uint16{1, 2, 3}).(*arrayContainer)
	b := NewArrayContainer([]uint16{3, 4, 5}).(*arrayContainer)
	out := arrayArrayUnion(a, b)
	if out.Cardinality() != 5 {
		t.Fatalf("cardinality = %d, want 5", out.Cardinality())
	}
	if !equalUint16(out.values, []uint16{1, 2, 3, 4, 5}) {
		t.Fatalf("values = %v", out.values)
	}
}

func TestArrayArrayUnionThresholdPromotesToBitset(t *testing.T) {
	old := ArrayThreshold
	ArrayThreshold = 4
	defer func() { ArrayThreshold = old }()

	a := NewArrayContainer([]uint16{1, 2, 3}).(*arrayContainer)
	b := NewArrayContainer([]uint16{4, 5, 6}).(*arrayContainer)
	out := arrayArrayUnionEager(a, b)
	if out.Type() != BitsetContainerType {
		t.Fatalf("type = %v, want bitset", out.Type())
	}
	if out.Cardinality() != 6 {
		t.Fatalf("cardinality = %d, want 6", out.Cardinality())
	}
}

func equalUint16(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
