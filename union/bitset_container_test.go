package union

import "testing"

func TestBitsetSetBitAndCardinality(t *testing.T) {
	b := newBitsetContainer()
	b.card = 0
	for _, v := range []uint16{1, 64, 65, 1000, 65535} {
		if !b.setBit(v) {
			t.Fatalf("setBit(%d) returned false on first set", v)
		}
	}
	if b.setBit(64) {
		t.Fatalf("setBit(64) returned true on duplicate set")
	}
	if got := b.computeCardinality(); got != 5 {
		t.Fatalf("computeCardinality = %d, want 5", got)
	}
}

func TestBitsetSetLenRange(t *testing.T) {
	cases := []struct {
		start  uint16
		length int
	}{
		{0, 1},
		{0, 64},
		{63, 2},
		{100, 500},
		{0, fullCardinality},
	}
	for _, c := range cases {
		b := newBitsetContainer()
		b.setLenRange(c.start, c.length)
		if got := b.computeCardinality(); got != c.length {
			t.Errorf("setLenRange(%d, %d): cardinality = %d, want %d", c.start, c.length, got, c.length)
		}
		bits := b.extractSetBits()
		for i, v := range bits {
			want := int(c.start) + i
			if int(v) != want {
				t.Fatalf("setLenRange(%d, %d): bit %d = %d, want %d", c.start, c.length, i, v, want)
			}
		}
	}
}

func TestBitsetUnknownCardinalityResolves(t *testing.T) {
	b := newBitsetContainer()
	b.setBit(5)
	b.setBit(6)
	b.card = BitsetUnknownCardinality
	if got := b.Cardinality(); got != 2 {
		t.Fatalf("Cardinality() = %d, want 2", got)
	}
	if b.card != 2 {
		t.Fatalf("card field not resolved, still %d", b.card)
	}
}

func TestOrWords(t *testing.T) {
	a := newBitsetContainer()
	a.setBit(1)
	b := newBitsetContainer()
	b.setBit(2)
	dst := newBitsetContainer()
	orWords(dst, a, b)
	dst.card = dst.computeCardinality()
	if dst.card != 2 {
		t.Fatalf("cardinality = %d, want 2", dst.card)
	}
}
