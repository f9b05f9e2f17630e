package union

import "sort"

// chunkIndex is the parallel keys/containers layout roaringArray uses:
// sorted, duplicate-free chunk keys with a same-length containers
// slice, rather than a map, so iteration in key order is a plain scan.
type chunkIndex struct {
	keys       []uint16
	containers []Container
}

func (c *chunkIndex) size() int { return len(c.keys) }

func (c *chunkIndex) keyAtIndex(i int) uint16 { return c.keys[i] }

func (c *chunkIndex) containerAtIndex(i int) Container { return c.containers[i] }

// append adds a (key, container) pair. Callers must supply keys in
// strictly increasing order, matching how OrManyHeap and
// NewBitmapFromChunks build chunk sequences.
func (c *chunkIndex) append(key uint16, container Container) {
	c.keys = append(c.keys, key)
	c.containers = append(c.containers, container)
}

func (c *chunkIndex) clone() chunkIndex {
	out := chunkIndex{
		keys:       append([]uint16(nil), c.keys...),
		containers: make([]Container, len(c.containers)),
	}
	for i, ctr := range c.containers {
		out.containers[i] = ctr.Clone()
	}
	return out
}

// Bitmap is a minimal sorted sequence of (chunk key, Container) pairs.
// Construction, serialization and full iteration belong to an enclosing
// bitmap layer (§1 non-goals); this type exists only as the substrate
// OrManyHeap needs to walk and produce bitmaps.
type Bitmap struct {
	chunks chunkIndex
}

func newBitmap() *Bitmap {
	return &Bitmap{}
}

// NewBitmapFromChunks builds a Bitmap from sorted, duplicate-free chunk
// keys and their containers. It is the minimal construction surface
// this package needs to be independently testable and usable without a
// full bitmap implementation sitting in front of it.
func NewBitmapFromChunks(keys []uint16, containers []Container) (*Bitmap, error) {
	if len(keys) != len(containers) {
		return nil, &AllocError{Size: len(keys)}
	}
	if !sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i] < keys[j] }) {
		return nil, &AllocError{Size: len(keys)}
	}
	b := newBitmap()
	b.chunks.keys = append(b.chunks.keys, keys...)
	b.chunks.containers = append(b.chunks.containers, containers...)
	return b, nil
}

func (b *Bitmap) Size() int { return b.chunks.size() }

func (b *Bitmap) KeyAtIndex(i int) uint16 { return b.chunks.keyAtIndex(i) }

func (b *Bitmap) ContainerAtIndex(i int) Container { return b.chunks.containerAtIndex(i) }

func (b *Bitmap) cloneDeep() *Bitmap {
	return &Bitmap{chunks: b.chunks.clone()}
}

// Values expands every chunk back into plain uint32 values, in
// ascending order. It exists for tests and small-scale debugging, not
// as a production iteration path — an enclosing bitmap layer would
// offer a real iterator instead of a full materialization.
func (b *Bitmap) Values() []uint32 {
	out := make([]uint32, 0)
	for i := 0; i < b.chunks.size(); i++ {
		high := uint32(b.chunks.keyAtIndex(i)) << 16
		c := b.chunks.containerAtIndex(i)
		switch v := unwrapShared(c).(type) {
		case *arrayContainer:
			for _, lo := range v.values {
				out = append(out, high|uint32(lo))
			}
		case *bitsetContainer:
			for _, lo := range v.extractSetBits() {
				out = append(out, high|uint32(lo))
			}
		case *runContainer:
			for _, run := range v.runs {
				for lo := int(run.start); lo < run.end(); lo++ {
					out = append(out, high|uint32(lo))
				}
			}
		}
	}
	return out
}
