package column

// bitmap is a packed validity bitmap: 64 cells per uint64, set bit = present.
// Length bookkeeping lives in the owning column.
type bitmap struct {
	bits []uint64
}

func newBitmap(n int, set bool) bitmap {
	words := (n + 63) / 64
	b := bitmap{bits: make([]uint64, words)}
	if set {
		for i := range b.bits {
			b.bits[i] = ^uint64(0)
		}
	}
	return b
}

func (b *bitmap) get(i int) bool {
	return (b.bits[i/64] & (1 << (i % 64))) != 0
}

func (b *bitmap) set(i int, v bool) {
	if v {
		b.bits[i/64] |= 1 << (i % 64)
	} else {
		b.bits[i/64] &^= 1 << (i % 64)
	}
}

// appendBit appends the bit for cell position n (the current length).
func (b *bitmap) appendBit(n int, v bool) {
	if n/64 >= len(b.bits) {
		b.bits = append(b.bits, 0)
	}
	b.set(n, v)
}

func (b *bitmap) clone() bitmap {
	out := bitmap{bits: make([]uint64, len(b.bits))}
	copy(out.bits, b.bits)
	return out
}

// countUnset returns how many of the first n cells are unset (NA).
func (b *bitmap) countUnset(n int) int {
	na := 0
	for i := 0; i < n; i++ {
		if !b.get(i) {
			na++
		}
	}
	return na
}
