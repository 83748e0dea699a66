package dictable

import "math/bits"

// Returns the next power of 2 for the given value `v`.
func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len64(uint64(v-1))
}

// usableFraction is the number of entries a table with an index array of
// the given size can hold before a grow becomes mandatory. Keeping it at
// 2/3 bounds the probe chains.
func usableFraction(indexSize int) int {
	return (indexSize << 1) / 3
}

// growthSize picks the index size for a rebuilt table holding `used` live
// entries: the smallest power of two that leaves the table at most 1/3
// full afterwards.
func growthSize(used int) int {
	size := nextPowerOfTwo(3 * (used + 1))
	if size < minTableSize {
		size = minTableSize
	}
	return size
}

// presizedTableSize picks the smallest index size whose usable fraction
// covers n entries without growing.
func presizedTableSize(n int) int {
	size := minTableSize
	for usableFraction(size) < n && size < maxTableSize {
		size <<= 1
	}
	return size
}
