package dictable

import "hash/maphash"

// Hasher computes a key's hash. It must be deterministic for the key's
// lifetime and consistent with the dictionary's Equaler: equal keys must
// hash equally.
type Hasher[K comparable] func(K) (uint64, error)

// Equaler reports whether two keys are equal. The == shortcut is always
// tried first, so an Equaler only ever sees keys that are not identical.
type Equaler[K comparable] func(a, b K) (bool, error)

// defaultSeed is shared by every dictionary that does not override its
// hasher, so hashes carried across dictionaries (Merge, cursor reuse)
// stay comparable.
var defaultSeed = maphash.MakeSeed()

// MakeHasher builds a Hasher on top of hash/maphash with the given seed.
func MakeHasher[K comparable](seed maphash.Seed) Hasher[K] {
	return func(k K) (uint64, error) {
		return maphash.Comparable(seed, k), nil
	}
}

func defaultHasher[K comparable]() Hasher[K] {
	return MakeHasher[K](defaultSeed)
}

func defaultEqualer[K comparable](a, b K) (bool, error) {
	return a == b, nil
}
