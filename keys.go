package dictable

import "fmt"

const (
	// Index table sentinels. Live cells hold an entry index (>= 0).
	ixEmpty     int32 = -1
	ixTombstone int32 = -2

	minTableSize = 8

	// maxTableSize is the largest index table we allocate. Table sizes are
	// powers of two and entry indices must stay representable as int32.
	maxTableSize = 1 << 30

	perturbShift = 5
)

// entry is one slot in a keysTable. Entries are kept in insertion order;
// the value and live fields are meaningful in combined mode only (split
// holders keep values in their own valueStore). A dead entry stays in
// place until the next rebuild so that sibling entry indices and the
// probe sequences over the index table remain valid.
type entry[K comparable, V any] struct {
	hash  uint64
	key   K
	value V
	live  bool
}

// keysTable is the lookup engine under Dict: a dense, insertion-ordered
// entries array plus an open-addressed index table of entry indices.
//
// The index table length is a power of two and its fill (live cells plus
// tombstones) never exceeds usableFraction of it, so probe loops always
// terminate on an empty cell. Tombstones are reclaimed only by a rebuild.
//
// A table is either combined (value stored in the entry, exactly one
// owning Dict) or split (keys shared by any number of holders, each with
// a private valueStore). Split tables are append-only: entries are never
// removed or reordered while more than one holder can see them.
type keysTable[K comparable, V any] struct {
	indices []int32
	entries []entry[K, V]

	// usable counts insertions left before a rebuild is mandatory. It is
	// not returned by deletions: tombstones keep consuming index cells.
	usable int

	// tombs is the number of dead entries (combined mode only).
	tombs int

	// refs counts the Dicts (and template) referencing this table.
	refs int

	split bool

	// version is the lazily assigned keys-version, zero while unassigned.
	// Reset to zero on any shape change.
	version uint32
}

func newKeysTable[K comparable, V any](indexSize int) *keysTable[K, V] {
	usable := usableFraction(indexSize)
	indices := make([]int32, indexSize)
	for i := range indices {
		indices[i] = ixEmpty
	}
	return &keysTable[K, V]{
		indices: indices,
		entries: make([]entry[K, V], 0, usable),
		usable:  usable,
		refs:    1,
	}
}

// probe walks the index table for key, returning the entry index (>= 0)
// and the position of its index cell, or -1 if the key is absent.
//
// The probe sequence is derived from the full hash: the upper bits are
// mixed in through the perturb term so that keys colliding on the low
// bits still take distinct paths. Identical keys (==) short-circuit the
// equality callback.
func (kt *keysTable[K, V]) probe(key K, hash uint64, eq Equaler[K]) (int, uint64, error) {
	mask := uint64(len(kt.indices) - 1)
	i := hash & mask
	perturb := hash
	for {
		ix := kt.indices[i]
		if ix == ixEmpty {
			return -1, i, nil
		}
		if ix >= 0 {
			e := &kt.entries[ix]
			if e.hash == hash {
				if e.key == key {
					return int(ix), i, nil
				}
				ok, err := eq(e.key, key)
				if err != nil {
					return -1, i, fmt.Errorf("dictable: equality callback: %w", err)
				}
				if ok {
					return int(ix), i, nil
				}
			}
		}
		perturb >>= perturbShift
		i = (i*5 + perturb + 1) & mask
	}
}

// findEmptyCell locates the index cell a brand-new key lands in. It skips
// tombstones: they are never reused in place, only reclaimed by rebuild.
func (kt *keysTable[K, V]) findEmptyCell(hash uint64) uint64 {
	mask := uint64(len(kt.indices) - 1)
	i := hash & mask
	perturb := hash
	for kt.indices[i] != ixEmpty {
		perturb >>= perturbShift
		i = (i*5 + perturb + 1) & mask
	}
	return i
}

// appendEntry adds a key known to be absent, returning its entry index.
// The caller is responsible for checking usable beforehand and for
// storing the value (entry value for combined, holder store for split).
func (kt *keysTable[K, V]) appendEntry(key K, hash uint64) int {
	return kt.appendEntryAt(kt.findEmptyCell(hash), key, hash)
}

// appendEntryAt is appendEntry with the target index cell already known,
// typically from the probe that reported the key absent.
func (kt *keysTable[K, V]) appendEntryAt(cell uint64, key K, hash uint64) int {
	ix := len(kt.entries)
	kt.entries = append(kt.entries, entry[K, V]{hash: hash, key: key, live: true})
	kt.indices[cell] = int32(ix)
	kt.usable--
	kt.version = 0
	return ix
}

// killEntry tombstones a live combined-mode entry. The index cell keeps
// consuming probe space; the entry payload is dropped immediately.
func (kt *keysTable[K, V]) killEntry(cell uint64, ix int) {
	kt.indices[cell] = ixTombstone
	kt.entries[ix] = entry[K, V]{}
	kt.tombs++
	kt.version = 0
}

// shared reports whether any other Dict (or a template) can observe this
// table.
func (kt *keysTable[K, V]) shared() bool {
	return kt.refs > 1
}
