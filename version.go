package dictable

import "sync/atomic"

// Version tags are drawn from process-wide counters so that no two
// dictionaries ever hand out the same tag. Per-dictionary access is
// single-writer by contract, but distinct dictionaries may live on
// distinct goroutines, hence the atomics.
var (
	versionCounter     atomic.Uint64
	keysVersionCounter atomic.Uint32
)

func nextVersion() uint64 {
	return versionCounter.Add(1)
}

// Version returns the dictionary's current version tag. The tag changes
// on every mutating call and is unique across all dictionaries, so a
// caller can cache "key k resolved to v as of version t" and later
// compare tags instead of values.
func (d *Dict[K, V]) Version() uint64 {
	return d.version
}

// KeysVersion returns a number identifying the current shape of the
// dictionary's key layout, or zero when no unique number can be
// guaranteed (the layout is shared, or the counter space is exhausted).
// Callers must treat zero as "do not cache". The number is invalidated
// by any shape change: key insertion, deletion, or rebuild.
func KeysVersion[K comparable, V any](d *Dict[K, V]) uint32 {
	kt := d.keys
	if kt.split || kt.shared() {
		return 0
	}
	if kt.version == 0 {
		v := keysVersionCounter.Add(1)
		if v == 0 {
			return 0
		}
		kt.version = v
	}
	return kt.version
}

// Guard captures a dictionary's version tag so a caller can later detect
// whether the dictionary has possibly changed.
type Guard[K comparable, V any] struct {
	dict    *Dict[K, V]
	version uint64
}

func NewGuard[K comparable, V any](d *Dict[K, V]) Guard[K, V] {
	return Guard[K, V]{dict: d, version: d.version}
}

// Check reports whether the dictionary is still at the captured version.
func (g Guard[K, V]) Check() bool {
	return g.dict.version == g.version
}
