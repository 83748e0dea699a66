package dictable

import (
	"errors"
	"fmt"
	"iter"
)

// Dict is an insertion-ordered associative container. Lookups, inserts
// and deletes are amortized O(1); iteration yields keys in the order
// they were first inserted, with deleted keys omitted.
//
// A Dict owns a combined keysTable, or shares a split one created by a
// KeysTemplate (keys shared, values private). Every mutating call stamps
// the Dict with a fresh, globally unique version tag.
//
// A Dict is not internally synchronized: access is single-writer,
// single-reader-at-a-time. Hash and equality callbacks that mutate the
// dictionary mid-operation are detected on write paths and rejected with
// ErrReentrantMutation; read paths may observe the pre-callback state.
type Dict[K comparable, V any] struct {
	used    int
	version uint64

	// gen counts structural changes (key added or removed, table swapped)
	// and is what invalidates cursors. Value overwrites bump version but
	// not gen.
	gen uint64

	keys   *keysTable[K, V]
	values *valueStore[V]

	hash  Hasher[K]
	equal Equaler[K]
}

type config[K comparable, V any] struct {
	hash  Hasher[K]
	equal Equaler[K]
}

type Option[K comparable, V any] func(*config[K, V])

// WithHasher overrides the default seeded maphash hasher. Dictionaries
// that exchange stored hashes (Merge, template holders) must share a
// hasher.
func WithHasher[K comparable, V any](h Hasher[K]) Option[K, V] {
	return func(c *config[K, V]) {
		c.hash = h
	}
}

// WithEqualer overrides key equality. It must be consistent with the
// hasher: equal keys hash equally. Keys that are == are never passed to
// the Equaler.
func WithEqualer[K comparable, V any](eq Equaler[K]) Option[K, V] {
	return func(c *config[K, V]) {
		c.equal = eq
	}
}

func resolveConfig[K comparable, V any](opts []Option[K, V]) config[K, V] {
	var cfg config[K, V]
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hash == nil {
		cfg.hash = defaultHasher[K]()
	}
	if cfg.equal == nil {
		cfg.equal = defaultEqualer[K]
	}
	return cfg
}

// New returns an empty dictionary with a private combined table.
func New[K comparable, V any](opts ...Option[K, V]) *Dict[K, V] {
	return NewPresized(0, opts...)
}

// NewPresized returns an empty dictionary sized so that n insertions
// will not trigger a grow.
func NewPresized[K comparable, V any](n int, opts ...Option[K, V]) *Dict[K, V] {
	cfg := resolveConfig(opts)
	size := minTableSize
	if n > 0 {
		size = presizedTableSize(n)
	}
	return &Dict[K, V]{
		keys:  newKeysTable[K, V](size),
		hash:  cfg.hash,
		equal: cfg.equal,
	}
}

// FromKeys builds a dictionary whose keys are drawn from seq and whose
// values are all fill. Each key is hashed exactly once per occurrence.
func FromKeys[K comparable, V any](seq iter.Seq[K], fill V, opts ...Option[K, V]) (*Dict[K, V], error) {
	d := New[K, V](opts...)
	for k := range seq {
		if err := d.Set(k, fill); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Len returns the number of live key-value pairs.
func (d *Dict[K, V]) Len() int {
	return d.used
}

func (d *Dict[K, V]) hashKey(key K) (uint64, error) {
	h, err := d.hash(key)
	if err != nil {
		return 0, fmt.Errorf("dictable: hash callback: %w", err)
	}
	return h, nil
}

// valueAt returns the live value this dictionary holds at entry ix.
func (d *Dict[K, V]) valueAt(ix int) (V, bool) {
	return valueIn(d.keys, d.values, ix)
}

// valueIn resolves a probed entry index against a captured table and
// value store. Read paths capture both before probing so that an
// equality callback swapping the dictionary's table mid-probe cannot
// send an old index into a new, shorter entries array; they report the
// pre-callback state instead.
func valueIn[K comparable, V any](kt *keysTable[K, V], vs *valueStore[V], ix int) (V, bool) {
	if vs != nil {
		return vs.value(ix)
	}
	e := &kt.entries[ix]
	if !e.live {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Get returns the value mapped to key. Absence is not an error; only a
// collaborator failure is.
func (d *Dict[K, V]) Get(key K) (V, bool, error) {
	hash, err := d.hashKey(key)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return d.GetKnownHash(key, hash)
}

// GetKnownHash is Get with the key's hash supplied by the caller.
func (d *Dict[K, V]) GetKnownHash(key K, hash uint64) (V, bool, error) {
	var zero V
	kt, vs := d.keys, d.values
	ix, _, err := kt.probe(key, hash, d.equal)
	if err != nil {
		return zero, false, err
	}
	if ix < 0 {
		return zero, false, nil
	}
	v, ok := valueIn(kt, vs, ix)
	return v, ok, nil
}

// Contains reports whether key is present.
func (d *Dict[K, V]) Contains(key K) (bool, error) {
	hash, err := d.hashKey(key)
	if err != nil {
		return false, err
	}
	return d.ContainsKnownHash(key, hash)
}

// ContainsKnownHash is Contains with the key's hash supplied by the
// caller.
func (d *Dict[K, V]) ContainsKnownHash(key K, hash uint64) (bool, error) {
	kt, vs := d.keys, d.values
	ix, _, err := kt.probe(key, hash, d.equal)
	if err != nil {
		return false, err
	}
	if ix < 0 {
		return false, nil
	}
	_, ok := valueIn(kt, vs, ix)
	return ok, nil
}

// Set inserts or overwrites the mapping for key. Overwriting keeps the
// key's original insertion position.
func (d *Dict[K, V]) Set(key K, value V) error {
	hash, err := d.hashKey(key)
	if err != nil {
		return err
	}
	return d.SetKnownHash(key, value, hash)
}

// SetKnownHash is Set with the key's hash supplied by the caller.
func (d *Dict[K, V]) SetKnownHash(key K, value V, hash uint64) error {
	ver := d.version
	ix, cell, err := d.keys.probe(key, hash, d.equal)
	if err != nil {
		return err
	}
	if d.version != ver {
		return ErrReentrantMutation
	}
	if ix < 0 {
		return d.insertFresh(key, value, hash, cell, true)
	}
	d.writeAt(ix, value)
	return nil
}

// SetDefault returns the existing value for key, inserting def first if
// the key is absent. The key is hashed and probed once.
func (d *Dict[K, V]) SetDefault(key K, def V) (V, error) {
	var zero V
	hash, err := d.hashKey(key)
	if err != nil {
		return zero, err
	}
	ver := d.version
	ix, cell, err := d.keys.probe(key, hash, d.equal)
	if err != nil {
		return zero, err
	}
	if d.version != ver {
		return zero, ErrReentrantMutation
	}
	if ix >= 0 {
		if v, ok := d.valueAt(ix); ok {
			return v, nil
		}
		// Key exists in the shared layout but this holder has no value
		// for it yet.
		d.writeAt(ix, def)
		return def, nil
	}
	if err := d.insertFresh(key, def, hash, cell, true); err != nil {
		return zero, err
	}
	return def, nil
}

// Delete removes the mapping for key, or returns ErrKeyMissing.
func (d *Dict[K, V]) Delete(key K) error {
	hash, err := d.hashKey(key)
	if err != nil {
		return err
	}
	return d.DeleteKnownHash(key, hash)
}

// DeleteKnownHash is Delete with the key's hash supplied by the caller.
func (d *Dict[K, V]) DeleteKnownHash(key K, hash uint64) error {
	ver := d.version
	ix, cell, err := d.keys.probe(key, hash, d.equal)
	if err != nil {
		return err
	}
	if d.version != ver {
		return ErrReentrantMutation
	}
	if ix < 0 {
		return ErrKeyMissing
	}
	if _, ok := d.valueAt(ix); !ok {
		return ErrKeyMissing
	}
	d.removeAt(ix, cell)
	return nil
}

// DeleteIf removes the mapping for key only if pred accepts its current
// value, reporting whether a removal happened. There is no window
// between the read and the delete for another operation to slip into.
// Returns ErrKeyMissing when the key is absent.
func (d *Dict[K, V]) DeleteIf(key K, pred func(V) (bool, error)) (bool, error) {
	hash, err := d.hashKey(key)
	if err != nil {
		return false, err
	}
	ver := d.version
	ix, cell, err := d.keys.probe(key, hash, d.equal)
	if err != nil {
		return false, err
	}
	if d.version != ver {
		return false, ErrReentrantMutation
	}
	if ix < 0 {
		return false, ErrKeyMissing
	}
	v, ok := d.valueAt(ix)
	if !ok {
		return false, ErrKeyMissing
	}
	matched, err := pred(v)
	if err != nil {
		return false, fmt.Errorf("dictable: predicate: %w", err)
	}
	if d.version != ver {
		return false, ErrReentrantMutation
	}
	if !matched {
		return false, nil
	}
	d.removeAt(ix, cell)
	return true, nil
}

// Pop removes and returns the value mapped to key, or ErrKeyMissing.
func (d *Dict[K, V]) Pop(key K) (V, error) {
	hash, err := d.hashKey(key)
	if err != nil {
		var zero V
		return zero, err
	}
	return d.PopKnownHash(key, hash)
}

// PopKnownHash is Pop with the key's hash supplied by the caller.
func (d *Dict[K, V]) PopKnownHash(key K, hash uint64) (V, error) {
	var zero V
	ver := d.version
	ix, cell, err := d.keys.probe(key, hash, d.equal)
	if err != nil {
		return zero, err
	}
	if d.version != ver {
		return zero, ErrReentrantMutation
	}
	if ix < 0 {
		return zero, ErrKeyMissing
	}
	if _, ok := d.valueAt(ix); !ok {
		return zero, ErrKeyMissing
	}
	return d.removeAt(ix, cell), nil
}

// PopDefault is Pop, except an absent key yields def instead of
// ErrKeyMissing.
func (d *Dict[K, V]) PopDefault(key K, def V) (V, error) {
	v, err := d.Pop(key)
	if errors.Is(err, ErrKeyMissing) {
		return def, nil
	}
	return v, err
}

// MergePolicy decides what Merge does with keys present on both sides.
type MergePolicy int

const (
	// FirstWins keeps the receiver's value.
	FirstWins MergePolicy = iota
	// LastWins takes the value from other.
	LastWins
	// RaiseOnConflict fails fast with a KeyConflictError on the first
	// shared key. Keys merged before the conflict stay applied.
	RaiseOnConflict
)

// Merge applies other's pairs to d in other's insertion order. Hashes
// stored in other are reused, so both dictionaries must share a hash
// collaborator (dictionaries built without WithHasher always do).
func (d *Dict[K, V]) Merge(other *Dict[K, V], policy MergePolicy) error {
	cur := other.NewCursor()
	for {
		item, ok, err := other.Next(&cur)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		ver := d.version
		ix, cell, err := d.keys.probe(item.Key, item.Hash, d.equal)
		if err != nil {
			return err
		}
		if d.version != ver {
			return ErrReentrantMutation
		}
		if ix >= 0 {
			if _, live := d.valueAt(ix); live {
				switch policy {
				case FirstWins:
				case LastWins:
					d.writeAt(ix, item.Value)
				case RaiseOnConflict:
					return &KeyConflictError[K]{Key: item.Key}
				}
				continue
			}
			d.writeAt(ix, item.Value)
			continue
		}
		if err := d.insertFresh(item.Key, item.Value, item.Hash, cell, true); err != nil {
			return err
		}
	}
}

// Clear drops every mapping and detaches from any shared layout.
func (d *Dict[K, V]) Clear() {
	if d.values != nil {
		d.keys.refs--
	}
	d.keys = newKeysTable[K, V](minTableSize)
	d.values = nil
	d.used = 0
	d.gen++
	d.version = nextVersion()
}

// Copy returns a dictionary with the same pairs. A split holder copies
// into another holder of the same shared layout; a combined dictionary
// copies into a fresh compacted table.
func (d *Dict[K, V]) Copy() *Dict[K, V] {
	nd := &Dict[K, V]{hash: d.hash, equal: d.equal, used: d.used}
	if d.values != nil {
		d.keys.refs++
		nd.keys = d.keys
		nd.values = &valueStore[V]{
			vals:    append([]V(nil), d.values.vals...),
			present: append([]bool(nil), d.values.present...),
		}
		return nd
	}
	nt := newKeysTable[K, V](presizedTableSize(d.used))
	for i := range d.keys.entries {
		e := &d.keys.entries[i]
		if !e.live {
			continue
		}
		ix := nt.appendEntry(e.key, e.hash)
		nt.entries[ix].value = e.value
	}
	nd.keys = nt
	return nd
}

// Keys returns the live keys in insertion order.
func (d *Dict[K, V]) Keys() []K {
	keys := make([]K, 0, d.used)
	for i := range d.keys.entries {
		if _, ok := d.valueAt(i); ok {
			keys = append(keys, d.keys.entries[i].key)
		}
	}
	return keys
}

// Values returns the live values in key insertion order.
func (d *Dict[K, V]) Values() []V {
	values := make([]V, 0, d.used)
	for i := range d.keys.entries {
		if v, ok := d.valueAt(i); ok {
			values = append(values, v)
		}
	}
	return values
}

// Items returns the live pairs in key insertion order.
func (d *Dict[K, V]) Items() []Item[K, V] {
	items := make([]Item[K, V], 0, d.used)
	for i := range d.keys.entries {
		if v, ok := d.valueAt(i); ok {
			e := &d.keys.entries[i]
			items = append(items, Item[K, V]{Key: e.key, Value: v, Hash: e.hash})
		}
	}
	return items
}

// Equal reports whether a and b hold the same pairs, regardless of
// order. Mutation of either dictionary during the comparison fails with
// ErrInvalidCursor.
func Equal[K, V comparable](a, b *Dict[K, V]) (bool, error) {
	if a == b {
		return true, nil
	}
	if a.used != b.used {
		return false, nil
	}
	ga, gb := NewGuard(a), NewGuard(b)
	cur := a.NewCursor()
	equal := true
	for equal {
		item, ok, err := a.Next(&cur)
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}
		v, present, err := b.Get(item.Key)
		if err != nil {
			return false, err
		}
		equal = present && v == item.Value
	}
	if !ga.Check() || !gb.Check() {
		return false, ErrInvalidCursor
	}
	return equal, nil
}

// writeAt overwrites (or revives, for split holders) the value at a
// resolved entry index.
func (d *Dict[K, V]) writeAt(ix int, value V) {
	if d.values != nil {
		if d.values.set(ix, value) {
			d.used++
			d.gen++
		}
	} else {
		d.keys.entries[ix].value = value
	}
	d.version = nextVersion()
}

// insertFresh adds a mapping for a key known to be absent from the
// layout. cell, when valid, is the empty index cell the probe ended on.
func (d *Dict[K, V]) insertFresh(key K, value V, hash uint64, cell uint64, haveCell bool) error {
	kt := d.keys
	if d.values != nil && kt.usable <= 0 {
		// The shared layout is full; this holder goes private.
		if err := d.privatize(); err != nil {
			return err
		}
		kt = d.keys
		haveCell = false
	} else if d.values == nil && kt.usable <= 0 {
		if err := d.rebuild(growthSize(d.used)); err != nil {
			return err
		}
		kt = d.keys
		haveCell = false
	}
	var ix int
	if haveCell {
		ix = kt.appendEntryAt(cell, key, hash)
	} else {
		ix = kt.appendEntry(key, hash)
	}
	if d.values != nil {
		d.values.set(ix, value)
	} else {
		kt.entries[ix].value = value
	}
	d.used++
	d.gen++
	d.version = nextVersion()
	return nil
}

// removeAt deletes the live mapping at a resolved entry index and
// returns the old value. Split holders only clear their value slot; the
// shared key slot survives so sibling indices stay stable.
func (d *Dict[K, V]) removeAt(ix int, cell uint64) V {
	var old V
	if d.values != nil {
		old, _ = d.values.value(ix)
		d.values.clear(ix)
	} else {
		kt := d.keys
		old = kt.entries[ix].value
		kt.killEntry(cell, ix)
		if kt.tombs*2 > len(kt.entries) && len(kt.entries) >= minTableSize {
			// Opportunistic compaction. The table stays valid either way,
			// just tombstone-heavy if the rebuild cannot proceed.
			_ = d.rebuild(growthSize(d.used - 1))
		}
	}
	d.used--
	d.gen++
	d.version = nextVersion()
	return old
}

// rebuild replaces the combined table with a fresh one of the given
// index size, rehashing live entries in insertion order and dropping
// tombstones. On failure the old table is left untouched.
func (d *Dict[K, V]) rebuild(indexSize int) error {
	if indexSize > maxTableSize {
		return ErrOutOfMemory
	}
	nt := newKeysTable[K, V](indexSize)
	for i := range d.keys.entries {
		e := &d.keys.entries[i]
		if !e.live {
			continue
		}
		ix := nt.appendEntry(e.key, e.hash)
		nt.entries[ix].value = e.value
	}
	d.keys = nt
	d.gen++
	return nil
}

// privatize deep-copies this holder's live pairs out of the shared
// layout into a fresh, exclusively owned combined table. Siblings are
// unaffected. On failure the holder is left on the shared layout.
func (d *Dict[K, V]) privatize() error {
	size := growthSize(d.used)
	if size > maxTableSize {
		return ErrOutOfMemory
	}
	nt := newKeysTable[K, V](size)
	old := d.keys
	for i := range old.entries {
		v, ok := d.values.value(i)
		if !ok {
			continue
		}
		e := &old.entries[i]
		ix := nt.appendEntry(e.key, e.hash)
		nt.entries[ix].value = v
	}
	old.refs--
	d.keys = nt
	d.values = nil
	d.gen++
	return nil
}
