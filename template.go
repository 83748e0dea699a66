package dictable

// KeysTemplate is a shared key layout for a family of dictionaries with
// the same key shape, such as per-instance attribute storage against a
// per-type layout. Dictionaries created from a template run in split
// mode: they share the template's keys and hold values privately, so n
// same-shaped dictionaries pay for one key table.
//
// The shared layout is append-only. A holder inserting a brand-new key
// extends the layout in place while there is room; once the layout is
// full the holder privatizes into its own combined table transparently.
// Deletes never touch the shared layout: a holder just clears its value
// slot, leaving sibling indices stable.
type KeysTemplate[K comparable, V any] struct {
	keys  *keysTable[K, V]
	hash  Hasher[K]
	equal Equaler[K]
}

// NewKeysTemplate builds a shared layout with room for at least sizeHint
// keys before holders start privatizing.
func NewKeysTemplate[K comparable, V any](sizeHint int, opts ...Option[K, V]) *KeysTemplate[K, V] {
	cfg := resolveConfig(opts)
	size := minTableSize
	if sizeHint > 0 {
		size = presizedTableSize(sizeHint)
	}
	kt := newKeysTable[K, V](size)
	kt.split = true
	return &KeysTemplate[K, V]{keys: kt, hash: cfg.hash, equal: cfg.equal}
}

// NewDict creates an empty split-mode dictionary on this template's key
// layout. The template's hash and equality collaborators are inherited;
// they cannot vary per holder because stored hashes are shared.
func (t *KeysTemplate[K, V]) NewDict() *Dict[K, V] {
	t.keys.refs++
	return &Dict[K, V]{
		keys:   t.keys,
		values: &valueStore[V]{},
		hash:   t.hash,
		equal:  t.equal,
	}
}

// Len returns the number of keys the shared layout has accumulated,
// including keys no holder currently maps.
func (t *KeysTemplate[K, V]) Len() int {
	return len(t.keys.entries)
}

// Holders returns the number of dictionaries still attached to the
// shared layout.
func (t *KeysTemplate[K, V]) Holders() int {
	return t.keys.refs - 1
}
