package dictable

import "iter"

// Item is one key-value pair, carrying the key's stored hash so callers
// can feed the known-hash operations without rehashing.
type Item[K comparable, V any] struct {
	Key   K
	Value V
	Hash  uint64
}

// Cursor is a resumable position over a dictionary's entries. The zero
// Cursor is not valid; obtain one from NewCursor.
type Cursor struct {
	pos int
	gen uint64
}

// NewCursor returns a cursor positioned before the first live pair.
func (d *Dict[K, V]) NewCursor() Cursor {
	return Cursor{gen: d.gen}
}

// Next returns the next live pair in key insertion order, skipping dead
// slots. Once the dictionary has been structurally mutated (key added or
// removed, table swapped) every Next on a cursor created before the
// mutation fails with ErrInvalidCursor; value overwrites do not
// invalidate cursors.
func (d *Dict[K, V]) Next(c *Cursor) (Item[K, V], bool, error) {
	if c.gen != d.gen {
		return Item[K, V]{}, false, ErrInvalidCursor
	}
	for c.pos < len(d.keys.entries) {
		ix := c.pos
		c.pos++
		if v, ok := d.valueAt(ix); ok {
			e := &d.keys.entries[ix]
			return Item[K, V]{Key: e.key, Value: v, Hash: e.hash}, true, nil
		}
	}
	return Item[K, V]{}, false, nil
}

// All returns an iterator over the dictionary in key insertion order,
// for use with range. The dictionary must not be structurally mutated
// while ranging; doing so panics with ErrInvalidCursor.
func (d *Dict[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		c := d.NewCursor()
		for {
			item, ok, err := d.Next(&c)
			if err != nil {
				panic(err)
			}
			if !ok || !yield(item.Key, item.Value) {
				return
			}
		}
	}
}
