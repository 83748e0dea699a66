package dictable

// ViewKind selects the facet a View presents.
type ViewKind int

const (
	KeysView ViewKind = iota
	ValuesView
	ItemsView
)

// View is a lightweight reference to a dictionary tagged with a facet.
// It holds no data of its own: Len always reflects the dictionary's
// current state.
type View[K comparable, V any] struct {
	dict *Dict[K, V]
	kind ViewKind
}

// View returns a view over the dictionary.
func (d *Dict[K, V]) View(kind ViewKind) View[K, V] {
	return View[K, V]{dict: d, kind: kind}
}

func (v View[K, V]) Kind() ViewKind {
	return v.kind
}

func (v View[K, V]) Len() int {
	return v.dict.Len()
}

// Intersect returns the keys present in both views' dictionaries, in the
// receiver's key insertion order. The result is a snapshot of the two
// dictionaries at call time; later mutations do not update it.
func (v View[K, V]) Intersect(other View[K, V]) ([]K, error) {
	common := make([]K, 0)
	c := v.dict.NewCursor()
	for {
		item, ok, err := v.dict.Next(&c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return common, nil
		}
		has, err := other.dict.Contains(item.Key)
		if err != nil {
			return nil, err
		}
		if has {
			common = append(common, item.Key)
		}
	}
}
