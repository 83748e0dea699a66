package dictable

import "unsafe"

// valueStore holds a split-mode dictionary's private values, indexed by
// the entry indices of the shared keysTable. Deleting a key from one
// holder only punches a hole here; the shared key slot stays put, so
// sibling dictionaries keep their indices.
type valueStore[V any] struct {
	vals    []V
	present []bool
}

// value returns the stored value for an entry index, if any. Indices past
// the end of the store are keys this holder never wrote.
func (vs *valueStore[V]) value(ix int) (V, bool) {
	if ix >= len(vs.vals) || !vs.present[ix] {
		var zero V
		return zero, false
	}
	return vs.vals[ix], true
}

// set stores a value for an entry index, growing the store to cover it.
// Reports whether the slot was previously absent.
func (vs *valueStore[V]) set(ix int, v V) bool {
	for len(vs.vals) <= ix {
		var zero V
		vs.vals = append(vs.vals, zero)
		vs.present = append(vs.present, false)
	}
	wasAbsent := !vs.present[ix]
	vs.vals[ix] = v
	vs.present[ix] = true
	return wasAbsent
}

// clear drops the value for an entry index, reporting whether one was
// present.
func (vs *valueStore[V]) clear(ix int) bool {
	if ix >= len(vs.vals) || !vs.present[ix] {
		return false
	}
	var zero V
	vs.vals[ix] = zero
	vs.present[ix] = false
	return true
}

func (vs *valueStore[V]) sizeOf() uintptr {
	var v V
	return uintptr(cap(vs.vals))*unsafe.Sizeof(v) + uintptr(cap(vs.present))
}
