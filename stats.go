package dictable

import (
	"fmt"
	"io"
	"unsafe"
)

// Stats is a snapshot of a dictionary's table bookkeeping.
type Stats struct {
	// Len is the number of live key-value pairs.
	Len int
	// Entries is the number of entry slots in use, dead ones included.
	Entries int
	// Tombstones is the number of dead entry slots awaiting a rebuild.
	Tombstones int
	// IndexSize is the length of the open-addressing index table.
	IndexSize int
	// Usable is the number of insertions left before a mandatory grow.
	Usable int
	// Split reports split-mode storage (shared keys, private values).
	Split bool
	// Shared reports whether other holders reference the key layout.
	Shared bool
	// SizeBytes is the footprint reported by SizeOf.
	SizeBytes uintptr
}

func (d *Dict[K, V]) Stats() Stats {
	kt := d.keys
	return Stats{
		Len:        d.used,
		Entries:    len(kt.entries),
		Tombstones: kt.tombs,
		IndexSize:  len(kt.indices),
		Usable:     kt.usable,
		Split:      kt.split,
		Shared:     kt.shared(),
		SizeBytes:  d.SizeOf(),
	}
}

// SizeOf returns the memory footprint of the table arrays and any
// private value store, in bytes. Payloads the keys and values point at
// are owned elsewhere and not counted.
func (d *Dict[K, V]) SizeOf() uintptr {
	kt := d.keys
	size := unsafe.Sizeof(*d) + unsafe.Sizeof(*kt)
	size += uintptr(len(kt.indices)) * unsafe.Sizeof(int32(0))
	size += uintptr(cap(kt.entries)) * unsafe.Sizeof(entry[K, V]{})
	if d.values != nil {
		size += unsafe.Sizeof(*d.values) + d.values.sizeOf()
	}
	return size
}

// DebugStats writes aggregate table statistics to sink. It has no
// behavioral effect on the dictionary.
func (d *Dict[K, V]) DebugStats(sink io.Writer) {
	s := d.Stats()
	fmt.Fprintf(sink, "len=%d entries=%d tombstones=%d index=%d usable=%d split=%t shared=%t size=%dB\n",
		s.Len, s.Entries, s.Tombstones, s.IndexSize, s.Usable, s.Split, s.Shared, s.SizeBytes)
}
