package dictable

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyMissing is returned by Delete, Pop and friends when the key is
	// not present and no default was supplied.
	ErrKeyMissing = errors.New("dictable: key not found")

	// ErrKeyConflict is the errors.Is target for KeyConflictError.
	ErrKeyConflict = errors.New("dictable: key conflict")

	// ErrOutOfMemory is returned when a mandatory grow or privatization
	// would push the index table past its maximum size. The table is left
	// unchanged.
	ErrOutOfMemory = errors.New("dictable: table too large")

	// ErrInvalidCursor is returned by Next when the dictionary was
	// structurally mutated after the cursor was created.
	ErrInvalidCursor = errors.New("dictable: cursor invalidated by mutation")

	// ErrReentrantMutation is returned when a hash or equality callback
	// mutated the dictionary in the middle of a write.
	ErrReentrantMutation = errors.New("dictable: dictionary changed during write")
)

// KeyConflictError reports the first colliding key encountered by Merge
// under RaiseOnConflict. Keys merged before the collision stay applied.
type KeyConflictError[K comparable] struct {
	Key K
}

func (e *KeyConflictError[K]) Error() string {
	return fmt.Sprintf("dictable: conflicting key %v", e.Key)
}

func (e *KeyConflictError[K]) Is(target error) bool {
	return target == ErrKeyConflict
}
