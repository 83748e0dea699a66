package dictable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_Intersect(t *testing.T) {
	d1 := New[string, int]()
	d2 := New[string, int]()

	for i, k := range []string{"a", "b", "c"} {
		mustSet(t, d1, k, i)
	}
	for i, k := range []string{"d", "c", "b"} {
		mustSet(t, d2, k, i)
	}

	got, err := d1.View(KeysView).Intersect(d2.View(KeysView))
	require.NoError(t, err)

	// Receiver's insertion order.
	assert.Equal(t, []string{"b", "c"}, got)

	got, err = d2.View(KeysView).Intersect(d1.View(KeysView))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, got)
}

func TestView_IntersectDisjoint(t *testing.T) {
	d1 := New[string, int]()
	d2 := New[string, int]()
	mustSet(t, d1, "a", 1)
	mustSet(t, d2, "b", 2)

	got, err := d1.View(KeysView).Intersect(d2.View(KeysView))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestView_IntersectIsSnapshot(t *testing.T) {
	d1 := New[string, int]()
	d2 := New[string, int]()
	mustSet(t, d1, "a", 1)
	mustSet(t, d1, "b", 2)
	mustSet(t, d2, "a", 9)

	got, err := d1.View(ItemsView).Intersect(d2.View(ItemsView))
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, got)

	// Mutations after the call do not touch the snapshot.
	mustSet(t, d2, "b", 9)
	assert.Equal(t, []string{"a"}, got)
}

func TestView_Live(t *testing.T) {
	d := New[string, int]()
	v := d.View(ValuesView)

	assert.Equal(t, ValuesView, v.Kind())
	assert.Equal(t, 0, v.Len())

	mustSet(t, d, "a", 1)
	assert.Equal(t, 1, v.Len())
}
