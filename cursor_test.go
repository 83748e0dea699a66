package dictable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_Order(t *testing.T) {
	d := New[string, int]()
	mustSet(t, d, "a", 1)
	mustSet(t, d, "b", 2)
	mustSet(t, d, "c", 3)
	require.NoError(t, d.Delete("b"))

	c := d.NewCursor()
	var got []string
	for {
		item, ok, err := d.Next(&c)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, item.Key)
	}

	assert.Equal(t, []string{"a", "c"}, got)
}

func TestCursor_YieldsReusableHash(t *testing.T) {
	d := New[string, int]()
	mustSet(t, d, "a", 1)

	c := d.NewCursor()
	item, ok, err := d.Next(&c)
	require.NoError(t, err)
	require.True(t, ok)

	// The yielded hash feeds known-hash operations directly.
	v, ok, err := d.GetKnownHash(item.Key, item.Hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestCursor_InvalidatedByStructuralMutation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, d *Dict[string, int])
	}{
		{
			name: "insert",
			mutate: func(t *testing.T, d *Dict[string, int]) {
				mustSet(t, d, "new", 9)
			},
		},
		{
			name: "delete",
			mutate: func(t *testing.T, d *Dict[string, int]) {
				require.NoError(t, d.Delete("a"))
			},
		},
		{
			name: "clear",
			mutate: func(t *testing.T, d *Dict[string, int]) {
				d.Clear()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New[string, int]()
			mustSet(t, d, "a", 1)
			mustSet(t, d, "b", 2)

			c := d.NewCursor()
			_, ok, err := d.Next(&c)
			require.NoError(t, err)
			require.True(t, ok)

			tt.mutate(t, d)

			_, _, err = d.Next(&c)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestCursor_SurvivesOverwrite(t *testing.T) {
	d := New[string, int]()
	mustSet(t, d, "a", 1)
	mustSet(t, d, "b", 2)

	c := d.NewCursor()
	_, ok, err := d.Next(&c)
	require.NoError(t, err)
	require.True(t, ok)

	// Overwriting a value is not a structural change.
	mustSet(t, d, "a", 100)

	item, ok, err := d.Next(&c)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", item.Key)
}

func TestAll(t *testing.T) {
	d := New[string, int]()
	mustSet(t, d, "a", 1)
	mustSet(t, d, "b", 2)

	got := map[string]int{}
	var order []string
	for k, v := range d.All() {
		got[k] = v
		order = append(order, k)
	}

	assert.Equal(t, map[string]int{"a": 1, "b": 2}, got)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestAll_PanicsOnMutation(t *testing.T) {
	d := New[string, int]()
	mustSet(t, d, "a", 1)
	mustSet(t, d, "b", 2)

	assert.PanicsWithValue(t, ErrInvalidCursor, func() {
		for range d.All() {
			_ = d.Delete("b")
		}
	})
}
