package dictable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_ValuesArePrivate(t *testing.T) {
	tmpl := NewKeysTemplate[string, int](8)

	a := tmpl.NewDict()
	b := tmpl.NewDict()
	assert.Equal(t, 2, tmpl.Holders())

	mustSet(t, a, "x", 1)

	// The key entered the shared layout, but b holds no value for it.
	assert.Equal(t, 1, tmpl.Len())
	_, ok := mustGet(t, b, "x")
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())

	mustSet(t, b, "x", 2)
	assert.Equal(t, 1, tmpl.Len()) // same slot reused, not re-added

	va, _ := mustGet(t, a, "x")
	vb, _ := mustGet(t, b, "x")
	assert.Equal(t, 1, va)
	assert.Equal(t, 2, vb)
}

func TestTemplate_DeleteLeavesSiblingsAlone(t *testing.T) {
	tmpl := NewKeysTemplate[string, int](8)

	a := tmpl.NewDict()
	b := tmpl.NewDict()

	mustSet(t, a, "x", 1)
	mustSet(t, a, "y", 2)
	mustSet(t, b, "x", 10)
	mustSet(t, b, "y", 20)

	require.NoError(t, a.Delete("x"))

	// The shared layout keeps the key slot; only a's value is gone.
	assert.Equal(t, 2, tmpl.Len())
	_, ok := mustGet(t, a, "x")
	assert.False(t, ok)

	v, ok := mustGet(t, b, "x")
	require.True(t, ok)
	assert.Equal(t, 10, v)

	// Both stay in split mode: a delete is not a layout change.
	assert.True(t, a.Stats().Split)
	assert.True(t, b.Stats().Split)

	// Re-setting lands back in the shared slot.
	mustSet(t, a, "x", 3)
	assert.Equal(t, 2, tmpl.Len())
}

func TestTemplate_IterationSkipsHoles(t *testing.T) {
	tmpl := NewKeysTemplate[string, int](8)

	a := tmpl.NewDict()
	b := tmpl.NewDict()

	mustSet(t, a, "x", 1)
	mustSet(t, a, "y", 2)
	mustSet(t, b, "y", 20)

	// b never held "x": iteration only yields its own mappings.
	assert.Equal(t, []string{"y"}, b.Keys())
	assert.Equal(t, []string{"x", "y"}, a.Keys())
}

func TestTemplate_PrivatizeWhenLayoutFull(t *testing.T) {
	tmpl := NewKeysTemplate[int, int](4)

	a := tmpl.NewDict()
	b := tmpl.NewDict()
	room := a.Stats().Usable

	for i := range room + 5 {
		mustSet(t, a, i, i)
	}

	// a outgrew the shared layout and went private.
	assert.False(t, a.Stats().Split)
	assert.True(t, b.Stats().Split)
	assert.Equal(t, 1, tmpl.Holders())

	// Content and order survived privatization.
	assert.Equal(t, room+5, a.Len())
	for i := range room + 5 {
		v, ok := mustGet(t, a, i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, i, v)
	}
	assert.Equal(t, 0, a.Keys()[0])

	// The sibling still resolves the shared keys it wrote.
	mustSet(t, b, 0, 100)
	v, _ := mustGet(t, b, 0)
	assert.Equal(t, 100, v)
}

func TestTemplate_CopySharesLayout(t *testing.T) {
	tmpl := NewKeysTemplate[string, int](8)

	a := tmpl.NewDict()
	mustSet(t, a, "x", 1)

	cp := a.Copy()
	assert.True(t, cp.Stats().Split)
	assert.Equal(t, 2, tmpl.Holders())

	v, ok := mustGet(t, cp, "x")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// Copies diverge on write.
	mustSet(t, cp, "x", 2)
	v, _ = mustGet(t, a, "x")
	assert.Equal(t, 1, v)
}

func TestTemplate_ClearDetaches(t *testing.T) {
	tmpl := NewKeysTemplate[string, int](8)

	a := tmpl.NewDict()
	mustSet(t, a, "x", 1)
	require.Equal(t, 1, tmpl.Holders())

	a.Clear()

	assert.Equal(t, 0, tmpl.Holders())
	assert.False(t, a.Stats().Split)
	assert.Equal(t, 1, tmpl.Len()) // the shared layout keeps its keys
}

func TestTemplate_ManyHolders(t *testing.T) {
	tmpl := NewKeysTemplate[string, int](16)

	holders := make([]*Dict[string, int], 10)
	for i := range holders {
		holders[i] = tmpl.NewDict()
		for j := range 5 {
			mustSet(t, holders[i], fmt.Sprintf("attr%d", j), i*10+j)
		}
	}

	// One shared layout, ten private value stores.
	assert.Equal(t, 5, tmpl.Len())
	for i, h := range holders {
		require.Equal(t, 5, h.Len())
		v, ok := mustGet(t, h, "attr3")
		require.True(t, ok)
		require.Equal(t, i*10+3, v)
	}
}
