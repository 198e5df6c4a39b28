package markers

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_NewRegistry(t *testing.T) {
	r := NewRegistry()

	require.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_AddAndGet(t *testing.T) {
	r := NewRegistry()

	r.Add(Handle{Key: "search", Kind: KindSearchPin})

	h, ok := r.Get("search")
	require.True(t, ok, "expected to find search marker")
	assert.Equal(t, KindSearchPin, h.Kind)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("nonexistent")
	assert.False(t, ok, "expected not to find nonexistent marker")
}

func TestRegistry_Add_ReplacesSameKey(t *testing.T) {
	r := NewRegistry()

	r.Add(Handle{Key: "pin", Kind: KindSearchPin})
	r.Add(Handle{Key: "pin", Kind: KindLabel})

	h, ok := r.Get("pin")
	require.True(t, ok)
	assert.Equal(t, KindLabel, h.Kind)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()

	r.Add(Handle{Key: "pin", Kind: KindSearchPin})
	r.Add(Handle{Key: "label", Kind: KindLabel})

	r.Remove("pin")

	_, ok := r.Get("pin")
	assert.False(t, ok, "expected pin to be removed")
	assert.Equal(t, 1, r.Len())

	// Removing an absent key is a no-op.
	r.Remove("pin")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ClearAll(t *testing.T) {
	r := NewRegistry()

	r.Add(Handle{Key: "a", Kind: KindSearchPin})
	r.Add(Handle{Key: "b", Kind: KindLabel})
	require.Equal(t, 2, r.Len())

	r.ClearAll()
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("marker-%d", n)
			r.Add(Handle{Key: key, Kind: KindLabel})
			r.Get(key)
			r.Len()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, r.Len())
}
