package overlay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyroplan/siteplan/pkg/core"
)

func visibleRecord(id string) core.AnnotationRecord {
	return core.AnnotationRecord{
		ID:            id,
		Category:      core.CategoryFirework,
		Position:      core.LatLng{Lng: -122.47, Lat: 37.82},
		Color:         "#ff3300",
		HeightFeet:    300,
		HeightVisible: true,
	}
}

func TestExtrusions_SyncForRecord_Creates(t *testing.T) {
	e := NewExtrusions()

	rec := visibleRecord("fw-1")
	e.SyncForRecord(rec, true)

	ex, ok := e.Get("fw-1")
	require.True(t, ok, "expected extrusion for fw-1")
	assert.Equal(t, rec.Position, ex.Position)
	assert.Equal(t, rec.HeightFeet, ex.HeightFeet)
	assert.Equal(t, rec.Color, ex.Color)
}

func TestExtrusions_SyncForRecord_GlobalToggleOff(t *testing.T) {
	e := NewExtrusions()

	e.SyncForRecord(visibleRecord("fw-1"), false)
	assert.False(t, e.Has("fw-1"))
}

func TestExtrusions_SyncForRecord_RecordHidden(t *testing.T) {
	e := NewExtrusions()

	rec := visibleRecord("fw-1")
	rec.HeightVisible = false
	e.SyncForRecord(rec, true)
	assert.False(t, e.Has("fw-1"))
}

func TestExtrusions_SyncForRecord_ZeroHeight(t *testing.T) {
	e := NewExtrusions()

	rec := visibleRecord("fw-1")
	rec.HeightFeet = 0
	e.SyncForRecord(rec, true)
	assert.False(t, e.Has("fw-1"))
}

func TestExtrusions_SyncForRecord_TearsDownOnHide(t *testing.T) {
	e := NewExtrusions()

	rec := visibleRecord("fw-1")
	e.SyncForRecord(rec, true)
	require.True(t, e.Has("fw-1"))

	rec.HeightVisible = false
	e.SyncForRecord(rec, true)
	assert.False(t, e.Has("fw-1"), "extrusion should be gone after hiding the record")
}

func TestExtrusions_SyncForRecord_Idempotent(t *testing.T) {
	e := NewExtrusions()

	rec := visibleRecord("fw-1")
	e.SyncForRecord(rec, true)
	e.SyncForRecord(rec, true)

	assert.Equal(t, 1, e.Len())
}

func TestExtrusions_RemoveForRecord_Idempotent(t *testing.T) {
	e := NewExtrusions()

	e.SyncForRecord(visibleRecord("fw-1"), true)
	e.RemoveForRecord("fw-1")
	assert.False(t, e.Has("fw-1"))

	// Second removal is a no-op.
	e.RemoveForRecord("fw-1")
	e.RemoveForRecord("never-existed")
	assert.Equal(t, 0, e.Len())
}

func TestExtrusions_ActiveIDs(t *testing.T) {
	e := NewExtrusions()

	e.SyncForRecord(visibleRecord("fw-1"), true)
	e.SyncForRecord(visibleRecord("fw-2"), true)

	ids := e.ActiveIDs()
	assert.ElementsMatch(t, []string{"fw-1", "fw-2"}, ids)
}

func TestExtrusions_Reset(t *testing.T) {
	e := NewExtrusions()

	e.SyncForRecord(visibleRecord("fw-1"), true)
	e.SyncForRecord(visibleRecord("fw-2"), true)
	require.Equal(t, 2, e.Len())

	e.Reset()
	assert.Equal(t, 0, e.Len())
}

func TestExtrusions_ConcurrentAccess(t *testing.T) {
	e := NewExtrusions()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("fw-%d", n)
			e.SyncForRecord(visibleRecord(id), true)
			e.Has(id)
			e.Len()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, e.Len())
}
