// Package overlay keeps the 3D height extrusions drawn on the map in step
// with the annotation set. Store mutations call into this package
// synchronously, so readers never see an extrusion for a record that is
// gone or hidden.
package overlay

import (
	"sync"

	"github.com/pyroplan/siteplan/pkg/core"
)

// Extrusion is the visual artifact for one annotation's height column.
type Extrusion struct {
	AnnotationID string
	Position     core.LatLng
	HeightFeet   float64
	Color        string
}

// Extrusions tracks at most one extrusion per annotation ID.
type Extrusions struct {
	mu     sync.RWMutex
	active map[string]Extrusion
}

// NewExtrusions creates an empty extrusion registry.
func NewExtrusions() *Extrusions {
	return &Extrusions{
		active: make(map[string]Extrusion),
	}
}

// SyncForRecord reconciles the extrusion for one point annotation against
// its current state. showHeight is the global toggle; the record's own
// HeightVisible flag also applies. Idempotent: re-syncing an unchanged
// record is a no-op.
func (e *Extrusions) SyncForRecord(rec core.AnnotationRecord, showHeight bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !showHeight || !rec.HeightVisible || rec.HeightFeet <= 0 {
		delete(e.active, rec.ID)
		return
	}
	e.active[rec.ID] = Extrusion{
		AnnotationID: rec.ID,
		Position:     rec.Position,
		HeightFeet:   rec.HeightFeet,
		Color:        rec.Color,
	}
}

// RemoveForRecord tears down the extrusion for a deleted annotation.
// Idempotent: removing an absent ID is a no-op.
func (e *Extrusions) RemoveForRecord(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.active, id)
}

// Has reports whether an extrusion exists for the given annotation ID.
func (e *Extrusions) Has(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.active[id]
	return ok
}

// Get returns the extrusion for an annotation ID.
func (e *Extrusions) Get(id string) (Extrusion, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ex, ok := e.active[id]
	return ex, ok
}

// Len returns the number of active extrusions.
func (e *Extrusions) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.active)
}

// ActiveIDs returns the annotation IDs that currently have an extrusion.
func (e *Extrusions) ActiveIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.active))
	for id := range e.active {
		ids = append(ids, id)
	}
	return ids
}

// Reset drops every extrusion. Used by clear-all.
func (e *Extrusions) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = make(map[string]Extrusion)
}
