// Package store owns every placed annotation for one planning session. It
// is the single source of truth: identity and numbering are assigned here,
// per-category counts are derived from the maps and never mutated
// independently, and every mutation finishes its overlay reconciliation and
// change notification before returning, so no caller ever observes a
// half-applied state.
package store

import (
	"fmt"
	"sync"

	"github.com/pyroplan/siteplan/internal/geo"
	"github.com/pyroplan/siteplan/internal/ident"
	"github.com/pyroplan/siteplan/internal/overlay"
	"github.com/pyroplan/siteplan/internal/project"
	"github.com/pyroplan/siteplan/internal/util"
	"github.com/pyroplan/siteplan/pkg/core"
)

// ChangeKind labels a store mutation for listeners.
type ChangeKind string

const (
	ChangeAdded      ChangeKind = "annotation:added"
	ChangeUpdated    ChangeKind = "annotation:updated"
	ChangeRemoved    ChangeKind = "annotation:removed"
	ChangeCleared    ChangeKind = "annotations:cleared"
	ChangeRenumbered ChangeKind = "annotations:renumbered"
	ChangeCamera     ChangeKind = "camera:moved"
	ChangeSettings   ChangeKind = "settings:changed"
)

// Change describes one completed mutation. It is delivered after the store
// is consistent again, so a listener reading back through the store sees
// the post-mutation state.
type Change struct {
	Kind     ChangeKind
	Category core.Category
	ID       string
}

// ChangeFunc receives change notifications. It is called outside the
// store's lock.
type ChangeFunc func(Change)

// Counts holds the derived per-category cardinalities. Annotations covers
// both firework and custom point records.
type Counts struct {
	Annotations  int `json:"annotations"`
	Audience     int `json:"audience"`
	Measurements int `json:"measurements"`
	Restricted   int `json:"restricted"`
	Total        int `json:"total"`
}

// Store is the authoritative annotation set. Construct one per session with
// New; there is no package-level instance, so tests run isolated stores.
type Store struct {
	mu sync.RWMutex

	gen        *ident.Generator
	extrusions *overlay.Extrusions
	project    *project.Context
	onChange   ChangeFunc

	annotations  map[string]core.AnnotationRecord
	audiences    map[string]core.AudienceRecord
	measurements map[string]core.MeasurementRecord
	restricted   map[string]core.RestrictedRecord
}

// New creates an empty store wired to the given collaborators. extrusions
// and proj must not be nil; onChange may be nil to disable notifications.
func New(gen *ident.Generator, extrusions *overlay.Extrusions, proj *project.Context, onChange ChangeFunc) *Store {
	return &Store{
		gen:          gen,
		extrusions:   extrusions,
		project:      proj,
		onChange:     onChange,
		annotations:  make(map[string]core.AnnotationRecord),
		audiences:    make(map[string]core.AudienceRecord),
		measurements: make(map[string]core.MeasurementRecord),
		restricted:   make(map[string]core.RestrictedRecord),
	}
}

func (s *Store) notify(c Change) {
	if s.onChange != nil {
		s.onChange(c)
	}
}

// assertFreshID panics if the generated ID already exists anywhere in the
// store. A collision means the identity service is broken; this is an
// invariant violation, not a recoverable error.
func (s *Store) assertFreshID(id string) {
	if _, ok := s.annotations[id]; ok {
		panic(fmt.Sprintf("store: duplicate annotation id %q", id))
	}
	if _, ok := s.audiences[id]; ok {
		panic(fmt.Sprintf("store: duplicate annotation id %q", id))
	}
	if _, ok := s.measurements[id]; ok {
		panic(fmt.Sprintf("store: duplicate annotation id %q", id))
	}
	if _, ok := s.restricted[id]; ok {
		panic(fmt.Sprintf("store: duplicate annotation id %q", id))
	}
}

// FireworkPayload is the caller-supplied part of a firework or custom
// point annotation. ID and number are always assigned by the store.
type FireworkPayload struct {
	Position      core.LatLng
	Color         string
	Label         string
	HeightFeet    float64
	HeightVisible bool
}

// AddFirework places a firework annotation.
func (s *Store) AddFirework(p FireworkPayload) core.AnnotationRecord {
	return s.addPoint(core.CategoryFirework, p)
}

// AddCustom places a custom marker annotation.
func (s *Store) AddCustom(p FireworkPayload) core.AnnotationRecord {
	return s.addPoint(core.CategoryCustom, p)
}

func (s *Store) addPoint(cat core.Category, p FireworkPayload) core.AnnotationRecord {
	s.mu.Lock()
	id := s.gen.NextID(cat)
	s.assertFreshID(id)

	rec := core.AnnotationRecord{
		ID:            id,
		Number:        s.gen.NextNumber(),
		Category:      cat,
		Position:      p.Position,
		Color:         util.NormalizeHexColor(p.Color),
		Label:         p.Label,
		HeightFeet:    p.HeightFeet,
		HeightVisible: p.HeightVisible,
	}
	s.annotations[id] = rec
	s.extrusions.SyncForRecord(rec, s.project.ShowHeight())
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeAdded, Category: cat, ID: id})
	return rec
}

// AudiencePayload is the caller-supplied part of an audience area.
type AudiencePayload struct {
	Geometry   []core.LatLng
	WidthFeet  float64
	HeightFeet float64
	Label      string
}

// AddAudience places an audience area. The outline must have at least
// three vertices.
func (s *Store) AddAudience(p AudiencePayload) (core.AudienceRecord, error) {
	if len(p.Geometry) < 3 {
		return core.AudienceRecord{}, fmt.Errorf("audience outline: %w", ErrInvalidGeometry)
	}

	s.mu.Lock()
	id := s.gen.NextID(core.CategoryAudience)
	s.assertFreshID(id)

	rec := core.AudienceRecord{
		ID:         id,
		Number:     s.gen.NextNumber(),
		Geometry:   clonePath(p.Geometry),
		WidthFeet:  p.WidthFeet,
		HeightFeet: p.HeightFeet,
		Label:      p.Label,
	}
	s.audiences[id] = rec
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeAdded, Category: core.CategoryAudience, ID: id})
	return rec, nil
}

// MeasurementPayload is the caller-supplied part of a measurement line.
// Distance is always computed by the store.
type MeasurementPayload struct {
	Geometry []core.LatLng
	Label    string
}

// AddMeasurement places a measurement line. The line must have at least
// two vertices.
func (s *Store) AddMeasurement(p MeasurementPayload) (core.MeasurementRecord, error) {
	if len(p.Geometry) < 2 {
		return core.MeasurementRecord{}, fmt.Errorf("measurement line: %w", ErrInvalidGeometry)
	}

	s.mu.Lock()
	id := s.gen.NextID(core.CategoryMeasurement)
	s.assertFreshID(id)

	rec := core.MeasurementRecord{
		ID:           id,
		Number:       s.gen.NextNumber(),
		Geometry:     clonePath(p.Geometry),
		DistanceFeet: geo.PathLengthFeet(p.Geometry),
		Label:        p.Label,
	}
	s.measurements[id] = rec
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeAdded, Category: core.CategoryMeasurement, ID: id})
	return rec, nil
}

// RestrictedPayload is the caller-supplied part of a restricted zone.
// Area is always computed by the store.
type RestrictedPayload struct {
	Geometry []core.LatLng
	Label    string
}

// AddRestricted places a restricted zone. The outline must have at least
// three vertices.
func (s *Store) AddRestricted(p RestrictedPayload) (core.RestrictedRecord, error) {
	if len(p.Geometry) < 3 {
		return core.RestrictedRecord{}, fmt.Errorf("restricted outline: %w", ErrInvalidGeometry)
	}

	s.mu.Lock()
	id := s.gen.NextID(core.CategoryRestricted)
	s.assertFreshID(id)

	rec := core.RestrictedRecord{
		ID:         id,
		Number:     s.gen.NextNumber(),
		Geometry:   clonePath(p.Geometry),
		AreaSqFeet: geo.RingAreaSqFeet(p.Geometry),
		Label:      p.Label,
	}
	s.restricted[id] = rec
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeAdded, Category: core.CategoryRestricted, ID: id})
	return rec, nil
}

// AnnotationUpdate carries the fields an UpdateAnnotation call may change.
// Nil fields are left untouched; ID and number can never be changed.
type AnnotationUpdate struct {
	Position      *core.LatLng
	Color         *string
	Label         *string
	HeightFeet    *float64
	HeightVisible *bool
}

// UpdateAnnotation merges fields into a firework or custom record and
// re-syncs its extrusion when a height-relevant field changed.
func (s *Store) UpdateAnnotation(id string, u AnnotationUpdate) error {
	s.mu.Lock()
	rec, ok := s.annotations[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("update %q: %w", id, ErrNotFound)
	}

	if u.Position != nil {
		rec.Position = *u.Position
	}
	if u.Color != nil {
		rec.Color = util.NormalizeHexColor(*u.Color)
	}
	if u.Label != nil {
		rec.Label = *u.Label
	}
	if u.HeightFeet != nil {
		rec.HeightFeet = *u.HeightFeet
	}
	if u.HeightVisible != nil {
		rec.HeightVisible = *u.HeightVisible
	}

	s.annotations[id] = rec
	s.extrusions.SyncForRecord(rec, s.project.ShowHeight())
	cat := rec.Category
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeUpdated, Category: cat, ID: id})
	return nil
}

// AudienceUpdate carries the fields an UpdateAudience call may change.
type AudienceUpdate struct {
	Geometry   []core.LatLng
	WidthFeet  *float64
	HeightFeet *float64
	Label      *string
}

// UpdateAudience merges fields into an audience record.
func (s *Store) UpdateAudience(id string, u AudienceUpdate) error {
	if u.Geometry != nil && len(u.Geometry) < 3 {
		return fmt.Errorf("audience outline: %w", ErrInvalidGeometry)
	}

	s.mu.Lock()
	rec, ok := s.audiences[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("update %q: %w", id, ErrNotFound)
	}

	if u.Geometry != nil {
		rec.Geometry = clonePath(u.Geometry)
	}
	if u.WidthFeet != nil {
		rec.WidthFeet = *u.WidthFeet
	}
	if u.HeightFeet != nil {
		rec.HeightFeet = *u.HeightFeet
	}
	if u.Label != nil {
		rec.Label = *u.Label
	}

	s.audiences[id] = rec
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeUpdated, Category: core.CategoryAudience, ID: id})
	return nil
}

// MeasurementUpdate carries the fields an UpdateMeasurement call may change.
type MeasurementUpdate struct {
	Geometry []core.LatLng
	Label    *string
}

// UpdateMeasurement merges fields into a measurement record, recomputing
// the distance when the line changed.
func (s *Store) UpdateMeasurement(id string, u MeasurementUpdate) error {
	if u.Geometry != nil && len(u.Geometry) < 2 {
		return fmt.Errorf("measurement line: %w", ErrInvalidGeometry)
	}

	s.mu.Lock()
	rec, ok := s.measurements[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("update %q: %w", id, ErrNotFound)
	}

	if u.Geometry != nil {
		rec.Geometry = clonePath(u.Geometry)
		rec.DistanceFeet = geo.PathLengthFeet(rec.Geometry)
	}
	if u.Label != nil {
		rec.Label = *u.Label
	}

	s.measurements[id] = rec
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeUpdated, Category: core.CategoryMeasurement, ID: id})
	return nil
}

// RestrictedUpdate carries the fields an UpdateRestricted call may change.
type RestrictedUpdate struct {
	Geometry []core.LatLng
	Label    *string
}

// UpdateRestricted merges fields into a restricted record, recomputing the
// area when the outline changed.
func (s *Store) UpdateRestricted(id string, u RestrictedUpdate) error {
	if u.Geometry != nil && len(u.Geometry) < 3 {
		return fmt.Errorf("restricted outline: %w", ErrInvalidGeometry)
	}

	s.mu.Lock()
	rec, ok := s.restricted[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("update %q: %w", id, ErrNotFound)
	}

	if u.Geometry != nil {
		rec.Geometry = clonePath(u.Geometry)
		rec.AreaSqFeet = geo.RingAreaSqFeet(rec.Geometry)
	}
	if u.Label != nil {
		rec.Label = *u.Label
	}

	s.restricted[id] = rec
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeUpdated, Category: core.CategoryRestricted, ID: id})
	return nil
}

// Remove deletes a record by ID and tears down its extrusion before
// returning. Removing an absent ID is a no-op: removal is idempotent.
func (s *Store) Remove(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()

	var cat core.Category
	found := true
	if rec, ok := s.annotations[id]; ok {
		cat = rec.Category
		delete(s.annotations, id)
	} else if _, ok := s.audiences[id]; ok {
		cat = core.CategoryAudience
		delete(s.audiences, id)
	} else if _, ok := s.measurements[id]; ok {
		cat = core.CategoryMeasurement
		delete(s.measurements, id)
	} else if _, ok := s.restricted[id]; ok {
		cat = core.CategoryRestricted
		delete(s.restricted, id)
	} else {
		found = false
	}
	s.extrusions.RemoveForRecord(id)
	s.mu.Unlock()

	if found {
		s.notify(Change{Kind: ChangeRemoved, Category: cat, ID: id})
	}
}

// ClearCategory removes every record in one category, tearing down each
// record's extrusion. The numbering sequence is not reset.
func (s *Store) ClearCategory(cat core.Category) {
	s.mu.Lock()
	switch cat {
	case core.CategoryFirework, core.CategoryCustom:
		for id, rec := range s.annotations {
			if rec.Category == cat {
				delete(s.annotations, id)
				s.extrusions.RemoveForRecord(id)
			}
		}
	case core.CategoryAudience:
		s.audiences = make(map[string]core.AudienceRecord)
	case core.CategoryMeasurement:
		s.measurements = make(map[string]core.MeasurementRecord)
	case core.CategoryRestricted:
		s.restricted = make(map[string]core.RestrictedRecord)
	}
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeCleared, Category: cat})
}

// ClearAll removes every record in every category and drops every
// extrusion. The numbering sequence is not reset: a cleared session keeps
// issuing fresh numbers.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.annotations = make(map[string]core.AnnotationRecord)
	s.audiences = make(map[string]core.AudienceRecord)
	s.measurements = make(map[string]core.MeasurementRecord)
	s.restricted = make(map[string]core.RestrictedRecord)
	s.extrusions.Reset()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeCleared})
}

// FindByID looks up a record of any category.
func (s *Store) FindByID(id string) (core.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.annotations[id]; ok {
		return rec, true
	}
	if rec, ok := s.audiences[id]; ok {
		return rec, true
	}
	if rec, ok := s.measurements[id]; ok {
		return rec, true
	}
	if rec, ok := s.restricted[id]; ok {
		return rec, true
	}
	return nil, false
}

// RenumberAnnotations reassigns display numbers 1..N across every category
// in category-then-creation order. The rewrite happens under one write
// lock, so no reader observes a partially renumbered set.
func (s *Store) RenumberAnnotations() {
	s.mu.Lock()

	records := make([]ident.Numbered, 0, s.totalLocked())
	for id, rec := range s.annotations {
		records = append(records, ident.Numbered{ID: id, Category: rec.Category, Number: rec.Number})
	}
	for id, rec := range s.audiences {
		records = append(records, ident.Numbered{ID: id, Category: core.CategoryAudience, Number: rec.Number})
	}
	for id, rec := range s.measurements {
		records = append(records, ident.Numbered{ID: id, Category: core.CategoryMeasurement, Number: rec.Number})
	}
	for id, rec := range s.restricted {
		records = append(records, ident.Numbered{ID: id, Category: core.CategoryRestricted, Number: rec.Number})
	}

	assigned := s.gen.RenumberAll(records)

	for id, n := range assigned {
		if rec, ok := s.annotations[id]; ok {
			rec.Number = n
			s.annotations[id] = rec
		} else if rec, ok := s.audiences[id]; ok {
			rec.Number = n
			s.audiences[id] = rec
		} else if rec, ok := s.measurements[id]; ok {
			rec.Number = n
			s.measurements[id] = rec
		} else if rec, ok := s.restricted[id]; ok {
			rec.Number = n
			s.restricted[id] = rec
		}
	}
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeRenumbered})
}

// SetShowHeight flips the global height toggle and reconciles every point
// annotation's extrusion before returning, so an export started right
// after the toggle reads a fully reconciled overlay set.
func (s *Store) SetShowHeight(on bool) {
	s.mu.Lock()
	s.project.SetShowHeight(on)
	for _, rec := range s.annotations {
		s.extrusions.SyncForRecord(rec, on)
	}
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeSettings})
}

// SetCamera records a camera move from the map collaborator.
func (s *Store) SetCamera(cam core.Camera) {
	s.project.SetCamera(cam)
	s.notify(Change{Kind: ChangeCamera})
}

// Camera returns the current map camera.
func (s *Store) Camera() core.Camera {
	return s.project.Camera()
}

// SetUnits switches the project's display units.
func (s *Store) SetUnits(u core.Units) {
	s.project.SetUnits(u)
	s.notify(Change{Kind: ChangeSettings})
}

// SetSafetyDistance sets the project's safety distance rule in feet.
func (s *Store) SetSafetyDistance(ft float64) {
	s.project.SetSafetyDistance(ft)
	s.notify(Change{Kind: ChangeSettings})
}

// Settings returns the current project settings.
func (s *Store) Settings() core.Settings {
	return s.project.Settings()
}

// Counts returns the derived per-category cardinalities.
func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Annotations:  len(s.annotations),
		Audience:     len(s.audiences),
		Measurements: len(s.measurements),
		Restricted:   len(s.restricted),
		Total:        s.totalLocked(),
	}
}

func (s *Store) totalLocked() int {
	return len(s.annotations) + len(s.audiences) + len(s.measurements) + len(s.restricted)
}

func clonePath(path []core.LatLng) []core.LatLng {
	out := make([]core.LatLng, len(path))
	copy(out, path)
	return out
}
