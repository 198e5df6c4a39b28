package store

import (
	"sort"

	"github.com/pyroplan/siteplan/pkg/core"
)

// Snapshot is an immutable copy of the full store state at one instant.
// Export and share operations take a snapshot synchronously and work from
// it, since the live store may move on while they run.
type Snapshot struct {
	Camera   core.Camera   `json:"camera"`
	Settings core.Settings `json:"settings"`

	Annotations  []core.AnnotationRecord  `json:"annotations"`
	Audiences    []core.AudienceRecord    `json:"audiences"`
	Measurements []core.MeasurementRecord `json:"measurements"`
	Restricted   []core.RestrictedRecord  `json:"restricted"`
}

// Counts derives the per-category cardinalities of the snapshot.
func (snap Snapshot) Counts() Counts {
	return Counts{
		Annotations:  len(snap.Annotations),
		Audience:     len(snap.Audiences),
		Measurements: len(snap.Measurements),
		Restricted:   len(snap.Restricted),
		Total:        len(snap.Annotations) + len(snap.Audiences) + len(snap.Measurements) + len(snap.Restricted),
	}
}

// Snapshot copies every record plus settings and camera under one read
// lock. Records are ordered by display number so serialized output is
// deterministic.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()

	snap := Snapshot{
		Camera:       s.project.Camera(),
		Settings:     s.project.Settings(),
		Annotations:  make([]core.AnnotationRecord, 0, len(s.annotations)),
		Audiences:    make([]core.AudienceRecord, 0, len(s.audiences)),
		Measurements: make([]core.MeasurementRecord, 0, len(s.measurements)),
		Restricted:   make([]core.RestrictedRecord, 0, len(s.restricted)),
	}

	for _, rec := range s.annotations {
		snap.Annotations = append(snap.Annotations, rec)
	}
	for _, rec := range s.audiences {
		rec.Geometry = clonePath(rec.Geometry)
		snap.Audiences = append(snap.Audiences, rec)
	}
	for _, rec := range s.measurements {
		rec.Geometry = clonePath(rec.Geometry)
		snap.Measurements = append(snap.Measurements, rec)
	}
	for _, rec := range s.restricted {
		rec.Geometry = clonePath(rec.Geometry)
		snap.Restricted = append(snap.Restricted, rec)
	}
	s.mu.RUnlock()

	sort.Slice(snap.Annotations, func(i, j int) bool { return snap.Annotations[i].Number < snap.Annotations[j].Number })
	sort.Slice(snap.Audiences, func(i, j int) bool { return snap.Audiences[i].Number < snap.Audiences[j].Number })
	sort.Slice(snap.Measurements, func(i, j int) bool { return snap.Measurements[i].Number < snap.Measurements[j].Number })
	sort.Slice(snap.Restricted, func(i, j int) bool { return snap.Restricted[i].Number < snap.Restricted[j].Number })

	return snap
}
