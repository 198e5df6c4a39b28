package v1

import (
	"time"

	"github.com/pyroplan/siteplan/internal/store"
	"github.com/pyroplan/siteplan/pkg/core"
)

// FormatVersion identifies this document layout.
const FormatVersion = "1"

// Build flattens a store snapshot into a v1 site-plan document. Features
// are emitted in display-number order within each category, annotations
// first, which is the order the PDF legend lists them in.
func Build(snap store.Snapshot, planName string, now time.Time) Document {
	counts := snap.Counts()

	doc := Document{
		FormatVersion:  FormatVersion,
		PlanName:       planName,
		GeneratedAt:    now.UTC().Format(time.RFC3339),
		Units:          string(snap.Settings.Units),
		SafetyDistance: snap.Settings.SafetyDistance,
		Camera: Camera{
			Center:  [2]float64{snap.Camera.Center.Lng, snap.Camera.Center.Lat},
			Zoom:    snap.Camera.Zoom,
			Bearing: snap.Camera.Bearing,
			Pitch:   snap.Camera.Pitch,
		},
		AnnotationCount:  counts.Annotations,
		AudienceCount:    counts.Audience,
		MeasurementCount: counts.Measurements,
		RestrictedCount:  counts.Restricted,
		TotalAnnotations: counts.Total,
		Features:         make([]Feature, 0, counts.Total),
	}

	for _, rec := range snap.Annotations {
		pos := [2]float64{rec.Position.Lng, rec.Position.Lat}
		doc.Features = append(doc.Features, Feature{
			ID:         rec.ID,
			Number:     rec.Number,
			Category:   string(rec.Category),
			Label:      rec.Label,
			Color:      rec.Color,
			Position:   &pos,
			HeightFeet: rec.HeightFeet,
		})
	}
	for _, rec := range snap.Audiences {
		doc.Features = append(doc.Features, Feature{
			ID:         rec.ID,
			Number:     rec.Number,
			Category:   string(core.CategoryAudience),
			Label:      rec.Label,
			Geometry:   flattenPath(rec.Geometry),
			WidthFeet:  rec.WidthFeet,
			AreaHeight: rec.HeightFeet,
		})
	}
	for _, rec := range snap.Measurements {
		doc.Features = append(doc.Features, Feature{
			ID:           rec.ID,
			Number:       rec.Number,
			Category:     string(core.CategoryMeasurement),
			Label:        rec.Label,
			Geometry:     flattenPath(rec.Geometry),
			DistanceFeet: rec.DistanceFeet,
		})
	}
	for _, rec := range snap.Restricted {
		doc.Features = append(doc.Features, Feature{
			ID:         rec.ID,
			Number:     rec.Number,
			Category:   string(core.CategoryRestricted),
			Label:      rec.Label,
			Geometry:   flattenPath(rec.Geometry),
			AreaSqFeet: rec.AreaSqFeet,
		})
	}

	return doc
}

func flattenPath(path []core.LatLng) [][2]float64 {
	out := make([][2]float64, len(path))
	for i, pt := range path {
		out[i] = [2]float64{pt.Lng, pt.Lat}
	}
	return out
}
