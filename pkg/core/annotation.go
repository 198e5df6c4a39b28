// pkg/core/annotation.go
package core

// Category identifies the kind of a placed annotation.
type Category string

const (
	CategoryFirework    Category = "firework"
	CategoryCustom      Category = "custom"
	CategoryAudience    Category = "audience"
	CategoryMeasurement Category = "measurement"
	CategoryRestricted  Category = "restricted"
)

// Categories lists every annotation category in display order.
var Categories = []Category{
	CategoryFirework,
	CategoryCustom,
	CategoryAudience,
	CategoryMeasurement,
	CategoryRestricted,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFirework, CategoryCustom, CategoryAudience, CategoryMeasurement, CategoryRestricted:
		return true
	}
	return false
}

// LatLng is a geographic coordinate in EPSG:4326.
type LatLng struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Record is the uniform contract over all annotation variants. The store
// addresses every record through this interface regardless of category.
type Record interface {
	RecordID() string
	RecordNumber() int
	RecordCategory() Category
}

// AnnotationRecord is a point annotation: a firework position or a custom
// marker. ID is immutable once assigned; Number changes only through
// renumbering.
type AnnotationRecord struct {
	ID            string   `json:"id"`
	Number        int      `json:"number"`
	Category      Category `json:"category"` // firework or custom
	Position      LatLng   `json:"position"`
	Color         string   `json:"color"` // RGB hex, e.g. "#ff3300"
	Label         string   `json:"label"`
	HeightFeet    float64  `json:"heightFeet"` // extrusion height when shown
	HeightVisible bool     `json:"heightVisible"`
}

func (r AnnotationRecord) RecordID() string         { return r.ID }
func (r AnnotationRecord) RecordNumber() int        { return r.Number }
func (r AnnotationRecord) RecordCategory() Category { return r.Category }

// AudienceRecord is a rectangular audience area. Geometry is the outline
// polygon; WidthFeet/HeightFeet are the user-entered dimensions.
type AudienceRecord struct {
	ID         string   `json:"id"`
	Number     int      `json:"number"`
	Geometry   []LatLng `json:"geometry"` // closed outline, >= 3 vertices
	WidthFeet  float64  `json:"widthFeet"`
	HeightFeet float64  `json:"heightFeet"`
	Label      string   `json:"label"`
}

func (r AudienceRecord) RecordID() string         { return r.ID }
func (r AudienceRecord) RecordNumber() int        { return r.Number }
func (r AudienceRecord) RecordCategory() Category { return CategoryAudience }

// MeasurementRecord is a measured line across the site. DistanceFeet is
// derived from Geometry on add/update, never set by the caller.
type MeasurementRecord struct {
	ID           string   `json:"id"`
	Number       int      `json:"number"`
	Geometry     []LatLng `json:"geometry"` // >= 2 vertices
	DistanceFeet float64  `json:"distanceFeet"`
	Label        string   `json:"label"`
}

func (r MeasurementRecord) RecordID() string         { return r.ID }
func (r MeasurementRecord) RecordNumber() int        { return r.Number }
func (r MeasurementRecord) RecordCategory() Category { return CategoryMeasurement }

// RestrictedRecord is a keep-out zone. AreaSqFeet is derived from Geometry
// on add/update.
type RestrictedRecord struct {
	ID         string   `json:"id"`
	Number     int      `json:"number"`
	Geometry   []LatLng `json:"geometry"` // closed outline, >= 3 vertices
	AreaSqFeet float64  `json:"areaSqFeet"`
	Label      string   `json:"label"`
}

func (r RestrictedRecord) RecordID() string         { return r.ID }
func (r RestrictedRecord) RecordNumber() int        { return r.Number }
func (r RestrictedRecord) RecordCategory() Category { return CategoryRestricted }
