// Package v1 contains the v1 site-plan document format. This is the shape
// consumed by the PDF layout collaborator and the share server.
package v1

// Document is the root JSON structure for v1 format
type Document struct {
	FormatVersion  string  `json:"formatVersion"`
	PlanName       string  `json:"planName"`
	GeneratedAt    string  `json:"generatedAt"` // RFC3339 UTC
	Units          string  `json:"units"`
	SafetyDistance float64 `json:"safetyDistance"`

	Camera Camera `json:"camera"`

	AnnotationCount  int `json:"annotationCount"`
	AudienceCount    int `json:"audienceCount"`
	MeasurementCount int `json:"measurementCount"`
	RestrictedCount  int `json:"restrictedCount"`
	TotalAnnotations int `json:"totalAnnotations"`

	Features []Feature `json:"features"`
}

// Camera is the map view the plan was exported with
type Camera struct {
	Center  [2]float64 `json:"center"` // lng, lat
	Zoom    float64    `json:"zoom"`
	Bearing float64    `json:"bearing"`
	Pitch   float64    `json:"pitch"`
}

// Feature is one annotation flattened for layout
type Feature struct {
	ID       string `json:"id"`
	Number   int    `json:"number"`
	Category string `json:"category"`
	Label    string `json:"label,omitempty"`
	Color    string `json:"color,omitempty"`

	// Position for point annotations, Geometry for lines and outlines
	Position *[2]float64  `json:"position,omitempty"`
	Geometry [][2]float64 `json:"geometry,omitempty"`

	// Category-specific measurements
	HeightFeet   float64 `json:"heightFeet,omitempty"`
	WidthFeet    float64 `json:"widthFeet,omitempty"`
	AreaHeight   float64 `json:"areaHeightFeet,omitempty"`
	DistanceFeet float64 `json:"distanceFeet,omitempty"`
	AreaSqFeet   float64 `json:"areaSqFeet,omitempty"`
}
