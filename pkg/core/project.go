// pkg/core/project.go
package core

// Units selects the display unit system for distances and areas.
type Units string

const (
	UnitsFeet   Units = "feet"
	UnitsMeters Units = "meters"
)

// Settings holds project-level options that apply to the whole site plan.
type Settings struct {
	Units          Units   `json:"units"`
	SafetyDistance float64 `json:"safetyDistance"` // feet per inch of shell diameter
	ShowHeight     bool    `json:"showHeight"`     // global extrusion toggle
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		Units:          UnitsFeet,
		SafetyDistance: 70,
		ShowHeight:     false,
	}
}

// Camera is the map view state. It is ephemeral: not domain data, but
// carried in share links so a reopened plan shows the same view.
type Camera struct {
	Center  LatLng  `json:"center"`
	Zoom    float64 `json:"zoom"`
	Bearing float64 `json:"bearing"`
	Pitch   float64 `json:"pitch"`
}

// UploadMetadata describes an exported site plan for the share server.
type UploadMetadata struct {
	PlanName        string
	AnnotationCount int
	ExportVersion   string
}
