// Package util provides small formatting helpers used across the planner.
package util

import (
	"fmt"
	"strings"

	"github.com/pyroplan/siteplan/internal/geo"
	"github.com/pyroplan/siteplan/pkg/core"
)

// DefaultAnnotationColor is used when a payload supplies no color.
const DefaultAnnotationColor = "#ff3300"

// NormalizeHexColor lowercases an RGB hex color and ensures the leading
// "#". Empty input falls back to the default annotation color.
func NormalizeHexColor(c string) string {
	c = strings.TrimSpace(strings.ToLower(c))
	if c == "" {
		return DefaultAnnotationColor
	}
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	return c
}

// FormatDistance renders a distance held in feet in the project's units.
func FormatDistance(feet float64, units core.Units) string {
	if units == core.UnitsMeters {
		return fmt.Sprintf("%.1f m", geo.FeetToMeters(feet))
	}
	return fmt.Sprintf("%.1f ft", feet)
}

// FormatArea renders an area held in square feet in the project's units.
func FormatArea(sqFeet float64, units core.Units) string {
	if units == core.UnitsMeters {
		return fmt.Sprintf("%.1f m²", sqFeet/(geo.FeetPerMeter*geo.FeetPerMeter))
	}
	return fmt.Sprintf("%.1f ft²", sqFeet)
}
