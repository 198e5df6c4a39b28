// Package geo converts between geographic coordinates and the linear/area
// measurements shown on the site plan. Measurements are taken in Web
// Mercator (EPSG:3857) with a local scale correction, which is accurate to
// well under a foot at event-site extents.
package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/pyroplan/siteplan/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// ErrInvalidCoordinates is returned when a coordinate string cannot be parsed.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// FeetPerMeter is the international foot conversion factor.
const FeetPerMeter = 3.28083989501312

// FeetToMeters converts feet to meters.
func FeetToMeters(ft float64) float64 {
	return ft / FeetPerMeter
}

// MetersToFeet converts meters to feet.
func MetersToFeet(m float64) float64 {
	return m * FeetPerMeter
}

// LatLngFromString parses a "lng,lat" string into a core.LatLng.
func LatLngFromString(coords string) (core.LatLng, error) {
	parts := strings.Split(coords, ",")
	if len(parts) < 2 {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	return core.LatLng{Lng: lng, Lat: lat}, nil
}

// Project3857 transforms an EPSG:4326 coordinate to EPSG:3857.
func Project3857(pt core.LatLng) (x, y float64) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ = f(pt.Lng, pt.Lat, 0)
	return x, y
}

// lineString3857 projects a path into a planar EPSG:3857 line string.
func lineString3857(path []core.LatLng) geom.LineString {
	flat := make([]float64, 0, len(path)*2)
	for _, pt := range path {
		x, y := Project3857(pt)
		flat = append(flat, x, y)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	return geom.NewLineString(seq)
}

// meanLatitude returns the average latitude of a path in radians.
func meanLatitude(path []core.LatLng) float64 {
	if len(path) == 0 {
		return 0
	}
	var sum float64
	for _, pt := range path {
		sum += pt.Lat
	}
	return sum / float64(len(path)) * math.Pi / 180
}

// PathLengthMeters measures the ground length of a line annotation.
// Mercator lengths are scaled by 1/cos(lat), so the planar length is
// corrected back by cos of the mean latitude.
func PathLengthMeters(path []core.LatLng) float64 {
	if len(path) < 2 {
		return 0
	}
	ls := lineString3857(path)
	return ls.Length() * math.Cos(meanLatitude(path))
}

// RingAreaSqMeters measures the ground area enclosed by a polygon
// annotation. The ring is closed automatically if the caller left it open.
func RingAreaSqMeters(ring []core.LatLng) float64 {
	if len(ring) < 3 {
		return 0
	}
	closed := ring
	if ring[0] != ring[len(ring)-1] {
		closed = make([]core.LatLng, 0, len(ring)+1)
		closed = append(closed, ring...)
		closed = append(closed, ring[0])
	}
	shell := lineString3857(closed)
	poly := geom.NewPolygon([]geom.LineString{shell})
	scale := math.Cos(meanLatitude(ring))
	return poly.Area() * scale * scale
}

// PathLengthFeet measures the ground length of a line annotation in feet.
func PathLengthFeet(path []core.LatLng) float64 {
	return MetersToFeet(PathLengthMeters(path))
}

// RingAreaSqFeet measures the enclosed ground area in square feet.
func RingAreaSqFeet(ring []core.LatLng) float64 {
	return RingAreaSqMeters(ring) * FeetPerMeter * FeetPerMeter
}
