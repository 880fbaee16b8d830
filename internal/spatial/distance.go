package spatial

import (
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusKm     = 6371.0                 // Earth's mean radius in kilometers
	EarthRadiusMeters = EarthRadiusKm * 1000.0 // Earth's mean radius in meters
)

// Position is an immutable WGS84 latitude/longitude pair in degrees.
// (0, 0) is used by sensor boards as a "no fix" sentinel.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewPosition creates a position. Coordinates are not range-checked.
func NewPosition(lat, lon float64) Position {
	return Position{Lat: lat, Lon: lon}
}

// LatLng converts the position to an S2 LatLng
func (p Position) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lon)
}

// Distance calculates the great-circle distance between two positions in meters
// using the Haversine formula on a sphere of EarthRadiusKm.
func Distance(a, b Position) float64 {
	return DistanceWithRadius(a, b, EarthRadiusKm)
}

// DistanceWithRadius is Distance on a sphere of the given radius (kilometers).
func DistanceWithRadius(a, b Position, radiusKm float64) float64 {
	// s2.LatLng.Distance is the haversine formula
	return a.LatLng().Distance(b.LatLng()).Radians() * radiusKm * 1000.0
}

// PathLength sums the distances between consecutive positions.
// Paths with fewer than two positions have length 0.
func PathLength(path []Position, radiusKm float64) float64 {
	if len(path) < 2 {
		return 0.0
	}

	total := 0.0
	for i := 1; i < len(path); i++ {
		total += DistanceWithRadius(path[i-1], path[i], radiusKm)
	}
	return total
}
