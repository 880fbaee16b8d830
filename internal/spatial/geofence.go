package spatial

import "math"

// DefaultMatchThresholdMeters is how close a position must be to a station to be "at" it
const DefaultMatchThresholdMeters = 50.0

// Candidate is a fixed location a position can be snapped to (e.g. a station)
type Candidate struct {
	ID       int64
	Position Position
}

// Match is the result of a successful geofence lookup
type Match struct {
	ID             int64
	DistanceMeters float64
}

// Matcher finds the nearest candidate to a position and accepts it only
// within a fixed distance threshold.
type Matcher struct {
	thresholdMeters float64
	earthRadiusKm   float64
}

// NewMatcher creates a matcher. Non-positive arguments fall back to the defaults.
func NewMatcher(thresholdMeters, earthRadiusKm float64) *Matcher {
	if thresholdMeters <= 0 {
		thresholdMeters = DefaultMatchThresholdMeters
	}
	if earthRadiusKm <= 0 {
		earthRadiusKm = EarthRadiusKm
	}
	return &Matcher{
		thresholdMeters: thresholdMeters,
		earthRadiusKm:   earthRadiusKm,
	}
}

// ThresholdMeters returns the configured match threshold
func (m *Matcher) ThresholdMeters() float64 {
	return m.thresholdMeters
}

// EarthRadiusKm returns the sphere radius used for distances
func (m *Matcher) EarthRadiusKm() float64 {
	return m.earthRadiusKm
}

// Nearest scans all candidates and returns the closest one if it lies within
// the threshold. Ties keep the first candidate in iteration order.
func (m *Matcher) Nearest(pos Position, candidates []Candidate) (Match, bool) {
	best := Match{DistanceMeters: math.Inf(1)}
	found := false

	for _, c := range candidates {
		d := DistanceWithRadius(pos, c.Position, m.earthRadiusKm)
		if d < best.DistanceMeters {
			best = Match{ID: c.ID, DistanceMeters: d}
			found = true
		}
	}

	if !found || best.DistanceMeters > m.thresholdMeters {
		return Match{}, false
	}
	return best, true
}
