package models

import "github.com/eolos-vlc/eolos-backend/internal/spatial"

// Station is a fixed bicycle dock
type Station struct {
	ID       int64   `json:"station_id" db:"station_id"`
	Name     string  `json:"name" db:"name"`
	Lat      float64 `json:"lat" db:"lat"`
	Lon      float64 `json:"lon" db:"lon"`
	Capacity int     `json:"capacity" db:"capacity"`
}

// Position returns the station location
func (s Station) Position() spatial.Position {
	return spatial.NewPosition(s.Lat, s.Lon)
}

// Candidate converts the station into a geofence candidate
func (s Station) Candidate() spatial.Candidate {
	return spatial.Candidate{ID: s.ID, Position: s.Position()}
}
