package models

import "time"

// Trip is one rider's use of one bicycle from an origin station to a destination station
type Trip struct {
	ID        string `json:"trip_id" db:"trip_id"`
	UserID    string `json:"user_id" db:"user_id"`
	BicycleID string `json:"bicycle_id" db:"bicycle_id"`

	// Temporal info
	StartTime time.Time  `json:"start_time" db:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty" db:"end_time"` // nil while the trip is open

	// Origin and destination
	OriginStationID      *int64 `json:"origin_station_id" db:"origin_station_id"`
	DestinationStationID *int64 `json:"destination_station_id,omitempty" db:"destination_station_id"`

	TotalDistanceMeters *float64 `json:"total_distance_meters,omitempty" db:"total_distance_meters"`
}

// IsClosed reports whether the trip has been closed
func (t *Trip) IsClosed() bool {
	return t.EndTime != nil
}

// TripParticipants identifies who and what took part in a trip
type TripParticipants struct {
	UserID  string `json:"user_id"`
	BoardID string `json:"board_id"`
}
