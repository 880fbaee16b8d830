package models

import (
	"time"

	"github.com/eolos-vlc/eolos-backend/internal/spatial"
)

// MeasurementKind is the quantity a sensor reading measures
type MeasurementKind string

// MeasurementKind constants
const (
	KindPM25        MeasurementKind = "pm2_5"
	KindPM10        MeasurementKind = "pm10"
	KindCO          MeasurementKind = "co"
	KindNO2         MeasurementKind = "no2"
	KindO3          MeasurementKind = "o3"
	KindTemperature MeasurementKind = "temperature"
	KindHumidity    MeasurementKind = "humidity"
)

// Valid reports whether k is a known measurement kind
func (k MeasurementKind) Valid() bool {
	switch k {
	case KindPM25, KindPM10, KindCO, KindNO2, KindO3, KindTemperature, KindHumidity:
		return true
	}
	return false
}

// Measurement is one GPS-tagged sensor reading taken during a trip
type Measurement struct {
	ReadingID string           `json:"reading_id" db:"reading_id"`
	BoardID   string           `json:"board_id" db:"board_id"`
	TripID    string           `json:"trip_id" db:"trip_id"`
	Timestamp time.Time        `json:"timestamp" db:"recorded_at"` // UTC
	Kind      MeasurementKind  `json:"kind" db:"kind"`
	Value     float64          `json:"value" db:"value"`
	Position  spatial.Position `json:"position"`
}
