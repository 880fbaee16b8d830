package models

import (
	"strings"
	"time"
)

// AQIReading is the air quality index derived from the latest PM2.5 reading of a board
type AQIReading struct {
	AQI        int       `json:"aqi"`
	PM25       float64   `json:"pm2_5"`
	MeasuredAt time.Time `json:"measured_at"`
}

// BicycleStatusView is one row of the sensor status board
type BicycleStatusView struct {
	ID         string `json:"id"`
	Status     string `json:"status"`      // sensor board status
	LastUpdate string `json:"last_update"` // human readable, e.g. "5 min"
	Station    string `json:"station"`
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
