package handler

import (
	"time"

	"github.com/eolos-vlc/eolos-backend/internal/models"
	"github.com/eolos-vlc/eolos-backend/internal/spatial"
)

// PositionRequest is a GPS fix. Pointers let (0, 0), the no-fix sentinel, pass validation.
type PositionRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lon *float64 `json:"lon" binding:"required"`
}

func (p PositionRequest) Position() spatial.Position {
	return spatial.NewPosition(*p.Lat, *p.Lon)
}

type StartTripRequest struct {
	CardID    string          `json:"card_id" binding:"required"`
	BicycleID string          `json:"bicycle_id" binding:"required"`
	StartTime time.Time       `json:"start_time" binding:"required"`
	Origin    PositionRequest `json:"origin"`
}

type MeasurementRequest struct {
	TripID    string                 `json:"trip_id" binding:"required"`
	BoardID   string                 `json:"board_id" binding:"required"`
	Kind      models.MeasurementKind `json:"kind" binding:"required"`
	Value     *float64               `json:"value" binding:"required"`
	Timestamp time.Time              `json:"timestamp" binding:"required"`
	Position  PositionRequest        `json:"position"`
}

type CloseTripRequest struct {
	TripID      string          `json:"trip_id" binding:"required"`
	EndTime     time.Time       `json:"end_time" binding:"required"`
	Destination PositionRequest `json:"destination"`
}

type BoardStatusRequest struct {
	BoardID   string    `json:"board_id" binding:"required"`
	Status    string    `json:"status" binding:"required"`
	UpdatedAt time.Time `json:"last_status_update" binding:"required"`
}

type BicycleStatusRequest struct {
	BicycleID string               `json:"bicycle_id" binding:"required"`
	Position  PositionRequest      `json:"position"`
	Status    models.BicycleStatus `json:"status" binding:"required"`
}

type StationMatchRequest struct {
	Position PositionRequest `json:"position"`
}

// StationMatchResponse reports the matched station, if any
type StationMatchResponse struct {
	Matched   bool   `json:"matched"`
	StationID *int64 `json:"station_id"`
}
