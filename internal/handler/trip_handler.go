package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eolos-vlc/eolos-backend/internal/models"
	"github.com/eolos-vlc/eolos-backend/internal/service"
	"github.com/eolos-vlc/eolos-backend/pkg/response"
)

// TripHandler handles HTTP requests for the trip lifecycle
type TripHandler struct {
	service *service.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(service *service.TripService) *TripHandler {
	return &TripHandler{service: service}
}

// StartTrip handles POST /api/v1/trips/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	var req StartTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tripID, err := h.service.StartTrip(c.Request.Context(), req.CardID, req.BicycleID, req.StartTime, req.Origin.Position())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, gin.H{"trip_id": tripID})
}

// RecordMeasurement handles POST /api/v1/trips/measurements
func (h *TripHandler) RecordMeasurement(c *gin.Context) {
	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	readingID, err := h.service.RecordMeasurement(c.Request.Context(), models.Measurement{
		BoardID:   req.BoardID,
		TripID:    req.TripID,
		Timestamp: req.Timestamp,
		Kind:      req.Kind,
		Value:     *req.Value,
		Position:  req.Position.Position(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, gin.H{"reading_id": readingID})
}

// CloseTrip handles PUT /api/v1/trips/close
func (h *TripHandler) CloseTrip(c *gin.Context) {
	var req CloseTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	trip, err := h.service.CloseTrip(c.Request.Context(), req.TripID, req.EndTime, req.Destination.Position())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, trip)
}

// GetParticipants handles GET /api/v1/trips/:id/participants
func (h *TripHandler) GetParticipants(c *gin.Context) {
	participants, err := h.service.TripParticipants(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, participants)
}

// UpdateBoardStatus handles PUT /api/v1/boards/status
func (h *TripHandler) UpdateBoardStatus(c *gin.Context) {
	var req BoardStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.service.UpdateBoardStatus(c.Request.Context(), req.BoardID, req.Status, req.UpdatedAt); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{"board_id": req.BoardID, "status": req.Status})
}

// UpdateBicycleStatus handles PUT /api/v1/bicycles/status
func (h *TripHandler) UpdateBicycleStatus(c *gin.Context) {
	var req BicycleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	bicycle, err := h.service.UpdateBicycleStatus(c.Request.Context(), req.BicycleID, req.Position.Position(), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, bicycle)
}

// MatchStation handles POST /api/v1/stations/match
func (h *TripHandler) MatchStation(c *gin.Context) {
	var req StationMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	stationID, err := h.service.CheckStationMatch(c.Request.Context(), req.Position.Position())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, StationMatchResponse{Matched: stationID != nil, StationID: stationID})
}
