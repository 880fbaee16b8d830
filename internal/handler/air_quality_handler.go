package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eolos-vlc/eolos-backend/internal/service"
	"github.com/eolos-vlc/eolos-backend/pkg/response"
)

// AirQualityHandler handles HTTP requests for air quality
type AirQualityHandler struct {
	service *service.AirQualityService
}

// NewAirQualityHandler creates a new air quality handler
func NewAirQualityHandler(service *service.AirQualityService) *AirQualityHandler {
	return &AirQualityHandler{service: service}
}

// GetLatestAQI handles GET /api/v1/air-quality/aqi/:board_id
func (h *AirQualityHandler) GetLatestAQI(c *gin.Context) {
	reading, err := h.service.LatestAQI(c.Request.Context(), c.Param("board_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, reading)
}
