package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eolos-vlc/eolos-backend/internal/service"
	"github.com/eolos-vlc/eolos-backend/pkg/response"
)

// SensorStatusHandler handles HTTP requests for the bicycle status board
type SensorStatusHandler struct {
	service *service.SensorStatusService
	now     func() time.Time
}

// NewSensorStatusHandler creates a new sensor status handler
func NewSensorStatusHandler(service *service.SensorStatusService) *SensorStatusHandler {
	return &SensorStatusHandler{service: service, now: time.Now}
}

// ListBicycles handles GET /api/v1/sensor-status/bicycles
func (h *SensorStatusHandler) ListBicycles(c *gin.Context) {
	views, err := h.service.ListBicycles(c.Request.Context(), h.now().UTC())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, views)
}
