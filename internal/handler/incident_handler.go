package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eolos-vlc/eolos-backend/internal/auth"
	"github.com/eolos-vlc/eolos-backend/internal/models"
	"github.com/eolos-vlc/eolos-backend/internal/service"
	"github.com/eolos-vlc/eolos-backend/pkg/response"
)

// IncidentHandler handles HTTP requests for incidents. Routes require auth.RequireUser.
type IncidentHandler struct {
	service *service.IncidentService
}

// NewIncidentHandler creates a new incident handler
func NewIncidentHandler(service *service.IncidentService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

// Create handles POST /api/v1/incidents
func (h *IncidentHandler) Create(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var in models.IncidentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	incident, err := h.service.Create(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, incident)
}

// ListMine handles GET /api/v1/incidents/mine
func (h *IncidentHandler) ListMine(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	incidents, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, incidents)
}
