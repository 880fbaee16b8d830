package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eolos-vlc/eolos-backend/internal/auth"
	"github.com/eolos-vlc/eolos-backend/internal/models"
	"github.com/eolos-vlc/eolos-backend/internal/service"
	"github.com/eolos-vlc/eolos-backend/pkg/response"
)

// ProfileHandler handles HTTP requests for the authenticated user's profile
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	user, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, user)
}

// Update handles PUT /api/v1/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var upd models.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.service.Update(c.Request.Context(), userID, upd)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, user)
}
