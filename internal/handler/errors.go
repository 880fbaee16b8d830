package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eolos-vlc/eolos-backend/internal/service"
	"github.com/eolos-vlc/eolos-backend/pkg/response"
)

var notFoundErrors = []error{
	service.ErrUserNotFound,
	service.ErrTripNotFound,
	service.ErrBicycleNotFound,
	service.ErrBoardNotFound,
	service.ErrNoReadings,
}

var conflictErrors = []error{
	service.ErrTripClosed,
	service.ErrEmailTaken,
}

// statusFor maps a service error to an HTTP status code
func statusFor(err error) int {
	if !service.IsValidation(err) {
		return http.StatusInternalServerError
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	return http.StatusBadRequest
}

// writeError sends err in the response envelope. Infrastructure details stay in the logs.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *service.ValidationError
	message := err.Error()
	if errors.As(err, &ve) && ve.Message != "" {
		message = ve.Message
	}

	switch statusFor(err) {
	case http.StatusConflict:
		response.Conflict(c, message)
	case http.StatusNotFound:
		response.NotFound(c, message)
	case http.StatusBadRequest:
		response.BadRequest(c, message)
	default:
		response.InternalError(c, "internal server error")
	}
}

// bindError reports a request body that failed to decode or validate
func bindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	response.BadRequest(c, "Invalid request body: "+err.Error())
}
