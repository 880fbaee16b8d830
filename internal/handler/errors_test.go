package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eolos-vlc/eolos-backend/internal/service"
	"github.com/eolos-vlc/eolos-backend/pkg/response"
)

func TestStatusFor(t *testing.T) {
	validation := func(cause error) error {
		return &service.ValidationError{Op: "op", Err: cause, Message: "msg"}
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no station match", validation(service.ErrNoStationMatch), http.StatusBadRequest},
		{"invalid input", validation(service.ErrInvalidInput), http.StatusBadRequest},
		{"trip not found", validation(service.ErrTripNotFound), http.StatusNotFound},
		{"no readings", validation(service.ErrNoReadings), http.StatusNotFound},
		{"trip closed", validation(service.ErrTripClosed), http.StatusConflict},
		{"email taken", validation(service.ErrEmailTaken), http.StatusConflict},
		{"wrapped validation", fmt.Errorf("ctx: %w", validation(service.ErrBoardNotFound)), http.StatusNotFound},
		{"infrastructure", &service.InfrastructureError{Op: "op", Err: errors.New("disk")}, http.StatusInternalServerError},
		{"bare error", errors.New("boom"), http.StatusInternalServerError},
		// a not-found sentinel only counts when it is a validation failure
		{"unclassified sentinel", service.ErrTripNotFound, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "conflict",
			err:         &service.ValidationError{Op: "close_trip", Err: service.ErrTripClosed, Message: "trip t-1 is already closed"},
			wantStatus:  http.StatusConflict,
			wantMessage: "trip t-1 is already closed",
		},
		{
			name:        "not found",
			err:         &service.ValidationError{Op: "close_trip", Err: service.ErrTripNotFound, Message: "trip t-1 not found"},
			wantStatus:  http.StatusNotFound,
			wantMessage: "trip t-1 not found",
		},
		{
			name:        "bad request without message",
			err:         &service.ValidationError{Op: "start_trip", Err: service.ErrNoStationMatch},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "start_trip: position does not match any station",
		},
		{
			name:        "infrastructure details are hidden",
			err:         &service.InfrastructureError{Op: "start_trip", Err: errors.New("database is locked")},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			writeError(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Code)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}
