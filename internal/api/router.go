package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eolos-vlc/eolos-backend/internal/auth"
	"github.com/eolos-vlc/eolos-backend/internal/handler"
	"github.com/eolos-vlc/eolos-backend/internal/metrics"
	"github.com/eolos-vlc/eolos-backend/internal/middleware"
	"github.com/eolos-vlc/eolos-backend/internal/service"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies is everything the router wires into handlers
type Dependencies struct {
	Logger      *zap.Logger
	DB          Pinger
	Verifier    *auth.Verifier
	Metrics     *metrics.Collector // nil disables /metrics
	MetricsPath string
	RateLimiter *middleware.RateLimiter // nil disables rate limiting

	Trips        *service.TripService
	AirQuality   *service.AirQualityService
	SensorStatus *service.SensorStatusService
	Incidents    *service.IncidentService
	Profiles     *service.ProfileService
}

// SetupRouter builds the gin engine with all routes
func SetupRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logger(logger))

	if deps.Metrics != nil {
		r.Use(middleware.NewHTTPMetrics(deps.Metrics.Registry()).Handler())
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(deps.Metrics.Handler()))
	}

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.DB.PingContext(ctx); err != nil {
				logger.Error("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "eolos backend is running",
		})
	})

	api := r.Group("/api/v1")
	if deps.RateLimiter != nil {
		api.Use(middleware.RateLimit(deps.RateLimiter))
	}

	trips := handler.NewTripHandler(deps.Trips)
	{
		g := api.Group("/trips")
		g.POST("/start", trips.StartTrip)
		g.POST("/measurements", trips.RecordMeasurement)
		g.PUT("/close", trips.CloseTrip)
		g.GET("/:id/participants", trips.GetParticipants)
	}
	api.PUT("/boards/status", trips.UpdateBoardStatus)
	api.PUT("/bicycles/status", trips.UpdateBicycleStatus)
	api.POST("/stations/match", trips.MatchStation)

	if deps.AirQuality != nil {
		aq := handler.NewAirQualityHandler(deps.AirQuality)
		api.GET("/air-quality/aqi/:board_id", aq.GetLatestAQI)
	}

	if deps.SensorStatus != nil {
		status := handler.NewSensorStatusHandler(deps.SensorStatus)
		api.GET("/sensor-status/bicycles", status.ListBicycles)
	}

	// User-scoped routes
	if deps.Verifier != nil {
		authed := api.Group("")
		authed.Use(auth.RequireUser(deps.Verifier, logger))
		if deps.Incidents != nil {
			incidents := handler.NewIncidentHandler(deps.Incidents)
			authed.POST("/incidents", incidents.Create)
			authed.GET("/incidents/mine", incidents.ListMine)
		}
		if deps.Profiles != nil {
			profiles := handler.NewProfileHandler(deps.Profiles)
			authed.GET("/profile", profiles.Get)
			authed.PUT("/profile", profiles.Update)
		}
	}

	return r
}
