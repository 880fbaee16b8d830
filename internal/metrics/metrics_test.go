package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counts(t *testing.T) {
	c := NewCollector()

	c.TripStarted()
	c.TripStarted()
	c.TripClosed(120)
	c.MeasurementRecorded()
	c.StationMatch(true)
	c.StationMatch(false)
	c.StationMatch(false)
	c.OperationFailed("close_trip", "validation")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.TripsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.TripsClosed))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.MeasurementsStored))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StationMatches.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.StationMatches.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.OperationErrors.WithLabelValues("close_trip", "validation")))
}

func TestCollector_NilIsSafe(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.TripStarted()
		c.TripClosed(10)
		c.MeasurementRecorded()
		c.StationMatch(true)
		c.OperationFailed("start_trip", "infrastructure")
		c.ObserveOperation("start_trip", time.Millisecond)
		c.EventPublished()
		c.EventPublishFailed()
		c.EventBusUp(true)
	})
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.TripStarted()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "eolos_trips_started_total 1")
}
