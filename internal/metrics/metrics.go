package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the trip engine metrics on a private registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	reg *prometheus.Registry

	TripsStarted       prometheus.Counter
	TripsClosed        prometheus.Counter
	MeasurementsStored prometheus.Counter
	StationMatches     *prometheus.CounterVec // result label: hit|miss
	OperationErrors    *prometheus.CounterVec // op, kind labels
	TripDistance       prometheus.Histogram
	OperationDuration  *prometheus.HistogramVec
	EventsPublished    prometheus.Counter
	EventPublishErrors prometheus.Counter
	EventBusConnected  prometheus.Gauge
}

// NewCollector creates and registers all metrics
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		TripsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eolos_trips_started_total",
			Help: "Total trips started.",
		}),
		TripsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eolos_trips_closed_total",
			Help: "Total trips closed.",
		}),
		MeasurementsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eolos_measurements_recorded_total",
			Help: "Total sensor readings recorded.",
		}),
		StationMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eolos_station_matches_total",
			Help: "Geofence lookups by result.",
		}, []string{"result"}),
		OperationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eolos_operation_errors_total",
			Help: "Failed engine operations by operation and error kind.",
		}, []string{"op", "kind"}),
		TripDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eolos_trip_distance_meters",
			Help:    "Distance of closed trips in meters.",
			Buckets: prometheus.ExponentialBuckets(50, 2, 12),
		}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eolos_operation_duration_seconds",
			Help:    "Duration of engine operations including the transaction.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}, []string{"op"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eolos_events_published_total",
			Help: "Total events published to NATS.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eolos_event_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		EventBusConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "eolos_nats_connected",
			Help: "1 if the NATS connection is established, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		c.TripsStarted, c.TripsClosed, c.MeasurementsStored,
		c.StationMatches, c.OperationErrors,
		c.TripDistance, c.OperationDuration,
		c.EventsPublished, c.EventPublishErrors, c.EventBusConnected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry exposes the registry so HTTP middleware can add its own metrics
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) TripStarted() {
	if c != nil {
		c.TripsStarted.Inc()
	}
}

func (c *Collector) TripClosed(distanceMeters float64) {
	if c != nil {
		c.TripsClosed.Inc()
		c.TripDistance.Observe(distanceMeters)
	}
}

func (c *Collector) MeasurementRecorded() {
	if c != nil {
		c.MeasurementsStored.Inc()
	}
}

func (c *Collector) StationMatch(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.StationMatches.WithLabelValues(result).Inc()
}

func (c *Collector) OperationFailed(op, kind string) {
	if c != nil {
		c.OperationErrors.WithLabelValues(op, kind).Inc()
	}
}

func (c *Collector) ObserveOperation(op string, d time.Duration) {
	if c != nil {
		c.OperationDuration.WithLabelValues(op).Observe(d.Seconds())
	}
}

// The methods below satisfy events.PublisherMetrics

func (c *Collector) EventPublished() {
	if c != nil {
		c.EventsPublished.Inc()
	}
}

func (c *Collector) EventPublishFailed() {
	if c != nil {
		c.EventPublishErrors.Inc()
	}
}

func (c *Collector) EventBusUp(connected bool) {
	if c == nil {
		return
	}
	if connected {
		c.EventBusConnected.Set(1)
	} else {
		c.EventBusConnected.Set(0)
	}
}
