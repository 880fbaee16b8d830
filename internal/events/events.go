package events

import (
	"context"
	"time"
)

// Type names a domain event; it is also the last part of the NATS subject
type Type string

// Event types
const (
	TripStarted          Type = "trip.started"
	TripClosed           Type = "trip.closed"
	BoardStatusUpdated   Type = "board.status"
	BicycleStatusUpdated Type = "bicycle.status"
	IncidentReported     Type = "incident.reported"
)

// Event is published after the transaction that produced it commits
type Event struct {
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`

	TripID     string `json:"trip_id,omitempty"`
	IncidentID string `json:"incident_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	BicycleID  string `json:"bicycle_id,omitempty"`
	BoardID    string `json:"board_id,omitempty"`
	StationID  *int64 `json:"station_id,omitempty"`

	Status         string   `json:"status,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

// Publisher delivers events to subscribers. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
