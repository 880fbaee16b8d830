package service

import (
	"context"

	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// TripStore is the persistence the trip engine needs. Find methods return
// nil, nil when the record does not exist.
type TripStore interface {
	FindUserByCard(ctx context.Context, cardID string) (*models.User, error)
	FindBicycle(ctx context.Context, bicycleID string) (*models.Bicycle, error)
	FindBoardByBicycle(ctx context.Context, bicycleID string) (*models.SensorBoard, error)
	FindBoard(ctx context.Context, boardID string) (*models.SensorBoard, error)
	ListStations(ctx context.Context) ([]models.Station, error)
	FindTrip(ctx context.Context, tripID string) (*models.Trip, error)
	InsertMeasurement(ctx context.Context, m *models.Measurement) error
	// ListMeasurementsForTrip returns readings ordered by timestamp ascending
	ListMeasurementsForTrip(ctx context.Context, tripID string) ([]models.Measurement, error)
	InsertTrip(ctx context.Context, t *models.Trip) error
	// UpdateTrip writes an open trip; it reports false when the trip was already closed
	UpdateTrip(ctx context.Context, t *models.Trip) (bool, error)
	UpdateBoard(ctx context.Context, b *models.SensorBoard) error
	UpdateBicycle(ctx context.Context, b *models.Bicycle) error
}

// Store is everything the services read and write
type Store interface {
	TripStore

	FindUser(ctx context.Context, userID string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	// InsertCard registers a card ID; an existing card is not an error
	InsertCard(ctx context.Context, cardID string) error

	FindStation(ctx context.Context, stationID int64) (*models.Station, error)
	ListBicycles(ctx context.Context) ([]models.Bicycle, error)
	FindBicycleByShortCode(ctx context.Context, shortCode string) (*models.Bicycle, error)

	LatestMeasurement(ctx context.Context, boardID string, kind models.MeasurementKind) (*models.Measurement, error)

	InsertIncident(ctx context.Context, i *models.Incident) error
	ListIncidentsByUser(ctx context.Context, userID string) ([]models.Incident, error)
}

// Transactor runs fn inside one commit/rollback unit. Any error returned by
// fn rolls back every write fn made.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Store) error) error
}
