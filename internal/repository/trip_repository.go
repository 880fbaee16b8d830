package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// TripRepository handles database operations for trips
type TripRepository struct {
	q database.Querier
}

// NewTripRepository creates a new trip repository
func NewTripRepository(q database.Querier) *TripRepository {
	return &TripRepository{q: q}
}

// FindTrip retrieves a single trip by ID
func (r *TripRepository) FindTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	query := `SELECT trip_id, user_id, bicycle_id, start_time, end_time,
		origin_station_id, destination_station_id, total_distance_meters
		FROM trips WHERE trip_id = ?`

	var (
		t           models.Trip
		startTime   int64
		endTime     sql.NullInt64
		origin      sql.NullInt64
		destination sql.NullInt64
		distance    sql.NullFloat64
	)
	err := r.q.QueryRowContext(ctx, query, tripID).Scan(
		&t.ID, &t.UserID, &t.BicycleID, &startTime, &endTime,
		&origin, &destination, &distance,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	t.StartTime = fromNanos(startTime)
	t.EndTime = timePtr(endTime)
	t.OriginStationID = int64Ptr(origin)
	t.DestinationStationID = int64Ptr(destination)
	t.TotalDistanceMeters = floatPtr(distance)
	return &t, nil
}

// InsertTrip creates a trip
func (r *TripRepository) InsertTrip(ctx context.Context, t *models.Trip) error {
	query := `INSERT INTO trips (trip_id, user_id, bicycle_id, start_time, end_time,
		origin_station_id, destination_station_id, total_distance_meters)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.q.ExecContext(ctx, query,
		t.ID, t.UserID, t.BicycleID, toNanos(t.StartTime), nullNanos(t.EndTime),
		nullInt64(t.OriginStationID), nullInt64(t.DestinationStationID), nullFloat(t.TotalDistanceMeters),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

// UpdateTrip writes the closing fields of a trip that is still open.
// It returns false when no open trip with that ID exists.
func (r *TripRepository) UpdateTrip(ctx context.Context, t *models.Trip) (bool, error) {
	query := `UPDATE trips
		SET end_time = ?, destination_station_id = ?, total_distance_meters = ?
		WHERE trip_id = ? AND end_time IS NULL`

	res, err := r.q.ExecContext(ctx, query,
		nullNanos(t.EndTime), nullInt64(t.DestinationStationID), nullFloat(t.TotalDistanceMeters), t.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update trip: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}
