package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// StationRepository handles database operations for stations
type StationRepository struct {
	q database.Querier
}

// NewStationRepository creates a new station repository
func NewStationRepository(q database.Querier) *StationRepository {
	return &StationRepository{q: q}
}

// ListStations returns every station ordered by ID
func (r *StationRepository) ListStations(ctx context.Context) ([]models.Station, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT station_id, name, lat, lon, capacity FROM stations ORDER BY station_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	stations := make([]models.Station, 0)
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon, &s.Capacity); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stations: %w", err)
	}

	return stations, nil
}

// FindStation retrieves a single station by ID
func (r *StationRepository) FindStation(ctx context.Context, stationID int64) (*models.Station, error) {
	var s models.Station
	err := r.q.QueryRowContext(ctx,
		`SELECT station_id, name, lat, lon, capacity FROM stations WHERE station_id = ?`, stationID,
	).Scan(&s.ID, &s.Name, &s.Lat, &s.Lon, &s.Capacity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get station: %w", err)
	}
	return &s, nil
}

// InsertStation creates a station with an explicit ID
func (r *StationRepository) InsertStation(ctx context.Context, s *models.Station) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO stations (station_id, name, lat, lon, capacity) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Lat, s.Lon, s.Capacity,
	)
	if err != nil {
		return fmt.Errorf("failed to insert station: %w", err)
	}
	return nil
}
