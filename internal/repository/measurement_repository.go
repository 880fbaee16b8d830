package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// MeasurementRepository handles database operations for sensor readings
type MeasurementRepository struct {
	q database.Querier
}

// NewMeasurementRepository creates a new measurement repository
func NewMeasurementRepository(q database.Querier) *MeasurementRepository {
	return &MeasurementRepository{q: q}
}

const measurementColumns = `reading_id, board_id, trip_id, recorded_at, kind, value, lat, lon`

func scanMeasurement(row rowScanner) (*models.Measurement, error) {
	var (
		m          models.Measurement
		recordedAt int64
		kind       string
	)
	if err := row.Scan(&m.ReadingID, &m.BoardID, &m.TripID, &recordedAt, &kind, &m.Value,
		&m.Position.Lat, &m.Position.Lon); err != nil {
		return nil, err
	}
	m.Timestamp = fromNanos(recordedAt)
	m.Kind = models.MeasurementKind(kind)
	return &m, nil
}

// InsertMeasurement appends a reading
func (r *MeasurementRepository) InsertMeasurement(ctx context.Context, m *models.Measurement) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO measurements (`+measurementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ReadingID, m.BoardID, m.TripID, toNanos(m.Timestamp), string(m.Kind), m.Value,
		m.Position.Lat, m.Position.Lon,
	)
	if err != nil {
		return fmt.Errorf("failed to insert measurement: %w", err)
	}
	return nil
}

// ListMeasurementsForTrip returns the readings of a trip ordered by timestamp ascending.
// Equal timestamps keep insertion order.
func (r *MeasurementRepository) ListMeasurementsForTrip(ctx context.Context, tripID string) ([]models.Measurement, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+measurementColumns+` FROM measurements WHERE trip_id = ? ORDER BY recorded_at ASC, seq ASC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurements: %w", err)
	}
	defer rows.Close()

	measurements := make([]models.Measurement, 0)
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		measurements = append(measurements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate measurements: %w", err)
	}

	return measurements, nil
}

// LatestMeasurement returns the most recent reading of a kind for a board
func (r *MeasurementRepository) LatestMeasurement(ctx context.Context, boardID string, kind models.MeasurementKind) (*models.Measurement, error) {
	m, err := scanMeasurement(r.q.QueryRowContext(ctx,
		`SELECT `+measurementColumns+` FROM measurements
		WHERE board_id = ? AND kind = ?
		ORDER BY recorded_at DESC, seq DESC LIMIT 1`, boardID, string(kind)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest measurement: %w", err)
	}
	return m, nil
}
