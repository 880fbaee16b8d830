package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// BicycleRepository handles database operations for bicycles
type BicycleRepository struct {
	q database.Querier
}

// NewBicycleRepository creates a new bicycle repository
func NewBicycleRepository(q database.Querier) *BicycleRepository {
	return &BicycleRepository{q: q}
}

const bicycleColumns = `bicycle_id, station_id, qr_code, short_code, status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBicycle(row rowScanner) (*models.Bicycle, error) {
	var (
		b         models.Bicycle
		stationID sql.NullInt64
		status    string
	)
	if err := row.Scan(&b.ID, &stationID, &b.QRCode, &b.ShortCode, &status); err != nil {
		return nil, err
	}
	b.StationID = int64Ptr(stationID)
	b.Status = models.BicycleStatus(status)
	return &b, nil
}

func (r *BicycleRepository) findOne(ctx context.Context, where string, arg any) (*models.Bicycle, error) {
	b, err := scanBicycle(r.q.QueryRowContext(ctx, `SELECT `+bicycleColumns+` FROM bicycles WHERE `+where, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bicycle: %w", err)
	}
	return b, nil
}

// FindBicycle retrieves a bicycle by ID
func (r *BicycleRepository) FindBicycle(ctx context.Context, bicycleID string) (*models.Bicycle, error) {
	return r.findOne(ctx, "bicycle_id = ?", bicycleID)
}

// FindBicycleByShortCode retrieves a bicycle by its printed short code
func (r *BicycleRepository) FindBicycleByShortCode(ctx context.Context, shortCode string) (*models.Bicycle, error) {
	return r.findOne(ctx, "short_code = ?", shortCode)
}

// ListBicycles returns every bicycle ordered by ID
func (r *BicycleRepository) ListBicycles(ctx context.Context) ([]models.Bicycle, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+bicycleColumns+` FROM bicycles ORDER BY bicycle_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bicycles: %w", err)
	}
	defer rows.Close()

	bicycles := make([]models.Bicycle, 0)
	for rows.Next() {
		b, err := scanBicycle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bicycle: %w", err)
		}
		bicycles = append(bicycles, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bicycles: %w", err)
	}

	return bicycles, nil
}

// InsertBicycle creates a bicycle
func (r *BicycleRepository) InsertBicycle(ctx context.Context, b *models.Bicycle) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO bicycles (`+bicycleColumns+`) VALUES (?, ?, ?, ?, ?)`,
		b.ID, nullInt64(b.StationID), b.QRCode, b.ShortCode, string(b.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert bicycle: %w", err)
	}
	return nil
}

// UpdateBicycle overwrites the station and status of a bicycle
func (r *BicycleRepository) UpdateBicycle(ctx context.Context, b *models.Bicycle) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE bicycles SET station_id = ?, status = ? WHERE bicycle_id = ?`,
		nullInt64(b.StationID), string(b.Status), b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bicycle: %w", err)
	}
	return nil
}
