package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// BoardRepository handles database operations for sensor boards
type BoardRepository struct {
	q database.Querier
}

// NewBoardRepository creates a new sensor board repository
func NewBoardRepository(q database.Querier) *BoardRepository {
	return &BoardRepository{q: q}
}

func (r *BoardRepository) findOne(ctx context.Context, where string, arg any) (*models.SensorBoard, error) {
	var (
		b          models.SensorBoard
		bicycleID  sql.NullString
		lastUpdate sql.NullInt64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT board_id, bicycle_id, status, last_status_update FROM sensor_boards WHERE `+where, arg,
	).Scan(&b.ID, &bicycleID, &b.Status, &lastUpdate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sensor board: %w", err)
	}

	b.BicycleID = bicycleID.String
	b.LastStatusUpdate = timePtr(lastUpdate)
	return &b, nil
}

// FindBoard retrieves a sensor board by ID
func (r *BoardRepository) FindBoard(ctx context.Context, boardID string) (*models.SensorBoard, error) {
	return r.findOne(ctx, "board_id = ?", boardID)
}

// FindBoardByBicycle retrieves the sensor board mounted on a bicycle
func (r *BoardRepository) FindBoardByBicycle(ctx context.Context, bicycleID string) (*models.SensorBoard, error) {
	return r.findOne(ctx, "bicycle_id = ?", bicycleID)
}

// InsertBoard creates a sensor board
func (r *BoardRepository) InsertBoard(ctx context.Context, b *models.SensorBoard) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sensor_boards (board_id, bicycle_id, status, last_status_update) VALUES (?, ?, ?, ?)`,
		b.ID, b.BicycleID, b.Status, nullNanos(b.LastStatusUpdate),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sensor board: %w", err)
	}
	return nil
}

// UpdateBoard overwrites the status and last update time of a board
func (r *BoardRepository) UpdateBoard(ctx context.Context, b *models.SensorBoard) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sensor_boards SET status = ?, last_status_update = ? WHERE board_id = ?`,
		b.Status, nullNanos(b.LastStatusUpdate), b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sensor board: %w", err)
	}
	return nil
}
