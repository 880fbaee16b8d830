package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// IncidentRepository handles database operations for incidents
type IncidentRepository struct {
	q database.Querier
}

// NewIncidentRepository creates a new incident repository
func NewIncidentRepository(q database.Querier) *IncidentRepository {
	return &IncidentRepository{q: q}
}

// InsertIncident creates an incident
func (r *IncidentRepository) InsertIncident(ctx context.Context, i *models.Incident) error {
	query := `INSERT INTO incidents (incident_id, user_id, bicycle_id, description, reported_at, status, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.q.ExecContext(ctx, query,
		i.ID, i.UserID, nullString(i.BicycleID), i.Description, toNanos(i.ReportedAt),
		string(i.Status), string(i.Source),
	)
	if err != nil {
		return fmt.Errorf("failed to insert incident: %w", err)
	}
	return nil
}

// ListIncidentsByUser returns the incidents reported by a user, newest first
func (r *IncidentRepository) ListIncidentsByUser(ctx context.Context, userID string) ([]models.Incident, error) {
	query := `SELECT incident_id, user_id, bicycle_id, description, reported_at, status, source
		FROM incidents WHERE user_id = ? ORDER BY reported_at DESC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]models.Incident, 0)
	for rows.Next() {
		var (
			i          models.Incident
			bicycleID  sql.NullString
			reportedAt int64
			status     string
			source     string
		)
		if err := rows.Scan(&i.ID, &i.UserID, &bicycleID, &i.Description, &reportedAt, &status, &source); err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		i.BicycleID = stringPtr(bicycleID)
		i.ReportedAt = fromNanos(reportedAt)
		i.Status = models.IncidentStatus(status)
		i.Source = models.ReportSource(source)
		incidents = append(incidents, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incidents: %w", err)
	}

	return incidents, nil
}
