package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eolos-vlc/eolos-backend/internal/events"
	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// IncidentService records problems users report about bicycles
type IncidentService struct {
	tx        Transactor
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewIncidentService creates a new incident service. A nil publisher drops events.
func NewIncidentService(tx Transactor, publisher events.Publisher, logger *zap.Logger) *IncidentService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IncidentService{
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create reports an incident for the bicycle with the given short code.
// Short codes are matched exactly after trimming.
func (s *IncidentService) Create(ctx context.Context, userID string, in models.IncidentInput) (*models.Incident, error) {
	const op = "create_incident"

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, invalid(op, ErrInvalidInput, "description is required")
	}
	source, ok := models.ParseReportSource(in.Source)
	if !ok {
		return nil, invalid(op, ErrInvalidInput, "source must be one of app, web, admin")
	}
	shortCode := strings.TrimSpace(in.ShortCode)

	var incident *models.Incident

	err := s.tx.WithinTx(ctx, func(store Store) error {
		user, err := store.FindUser(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return invalid(op, ErrUserNotFound, "user not found")
		}

		bicycle, err := store.FindBicycleByShortCode(ctx, shortCode)
		if err != nil {
			return err
		}
		if bicycle == nil {
			return invalid(op, ErrBicycleNotFound, "no bicycle with code "+shortCode)
		}

		incident = &models.Incident{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			BicycleID:   &bicycle.ID,
			Description: description,
			ReportedAt:  s.now(),
			Status:      models.IncidentNew,
			Source:      source,
		}
		return store.InsertIncident(ctx, incident)
	})
	if err = classify(op, err); err != nil {
		if IsInfrastructure(err) {
			s.logger.Error("failed to create incident", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("incident reported",
		zap.String("incident_id", incident.ID),
		zap.String("bicycle_id", *incident.BicycleID),
		zap.String("source", string(incident.Source)),
	)

	e := events.Event{
		Type:       events.IncidentReported,
		OccurredAt: incident.ReportedAt,
		IncidentID: incident.ID,
		UserID:     incident.UserID,
		BicycleID:  *incident.BicycleID,
		Status:     string(incident.Status),
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", string(e.Type)), zap.Error(err))
	}
	return incident, nil
}

// ListForUser returns the incidents a user reported, newest first
func (s *IncidentService) ListForUser(ctx context.Context, userID string) ([]models.Incident, error) {
	var incidents []models.Incident

	err := s.tx.WithinTx(ctx, func(store Store) error {
		var err error
		incidents, err = store.ListIncidentsByUser(ctx, userID)
		return err
	})
	if err = classify("list_incidents", err); err != nil {
		s.logger.Error("failed to list incidents", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return incidents, nil
}
