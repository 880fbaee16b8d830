package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eolos-vlc/eolos-backend/internal/events"
	"github.com/eolos-vlc/eolos-backend/internal/metrics"
	"github.com/eolos-vlc/eolos-backend/internal/models"
	"github.com/eolos-vlc/eolos-backend/internal/spatial"
)

// Operation names used in errors, logs and metrics
const (
	OpStartTrip           = "start_trip"
	OpRecordMeasurement   = "record_measurement"
	OpCloseTrip           = "close_trip"
	OpTripParticipants    = "trip_participants"
	OpUpdateBoardStatus   = "update_board_status"
	OpUpdateBicycleStatus = "update_bicycle_status"
	OpCheckStationMatch   = "check_station_match"
)

// TripService runs the trip lifecycle: start, measurements, close, and the
// bicycle and sensor board status updates tied to station geofences.
// Every operation runs in a single transaction.
type TripService struct {
	tx        Transactor
	matcher   *spatial.Matcher
	locks     *keyedMutex
	publisher events.Publisher
	metrics   *metrics.Collector
	logger    *zap.Logger
	newID     func() string
}

// TripOption configures a TripService
type TripOption func(*TripService)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) TripOption {
	return func(s *TripService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPublisher sets where committed trip events are sent
func WithPublisher(p events.Publisher) TripOption {
	return func(s *TripService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(m *metrics.Collector) TripOption {
	return func(s *TripService) { s.metrics = m }
}

// WithIDGenerator replaces the UUID generator for trip and reading IDs
func WithIDGenerator(gen func() string) TripOption {
	return func(s *TripService) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewTripService creates a new trip service
func NewTripService(tx Transactor, matcher *spatial.Matcher, opts ...TripOption) *TripService {
	if matcher == nil {
		matcher = spatial.NewMatcher(spatial.DefaultMatchThresholdMeters, spatial.EarthRadiusKm)
	}
	s := &TripService{
		tx:        tx,
		matcher:   matcher,
		locks:     newKeyedMutex(),
		publisher: events.NopPublisher{},
		logger:    zap.NewNop(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run executes fn in a transaction and turns its error into one of the two error kinds
func (s *TripService) run(ctx context.Context, op string, fn func(Store) error) error {
	start := time.Now()
	err := classify(op, s.tx.WithinTx(ctx, fn))
	s.metrics.ObserveOperation(op, time.Since(start))

	if err != nil {
		kind := errorKind(err)
		s.metrics.OperationFailed(op, kind)
		if kind == "validation" {
			s.logger.Info("operation rejected", zap.String("op", op), zap.Error(err))
		} else {
			s.logger.Error("operation failed", zap.String("op", op), zap.Error(err))
		}
	}
	return err
}

// publish sends an event after commit; failures are logged and never undo the operation
func (s *TripService) publish(ctx context.Context, e events.Event) {
	e.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", string(e.Type)), zap.Error(err))
	}
}

// matchStation returns the ID of the station pos lies at, or nil
func (s *TripService) matchStation(ctx context.Context, store TripStore, pos spatial.Position) (*int64, error) {
	stations, err := store.ListStations(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]spatial.Candidate, len(stations))
	for i, st := range stations {
		candidates[i] = st.Candidate()
	}

	match, ok := s.matcher.Nearest(pos, candidates)
	s.metrics.StationMatch(ok)
	if !ok {
		return nil, nil
	}
	id := match.ID
	return &id, nil
}

// StartTrip opens a trip for the rider holding cardID. The origin must lie at a station.
func (s *TripService) StartTrip(ctx context.Context, cardID, bicycleID string, startTime time.Time, origin spatial.Position) (string, error) {
	var trip *models.Trip

	err := s.run(ctx, OpStartTrip, func(store Store) error {
		originID, err := s.matchStation(ctx, store, origin)
		if err != nil {
			return err
		}
		if originID == nil {
			return invalid(OpStartTrip, ErrNoStationMatch, "origin does not match any station")
		}

		user, err := store.FindUserByCard(ctx, cardID)
		if err != nil {
			return err
		}
		if user == nil {
			return invalid(OpStartTrip, ErrUserNotFound, "no user linked to card "+cardID)
		}

		trip = &models.Trip{
			ID:              s.newID(),
			UserID:          user.ID,
			BicycleID:       bicycleID,
			StartTime:       startTime.UTC(),
			OriginStationID: originID,
		}
		return store.InsertTrip(ctx, trip)
	})
	if err != nil {
		return "", err
	}

	s.metrics.TripStarted()
	s.logger.Info("trip started",
		zap.String("trip_id", trip.ID),
		zap.String("bicycle_id", bicycleID),
		zap.Int64("origin_station_id", *trip.OriginStationID),
	)
	s.publish(ctx, events.Event{
		Type:      events.TripStarted,
		TripID:    trip.ID,
		UserID:    trip.UserID,
		BicycleID: trip.BicycleID,
		StationID: trip.OriginStationID,
	})
	return trip.ID, nil
}

// RecordMeasurement appends a reading under a fresh reading ID and returns it.
// The trip is not checked, so readings for unknown or closed trips are stored too.
func (s *TripService) RecordMeasurement(ctx context.Context, m models.Measurement) (string, error) {
	if !m.Kind.Valid() {
		return "", invalid(OpRecordMeasurement, ErrInvalidInput, "unknown measurement kind "+string(m.Kind))
	}

	m.ReadingID = s.newID()
	m.Timestamp = m.Timestamp.UTC()

	err := s.run(ctx, OpRecordMeasurement, func(store Store) error {
		return store.InsertMeasurement(ctx, &m)
	})
	if err != nil {
		return "", err
	}

	s.metrics.MeasurementRecorded()
	return m.ReadingID, nil
}

// CloseTrip sets the end time, destination station and total distance of an open trip.
// Closing a trip twice fails with ErrTripClosed.
func (s *TripService) CloseTrip(ctx context.Context, tripID string, endTime time.Time, destination spatial.Position) (*models.Trip, error) {
	unlock := s.locks.Lock(tripID)
	defer unlock()

	var trip *models.Trip

	err := s.run(ctx, OpCloseTrip, func(store Store) error {
		destinationID, err := s.matchStation(ctx, store, destination)
		if err != nil {
			return err
		}
		if destinationID == nil {
			return invalid(OpCloseTrip, ErrNoStationMatch, "destination does not match any station")
		}

		trip, err = store.FindTrip(ctx, tripID)
		if err != nil {
			return err
		}
		if trip == nil {
			return invalid(OpCloseTrip, ErrTripNotFound, "trip "+tripID+" not found")
		}
		if trip.IsClosed() {
			return invalid(OpCloseTrip, ErrTripClosed, "trip "+tripID+" is already closed")
		}

		distance, err := NewTripPath(store, s.matcher.EarthRadiusKm()).TotalDistance(ctx, tripID)
		if err != nil {
			return err
		}

		end := endTime.UTC()
		trip.EndTime = &end
		trip.DestinationStationID = destinationID
		trip.TotalDistanceMeters = &distance

		updated, err := store.UpdateTrip(ctx, trip)
		if err != nil {
			return err
		}
		if !updated {
			return invalid(OpCloseTrip, ErrTripClosed, "trip "+tripID+" is already closed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TripClosed(*trip.TotalDistanceMeters)
	s.logger.Info("trip closed",
		zap.String("trip_id", trip.ID),
		zap.Int64("destination_station_id", *trip.DestinationStationID),
		zap.Float64("distance_meters", *trip.TotalDistanceMeters),
	)
	s.publish(ctx, events.Event{
		Type:           events.TripClosed,
		TripID:         trip.ID,
		UserID:         trip.UserID,
		BicycleID:      trip.BicycleID,
		StationID:      trip.DestinationStationID,
		DistanceMeters: trip.TotalDistanceMeters,
	})
	return trip, nil
}

// TripParticipants returns the rider of a trip and the sensor board of its bicycle
func (s *TripService) TripParticipants(ctx context.Context, tripID string) (*models.TripParticipants, error) {
	var participants *models.TripParticipants

	err := s.run(ctx, OpTripParticipants, func(store Store) error {
		trip, err := store.FindTrip(ctx, tripID)
		if err != nil {
			return err
		}
		if trip == nil {
			return invalid(OpTripParticipants, ErrTripNotFound, "trip "+tripID+" not found")
		}

		board, err := store.FindBoardByBicycle(ctx, trip.BicycleID)
		if err != nil {
			return err
		}
		if board == nil {
			return invalid(OpTripParticipants, ErrBoardNotFound, "no sensor board on bicycle "+trip.BicycleID)
		}

		participants = &models.TripParticipants{UserID: trip.UserID, BoardID: board.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// UpdateBoardStatus overwrites the status and last update time of a sensor board.
// Older timestamps are accepted and move the last update time backwards.
func (s *TripService) UpdateBoardStatus(ctx context.Context, boardID, status string, updatedAt time.Time) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return invalid(OpUpdateBoardStatus, ErrInvalidInput, "status is required")
	}

	var board *models.SensorBoard

	err := s.run(ctx, OpUpdateBoardStatus, func(store Store) error {
		var err error
		board, err = store.FindBoard(ctx, boardID)
		if err != nil {
			return err
		}
		if board == nil {
			return invalid(OpUpdateBoardStatus, ErrBoardNotFound, "sensor board "+boardID+" not found")
		}

		ts := updatedAt.UTC()
		board.Status = status
		board.LastStatusUpdate = &ts
		return store.UpdateBoard(ctx, board)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:      events.BoardStatusUpdated,
		BoardID:   board.ID,
		BicycleID: board.BicycleID,
		Status:    board.Status,
	})
	return nil
}

// UpdateBicycleStatus sets the station the bicycle is at (nil between stations) and its status
func (s *TripService) UpdateBicycleStatus(ctx context.Context, bicycleID string, pos spatial.Position, status models.BicycleStatus) (*models.Bicycle, error) {
	if !status.Valid() {
		return nil, invalid(OpUpdateBicycleStatus, ErrInvalidInput, "unknown bicycle status "+string(status))
	}

	var bicycle *models.Bicycle

	err := s.run(ctx, OpUpdateBicycleStatus, func(store Store) error {
		stationID, err := s.matchStation(ctx, store, pos)
		if err != nil {
			return err
		}

		bicycle, err = store.FindBicycle(ctx, bicycleID)
		if err != nil {
			return err
		}
		if bicycle == nil {
			return invalid(OpUpdateBicycleStatus, ErrBicycleNotFound, "bicycle "+bicycleID+" not found")
		}

		bicycle.StationID = stationID
		bicycle.Status = status
		return store.UpdateBicycle(ctx, bicycle)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.BicycleStatusUpdated,
		BicycleID: bicycle.ID,
		StationID: bicycle.StationID,
		Status:    string(bicycle.Status),
	})
	return bicycle, nil
}

// CheckStationMatch returns the station pos lies at, or nil. It writes nothing.
func (s *TripService) CheckStationMatch(ctx context.Context, pos spatial.Position) (*int64, error) {
	var stationID *int64

	err := s.run(ctx, OpCheckStationMatch, func(store Store) error {
		var err error
		stationID, err = s.matchStation(ctx, store, pos)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stationID, nil
}
