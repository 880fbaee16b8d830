package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/service"
)

// Store groups the per-entity repositories over one Querier (a pool or a transaction)
type Store struct {
	*UserRepository
	*StationRepository
	*BicycleRepository
	*BoardRepository
	*TripRepository
	*MeasurementRepository
	*IncidentRepository
}

// NewStore creates a store whose repositories share q
func NewStore(q database.Querier) *Store {
	return &Store{
		UserRepository:        NewUserRepository(q),
		StationRepository:     NewStationRepository(q),
		BicycleRepository:     NewBicycleRepository(q),
		BoardRepository:       NewBoardRepository(q),
		TripRepository:        NewTripRepository(q),
		MeasurementRepository: NewMeasurementRepository(q),
		IncidentRepository:    NewIncidentRepository(q),
	}
}

var _ service.Store = (*Store)(nil)

// TxManager runs service work inside database transactions
type TxManager struct {
	db *database.DB
}

// NewTxManager creates a transaction manager
func NewTxManager(db *database.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx implements service.Transactor
func (m *TxManager) WithinTx(ctx context.Context, fn func(service.Store) error) error {
	return m.db.Transaction(ctx, func(tx *database.Tx) error {
		return fn(NewStore(tx))
	})
}

// Times are stored as unix nanoseconds in UTC so they round-trip exactly

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

func nullNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toNanos(*t), Valid: true}
}

func timePtr(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromNanos(n.Int64)
	return &t
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}
