package service

import (
	"context"
	"sort"

	"github.com/eolos-vlc/eolos-backend/internal/spatial"
)

// TripPath reads the positions a trip went through from its measurements
type TripPath struct {
	store    TripStore
	radiusKm float64
}

// NewTripPath creates a path reader over store
func NewTripPath(store TripStore, radiusKm float64) *TripPath {
	if radiusKm <= 0 {
		radiusKm = spatial.EarthRadiusKm
	}
	return &TripPath{store: store, radiusKm: radiusKm}
}

// Positions returns the measurement positions of a trip ordered by timestamp.
// Readings with equal timestamps keep their storage order.
func (p *TripPath) Positions(ctx context.Context, tripID string) ([]spatial.Position, error) {
	measurements, err := p.store.ListMeasurementsForTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(measurements, func(i, j int) bool {
		return measurements[i].Timestamp.Before(measurements[j].Timestamp)
	})

	positions := make([]spatial.Position, len(measurements))
	for i, m := range measurements {
		positions[i] = m.Position
	}
	return positions, nil
}

// TotalDistance sums the great-circle distances between consecutive positions.
// It rescans every measurement of the trip on each call.
func (p *TripPath) TotalDistance(ctx context.Context, tripID string) (float64, error) {
	positions, err := p.Positions(ctx, tripID)
	if err != nil {
		return 0, err
	}
	return spatial.PathLength(positions, p.radiusKm), nil
}
