package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eolos-vlc/eolos-backend/internal/models"
	"github.com/eolos-vlc/eolos-backend/internal/repository"
	"github.com/eolos-vlc/eolos-backend/internal/service"
	"github.com/eolos-vlc/eolos-backend/internal/testutil"
)

func TestPM25ToAQI(t *testing.T) {
	tests := []struct {
		pm25 float64
		want int
	}{
		{-3, 0},
		{0, 0},
		{6.0, 25},
		{12.0, 50},
		{20.0, 67},
		{35.4, 100},
		{40.0, 111},
		{55.4, 150},
		{100.0, 173},
		{150.4, 200},
		{250.4, 250},
		{275.4, 262}, // last segment extended
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, service.PM25ToAQI(tt.pm25), "pm2.5 = %v", tt.pm25)
	}
}

func TestLatestAQI(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.Seed(t, db)
	ctx := context.Background()

	tx := repository.NewTxManager(db)
	trips := service.NewTripService(tx, nil)
	svc := service.NewAirQualityService(tx, nil)

	_, err := svc.LatestAQI(ctx, testutil.BoardID)
	assert.True(t, service.IsValidation(err))
	assert.ErrorIs(t, err, service.ErrNoReadings)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, v := range []float64{80, 12.0, 5} {
		kind := models.KindPM25
		if i == 2 {
			// newer, but not PM2.5
			kind = models.KindPM10
		}
		_, err := trips.RecordMeasurement(ctx, models.Measurement{
			BoardID:   testutil.BoardID,
			TripID:    "trip",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Kind:      kind,
			Value:     v,
		})
		require.NoError(t, err)
	}

	got, err := svc.LatestAQI(ctx, testutil.BoardID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.AQI)
	assert.Equal(t, 12.0, got.PM25)
	assert.Equal(t, base.Add(time.Minute), got.MeasuredAt)
}
