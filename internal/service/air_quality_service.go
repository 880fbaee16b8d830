package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// pm25Breakpoint is one segment of the EPA PM2.5 AQI table
type pm25Breakpoint struct {
	concLow, concHigh float64
	aqiLow, aqiHigh   float64
}

var pm25Breakpoints = []pm25Breakpoint{
	{0.0, 12.0, 0, 50},
	{12.0, 35.4, 50, 100},
	{35.4, 55.4, 100, 150},
	{55.4, 150.4, 150, 200},
	{150.4, 250.4, 200, 250},
}

// PM25ToAQI converts a PM2.5 concentration (µg/m³) into an AQI value by linear
// interpolation inside its EPA segment. Concentrations above the table extend
// the last segment; negative concentrations give 0.
func PM25ToAQI(pm25 float64) int {
	if pm25 <= 0 {
		return 0
	}

	seg := pm25Breakpoints[len(pm25Breakpoints)-1]
	for _, bp := range pm25Breakpoints {
		if pm25 <= bp.concHigh {
			seg = bp
			break
		}
	}

	frac := (pm25 - seg.concLow) / (seg.concHigh - seg.concLow)
	return int(seg.aqiLow + frac*(seg.aqiHigh-seg.aqiLow))
}

// AirQualityService reports air quality from the PM2.5 readings of sensor boards
type AirQualityService struct {
	tx     Transactor
	logger *zap.Logger
}

// NewAirQualityService creates a new air quality service
func NewAirQualityService(tx Transactor, logger *zap.Logger) *AirQualityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AirQualityService{tx: tx, logger: logger}
}

// LatestAQI computes the AQI of the most recent PM2.5 reading of a board
func (s *AirQualityService) LatestAQI(ctx context.Context, boardID string) (*models.AQIReading, error) {
	const op = "latest_aqi"
	var reading *models.AQIReading

	err := s.tx.WithinTx(ctx, func(store Store) error {
		m, err := store.LatestMeasurement(ctx, boardID, models.KindPM25)
		if err != nil {
			return err
		}
		if m == nil {
			return invalid(op, ErrNoReadings, "no PM2.5 readings for board "+boardID)
		}

		reading = &models.AQIReading{
			AQI:        PM25ToAQI(m.Value),
			PM25:       m.Value,
			MeasuredAt: m.Timestamp,
		}
		return nil
	})
	if err = classify(op, err); err != nil {
		if IsInfrastructure(err) {
			s.logger.Error("failed to compute aqi", zap.String("board_id", boardID), zap.Error(err))
		}
		return nil, err
	}
	return reading, nil
}
