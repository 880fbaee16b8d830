package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// Labels used on the status board
const (
	StatusUnknown  = "unknown"
	StationUnknown = "unknown station"
	NoData         = "no data"
)

// SensorStatusService builds the bicycle and sensor board status overview
type SensorStatusService struct {
	tx     Transactor
	logger *zap.Logger
}

// NewSensorStatusService creates a new sensor status service
func NewSensorStatusService(tx Transactor, logger *zap.Logger) *SensorStatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SensorStatusService{tx: tx, logger: logger}
}

// ListBicycles returns one row per bicycle with its board status, the time since the
// board last reported (relative to now) and the station it is parked at.
func (s *SensorStatusService) ListBicycles(ctx context.Context, now time.Time) ([]models.BicycleStatusView, error) {
	const op = "list_bicycle_status"
	var views []models.BicycleStatusView

	err := s.tx.WithinTx(ctx, func(store Store) error {
		bicycles, err := store.ListBicycles(ctx)
		if err != nil {
			return err
		}

		stations := make(map[int64]string)
		list, err := store.ListStations(ctx)
		if err != nil {
			return err
		}
		for _, st := range list {
			stations[st.ID] = st.Name
		}

		views = make([]models.BicycleStatusView, 0, len(bicycles))
		for _, b := range bicycles {
			board, err := store.FindBoardByBicycle(ctx, b.ID)
			if err != nil {
				return err
			}

			view := models.BicycleStatusView{
				ID:         b.ID,
				Status:     StatusUnknown,
				LastUpdate: NoData,
				Station:    StationUnknown,
			}
			if board != nil {
				if board.Status != "" {
					view.Status = board.Status
				}
				if board.LastStatusUpdate != nil {
					view.LastUpdate = Elapsed(now.Sub(*board.LastStatusUpdate))
				}
			}
			if b.StationID != nil {
				if name, ok := stations[*b.StationID]; ok {
					view.Station = name
				}
			}
			views = append(views, view)
		}
		return nil
	})
	if err = classify(op, err); err != nil {
		s.logger.Error("failed to list bicycle status", zap.Error(err))
		return nil, err
	}
	return views, nil
}

// Elapsed renders a duration as "just now", "N min", "N hour(s)" or "N day(s)".
// Negative durations (clock skew) count as "just now".
func Elapsed(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min", int(d/time.Minute))
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
