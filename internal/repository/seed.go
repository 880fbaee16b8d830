package repository

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/models"
)

// Demo data loaded by the -seed flag
var (
	demoStations = []models.Station{
		{ID: 1, Name: "Plaza del Ayuntamiento", Lat: 39.4699, Lon: -0.3763, Capacity: 20},
		{ID: 2, Name: "Estación del Norte", Lat: 39.4667, Lon: -0.3775, Capacity: 25},
		{ID: 3, Name: "Mercado Central", Lat: 39.4736, Lon: -0.3790, Capacity: 15},
		{ID: 4, Name: "Ciudad de las Artes", Lat: 39.4551, Lon: -0.3505, Capacity: 30},
		{ID: 5, Name: "Playa de la Malvarrosa", Lat: 39.4787, Lon: -0.3237, Capacity: 20},
	}
)

// Demo rider credentials
const (
	DemoCardID   = "100000001"
	DemoEmail    = "demo@eolos.local"
	demoPassword = "eolos-demo"
)

// Seed loads demo stations, bicycles with sensor boards and one rider.
// It does nothing when stations already exist.
func Seed(ctx context.Context, db *database.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stations`).Scan(&n); err != nil {
		return fmt.Errorf("failed to count stations: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	return db.Transaction(ctx, func(tx *database.Tx) error {
		store := NewStore(tx)

		for i := range demoStations {
			st := demoStations[i]
			if err := store.InsertStation(ctx, &st); err != nil {
				return err
			}

			bikeID := fmt.Sprintf("bike-%03d", st.ID)
			stationID := st.ID
			bike := &models.Bicycle{
				ID:        bikeID,
				StationID: &stationID,
				QRCode:    "eolos://bike/" + bikeID,
				ShortCode: fmt.Sprintf("VLC%03d", st.ID),
				Status:    models.BicycleParked,
			}
			if err := store.InsertBicycle(ctx, bike); err != nil {
				return err
			}

			board := &models.SensorBoard{
				ID:        fmt.Sprintf("board-%03d", st.ID),
				BicycleID: bikeID,
				Status:    "active",
			}
			if err := store.InsertBoard(ctx, board); err != nil {
				return err
			}
		}

		if err := store.InsertCard(ctx, DemoCardID); err != nil {
			return err
		}
		cardID := DemoCardID
		return store.InsertUser(ctx, &models.User{
			ID:           "user-demo",
			CardID:       &cardID,
			Name:         "Demo",
			Email:        DemoEmail,
			PasswordHash: string(hash),
			CreatedAt:    time.Now().UTC(),
		})
	})
}
