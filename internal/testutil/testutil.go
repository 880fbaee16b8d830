// Package testutil provides migrated sqlite databases and fixtures for tests
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eolos-vlc/eolos-backend/internal/database"
	"github.com/eolos-vlc/eolos-backend/internal/models"
	"github.com/eolos-vlc/eolos-backend/internal/repository"
)

// Fixture IDs
const (
	StationA  int64 = 1
	StationB  int64 = 2
	UserID          = "user-1"
	CardID          = "card-1"
	UserEmail       = "rider@eolos.local"
	BicycleID       = "bike-1"
	ShortCode       = "VLC001"
	BoardID         = "board-1"

	// BareBicycleID has no sensor board
	BareBicycleID = "bike-2"
)

// Station coordinates about 13 m apart
var (
	StationAPos = [2]float64{39.4699, -0.3763}
	StationBPos = [2]float64{39.4700, -0.3764}
)

// NewTestDB opens a migrated sqlite database in a temporary directory
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{
		Driver: database.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "eolos-test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrationManager(db, nil).RunMigrations(ctx))
	return db
}

// Seed inserts two stations, a rider with a card, a bicycle with a board and a bicycle without one
func Seed(t *testing.T, db *database.DB) {
	t.Helper()

	ctx := context.Background()
	err := db.Transaction(ctx, func(tx *database.Tx) error {
		store := repository.NewStore(tx)

		stations := []models.Station{
			{ID: StationA, Name: "Station A", Lat: StationAPos[0], Lon: StationAPos[1], Capacity: 10},
			{ID: StationB, Name: "Station B", Lat: StationBPos[0], Lon: StationBPos[1], Capacity: 10},
		}
		for i := range stations {
			if err := store.InsertStation(ctx, &stations[i]); err != nil {
				return err
			}
		}

		if err := store.InsertCard(ctx, CardID); err != nil {
			return err
		}
		card := CardID
		if err := store.InsertUser(ctx, &models.User{
			ID:           UserID,
			CardID:       &card,
			Name:         "Rider",
			Email:        UserEmail,
			PasswordHash: "x",
			CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			return err
		}

		stationA := StationA
		if err := store.InsertBicycle(ctx, &models.Bicycle{
			ID: BicycleID, StationID: &stationA, QRCode: "qr-1", ShortCode: ShortCode, Status: models.BicycleParked,
		}); err != nil {
			return err
		}
		if err := store.InsertBicycle(ctx, &models.Bicycle{
			ID: BareBicycleID, QRCode: "qr-2", ShortCode: "VLC002", Status: models.BicycleMaintenance,
		}); err != nil {
			return err
		}

		return store.InsertBoard(ctx, &models.SensorBoard{ID: BoardID, BicycleID: BicycleID, Status: "active"})
	})
	require.NoError(t, err)
}
