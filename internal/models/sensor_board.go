package models

import "time"

// SensorBoard is the sensing device mounted on a bicycle (one per bicycle)
type SensorBoard struct {
	ID               string     `json:"board_id" db:"board_id"`
	BicycleID        string     `json:"bicycle_id" db:"bicycle_id"`
	Status           string     `json:"status" db:"status"`
	LastStatusUpdate *time.Time `json:"last_status_update,omitempty" db:"last_status_update"`
}
