package models

// BicycleStatus is the operational state of a bicycle
type BicycleStatus string

// BicycleStatus constants
const (
	BicycleInUse        BicycleStatus = "in_use"
	BicycleParked       BicycleStatus = "parked"
	BicycleOutOfService BicycleStatus = "out_of_service"
	BicycleMaintenance  BicycleStatus = "maintenance"
)

// Valid reports whether s is a known bicycle status
func (s BicycleStatus) Valid() bool {
	switch s {
	case BicycleInUse, BicycleParked, BicycleOutOfService, BicycleMaintenance:
		return true
	}
	return false
}

// Bicycle represents a shared bicycle. StationID is nil while the bicycle is between stations.
type Bicycle struct {
	ID        string        `json:"bicycle_id" db:"bicycle_id"`
	StationID *int64        `json:"station_id" db:"station_id"`
	QRCode    string        `json:"qr_code" db:"qr_code"`
	ShortCode string        `json:"short_code" db:"short_code"` // printed label, e.g. VLC001
	Status    BicycleStatus `json:"status" db:"status"`
}
