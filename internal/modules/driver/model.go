// README: Driver profile entity and availability states.
package driver

import (
	"time"

	"hail/internal/types"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusBusy        Status = "busy"
)

// Availability is a toggle, not a lifecycle: any status may be set from any
// other, unlike ride transitions.
func ValidStatus(s Status) bool {
	return s == StatusAvailable || s == StatusUnavailable || s == StatusBusy
}

type Profile struct {
	ID            types.ID  `json:"id"`
	UserID        types.ID  `json:"user_id"`
	LicenseNumber string    `json:"license_number"`
	VehicleMake   string    `json:"vehicle_make"`
	VehicleModel  string    `json:"vehicle_model"`
	VehicleYear   int       `json:"vehicle_year"`
	VehiclePlate  string    `json:"vehicle_plate"`
	Status        Status    `json:"status"`
	Rating        *float64  `json:"rating"`
	TotalRides    int       `json:"total_rides"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
