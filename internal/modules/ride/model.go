// README: Ride aggregate, status definitions, and the transition graph.
package ride

import (
	"fmt"
	"time"

	"hail/internal/types"
)

type Status string

const (
	StatusRequested     Status = "requested"
	StatusAccepted      Status = "accepted"
	StatusDriverEnRoute Status = "driver_en_route"
	StatusDriverArrived Status = "driver_arrived"
	StatusInProgress    Status = "in_progress"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
)

// AllowedTransitions represents the ride state flow as code. Completed and
// cancelled are terminal: no outgoing edges, not even self-loops.
var AllowedTransitions = map[Status][]Status{
	StatusRequested:     {StatusAccepted, StatusCancelled},
	StatusAccepted:      {StatusDriverEnRoute, StatusCancelled},
	StatusDriverEnRoute: {StatusDriverArrived, StatusCancelled},
	StatusDriverArrived: {StatusInProgress, StatusCancelled},
	StatusInProgress:    {StatusCompleted, StatusCancelled},
	StatusCompleted:     {},
	StatusCancelled:     {},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

func ValidStatus(s Status) bool {
	_, ok := AllowedTransitions[s]
	return ok
}

// TransitionError names the rejected edge. errors.Is(err, ErrInvalidTransition)
// matches it.
type TransitionError struct {
	From, To Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from '%s' to '%s'", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type Ride struct {
	ID                   types.ID     `json:"id"`
	RiderID              types.ID     `json:"rider_id"`
	DriverID             *types.ID    `json:"driver_id"`
	PickupAddress        string       `json:"pickup_address"`
	PickupLatitude       *float64     `json:"pickup_latitude"`
	PickupLongitude      *float64     `json:"pickup_longitude"`
	DestinationAddress   string       `json:"destination_address"`
	DestinationLatitude  *float64     `json:"destination_latitude"`
	DestinationLongitude *float64     `json:"destination_longitude"`
	Status               Status       `json:"status"`
	Fare                 *types.Money `json:"fare"`
	Distance             *float64     `json:"distance"`
	Duration             *int         `json:"duration"`
	RequestedAt          time.Time    `json:"requested_at"`
	AcceptedAt           *time.Time   `json:"accepted_at"`
	StartedAt            *time.Time   `json:"started_at"`
	CompletedAt          *time.Time   `json:"completed_at"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}
