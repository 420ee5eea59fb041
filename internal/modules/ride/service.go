// README: Ride service implements the lifecycle state machine, the acceptance
// race, and the read side.
package ride

import (
	"context"
	"errors"
	"log/slog"

	"hail/internal/observability"
	"hail/internal/types"
)

var (
	ErrNotFound          = errors.New("ride not found")
	ErrRiderNotFound     = errors.New("rider not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrFareNotAllowed    = errors.New("fare can only be set when ride status is completed")
	ErrBadRequest        = errors.New("bad request")

	// Collapsed acceptance errors: a losing driver cannot tell a missing ride
	// from a taken one, nor a missing driver from a busy one.
	ErrRideUnavailable   = errors.New("ride not found or not available for acceptance")
	ErrDriverUnavailable = errors.New("driver not found or not available")
)

// Geocoder backfills coordinates for addresses that arrive without them.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

type Service struct {
	store  *Store
	cache  *Cache
	geo    Geocoder
	logger *slog.Logger
}

// NewService wires the ride service. cache and geo may be nil; both are
// best-effort extras on top of the store.
func NewService(store *Store, cache *Cache, geo Geocoder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cache: cache, geo: geo, logger: logger}
}

type RequestCommand struct {
	RiderID              types.ID
	PickupAddress        string
	PickupLatitude       *float64
	PickupLongitude      *float64
	DestinationAddress   string
	DestinationLatitude  *float64
	DestinationLongitude *float64
}

// Request creates a new ride in 'requested' state. A rider may hold any
// number of simultaneous requests; limiting that is a client concern.
func (s *Service) Request(ctx context.Context, cmd RequestCommand) (*Ride, error) {
	if cmd.RiderID <= 0 || cmd.PickupAddress == "" || cmd.DestinationAddress == "" {
		return nil, ErrBadRequest
	}
	exists, err := s.store.RiderExists(ctx, cmd.RiderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRiderNotFound
	}

	r := &Ride{
		RiderID:              cmd.RiderID,
		PickupAddress:        cmd.PickupAddress,
		PickupLatitude:       cmd.PickupLatitude,
		PickupLongitude:      cmd.PickupLongitude,
		DestinationAddress:   cmd.DestinationAddress,
		DestinationLatitude:  cmd.DestinationLatitude,
		DestinationLongitude: cmd.DestinationLongitude,
		Status:               StatusRequested,
	}
	s.backfillCoords(ctx, r)

	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	observability.RidesRequestedTotal.Inc()
	return r, nil
}

// backfillCoords geocodes endpoints that came in without coordinates.
// Failures are logged and ignored; coordinates stay null.
func (s *Service) backfillCoords(ctx context.Context, r *Ride) {
	if s.geo == nil {
		return
	}
	if r.PickupLatitude == nil || r.PickupLongitude == nil {
		if lat, lng, err := s.geo.Geocode(ctx, r.PickupAddress); err == nil {
			r.PickupLatitude, r.PickupLongitude = &lat, &lng
		} else {
			s.logger.Warn("pickup geocode failed", "address", r.PickupAddress, "error", err)
		}
	}
	if r.DestinationLatitude == nil || r.DestinationLongitude == nil {
		if lat, lng, err := s.geo.Geocode(ctx, r.DestinationAddress); err == nil {
			r.DestinationLatitude, r.DestinationLongitude = &lat, &lng
		} else {
			s.logger.Warn("destination geocode failed", "address", r.DestinationAddress, "error", err)
		}
	}
}

type AcceptCommand struct {
	RideID       types.ID
	DriverUserID types.ID
}

// Accept resolves the many-drivers-one-ride race. At most one caller wins;
// everyone else gets a collapsed unavailable error. The winning write flips
// the driver profile to busy in the same transaction as the ride assignment.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) (*Ride, error) {
	r, err := s.store.Get(ctx, cmd.RideID)
	if errors.Is(err, ErrNotFound) {
		observability.AcceptConflictsTotal.Inc()
		return nil, ErrRideUnavailable
	}
	if err != nil {
		return nil, err
	}
	if r.Status != StatusRequested {
		observability.AcceptConflictsTotal.Inc()
		return nil, ErrRideUnavailable
	}

	profileID, err := s.store.EligibleDriverProfile(ctx, cmd.DriverUserID)
	if err != nil {
		if errors.Is(err, ErrDriverUnavailable) {
			observability.AcceptConflictsTotal.Inc()
		}
		return nil, err
	}

	accepted, err := s.store.Accept(ctx, cmd.RideID, cmd.DriverUserID, profileID)
	if err != nil {
		if errors.Is(err, ErrRideUnavailable) || errors.Is(err, ErrDriverUnavailable) {
			observability.AcceptConflictsTotal.Inc()
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	observability.RidesAcceptedTotal.Inc()
	return accepted, nil
}

type TransitionCommand struct {
	RideID types.ID
	To     Status
	Fare   *types.Money
}

// Transition advances a ride along the status graph. Fare may accompany only
// the transition to completed. Timestamp side effects are idempotent-set:
// replaying an equivalent transition never rewrites a timestamp.
func (s *Service) Transition(ctx context.Context, cmd TransitionCommand) (*Ride, error) {
	if !ValidStatus(cmd.To) {
		return nil, ErrBadRequest
	}
	if cmd.Fare != nil && cmd.To != StatusCompleted {
		return nil, ErrFareNotAllowed
	}

	// Read-validate-CAS; a lost race re-reads and revalidates against the
	// status that actually won, so no transition is lost or double-applied.
	for attempt := 0; attempt < 3; attempt++ {
		r, err := s.store.Get(ctx, cmd.RideID)
		if err != nil {
			return nil, err
		}
		if !CanTransition(r.Status, cmd.To) {
			return nil, &TransitionError{From: r.Status, To: cmd.To}
		}

		updated, err := s.store.UpdateStatus(ctx, cmd.RideID, r.Status, cmd.To, cmd.Fare)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if r.Status == StatusRequested && s.cache != nil {
			s.cache.Invalidate(ctx)
		}
		observability.RideTransitionsTotal.WithLabelValues(string(cmd.To)).Inc()
		return updated, nil
	}

	fresh, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	return nil, &TransitionError{From: fresh.Status, To: cmd.To}
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Ride, error) {
	return s.store.Get(ctx, id)
}

// ListAvailable returns requested rides, newest first. driverID is accepted
// for interface compatibility but does not filter: every driver sees every
// open request.
func (s *Service) ListAvailable(ctx context.Context, driverID types.ID, limit, offset int) ([]Ride, error) {
	_ = driverID
	limit, offset = normalizePage(limit, offset)
	if s.cache != nil {
		if rides, ok := s.cache.GetAvailable(ctx, limit, offset); ok {
			return rides, nil
		}
	}
	rides, err := s.store.ListAvailable(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetAvailable(ctx, limit, offset, rides)
	}
	return rides, nil
}

// ListForUser returns rides where the user is rider or driver, newest first.
func (s *Service) ListForUser(ctx context.Context, userID types.ID, limit, offset int) ([]Ride, error) {
	limit, offset = normalizePage(limit, offset)
	return s.store.ListByUser(ctx, userID, limit, offset)
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
