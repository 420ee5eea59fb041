// README: Ride store backed by PostgreSQL; conditional updates carry the
// concurrency guarantees.
package ride

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hail/internal/types"
)

const rideColumns = `id, rider_id, driver_id, pickup_address, pickup_latitude, pickup_longitude,
	destination_address, destination_latitude, destination_longitude,
	status, fare::text, distance, duration,
	requested_at, accepted_at, started_at, completed_at, created_at, updated_at`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *Ride) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO rides (
			rider_id, pickup_address, pickup_latitude, pickup_longitude,
			destination_address, destination_latitude, destination_longitude, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, requested_at, created_at, updated_at`,
		int64(r.RiderID), r.PickupAddress, r.PickupLatitude, r.PickupLongitude,
		r.DestinationAddress, r.DestinationLatitude, r.DestinationLongitude,
		string(r.Status),
	)
	return row.Scan(&r.ID, &r.RequestedAt, &r.CreatedAt, &r.UpdatedAt)
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Ride, error) {
	return scanRide(s.db.QueryRow(ctx,
		`SELECT `+rideColumns+` FROM rides WHERE id = $1`, int64(id)))
}

// RiderExists reports whether the referenced user exists.
func (s *Store) RiderExists(ctx context.Context, riderID types.ID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, int64(riderID)).Scan(&exists)
	return exists, err
}

// UpdateStatus applies a transition with a compare-and-swap on the current
// status. Timestamp columns are set only while null, so a replayed transition
// never overwrites them. Returns ErrNotFound when the guarded update matched
// no row; the caller decides whether that was a missing ride or a lost race.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, fare *types.Money) (*Ride, error) {
	var fareText *string
	if fare != nil {
		v := fare.String()
		fareText = &v
	}
	return scanRide(s.db.QueryRow(ctx, `
		UPDATE rides
		SET status = $1,
		    accepted_at = CASE WHEN $1 = 'driver_en_route' AND accepted_at IS NULL THEN NOW() ELSE accepted_at END,
		    started_at = CASE WHEN $1 = 'in_progress' AND started_at IS NULL THEN NOW() ELSE started_at END,
		    completed_at = CASE WHEN $1 = 'completed' AND completed_at IS NULL THEN NOW() ELSE completed_at END,
		    fare = COALESCE($2::numeric, fare),
		    updated_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING `+rideColumns,
		string(to), fareText, int64(id), string(from)))
}

// EligibleDriverProfile resolves a user reference to an available driver
// profile id. One query covers the three ways a driver can be ineligible
// (missing user, wrong role, not available) so callers cannot tell them apart.
func (s *Store) EligibleDriverProfile(ctx context.Context, driverUserID types.ID) (types.ID, error) {
	var profileID int64
	err := s.db.QueryRow(ctx, `
		SELECT dp.id
		FROM driver_profiles dp
		JOIN users u ON u.id = dp.user_id
		WHERE u.id = $1 AND u.role = 'driver' AND dp.status = 'available'`,
		int64(driverUserID)).Scan(&profileID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrDriverUnavailable
	}
	if err != nil {
		return 0, err
	}
	return types.ID(profileID), nil
}

// Accept assigns the ride to the driver and flips the driver profile to busy
// in a single transaction. The ride update is guarded on status='requested'
// and the profile update on status='available'; either guard failing rolls
// the whole acceptance back.
func (s *Store) Accept(ctx context.Context, rideID, driverUserID, profileID types.ID) (*Ride, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	r, err := scanRide(tx.QueryRow(ctx, `
		UPDATE rides
		SET driver_id = $1, status = 'accepted', accepted_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = 'requested'
		RETURNING `+rideColumns,
		int64(driverUserID), int64(rideID)))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrRideUnavailable
	}
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE driver_profiles
		SET status = 'busy', updated_at = NOW()
		WHERE id = $1 AND status = 'available'`,
		int64(profileID))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() != 1 {
		// Driver went unavailable between validation and commit; the rollback
		// puts the ride back to 'requested'.
		return nil, ErrDriverUnavailable
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) ListAvailable(ctx context.Context, limit, offset int) ([]Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE status = 'requested'
		ORDER BY requested_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectRides(rows)
}

func (s *Store) ListByUser(ctx context.Context, userID types.ID, limit, offset int) ([]Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE rider_id = $1 OR driver_id = $1
		ORDER BY requested_at DESC
		LIMIT $2 OFFSET $3`, int64(userID), limit, offset)
	if err != nil {
		return nil, err
	}
	return collectRides(rows)
}

func collectRides(rows pgx.Rows) ([]Ride, error) {
	defer rows.Close()
	out := []Ride{}
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func scanRide(row pgx.Row) (*Ride, error) {
	var r Ride
	var driverID sql.NullInt64
	var fare sql.NullString
	var acceptedAt, startedAt, completedAt sql.NullTime

	err := row.Scan(
		&r.ID, &r.RiderID, &driverID,
		&r.PickupAddress, &r.PickupLatitude, &r.PickupLongitude,
		&r.DestinationAddress, &r.DestinationLatitude, &r.DestinationLongitude,
		&r.Status, &fare, &r.Distance, &r.Duration,
		&r.RequestedAt, &acceptedAt, &startedAt, &completedAt,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		d := types.ID(driverID.Int64)
		r.DriverID = &d
	}
	if fare.Valid {
		m, err := types.ParseMoney(fare.String)
		if err != nil {
			return nil, err
		}
		r.Fare = &m
	}
	r.AcceptedAt = toTimePtr(acceptedAt)
	r.StartedAt = toTimePtr(startedAt)
	r.CompletedAt = toTimePtr(completedAt)
	return &r, nil
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
