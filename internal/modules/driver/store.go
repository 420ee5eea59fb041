// README: Driver profile store backed by PostgreSQL.
package driver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hail/internal/types"
)

const profileColumns = `id, user_id, license_number, vehicle_make, vehicle_model,
	vehicle_year, vehicle_plate, status, rating, total_rides, created_at, updated_at`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, p *Profile) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO driver_profiles (
			user_id, license_number, vehicle_make, vehicle_model,
			vehicle_year, vehicle_plate, status, rating, total_rides
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, 0)
		RETURNING id, created_at, updated_at`,
		int64(p.UserID), p.LicenseNumber, p.VehicleMake, p.VehicleModel,
		p.VehicleYear, p.VehiclePlate, string(p.Status),
	)
	err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Profile, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM driver_profiles WHERE id = $1`, int64(id)))
}

func (s *Store) GetByUserID(ctx context.Context, userID types.ID) (*Profile, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM driver_profiles WHERE user_id = $1`, int64(userID)))
}

// UserRole reports the role of the referenced user, or ErrUserNotFound.
func (s *Store) UserRole(ctx context.Context, userID types.ID) (string, error) {
	var role string
	err := s.db.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, int64(userID)).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	return role, err
}

// SetStatus updates the availability toggle and returns the updated profile.
func (s *Store) SetStatus(ctx context.Context, id types.ID, status Status) (*Profile, error) {
	return s.scanOne(s.db.QueryRow(ctx, `
		UPDATE driver_profiles
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+profileColumns,
		string(status), int64(id)))
}

func (s *Store) scanOne(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.LicenseNumber, &p.VehicleMake, &p.VehicleModel,
		&p.VehicleYear, &p.VehiclePlate, &p.Status, &p.Rating, &p.TotalRides,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
