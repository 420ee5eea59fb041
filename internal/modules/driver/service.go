// README: Driver service implements profile creation and availability.
package driver

import (
	"context"
	"errors"

	"hail/internal/types"
)

var (
	ErrNotFound         = errors.New("driver profile not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAlreadyExists    = errors.New("driver profile already exists for this user")
	ErrPermissionDenied = errors.New("user must have driver role to create driver profile")
	ErrBadRequest       = errors.New("bad request")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type CreateProfileCommand struct {
	UserID        types.ID
	LicenseNumber string
	VehicleMake   string
	VehicleModel  string
	VehicleYear   int
	VehiclePlate  string
}

func (s *Service) CreateProfile(ctx context.Context, cmd CreateProfileCommand) (*Profile, error) {
	if cmd.LicenseNumber == "" || cmd.VehicleMake == "" || cmd.VehicleModel == "" ||
		cmd.VehicleYear == 0 || cmd.VehiclePlate == "" {
		return nil, ErrBadRequest
	}
	role, err := s.store.UserRole(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if role != "driver" {
		return nil, ErrPermissionDenied
	}
	p := &Profile{
		UserID:        cmd.UserID,
		LicenseNumber: cmd.LicenseNumber,
		VehicleMake:   cmd.VehicleMake,
		VehicleModel:  cmd.VehicleModel,
		VehicleYear:   cmd.VehicleYear,
		VehiclePlate:  cmd.VehiclePlate,
		Status:        StatusUnavailable,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetStatus is an unconditional toggle between availability states. It does
// not check in-flight rides; a driver set unavailable mid-ride keeps the ride.
func (s *Service) SetStatus(ctx context.Context, id types.ID, status Status) (*Profile, error) {
	if !ValidStatus(status) {
		return nil, ErrBadRequest
	}
	return s.store.SetStatus(ctx, id, status)
}

// GetProfileForUser returns nil without error when the user has no profile.
func (s *Service) GetProfileForUser(ctx context.Context, userID types.ID) (*Profile, error) {
	p, err := s.store.GetByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return p, err
}
