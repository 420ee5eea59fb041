// README: User service implements registration and login.
package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"hail/internal/types"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrAlreadyExists      = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrBadRequest         = errors.New("bad request")
)

// TokenIssuer mints an auth token for a logged-in user.
type TokenIssuer interface {
	Issue(userID types.ID, role string) (string, error)
}

type Service struct {
	store  *Store
	tokens TokenIssuer
}

func NewService(store *Store, tokens TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens}
}

type RegisterCommand struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber *string
	Role        Role
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*User, error) {
	if cmd.Email == "" || cmd.Password == "" || cmd.FullName == "" || !ValidRole(cmd.Role) {
		return nil, ErrBadRequest
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		Email:        cmd.Email,
		PasswordHash: string(hash),
		FullName:     cmd.FullName,
		PhoneNumber:  cmd.PhoneNumber,
		Role:         cmd.Role,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns the user plus a signed token.
// Unknown email and wrong password collapse into the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*User, error) {
	return s.store.Get(ctx, id)
}
