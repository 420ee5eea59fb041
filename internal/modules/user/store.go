// README: User store backed by PostgreSQL.
package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hail/internal/types"
)

const userColumns = `id, email, password_hash, full_name, phone_number, role, created_at, updated_at`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, u *User) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, phone_number, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		u.Email, u.PasswordHash, u.FullName, u.PhoneNumber, string(u.Role),
	)
	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*User, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, int64(id)))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Store) scanOne(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName,
		&u.PhoneNumber, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
