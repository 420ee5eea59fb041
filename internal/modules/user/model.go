// README: User entity and roles.
package user

import (
	"time"

	"hail/internal/types"
)

type Role string

const (
	RoleRider  Role = "rider"
	RoleDriver Role = "driver"
)

func ValidRole(r Role) bool {
	return r == RoleRider || r == RoleDriver
}

type User struct {
	ID           types.ID  `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	PhoneNumber  *string   `json:"phone_number"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
