// README: Registration and login tests against a real database.
package user

import (
	"context"
	"errors"
	"testing"

	"hail/internal/dbtest"
	"hail/internal/types"
)

type staticIssuer struct{}

func (staticIssuer) Issue(userID types.ID, role string) (string, error) {
	return "token-for-" + userID.String(), nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewStore(dbtest.Setup(t)), staticIssuer{})
}

func registerCmd(email string) RegisterCommand {
	return RegisterCommand{
		Email:    email,
		Password: "hunter2hunter2",
		FullName: "Test User",
		Role:     RoleRider,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerCmd("rider@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if u.PasswordHash == "hunter2hunter2" {
		t.Fatal("password stored in plaintext")
	}

	logged, token, err := svc.Login(ctx, "rider@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != u.ID {
		t.Errorf("logged in as %d, want %d", logged.ID, u.ID)
	}
	if token == "" {
		t.Error("expected a token")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, registerCmd("dup@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, registerCmd("dup@example.com"))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t)
	cmd := registerCmd("role@example.com")
	cmd.Role = Role("admin")
	_, err := svc.Register(context.Background(), cmd)
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("err = %v, want ErrBadRequest", err)
	}
}

// Unknown email and wrong password are indistinguishable to the caller.
func TestLoginCollapsesFailures(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, registerCmd("known@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, wrongPass := svc.Login(ctx, "known@example.com", "not-the-password")
	_, _, unknown := svc.Login(ctx, "nobody@example.com", "whatever")
	for _, err := range []error{wrongPass, unknown} {
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	}
}
