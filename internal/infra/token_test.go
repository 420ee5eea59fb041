// README: JWT round-trip tests.
package infra

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Issue(42, "driver")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "driver" {
		t.Errorf("claims = %+v, want user 42 role driver", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, err := issuer.Issue(1, "rider")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Error("expected verification failure with wrong secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)
	token, err := m.Issue(1, "rider")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Error("expected verification failure for expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	if _, err := m.Verify("not.a.token"); err == nil {
		t.Error("expected verification failure")
	}
}
