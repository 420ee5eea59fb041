// README: Auth middleware tests with a stub verifier.
package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"hail/internal/infra"
)

// stubVerifier is a test double for infra.TokenVerifier.
type stubVerifier struct {
	claims *infra.TokenClaims
	err    error
}

func (s *stubVerifier) Verify(string) (*infra.TokenClaims, error) {
	return s.claims, s.err
}

func buildRouter(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(verifier))
	r.GET("/whoami", func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "role": claims.Role})
	})
	driver := r.Group("", RequireDriver())
	driver.POST("/driver-only", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doRequest(r *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeader(t *testing.T) {
	r := buildRouter(&stubVerifier{claims: &infra.TokenClaims{UserID: 1}})
	if w := doRequest(r, http.MethodGet, "/whoami", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	r := buildRouter(&stubVerifier{err: errors.New("bad token")})
	if w := doRequest(r, http.MethodGet, "/whoami", "Bearer nope"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthPassesClaimsThrough(t *testing.T) {
	r := buildRouter(&stubVerifier{claims: &infra.TokenClaims{UserID: 7, Role: "rider"}})
	w := doRequest(r, http.MethodGet, "/whoami", "Bearer sometoken")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"role":"rider","user_id":7}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestRequireDriverRejectsRider(t *testing.T) {
	r := buildRouter(&stubVerifier{claims: &infra.TokenClaims{UserID: 7, Role: "rider"}})
	if w := doRequest(r, http.MethodPost, "/driver-only", "Bearer sometoken"); w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestRequireDriverAllowsDriver(t *testing.T) {
	r := buildRouter(&stubVerifier{claims: &infra.TokenClaims{UserID: 9, Role: "driver"}})
	if w := doRequest(r, http.MethodPost, "/driver-only", "Bearer sometoken"); w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}
