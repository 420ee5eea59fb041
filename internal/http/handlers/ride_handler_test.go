// README: Request-validation tests for ride handlers.
package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/ride"
)

// validationRouter wires the ride handler with a nil-backed service. Every
// request in these tests is rejected before a store call is made.
func validationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRideHandler(ride.NewService(nil, nil, nil, nil))
	r := gin.New()
	r.POST("/rides", h.Create)
	r.POST("/rides/:id/accept", h.Accept)
	r.POST("/rides/:id/status", h.UpdateStatus)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRideRejectsMalformedJSON(t *testing.T) {
	r := validationRouter()
	if w := postJSON(r, "/rides", `{"rider_id":`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCreateRideRejectsMissingFields(t *testing.T) {
	r := validationRouter()
	if w := postJSON(r, "/rides", `{"rider_id":1}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAcceptRejectsBadPathID(t *testing.T) {
	r := validationRouter()
	if w := postJSON(r, "/rides/abc/accept", `{"driver_id":1}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUpdateStatusRejectsNonPositiveFare(t *testing.T) {
	r := validationRouter()
	if w := postJSON(r, "/rides/1/status", `{"status":"completed","fare":0}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if w := postJSON(r, "/rides/1/status", `{"status":"completed","fare":-3.25}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUpdateStatusRejectsMissingStatus(t *testing.T) {
	r := validationRouter()
	if w := postJSON(r, "/rides/1/status", `{"fare":12.00}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
