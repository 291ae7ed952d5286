package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &SignalHandler{}
	h.Register(r)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	return rec
}

func TestStartTimerValidation(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		name string
		body string
	}{
		{"missing signal_id", `{"duration_minutes": 30}`},
		{"missing duration", `{"signal_id": 1}`},
		{"negative duration", `{"signal_id": 1, "duration_minutes": -5}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		rec := postJSON(r, "/api/v1/signals/start-timer", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestExecuteValidation(t *testing.T) {
	r := newTestRouter()

	rec := postJSON(r, "/api/v1/signals/execute", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing signal_id: status = %d, want 400", rec.Code)
	}

	rec = postJSON(r, "/api/v1/signals/execute", `{"signal_id": 1, "force_outcome": "draw"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad force_outcome: status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "profit or loss") {
		t.Fatalf("body = %s, want force_outcome hint", rec.Body.String())
	}
}

func TestGetSignalRejectsBadID(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/signals/abc", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
