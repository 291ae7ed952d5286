package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tradesignals/internal/config"
)

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.POST("/api/v1/signals/execute", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/signals/execute", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatalf("allow-methods header missing")
	}
}

func TestRequireBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.AuthConfig{Token: "secret"}

	r := gin.New()
	r.Use(RequireBearerMiddleware(cfg))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/signals", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(path, auth string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := get("/healthz", ""); code != http.StatusOK {
		t.Fatalf("healthz without token = %d, want 200", code)
	}
	if code := get("/api/v1/signals", ""); code != http.StatusUnauthorized {
		t.Fatalf("api without token = %d, want 401", code)
	}
	if code := get("/api/v1/signals", "Bearer wrong"); code != http.StatusUnauthorized {
		t.Fatalf("api with wrong token = %d, want 401", code)
	}
	if code := get("/api/v1/signals", "Bearer secret"); code != http.StatusOK {
		t.Fatalf("api with token = %d, want 200", code)
	}
}

func TestRequireBearerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.AuthConfig{Disabled: true}

	r := gin.New()
	r.Use(RequireBearerMiddleware(cfg))
	r.GET("/api/v1/signals", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/signals", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when auth disabled", rec.Code)
	}
}
