package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	ip := "198.51.100.10"

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		if !rl.Allow(ip) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// 6th request should be rate limited (exceeded burst)
	if rl.Allow(ip) {
		t.Error("Request 6 should be rate limited")
	}
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	ip1 := "198.51.100.10"
	ip2 := "198.51.100.20"

	// Exhaust ip1's burst
	for i := 0; i < 3; i++ {
		if !rl.Allow(ip1) {
			t.Errorf("IP1 request %d should be allowed", i+1)
		}
	}

	// IP1 should be rate limited
	if rl.Allow(ip1) {
		t.Error("IP1 should be rate limited")
	}

	// IP2 should still have its full burst
	for i := 0; i < 3; i++ {
		if !rl.Allow(ip2) {
			t.Errorf("IP2 request %d should be allowed", i+1)
		}
	}
}

func TestRateLimitMiddleware_Returns429WithRetryAfter(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(1, 1)
	defer rl.Stop()

	mw := RateLimitMiddleware(rl)
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// First request passes
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insight/parse-text", nil)
	req.RemoteAddr = "198.51.100.10:4000"
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	// Second request from the same address exceeds the burst
	rec = httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected a Retry-After header")
	}
}
