package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "github.com/gmalickovski/vibraweb/internal/domain"
	"github.com/gmalickovski/vibraweb/internal/services"
)

type routerStubSystemService struct {
	report services.SystemHealthReport
	err    error
}

func (s *routerStubSystemService) HealthReport(context.Context) (services.SystemHealthReport, error) {
	return s.report, s.err
}

func decodeErrorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Error
}

func TestNewRouter_DefaultMounts(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	healthHandlers := NewHealthHandlers(
		WithHealthSystemService(&routerStubSystemService{
			report: services.SystemHealthReport{
				Status:      domain.HealthStatusOK,
				Uptime:      5 * time.Second,
				GeneratedAt: now,
				Checks: map[string]domain.SystemHealthCheck{
					"narratives": {Status: domain.HealthStatusOK},
				},
			},
		}),
		WithHealthClock(func() time.Time { return now }),
	)

	router := NewRouter(WithHealthHandlers(healthHandlers))

	t.Run("healthz", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Fatalf("expected json content type, got %s", ct)
		}
	})

	t.Run("readyz", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
	})

	t.Run("default not implemented group", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/analyses:calculate", strings.NewReader("{}")))

		if rr.Code != http.StatusNotImplemented {
			t.Fatalf("expected status 501, got %d", rr.Code)
		}
		if code := decodeErrorCode(t, rr); code != "not_implemented" {
			t.Fatalf("expected not_implemented, got %s", code)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/unknown", nil))

		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rr.Code)
		}
		if code := decodeErrorCode(t, rr); code != errorNotFoundCode {
			t.Fatalf("expected %s, got %s", errorNotFoundCode, code)
		}
	})
}

func TestNewRouter_AnalysisRoutes(t *testing.T) {
	handlers := NewAnalysisHandlers(newRealAnalysisService(t), nil)
	router := NewRouter(WithAnalysisRoutes(handlers.Routes))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses:calculate", strings.NewReader(`{"nome":"ANA","dataNascimento":"01/01/2000"}`))
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/analyses:calculate", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "method_not_allowed" {
		t.Fatalf("expected method_not_allowed, got %s", code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/analyses:report", strings.NewReader(`{"nome":"ANA","dataNascimento":"01/01/2000"}`)))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected report route to answer 503 without a report service, got %d", rr.Code)
	}
}

func TestNewRouter_RateLimit(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	handlers := NewAnalysisHandlers(newRealAnalysisService(t), nil)
	router := NewRouter(
		WithAnalysisRoutes(handlers.Routes),
		WithRateLimit(2, clock),
	)

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses:calculate", strings.NewReader(`{"nome":"ANA","dataNascimento":"01/01/2000"}`))
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := send("10.0.0.1:1234"); rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rr.Code)
		}
	}

	rr := send("10.0.0.1:5678")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "rate_limited" {
		t.Fatalf("expected rate_limited, got %s", code)
	}
	if got := rr.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("expected Retry-After 60, got %q", got)
	}

	if rr := send("10.0.0.2:1234"); rr.Code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", rr.Code)
	}

	health := httptest.NewRecorder()
	healthReq := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	healthReq.RemoteAddr = "10.0.0.1:1234"
	router.ServeHTTP(health, healthReq)
	if health.Code != http.StatusOK {
		t.Fatalf("expected health endpoints outside the limiter, got %d", health.Code)
	}
}

func TestNewRouter_RateLimitIgnoresForwardedHeaders(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	handlers := NewAnalysisHandlers(newRealAnalysisService(t), nil)
	router := NewRouter(
		WithAnalysisRoutes(handlers.Routes),
		WithRateLimit(2, func() time.Time { return now }),
	)

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses:calculate", strings.NewReader(`{"nome":"ANA","dataNascimento":"01/01/2000"}`))
		req.RemoteAddr = "10.0.0.9:4000"
		req.Header.Set("X-Forwarded-For", forwarded)
		req.Header.Set("X-Real-IP", forwarded)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	for i, ip := range []string{"203.0.113.1", "203.0.113.2"} {
		if code := send(ip); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := send("203.0.113.3"); code != http.StatusTooManyRequests {
		t.Fatalf("expected rotating forwarded headers to stay limited, got %d", code)
	}
}

func TestSimpleRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newSimpleRateLimiter(1, time.Minute, func() time.Time { return now })

	if ok, _ := limiter.Allow("client"); !ok {
		t.Fatalf("expected first request to pass")
	}
	now = now.Add(20 * time.Second)
	ok, retry := limiter.Allow("client")
	if ok {
		t.Fatalf("expected second request to be limited")
	}
	if retry != 40*time.Second {
		t.Fatalf("expected retry after 40s, got %s", retry)
	}

	now = now.Add(40 * time.Second)
	if ok, _ := limiter.Allow("client"); !ok {
		t.Fatalf("expected window reset to allow the request")
	}

	if newSimpleRateLimiter(0, time.Minute, nil) != nil {
		t.Fatalf("expected disabled limiter for zero limit")
	}
}
