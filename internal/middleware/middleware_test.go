package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"karaoke-events/kjhub/internal/auth"
	"karaoke-events/kjhub/internal/config"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/metrics"
	"karaoke-events/kjhub/internal/models/dtos"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

const testSecret = "middleware-test-secret"

func init() {
	logging.SetLogger(zap.NewNop().Sugar())
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func signedToken(t *testing.T, subject string) string {
	t.Helper()
	token, err := auth.SignIdentityToken(testSecret, auth.IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		Email:            subject + "@example.test",
	}, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := config.IdentityConfig{JWTSecret: testSecret}

	var seen string
	handler := AuthMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := auth.GetIdentity(r.Context()); claims != nil {
			seen = claims.IdentityID()
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + signedToken(t, "sub-1"), http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Errorf("Expected status %d, got %d", tc.want, rr.Code)
			}
		})
	}

	if seen != "sub-1" {
		t.Errorf("Expected claims for sub-1 in context, got %q", seen)
	}
}

type stubEnsurer struct {
	user *gormModels.User
	err  error
}

func (s *stubEnsurer) EnsureUser(ctx context.Context, identityID string, profile dtos.IdentityProfile) (*gormModels.User, bool, error) {
	return s.user, false, s.err
}

func TestRequireUserAndRole(t *testing.T) {
	kj := &gormModels.User{ID: "u1", Role: constants.RoleKJ}
	chain := func(role constants.Role) http.Handler {
		return RequireUser(&stubEnsurer{user: kj})(RequireRole(role)(okHandler()))
	}

	withClaims := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		claims := &auth.IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-1"}}
		return req.WithContext(auth.SetIdentity(req.Context(), claims))
	}

	rr := httptest.NewRecorder()
	chain(constants.RoleKJ).ServeHTTP(rr, withClaims())
	if rr.Code != http.StatusOK {
		t.Errorf("KJ on KJ route: expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	chain(constants.RoleKS).ServeHTTP(rr, withClaims())
	if rr.Code != http.StatusForbidden {
		t.Errorf("KJ on KS route: expected 403, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	chain(constants.RoleKJ).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("no claims: expected 401, got %d", rr.Code)
	}
}

func TestRequireOperator(t *testing.T) {
	cfg := &config.Config{Identity: config.IdentityConfig{OperatorIDs: []string{"op-1"}}}
	handler := RequireOperator(cfg)(okHandler())

	for subject, want := range map[string]int{"op-1": http.StatusOK, "someone": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		claims := &auth.IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: subject}}
		req = req.WithContext(auth.SetIdentity(req.Context(), claims))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("%s: expected %d, got %d", subject, want, rr.Code)
		}
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 2})
	handler := rl.Middleware(okHandler())

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d within burst: expected 200, got %d", i, code)
		}
	}
	if code := do("10.0.0.1:5678"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", code)
	}
	if code := do("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("other client should not be limited, got %d", code)
	}
}

func TestRequestIDAndMetrics(t *testing.T) {
	reg := metrics.NewMetricsRegistry()

	var inner string
	handler := RequestIDMiddleware(MetricsMiddleware(reg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/7c9e6679-7425-40de-944b-e07fc1f90ae7", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if inner == "" || rr.Header().Get("X-Request-ID") != inner {
		t.Errorf("expected generated request id echoed in header, got %q and %q", inner, rr.Header().Get("X-Request-ID"))
	}

	scrape := httptest.NewRecorder()
	reg.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()
	if !strings.Contains(body, `endpoint="/api/v1/events/{id}"`) || !strings.Contains(body, `status_code="418"`) {
		t.Errorf("expected normalized endpoint and status in metrics output")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if inner != "caller-id" {
		t.Errorf("expected caller request id to be kept, got %q", inner)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := map[string]string{
		"/api/v1/events":     "/api/v1/events",
		"/api/v1/events/123": "/api/v1/events/{id}",
		"/api/v1/me":         "/api/v1/me",
		"/api/v1/events/7c9e6679-7425-40de-944b-e07fc1f90ae7/stats": "/api/v1/events/{id}/stats",
	}
	for in, want := range tests {
		if got := NormalizeEndpoint(in); got != want {
			t.Errorf("NormalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
