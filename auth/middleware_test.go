package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/santhiya1818/vibescape/config"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{JWTSecret: testSecret, TokenDuration: time.Hour}
}

func bearerFor(t *testing.T, user *User) string {
	t.Helper()
	token, err := SignToken(testSecret, user, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	return "Bearer " + token
}

func TestMiddleware(t *testing.T) {
	var gotClaims *Claims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(testAuthConfig())(inner)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", bearerFor(t, &User{ID: 7, Username: "mira", Role: RoleUser}), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClaims = nil
			req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if gotClaims == nil || gotClaims.UserID != 7 || gotClaims.Username != "mira" {
					t.Errorf("claims not attached to context: %+v", gotClaims)
				}
			}
		})
	}
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	token, err := SignToken(testSecret, testUser(), -time.Minute)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	handler := Middleware(testAuthConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("expired token must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(testAuthConfig())(RequireAdmin(inner))

	tests := []struct {
		name       string
		user       *User
		wantStatus int
	}{
		{"plain user is forbidden", &User{ID: 2, Username: "u", Role: RoleUser}, http.StatusForbidden},
		{"admin passes", &User{ID: 1, Username: "admin", Role: RoleAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/verify", nil)
			req.Header.Set("Authorization", bearerFor(t, tt.user))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireAdminWithoutClaims(t *testing.T) {
	// RequireAdmin mounted without the auth middleware must not panic.
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without claims")
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/admin/verify", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := &config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2}
	handler := RateLimit(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "203.0.113.9:4411"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request should be limited, got %v", codes)
	}

	// A different IP gets its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "198.51.100.4:9000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("fresh IP should pass, got %d", rec.Code)
	}
}
