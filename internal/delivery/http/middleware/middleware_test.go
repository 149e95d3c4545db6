package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/config"
	"github.com/frontandrew/parkir/internal/pkg/jwt"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	claims *jwt.Claims
	err    error
}

func (s stubValidator) ValidateToken(string) (*jwt.Claims, error) {
	return s.claims, s.err
}

type stubLimiter struct {
	allowed bool
	count   int64
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, int64, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.count, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	validClaims := &jwt.Claims{UserID: userID, Role: domain.RoleOfficer}

	tests := []struct {
		name       string
		header     string
		validator  stubValidator
		wantStatus int
	}{
		{
			name:       "валидный токен",
			header:     "Bearer good",
			validator:  stubValidator{claims: validClaims},
			wantStatus: http.StatusOK,
		},
		{
			name:       "нет заголовка",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "неверный формат",
			header:     "Token good",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "токен истек",
			header:     "Bearer old",
			validator:  stubValidator{err: domain.ErrTokenExpired},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "невалидный токен",
			header:     "Bearer bad",
			validator:  stubValidator{err: domain.ErrInvalidToken},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotActor domain.Actor
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotActor, _ = ActorFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tt.validator)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, gotActor.UserID)
				assert.Equal(t, domain.RoleOfficer, gotActor.Role)
			}
		})
	}
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name       string
		claims     *jwt.Claims
		capability domain.Capability
		wantStatus int
	}{
		{
			name:       "офицер сканирует",
			claims:     &jwt.Claims{UserID: uuid.New(), Role: domain.RoleOfficer},
			capability: domain.CapScanVehicles,
			wantStatus: http.StatusOK,
		},
		{
			name:       "студент не сканирует",
			claims:     &jwt.Claims{UserID: uuid.New(), Role: domain.RoleStudent},
			capability: domain.CapScanVehicles,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "администратор управляет тарифом",
			claims:     &jwt.Claims{UserID: uuid.New(), Role: domain.RoleAdmin},
			capability: domain.CapManageTariff,
			wantStatus: http.StatusOK,
		},
		{
			name:       "без claims",
			capability: domain.CapViewTariff,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()

			RequireCapability(tt.capability)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	cfg := config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	handler := CORSMiddleware(cfg)(okHandler())

	t.Run("разрешенный origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("чужой origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Authorization, Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		limiter    *stubLimiter
		wantStatus int
	}{
		{
			name:       "в пределах лимита",
			limiter:    &stubLimiter{allowed: true, count: 1},
			wantStatus: http.StatusOK,
		},
		{
			name:       "лимит превышен",
			limiter:    &stubLimiter{allowed: false, count: 31},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "redis недоступен",
			limiter:    &stubLimiter{err: errors.New("connection refused")},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = "10.0.0.7:53211"
			rec := httptest.NewRecorder()

			RateLimitMiddleware(tt.limiter, "login", 30, time.Minute, logger.NewNoop())(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			require.Len(t, tt.limiter.keys, 1)
			assert.Equal(t, "ratelimit:login:ip:10.0.0.7", tt.limiter.keys[0])
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	RecoveryMiddleware(logger.NewNoop())(panicking).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
