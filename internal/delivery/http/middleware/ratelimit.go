package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/frontandrew/parkir/internal/pkg/logger"
)

// Limiter - счетчик запросов в окне (реализован на Redis)
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error)
}

// RateLimitMiddleware ограничивает число запросов с одного клиента в окне.
// Если Redis недоступен, запрос пропускается
func RateLimitMiddleware(limiter Limiter, scope string, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + scope + ":" + clientKey(r)

			allowed, count, err := limiter.Allow(r.Context(), key, limit, window)
			if err != nil {
				log.Warn("Rate limiter unavailable", map[string]interface{}{
					"scope": scope,
					"error": err.Error(),
				})
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				respondError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey - пользователь, если он известен, иначе IP
func clientKey(r *http.Request) string {
	if claims, ok := GetUserClaims(r.Context()); ok {
		return "user:" + claims.UserID.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
