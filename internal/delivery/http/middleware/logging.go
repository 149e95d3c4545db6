package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// responseWriter обертка для захвата status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

// LoggingMiddleware логирует все HTTP запросы и пишет длительность в метрики
func LoggingMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)

			metrics.APIRequestDuration.
				WithLabelValues(routePattern(r), r.Method, strconv.Itoa(rw.statusCode)).
				Observe(duration.Seconds())

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rw.statusCode,
				"duration_ms": duration.Milliseconds(),
				"bytes":       rw.written,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.UserAgent(),
			}
			if reqID := chiMiddleware.GetReqID(r.Context()); reqID != "" {
				fields["request_id"] = reqID
			}
			if claims, ok := GetUserClaims(r.Context()); ok {
				fields["user_id"] = claims.UserID.String()
			}

			log.Info("HTTP request", fields)
		})
	}
}

// routePattern возвращает шаблон маршрута chi, чтобы не плодить метки по id
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
