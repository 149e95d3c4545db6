package http

import (
	"context"
	"net/http"
	"time"

	"github.com/frontandrew/parkir/internal/delivery/http/middleware"
	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/config"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck проверяет доступность зависимости (PostgreSQL, Redis)
type HealthCheck func(ctx context.Context) error

// Handlers - обработчики всех ресурсов API
type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Card      *CardHandler
	Parking   *ParkingHandler
	Overnight *OvernightHandler
	Tariff    *TariffHandler
	Dashboard *DashboardHandler
}

// Router содержит все зависимости для HTTP роутера
type Router struct {
	handlers Handlers
	tokens   middleware.TokenValidator
	limiter  middleware.Limiter
	checks   map[string]HealthCheck
	config   *config.Config
	logger   logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	handlers Handlers,
	tokens middleware.TokenValidator,
	limiter middleware.Limiter,
	checks map[string]HealthCheck,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		handlers: handlers,
		tokens:   tokens,
		limiter:  limiter,
		checks:   checks,
		config:   config,
		logger:   logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(rt.config.CORS))

	r.Get("/health", rt.health)
	r.Handle("/metrics", promhttp.Handler())

	limit := func(scope string) func(http.Handler) http.Handler {
		return middleware.RateLimitMiddleware(rt.limiter, scope, rt.config.RateLimit.Requests, rt.config.RateLimit.Window, rt.logger)
	}
	requires := middleware.RequireCapability

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (без аутентификации)
		r.Route("/auth", func(r chi.Router) {
			r.With(limit("login")).Post("/login", rt.handlers.Auth.Login)
			r.Post("/refresh", rt.handlers.Auth.RefreshToken)
			r.Post("/logout", rt.handlers.Auth.Logout)
		})

		// Protected routes (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokens))

			r.Get("/auth/me", rt.handlers.Auth.GetMe)

			r.Route("/users", func(r chi.Router) {
				r.Use(requires(domain.CapManageUsers))
				r.Get("/", rt.handlers.User.ListUsers)
				r.Post("/", rt.handlers.User.CreateUser)
				r.Get("/{id}", rt.handlers.User.GetUser)
				r.Put("/{id}", rt.handlers.User.UpdateUser)
				r.Delete("/{id}", rt.handlers.User.DeleteUser)
			})

			r.Route("/cards", func(r chi.Router) {
				// Владелец или роль с view_cards, проверяется в use case
				r.Get("/{id}", rt.handlers.Card.GetCard)

				r.Group(func(r chi.Router) {
					r.Use(requires(domain.CapManageOwnCards))
					r.Get("/me", rt.handlers.Card.GetMyCards)
					r.Post("/", rt.handlers.Card.CreateCard)
					r.Put("/{id}", rt.handlers.Card.UpdateCard)
					r.Delete("/{id}", rt.handlers.Card.DeleteCard)
					r.Post("/{id}/qr", rt.handlers.Card.GenerateQR)
				})
			})

			r.Route("/parking", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(requires(domain.CapScanVehicles))
					r.With(limit("scan")).Post("/scan-in", rt.handlers.Parking.ScanIn)
					r.With(limit("scan")).Post("/scan-out", rt.handlers.Parking.ScanOut)
					r.Get("/sessions/{id}/fee", rt.handlers.Parking.GetFee)
					r.Get("/cards/{id}/latest", rt.handlers.Parking.LatestClosed)
				})

				r.With(requires(domain.CapConfirmPayment)).Post("/sessions/{id}/pay", rt.handlers.Parking.ConfirmPayment)
				r.With(requires(domain.CapViewHistory)).Get("/sessions", rt.handlers.Parking.ListSessions)
				r.With(requires(domain.CapViewOwnHistory)).Get("/sessions/me", rt.handlers.Parking.ListSessions)
			})

			r.Route("/overnight", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(requires(domain.CapRequestOvernight))
					r.Get("/me", rt.handlers.Overnight.List)
					r.Post("/", rt.handlers.Overnight.Submit)
				})

				r.Group(func(r chi.Router) {
					r.Use(requires(domain.CapApproveOvernight))
					r.Get("/", rt.handlers.Overnight.List)
					r.Post("/{id}/decision", rt.handlers.Overnight.Decide)
				})

				r.With(middleware.RequireAnyCapability(domain.CapApproveOvernight, domain.CapRequestOvernight)).
					Get("/{id}", rt.handlers.Overnight.Get)
			})

			r.Route("/tariff", func(r chi.Router) {
				r.With(requires(domain.CapViewTariff)).Get("/", rt.handlers.Tariff.GetTariff)
				r.With(requires(domain.CapManageTariff)).Put("/", rt.handlers.Tariff.UpdateTariff)
			})

			r.With(requires(domain.CapViewDashboard)).Get("/dashboard/monthly", rt.handlers.Dashboard.Monthly)
		})
	})

	return r
}

// health опрашивает зависимости; если хоть одна недоступна, отвечает 503
func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(rt.checks))
	for name, check := range rt.checks {
		if err := check(ctx); err != nil {
			components[name] = "unavailable"
			status = http.StatusServiceUnavailable
			rt.logger.Warn("Health check failed", map[string]interface{}{
				"component": name,
				"error":     err.Error(),
			})
			continue
		}
		components[name] = "ok"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "degraded"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":     overall,
		"components": components,
	})
}
