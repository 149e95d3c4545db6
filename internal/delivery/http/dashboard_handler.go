package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
)

// DashboardService - статистика для администратора
type DashboardService interface {
	MonthlyStats(ctx context.Context, year int, month time.Month) (*domain.MonthlyStats, error)
}

// DashboardHandler обрабатывает запросы статистики
type DashboardHandler struct {
	dashboardService DashboardService
	logger           logger.Logger
	now              func() time.Time
}

// NewDashboardHandler создает новый handler
func NewDashboardHandler(dashboardService DashboardService, logger logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
		now:              time.Now,
	}
}

// Monthly возвращает въезды по дням месяца и число пользователей по ролям.
// Без параметров берется текущий месяц
// GET /api/v1/dashboard/monthly?year=2024&month=5
func (h *DashboardHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year, month := now.Year(), int(now.Month())

	if raw := r.URL.Query().Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 2000 || v > 9999 {
			handleError(w, r, h.logger, domain.NewValidationError("year", "must be a valid year"))
			return
		}
		year = v
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			handleError(w, r, h.logger, domain.NewValidationError("month", "must be between 1 and 12"))
			return
		}
		month = v
	}

	stats, err := h.dashboardService.MonthlyStats(r.Context(), year, time.Month(month))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, stats)
}
