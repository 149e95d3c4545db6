package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/usecase/tariff"
)

// TariffService - чтение и изменение тарифа
type TariffService interface {
	Get(ctx context.Context) (*domain.Tariff, error)
	Update(ctx context.Context, actor domain.Actor, req *tariff.UpdateTariffRequest) (*domain.Tariff, error)
}

// TariffHandler обрабатывает запросы к тарифу
type TariffHandler struct {
	tariffService TariffService
	logger        logger.Logger
}

// NewTariffHandler создает новый handler
func NewTariffHandler(tariffService TariffService, logger logger.Logger) *TariffHandler {
	return &TariffHandler{
		tariffService: tariffService,
		logger:        logger,
	}
}

// GetTariff возвращает текущий тариф
// GET /api/v1/tariff
func (h *TariffHandler) GetTariff(w http.ResponseWriter, r *http.Request) {
	current, err := h.tariffService.Get(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, current)
}

// UpdateTariff заменяет все три ставки
// PUT /api/v1/tariff
func (h *TariffHandler) UpdateTariff(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req tariff.UpdateTariffRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	updated, err := h.tariffService.Update(r.Context(), actor, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, updated)
}
