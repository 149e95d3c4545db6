package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/usecase/overnight"
	"github.com/google/uuid"
)

// OvernightService - заявки на ночную парковку
type OvernightService interface {
	Submit(ctx context.Context, actor domain.Actor, req *overnight.SubmitRequest) (*domain.OvernightRequest, error)
	Decide(ctx context.Context, actor domain.Actor, id uuid.UUID, req *overnight.DecisionRequest) (*domain.OvernightRequest, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.OvernightRequest, error)
	List(ctx context.Context, actor domain.Actor, filter domain.RequestFilter) ([]*domain.OvernightRequest, error)
}

// OvernightHandler обрабатывает заявки parkir inap
type OvernightHandler struct {
	overnightService OvernightService
	logger           logger.Logger
}

// NewOvernightHandler создает новый handler
func NewOvernightHandler(overnightService OvernightService, logger logger.Logger) *OvernightHandler {
	return &OvernightHandler{
		overnightService: overnightService,
		logger:           logger,
	}
}

// Submit подает заявку студента
// POST /api/v1/overnight
func (h *OvernightHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req overnight.SubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	request, err := h.overnightService.Submit(r.Context(), actor, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusCreated, request)
}

// List возвращает заявки. Студенту отдаются только его собственные
// GET /api/v1/overnight?status=Pending
// GET /api/v1/overnight/me
func (h *OvernightHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	filter := domain.RequestFilter{
		Status: domain.RequestStatus(r.URL.Query().Get("status")),
	}
	filter.Limit, filter.Offset = pageParams(r)

	requests, err := h.overnightService.List(r.Context(), actor, filter)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, requests)
}

// Get возвращает заявку по ID
// GET /api/v1/overnight/{id}
func (h *OvernightHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	request, err := h.overnightService.Get(r.Context(), actor, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, request)
}

// Decide одобряет или отклоняет заявку
// POST /api/v1/overnight/{id}/decision
func (h *OvernightHandler) Decide(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req overnight.DecisionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	request, err := h.overnightService.Decide(r.Context(), actor, id, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, request)
}
