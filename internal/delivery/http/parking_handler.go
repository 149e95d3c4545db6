package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/usecase/parking"
	"github.com/google/uuid"
)

// ParkingService - сканы, расчет и оплата сессий
type ParkingService interface {
	ScanIn(ctx context.Context, actor domain.Actor, req *parking.ScanRequest) (*parking.ScanResponse, error)
	ScanOut(ctx context.Context, actor domain.Actor, req *parking.ScanRequest) (*parking.ScanResponse, error)
	PreviewFee(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) (*parking.FeePreview, error)
	ConfirmPayment(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) (*domain.ParkingSession, error)
	ListSessions(ctx context.Context, actor domain.Actor, filter domain.SessionFilter) ([]*domain.ParkingSession, error)
	LatestClosed(ctx context.Context, actor domain.Actor, cardID uuid.UUID) (*domain.ParkingSession, error)
}

// ParkingHandler обрабатывает запросы петугаса и историю парковок
type ParkingHandler struct {
	parkingService ParkingService
	logger         logger.Logger
}

// NewParkingHandler создает новый handler
func NewParkingHandler(parkingService ParkingService, logger logger.Logger) *ParkingHandler {
	return &ParkingHandler{
		parkingService: parkingService,
		logger:         logger,
	}
}

// ScanIn открывает сессию по QR коду
// POST /api/v1/parking/scan-in
func (h *ParkingHandler) ScanIn(w http.ResponseWriter, r *http.Request) {
	h.scan(w, r, h.parkingService.ScanIn, http.StatusCreated)
}

// ScanOut закрывает открытую сессию по QR коду
// POST /api/v1/parking/scan-out
func (h *ParkingHandler) ScanOut(w http.ResponseWriter, r *http.Request) {
	h.scan(w, r, h.parkingService.ScanOut, http.StatusOK)
}

type scanFunc func(ctx context.Context, actor domain.Actor, req *parking.ScanRequest) (*parking.ScanResponse, error)

func (h *ParkingHandler) scan(w http.ResponseWriter, r *http.Request, fn scanFunc, status int) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req parking.ScanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response, err := fn(r.Context(), actor, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, status, response)
}

// GetFee возвращает текущий расчет стоимости сессии
// GET /api/v1/parking/sessions/{id}/fee
func (h *ParkingHandler) GetFee(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	preview, err := h.parkingService.PreviewFee(r.Context(), actor, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, preview)
}

// ConfirmPayment отмечает закрытую сессию оплаченной
// POST /api/v1/parking/sessions/{id}/pay
func (h *ParkingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	session, err := h.parkingService.ConfirmPayment(r.Context(), actor, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, session)
}

// ListSessions возвращает историю парковок
// GET /api/v1/parking/sessions?state=Open&card_id=...&limit=20&offset=0
func (h *ParkingHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	filter := domain.SessionFilter{
		State: domain.SessionState(r.URL.Query().Get("state")),
	}
	if raw := r.URL.Query().Get("card_id"); raw != "" {
		cardID, err := uuid.Parse(raw)
		if err != nil {
			handleError(w, r, h.logger, domain.NewValidationError("card_id", "must be a valid UUID"))
			return
		}
		filter.CardID = &cardID
	}
	filter.Limit, filter.Offset = pageParams(r)

	sessions, err := h.parkingService.ListSessions(r.Context(), actor, filter)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, sessions)
}

// LatestClosed возвращает последнюю закрытую сессию карточки
// GET /api/v1/parking/cards/{id}/latest
func (h *ParkingHandler) LatestClosed(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	cardID, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	session, err := h.parkingService.LatestClosed(r.Context(), actor, cardID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, session)
}
