package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/usecase/card"
	"github.com/google/uuid"
)

// CardService - сценарии карточек транспорта
type CardService interface {
	CreateCard(ctx context.Context, actor domain.Actor, req *card.CreateCardRequest) (*domain.VehicleCard, error)
	GetCard(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.VehicleCard, error)
	ListMyCards(ctx context.Context, actor domain.Actor) ([]*domain.VehicleCard, error)
	UpdateCard(ctx context.Context, actor domain.Actor, id uuid.UUID, req *card.UpdateCardRequest) (*domain.VehicleCard, error)
	DeleteCard(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	GenerateQR(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.VehicleCard, error)
}

// CardHandler обрабатывает запросы к карточкам транспорта
type CardHandler struct {
	cardService CardService
	logger      logger.Logger
}

// NewCardHandler создает новый handler
func NewCardHandler(cardService CardService, logger logger.Logger) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		logger:      logger,
	}
}

// CreateCard регистрирует карточку с тремя фото
// POST /api/v1/cards
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req card.CreateCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	created, err := h.cardService.CreateCard(r.Context(), actor, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusCreated, created)
}

// GetMyCards возвращает карточки текущего студента
// GET /api/v1/cards/me
func (h *CardHandler) GetMyCards(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	cards, err := h.cardService.ListMyCards(r.Context(), actor)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, cards)
}

// GetCard возвращает карточку вместе с владельцем
// GET /api/v1/cards/{id}
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	found, err := h.cardService.GetCard(r.Context(), actor, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, found)
}

// UpdateCard заменяет фото карточки
// PUT /api/v1/cards/{id}
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req card.UpdateCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	updated, err := h.cardService.UpdateCard(r.Context(), actor, id, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, updated)
}

// DeleteCard удаляет карточку, если на нее нет ссылок
// DELETE /api/v1/cards/{id}
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), actor, id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Card deleted successfully",
	})
}

// GenerateQR генерирует и сохраняет QR код карточки
// POST /api/v1/cards/{id}/qr
func (h *CardHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	updated, err := h.cardService.GenerateQR(r.Context(), actor, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, updated)
}
