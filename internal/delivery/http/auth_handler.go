package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/usecase/auth"
)

// AuthService - сценарии аутентификации, нужные обработчику
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
	Refresh(ctx context.Context, req *auth.RefreshRequest) (*auth.LoginResponse, error)
	Logout(ctx context.Context, req *auth.RefreshRequest) error
	Me(ctx context.Context, actor domain.Actor) (*domain.User, error)
}

// AuthHandler обрабатывает запросы аутентификации
type AuthHandler struct {
	authService AuthService
	logger      logger.Logger
}

// NewAuthHandler создает новый handler
func NewAuthHandler(authService AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login обрабатывает вход пользователя
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, response)
}

// RefreshToken выдает новую пару токенов по refresh токену
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response, err := h.authService.Refresh(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, response)
}

// Logout отзывает refresh токен
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := h.authService.Logout(r.Context(), &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GetMe возвращает профиль текущего пользователя
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	user, err := h.authService.Me(r.Context(), actor)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, user)
}
