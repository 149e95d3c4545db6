package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/usecase/user"
	"github.com/google/uuid"
)

// UserService - управление учетными записями (только администратор)
type UserService interface {
	CreateUser(ctx context.Context, actor domain.Actor, req *user.CreateUserRequest) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListUsers(ctx context.Context, role domain.UserRole, limit, offset int) ([]*domain.User, error)
	UpdateUser(ctx context.Context, actor domain.Actor, id uuid.UUID, req *user.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

// UserHandler обрабатывает запросы к пользователям
type UserHandler struct {
	userService UserService
	logger      logger.Logger
}

// NewUserHandler создает новый handler
func NewUserHandler(userService UserService, logger logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser создает петугаса или студента
// POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req user.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	created, err := h.userService.CreateUser(r.Context(), actor, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusCreated, created)
}

// ListUsers возвращает пользователей, опционально по роли
// GET /api/v1/users?role=student&limit=20&offset=0
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := domain.UserRole(r.URL.Query().Get("role"))
	if role != "" && !role.IsValid() {
		handleError(w, r, h.logger, domain.NewValidationError("role", "must be one of: admin, officer, student"))
		return
	}
	limit, offset := pageParams(r)

	users, err := h.userService.ListUsers(r.Context(), role, limit, offset)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, users)
}

// GetUser возвращает пользователя по ID
// GET /api/v1/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	found, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, found)
}

// UpdateUser частично обновляет пользователя
// PUT /api/v1/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req user.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	updated, err := h.userService.UpdateUser(r.Context(), actor, id, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, updated)
}

// DeleteUser деактивирует пользователя
// DELETE /api/v1/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), actor, id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted successfully",
	})
}
