package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/repository"
	"github.com/google/uuid"
)

// PasswordHasher хеширует пароли
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// CreateUserRequest - запрос администратора на создание петугаса или студента
type CreateUserRequest struct {
	Email         string          `json:"email" validate:"required,email"`
	Password      string          `json:"password" validate:"required,min=8"`
	FullName      string          `json:"full_name" validate:"required"`
	StudentNumber string          `json:"student_number,omitempty"`
	PhotoURL      string          `json:"photo_url,omitempty"`
	Role          domain.UserRole `json:"role" validate:"required,oneof=officer student"`
}

// UpdateUserRequest - частичное обновление пользователя
type UpdateUserRequest struct {
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Password      *string `json:"password,omitempty" validate:"omitempty,min=8"`
	FullName      *string `json:"full_name,omitempty"`
	StudentNumber *string `json:"student_number,omitempty"`
	PhotoURL      *string `json:"photo_url,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// Service управляет учетными записями (только super admin)
type Service struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	logger   logger.Logger
}

// NewService создает новый экземпляр UserService
func NewService(userRepo repository.UserRepository, hasher PasswordHasher, logger logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

// CreateUser создает учетную запись. Администраторы создаются только скриптом
func (s *Service) CreateUser(ctx context.Context, actor domain.Actor, req *CreateUserRequest) (*domain.User, error) {
	if req.Role != domain.RoleOfficer && req.Role != domain.RoleStudent {
		return nil, domain.ErrInvalidRole
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:         req.Email,
		PasswordHash:  passwordHash,
		FullName:      strings.TrimSpace(req.FullName),
		StudentNumber: strings.TrimSpace(req.StudentNumber),
		PhotoURL:      req.PhotoURL,
		Role:          req.Role,
		IsActive:      true,
	}
	if user.Role != domain.RoleStudent {
		user.StudentNumber = ""
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", map[string]interface{}{
		"user_id":    user.ID,
		"role":       user.Role,
		"created_by": actor.UserID,
	})

	user.PasswordHash = ""
	return user, nil
}

// GetUser возвращает пользователя по ID
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// ListUsers возвращает пользователей роли (пустая роль - все)
func (s *Service) ListUsers(ctx context.Context, role domain.UserRole, limit, offset int) ([]*domain.User, error) {
	if role != "" && !role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	limit, offset = domain.NormalizePage(limit, offset)
	users, err := s.userRepo.List(ctx, role, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// UpdateUser обновляет переданные поля
func (s *Service) UpdateUser(ctx context.Context, actor domain.Actor, id uuid.UUID, req *UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.StudentNumber != nil && user.IsStudent() {
		user.StudentNumber = strings.TrimSpace(*req.StudentNumber)
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.IsActive != nil {
		// Администратор не может отключить сам себя
		if !*req.IsActive && actor.UserID == user.ID {
			return nil, domain.ErrForbidden
		}
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		passwordHash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = passwordHash
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User updated", map[string]interface{}{
		"user_id":    user.ID,
		"updated_by": actor.UserID,
	})

	user.PasswordHash = ""
	return user, nil
}

// DeleteUser деактивирует пользователя
func (s *Service) DeleteUser(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return domain.ErrForbidden
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("User deactivated", map[string]interface{}{
		"user_id":    id,
		"deleted_by": actor.UserID,
	})
	return nil
}
