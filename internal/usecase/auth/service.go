package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/jwt"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/repository"
	"github.com/google/uuid"
)

// PasswordHasher проверяет пароли
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hashedPassword, password string) bool
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest - запрос на обновление и отзыв токенов
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse - ответ на вход и обновление токенов
type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// Service содержит бизнес-логику аутентификации
type Service struct {
	userRepo     repository.UserRepository
	tokenRepo    repository.RefreshTokenRepository
	tokenService *jwt.TokenService
	hasher       PasswordHasher
	logger       logger.Logger
	now          func() time.Time
}

// NewService создает новый экземпляр AuthService
func NewService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	tokenService *jwt.TokenService,
	hasher PasswordHasher,
	logger logger.Logger,
) *Service {
	return &Service{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
		hasher:       hasher,
		logger:       logger,
		now:          time.Now,
	}
}

// Login аутентифицирует пользователя и возвращает пару токенов
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.logger.Info("User login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		s.logger.Warn("Login failed: user inactive", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, domain.ErrUserInactive
	}

	if !s.hasher.Check(user.PasswordHash, req.Password) {
		s.logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, domain.ErrInvalidCredentials
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error("Failed to update last login", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	return resp, nil
}

// Refresh обменивает действующий refresh токен на новую пару. Старый токен отзывается
func (s *Service) Refresh(ctx context.Context, req *RefreshRequest) (*LoginResponse, error) {
	tokenHash := jwt.HashToken(req.RefreshToken)

	stored, err := s.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}

	if !stored.IsValidAt(s.now()) {
		s.logger.Warn("Refresh with expired or revoked token", map[string]interface{}{
			"user_id": stored.UserID,
		})
		return nil, domain.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// Отзыв - условный UPDATE, повторный refresh тем же токеном получит ErrInvalidToken
	if err := s.tokenRepo.Revoke(ctx, tokenHash); err != nil {
		return nil, err
	}

	return s.issue(ctx, user)
}

// Logout отзывает refresh токен
func (s *Service) Logout(ctx context.Context, req *RefreshRequest) error {
	err := s.tokenRepo.Revoke(ctx, jwt.HashToken(req.RefreshToken))
	if err != nil && !errors.Is(err, domain.ErrInvalidToken) {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Me возвращает профиль текущего пользователя
func (s *Service) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// ValidateToken валидирует access токен и возвращает claims
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenService.ValidateToken(tokenString)
}

// CleanupExpiredTokens удаляет истекшие refresh токены
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokenRepo.DeleteExpired(ctx)
}

func (s *Service) issue(ctx context.Context, user *domain.User) (*LoginResponse, error) {
	pair, err := s.tokenService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("Failed to generate tokens", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	err = s.tokenRepo.Create(ctx, &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: jwt.HashToken(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	// Не возвращаем password_hash
	user.PasswordHash = ""

	return &LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}, nil
}
