package auth

import (
	"context"
	"testing"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/hash"
	"github.com/frontandrew/parkir/internal/pkg/jwt"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/repository/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	users   *mocks.UserRepository
	tokens  *mocks.RefreshTokenRepository
	service *Service
	hasher  *hash.Hasher
}

func newFixture() *fixture {
	f := &fixture{
		users:  new(mocks.UserRepository),
		tokens: new(mocks.RefreshTokenRepository),
		hasher: hash.NewHasher(bcrypt.MinCost),
	}
	f.service = NewService(
		f.users,
		f.tokens,
		jwt.NewTokenService("test-secret", 15*time.Minute, 24*time.Hour),
		f.hasher,
		logger.NewNoop(),
	)
	return f
}

func (f *fixture) user(t *testing.T, active bool) *domain.User {
	hashed, err := f.hasher.Hash("rahasia123")
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Email:        "budi@kampus.ac.id",
		PasswordHash: hashed,
		FullName:     "Budi",
		Role:         domain.RoleOfficer,
		IsActive:     active,
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("успешный вход", func(t *testing.T) {
		f := newFixture()
		user := f.user(t, true)

		f.users.On("GetByEmail", ctx, "budi@kampus.ac.id").Return(user, nil)
		f.tokens.On("Create", ctx, mock.MatchedBy(func(rt *domain.RefreshToken) bool {
			return rt.UserID == user.ID && len(rt.TokenHash) == 64
		})).Return(nil)
		f.users.On("UpdateLastLogin", ctx, user.ID).Return(nil)

		resp, err := f.service.Login(ctx, &LoginRequest{Email: " Budi@Kampus.ac.id ", Password: "rahasia123"})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Empty(t, resp.User.PasswordHash)

		claims, err := f.service.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		f.users.AssertExpectations(t)
		f.tokens.AssertExpectations(t)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByEmail", ctx, "budi@kampus.ac.id").Return(f.user(t, true), nil)

		_, err := f.service.Login(ctx, &LoginRequest{Email: "budi@kampus.ac.id", Password: "salah"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByEmail", ctx, "nobody@kampus.ac.id").Return(nil, domain.ErrUserNotFound)

		_, err := f.service.Login(ctx, &LoginRequest{Email: "nobody@kampus.ac.id", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("пользователь деактивирован", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByEmail", ctx, "budi@kampus.ac.id").Return(f.user(t, false), nil)

		_, err := f.service.Login(ctx, &LoginRequest{Email: "budi@kampus.ac.id", Password: "rahasia123"})
		assert.ErrorIs(t, err, domain.ErrUserInactive)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	token := "refresh-token"
	tokenHash := jwt.HashToken(token)

	t.Run("ротация токена", func(t *testing.T) {
		f := newFixture()
		user := f.user(t, true)

		f.tokens.On("GetByTokenHash", ctx, tokenHash).Return(&domain.RefreshToken{
			UserID:    user.ID,
			TokenHash: tokenHash,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
		f.users.On("GetByID", ctx, user.ID).Return(user, nil)
		f.tokens.On("Revoke", ctx, tokenHash).Return(nil)
		f.tokens.On("Create", ctx, mock.AnythingOfType("*domain.RefreshToken")).Return(nil)

		resp, err := f.service.Refresh(ctx, &RefreshRequest{RefreshToken: token})

		require.NoError(t, err)
		assert.NotEqual(t, token, resp.RefreshToken)
		f.tokens.AssertExpectations(t)
	})

	t.Run("отозванный токен", func(t *testing.T) {
		f := newFixture()
		revoked := time.Now().Add(-time.Minute)

		f.tokens.On("GetByTokenHash", ctx, tokenHash).Return(&domain.RefreshToken{
			UserID:    uuid.New(),
			ExpiresAt: time.Now().Add(time.Hour),
			RevokedAt: &revoked,
		}, nil)

		_, err := f.service.Refresh(ctx, &RefreshRequest{RefreshToken: token})
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		f.tokens.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})

	t.Run("неизвестный токен", func(t *testing.T) {
		f := newFixture()
		f.tokens.On("GetByTokenHash", ctx, tokenHash).Return(nil, domain.ErrInvalidToken)

		_, err := f.service.Refresh(ctx, &RefreshRequest{RefreshToken: token})
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// Повторный выход не считается ошибкой
	f.tokens.On("Revoke", ctx, jwt.HashToken("t")).Return(domain.ErrInvalidToken)

	assert.NoError(t, f.service.Logout(ctx, &RefreshRequest{RefreshToken: "t"}))
}
