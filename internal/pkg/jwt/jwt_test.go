package jwt

import (
	"testing"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    uuid.New(),
		Email: "petugas@kampus.ac.id",
		Role:  domain.RoleOfficer,
	}
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	ts := NewTokenService("test-secret", 15*time.Minute, 24*time.Hour)
	user := testUser()

	pair, err := ts.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, pair.RefreshToken, 64)
	assert.True(t, pair.RefreshExpiresAt.After(pair.ExpiresAt))

	claims, err := ts.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleOfficer, claims.Role)
	assert.Equal(t, domain.Actor{UserID: user.ID, Role: domain.RoleOfficer}, claims.Actor())
}

func TestTokenService_ValidateToken_Errors(t *testing.T) {
	ts := NewTokenService("test-secret", time.Minute, time.Hour)
	pair, err := ts.GenerateTokenPair(testUser())
	require.NoError(t, err)

	t.Run("чужой секрет", func(t *testing.T) {
		other := NewTokenService("other-secret", time.Minute, time.Hour)
		_, err := other.ValidateToken(pair.AccessToken)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("мусор вместо токена", func(t *testing.T) {
		_, err := ts.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("истекший токен", func(t *testing.T) {
		ts.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		defer func() { ts.now = time.Now }()

		_, err := ts.ValidateToken(pair.AccessToken)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	})
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
