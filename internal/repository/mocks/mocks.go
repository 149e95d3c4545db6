// Package mocks содержит testify моки репозиториев для тестов use case слоя
package mocks

import (
	"context"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// UserRepository - мок repository.UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserRepository) List(ctx context.Context, role domain.UserRole, limit, offset int) ([]*domain.User, error) {
	args := m.Called(ctx, role, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *UserRepository) CountByRole(ctx context.Context, role domain.UserRole) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

func (m *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// RefreshTokenRepository - мок repository.RefreshTokenRepository
type RefreshTokenRepository struct {
	mock.Mock
}

func (m *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *RefreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *RefreshTokenRepository) Revoke(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// VehicleCardRepository - мок repository.VehicleCardRepository
type VehicleCardRepository struct {
	mock.Mock
}

func (m *VehicleCardRepository) Create(ctx context.Context, card *domain.VehicleCard, limit int) error {
	return m.Called(ctx, card, limit).Error(0)
}

func (m *VehicleCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VehicleCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleCard), args.Error(1)
}

func (m *VehicleCardRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.VehicleCard, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VehicleCard), args.Error(1)
}

func (m *VehicleCardRepository) CountByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	args := m.Called(ctx, studentID)
	return args.Int(0), args.Error(1)
}

func (m *VehicleCardRepository) Update(ctx context.Context, card *domain.VehicleCard) error {
	return m.Called(ctx, card).Error(0)
}

func (m *VehicleCardRepository) SetQRCode(ctx context.Context, id uuid.UUID, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

func (m *VehicleCardRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *VehicleCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// ParkingSessionRepository - мок repository.ParkingSessionRepository
type ParkingSessionRepository struct {
	mock.Mock
}

func (m *ParkingSessionRepository) Create(ctx context.Context, session *domain.ParkingSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *ParkingSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingSession), args.Error(1)
}

func (m *ParkingSessionRepository) GetOpenByCard(ctx context.Context, cardID uuid.UUID) (*domain.ParkingSession, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingSession), args.Error(1)
}

func (m *ParkingSessionRepository) Close(ctx context.Context, session *domain.ParkingSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *ParkingSessionRepository) MarkPaid(ctx context.Context, session *domain.ParkingSession) (bool, error) {
	args := m.Called(ctx, session)
	return args.Bool(0), args.Error(1)
}

func (m *ParkingSessionRepository) List(ctx context.Context, filter domain.SessionFilter) ([]*domain.ParkingSession, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ParkingSession), args.Error(1)
}

func (m *ParkingSessionRepository) LatestClosed(ctx context.Context, cardID uuid.UUID) (*domain.ParkingSession, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingSession), args.Error(1)
}

func (m *ParkingSessionRepository) ListActiveBetween(ctx context.Context, from, to time.Time) ([]*domain.ParkingSession, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ParkingSession), args.Error(1)
}

// OvernightRequestRepository - мок repository.OvernightRequestRepository
type OvernightRequestRepository struct {
	mock.Mock
}

func (m *OvernightRequestRepository) Create(ctx context.Context, req *domain.OvernightRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *OvernightRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.OvernightRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OvernightRequest), args.Error(1)
}

func (m *OvernightRequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.OvernightRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OvernightRequest), args.Error(1)
}

func (m *OvernightRequestRepository) ApprovedByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.OvernightRequest, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OvernightRequest), args.Error(1)
}

func (m *OvernightRequestRepository) SaveDecision(ctx context.Context, req *domain.OvernightRequest) error {
	return m.Called(ctx, req).Error(0)
}

// TariffRepository - мок repository.TariffRepository
type TariffRepository struct {
	mock.Mock
}

func (m *TariffRepository) Get(ctx context.Context) (*domain.Tariff, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tariff), args.Error(1)
}

func (m *TariffRepository) Update(ctx context.Context, tariff *domain.Tariff) error {
	return m.Called(ctx, tariff).Error(0)
}

var (
	_ repository.UserRepository             = (*UserRepository)(nil)
	_ repository.RefreshTokenRepository     = (*RefreshTokenRepository)(nil)
	_ repository.VehicleCardRepository      = (*VehicleCardRepository)(nil)
	_ repository.ParkingSessionRepository   = (*ParkingSessionRepository)(nil)
	_ repository.OvernightRequestRepository = (*OvernightRequestRepository)(nil)
	_ repository.TariffRepository           = (*TariffRepository)(nil)
)
