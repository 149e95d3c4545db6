package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/repository"
)

// Service собирает статистику для панели администратора
type Service struct {
	sessionRepo repository.ParkingSessionRepository
	userRepo    repository.UserRepository
	location    *time.Location
	logger      logger.Logger
}

// NewService создает сервис. Дни месяца считаются в зоне loc
func NewService(
	sessionRepo repository.ParkingSessionRepository,
	userRepo repository.UserRepository,
	loc *time.Location,
	logger logger.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		location:    loc,
		logger:      logger,
	}
}

// MonthlyStats возвращает въезды и выезды по дням месяца и число пользователей по ролям
func (s *Service) MonthlyStats(ctx context.Context, year int, month time.Month) (*domain.MonthlyStats, error) {
	if month < time.January || month > time.December {
		return nil, domain.NewValidationError("month", "must be between 1 and 12")
	}
	if year < 2000 || year > 9999 {
		return nil, domain.NewValidationError("year", "is out of range")
	}

	from, to := domain.MonthRange(year, month, s.location)

	sessions, err := s.sessionRepo.ListActiveBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	students, err := s.userRepo.CountByRole(ctx, domain.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	officers, err := s.userRepo.CountByRole(ctx, domain.RoleOfficer)
	if err != nil {
		return nil, fmt.Errorf("failed to count officers: %w", err)
	}

	days := domain.BucketByDay(year, month, s.location, sessions)
	total := 0
	for _, d := range days {
		total += d.Entries
	}

	return &domain.MonthlyStats{
		Year:         year,
		Month:        month,
		Days:         days,
		TotalEntries: total,
		Students:     students,
		Officers:     officers,
	}, nil
}
