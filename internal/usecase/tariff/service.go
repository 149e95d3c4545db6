package tariff

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/repository"
)

// UpdateTariffRequest - новый тариф, все суммы обязательны
type UpdateTariffRequest struct {
	RegularFee   *int64 `json:"regular_fee" validate:"required,gte=0"`
	OvernightFee *int64 `json:"overnight_fee" validate:"required,gte=0"`
	PenaltyFee   *int64 `json:"penalty_fee" validate:"required,gte=0"`
}

// Service управляет тарифом парковки
type Service struct {
	tariffRepo repository.TariffRepository
	logger     logger.Logger
	now        func() time.Time
}

// NewService создает новый экземпляр TariffService
func NewService(tariffRepo repository.TariffRepository, logger logger.Logger) *Service {
	return &Service{
		tariffRepo: tariffRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Get возвращает текущий тариф
func (s *Service) Get(ctx context.Context) (*domain.Tariff, error) {
	return s.tariffRepo.Get(ctx)
}

// Update сохраняет новый тариф. Уже оплаченные сессии не пересчитываются
func (s *Service) Update(ctx context.Context, actor domain.Actor, req *UpdateTariffRequest) (*domain.Tariff, error) {
	if req.RegularFee == nil || req.OvernightFee == nil || req.PenaltyFee == nil {
		return nil, domain.NewValidationError("tariff", "all fees are required")
	}

	updatedBy := actor.UserID
	t := &domain.Tariff{
		RegularFee:   *req.RegularFee,
		OvernightFee: *req.OvernightFee,
		PenaltyFee:   *req.PenaltyFee,
		UpdatedAt:    s.now(),
		UpdatedBy:    &updatedBy,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.tariffRepo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update tariff: %w", err)
	}

	s.logger.Info("Tariff updated", map[string]interface{}{
		"regular_fee":   t.RegularFee,
		"overnight_fee": t.OvernightFee,
		"penalty_fee":   t.PenaltyFee,
		"admin_id":      actor.UserID,
	})

	return t, nil
}
