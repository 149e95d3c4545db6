package overnight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/pkg/metrics"
	"github.com/frontandrew/parkir/internal/repository"
	"github.com/google/uuid"
)

// SubmitRequest - заявка студента на ночную парковку (parkir inap)
type SubmitRequest struct {
	VehicleCardID uuid.UUID `json:"vehicle_card_id" validate:"required"`
	WindowStart   time.Time `json:"window_start" validate:"required"`
	WindowEnd     time.Time `json:"window_end" validate:"required"`
	Justification string    `json:"justification" validate:"required,max=1000"`
}

// DecisionRequest - решение администратора
type DecisionRequest struct {
	Decision domain.RequestStatus `json:"decision" validate:"required,oneof=Approved Rejected"`
}

// Service содержит бизнес-логику заявок на ночную парковку
type Service struct {
	requestRepo repository.OvernightRequestRepository
	cardRepo    repository.VehicleCardRepository
	logger      logger.Logger
	now         func() time.Time
}

// NewService создает новый экземпляр OvernightService
func NewService(
	requestRepo repository.OvernightRequestRepository,
	cardRepo repository.VehicleCardRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		requestRepo: requestRepo,
		cardRepo:    cardRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit создает заявку в статусе Pending на карточку студента
func (s *Service) Submit(ctx context.Context, actor domain.Actor, req *SubmitRequest) (*domain.OvernightRequest, error) {
	card, err := s.cardRepo.GetByID(ctx, req.VehicleCardID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(card.StudentID) {
		return nil, domain.ErrForbidden
	}

	request := &domain.OvernightRequest{
		ID:            uuid.New(),
		StudentID:     actor.UserID,
		VehicleCardID: card.ID,
		WindowStart:   req.WindowStart,
		WindowEnd:     req.WindowEnd,
		Justification: strings.TrimSpace(req.Justification),
		Status:        domain.RequestPending,
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create overnight request: %w", err)
	}

	s.logger.Info("Overnight request submitted", map[string]interface{}{
		"request_id":   request.ID,
		"card_id":      card.ID,
		"window_start": request.WindowStart,
		"window_end":   request.WindowEnd,
	})

	return request, nil
}

// Decide одобряет или отклоняет заявку. Решение принимается один раз
func (s *Service) Decide(ctx context.Context, actor domain.Actor, id uuid.UUID, req *DecisionRequest) (*domain.OvernightRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := request.Decide(req.Decision, actor.UserID, s.now()); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveDecision(ctx, request); err != nil {
		if errors.Is(err, domain.ErrOverlappingWindow) || errors.Is(err, domain.ErrRequestAlreadyDecided) {
			s.logger.Warn("Overnight decision rejected", map[string]interface{}{
				"request_id": id,
				"error":      err.Error(),
			})
			return nil, err
		}
		return nil, fmt.Errorf("failed to save decision: %w", err)
	}

	metrics.OvernightDecisions.WithLabelValues(string(request.Status)).Inc()
	s.logger.Info("Overnight request decided", map[string]interface{}{
		"request_id": id,
		"decision":   request.Status,
		"admin_id":   actor.UserID,
	})

	return request, nil
}

// Get возвращает заявку. Студент видит только свои
func (s *Service) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.OvernightRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleStudent && !actor.Owns(request.StudentID) {
		return nil, domain.ErrForbidden
	}
	return request, nil
}

// List возвращает заявки: администратор видит все, студент - свои
func (s *Service) List(ctx context.Context, actor domain.Actor, filter domain.RequestFilter) ([]*domain.OvernightRequest, error) {
	switch filter.Status {
	case "", domain.RequestPending, domain.RequestApproved, domain.RequestRejected:
	default:
		return nil, domain.NewValidationError("status", "must be one of: Pending, Approved, Rejected")
	}

	if actor.Role == domain.RoleStudent {
		studentID := actor.UserID
		filter.StudentID = &studentID
	}
	filter.Limit, filter.Offset = domain.NormalizePage(filter.Limit, filter.Offset)

	return s.requestRepo.List(ctx, filter)
}
