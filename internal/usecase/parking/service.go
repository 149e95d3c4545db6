package parking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/pkg/metrics"
	"github.com/frontandrew/parkir/internal/repository"
	"github.com/google/uuid"
)

// ScanRequest - содержимое QR кода, отсканированного петугасом
type ScanRequest struct {
	QRText string `json:"qr_text" validate:"required"`
}

// ScanResponse - результат скана входа или выхода
type ScanResponse struct {
	Session    *domain.ParkingSession `json:"session"`
	Card       *domain.VehicleCard    `json:"card"`
	Resolution *domain.Resolution     `json:"resolution"`
}

// FeePreview - текущий расчет стоимости сессии
type FeePreview struct {
	Session    *domain.ParkingSession `json:"session"`
	Resolution *domain.Resolution     `json:"resolution"`
}

// Service - сценарии парковки: вход, выход, расчет и подтверждение оплаты
type Service struct {
	sessionRepo repository.ParkingSessionRepository
	cardRepo    repository.VehicleCardRepository
	userRepo    repository.UserRepository
	requestRepo repository.OvernightRequestRepository
	tariffRepo  repository.TariffRepository
	logger      logger.Logger
	now         func() time.Time
}

// NewService создает новый экземпляр ParkingService
func NewService(
	sessionRepo repository.ParkingSessionRepository,
	cardRepo repository.VehicleCardRepository,
	userRepo repository.UserRepository,
	requestRepo repository.OvernightRequestRepository,
	tariffRepo repository.TariffRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		cardRepo:    cardRepo,
		userRepo:    userRepo,
		requestRepo: requestRepo,
		tariffRepo:  tariffRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// ScanIn открывает сессию по QR коду карточки.
// Статус и сумма на входе предварительные, окончательный расчет - при выходе
func (s *Service) ScanIn(ctx context.Context, actor domain.Actor, req *ScanRequest) (*ScanResponse, error) {
	card, err := s.cardFromQR(ctx, req.QRText)
	if err != nil {
		metrics.ScanRejected.WithLabelValues("in", reasonLabel(err)).Inc()
		return nil, err
	}

	now := s.now()
	res, err := s.resolve(ctx, card.ID, now, nil, now)
	if err != nil {
		return nil, err
	}

	officer := actor.UserID
	session := &domain.ParkingSession{
		ID:            uuid.New(),
		VehicleCardID: card.ID,
		EntryAt:       now,
		Status:        res.Status,
		Fee:           res.Fee,
		PaymentState:  domain.PaymentUnpaid,
		ScannedInBy:   &officer,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		if errors.Is(err, domain.ErrDuplicateOpenSession) {
			metrics.ScanRejected.WithLabelValues("in", reasonLabel(err)).Inc()
			s.logger.Warn("Scan-in rejected: session already open", map[string]interface{}{
				"card_id": card.ID,
			})
			return nil, err
		}
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	metrics.SessionsOpened.Inc()
	s.logger.Info("Parking session opened", map[string]interface{}{
		"session_id": session.ID,
		"card_id":    card.ID,
		"status":     session.Status,
		"officer_id": officer,
	})

	return &ScanResponse{Session: session, Card: card, Resolution: res}, nil
}

// ScanOut закрывает открытую сессию карточки и пересчитывает статус и сумму
func (s *Service) ScanOut(ctx context.Context, actor domain.Actor, req *ScanRequest) (*ScanResponse, error) {
	card, err := s.cardFromQR(ctx, req.QRText)
	if err != nil {
		metrics.ScanRejected.WithLabelValues("out", reasonLabel(err)).Inc()
		return nil, err
	}

	session, err := s.sessionRepo.GetOpenByCard(ctx, card.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNoOpenSession) {
			s.rejectScanOut(card.ID, err)
		}
		return nil, err
	}

	// Сначала расчет, потом единственная запись: при ошибке сессия остается открытой
	now := s.now()
	res, err := s.resolve(ctx, card.ID, session.EntryAt, &now, now)
	if err != nil {
		return nil, err
	}

	officer := actor.UserID
	session.ExitAt = &now
	session.ScannedOutBy = &officer
	session.Status = res.Status
	session.Fee = res.Fee

	if err := s.sessionRepo.Close(ctx, session); err != nil {
		if errors.Is(err, domain.ErrNoOpenSession) {
			s.rejectScanOut(card.ID, err)
			return nil, err
		}
		return nil, fmt.Errorf("failed to close session: %w", err)
	}

	metrics.SessionsClosed.WithLabelValues(string(res.Status), strconv.FormatBool(res.Penalized)).Inc()
	s.logger.Info("Parking session closed", map[string]interface{}{
		"session_id": session.ID,
		"card_id":    card.ID,
		"status":     session.Status,
		"fee":        session.Fee,
		"penalized":  res.Penalized,
		"officer_id": officer,
	})

	return &ScanResponse{Session: session, Card: card, Resolution: res}, nil
}

func (s *Service) rejectScanOut(cardID uuid.UUID, err error) {
	metrics.ScanRejected.WithLabelValues("out", reasonLabel(err)).Inc()
	s.logger.Warn("Scan-out rejected: no open session", map[string]interface{}{
		"card_id": cardID,
	})
}

// PreviewFee считает стоимость сессии без изменения данных.
// Для оплаченной сессии расчет делается на момент оплаты
func (s *Service) PreviewFee(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) (*FeePreview, error) {
	session, err := s.visibleSession(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}

	ref := s.now()
	if session.IsPaid() && session.PaidAt != nil {
		ref = *session.PaidAt
	}

	res, err := s.resolve(ctx, session.VehicleCardID, session.EntryAt, session.ExitAt, ref)
	if err != nil {
		return nil, err
	}

	return &FeePreview{Session: session, Resolution: res}, nil
}

// ConfirmPayment фиксирует оплату закрытой сессии.
// Сумма пересчитывается на момент оплаты: штраф за просроченное окно учитывается здесь
func (s *Service) ConfirmPayment(ctx context.Context, actor domain.Actor, sessionID uuid.UUID) (*domain.ParkingSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.CheckPayable(); err != nil {
		return nil, err
	}

	now := s.now()
	res, err := s.resolve(ctx, session.VehicleCardID, session.EntryAt, session.ExitAt, now)
	if err != nil {
		return nil, err
	}

	officer := actor.UserID
	session.Status = res.Status
	session.Fee = res.Fee
	session.PaidAt = &now
	session.PaidBy = &officer

	updated, err := s.sessionRepo.MarkPaid(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}
	if !updated {
		// Кто-то изменил сессию между чтением и записью
		fresh, err := s.sessionRepo.GetByID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if err := fresh.CheckPayable(); err != nil {
			return nil, err
		}
		return nil, domain.ErrConflict
	}
	session.PaymentState = domain.PaymentPaid

	metrics.PaymentsConfirmed.Inc()
	metrics.FeeCollected.WithLabelValues(string(session.Status)).Add(float64(session.Fee))
	s.logger.Info("Payment confirmed", map[string]interface{}{
		"session_id": session.ID,
		"fee":        session.Fee,
		"status":     session.Status,
		"penalized":  res.Penalized,
		"officer_id": officer,
	})

	return session, nil
}

// ListSessions возвращает историю парковок. Студент видит только сессии своих карточек
func (s *Service) ListSessions(ctx context.Context, actor domain.Actor, filter domain.SessionFilter) ([]*domain.ParkingSession, error) {
	switch filter.State {
	case "", domain.SessionOpen, domain.SessionClosedUnpaid, domain.SessionClosedPaid:
	default:
		return nil, domain.NewValidationError("state", "must be one of: Open, Closed/Unpaid, Closed/Paid")
	}

	if actor.Role == domain.RoleStudent {
		studentID := actor.UserID
		filter.StudentID = &studentID
	}
	filter.Limit, filter.Offset = domain.NormalizePage(filter.Limit, filter.Offset)

	return s.sessionRepo.List(ctx, filter)
}

// LatestClosed возвращает последнюю закрытую сессию карточки
func (s *Service) LatestClosed(ctx context.Context, actor domain.Actor, cardID uuid.UUID) (*domain.ParkingSession, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleStudent && !actor.Owns(card.StudentID) {
		return nil, domain.ErrForbidden
	}

	session, err := s.sessionRepo.LatestClosed(ctx, cardID)
	if err != nil {
		return nil, err
	}
	session.VehicleCard = card
	return session, nil
}

// cardFromQR разбирает QR код и проверяет, что карточка принадлежит закодированному студенту
func (s *Service) cardFromQR(ctx context.Context, qrText string) (*domain.VehicleCard, error) {
	target, err := domain.ParseQRTarget(qrText)
	if err != nil {
		return nil, err
	}

	card, err := s.cardRepo.GetByID(ctx, target.CardID)
	if err != nil {
		return nil, err
	}
	if card.StudentID != target.StudentID {
		return nil, domain.ErrInvalidQRCode
	}

	student, err := s.userRepo.GetByID(ctx, card.StudentID)
	if err != nil {
		return nil, err
	}
	if !student.IsActive {
		return nil, domain.ErrUserInactive
	}
	student.PasswordHash = ""
	card.Student = student

	return card, nil
}

func (s *Service) visibleSession(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.ParkingSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleStudent {
		return session, nil
	}

	card, err := s.cardRepo.GetByID(ctx, session.VehicleCardID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(card.StudentID) {
		return nil, domain.ErrForbidden
	}
	return session, nil
}

// resolve загружает тариф и одобренные окна карточки и считает стоимость
func (s *Service) resolve(ctx context.Context, cardID uuid.UUID, entry time.Time, exit *time.Time, now time.Time) (*domain.Resolution, error) {
	tariff, err := s.tariffRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tariff: %w", err)
	}

	approved, err := s.requestRepo.ApprovedByCard(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load overnight windows: %w", err)
	}

	return domain.Resolve(domain.ResolveInput{
		Entry:           entry,
		Exit:            exit,
		ApprovedWindows: domain.ApprovedWindows(approved),
		Tariff:          *tariff,
		ReferenceNow:    now,
	})
}

func reasonLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidQRCode):
		return "invalid_qr"
	case errors.Is(err, domain.ErrCardNotFound):
		return "unknown_card"
	case errors.Is(err, domain.ErrDuplicateOpenSession):
		return "already_open"
	case errors.Is(err, domain.ErrNoOpenSession):
		return "not_open"
	case errors.Is(err, domain.ErrUserInactive):
		return "inactive_student"
	default:
		return "other"
	}
}
