package card

import (
	"context"
	"errors"
	"fmt"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/infrastructure/storage"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/repository"
	"github.com/google/uuid"
)

// QREncoder рисует PNG с QR кодом
type QREncoder interface {
	PNG(content string) ([]byte, error)
}

// CreateCardRequest - фотографии документов в виде data URL (base64)
type CreateCardRequest struct {
	RegistrationPhoto string `json:"registration_photo" validate:"required"`
	StudentCardPhoto  string `json:"student_card_photo" validate:"required"`
	VehiclePhoto      string `json:"vehicle_photo" validate:"required"`
}

// UpdateCardRequest - заменяет только переданные фотографии
type UpdateCardRequest struct {
	RegistrationPhoto string `json:"registration_photo,omitempty"`
	StudentCardPhoto  string `json:"student_card_photo,omitempty"`
	VehiclePhoto      string `json:"vehicle_photo,omitempty"`
}

// Service содержит бизнес-логику карточек мотоциклов
type Service struct {
	cardRepo  repository.VehicleCardRepository
	userRepo  repository.UserRepository
	storage   storage.Client
	qr        QREncoder
	publicURL string
	logger    logger.Logger
}

// NewService создает новый экземпляр CardService.
// publicURL - адрес фронтенда, на который указывает QR код
func NewService(
	cardRepo repository.VehicleCardRepository,
	userRepo repository.UserRepository,
	storage storage.Client,
	qr QREncoder,
	publicURL string,
	logger logger.Logger,
) *Service {
	return &Service{
		cardRepo:  cardRepo,
		userRepo:  userRepo,
		storage:   storage,
		qr:        qr,
		publicURL: publicURL,
		logger:    logger,
	}
}

// CreateCard регистрирует мотоцикл студента
func (s *Service) CreateCard(ctx context.Context, actor domain.Actor, req *CreateCardRequest) (*domain.VehicleCard, error) {
	if actor.Role != domain.RoleStudent {
		return nil, domain.ErrForbidden
	}

	// Быстрая проверка до загрузки файлов, окончательная - в репозитории
	count, err := s.cardRepo.CountByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cards: %w", err)
	}
	if count >= domain.MaxCardsPerStudent {
		return nil, domain.ErrCardLimitReached
	}

	card := &domain.VehicleCard{
		ID:        uuid.New(),
		StudentID: actor.UserID,
	}

	uploads := []struct {
		field string
		kind  string
		data  string
		dst   *string
	}{
		{"registration_photo", "stnk", req.RegistrationPhoto, &card.RegistrationPhotoURL},
		{"student_card_photo", "ktm", req.StudentCardPhoto, &card.StudentCardPhotoURL},
		{"vehicle_photo", "motor", req.VehiclePhoto, &card.VehiclePhotoURL},
	}

	var uploaded []string
	for _, u := range uploads {
		link, err := s.uploadImage(ctx, card, u.field, u.kind, u.data)
		if err != nil {
			s.cleanup(ctx, uploaded...)
			return nil, err
		}
		*u.dst = link
		uploaded = append(uploaded, link)
	}

	if err := card.Validate(); err != nil {
		s.cleanup(ctx, uploaded...)
		return nil, err
	}

	if err := s.cardRepo.Create(ctx, card, domain.MaxCardsPerStudent); err != nil {
		s.cleanup(ctx, uploaded...)
		if errors.Is(err, domain.ErrCardLimitReached) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	s.logger.Info("Vehicle card created", map[string]interface{}{
		"card_id":    card.ID,
		"student_id": card.StudentID,
	})

	return card, nil
}

// GetCard возвращает карточку вместе с владельцем. Студент видит только свои карточки
func (s *Service) GetCard(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.VehicleCard, error) {
	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleStudent && !actor.Owns(card.StudentID) {
		return nil, domain.ErrForbidden
	}

	student, err := s.userRepo.GetByID(ctx, card.StudentID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if student != nil {
		student.PasswordHash = ""
		card.Student = student
	}

	return card, nil
}

// ListMyCards возвращает карточки текущего студента
func (s *Service) ListMyCards(ctx context.Context, actor domain.Actor) ([]*domain.VehicleCard, error) {
	return s.cardRepo.ListByStudent(ctx, actor.UserID)
}

// UpdateCard заменяет фотографии документов. Старые файлы удаляются после сохранения
func (s *Service) UpdateCard(ctx context.Context, actor domain.Actor, id uuid.UUID, req *UpdateCardRequest) (*domain.VehicleCard, error) {
	card, err := s.ownedCard(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	replacements := []struct {
		field string
		kind  string
		data  string
		dst   *string
	}{
		{"registration_photo", "stnk", req.RegistrationPhoto, &card.RegistrationPhotoURL},
		{"student_card_photo", "ktm", req.StudentCardPhoto, &card.StudentCardPhotoURL},
		{"vehicle_photo", "motor", req.VehiclePhoto, &card.VehiclePhotoURL},
	}

	var uploaded, replaced []string
	for _, r := range replacements {
		if r.data == "" {
			continue
		}
		link, err := s.uploadImage(ctx, card, r.field, r.kind, r.data)
		if err != nil {
			s.cleanup(ctx, uploaded...)
			return nil, err
		}
		replaced = append(replaced, *r.dst)
		*r.dst = link
		uploaded = append(uploaded, link)
	}

	if len(uploaded) == 0 {
		return nil, domain.NewValidationError("body", "no photos to update")
	}

	if err := s.cardRepo.Update(ctx, card); err != nil {
		s.cleanup(ctx, uploaded...)
		return nil, err
	}

	s.cleanup(ctx, replaced...)

	s.logger.Info("Vehicle card updated", map[string]interface{}{
		"card_id":  card.ID,
		"replaced": len(replaced),
	})

	return card, nil
}

// DeleteCard удаляет карточку, если на нее нет заявок и открытой сессии
func (s *Service) DeleteCard(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	card, err := s.ownedCard(ctx, actor, id)
	if err != nil {
		return err
	}

	referenced, err := s.cardRepo.IsReferenced(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check card references: %w", err)
	}
	if referenced {
		return domain.ErrCardInUse
	}

	if err := s.cardRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cleanup(ctx,
		card.RegistrationPhotoURL,
		card.StudentCardPhotoURL,
		card.VehiclePhotoURL,
		card.QRCodeURL,
	)

	s.logger.Info("Vehicle card deleted", map[string]interface{}{
		"card_id":    id,
		"student_id": card.StudentID,
	})
	return nil
}

// GenerateQR рисует QR код со ссылкой на страницу карточки и сохраняет его в хранилище
func (s *Service) GenerateQR(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.VehicleCard, error) {
	card, err := s.ownedCard(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	png, err := s.qr.PNG(card.QRTarget().URL(s.publicURL))
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}

	path := fmt.Sprintf("qrcodes/card_motor_%s.png", card.ID)
	link, err := s.storage.Upload(ctx, path, "image/png", png)
	if err != nil {
		return nil, fmt.Errorf("failed to upload qr code: %w", err)
	}

	if err := s.cardRepo.SetQRCode(ctx, card.ID, link); err != nil {
		return nil, err
	}
	card.QRCodeURL = link

	s.logger.Info("QR code generated", map[string]interface{}{
		"card_id": card.ID,
	})

	return card, nil
}

// ownedCard загружает карточку и проверяет, что она принадлежит студенту
func (s *Service) ownedCard(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.VehicleCard, error) {
	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(card.StudentID) {
		return nil, domain.ErrForbidden
	}
	return card, nil
}

func (s *Service) uploadImage(ctx context.Context, card *domain.VehicleCard, field, kind, data string) (string, error) {
	img, err := storage.DecodeDataURL(data)
	if err != nil {
		return "", domain.NewValidationError(field, err.Error())
	}

	// Уникальное имя: замена фото не перезаписывает файл, на который еще ссылается карточка
	path := fmt.Sprintf("images/%s/%s_%s_%s.%s",
		card.StudentID, card.ID, kind, uuid.NewString()[:8], img.Extension)

	link, err := s.storage.Upload(ctx, path, img.ContentType, img.Data)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", field, err)
	}
	return link, nil
}

// cleanup удаляет файлы, ошибки только логируются
func (s *Service) cleanup(ctx context.Context, links ...string) {
	for _, link := range links {
		if link == "" {
			continue
		}
		if err := s.storage.Delete(ctx, link); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Warn("Failed to delete stored object", map[string]interface{}{
				"url":   link,
				"error": err.Error(),
			})
		}
	}
}
