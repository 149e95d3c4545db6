package repository

import (
	"context"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/google/uuid"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update обновляет данные пользователя
	Update(ctx context.Context, user *domain.User) error

	// Delete удаляет пользователя (мягкое удаление - is_active = false)
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает пользователей роли role (пустая роль - все) с пагинацией
	List(ctx context.Context, role domain.UserRole, limit, offset int) ([]*domain.User, error)

	// CountByRole возвращает число активных пользователей роли
	CountByRole(ctx context.Context, role domain.UserRole) (int, error)

	// UpdateLastLogin обновляет время последнего входа
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// RefreshTokenRepository хранит хеши refresh токенов
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// VehicleCardRepository определяет методы для работы с карточками мотоциклов
type VehicleCardRepository interface {
	// Create создает карточку, если у студента их меньше limit. Иначе ErrCardLimitReached
	Create(ctx context.Context, card *domain.VehicleCard, limit int) error

	// GetByID возвращает карточку по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VehicleCard, error)

	// ListByStudent возвращает карточки студента
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.VehicleCard, error)

	// CountByStudent возвращает число карточек студента
	CountByStudent(ctx context.Context, studentID uuid.UUID) (int, error)

	// Update обновляет фотографии документов
	Update(ctx context.Context, card *domain.VehicleCard) error

	// SetQRCode сохраняет ссылку на изображение QR кода
	SetQRCode(ctx context.Context, id uuid.UUID, url string) error

	// IsReferenced проверяет наличие заявок на ночную парковку или открытой сессии
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete удаляет карточку
	Delete(ctx context.Context, id uuid.UUID) error
}

// ParkingSessionRepository определяет методы для работы с сессиями парковки
type ParkingSessionRepository interface {
	// Create открывает сессию. Вторая открытая сессия карточки - ErrDuplicateOpenSession
	Create(ctx context.Context, session *domain.ParkingSession) error

	// GetByID возвращает сессию по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSession, error)

	// GetOpenByCard возвращает открытую сессию карточки. Нет такой - ErrNoOpenSession
	GetOpenByCard(ctx context.Context, cardID uuid.UUID) (*domain.ParkingSession, error)

	// Close одним UPDATE ставит время выхода, статус и сумму, если сессия еще открыта.
	// Сессию уже закрыли - ErrNoOpenSession
	Close(ctx context.Context, session *domain.ParkingSession) error

	// MarkPaid переводит закрытую неоплаченную сессию в Paid.
	// false - сессия уже не в состоянии Closed/Unpaid
	MarkPaid(ctx context.Context, session *domain.ParkingSession) (bool, error)

	// List возвращает сессии по фильтру, новые первыми
	List(ctx context.Context, filter domain.SessionFilter) ([]*domain.ParkingSession, error)

	// LatestClosed возвращает последнюю закрытую сессию карточки
	LatestClosed(ctx context.Context, cardID uuid.UUID) (*domain.ParkingSession, error)

	// ListActiveBetween возвращает сессии с въездом или выездом в интервале [from, to)
	ListActiveBetween(ctx context.Context, from, to time.Time) ([]*domain.ParkingSession, error)
}

// OvernightRequestRepository определяет методы для работы с заявками на ночную парковку
type OvernightRequestRepository interface {
	// Create сохраняет заявку
	Create(ctx context.Context, req *domain.OvernightRequest) error

	// GetByID возвращает заявку по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.OvernightRequest, error)

	// List возвращает заявки по фильтру
	List(ctx context.Context, filter domain.RequestFilter) ([]*domain.OvernightRequest, error)

	// ApprovedByCard возвращает одобренные заявки карточки
	ApprovedByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.OvernightRequest, error)

	// SaveDecision сохраняет решение по заявке, которая еще в Pending.
	// Одобрение, пересекающееся с другим одобренным окном карточки - ErrOverlappingWindow
	SaveDecision(ctx context.Context, req *domain.OvernightRequest) error
}

// TariffRepository определяет методы для работы с тарифом
type TariffRepository interface {
	// Get возвращает текущий тариф
	Get(ctx context.Context) (*domain.Tariff, error)

	// Update сохраняет новый тариф
	Update(ctx context.Context, tariff *domain.Tariff) error
}
