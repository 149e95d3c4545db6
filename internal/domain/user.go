package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole представляет роль пользователя в системе
type UserRole string

const (
	RoleAdmin   UserRole = "admin"   // Супер-администратор
	RoleOfficer UserRole = "officer" // Петугас: сканирует QR и принимает оплату
	RoleStudent UserRole = "student" // Студент: владелец карточек транспорта
)

// Capability - право на выполнение конкретной операции.
// Роли проверяются только через набор прав, а не через сравнение ролей в каждом обработчике.
type Capability string

const (
	CapManageUsers      Capability = "manage_users"
	CapManageTariff     Capability = "manage_tariff"
	CapApproveOvernight Capability = "approve_overnight"
	CapViewHistory      Capability = "view_history"
	CapViewDashboard    Capability = "view_dashboard"
	CapViewTariff       Capability = "view_tariff"
	CapScanVehicles     Capability = "scan_vehicles"
	CapConfirmPayment   Capability = "confirm_payment"
	CapViewCards        Capability = "view_cards"
	CapManageOwnCards   Capability = "manage_own_cards"
	CapRequestOvernight Capability = "request_overnight"
	CapViewOwnHistory   Capability = "view_own_history"
)

var roleCapabilities = map[UserRole][]Capability{
	RoleAdmin: {
		CapManageUsers,
		CapManageTariff,
		CapApproveOvernight,
		CapViewHistory,
		CapViewDashboard,
		CapViewTariff,
	},
	RoleOfficer: {
		CapScanVehicles,
		CapConfirmPayment,
		CapViewHistory,
		CapViewTariff,
		CapViewCards,
	},
	RoleStudent: {
		CapManageOwnCards,
		CapRequestOvernight,
		CapViewTariff,
		CapViewOwnHistory,
	},
}

// Can проверяет, есть ли у роли указанное право
func (r UserRole) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// IsValid проверяет, что роль известна системе
func (r UserRole) IsValid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// User - учетная запись (администратор, петугас или студент)
type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"` // Никогда не возвращаем в JSON
	FullName      string     `json:"full_name"`
	StudentNumber string     `json:"student_number,omitempty"` // NIM, только для студентов
	PhotoURL      string     `json:"photo_url,omitempty"`
	Role          UserRole   `json:"role"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// IsStudent проверяет, является ли пользователь студентом
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// Validate проверяет корректность данных пользователя
func (u *User) Validate() error {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(u.FullName) == "" {
		return ErrInvalidUserData
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}
	// NIM обязателен только для студентов
	if u.Role == RoleStudent && strings.TrimSpace(u.StudentNumber) == "" {
		return ErrInvalidUserData
	}
	return nil
}

// Actor - аутентифицированный пользователь, от имени которого выполняется операция.
// Передается явно в каждый use case вместо глобального состояния сессии.
type Actor struct {
	UserID uuid.UUID
	Role   UserRole
}

// Can проверяет право актора
func (a Actor) Can(c Capability) bool {
	return a.Role.Can(c)
}

// Owns проверяет, что ресурс принадлежит актору
func (a Actor) Owns(ownerID uuid.UUID) bool {
	return a.UserID == ownerID
}
