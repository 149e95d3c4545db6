package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxCardsPerStudent - сколько карточек транспорта может завести один студент
const MaxCardsPerStudent = 3

// VehicleCard - карточка транспортного средства студента
// Содержит три обязательных документа и QR-код, который сканирует петугас
type VehicleCard struct {
	ID                   uuid.UUID `json:"id"`
	StudentID            uuid.UUID `json:"student_id"`             // Владелец карточки (User с ролью student)
	RegistrationPhotoURL string    `json:"registration_photo_url"` // Фото STNK
	StudentCardPhotoURL  string    `json:"student_card_photo_url"` // Фото KTM
	VehiclePhotoURL      string    `json:"vehicle_photo_url"`
	QRCodeURL            string    `json:"qr_code_url,omitempty"` // Пусто, пока QR не сгенерирован
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	// Связанные данные (не хранятся в таблице карточек)
	Student *User `json:"student,omitempty"`
}

// HasQRCode проверяет, сгенерирован ли QR-код
func (c *VehicleCard) HasQRCode() bool {
	return c.QRCodeURL != ""
}

// Validate проверяет корректность данных карточки
func (c *VehicleCard) Validate() error {
	if c.StudentID == uuid.Nil {
		return ErrInvalidCardData
	}
	if strings.TrimSpace(c.RegistrationPhotoURL) == "" ||
		strings.TrimSpace(c.StudentCardPhotoURL) == "" ||
		strings.TrimSpace(c.VehiclePhotoURL) == "" {
		return ErrInvalidCardData
	}
	return nil
}

// QRTarget возвращает пару идентификаторов, закодированных в QR-коде карточки
func (c *VehicleCard) QRTarget() QRTarget {
	return QRTarget{StudentID: c.StudentID, CardID: c.ID}
}
