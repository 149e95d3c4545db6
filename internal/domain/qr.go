package domain

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	qrStudentSegment = "list-card-motor"
	qrCardSegment    = "detail-card-motor"
)

// QRTarget - содержимое QR-кода карточки: студент и карточка
type QRTarget struct {
	StudentID uuid.UUID
	CardID    uuid.UUID
}

// URL формирует адрес страницы карточки, который кодируется в QR:
// {base}/list-card-motor/{studentID}/detail-card-motor/{cardID}
func (t QRTarget) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") +
		"/" + qrStudentSegment + "/" + t.StudentID.String() +
		"/" + qrCardSegment + "/" + t.CardID.String()
}

// ParseQRTarget разбирает отсканированный текст (полный URL или только путь)
func ParseQRTarget(text string) (QRTarget, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return QRTarget{}, ErrInvalidQRCode
	}

	u, err := url.Parse(text)
	if err != nil {
		return QRTarget{}, ErrInvalidQRCode
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != qrStudentSegment || parts[2] != qrCardSegment {
		return QRTarget{}, ErrInvalidQRCode
	}

	studentID, err := uuid.Parse(parts[1])
	if err != nil {
		return QRTarget{}, ErrInvalidQRCode
	}
	cardID, err := uuid.Parse(parts[3])
	if err != nil {
		return QRTarget{}, ErrInvalidQRCode
	}

	return QRTarget{StudentID: studentID, CardID: cardID}, nil
}
