package domain

import (
	"time"

	"github.com/google/uuid"
)

// ParkingStatus - классификация парковочной сессии
type ParkingStatus string

const (
	StatusRegular   ParkingStatus = "Regular"   // Обычная дневная парковка
	StatusOvernight ParkingStatus = "Overnight" // Въезд внутри одобренного окна parkir inap
)

// PaymentState - состояние оплаты сессии
type PaymentState string

const (
	PaymentUnpaid PaymentState = "Unpaid"
	PaymentPaid   PaymentState = "Paid"
)

// SessionState - состояние сессии в конечном автомате
// Open -> ClosedUnpaid -> ClosedPaid, обратных переходов нет
type SessionState string

const (
	SessionOpen         SessionState = "Open"
	SessionClosedUnpaid SessionState = "Closed/Unpaid"
	SessionClosedPaid   SessionState = "Closed/Paid"
)

// ParkingSession - один физический визит на парковку (от скана входа до скана выхода)
type ParkingSession struct {
	ID            uuid.UUID     `json:"id"`
	VehicleCardID uuid.UUID     `json:"vehicle_card_id"`
	EntryAt       time.Time     `json:"entry_at"`          // Ставится при скане входа, не меняется
	ExitAt        *time.Time    `json:"exit_at,omitempty"` // NULL до скана выхода, ставится один раз
	Status        ParkingStatus `json:"status"`
	Fee           int64         `json:"fee"`
	PaymentState  PaymentState  `json:"payment_state"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	ScannedInBy   *uuid.UUID    `json:"scanned_in_by,omitempty"`
	ScannedOutBy  *uuid.UUID    `json:"scanned_out_by,omitempty"`
	PaidBy        *uuid.UUID    `json:"paid_by,omitempty"`

	// Связанные данные (заполняются при необходимости)
	VehicleCard *VehicleCard `json:"vehicle_card,omitempty"`
}

// IsOpen проверяет, что выход еще не отсканирован
func (s *ParkingSession) IsOpen() bool {
	return s.ExitAt == nil
}

// IsPaid проверяет, оплачена ли сессия
func (s *ParkingSession) IsPaid() bool {
	return s.PaymentState == PaymentPaid
}

// State возвращает текущее состояние сессии
func (s *ParkingSession) State() SessionState {
	switch {
	case s.IsOpen():
		return SessionOpen
	case s.IsPaid():
		return SessionClosedPaid
	default:
		return SessionClosedUnpaid
	}
}

// CheckPayable проверяет, можно ли принять оплату за сессию
func (s *ParkingSession) CheckPayable() error {
	if s.IsOpen() {
		return ErrSessionStillOpen
	}
	if s.IsPaid() {
		return ErrAlreadyPaid
	}
	return nil
}

// SessionFilter - фильтр для истории парковок
type SessionFilter struct {
	State     SessionState // Пусто - все сессии
	CardID    *uuid.UUID
	StudentID *uuid.UUID // Только сессии карточек этого студента
	Limit     int
	Offset    int
}
