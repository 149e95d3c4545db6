package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestStatus - статус заявки на ночную парковку
type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
)

// OvernightWindow - интервал [Start, End], в который разрешен въезд на ночную парковку
type OvernightWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains проверяет, попадает ли момент в окно (границы включены)
func (w OvernightWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Overlaps проверяет пересечение двух окон (границы включены)
func (w OvernightWindow) Overlaps(o OvernightWindow) bool {
	return !w.End.Before(o.Start) && !o.End.Before(w.Start)
}

// Validate проверяет, что окно не пустое и не перевернуто
func (w OvernightWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return NewValidationError("window", "start and end are required")
	}
	if w.End.Before(w.Start) {
		return NewValidationError("window", "end is before start")
	}
	return nil
}

// OvernightRequest - заявка студента на ночную парковку (parkir inap)
// Решение принимает администратор ровно один раз
type OvernightRequest struct {
	ID            uuid.UUID     `json:"id"`
	StudentID     uuid.UUID     `json:"student_id"`
	VehicleCardID uuid.UUID     `json:"vehicle_card_id"`
	WindowStart   time.Time     `json:"window_start"`
	WindowEnd     time.Time     `json:"window_end"`
	Justification string        `json:"justification"`
	Status        RequestStatus `json:"status"`
	DecidedBy     *uuid.UUID    `json:"decided_by,omitempty"`
	DecidedAt     *time.Time    `json:"decided_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Window возвращает окно заявки
func (r *OvernightRequest) Window() OvernightWindow {
	return OvernightWindow{Start: r.WindowStart, End: r.WindowEnd}
}

// IsDecided проверяет, что решение по заявке уже принято
func (r *OvernightRequest) IsDecided() bool {
	return r.Status != RequestPending
}

// Decide фиксирует решение администратора. Переход Pending -> Approved|Rejected терминальный
func (r *OvernightRequest) Decide(status RequestStatus, by uuid.UUID, at time.Time) error {
	if status != RequestApproved && status != RequestRejected {
		return ErrInvalidDecision
	}
	if r.IsDecided() {
		return ErrRequestAlreadyDecided
	}
	r.Status = status
	r.DecidedBy = &by
	r.DecidedAt = &at
	return nil
}

// Validate проверяет корректность заявки
func (r *OvernightRequest) Validate() error {
	if r.StudentID == uuid.Nil || r.VehicleCardID == uuid.Nil {
		return NewValidationError("vehicle_card_id", "is required")
	}
	if err := r.Window().Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Justification) == "" {
		return NewValidationError("justification", "is required")
	}
	return nil
}

// ApprovedWindows выбирает окна одобренных заявок
func ApprovedWindows(requests []*OvernightRequest) []OvernightWindow {
	windows := make([]OvernightWindow, 0, len(requests))
	for _, r := range requests {
		if r.Status == RequestApproved {
			windows = append(windows, r.Window())
		}
	}
	return windows
}

// RequestFilter - фильтр списка заявок
type RequestFilter struct {
	StudentID *uuid.UUID
	Status    RequestStatus // Пусто - любой статус
	Limit     int
	Offset    int
}
