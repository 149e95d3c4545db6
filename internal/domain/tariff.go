package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tariff - единственная запись с текущими ценами (в целых единицах валюты)
type Tariff struct {
	RegularFee   int64      `json:"regular_fee"`   // Обычная парковка
	OvernightFee int64      `json:"overnight_fee"` // Одобренная ночная парковка (parkir inap)
	PenaltyFee   int64      `json:"penalty_fee"`   // Штраф за превышение времени
	UpdatedAt    time.Time  `json:"updated_at"`
	UpdatedBy    *uuid.UUID `json:"updated_by,omitempty"`
}

// Validate проверяет, что цены неотрицательны
func (t *Tariff) Validate() error {
	if t.RegularFee < 0 {
		return NewValidationError("regular_fee", "must not be negative")
	}
	if t.OvernightFee < 0 {
		return NewValidationError("overnight_fee", "must not be negative")
	}
	if t.PenaltyFee < 0 {
		return NewValidationError("penalty_fee", "must not be negative")
	}
	return nil
}
