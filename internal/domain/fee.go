package domain

import (
	"sort"
	"time"
)

// MaxRegularDuration - дольше этого обычная парковка считается превышением и штрафуется
const MaxRegularDuration = 24 * time.Hour

// ResolveInput - данные для определения статуса и стоимости парковки
type ResolveInput struct {
	Entry           time.Time
	Exit            *time.Time        // nil - предварительный расчет для открытой сессии
	ApprovedWindows []OvernightWindow // Окна только одобренных заявок по этой карточке
	Tariff          Tariff
	ReferenceNow    time.Time // Нулевое значение - текущее время
}

// Resolution - результат расчета
type Resolution struct {
	Status        ParkingStatus    `json:"status"`
	Fee           int64            `json:"fee"`
	Penalized     bool             `json:"penalized"`
	Provisional   bool             `json:"provisional"` // true, если выход еще не отсканирован
	DurationHours *float64         `json:"duration_hours,omitempty"`
	Matched       *OvernightWindow `json:"matched_window,omitempty"`
}

// Resolve определяет статус (Regular/Overnight) и стоимость парковки.
// Функция чистая: одинаковые входные данные дают одинаковый результат.
//
// Overnight, если въезд попал в одно из одобренных окон (первое по началу окна).
// Overnight стоит OvernightFee, либо PenaltyFee, если ReferenceNow уже после конца окна.
// Regular стоит RegularFee, либо PenaltyFee, если длительность больше 24 часов.
func Resolve(in ResolveInput) (*Resolution, error) {
	if in.Entry.IsZero() {
		return nil, NewValidationError("entry", "is required")
	}
	if in.Exit != nil && in.Exit.Before(in.Entry) {
		return nil, NewValidationError("exit", "is before entry")
	}
	if err := in.Tariff.Validate(); err != nil {
		return nil, err
	}
	for _, w := range in.ApprovedWindows {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}

	now := in.ReferenceNow
	if now.IsZero() {
		now = time.Now()
	}

	res := &Resolution{Provisional: in.Exit == nil}

	var duration time.Duration
	if in.Exit != nil {
		duration = in.Exit.Sub(in.Entry)
		hours := duration.Hours()
		res.DurationHours = &hours
	}

	if w, ok := matchWindow(in.ApprovedWindows, in.Entry); ok {
		res.Status = StatusOvernight
		res.Matched = &w
		res.Fee = in.Tariff.OvernightFee
		if now.After(w.End) {
			res.Fee = in.Tariff.PenaltyFee
			res.Penalized = true
		}
		return res, nil
	}

	res.Status = StatusRegular
	res.Fee = in.Tariff.RegularFee
	if in.Exit != nil && duration > MaxRegularDuration {
		res.Fee = in.Tariff.PenaltyFee
		res.Penalized = true
	}

	return res, nil
}

// matchWindow ищет первое по времени начала окно, содержащее момент въезда
func matchWindow(windows []OvernightWindow, entry time.Time) (OvernightWindow, bool) {
	sorted := make([]OvernightWindow, len(windows))
	copy(sorted, windows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	for _, w := range sorted {
		if w.Contains(entry) {
			return w, true
		}
	}
	return OvernightWindow{}, false
}
