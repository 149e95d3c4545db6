package domain

import "time"

// DailyCount - количество въездов и выездов за один день месяца
type DailyCount struct {
	Day     int `json:"day"`
	Entries int `json:"entries"`
	Exits   int `json:"exits"`
}

// MonthlyStats - сводка для панели администратора
type MonthlyStats struct {
	Year         int          `json:"year"`
	Month        time.Month   `json:"month"`
	Days         []DailyCount `json:"days"`
	TotalEntries int          `json:"total_entries"`
	Students     int          `json:"students"`
	Officers     int          `json:"officers"`
}

// MonthRange возвращает границы месяца [from, to) в заданной зоне
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

// BucketByDay раскладывает сессии по дням месяца.
// Въезд учитывается в день въезда, выезд - в день выезда; события вне месяца пропускаются.
func BucketByDay(year int, month time.Month, loc *time.Location, sessions []*ParkingSession) []DailyCount {
	from, to := MonthRange(year, month, loc)
	daysInMonth := to.AddDate(0, 0, -1).Day()

	days := make([]DailyCount, daysInMonth)
	for i := range days {
		days[i].Day = i + 1
	}

	inMonth := func(t time.Time) bool {
		return !t.Before(from) && t.Before(to)
	}

	for _, s := range sessions {
		if entry := s.EntryAt.In(loc); inMonth(entry) {
			days[entry.Day()-1].Entries++
		}
		if s.ExitAt != nil {
			if exit := s.ExitAt.In(loc); inMonth(exit) {
				days[exit.Day()-1].Exits++
			}
		}
	}

	return days
}
