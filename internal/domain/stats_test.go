package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketByDay(t *testing.T) {
	loc := time.UTC
	day := func(d, h int) time.Time {
		return time.Date(2024, time.February, d, h, 0, 0, 0, loc)
	}
	nextMonth := time.Date(2024, time.March, 1, 2, 0, 0, 0, loc)

	sessions := []*ParkingSession{
		{EntryAt: day(1, 8), ExitAt: timePtr(day(1, 10))},
		{EntryAt: day(1, 9), ExitAt: timePtr(day(2, 9))},
		{EntryAt: day(29, 20), ExitAt: &nextMonth},
		{EntryAt: day(15, 7)},
	}

	days := BucketByDay(2024, time.February, loc, sessions)

	assert.Len(t, days, 29) // 2024 - високосный год
	assert.Equal(t, DailyCount{Day: 1, Entries: 2, Exits: 1}, days[0])
	assert.Equal(t, DailyCount{Day: 2, Entries: 0, Exits: 1}, days[1])
	assert.Equal(t, DailyCount{Day: 15, Entries: 1, Exits: 0}, days[14])
	assert.Equal(t, DailyCount{Day: 29, Entries: 1, Exits: 0}, days[28])
}
