package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_MonthlyStats(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("WIB", 7*60*60)

	sessions := new(mocks.ParkingSessionRepository)
	users := new(mocks.UserRepository)

	exit := time.Date(2024, time.February, 3, 9, 0, 0, 0, loc)
	sessions.On("ListActiveBetween", ctx,
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, loc)) }),
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, loc)) }),
	).Return([]*domain.ParkingSession{
		{EntryAt: time.Date(2024, time.February, 2, 7, 0, 0, 0, loc), ExitAt: &exit},
		{EntryAt: time.Date(2024, time.February, 29, 23, 0, 0, 0, loc)},
		// Въезд в январе, выезд в феврале: считается только выезд
		{EntryAt: time.Date(2024, time.January, 31, 20, 0, 0, 0, loc), ExitAt: &exit},
	}, nil)
	users.On("CountByRole", ctx, domain.RoleStudent).Return(120, nil)
	users.On("CountByRole", ctx, domain.RoleOfficer).Return(4, nil)

	stats, err := NewService(sessions, users, loc, logger.NewNoop()).MonthlyStats(ctx, 2024, time.February)

	require.NoError(t, err)
	require.Len(t, stats.Days, 29)
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.Days[1].Entries)
	assert.Equal(t, 2, stats.Days[2].Exits)
	assert.Equal(t, 1, stats.Days[28].Entries)
	assert.Equal(t, 120, stats.Students)
	assert.Equal(t, 4, stats.Officers)
}

func TestService_MonthlyStats_InvalidMonth(t *testing.T) {
	svc := NewService(new(mocks.ParkingSessionRepository), new(mocks.UserRepository), time.UTC, logger.NewNoop())

	_, err := svc.MonthlyStats(context.Background(), 2024, time.Month(13))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
