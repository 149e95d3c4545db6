package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOvernightRequest_Decide(t *testing.T) {
	admin := uuid.New()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	req := &OvernightRequest{Status: RequestPending}

	assert.ErrorIs(t, req.Decide(RequestPending, admin, now), ErrInvalidDecision)
	assert.NoError(t, req.Decide(RequestApproved, admin, now))
	assert.Equal(t, RequestApproved, req.Status)
	assert.Equal(t, admin, *req.DecidedBy)

	// Решение терминально
	assert.ErrorIs(t, req.Decide(RequestRejected, admin, now), ErrRequestAlreadyDecided)
	assert.Equal(t, RequestApproved, req.Status)
}

func TestOvernightWindow_Overlaps(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := OvernightWindow{Start: base, End: base.Add(48 * time.Hour)}

	assert.True(t, a.Overlaps(OvernightWindow{Start: base.Add(24 * time.Hour), End: base.Add(72 * time.Hour)}))
	assert.True(t, a.Overlaps(OvernightWindow{Start: base.Add(48 * time.Hour), End: base.Add(72 * time.Hour)}))
	assert.False(t, a.Overlaps(OvernightWindow{Start: base.Add(49 * time.Hour), End: base.Add(72 * time.Hour)}))
}

func TestApprovedWindows(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	requests := []*OvernightRequest{
		{Status: RequestApproved, WindowStart: base, WindowEnd: base.Add(time.Hour)},
		{Status: RequestPending, WindowStart: base, WindowEnd: base.Add(2 * time.Hour)},
		{Status: RequestRejected, WindowStart: base, WindowEnd: base.Add(3 * time.Hour)},
	}

	windows := ApprovedWindows(requests)
	assert.Len(t, windows, 1)
	assert.Equal(t, base.Add(time.Hour), windows[0].End)
}
