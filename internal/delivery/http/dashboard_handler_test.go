package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDashboardHandler_Monthly(t *testing.T) {
	admin := claimsFor(domain.RoleAdmin)

	tests := []struct {
		name           string
		query          string
		mockSetup      func(*MockDashboardService)
		expectedStatus int
	}{
		{
			name:  "явный месяц",
			query: "?year=2024&month=2",
			mockSetup: func(m *MockDashboardService) {
				m.On("MonthlyStats", mock.Anything, 2024, time.February).
					Return(&domain.MonthlyStats{Year: 2024, Month: time.February, Days: make([]domain.DailyCount, 29)}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "текущий месяц по умолчанию",
			query: "",
			mockSetup: func(m *MockDashboardService) {
				m.On("MonthlyStats", mock.Anything, 2024, time.May).
					Return(&domain.MonthlyStats{Year: 2024, Month: time.May}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "месяц вне диапазона",
			query:          "?year=2024&month=13",
			mockSetup:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "год не число",
			query:          "?year=abc",
			mockSetup:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDashboardService)
			tt.mockSetup(mockService)
			handler := NewDashboardHandler(mockService, logger.NewNoop())
			handler.now = func() time.Time { return time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC) }

			req := newRequest(t, http.MethodGet, "/api/v1/dashboard/monthly"+tt.query, nil, admin, nil)
			rec := httptest.NewRecorder()

			handler.Monthly(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}
