package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/usecase/overnight"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOvernightHandler_Submit(t *testing.T) {
	student := claimsFor(domain.RoleStudent)
	cardID := uuid.New()
	start := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockOvernightService)
		expectedStatus int
	}{
		{
			name: "заявка подана",
			requestBody: overnight.SubmitRequest{
				VehicleCardID: cardID,
				WindowStart:   start,
				WindowEnd:     start.Add(14 * time.Hour),
				Justification: "Лабораторная работа до утра",
			},
			mockSetup: func(m *MockOvernightService) {
				m.On("Submit", mock.Anything, student.Actor(), mock.AnythingOfType("*overnight.SubmitRequest")).
					Return(&domain.OvernightRequest{
						ID:            uuid.New(),
						StudentID:     student.UserID,
						VehicleCardID: cardID,
						WindowStart:   start,
						WindowEnd:     start.Add(14 * time.Hour),
						Status:        domain.RequestPending,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "без обоснования",
			requestBody: overnight.SubmitRequest{
				VehicleCardID: cardID,
				WindowStart:   start,
				WindowEnd:     start.Add(14 * time.Hour),
			},
			mockSetup:      func(m *MockOvernightService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "перевернутое окно",
			requestBody: overnight.SubmitRequest{
				VehicleCardID: cardID,
				WindowStart:   start,
				WindowEnd:     start.Add(-time.Hour),
				Justification: "ошибка",
			},
			mockSetup: func(m *MockOvernightService) {
				m.On("Submit", mock.Anything, student.Actor(), mock.AnythingOfType("*overnight.SubmitRequest")).
					Return(nil, domain.NewValidationError("window", "end is before start"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOvernightService)
			tt.mockSetup(mockService)
			handler := NewOvernightHandler(mockService, logger.NewNoop())

			req := newRequest(t, http.MethodPost, "/api/v1/overnight", tt.requestBody, student, nil)
			rec := httptest.NewRecorder()

			handler.Submit(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestOvernightHandler_Decide(t *testing.T) {
	admin := claimsFor(domain.RoleAdmin)
	requestID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockOvernightService)
		expectedStatus int
	}{
		{
			name:        "одобрена",
			requestBody: overnight.DecisionRequest{Decision: domain.RequestApproved},
			mockSetup: func(m *MockOvernightService) {
				m.On("Decide", mock.Anything, admin.Actor(), requestID, &overnight.DecisionRequest{Decision: domain.RequestApproved}).
					Return(&domain.OvernightRequest{ID: requestID, Status: domain.RequestApproved, DecidedBy: &admin.UserID}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "решение уже принято",
			requestBody: overnight.DecisionRequest{Decision: domain.RequestRejected},
			mockSetup: func(m *MockOvernightService) {
				m.On("Decide", mock.Anything, admin.Actor(), requestID, mock.Anything).
					Return(nil, domain.ErrRequestAlreadyDecided)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:        "пересечение с одобренным окном",
			requestBody: overnight.DecisionRequest{Decision: domain.RequestApproved},
			mockSetup: func(m *MockOvernightService) {
				m.On("Decide", mock.Anything, admin.Actor(), requestID, mock.Anything).
					Return(nil, domain.ErrOverlappingWindow)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "решение Pending недопустимо",
			requestBody:    overnight.DecisionRequest{Decision: domain.RequestPending},
			mockSetup:      func(m *MockOvernightService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOvernightService)
			tt.mockSetup(mockService)
			handler := NewOvernightHandler(mockService, logger.NewNoop())

			req := newRequest(t, http.MethodPost, "/api/v1/overnight/"+requestID.String()+"/decision", tt.requestBody, admin,
				map[string]string{"id": requestID.String()})
			rec := httptest.NewRecorder()

			handler.Decide(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestOvernightHandler_List(t *testing.T) {
	admin := claimsFor(domain.RoleAdmin)

	mockService := new(MockOvernightService)
	mockService.On("List", mock.Anything, admin.Actor(), domain.RequestFilter{
		Status: domain.RequestPending,
		Limit:  domain.DefaultPageSize,
	}).Return([]*domain.OvernightRequest{{ID: uuid.New(), Status: domain.RequestPending}}, nil)
	handler := NewOvernightHandler(mockService, logger.NewNoop())

	req := newRequest(t, http.MethodGet, "/api/v1/overnight?status=Pending", nil, admin, nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeResponse(t, rec)["data"].([]interface{}), 1)
	mockService.AssertExpectations(t)
}
