package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/usecase/card"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCardHandler_CreateCard(t *testing.T) {
	student := claimsFor(domain.RoleStudent)
	validBody := card.CreateCardRequest{
		RegistrationPhoto: "data:image/png;base64,iVBORw0KGgo=",
		StudentCardPhoto:  "data:image/png;base64,iVBORw0KGgo=",
		VehiclePhoto:      "data:image/png;base64,iVBORw0KGgo=",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockCardService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name:        "карточка создана",
			requestBody: validBody,
			mockSetup: func(m *MockCardService) {
				m.On("CreateCard", mock.Anything, student.Actor(), mock.AnythingOfType("*card.CreateCardRequest")).
					Return(&domain.VehicleCard{
						ID:              uuid.New(),
						StudentID:       student.UserID,
						VehiclePhotoURL: "https://storage.example/vehicle.png",
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, student.UserID.String(), data["student_id"])
				assert.Equal(t, "https://storage.example/vehicle.png", data["vehicle_photo_url"])
			},
		},
		{
			name:        "достигнут лимит карточек",
			requestBody: validBody,
			mockSetup: func(m *MockCardService) {
				m.On("CreateCard", mock.Anything, student.Actor(), mock.AnythingOfType("*card.CreateCardRequest")).
					Return(nil, domain.ErrCardLimitReached)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "нет фото транспорта",
			requestBody: card.CreateCardRequest{
				RegistrationPhoto: "data:image/png;base64,iVBORw0KGgo=",
				StudentCardPhoto:  "data:image/png;base64,iVBORw0KGgo=",
			},
			mockSetup:      func(m *MockCardService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.Equal(t, "vehicle_photo", resp["field"])
			},
		},
		{
			name:        "хранилище недоступно",
			requestBody: validBody,
			mockSetup: func(m *MockCardService) {
				m.On("CreateCard", mock.Anything, student.Actor(), mock.AnythingOfType("*card.CreateCardRequest")).
					Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.Equal(t, "Internal server error", resp["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCardService)
			tt.mockSetup(mockService)
			handler := NewCardHandler(mockService, logger.NewNoop())

			req := newRequest(t, http.MethodPost, "/api/v1/cards", tt.requestBody, student, nil)
			rec := httptest.NewRecorder()

			handler.CreateCard(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, decodeResponse(t, rec))
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestCardHandler_DeleteCard(t *testing.T) {
	student := claimsFor(domain.RoleStudent)
	cardID := uuid.New()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "удалена", err: nil, expectedStatus: http.StatusOK},
		{name: "есть ссылки из сессий или заявок", err: domain.ErrCardInUse, expectedStatus: http.StatusConflict},
		{name: "чужая карточка", err: domain.ErrForbidden, expectedStatus: http.StatusForbidden},
		{name: "не найдена", err: domain.ErrCardNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCardService)
			mockService.On("DeleteCard", mock.Anything, student.Actor(), cardID).Return(tt.err)
			handler := NewCardHandler(mockService, logger.NewNoop())

			req := newRequest(t, http.MethodDelete, "/api/v1/cards/"+cardID.String(), nil, student, map[string]string{"id": cardID.String()})
			rec := httptest.NewRecorder()

			handler.DeleteCard(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestCardHandler_GenerateQR(t *testing.T) {
	student := claimsFor(domain.RoleStudent)
	cardID := uuid.New()

	mockService := new(MockCardService)
	mockService.On("GenerateQR", mock.Anything, student.Actor(), cardID).Return(&domain.VehicleCard{
		ID:        cardID,
		StudentID: student.UserID,
		QRCodeURL: "https://storage.example/qrcodes/card_motor.png",
	}, nil)
	handler := NewCardHandler(mockService, logger.NewNoop())

	req := newRequest(t, http.MethodPost, "/api/v1/cards/"+cardID.String()+"/qr", nil, student, map[string]string{"id": cardID.String()})
	rec := httptest.NewRecorder()

	handler.GenerateQR(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeResponse(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "https://storage.example/qrcodes/card_motor.png", data["qr_code_url"])
	mockService.AssertExpectations(t)
}

func TestCardHandler_GetMyCards(t *testing.T) {
	student := claimsFor(domain.RoleStudent)

	mockService := new(MockCardService)
	mockService.On("ListMyCards", mock.Anything, student.Actor()).Return([]*domain.VehicleCard{
		{ID: uuid.New(), StudentID: student.UserID},
		{ID: uuid.New(), StudentID: student.UserID},
	}, nil)
	handler := NewCardHandler(mockService, logger.NewNoop())

	req := newRequest(t, http.MethodGet, "/api/v1/cards/me", nil, student, nil)
	rec := httptest.NewRecorder()

	handler.GetMyCards(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeResponse(t, rec)["data"].([]interface{}), 2)
	mockService.AssertExpectations(t)
}
