package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/frontandrew/parkir/internal/delivery/http/middleware"
	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Максимальный размер тела запроса: три фото документов в base64
const maxBodyBytes = 16 << 20

// respondJSON отправляет JSON ответ
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondSuccess оборачивает данные в {"success":true,"data":...}
func respondSuccess(w http.ResponseWriter, code int, data interface{}) {
	respondJSON(w, code, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// respondError отправляет JSON ответ с ошибкой
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// errorStatus сопоставляет доменные ошибки с HTTP статусами
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidUserData),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidCardData),
		errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrInvalidQRCode):
		return http.StatusUnprocessableEntity, "Invalid QR code"

	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"

	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "User account is inactive"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Insufficient permissions"

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrTariffNotFound),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrCardLimitReached),
		errors.Is(err, domain.ErrCardInUse),
		errors.Is(err, domain.ErrDuplicateOpenSession),
		errors.Is(err, domain.ErrNoOpenSession),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrSessionStillOpen),
		errors.Is(err, domain.ErrRequestAlreadyDecided),
		errors.Is(err, domain.ErrOverlappingWindow),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	}

	return http.StatusInternalServerError, "Internal server error"
}

// handleError отвечает статусом по доменной ошибке, 5xx пишет в лог
func handleError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	code, message := errorStatus(err)
	if code >= http.StatusInternalServerError {
		log.Error("Request failed", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"error":  err.Error(),
		})
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		respondJSON(w, code, map[string]interface{}{
			"success": false,
			"error":   message,
			"field":   ve.Field,
		})
		return
	}

	respondError(w, code, message)
}

// decodeJSON читает тело запроса и проверяет теги validate
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("body", "invalid JSON")
	}
	return validate.Struct(dst)
}

// actorFrom возвращает участника запроса из контекста (добавлен AuthMiddleware)
func actorFrom(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return actor, ok
}

// uuidParam читает UUID из параметра пути chi
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "must be a valid UUID")
	}
	return id, nil
}

// pageParams читает limit и offset из query
func pageParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return domain.NormalizePage(limit, offset)
}
