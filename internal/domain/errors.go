package domain

import (
	"errors"
	"fmt"
)

// Доменные ошибки - используются во всех слоях приложения

// ErrValidation - базовая ошибка некорректных входных данных
var ErrValidation = errors.New("validation failed")

// ValidationError уточняет, какое поле не прошло проверку.
// errors.Is(err, ErrValidation) возвращает true для любого ValidationError.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError создает ошибку валидации для поля
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Vehicle card errors
var (
	ErrCardNotFound     = errors.New("vehicle card not found")
	ErrInvalidCardData  = errors.New("invalid vehicle card data")
	ErrCardLimitReached = errors.New("vehicle card limit reached")
	ErrCardInUse        = errors.New("vehicle card is referenced by parking data")
	ErrInvalidQRCode    = errors.New("invalid qr code")
)

// Parking session errors
var (
	ErrSessionNotFound      = errors.New("parking session not found")
	ErrDuplicateOpenSession = errors.New("vehicle card already has an open parking session")
	ErrNoOpenSession        = errors.New("vehicle card has no open parking session")
	ErrAlreadyPaid          = errors.New("parking session already paid")
	ErrSessionStillOpen     = errors.New("parking session is still open")
)

// Overnight request errors
var (
	ErrRequestNotFound       = errors.New("overnight request not found")
	ErrRequestAlreadyDecided = errors.New("overnight request already decided")
	ErrInvalidDecision       = errors.New("invalid overnight decision")
	ErrOverlappingWindow     = errors.New("approved overnight windows overlap")
)

// Tariff errors
var (
	ErrTariffNotFound = errors.New("tariff not found")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)
