package domain

import (
	"errors"
	"strings"
)

// Доменные ошибки
var (
	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrSponsorNotFound возвращается когда спонсор не найден
	ErrSponsorNotFound = errors.New("sponsor not found")

	// ErrTeamNotFound возвращается когда команда не найдена
	ErrTeamNotFound = errors.New("team not found")

	// ErrValidation возвращается при невалидных входных данных
	ErrValidation = errors.New("validation failed")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeBadRequest ErrorCode = "BAD_REQUEST"      // Некорректное тело запроса
	CodeValidation ErrorCode = "VALIDATION_ERROR" // Не заполнены обязательные поля
	CodeNotFound   ErrorCode = "NOT_FOUND"        // Ресурс не найден
	CodeInternal   ErrorCode = "INTERNAL_ERROR"   // Непредвиденная ошибка
)

// FieldError описывает ошибку конкретного поля
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError содержит все ошибки полей одной операции
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError создает ошибку валидации, nil если ошибок полей нет
func NewValidationError(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSponsorNotFound),
		errors.Is(err, ErrTeamNotFound):
		return CodeNotFound
	default:
		return CodeInternal
	}
}
