package handler

import (
	"errors"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/aidar/sponsortrack/internal/domain"
)

// ErrorResponse тело ответа с ошибкой. message дублирует error.message
// для клиентов, которые показывают только верхнее поле.
type ErrorResponse struct {
	Message string      `json:"message"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail содержит код, описание и ошибки полей
type ErrorDetail struct {
	Code    domain.ErrorCode    `json:"code"`
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code domain.ErrorCode, message string, details ...domain.FieldError) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Message: message,
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError

	switch code := domain.MapErrorToCode(err); {
	case errors.As(err, &verr):
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeValidation, verr.Error(), verr.Fields...)
	case code == domain.CodeValidation:
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeValidation, err.Error())
	case code == domain.CodeNotFound:
		RespondWithError(w, r, http.StatusNotFound, domain.CodeNotFound, err.Error())
	default:
		// Детали внутренних ошибок только в лог
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		RespondWithError(w, r, http.StatusInternalServerError, domain.CodeInternal, "internal server error")
	}
}

// RespondBadRequest отправляет 400 для тела, которое не удалось разобрать
func RespondBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, message)
}
