package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/sponsortrack/internal/domain"
)

// maxBodyBytes ограничивает тело запроса; массовый импорт самый крупный
const maxBodyBytes = 10 << 20

// MessageResponse простой ответ с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondWithJSON отправляет JSON ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

// decodeJSON читает тело запроса в v. При ошибке ответ 400 уже отправлен.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			RespondWithError(w, r, http.StatusRequestEntityTooLarge, domain.CodeBadRequest, "request body too large")
		case errors.Is(err, io.EOF):
			RespondBadRequest(w, r, "request body is empty")
		default:
			RespondBadRequest(w, r, "invalid request body")
		}
		return false
	}
	return true
}
