package handler

import (
	"net/http"
	"time"

	"github.com/aidar/sponsortrack/internal/connectivity"
)

// StatusProvider сообщает текущее состояние подключения к БД
type StatusProvider interface {
	Status() connectivity.Status
}

// HealthHandler обрабатывает health check
type HealthHandler struct {
	conn StatusProvider
}

// NewHealthHandler создает новый HealthHandler
func NewHealthHandler(conn StatusProvider) *HealthHandler {
	return &HealthHandler{conn: conn}
}

// HealthResponse ответ health check. Сервис отвечает ok и без основной БД.
type HealthResponse struct {
	Status    string             `json:"status"`
	Connected bool               `json:"connected"`
	State     connectivity.State `json:"state"`
	Source    string             `json:"source"`
	LastError string             `json:"lastError,omitempty"`
	CheckedAt *time.Time         `json:"checkedAt,omitempty"`
}

// Health обрабатывает GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.conn.Status()

	RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "ok",
		Connected: status.Connected,
		State:     status.State,
		Source:    status.Source,
		LastError: status.LastError,
		CheckedAt: status.CheckedAt,
	})
}
