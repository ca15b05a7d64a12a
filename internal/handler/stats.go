package handler

import (
	"net/http"

	"github.com/aidar/sponsortrack/internal/service"
)

// StatsHandler обрабатывает эндпоинты статистики
type StatsHandler struct {
	sponsorService *service.SponsorService
}

// NewStatsHandler создает новый StatsHandler
func NewStatsHandler(sponsorService *service.SponsorService) *StatsHandler {
	return &StatsHandler{
		sponsorService: sponsorService,
	}
}

// GetStats обрабатывает GET /api/sponsors/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sponsorService.Stats(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, stats)
}
