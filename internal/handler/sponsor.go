package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/sponsortrack/internal/domain"
	"github.com/aidar/sponsortrack/internal/service"
)

// SponsorHandler обрабатывает эндпоинты спонсоров
type SponsorHandler struct {
	sponsorService *service.SponsorService
}

// NewSponsorHandler создает новый SponsorHandler
func NewSponsorHandler(sponsorService *service.SponsorService) *SponsorHandler {
	return &SponsorHandler{
		sponsorService: sponsorService,
	}
}

// List обрабатывает GET /api/sponsors?page&limit&search&status&team
func (h *SponsorHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.sponsorService.List(r.Context(), parseSponsorQuery(r))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, page)
}

// parseSponsorQuery читает параметры списка; нечисловые page и limit
// заменяются значениями по умолчанию при нормализации
func parseSponsorQuery(r *http.Request) domain.SponsorQuery {
	values := r.URL.Query()

	page, _ := strconv.Atoi(values.Get("page"))
	limit, _ := strconv.Atoi(values.Get("limit"))

	return domain.SponsorQuery{
		Page:   page,
		Limit:  limit,
		Search: values.Get("search"),
		Status: values.Get("status"),
		Team:   values.Get("team"),
	}
}

// Create обрабатывает POST /api/sponsors
func (h *SponsorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sponsor domain.Sponsor
	if !decodeJSON(w, r, &sponsor) {
		return
	}

	created, err := h.sponsorService.Create(r.Context(), &sponsor)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, created)
}

// BulkCreate обрабатывает POST /api/sponsors/bulk, тело это массив кандидатов
func (h *SponsorHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var candidates []domain.Sponsor
	if !decodeJSON(w, r, &candidates) {
		return
	}

	result, err := h.sponsorService.BulkCreate(r.Context(), candidates)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, result)
}

// Update обрабатывает PUT /api/sponsors/{id}
func (h *SponsorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.SponsorPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	updated, err := h.sponsorService.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, updated)
}

// Delete обрабатывает DELETE /api/sponsors/{id}
func (h *SponsorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sponsorService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Sponsor deleted"})
}
