package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/sponsortrack/internal/domain"
	"github.com/aidar/sponsortrack/internal/service"
)

// TeamHandler обрабатывает эндпоинты команд
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// List обрабатывает GET /api/teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.List(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, teams)
}

// Create обрабатывает POST /api/teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var team domain.Team
	if !decodeJSON(w, r, &team) {
		return
	}

	created, err := h.teamService.Create(r.Context(), &team)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, created)
}

// Update обрабатывает PUT /api/teams/{id}
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.TeamPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	updated, err := h.teamService.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, updated)
}

// Delete обрабатывает DELETE /api/teams/{id}, спонсоры команды становятся неназначенными
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.teamService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Team deleted"})
}
