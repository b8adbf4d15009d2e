package handlers

import (
	"net/http"
	"strconv"

	"github.com/scrimhub/scrimhub/middleware"
	"github.com/scrimhub/scrimhub/models"
	"github.com/scrimhub/scrimhub/repositories"
	"github.com/scrimhub/scrimhub/services"
)

type ScrimHandler struct {
	scrimService services.ScrimService
}

func NewScrimHandler(scrimService services.ScrimService) *ScrimHandler {
	return &ScrimHandler{scrimService: scrimService}
}

func (h *ScrimHandler) CreateScrim(w http.ResponseWriter, r *http.Request) {
	var input services.CreateScrimInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	input.OrganizerID = currentUserID

	scrim, err := h.scrimService.CreateScrim(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"scrim": scrim}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScrimHandler) GetScrimByID(w http.ResponseWriter, r *http.Request) {
	scrimID, err := getIDFromURL(r, "scrimID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	scrim, err := h.scrimService.GetScrimByID(r.Context(), scrimID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"scrim": scrim}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScrimHandler) ListScrims(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListScrimsFilter{}
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := models.ScrimStatus(statusStr)
		filter.Status = &status
	}

	scrims, err := h.scrimService.ListScrims(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"scrims": scrims}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScrimHandler) CancelScrim(w http.ResponseWriter, r *http.Request) {
	scrimID, err := getIDFromURL(r, "scrimID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.scrimService.CancelScrim(r.Context(), scrimID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type registerTeamInput struct {
	TeamID int `json:"team_id"`
}

func (h *ScrimHandler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	scrimID, err := getIDFromURL(r, "scrimID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input registerTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	st, err := h.scrimService.RegisterTeam(r.Context(), scrimID, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"scrim_team": st}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScrimHandler) UnregisterTeam(w http.ResponseWriter, r *http.Request) {
	scrimID, err := getIDFromURL(r, "scrimID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scrimService.UnregisterTeam(r.Context(), scrimID, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type addRosterPlayerInput struct {
	TeamID   int `json:"team_id"`
	PlayerID int `json:"player_id"`
}

func (h *ScrimHandler) AddRosterPlayer(w http.ResponseWriter, r *http.Request) {
	scrimID, err := getIDFromURL(r, "scrimID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input addRosterPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sp, err := h.scrimService.AddRosterPlayer(r.Context(), scrimID, input.TeamID, input.PlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"scrim_player": sp}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScrimHandler) RemoveRosterPlayer(w http.ResponseWriter, r *http.Request) {
	scrimID, err := getIDFromURL(r, "scrimID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scrimService.RemoveRosterPlayer(r.Context(), scrimID, playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ScrimHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	scrimID, err := getIDFromURL(r, "scrimID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	roster, err := h.scrimService.GetRoster(r.Context(), scrimID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"roster": roster}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
