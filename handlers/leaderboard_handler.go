package handlers

import (
	"net/http"

	"github.com/scrimhub/scrimhub/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (h *LeaderboardHandler) GetTeamLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leaderboardService.TeamLeaderboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) GetPlayerLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leaderboardService.PlayerLeaderboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) GetLeaderboards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.leaderboardService.Leaderboards(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboards": boards}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
