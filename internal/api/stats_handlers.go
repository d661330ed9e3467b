package api

import (
	"net/http"

	"github.com/garudlab/sweepquiz/internal/logger"
)

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())

	view, err := s.StatsService.GetStats(r.Context(), player.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleResetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	player := playerFromContext(r.Context())

	if err := s.StatsService.ResetStats(r.Context(), player.ID); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("stats reset requested: player_id=%d", player.ID)
	view, err := s.StatsService.GetStats(r.Context(), player.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}
