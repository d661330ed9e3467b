package api

import (
	"net/http"

	"github.com/garudlab/sweepquiz/internal/logger"
)

type submitRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleRequestSubmit(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())

	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	prompt, err := s.SubmissionService.RequestSubmit(r.Context(), player.ID, req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, prompt)
}

func (s *Server) handleConfirmSubmit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	player := playerFromContext(r.Context())

	entry, err := s.SubmissionService.Confirm(r.Context(), player.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("submission confirmed: entry_id=%s", entry.ID)
	respondJSON(w, r, http.StatusCreated, entry)
}

func (s *Server) handleCancelSubmit(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())
	s.SubmissionService.Cancel(r.Context(), player.ID)
	respondJSON(w, r, http.StatusOK, map[string]string{"state": string(s.SubmissionService.State(player.ID))})
}

func (s *Server) handleSubmissionState(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())
	respondJSON(w, r, http.StatusOK, map[string]string{"state": string(s.SubmissionService.State(player.ID))})
}
