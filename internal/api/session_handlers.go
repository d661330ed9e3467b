package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/garudlab/sweepquiz/internal/errors"
	"github.com/garudlab/sweepquiz/internal/logger"
	"github.com/garudlab/sweepquiz/internal/models"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	player := playerFromContext(r.Context())

	state, err := s.SessionService.StartSession(r.Context(), player.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("session started: id=%s", state.ID)
	respondJSON(w, r, http.StatusCreated, state)
}

func (s *Server) handleCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())
	sessionID := chi.URLParam(r, "id")

	question, err := s.SessionService.CurrentQuestion(r.Context(), sessionID, player.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, question)
}

type answerRequest struct {
	Guess string `json:"guess"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())
	sessionID := chi.URLParam(r, "id")

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	guess, err := models.ParseCategory(req.Guess)
	if err != nil {
		handleError(w, r, errors.NewValidationError("guess", "must be Neutral, Soft, or Hard"))
		return
	}

	result, err := s.SessionService.SubmitAnswer(r.Context(), sessionID, player.ID, guess)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	player := playerFromContext(r.Context())
	sessionID := chi.URLParam(r, "id")

	stats, err := s.SessionService.FinishSession(r.Context(), sessionID, player.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stats)
}
