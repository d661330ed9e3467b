package api

import (
	"net/http"

	"github.com/garudlab/sweepquiz/internal/errors"
	"github.com/garudlab/sweepquiz/internal/models"
)

// handleLeaderboardPage serves one window of the ranking. Navigation is by
// cursor only: no cursor for page one, ?after= to move forward, ?before= to
// move back. A ?page=N request is rejected outright; ranks shift as scores
// come in, so absolute page numbers have no stable meaning.
func (s *Server) handleLeaderboardPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("page") {
		handleError(w, r, errors.NewValidationError("page",
			"absolute page numbers are not supported, navigate with after/before cursors"))
		return
	}

	after := r.URL.Query().Get("after")
	before := r.URL.Query().Get("before")
	if after != "" && before != "" {
		handleError(w, r, errors.NewValidationError("cursor",
			"after and before are mutually exclusive"))
		return
	}

	var (
		page *models.LeaderboardPage
		err  error
	)
	switch {
	case after != "":
		page, err = s.LeaderboardService.NextPage(r.Context(), after)
	case before != "":
		page, err = s.LeaderboardService.PreviousPage(r.Context(), before)
	default:
		page, err = s.LeaderboardService.FirstPage(r.Context())
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, page)
}

func (s *Server) handleLeaderboardCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.LeaderboardService.Count(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	pages, err := s.LeaderboardService.PageCount(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]int{
		"count":      count,
		"totalPages": pages,
	})
}
