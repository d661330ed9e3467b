package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/tutorial", s.handleTutorial)

		r.Group(func(r chi.Router) {
			r.Use(s.playerMiddleware)

			r.Post("/sessions", s.handleStartSession)
			r.Get("/sessions/{id}/question", s.handleCurrentQuestion)
			r.Post("/sessions/{id}/answer", s.handleAnswer)
			r.Post("/sessions/{id}/finish", s.handleFinishSession)

			r.Get("/stats", s.handleGetStats)
			r.Post("/stats/reset", s.handleResetStats)

			r.Get("/leaderboard", s.handleLeaderboardPage)
			r.Get("/leaderboard/count", s.handleLeaderboardCount)

			r.Post("/submissions", s.handleRequestSubmit)
			r.Post("/submissions/confirm", s.handleConfirmSubmit)
			r.Post("/submissions/cancel", s.handleCancelSubmit)
			r.Get("/submissions/state", s.handleSubmissionState)
		})
	})

	r.Handle("/SweepImages/*", http.StripPrefix("/SweepImages/",
		http.FileServer(http.Dir(s.ImageDir))))
	return r
}
