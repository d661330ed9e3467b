package api

import (
	"github.com/garudlab/sweepquiz/internal/services"
)

// Server holds the handler dependencies. Routes() wires them to the router.
type Server struct {
	PlayerService      services.PlayerService
	SessionService     services.SessionService
	StatsService       services.StatsService
	LeaderboardService services.LeaderboardService
	SubmissionService  services.SubmissionService
	ImageDir           string
}
