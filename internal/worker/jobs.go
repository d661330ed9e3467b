package worker

import "context"

// LeaderboardRefresher re-derives the cached leaderboard reads from the
// authoritative store. Implemented by the leaderboard service.
type LeaderboardRefresher interface {
	RefreshCache(ctx context.Context) error
}

// RefreshLeaderboardJob warms the count and first-page caches after a new
// entry lands, so the next visitor sees the submitted score without a
// database round trip.
type RefreshLeaderboardJob struct {
	Leaderboard LeaderboardRefresher
}

func (j *RefreshLeaderboardJob) Name() string { return "refresh_leaderboard_cache" }

func (j *RefreshLeaderboardJob) Run(ctx context.Context) error {
	return j.Leaderboard.RefreshCache(ctx)
}
