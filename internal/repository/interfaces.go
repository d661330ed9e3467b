package repository

import (
	"context"

	"github.com/garudlab/sweepquiz/internal/models"
)

// PlayerRepository handles player data access
type PlayerRepository interface {
	Create(ctx context.Context, uid string) (*models.Player, error)
	GetByUID(ctx context.Context, uid string) (*models.Player, error)
}

// StatsRepository is the persistent slot holding a player's cumulative
// stats. Load never fails on absent or malformed content; it substitutes
// the zeroed record instead.
type StatsRepository interface {
	Load(ctx context.Context, playerID int64) (models.CumulativeStats, error)
	Save(ctx context.Context, playerID int64, stats models.CumulativeStats) error
	Reset(ctx context.Context, playerID int64) error
}

// LeaderboardRepository is the append-only ranked collection of submitted
// scores. Ordering is always accuracy descending, insertion order ascending;
// cursors are only meaningful relative to that ordering.
type LeaderboardRepository interface {
	Insert(ctx context.Context, entry models.LeaderboardEntry) (*models.LeaderboardEntry, error)
	FirstPage(ctx context.Context, pageSize int) ([]models.LeaderboardEntry, error)
	PageAfter(ctx context.Context, after Cursor, pageSize int) ([]models.LeaderboardEntry, error)
	PageBefore(ctx context.Context, before Cursor, pageSize int) ([]models.LeaderboardEntry, error)
	Count(ctx context.Context) (int, error)
}
