package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/garudlab/sweepquiz/internal/logger"
	"github.com/garudlab/sweepquiz/internal/models"
	"github.com/garudlab/sweepquiz/internal/repository"
)

// slotKey names the single slot holding a player's cumulative stats record.
const slotKey = "haplotype_quiz_stats"

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

// Load returns the persisted stats, or the zeroed record when the slot is
// absent, unparseable, or internally inconsistent. Corruption is recovered
// from, not propagated.
func (r *statsRepository) Load(ctx context.Context, playerID int64) (models.CumulativeStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("loading stats slot: player_id=%d", playerID)

	var payload string
	err := r.db.QueryRowContext(ctx, `
SELECT payload
FROM stats_slots
WHERE player_id = ? AND slot_key = ?
`, playerID, slotKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no stats slot, starting fresh: player_id=%d", playerID)
		return models.ZeroStats(), nil
	}
	if err != nil {
		log.Error("failed to load stats slot: %v", err)
		return models.CumulativeStats{}, err
	}

	var stats models.CumulativeStats
	if err := json.Unmarshal([]byte(payload), &stats); err != nil {
		log.Warn("stats slot unparseable, starting fresh: player_id=%d: %v", playerID, err)
		return models.ZeroStats(), nil
	}
	if !stats.Consistent() {
		log.Warn("stats slot inconsistent, starting fresh: player_id=%d", playerID)
		return models.ZeroStats(), nil
	}
	return stats, nil
}

// Save overwrites the whole slot. Last write wins; there is no partial update.
func (r *statsRepository) Save(ctx context.Context, playerID int64, stats models.CumulativeStats) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("saving stats slot: player_id=%d, attempted=%d, correct=%d",
		playerID, stats.TotalAttempted, stats.TotalCorrect)

	payload, err := json.Marshal(stats)
	if err != nil {
		log.Error("failed to serialize stats: %v", err)
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO stats_slots (player_id, slot_key, payload, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(player_id, slot_key) DO UPDATE SET
    payload = excluded.payload,
    updated_at = excluded.updated_at
`, playerID, slotKey, string(payload))
	if err != nil {
		log.Error("failed to save stats slot: %v", err)
	}
	return err
}

func (r *statsRepository) Reset(ctx context.Context, playerID int64) error {
	return r.Save(ctx, playerID, models.ZeroStats())
}
