package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/garudlab/sweepquiz/internal/logger"
	"github.com/garudlab/sweepquiz/internal/models"
	"github.com/garudlab/sweepquiz/internal/repository"
)

type playerRepository struct {
	db *sql.DB
}

// NewPlayerRepository creates a new PlayerRepository implementation
func NewPlayerRepository(db *sql.DB) repository.PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(ctx context.Context, uid string) (*models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("creating player: uid=%s", uid)

	res, err := r.db.ExecContext(ctx, `INSERT INTO players (uid) VALUES (?)`, uid)
	if err != nil {
		log.Error("failed to insert player: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get player id: %v", err)
		return nil, err
	}

	player, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Debug("player created: id=%d", id)
	return player, nil
}

func (r *playerRepository) GetByUID(ctx context.Context, uid string) (*models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")

	var p models.Player
	err := r.db.QueryRowContext(ctx, `
SELECT id, uid, created_at
FROM players
WHERE uid = ?
`, uid).Scan(&p.ID, &p.UID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("player not found: uid=%s", uid)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get player: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) get(ctx context.Context, id int64) (*models.Player, error) {
	var p models.Player
	err := r.db.QueryRowContext(ctx, `
SELECT id, uid, created_at
FROM players
WHERE id = ?
`, id).Scan(&p.ID, &p.UID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
