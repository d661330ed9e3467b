package services

import (
	"context"

	"github.com/garudlab/sweepquiz/internal/errors"
	"github.com/garudlab/sweepquiz/internal/logger"
	"github.com/garudlab/sweepquiz/internal/models"
	"github.com/garudlab/sweepquiz/internal/repository"
)

// PlayerService resolves browser identities to player rows.
type PlayerService interface {
	GetOrCreate(ctx context.Context, uid string) (*models.Player, error)
}

type playerService struct {
	repo repository.PlayerRepository
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(repo repository.PlayerRepository) PlayerService {
	return &playerService{repo: repo}
}

// GetOrCreate looks up the player behind a browser UID, creating the row on
// first contact. Anonymous play needs no registration step.
func (s *playerService) GetOrCreate(ctx context.Context, uid string) (*models.Player, error) {
	player, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		logger.FromContext(ctx).Error("failed to look up player: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if player != nil {
		return player, nil
	}

	player, err = s.repo.Create(ctx, uid)
	if err != nil {
		logger.FromContext(ctx).Error("failed to create player: %v", err)
		return nil, errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("new player created: id=%d", player.ID)
	return player, nil
}
