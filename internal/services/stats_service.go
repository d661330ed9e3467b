package services

import (
	"context"

	"github.com/garudlab/sweepquiz/internal/errors"
	"github.com/garudlab/sweepquiz/internal/logger"
	"github.com/garudlab/sweepquiz/internal/models"
	"github.com/garudlab/sweepquiz/internal/repository"
)

// StatsView is a player's cumulative record plus the derived figures the
// heatmap and summary line need.
type StatsView struct {
	models.CumulativeStats
	Accuracy  float64 `json:"accuracy"`
	MatrixMax int     `json:"matrixMax"`
}

// StatsService exposes a player's cumulative statistics.
type StatsService interface {
	GetStats(ctx context.Context, playerID int64) (*StatsView, error)
	ResetStats(ctx context.Context, playerID int64) error
}

type statsService struct {
	repo repository.StatsRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(repo repository.StatsRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) GetStats(ctx context.Context, playerID int64) (*StatsView, error) {
	stats, err := s.repo.Load(ctx, playerID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &StatsView{
		CumulativeStats: stats,
		Accuracy:        stats.Accuracy(),
		MatrixMax:       stats.Matrix.Max(),
	}, nil
}

func (s *statsService) ResetStats(ctx context.Context, playerID int64) error {
	if err := s.repo.Reset(ctx, playerID); err != nil {
		logger.FromContext(ctx).Error("failed to reset stats: %v", err)
		return errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("stats reset: player_id=%d", playerID)
	return nil
}
