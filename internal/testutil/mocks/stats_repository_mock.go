package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/garudlab/sweepquiz/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Load(ctx context.Context, playerID int64) (models.CumulativeStats, error) {
	args := m.Called(ctx, playerID)
	return args.Get(0).(models.CumulativeStats), args.Error(1)
}

func (m *MockStatsRepository) Save(ctx context.Context, playerID int64, stats models.CumulativeStats) error {
	args := m.Called(ctx, playerID, stats)
	return args.Error(0)
}

func (m *MockStatsRepository) Reset(ctx context.Context, playerID int64) error {
	args := m.Called(ctx, playerID)
	return args.Error(0)
}
