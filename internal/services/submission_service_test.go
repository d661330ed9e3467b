package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/garudlab/sweepquiz/internal/errors"
	"github.com/garudlab/sweepquiz/internal/models"
	"github.com/garudlab/sweepquiz/internal/services"
	"github.com/garudlab/sweepquiz/internal/testutil/mocks"
)

func statsWithAttempts(correct, attempted int) models.CumulativeStats {
	stats := models.ZeroStats()
	for i := 0; i < attempted; i++ {
		if i < correct {
			stats.Matrix.Increment(models.CategoryHard, models.CategoryHard)
		} else {
			stats.Matrix.Increment(models.CategorySoft, models.CategoryHard)
		}
	}
	stats.TotalCorrect = correct
	stats.TotalAttempted = attempted
	return stats
}

func TestSubmissionService_HappyPath(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	lbRepo := new(mocks.MockLeaderboardRepository)

	statsRepo.On("Load", mock.Anything, int64(1)).Return(statsWithAttempts(6, 10), nil)
	lbRepo.On("Insert", mock.Anything, mock.MatchedBy(func(e models.LeaderboardEntry) bool {
		return e.Username == "genome_fan" && e.Accuracy == 60.0 &&
			e.TotalCorrect == 6 && e.TotalAttempted == 10 && e.ID != ""
	})).Return(&models.LeaderboardEntry{ID: "abc", Username: "genome_fan", Accuracy: 60}, nil)
	statsRepo.On("Reset", mock.Anything, int64(1)).Return(nil)

	svc := services.NewSubmissionService(statsRepo, lbRepo, nil, nil, 3)

	prompt, err := svc.RequestSubmit(context.Background(), 1, "genome_fan")
	require.NoError(t, err)
	assert.Equal(t, "genome_fan", prompt.Username)
	assert.Equal(t, 60.0, prompt.Accuracy)
	assert.Equal(t, services.StateAwaitingConfirmation, svc.State(1))

	entry, err := svc.Confirm(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "genome_fan", entry.Username)
	assert.Equal(t, services.StateIdle, svc.State(1))

	// The slot is zeroed exactly once, and only after the confirmed write.
	statsRepo.AssertNumberOfCalls(t, "Reset", 1)
	lbRepo.AssertExpectations(t)
}

func TestSubmissionService_TrimsUsername(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	lbRepo := new(mocks.MockLeaderboardRepository)
	statsRepo.On("Load", mock.Anything, int64(1)).Return(statsWithAttempts(3, 5), nil)

	svc := services.NewSubmissionService(statsRepo, lbRepo, nil, nil, 3)
	prompt, err := svc.RequestSubmit(context.Background(), 1, "  abc  ")

	require.NoError(t, err)
	assert.Equal(t, "abc", prompt.Username)
}

func TestSubmissionService_RejectsShortUsername(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	lbRepo := new(mocks.MockLeaderboardRepository)
	statsRepo.On("Load", mock.Anything, int64(1)).Return(statsWithAttempts(3, 5), nil)

	svc := services.NewSubmissionService(statsRepo, lbRepo, nil, nil, 3)
	_, err := svc.RequestSubmit(context.Background(), 1, "ab")

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, services.StateIdle, svc.State(1))
	lbRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmissionService_RejectsBadUsernameCharacters(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	lbRepo := new(mocks.MockLeaderboardRepository)
	statsRepo.On("Load", mock.Anything, int64(1)).Return(statsWithAttempts(3, 5), nil)

	svc := services.NewSubmissionService(statsRepo, lbRepo, nil, nil, 3)

	for _, name := range []string{"has space", "sémaphore", "tag<script>", "dot.name"} {
		_, err := svc.RequestSubmit(context.Background(), 1, name)
		require.Error(t, err, "username %q should be rejected", name)
	}
	lbRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmissionService_RejectsTooFewAttempts(t *testing.T) {
	for _, attempts := range []int{0, 2} {
		statsRepo := new(mocks.MockStatsRepository)
		lbRepo := new(mocks.MockLeaderboardRepository)
		statsRepo.On("Load", mock.Anything, int64(1)).Return(statsWithAttempts(attempts, attempts), nil)

		svc := services.NewSubmissionService(statsRepo, lbRepo, nil, nil, 3)
		_, err := svc.RequestSubmit(context.Background(), 1, "genome_fan")

		require.Error(t, err, "attempts=%d", attempts)
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
		statsRepo.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
	}
}

func TestSubmissionService_FailedWriteKeepsStats(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	lbRepo := new(mocks.MockLeaderboardRepository)

	statsRepo.On("Load", mock.Anything, int64(1)).Return(statsWithAttempts(6, 10), nil)
	lbRepo.On("Insert", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("write timeout")).Once()

	svc := services.NewSubmissionService(statsRepo, lbRepo, nil, nil, 3)

	_, err := svc.RequestSubmit(context.Background(), 1, "genome_fan")
	require.NoError(t, err)
	_, err = svc.Confirm(context.Background(), 1)

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnavailable, appErr.Code)
	statsRepo.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)

	// The workflow is back at idle; the player can retry from scratch.
	assert.Equal(t, services.StateIdle, svc.State(1))
	lbRepo.On("Insert", mock.Anything, mock.Anything).Return(&models.LeaderboardEntry{ID: "abc"}, nil).Once()
	statsRepo.On("Reset", mock.Anything, int64(1)).Return(nil)

	_, err = svc.RequestSubmit(context.Background(), 1, "genome_fan")
	require.NoError(t, err)
	_, err = svc.Confirm(context.Background(), 1)
	require.NoError(t, err)
	statsRepo.AssertNumberOfCalls(t, "Reset", 1)
}

func TestSubmissionService_DoubleSubmitRejected(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	lbRepo := new(mocks.MockLeaderboardRepository)
	statsRepo.On("Load", mock.Anything, int64(1)).Return(statsWithAttempts(6, 10), nil)

	svc := services.NewSubmissionService(statsRepo, lbRepo, nil, nil, 3)

	_, err := svc.RequestSubmit(context.Background(), 1, "genome_fan")
	require.NoError(t, err)

	_, err = svc.RequestSubmit(context.Background(), 1, "genome_fan")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeConflict, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestSubmissionService_ConfirmWithoutRequest(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	lbRepo := new(mocks.MockLeaderboardRepository)

	svc := services.NewSubmissionService(statsRepo, lbRepo, nil, nil, 3)
	_, err := svc.Confirm(context.Background(), 1)

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeConflict, appErr.Code)
}

func TestSubmissionService_CancelIsSideEffectFree(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	lbRepo := new(mocks.MockLeaderboardRepository)
	statsRepo.On("Load", mock.Anything, int64(1)).Return(statsWithAttempts(6, 10), nil)

	svc := services.NewSubmissionService(statsRepo, lbRepo, nil, nil, 3)

	_, err := svc.RequestSubmit(context.Background(), 1, "genome_fan")
	require.NoError(t, err)
	svc.Cancel(context.Background(), 1)

	assert.Equal(t, services.StateIdle, svc.State(1))
	lbRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	statsRepo.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)

	// Cancelled, so a fresh request is allowed immediately.
	_, err = svc.RequestSubmit(context.Background(), 1, "genome_fan")
	require.NoError(t, err)
}
