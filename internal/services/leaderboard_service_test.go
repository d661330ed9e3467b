package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/garudlab/sweepquiz/internal/cache"
	"github.com/garudlab/sweepquiz/internal/errors"
	"github.com/garudlab/sweepquiz/internal/models"
	"github.com/garudlab/sweepquiz/internal/repository"
	"github.com/garudlab/sweepquiz/internal/services"
	"github.com/garudlab/sweepquiz/internal/testutil/mocks"
)

func rankedEntries(n int, startRow int64) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, n)
	for i := 0; i < n; i++ {
		e := models.LeaderboardEntry{
			ID:             fmt.Sprintf("entry-%d", startRow+int64(i)),
			Username:       fmt.Sprintf("player%d", i),
			Accuracy:       90 - float64(i)*10,
			TotalCorrect:   9 - i,
			TotalAttempted: 10,
			Matrix:         models.ZeroMatrix(),
		}
		e.SetRowID(startRow + int64(i))
		entries = append(entries, e)
	}
	return entries
}

func TestLeaderboardService_FirstPageCursors(t *testing.T) {
	repo := new(mocks.MockLeaderboardRepository)
	repo.On("FirstPage", mock.Anything, 3).Return(rankedEntries(3, 1), nil)

	svc := services.NewLeaderboardService(repo, nil, 3)
	page, err := svc.FirstPage(context.Background())

	require.NoError(t, err)
	require.Len(t, page.Entries, 3)

	start, err := repository.DecodeCursor(page.StartCursor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), start.RowID)
	assert.Equal(t, 90.0, start.Accuracy)

	end, err := repository.DecodeCursor(page.EndCursor)
	require.NoError(t, err)
	assert.Equal(t, int64(3), end.RowID)
}

func TestLeaderboardService_NextPagePassesCursor(t *testing.T) {
	repo := new(mocks.MockLeaderboardRepository)
	after := repository.Cursor{Accuracy: 70, RowID: 3}
	repo.On("PageAfter", mock.Anything, after, 3).Return(rankedEntries(2, 4), nil)

	svc := services.NewLeaderboardService(repo, nil, 3)
	page, err := svc.NextPage(context.Background(), after.Encode())

	require.NoError(t, err)
	assert.Len(t, page.Entries, 2)
}

func TestLeaderboardService_RejectsMalformedCursor(t *testing.T) {
	repo := new(mocks.MockLeaderboardRepository)
	svc := services.NewLeaderboardService(repo, nil, 3)

	_, err := svc.NextPage(context.Background(), "page=7")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)

	_, err = svc.PreviousPage(context.Background(), "!!!")
	require.Error(t, err)

	repo.AssertNotCalled(t, "PageAfter", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "PageBefore", mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaderboardService_EmptyPageHasNoCursors(t *testing.T) {
	repo := new(mocks.MockLeaderboardRepository)
	repo.On("FirstPage", mock.Anything, 3).Return([]models.LeaderboardEntry{}, nil)

	svc := services.NewLeaderboardService(repo, nil, 3)
	page, err := svc.FirstPage(context.Background())

	require.NoError(t, err)
	assert.Empty(t, page.Entries)
	assert.Empty(t, page.StartCursor)
	assert.Empty(t, page.EndCursor)
}

func TestLeaderboardService_PageCount(t *testing.T) {
	repo := new(mocks.MockLeaderboardRepository)
	repo.On("Count", mock.Anything).Return(25, nil)

	svc := services.NewLeaderboardService(repo, nil, 10)
	pages, err := svc.PageCount(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestLeaderboardService_FetchFailureIsRecoverable(t *testing.T) {
	repo := new(mocks.MockLeaderboardRepository)
	repo.On("FirstPage", mock.Anything, 10).Return(nil, fmt.Errorf("connection refused")).Once()
	repo.On("FirstPage", mock.Anything, 10).Return(rankedEntries(1, 1), nil).Once()

	svc := services.NewLeaderboardService(repo, nil, 10)

	_, err := svc.FirstPage(context.Background())
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnavailable, appErr.Code)
	assert.Equal(t, 503, appErr.Status)

	// A plain retry succeeds once the backend is reachable again.
	page, err := svc.FirstPage(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Entries, 1)
}

func TestLeaderboardService_FirstPageServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := cache.NewLeaderboardCache(client, time.Minute)

	repo := new(mocks.MockLeaderboardRepository)
	repo.On("FirstPage", mock.Anything, 3).Return(rankedEntries(3, 1), nil).Once()

	svc := services.NewLeaderboardService(repo, c, 3)

	first, err := svc.FirstPage(context.Background())
	require.NoError(t, err)

	// Second read is answered by Redis; the repository mock only allows one call.
	second, err := svc.FirstPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.StartCursor, second.StartCursor)
	assert.Equal(t, first.EndCursor, second.EndCursor)
	require.Len(t, second.Entries, 3)
	assert.Equal(t, first.Entries[0].Username, second.Entries[0].Username)
	repo.AssertExpectations(t)
}

func TestLeaderboardService_RefreshCachePopulatesCount(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := cache.NewLeaderboardCache(client, time.Minute)

	repo := new(mocks.MockLeaderboardRepository)
	repo.On("Count", mock.Anything).Return(4, nil).Once()
	repo.On("FirstPage", mock.Anything, 3).Return(rankedEntries(3, 1), nil).Once()

	svc := services.NewLeaderboardService(repo, c, 3)
	require.NoError(t, svc.RefreshCache(context.Background()))

	// Count and first page now come from the cache.
	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	page, err := svc.FirstPage(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Entries, 3)
	repo.AssertExpectations(t)
}
