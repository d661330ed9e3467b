package services

import (
	"context"

	"github.com/garudlab/sweepquiz/internal/cache"
	"github.com/garudlab/sweepquiz/internal/errors"
	"github.com/garudlab/sweepquiz/internal/logger"
	"github.com/garudlab/sweepquiz/internal/models"
	"github.com/garudlab/sweepquiz/internal/repository"
)

// LeaderboardService exposes the shared ranking as a cursor-paginated view.
// Navigation is strictly relative: the first page, the page after a cursor,
// or the page before one. There is no operation that jumps to page N.
type LeaderboardService interface {
	FirstPage(ctx context.Context) (*models.LeaderboardPage, error)
	NextPage(ctx context.Context, afterToken string) (*models.LeaderboardPage, error)
	PreviousPage(ctx context.Context, beforeToken string) (*models.LeaderboardPage, error)
	Count(ctx context.Context) (int, error)
	PageCount(ctx context.Context) (int, error)
	RefreshCache(ctx context.Context) error
}

type leaderboardService struct {
	repo     repository.LeaderboardRepository
	cache    *cache.LeaderboardCache // nil when Redis is not configured
	pageSize int
}

// NewLeaderboardService creates a new LeaderboardService. cache may be nil,
// in which case every read goes straight to the repository.
func NewLeaderboardService(repo repository.LeaderboardRepository, c *cache.LeaderboardCache, pageSize int) LeaderboardService {
	return &leaderboardService{
		repo:     repo,
		cache:    c,
		pageSize: pageSize,
	}
}

func (s *leaderboardService) FirstPage(ctx context.Context) (*models.LeaderboardPage, error) {
	if s.cache != nil {
		if page, ok := s.cache.GetFirstPage(ctx); ok {
			return &page, nil
		}
	}

	entries, err := s.repo.FirstPage(ctx, s.pageSize)
	if err != nil {
		logger.FromContext(ctx).Error("failed to fetch leaderboard first page: %v", err)
		return nil, errors.NewUnavailableError("leaderboard", err)
	}
	page := buildPage(entries)
	if s.cache != nil {
		s.cache.SetFirstPage(ctx, *page)
	}
	return page, nil
}

func (s *leaderboardService) NextPage(ctx context.Context, afterToken string) (*models.LeaderboardPage, error) {
	cursor, err := repository.DecodeCursor(afterToken)
	if err != nil {
		return nil, errors.NewValidationError("after", "malformed page cursor")
	}

	entries, err := s.repo.PageAfter(ctx, cursor, s.pageSize)
	if err != nil {
		logger.FromContext(ctx).Error("failed to fetch leaderboard page after cursor: %v", err)
		return nil, errors.NewUnavailableError("leaderboard", err)
	}
	return buildPage(entries), nil
}

func (s *leaderboardService) PreviousPage(ctx context.Context, beforeToken string) (*models.LeaderboardPage, error) {
	cursor, err := repository.DecodeCursor(beforeToken)
	if err != nil {
		return nil, errors.NewValidationError("before", "malformed page cursor")
	}

	entries, err := s.repo.PageBefore(ctx, cursor, s.pageSize)
	if err != nil {
		logger.FromContext(ctx).Error("failed to fetch leaderboard page before cursor: %v", err)
		return nil, errors.NewUnavailableError("leaderboard", err)
	}
	return buildPage(entries), nil
}

func (s *leaderboardService) Count(ctx context.Context) (int, error) {
	if s.cache != nil {
		if count, ok := s.cache.GetCount(ctx); ok {
			return count, nil
		}
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count leaderboard entries: %v", err)
		return 0, errors.NewUnavailableError("leaderboard", err)
	}
	if s.cache != nil {
		s.cache.SetCount(ctx, count)
	}
	return count, nil
}

func (s *leaderboardService) PageCount(ctx context.Context) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	return (count + s.pageSize - 1) / s.pageSize, nil
}

// RefreshCache repopulates the count and first-page cache entries from the
// database. Ran by the background worker after each new submission.
func (s *leaderboardService) RefreshCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	entries, err := s.repo.FirstPage(ctx, s.pageSize)
	if err != nil {
		return err
	}

	s.cache.SetCount(ctx, count)
	s.cache.SetFirstPage(ctx, *buildPage(entries))
	return nil
}

// buildPage wraps a ranked slice with the cursors bounding it. An empty slice
// yields a page with empty cursors, which callers treat as "no further pages".
func buildPage(entries []models.LeaderboardEntry) *models.LeaderboardPage {
	page := &models.LeaderboardPage{Entries: entries}
	if len(entries) == 0 {
		page.Entries = []models.LeaderboardEntry{}
		return page
	}

	first := entries[0]
	last := entries[len(entries)-1]
	page.StartCursor = repository.Cursor{Accuracy: first.Accuracy, RowID: first.RowID()}.Encode()
	page.EndCursor = repository.Cursor{Accuracy: last.Accuracy, RowID: last.RowID()}.Encode()
	return page
}
