package services

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/garudlab/sweepquiz/internal/errors"
	"github.com/garudlab/sweepquiz/internal/logger"
	"github.com/garudlab/sweepquiz/internal/models"
	"github.com/garudlab/sweepquiz/internal/repository"
	"github.com/garudlab/sweepquiz/internal/worker"
)

// SubmissionState is one phase of the submit workflow.
type SubmissionState string

const (
	StateIdle                 SubmissionState = "idle"
	StateValidating           SubmissionState = "validating"
	StateAwaitingConfirmation SubmissionState = "awaiting_confirmation"
	StateSubmitting           SubmissionState = "submitting"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 15
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// SubmissionPrompt is the confirmation the player must acknowledge before
// their score is published and their local stats are wiped.
type SubmissionPrompt struct {
	Username       string  `json:"username"`
	TotalCorrect   int     `json:"totalCorrect"`
	TotalAttempted int     `json:"totalAttempted"`
	Accuracy       float64 `json:"accuracy"`
	Message        string  `json:"message"`
}

// SubmissionService drives the submit-to-leaderboard workflow. Each player
// moves through idle, validating, awaiting confirmation, and submitting;
// validation failures and cancellation return to idle without side effects.
// Cumulative stats are reset only after the leaderboard write is confirmed,
// so a failed write always leaves the stats intact for a retry.
type SubmissionService interface {
	RequestSubmit(ctx context.Context, playerID int64, username string) (*SubmissionPrompt, error)
	Confirm(ctx context.Context, playerID int64) (*models.LeaderboardEntry, error)
	Cancel(ctx context.Context, playerID int64)
	State(playerID int64) SubmissionState
}

type pendingSubmission struct {
	state    SubmissionState
	username string
}

type submissionService struct {
	mu          sync.Mutex
	pending     map[int64]*pendingSubmission
	statsRepo   repository.StatsRepository
	leaderboard repository.LeaderboardRepository
	pool        *worker.Pool                // nil when no cache is configured
	refresher   worker.LeaderboardRefresher // nil when no cache is configured
	minAttempts int
}

// NewSubmissionService creates a new SubmissionService. pool and refresher
// may be nil; they only drive the post-submit cache refresh.
func NewSubmissionService(statsRepo repository.StatsRepository, leaderboard repository.LeaderboardRepository, pool *worker.Pool, refresher worker.LeaderboardRefresher, minAttempts int) SubmissionService {
	return &submissionService{
		pending:     make(map[int64]*pendingSubmission),
		statsRepo:   statsRepo,
		leaderboard: leaderboard,
		pool:        pool,
		refresher:   refresher,
		minAttempts: minAttempts,
	}
}

// RequestSubmit validates the player's stats and username. On success the
// workflow parks in awaiting_confirmation; nothing has been written yet.
func (s *submissionService) RequestSubmit(ctx context.Context, playerID int64, username string) (*SubmissionPrompt, error) {
	s.mu.Lock()
	if s.stateLocked(playerID) != StateIdle {
		s.mu.Unlock()
		return nil, errors.NewConflictError("a submission is already in progress")
	}
	s.pending[playerID] = &pendingSubmission{state: StateValidating}
	s.mu.Unlock()

	prompt, err := s.validate(ctx, playerID, username)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		delete(s.pending, playerID)
		return nil, err
	}
	s.pending[playerID] = &pendingSubmission{
		state:    StateAwaitingConfirmation,
		username: prompt.Username,
	}
	return prompt, nil
}

func (s *submissionService) validate(ctx context.Context, playerID int64, username string) (*SubmissionPrompt, error) {
	stats, err := s.statsRepo.Load(ctx, playerID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load stats for submission: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if stats.TotalAttempted < s.minAttempts {
		return nil, errors.NewValidationError("stats",
			"not enough questions answered to submit a score")
	}

	username = strings.TrimSpace(username)
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return nil, errors.NewValidationError("username", "must be 3 to 15 characters")
	}
	if !usernamePattern.MatchString(username) {
		return nil, errors.NewValidationError("username",
			"may only contain letters, digits, underscores, and hyphens")
	}

	return &SubmissionPrompt{
		Username:       username,
		TotalCorrect:   stats.TotalCorrect,
		TotalAttempted: stats.TotalAttempted,
		Accuracy:       stats.Accuracy(),
		Message:        "Submitting publishes your score and resets your local statistics.",
	}, nil
}

// Confirm publishes the score. The stats snapshot is read at confirmation
// time so answers given while the prompt was open still count.
func (s *submissionService) Confirm(ctx context.Context, playerID int64) (*models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	pending, ok := s.pending[playerID]
	if !ok || pending.state != StateAwaitingConfirmation {
		s.mu.Unlock()
		return nil, errors.NewConflictError("no submission awaiting confirmation")
	}
	pending.state = StateSubmitting
	username := pending.username
	s.mu.Unlock()

	entry, err := s.publish(ctx, playerID, username)

	s.mu.Lock()
	delete(s.pending, playerID)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	if s.pool != nil && s.refresher != nil {
		s.pool.Submit(&worker.RefreshLeaderboardJob{Leaderboard: s.refresher})
	}
	log.Info("score submitted: player_id=%d, username=%s, accuracy=%.1f%%",
		playerID, entry.Username, entry.Accuracy)
	return entry, nil
}

func (s *submissionService) publish(ctx context.Context, playerID int64, username string) (*models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx)

	stats, err := s.statsRepo.Load(ctx, playerID)
	if err != nil {
		log.Error("failed to load stats for submission: %v", err)
		return nil, errors.NewInternalError(err)
	}

	inserted, err := s.leaderboard.Insert(ctx, models.LeaderboardEntry{
		ID:             uuid.NewString(),
		Username:       username,
		Accuracy:       stats.Accuracy(),
		TotalCorrect:   stats.TotalCorrect,
		TotalAttempted: stats.TotalAttempted,
		Matrix:         stats.Matrix.Clone(),
	})
	if err != nil {
		// Stats are untouched; the player can retry the whole workflow.
		log.Error("leaderboard write failed: %v", err)
		return nil, errors.NewUnavailableError("score submission", err)
	}

	if err := s.statsRepo.Reset(ctx, playerID); err != nil {
		// The score is on the board but the slot kept its old contents.
		// Surface the failure rather than pretend the reset happened.
		log.Error("failed to reset stats after submission: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return inserted, nil
}

// Cancel abandons a pending submission. Stats and leaderboard are untouched.
func (s *submissionService) Cancel(ctx context.Context, playerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.pending[playerID]
	if !ok || pending.state == StateSubmitting {
		return
	}
	delete(s.pending, playerID)
	logger.FromContext(ctx).Debug("submission cancelled: player_id=%d", playerID)
}

func (s *submissionService) State(playerID int64) SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(playerID)
}

func (s *submissionService) stateLocked(playerID int64) SubmissionState {
	if pending, ok := s.pending[playerID]; ok {
		return pending.state
	}
	return StateIdle
}
