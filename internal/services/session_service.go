package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garudlab/sweepquiz/internal/errors"
	"github.com/garudlab/sweepquiz/internal/logger"
	"github.com/garudlab/sweepquiz/internal/models"
	"github.com/garudlab/sweepquiz/internal/repository"
)

// QuestionSource draws the next image to classify. Satisfied by question.Picker.
type QuestionSource interface {
	Next() (models.Category, string)
}

// SessionState is what the player sees of a running session.
type SessionState struct {
	ID             string          `json:"id"`
	Question       models.Question `json:"question"`
	QuestionsTotal int             `json:"questionsTotal"`
}

// SessionService runs quiz sessions. Answers accumulate in a session-scoped
// record and are folded into the player's cumulative stats exactly once,
// when the session concludes. Sessions abandoned mid-way expire without
// touching cumulative stats. Per-answer streaming into the cumulative
// record is deliberately not done; combining both policies double-counts.
type SessionService interface {
	StartSession(ctx context.Context, playerID int64) (*SessionState, error)
	CurrentQuestion(ctx context.Context, sessionID string, playerID int64) (*models.Question, error)
	SubmitAnswer(ctx context.Context, sessionID string, playerID int64, guess models.Category) (*models.AnswerResult, error)
	FinishSession(ctx context.Context, sessionID string, playerID int64) (*models.SessionStats, error)
}

// quizSession is the in-memory state of one running session.
type quizSession struct {
	id         string
	playerID   int64
	stats      models.SessionStats
	current    models.Question
	total      int
	finalized  bool // monotonic: once set, the session can never merge again
	lastActive time.Time
}

type sessionService struct {
	mu        sync.Mutex
	sessions  map[string]*quizSession
	statsRepo repository.StatsRepository
	questions QuestionSource
	perRun    int
	ttl       time.Duration
	now       func() time.Time
}

// NewSessionService creates a new SessionService. questionsPerSession is the
// fixed session length; ttl bounds how long an idle session survives.
func NewSessionService(statsRepo repository.StatsRepository, questions QuestionSource, questionsPerSession int, ttl time.Duration) SessionService {
	return &sessionService{
		sessions:  make(map[string]*quizSession),
		statsRepo: statsRepo,
		questions: questions,
		perRun:    questionsPerSession,
		ttl:       ttl,
		now:       time.Now,
	}
}

func (s *sessionService) StartSession(ctx context.Context, playerID int64) (*SessionState, error) {
	log := logger.FromContext(ctx)

	actual, imagePath := s.questions.Next()
	session := &quizSession{
		id:       uuid.NewString(),
		playerID: playerID,
		stats:    models.ZeroSessionStats(),
		current: models.Question{
			Number:    1,
			ImagePath: imagePath,
			Actual:    actual,
		},
		total:      s.perRun,
		lastActive: s.now(),
	}

	s.mu.Lock()
	s.pruneExpiredLocked()
	s.sessions[session.id] = session
	s.mu.Unlock()

	log.Info("quiz session started: id=%s, player_id=%d, questions=%d", session.id, playerID, s.perRun)
	return &SessionState{
		ID:             session.id,
		Question:       session.current,
		QuestionsTotal: session.total,
	}, nil
}

func (s *sessionService) CurrentQuestion(ctx context.Context, sessionID string, playerID int64) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(sessionID, playerID)
	if err != nil {
		return nil, err
	}
	if session.finalized {
		return nil, errors.NewValidationError("session", "session is already finished")
	}
	q := session.current
	return &q, nil
}

func (s *sessionService) SubmitAnswer(ctx context.Context, sessionID string, playerID int64, guess models.Category) (*models.AnswerResult, error) {
	log := logger.FromContext(ctx)

	if !guess.Valid() {
		return nil, errors.NewValidationError("guess", "must be Neutral, Soft, or Hard")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(sessionID, playerID)
	if err != nil {
		return nil, err
	}
	if session.finalized {
		return nil, errors.NewValidationError("session", "session is already finished")
	}

	actual := session.current.Actual
	session.stats.Record(guess, actual)
	session.lastActive = s.now()

	result := &models.AnswerResult{
		Correct: guess == actual,
		Actual:  actual,
		Session: copySessionStats(session.stats),
	}

	if session.stats.TotalAttempted >= session.total {
		if err := s.finalizeLocked(ctx, session); err != nil {
			return nil, err
		}
		result.Done = true
		log.Info("quiz session completed: id=%s, correct=%d/%d",
			session.id, session.stats.TotalCorrect, session.stats.TotalAttempted)
		return result, nil
	}

	nextActual, imagePath := s.questions.Next()
	session.current = models.Question{
		Number:    session.stats.TotalAttempted + 1,
		ImagePath: imagePath,
		Actual:    nextActual,
	}
	next := session.current
	result.Next = &next
	return result, nil
}

// FinishSession ends the session early and merges whatever was answered.
func (s *sessionService) FinishSession(ctx context.Context, sessionID string, playerID int64) (*models.SessionStats, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(sessionID, playerID)
	if err != nil {
		return nil, err
	}
	if session.finalized {
		// Finishing twice is harmless; the latch already fired.
		stats := copySessionStats(session.stats)
		return &stats, nil
	}

	if err := s.finalizeLocked(ctx, session); err != nil {
		return nil, err
	}
	log.Info("quiz session finished early: id=%s, answered=%d", session.id, session.stats.TotalAttempted)
	stats := copySessionStats(session.stats)
	return &stats, nil
}

// finalizeLocked folds the session into the player's cumulative stats. The
// finalized flag flips before the merge is attempted only on success, so a
// failed save can be retried but a successful one can never run twice.
func (s *sessionService) finalizeLocked(ctx context.Context, session *quizSession) error {
	log := logger.FromContext(ctx)

	if session.finalized {
		return nil
	}

	cumulative, err := s.statsRepo.Load(ctx, session.playerID)
	if err != nil {
		log.Error("failed to load cumulative stats: %v", err)
		return errors.NewInternalError(err)
	}
	merged := cumulative.MergeSession(session.stats)
	if err := s.statsRepo.Save(ctx, session.playerID, merged); err != nil {
		log.Error("failed to save merged stats: %v", err)
		return errors.NewInternalError(err)
	}

	session.finalized = true
	return nil
}

func (s *sessionService) sessionLocked(sessionID string, playerID int64) (*quizSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, errors.NewNotFoundError("quiz session", sessionID)
	}
	if session.playerID != playerID {
		return nil, errors.NewValidationError("session", "session does not belong to player")
	}
	return session, nil
}

// pruneExpiredLocked drops idle sessions. Finalized or not, an expired
// session is simply forgotten; unfinalized ones never reach cumulative stats.
func (s *sessionService) pruneExpiredLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, session := range s.sessions {
		if session.lastActive.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func copySessionStats(stats models.SessionStats) models.SessionStats {
	return models.SessionStats{
		TotalCorrect:   stats.TotalCorrect,
		TotalAttempted: stats.TotalAttempted,
		Matrix:         stats.Matrix.Clone(),
	}
}
