package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Masterminds/squirrel"

	"github.com/garudlab/sweepquiz/internal/logger"
	"github.com/garudlab/sweepquiz/internal/models"
	"github.com/garudlab/sweepquiz/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var entryColumns = []string{
	"id", "entry_uid", "username", "accuracy",
	"total_correct", "total_attempted", "confusion_matrix", "created_at",
}

type leaderboardRepository struct {
	db *sql.DB
}

// NewLeaderboardRepository creates a new LeaderboardRepository implementation
func NewLeaderboardRepository(db *sql.DB) repository.LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

// Insert appends one entry and returns it with the server-assigned
// created_at and insertion-order key filled in. Entries are never updated.
func (r *leaderboardRepository) Insert(ctx context.Context, entry models.LeaderboardEntry) (*models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard_repo")
	log.Debug("inserting leaderboard entry: username=%s, accuracy=%.1f", entry.Username, entry.Accuracy)

	matrixJSON, err := json.Marshal(entry.Matrix)
	if err != nil {
		log.Error("failed to serialize confusion matrix: %v", err)
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO leaderboard_entries (entry_uid, username, accuracy, total_correct, total_attempted, confusion_matrix)
VALUES (?, ?, ?, ?, ?, ?)
`, entry.ID, entry.Username, entry.Accuracy, entry.TotalCorrect, entry.TotalAttempted, string(matrixJSON))
	if err != nil {
		log.Error("failed to insert leaderboard entry: %v", err)
		return nil, err
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get leaderboard entry id: %v", err)
		return nil, err
	}

	stored, err := r.getByRowID(ctx, rowID)
	if err != nil {
		log.Error("failed to read back leaderboard entry: %v", err)
		return nil, err
	}
	log.Debug("leaderboard entry inserted: id=%s", stored.ID)
	return stored, nil
}

func (r *leaderboardRepository) FirstPage(ctx context.Context, pageSize int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard_repo")
	log.Debug("fetching first leaderboard page: page_size=%d", pageSize)

	query := sqlBuilder.Select(entryColumns...).
		From("leaderboard_entries").
		OrderBy("accuracy DESC", "id ASC").
		Limit(uint64(pageSize))

	return r.queryEntries(ctx, query, false)
}

// PageAfter returns up to pageSize entries strictly after the cursor in
// rank order (lower accuracy, or equal accuracy inserted later).
func (r *leaderboardRepository) PageAfter(ctx context.Context, after repository.Cursor, pageSize int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard_repo")
	log.Debug("fetching leaderboard page after cursor: row_id=%d", after.RowID)

	query := sqlBuilder.Select(entryColumns...).
		From("leaderboard_entries").
		Where(squirrel.Or{
			squirrel.Lt{"accuracy": after.Accuracy},
			squirrel.And{
				squirrel.Eq{"accuracy": after.Accuracy},
				squirrel.Gt{"id": after.RowID},
			},
		}).
		OrderBy("accuracy DESC", "id ASC").
		Limit(uint64(pageSize))

	return r.queryEntries(ctx, query, false)
}

// PageBefore returns up to pageSize entries strictly before the cursor.
// The rows come back from SQLite in reverse rank order, so the result is
// flipped before it is returned.
func (r *leaderboardRepository) PageBefore(ctx context.Context, before repository.Cursor, pageSize int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard_repo")
	log.Debug("fetching leaderboard page before cursor: row_id=%d", before.RowID)

	query := sqlBuilder.Select(entryColumns...).
		From("leaderboard_entries").
		Where(squirrel.Or{
			squirrel.Gt{"accuracy": before.Accuracy},
			squirrel.And{
				squirrel.Eq{"accuracy": before.Accuracy},
				squirrel.Lt{"id": before.RowID},
			},
		}).
		OrderBy("accuracy ASC", "id DESC").
		Limit(uint64(pageSize))

	return r.queryEntries(ctx, query, true)
}

func (r *leaderboardRepository) Count(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leaderboard_entries`).Scan(&count)
	if err != nil {
		log.Error("failed to count leaderboard entries: %v", err)
		return 0, err
	}
	log.Debug("leaderboard count: %d", count)
	return count, nil
}

func (r *leaderboardRepository) queryEntries(ctx context.Context, query squirrel.SelectBuilder, reverse bool) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard_repo")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query leaderboard entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			log.Error("failed to scan leaderboard entry: %v", err)
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	log.Debug("found %d leaderboard entries", len(entries))
	return entries, nil
}

func (r *leaderboardRepository) getByRowID(ctx context.Context, rowID int64) (*models.LeaderboardEntry, error) {
	query := sqlBuilder.Select(entryColumns...).
		From("leaderboard_entries").
		Where(squirrel.Eq{"id": rowID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	entry, err := scanEntry(row)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.LeaderboardEntry, error) {
	var (
		entry      models.LeaderboardEntry
		rowID      int64
		matrixJSON string
	)
	err := row.Scan(&rowID, &entry.ID, &entry.Username, &entry.Accuracy,
		&entry.TotalCorrect, &entry.TotalAttempted, &matrixJSON, &entry.CreatedAt)
	if err != nil {
		return models.LeaderboardEntry{}, err
	}

	entry.Matrix = models.ZeroMatrix()
	if err := json.Unmarshal([]byte(matrixJSON), &entry.Matrix); err != nil {
		// A matrix that fails to parse renders as all zeroes rather than
		// breaking the whole page.
		entry.Matrix = models.ZeroMatrix()
	}
	entry.SetRowID(rowID)
	return entry, nil
}
