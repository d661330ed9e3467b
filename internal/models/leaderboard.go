package models

import "time"

// LeaderboardEntry is one submitted score in the shared ranked collection.
// Entries are append-only: the client writes them once and never mutates
// an existing row. CreatedAt is assigned by the database, not the caller.
type LeaderboardEntry struct {
	ID             string          `json:"id"` // opaque public identifier
	Username       string          `json:"username"`
	Accuracy       float64         `json:"accuracy"`
	TotalCorrect   int             `json:"totalCorrect"`
	TotalAttempted int             `json:"totalAttempted"`
	Matrix         ConfusionMatrix `json:"confusionMatrix"`
	CreatedAt      time.Time       `json:"createdAt"`

	// rowID is the internal insertion-order key used for cursor tie-breaks.
	// Not exposed outside the repository layer.
	rowID int64
}

// RowID returns the insertion-order key backing cursor pagination.
func (e LeaderboardEntry) RowID() int64 { return e.rowID }

// SetRowID is used by the repository layer when scanning rows.
func (e *LeaderboardEntry) SetRowID(id int64) { e.rowID = id }

// LeaderboardPage is one bounded window of the ranking, ordered by accuracy
// descending (insertion order breaks ties), plus the cursors needed to step
// to the adjacent pages.
type LeaderboardPage struct {
	Entries     []LeaderboardEntry `json:"entries"`
	StartCursor string             `json:"startCursor"`
	EndCursor   string             `json:"endCursor"`
}
