package models

// CumulativeStats is a player's all-time classification record. It is only
// ever mutated through MergeSession; totals stay derivable from the matrix
// (TotalAttempted == cell sum, TotalCorrect == diagonal sum).
type CumulativeStats struct {
	TotalCorrect   int             `json:"totalCorrect"`
	TotalAttempted int             `json:"totalAttempted"`
	Matrix         ConfusionMatrix `json:"cumulativeMatrix"`
}

// ZeroStats returns the stats a player starts with (and returns to on reset).
func ZeroStats() CumulativeStats {
	return CumulativeStats{Matrix: ZeroMatrix()}
}

// Clone returns an independent deep copy.
func (s CumulativeStats) Clone() CumulativeStats {
	return CumulativeStats{
		TotalCorrect:   s.TotalCorrect,
		TotalAttempted: s.TotalAttempted,
		Matrix:         s.Matrix.Clone(),
	}
}

// MergeSession folds a finished session into the cumulative record and
// returns the result. Neither input is modified.
func (s CumulativeStats) MergeSession(session SessionStats) CumulativeStats {
	return CumulativeStats{
		TotalCorrect:   s.TotalCorrect + session.TotalCorrect,
		TotalAttempted: s.TotalAttempted + session.TotalAttempted,
		Matrix:         Merge(s.Matrix, session.Matrix),
	}
}

// Accuracy returns the correct percentage, or 0 when nothing was attempted.
func (s CumulativeStats) Accuracy() float64 {
	if s.TotalAttempted == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalAttempted) * 100
}

// Consistent reports whether the totals agree with the matrix. A persisted
// slot that fails this check is treated as corrupt and replaced by zeroes.
func (s CumulativeStats) Consistent() bool {
	return s.Matrix.wellFormed() &&
		s.TotalAttempted == s.Matrix.Sum() &&
		s.TotalCorrect == s.Matrix.Diagonal()
}

// SessionStats has the same shape as CumulativeStats but is scoped to one
// quiz session. It is never persisted directly; it is merged into the
// cumulative record exactly once when the session concludes.
type SessionStats struct {
	TotalCorrect   int             `json:"totalCorrect"`
	TotalAttempted int             `json:"totalAttempted"`
	Matrix         ConfusionMatrix `json:"matrix"`
}

// ZeroSessionStats returns an empty session record.
func ZeroSessionStats() SessionStats {
	return SessionStats{Matrix: ZeroMatrix()}
}

// Record adds one answered question to the session.
func (s *SessionStats) Record(guess, actual Category) {
	s.TotalAttempted++
	if guess == actual {
		s.TotalCorrect++
	}
	s.Matrix.Increment(guess, actual)
}
