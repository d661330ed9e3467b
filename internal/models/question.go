package models

// Question is one image the player must classify. The actual category is
// only revealed to the player after they answer; ImagePath is an opaque
// asset reference served by the static file layer.
type Question struct {
	Number    int      `json:"number"`
	ImagePath string   `json:"imagePath"`
	Actual    Category `json:"-"`
}

// AnswerResult is the per-answer feedback returned to the player.
type AnswerResult struct {
	Correct bool         `json:"correct"`
	Actual  Category     `json:"actual"`
	Session SessionStats `json:"session"`
	// Done is true once the session reached its question budget and the
	// session results were folded into cumulative stats.
	Done bool `json:"done"`
	// Next is the question that follows, absent on the final answer.
	Next *Question `json:"next,omitempty"`
}
