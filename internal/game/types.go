// internal/game/types.go
//
// Core type definitions for the Wordle game engine.
// Defines:
//   - Mark: per-letter result of a guess (exact/present/absent).
//   - Status: coarse game state (in_progress/won/lost).
//   - Row, Snapshot: the read-only view handed to renderers.

package game

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "exact":   letter is correct and in the correct position.
//   - "present": letter exists in the target at a different, unclaimed position.
//   - "absent":  letter does not appear in the target, or every instance is claimed.
type Mark string

const (
	MarkExact   Mark = "exact"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// Status is the state of a single game. Won and Lost are terminal.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Terminal reports whether no further submissions are accepted.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

// Row is one submitted guess with its feedback.
type Row struct {
	Guess string           `json:"guess"`
	Marks [WordLength]Mark `json:"marks"`
}

// Snapshot is everything a renderer needs to draw the board.
// Answer is only populated once the game is over.
type Snapshot struct {
	ID          string             `json:"id,omitempty"`
	Rows        []Row              `json:"rows"`
	Input       [WordLength]string `json:"input"`
	Focus       int                `json:"focus"`
	Status      Status             `json:"status"`
	Message     string             `json:"message,omitempty"`
	Attempts    int                `json:"attempts"`
	MaxAttempts int                `json:"maxAttempts"`
	Answer      string             `json:"answer,omitempty"`
}

// Outcome is the result of a submission attempt.
// Accepted is false when the submission was silently rejected.
type Outcome struct {
	Accepted bool   `json:"accepted"`
	Status   Status `json:"status"`
	Message  string `json:"message,omitempty"`
}
