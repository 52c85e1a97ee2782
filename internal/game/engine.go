// internal/game/engine.go
//
// Core game engine for a single Construction Wordle session.
// Responsibilities:
//   - Draw target words from a fixed vocabulary (6 attempts, 5 letters).
//   - Maintain the in-progress input slots (type, backspace).
//   - Validate and apply submissions, scoring them with the two-pass algorithm.
//   - Track state transitions: in_progress → won/lost, restart → in_progress.
//
// Notes:
//   - Invalid input is never an error: it is ignored and state is unchanged.
//   - An Engine is owned by one caller at a time; it does no locking.
//   - Target selection goes through a Picker so tests can make it deterministic.
package game

import (
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MaxAttempts is the number of guesses allowed per game.
	MaxAttempts = 6
	// WordLength is the number of letters per word and input slot count.
	WordLength = 5
)

// Outcome messages shown to the player.
const (
	msgWon        = "Correct! You've guessed the word."
	msgLostPrefix = "Out of attempts! The word was: "
)

var (
	// ErrEmptyVocabulary is returned by New when there is nothing to pick from.
	ErrEmptyVocabulary = errors.New("game: empty vocabulary")
	// ErrInvalidWord is returned by New for a vocabulary entry that is not
	// WordLength ASCII letters, or a fixed target outside the vocabulary.
	ErrInvalidWord = errors.New("game: invalid word")
)

// Picker chooses a target word from vocab. vocab is never empty.
type Picker func(vocab []string) string

// RandomPicker returns a Picker drawing uniformly from vocab using r.
// A nil r uses the runtime's global source.
func RandomPicker(r *mrand.Rand) Picker {
	return func(vocab []string) string {
		if r == nil {
			return vocab[mrand.IntN(len(vocab))]
		}
		return vocab[r.IntN(len(vocab))]
	}
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithPicker sets the target selection strategy.
func WithPicker(p Picker) Option {
	return func(e *Engine) { e.pick = p }
}

// WithTarget fixes the first game's target instead of picking one. The
// word must be in the vocabulary. Restart still goes through the Picker.
func WithTarget(word string) Option {
	return func(e *Engine) { e.fixed = strings.ToLower(strings.TrimSpace(word)) }
}

// WithID overrides the generated game identifier.
func WithID(id string) Option {
	return func(e *Engine) { e.id = id }
}

// Engine holds the state of a single game session.
type Engine struct {
	id      string
	vocab   []string
	pick    Picker
	fixed   string
	target  string
	guesses []string
	input   [WordLength]string
	status  Status
	message string
}

// New constructs an engine over vocab and starts the first game.
// The vocabulary is copied; callers may reuse their slice.
func New(vocab []string, opts ...Option) (*Engine, error) {
	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}
	e := &Engine{
		id:    uuid.NewString(),
		vocab: make([]string, len(vocab)),
		pick:  RandomPicker(nil),
	}
	for i, w := range vocab {
		w = strings.ToLower(w)
		if !validWord(w) {
			return nil, fmt.Errorf("%w: vocabulary entry %q", ErrInvalidWord, w)
		}
		e.vocab[i] = w
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fixed == "" {
		e.Restart()
		return e, nil
	}
	if !slices.Contains(e.vocab, e.fixed) {
		return nil, fmt.Errorf("%w: target %q not in vocabulary", ErrInvalidWord, e.fixed)
	}
	e.reset(e.fixed)
	e.fixed = ""
	return e, nil
}

// ID returns the game identifier.
func (e *Engine) ID() string { return e.id }

// Target returns the current target word.
func (e *Engine) Target() string { return e.target }

// Status returns the current game status.
func (e *Engine) Status() Status { return e.status }

// Message returns the outcome message, empty while in progress.
func (e *Engine) Message() string { return e.message }

// Guesses returns a copy of the submitted guesses, oldest first.
func (e *Engine) Guesses() []string { return append([]string(nil), e.guesses...) }

// Input returns the current input slots.
func (e *Engine) Input() [WordLength]string { return e.input }

// SelectTarget draws a word from the vocabulary without changing state.
func (e *Engine) SelectTarget() string {
	return strings.ToLower(e.pick(e.vocab))
}

// TypeChar sets input slot index from the last character of value.
// An empty value clears the slot; a non-letter leaves it unchanged.
// Returns whether the input changed.
func (e *Engine) TypeChar(index int, value string) bool {
	if e.status.Terminal() || index < 0 || index >= WordLength {
		return false
	}
	if value == "" {
		return e.setSlot(index, "")
	}
	r, _ := utf8.DecodeLastRuneInString(value)
	if !isLetter(r) {
		return false
	}
	return e.setSlot(index, strings.ToUpper(string(r)))
}

// Backspace clears slot index if it is filled, otherwise the slot before it.
// Returns whether the input changed.
func (e *Engine) Backspace(index int) bool {
	if e.status.Terminal() || index < 0 || index >= WordLength {
		return false
	}
	if e.input[index] != "" {
		return e.setSlot(index, "")
	}
	if index > 0 {
		return e.setSlot(index-1, "")
	}
	return false
}

func (e *Engine) setSlot(i int, v string) bool {
	if e.input[i] == v {
		return false
	}
	e.input[i] = v
	return true
}

// Submit applies the current input as a guess.
//
// Rejected (no state change, Accepted=false) when:
//   - the game is already won or lost;
//   - any slot is empty or not a single letter.
//
// State transitions, in order:
//   - guess equals the target → won;
//   - else the sixth guess → lost, message reveals the target;
//   - else still in progress.
//
// The input slots are cleared after every accepted submission.
func (e *Engine) Submit() Outcome {
	if e.status.Terminal() {
		return e.outcome(false)
	}
	var b strings.Builder
	for _, s := range e.input {
		if utf8.RuneCountInString(s) != 1 {
			return e.outcome(false)
		}
		r, _ := utf8.DecodeRuneInString(s)
		if !isLetter(r) {
			return e.outcome(false)
		}
		b.WriteString(s)
	}
	guess := strings.ToLower(b.String())
	e.guesses = append(e.guesses, guess)

	switch {
	case allExact(Score(guess, e.target)):
		e.status, e.message = StatusWon, msgWon
	case len(e.guesses) >= MaxAttempts:
		e.status, e.message = StatusLost, msgLostPrefix+e.target
	}
	e.input = [WordLength]string{}
	return e.outcome(true)
}

// ApplyGuess fills the input with word and submits it.
// Anything other than exactly WordLength characters is ignored.
func (e *Engine) ApplyGuess(word string) Outcome {
	word = strings.TrimSpace(word)
	if e.status.Terminal() || utf8.RuneCountInString(word) != WordLength {
		return e.outcome(false)
	}
	prev := e.input
	i := 0
	for _, r := range word {
		e.input[i] = strings.ToUpper(string(r))
		i++
	}
	out := e.Submit()
	if !out.Accepted {
		e.input = prev
	}
	return out
}

// Restart draws a new target and resets every other field.
// The new target may equal the previous one.
func (e *Engine) Restart() {
	e.reset(e.SelectTarget())
}

func (e *Engine) reset(target string) {
	e.target = target
	e.guesses = nil
	e.input = [WordLength]string{}
	e.status = StatusInProgress
	e.message = ""
}

// Focus returns the first empty input slot, or -1 when every slot is filled
// or the game is over.
func (e *Engine) Focus() int {
	if e.status.Terminal() {
		return -1
	}
	for i, s := range e.input {
		if s == "" {
			return i
		}
	}
	return -1
}

// Snapshot returns the render view of the current state.
func (e *Engine) Snapshot() Snapshot {
	rows := make([]Row, 0, len(e.guesses))
	for _, g := range e.guesses {
		rows = append(rows, Row{Guess: g, Marks: Score(g, e.target)})
	}
	s := Snapshot{
		ID:          e.id,
		Rows:        rows,
		Input:       e.input,
		Focus:       e.Focus(),
		Status:      e.status,
		Message:     e.message,
		Attempts:    len(e.guesses),
		MaxAttempts: MaxAttempts,
	}
	if e.status.Terminal() {
		s.Answer = e.target
	}
	return s
}

func (e *Engine) outcome(accepted bool) Outcome {
	return Outcome{Accepted: accepted, Status: e.status, Message: e.message}
}

// validWord reports whether w is WordLength ASCII letters.
func validWord(w string) bool {
	if len(w) != WordLength {
		return false
	}
	for i := 0; i < len(w); i++ {
		if !isLetter(rune(w[i])) {
			return false
		}
	}
	return true
}

// isLetter reports whether r is an ASCII letter.
func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
