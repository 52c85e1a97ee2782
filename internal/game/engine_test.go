package game

import (
	"errors"
	mrand "math/rand/v2"
	"strings"
	"testing"
)

var testVocab = []string{"crane", "steel", "rebar", "brick", "drill"}

func newTestEngine(t *testing.T, target string) *Engine {
	t.Helper()
	e, err := New(testVocab, WithTarget(target), WithPicker(RandomPicker(mrand.New(mrand.NewPCG(1, 2)))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func typeWord(e *Engine, w string) {
	for i, r := range w {
		e.TypeChar(i, string(r))
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("New(nil) error = %v, want ErrEmptyVocabulary", err)
	}
	if _, err := New([]string{"crane", "toolong"}); !errors.Is(err, ErrInvalidWord) {
		t.Errorf("New(bad vocab) error = %v, want ErrInvalidWord", err)
	}
	for _, target := range []string{"c4ane", "plumb"} {
		if _, err := New(testVocab, WithTarget(target)); !errors.Is(err, ErrInvalidWord) {
			t.Errorf("New(WithTarget(%q)) error = %v, want ErrInvalidWord", target, err)
		}
	}
}

func TestNewInitialState(t *testing.T) {
	e, err := New([]string{"CRANE"}, WithID("g1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.ID() != "g1" {
		t.Errorf("ID = %q, want g1", e.ID())
	}
	if e.Target() != "crane" {
		t.Errorf("Target = %q, want crane", e.Target())
	}
	if e.Status() != StatusInProgress || e.Message() != "" || len(e.Guesses()) != 0 {
		t.Errorf("unexpected initial state: %+v", e.Snapshot())
	}
	if e.Input() != [WordLength]string{} {
		t.Errorf("Input = %q, want empty", e.Input())
	}
	if e.Focus() != 0 {
		t.Errorf("Focus = %d, want 0", e.Focus())
	}
}

func TestRandomPickerIsDeterministicWithSeed(t *testing.T) {
	a := RandomPicker(mrand.New(mrand.NewPCG(7, 7)))
	b := RandomPicker(mrand.New(mrand.NewPCG(7, 7)))
	for i := 0; i < 20; i++ {
		wa, wb := a(testVocab), b(testVocab)
		if wa != wb {
			t.Fatalf("draw %d: %q != %q", i, wa, wb)
		}
	}
}

func TestRandomPickerCoversVocabulary(t *testing.T) {
	pick := RandomPicker(mrand.New(mrand.NewPCG(3, 4)))
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		w := pick(testVocab)
		seen[w] = true
	}
	for _, w := range testVocab {
		if !seen[w] {
			t.Errorf("word %q never drawn in 500 picks", w)
		}
	}
}

func TestTypeChar(t *testing.T) {
	e := newTestEngine(t, "crane")

	if !e.TypeChar(0, "c") {
		t.Fatal("TypeChar(0, c) reported no change")
	}
	if got := e.Input()[0]; got != "C" {
		t.Errorf("slot 0 = %q, want C", got)
	}
	// last character wins, like an input box receiving a second keystroke
	e.TypeChar(1, "xr")
	if got := e.Input()[1]; got != "R" {
		t.Errorf("slot 1 = %q, want R", got)
	}
	if e.TypeChar(2, "7") || e.TypeChar(2, "é") {
		t.Error("non-letter accepted")
	}
	if e.TypeChar(-1, "a") || e.TypeChar(WordLength, "a") {
		t.Error("out-of-range index accepted")
	}
	if e.TypeChar(0, "C") {
		t.Error("retyping the same letter reported a change")
	}
	if !e.TypeChar(0, "") || e.Input()[0] != "" {
		t.Error("empty value did not clear slot")
	}
	if e.Focus() != 0 {
		t.Errorf("Focus = %d, want 0", e.Focus())
	}
}

func TestBackspace(t *testing.T) {
	e := newTestEngine(t, "crane")
	typeWord(e, "cra")

	// slot 3 is empty, so the previous slot is cleared
	if !e.Backspace(3) {
		t.Fatal("Backspace(3) reported no change")
	}
	if want := [WordLength]string{"C", "R", "", "", ""}; e.Input() != want {
		t.Errorf("Input = %q, want %q", e.Input(), want)
	}
	// slot 1 is filled, so it is cleared itself
	e.Backspace(1)
	if want := [WordLength]string{"C", "", "", "", ""}; e.Input() != want {
		t.Errorf("Input = %q, want %q", e.Input(), want)
	}
	e.Backspace(0)
	if e.Backspace(0) {
		t.Error("Backspace on empty first slot reported a change")
	}
	if e.Backspace(9) {
		t.Error("out-of-range Backspace reported a change")
	}
}

func TestSubmitIncompleteIsNoop(t *testing.T) {
	e := newTestEngine(t, "crane")
	typeWord(e, "cran")

	out := e.Submit()
	if out.Accepted {
		t.Fatal("incomplete guess accepted")
	}
	if len(e.Guesses()) != 0 || e.Status() != StatusInProgress {
		t.Errorf("state changed: %+v", e.Snapshot())
	}
	if want := [WordLength]string{"C", "R", "A", "N", ""}; e.Input() != want {
		t.Errorf("input cleared on rejected submit: %q", e.Input())
	}
}

func TestSubmitWin(t *testing.T) {
	e := newTestEngine(t, "crane")
	typeWord(e, "CRANE")

	out := e.Submit()
	if !out.Accepted || out.Status != StatusWon {
		t.Fatalf("Submit = %+v, want accepted win", out)
	}
	if out.Message != "Correct! You've guessed the word." {
		t.Errorf("Message = %q", out.Message)
	}
	if e.Input() != [WordLength]string{} {
		t.Errorf("input not cleared: %q", e.Input())
	}
	if got := e.Guesses(); len(got) != 1 || got[0] != "crane" {
		t.Errorf("Guesses = %q, want [crane]", got)
	}
	if e.Focus() != -1 {
		t.Errorf("Focus = %d after win, want -1", e.Focus())
	}
}

func TestSubmitIncorrectStaysInProgress(t *testing.T) {
	e := newTestEngine(t, "crane")
	typeWord(e, "trace")
	out := e.Submit()
	if !out.Accepted || out.Status != StatusInProgress || out.Message != "" {
		t.Fatalf("Submit = %+v", out)
	}
	if e.Input() != [WordLength]string{} {
		t.Errorf("input not cleared: %q", e.Input())
	}
}

func TestSixMissesLose(t *testing.T) {
	e := newTestEngine(t, "crane")
	for i := 0; i < MaxAttempts; i++ {
		if e.Status() != StatusInProgress {
			t.Fatalf("status %q before guess %d", e.Status(), i+1)
		}
		out := e.ApplyGuess("brick")
		if !out.Accepted {
			t.Fatalf("guess %d rejected", i+1)
		}
	}
	if e.Status() != StatusLost {
		t.Fatalf("Status = %q, want lost", e.Status())
	}
	if !strings.Contains(e.Message(), "crane") {
		t.Errorf("Message %q does not reveal target", e.Message())
	}
	if len(e.Guesses()) != MaxAttempts {
		t.Errorf("len(Guesses) = %d, want %d", len(e.Guesses()), MaxAttempts)
	}
}

func TestWinOnLastAttempt(t *testing.T) {
	e := newTestEngine(t, "crane")
	for i := 0; i < MaxAttempts-1; i++ {
		e.ApplyGuess("steel")
	}
	if out := e.ApplyGuess("crane"); out.Status != StatusWon {
		t.Errorf("sixth guess correct: status = %q, want won", out.Status)
	}
}

func TestTerminalRejectsInput(t *testing.T) {
	for _, tc := range []struct {
		name  string
		setup func(e *Engine)
		want  Status
	}{
		{"won", func(e *Engine) { e.ApplyGuess("crane") }, StatusWon},
		{"lost", func(e *Engine) {
			for i := 0; i < MaxAttempts; i++ {
				e.ApplyGuess("drill")
			}
		}, StatusLost},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, "crane")
			tc.setup(e)
			before := e.Snapshot()

			if e.TypeChar(0, "a") || e.Backspace(0) {
				t.Error("input edited after game over")
			}
			if out := e.ApplyGuess("crane"); out.Accepted || out.Status != tc.want {
				t.Errorf("ApplyGuess after game over = %+v", out)
			}
			if out := e.Submit(); out.Accepted {
				t.Error("Submit accepted after game over")
			}
			after := e.Snapshot()
			if len(after.Rows) != len(before.Rows) || after.Status != before.Status || after.Message != before.Message {
				t.Errorf("state changed: before %+v after %+v", before, after)
			}
		})
	}
}

func TestApplyGuessValidation(t *testing.T) {
	e := newTestEngine(t, "crane")
	e.TypeChar(0, "s")
	for _, w := range []string{"", "cran", "cranes", "cr4ne", "crän!"} {
		if out := e.ApplyGuess(w); out.Accepted {
			t.Errorf("ApplyGuess(%q) accepted", w)
		}
	}
	if len(e.Guesses()) != 0 {
		t.Errorf("Guesses = %q, want none", e.Guesses())
	}
	if e.Input()[0] != "S" {
		t.Errorf("rejected ApplyGuess clobbered input: %q", e.Input())
	}
	if out := e.ApplyGuess("  Brick "); !out.Accepted || e.Guesses()[0] != "brick" {
		t.Errorf("ApplyGuess(Brick) = %+v, guesses %q", out, e.Guesses())
	}
}

func TestRestart(t *testing.T) {
	e, err := New([]string{"crane"})
	if err != nil {
		t.Fatal(err)
	}
	e.ApplyGuess("crane")
	e.Restart()

	s := e.Snapshot()
	if s.Status != StatusInProgress || len(s.Rows) != 0 || s.Message != "" || s.Answer != "" {
		t.Errorf("Snapshot after restart = %+v", s)
	}
	if s.Input != [WordLength]string{} {
		t.Errorf("input not cleared: %q", s.Input)
	}
	// the only word is drawn again; repeats are allowed
	if e.Target() != "crane" {
		t.Errorf("Target = %q, want crane", e.Target())
	}
}

func TestRestartUsesPicker(t *testing.T) {
	calls := 0
	pick := func(vocab []string) string {
		calls++
		return vocab[calls%len(vocab)]
	}
	e, err := New(testVocab, WithPicker(pick), WithTarget("drill"))
	if err != nil {
		t.Fatal(err)
	}
	if e.Target() != "drill" {
		t.Fatalf("Target = %q, want fixed drill", e.Target())
	}
	if calls != 0 {
		t.Fatalf("picker called %d times for a fixed target", calls)
	}
	e.Restart()
	if e.Target() != testVocab[calls%len(testVocab)] {
		t.Errorf("Target after restart = %q", e.Target())
	}
	if e.SelectTarget() == "" || e.Target() == "" {
		t.Error("SelectTarget returned empty word")
	}
}

func TestSnapshot(t *testing.T) {
	e := newTestEngine(t, "crane")
	e.ApplyGuess("trace")
	e.TypeChar(0, "b")

	s := e.Snapshot()
	if s.Attempts != 1 || s.MaxAttempts != MaxAttempts {
		t.Errorf("Attempts = %d/%d", s.Attempts, s.MaxAttempts)
	}
	if len(s.Rows) != 1 || s.Rows[0].Guess != "trace" {
		t.Fatalf("Rows = %+v", s.Rows)
	}
	if want := [WordLength]Mark{A, E, E, P, E}; s.Rows[0].Marks != want {
		t.Errorf("Marks = %v, want %v", s.Rows[0].Marks, want)
	}
	if s.Input[0] != "B" || s.Focus != 1 {
		t.Errorf("Input = %q, Focus = %d", s.Input, s.Focus)
	}
	if s.Answer != "" {
		t.Errorf("Answer leaked while in progress: %q", s.Answer)
	}

	for i := 0; i < MaxAttempts-1; i++ {
		e.ApplyGuess("steel")
	}
	if s := e.Snapshot(); s.Answer != "crane" || s.Status != StatusLost {
		t.Errorf("terminal snapshot = %+v", s)
	}
}

func TestApply(t *testing.T) {
	e := newTestEngine(t, "crane")
	events := []Event{
		{Type: EventChar, Index: 0, Char: "c"},
		{Type: EventChar, Index: 1, Char: "r"},
		{Type: EventChar, Index: 2, Char: "a"},
		{Type: EventChar, Index: 3, Char: "x"},
		{Type: EventBackspace, Index: 3},
		{Type: EventChar, Index: 3, Char: "n"},
		{Type: EventChar, Index: 4, Char: "e"},
		{Type: EventSubmit},
	}
	for _, ev := range events {
		if _, err := e.Apply(ev); err != nil {
			t.Fatalf("Apply(%+v): %v", ev, err)
		}
	}
	if e.Status() != StatusWon {
		t.Fatalf("Status = %q, want won", e.Status())
	}

	changed, err := e.Apply(Event{Type: EventSubmit})
	if err != nil || changed {
		t.Errorf("submit after win: changed=%v err=%v", changed, err)
	}
	if changed, _ := e.Apply(Event{Type: EventRestart}); !changed || e.Status() != StatusInProgress {
		t.Errorf("restart: changed=%v status=%q", changed, e.Status())
	}
	if _, err := e.Apply(Event{Type: "jump"}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("unknown event error = %v, want ErrUnknownEvent", err)
	}
}
