// internal/words/words.go
//
// Provides the fixed vocabulary the game engine draws target words from.
//
// Responsibilities:
//   - Load the vocabulary from an environment-provided file or fall back to the
//     embedded construction theme list (assets/vocabulary.txt).
//   - Keep a lookup set for membership checks.
//   - Expose Vocabulary, Contains and Stats.
//
// Initialization behavior (Init):
//  1. If WORDS_FILE is set, load the words from that file.
//  2. Otherwise use the embedded list.
//
// Constraints:
//   • Words must be 5 alphabetic letters (a–z); anything else is dropped.
//   • Lists are normalized to lowercase and de-duplicated in order.
//   • Initialization is run once (sync.Once).
//   • The vocabulary is immutable once loaded; callers get copies.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/construction-wordle/assets"
)

// Length is the number of letters in every vocabulary word.
const Length = 5

// ErrEmptyVocabulary is returned when no valid word survives loading.
var ErrEmptyVocabulary = errors.New("words: vocabulary is empty")

var (
	initOnce   sync.Once
	vocabulary []string
	vocabSet   map[string]struct{}
	initialErr error
)

// Init loads the vocabulary exactly once.
// Returns an error if the file cannot be read or the list ends up empty.
func Init() error {
	initOnce.Do(func() {
		var list []string
		var err error
		if path := os.Getenv("WORDS_FILE"); path != "" {
			list, err = ReadFile(path)
		} else {
			list, err = embedded()
		}
		if err != nil {
			initialErr = err
			return
		}
		if len(list) == 0 {
			initialErr = ErrEmptyVocabulary
			return
		}
		vocabulary = list
		vocabSet = toSet(list)
	})
	return initialErr
}

// embedded returns the normalized built-in list.
func embedded() ([]string, error) {
	raw, err := assets.VocabularyList()
	if err != nil {
		return nil, fmt.Errorf("words: read embedded list: %w", err)
	}
	return Normalize(raw), nil
}

// ReadFile loads one word per line from a file, applying Normalize.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()
	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return list, nil
}

// Parse reads one word per line from r. Blank lines and lines starting with
// '#' are skipped.
func Parse(r io.Reader) ([]string, error) {
	var raw []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw = append(raw, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return Normalize(raw), nil
}

// Normalize lowercases and trims each entry, keeps only valid five-letter
// words and drops duplicates while preserving first-seen order.
func Normalize(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, w := range list {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) != Length || !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Vocabulary returns a copy of the loaded words (nil before Init).
func Vocabulary() []string {
	return append([]string(nil), vocabulary...)
}

// Contains reports whether w is part of the vocabulary.
func Contains(w string) bool {
	_, ok := vocabSet[strings.ToLower(w)]
	return ok
}

// Stats returns the number of loaded words.
func Stats() int {
	return len(vocabulary)
}
