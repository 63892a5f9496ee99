// internal/words/words.go
//
// Provides word list management for the solver.
//
// Responsibilities:
//   - Load answer and allowed guess lists from files or fall back to the embedded defaults.
//   - Keep sets for quick lookups (answers only, answers∪guesses).
//   - Hand the lists around by reference; nothing here is a package-level singleton.
//
// Word Lists:
//   - "answers": canonical solutions (exactly 5 lowercase letters), in file order.
//   - "allowed": valid guesses (always includes answers), in file order with
//     any answers missing from the guess file appended.
//
// Load behavior:
//   1. If both paths are set, load answers from the first and allowed guesses from the second.
//   2. If only the allowed path is set, use that file for both answers and allowed guesses.
//   3. Otherwise fall back to assets/answers.txt and assets/allowed.txt.
//
// Constraints:
//   • Words must be 5 alphabetic letters (a–z); anything else is dropped.
//   • Lists are normalized to lowercase and de-duplicated.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterbom/wordle-cheat/assets"
)

// Lists holds the immutable word lists for one process.
type Lists struct {
	Answers []string
	Allowed []string

	answersSet map[string]struct{}
	allowedSet map[string]struct{}
}

// Load reads the word lists from the given files, or the embedded defaults
// when both paths are empty.
func Load(answersPath, allowedPath string) (*Lists, error) {
	var ansList, allowList []string
	var err error

	switch {
	// Case 1: both lists provided
	case answersPath != "" && allowedPath != "":
		if ansList, err = readWordFile(answersPath); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(allowedPath); err != nil {
			return nil, err
		}

	// Case 2: only allowed file provided → use for both
	case allowedPath != "":
		if allowList, err = readWordFile(allowedPath); err != nil {
			return nil, err
		}
		ansList = allowList

	case answersPath != "":
		return nil, errors.New("words: answers file given without an allowed file")

	// Case 3: fallback to embedded defaults
	default:
		if ansList, err = assets.AnswersList(); err != nil {
			return nil, fmt.Errorf("words: embedded answers: %w", err)
		}
		if allowList, err = assets.AllowedList(); err != nil {
			return nil, fmt.Errorf("words: embedded allowed: %w", err)
		}
	}
	return New(normalize(ansList), normalize(allowList))
}

// New builds Lists from already normalized words. Answers are appended to
// the allowed list when missing from it.
func New(answers, allowed []string) (*Lists, error) {
	if len(answers) == 0 {
		return nil, errors.New("words: answers list is empty")
	}
	l := &Lists{
		Answers:    dedupe(answers),
		answersSet: toSet(answers),
	}
	l.Allowed = dedupe(append(append([]string{}, allowed...), answers...))
	l.allowedSet = toSet(l.Allowed)
	return l, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: %w", err)
	}
	defer f.Close()
	out, err := ReadWords(f)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return out, nil
}

// ReadWords scans one word per line, skipping blanks and # comments.
func ReadWords(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// normalize lowercases and keeps only valid 5-letter alphabetic words.
func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) == 5 && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

// dedupe keeps the first occurrence of every word.
func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, w := range list {
		if _, ok := seen[w]; ok {
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

// IsAllowed reports whether w is a valid guess (answers ∪ guesses).
func (l *Lists) IsAllowed(w string) bool {
	_, ok := l.allowedSet[strings.ToLower(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (l *Lists) IsAnswer(w string) bool {
	_, ok := l.answersSet[strings.ToLower(w)]
	return ok
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *Lists) Stats() (answersCount int, allowedCount int) {
	return len(l.Answers), len(l.Allowed)
}
