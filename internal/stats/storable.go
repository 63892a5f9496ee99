// internal/stats/storable.go
//
// Index-based form of a ranking for caching and transport. Answer groups are
// replaced by ordinals into the immutable answer list, and the per-guess map is
// flattened into parallel arrays.

package stats

import (
	"errors"
	"fmt"
)

// Storable is the serialised ranking. Field names match the cache artifact.
type Storable struct {
	AllowedAnswers []string    `json:"allowedAnswers"`
	OrderedGuesses []string    `json:"orderedGuesses"`
	GuessPatterns  [][]Pattern `json:"guessPatterns"`
	// GuessPatternAnswerIndices may be omitted when groups are recomputed
	// per turn instead of cached.
	GuessPatternAnswerIndices [][][]int `json:"guessPatternAnswerIndices,omitempty"`
	Averages                  []float64 `json:"averages"`
	StdDevs                   []float64 `json:"stdDevs"`
}

// ToStorable flattens ranked into index form. The ranking must have been
// computed against the distributions of allAnswers, in order, so that group
// indices are positions in allAnswers.
func ToStorable(ranked []*GuessStats, allAnswers []string) Storable {
	s := Storable{
		AllowedAnswers:            allAnswers,
		OrderedGuesses:            make([]string, len(ranked)),
		GuessPatterns:             make([][]Pattern, len(ranked)),
		GuessPatternAnswerIndices: make([][][]int, len(ranked)),
		Averages:                  make([]float64, len(ranked)),
		StdDevs:                   make([]float64, len(ranked)),
	}
	for gi, gs := range ranked {
		patterns := PossiblePatterns(gs)
		indices := make([][]int, len(patterns))
		for pi, p := range patterns {
			group := gs.Group(p)
			idx := make([]int, len(group))
			for k, ai := range group {
				if int(ai) >= len(allAnswers) {
					panic(fmt.Sprintf("stats: guess %q groups answer %d of %d", gs.Guess, ai, len(allAnswers)))
				}
				idx[k] = int(ai)
			}
			indices[pi] = idx
		}
		s.OrderedGuesses[gi] = gs.Guess
		s.GuessPatterns[gi] = patterns
		s.GuessPatternAnswerIndices[gi] = indices
		s.Averages[gi] = gs.Mean
		s.StdDevs[gi] = gs.StdDev
	}
	return s
}

// Validate checks that the parallel arrays line up, every guess is a
// five-letter a–z word, patterns are ascending and in range, and every answer
// index is in range. Storables read from outside the process should be
// validated before FromStorable.
func (s Storable) Validate() error {
	n := len(s.OrderedGuesses)
	if len(s.GuessPatterns) != n || len(s.Averages) != n || len(s.StdDevs) != n {
		return errors.New("stats: storable arrays differ in length")
	}
	for _, a := range s.AllowedAnswers {
		if !ValidWord(a) {
			return fmt.Errorf("stats: malformed answer %q", a)
		}
	}
	for gi, guess := range s.OrderedGuesses {
		if !ValidWord(guess) {
			return fmt.Errorf("stats: malformed guess %q", guess)
		}
		patterns := s.GuessPatterns[gi]
		for pi, p := range patterns {
			if p >= NumPatterns {
				return fmt.Errorf("stats: guess %q has pattern %d out of range", guess, p)
			}
			if pi > 0 && patterns[pi-1] >= p {
				return fmt.Errorf("stats: guess %q patterns are not ascending", guess)
			}
		}
	}
	if s.GuessPatternAnswerIndices == nil {
		return nil
	}
	if len(s.GuessPatternAnswerIndices) != n {
		return errors.New("stats: storable answer indices differ in length")
	}
	for gi, patterns := range s.GuessPatterns {
		if len(s.GuessPatternAnswerIndices[gi]) != len(patterns) {
			return fmt.Errorf("stats: guess %q has %d patterns but %d index lists",
				s.OrderedGuesses[gi], len(patterns), len(s.GuessPatternAnswerIndices[gi]))
		}
		for pi := range patterns {
			for _, ai := range s.GuessPatternAnswerIndices[gi][pi] {
				if ai < 0 || ai >= len(s.AllowedAnswers) {
					return fmt.Errorf("stats: guess %q references answer %d of %d",
						s.OrderedGuesses[gi], ai, len(s.AllowedAnswers))
				}
			}
		}
	}
	return nil
}

// FromStorable rebuilds the ranking. IsPossibleAnswer is membership in
// s.AllowedAnswers. Without answer indices the groups are left empty while
// patterns and statistics are kept.
func FromStorable(s Storable) []*GuessStats {
	answerSet := make(map[string]struct{}, len(s.AllowedAnswers))
	for _, a := range s.AllowedAnswers {
		answerSet[a] = struct{}{}
	}

	out := make([]*GuessStats, len(s.OrderedGuesses))
	for gi, guess := range s.OrderedGuesses {
		patterns := s.GuessPatterns[gi]
		_, possible := answerSet[guess]
		gs := &GuessStats{
			Guess:            guess,
			IsPossibleAnswer: possible,
			Patterns:         patterns,
			Mean:             s.Averages[gi],
			StdDev:           s.StdDevs[gi],
		}
		if s.GuessPatternAnswerIndices != nil {
			lists := s.GuessPatternAnswerIndices[gi]
			total := 0
			for _, l := range lists {
				total += len(l)
			}
			gs.members = make([]int32, 0, total)
			gs.bounds = make([]int32, 1, len(lists)+1)
			for _, l := range lists {
				for _, ai := range l {
					gs.members = append(gs.members, int32(ai))
				}
				gs.bounds = append(gs.bounds, int32(len(gs.members)))
			}
		}
		out[gi] = gs
	}
	return out
}

// AsLookup indexes ranked by guess word. Duplicate words are a caller error;
// the last one wins.
func AsLookup(ranked []*GuessStats) map[string]*GuessStats {
	m := make(map[string]*GuessStats, len(ranked))
	for _, gs := range ranked {
		m[gs.Guess] = gs
	}
	return m
}
