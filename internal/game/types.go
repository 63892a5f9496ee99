// internal/game/types.go
//
// Core type definitions for the solver's turn state machine.
// Defines:
//   - Mark: per-letter rendering of a match level (hit/present/miss/unknown).
//   - Turn: one step of an interactive solve.
//   - Game: the ordered turns plus the immutable word lists.

package game

import "github.com/peterbom/wordle-cheat/internal/stats"

// Mark represents the feedback for a single letter in JSON views.
// Possible values:
//   - "hit":     letter is correct and in the correct position.
//   - "present": letter exists in the answer but in a different position.
//   - "miss":    letter does not exist in the answer (or all copies are used).
//   - "unknown": the player has not entered feedback for this letter yet.
type Mark string

const (
	MarkHit     Mark = "hit"
	MarkPresent Mark = "present"
	MarkMiss    Mark = "miss"
	MarkUnknown Mark = "unknown"
)

// MarkOf maps a match level to its Mark.
func MarkOf(level stats.MatchLevel) Mark {
	switch level {
	case stats.Exact:
		return MarkHit
	case stats.Partial:
		return MarkPresent
	case stats.None:
		return MarkMiss
	default:
		return MarkUnknown
	}
}

// MarksOf renders every slot of a partial pattern.
func MarksOf(partial stats.PartialPattern) []Mark {
	out := make([]Mark, len(partial))
	for i, l := range partial {
		out[i] = MarkOf(l)
	}
	return out
}

// Turn holds the state of one solve step. Partial and Resolved are the only
// fields that change within a turn, and they change by replacing the Turn.
type Turn struct {
	Guess               *stats.GuessStats            // active guess
	PossibleAnswerStats []*stats.GuessStats          // ranked guesses that are still possible answers
	Answers             []stats.LetterDistribution   // answers still consistent with earlier turns
	PossiblePatterns    []stats.Pattern              // patterns the active guess can produce
	Partial             stats.PartialPattern         // feedback entered so far
	Resolved            *stats.Pattern               // set once Partial matches exactly one pattern
	Ranking             []*stats.GuessStats          // full ranking for this turn, best first
	Lookup              map[string]*stats.GuessStats // Ranking by guess word
}

// Game is an ordered, append-only sequence of turns. Answers and Guesses are
// shared, read-only word lists.
type Game struct {
	Turns   []Turn
	Answers []string
	Guesses []string
}
