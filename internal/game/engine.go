// internal/game/engine.go
//
// Turn state machine for the interactive solver.
// Responsibilities:
//   - Seed the first turn from a precomputed ranking.
//   - Change the active guess and collect per-letter feedback.
//   - Advance to a freshly ranked turn once feedback is unambiguous.
//   - Undo the last turn.
//
// Every operation is a reducer: it returns a new Game and leaves the receiver
// untouched. Contradictory or incomplete input is a no-op, never an error.

package game

import (
	"context"
	"slices"

	"github.com/peterbom/wordle-cheat/internal/stats"
)

// CreateGame seeds turn 1 with the top-ranked guess. It reports false when
// ranking is empty; no game is possible then.
func CreateGame(ranking []*stats.GuessStats, allowedAnswers, allowedGuesses []string) (Game, bool) {
	if len(ranking) == 0 {
		return Game{}, false
	}
	first := newTurn(ranking, stats.Distributions(allowedAnswers))
	return Game{
		Turns:   []Turn{first},
		Answers: allowedAnswers,
		Guesses: allowedGuesses,
	}, true
}

// newTurn builds a turn over answers from a non-empty ranking.
func newTurn(ranking []*stats.GuessStats, answers []stats.LetterDistribution) Turn {
	answerSet := make(map[string]struct{}, len(answers))
	for i := range answers {
		answerSet[stats.WordOf(answers[i])] = struct{}{}
	}
	var possible []*stats.GuessStats
	for _, gs := range ranking {
		if _, ok := answerSet[gs.Guess]; ok {
			possible = append(possible, gs)
		}
	}
	top := ranking[0]
	return Turn{
		Guess:               top,
		PossibleAnswerStats: possible,
		Answers:             answers,
		PossiblePatterns:    stats.PossiblePatterns(top),
		Partial:             stats.UnknownPattern(),
		Ranking:             ranking,
		Lookup:              stats.AsLookup(ranking),
	}
}

// Current returns the last turn. The game must have at least one turn.
func (g Game) Current() Turn {
	return g.Turns[len(g.Turns)-1]
}

// Solved reports whether the current turn's feedback is all hits.
func (g Game) Solved() bool {
	if len(g.Turns) == 0 {
		return false
	}
	r := g.Current().Resolved
	return r != nil && *r == stats.AllExact
}

// Over reports whether the game is solved with a single answer left.
// Advancing from there would only repeat the last turn.
func (g Game) Over() bool {
	return g.Solved() && len(g.Current().Answers) <= 1
}

// withCurrent returns a copy of g whose last turn is t.
func (g Game) withCurrent(t Turn) Game {
	turns := slices.Clone(g.Turns)
	turns[len(turns)-1] = t
	g.Turns = turns
	return g
}

// SetGuess makes word the active guess and clears any entered feedback.
// Words missing from the turn's ranking leave the game unchanged.
func (g Game) SetGuess(word string) Game {
	if len(g.Turns) == 0 {
		return g
	}
	t := g.Current()
	gs, ok := t.Lookup[word]
	if !ok {
		return g
	}
	t.Guess = gs
	t.PossiblePatterns = stats.PossiblePatterns(gs)
	t.Partial = stats.UnknownPattern()
	t.Resolved = nil
	return g.withCurrent(t)
}

// nextLevel is the toggle cycle Unknown → None → Partial → Exact → Unknown.
func nextLevel(l stats.MatchLevel) stats.MatchLevel {
	switch l {
	case stats.Unknown:
		return stats.None
	case stats.None:
		return stats.Partial
	case stats.Partial:
		return stats.Exact
	default:
		return stats.Unknown
	}
}

// TogglePartialPattern advances the level at position along the toggle
// cycle, skipping levels no possible pattern agrees with. Unknown always
// ends the search.
func (g Game) TogglePartialPattern(position int) Game {
	if len(g.Turns) == 0 || position < 0 || position >= stats.WordLen {
		return g
	}
	t := g.Current()
	partial := t.Partial
	level := partial[position]
	for {
		level = nextLevel(level)
		partial[position] = level
		if level == stats.Unknown || len(stats.MatchingPatterns(t.PossiblePatterns, partial)) > 0 {
			break
		}
	}
	t.Partial = partial
	t.Resolved = resolve(t.PossiblePatterns, partial)
	return g.withCurrent(t)
}

func resolve(patterns []stats.Pattern, partial stats.PartialPattern) *stats.Pattern {
	matches := stats.MatchingPatterns(patterns, partial)
	if len(matches) != 1 {
		return nil
	}
	p := matches[0]
	return &p
}

// SetPattern enters complete feedback in one step. Patterns the active guess
// cannot produce leave the game unchanged.
func (g Game) SetPattern(p stats.Pattern) Game {
	if len(g.Turns) == 0 {
		return g
	}
	t := g.Current()
	if _, found := slices.BinarySearch(t.PossiblePatterns, p); !found {
		return g
	}
	t.Partial = stats.PartialOf(p)
	t.Resolved = &p
	return g.withCurrent(t)
}

// SetNextWord advances to a new turn using a single-goroutine ranker.
func (g Game) SetNextWord() Game {
	next, _ := g.SetNextWordContext(context.Background(), stats.Ranker{})
	return next
}

// SetNextWordContext narrows the answers to those producing the resolved
// pattern against the active guess, ranks them with r and appends the new
// turn. It is a no-op while feedback is ambiguous, when no answer matches and
// once the game is over (see Over). The only error is a cancelled ctx, with g
// returned unchanged.
func (g Game) SetNextWordContext(ctx context.Context, r stats.Ranker) (Game, error) {
	if len(g.Turns) == 0 || g.Over() {
		return g, nil
	}
	t := g.Current()
	if t.Resolved == nil {
		return g, nil
	}
	resolved := *t.Resolved

	var remaining []stats.LetterDistribution
	for i := range t.Answers {
		if stats.FeedbackOf(t.Guess.Guess, &t.Answers[i]) == resolved {
			remaining = append(remaining, t.Answers[i])
		}
	}
	if len(remaining) == 0 {
		return g, nil
	}

	ranking, err := r.Rank(ctx, remaining, g.Guesses)
	if err != nil {
		return g, err
	}
	if len(ranking) == 0 {
		return g, nil
	}

	next := newTurn(ranking, remaining)
	if len(remaining) == 1 {
		next.Partial = stats.ExactPattern()
		solved := stats.AllExact
		next.Resolved = &solved
	}
	g.Turns = append(slices.Clip(g.Turns), next)
	return g, nil
}

// DeleteLastTurn removes the newest turn. The first turn is never removed.
func (g Game) DeleteLastTurn() Game {
	if len(g.Turns) <= 1 {
		return g
	}
	g.Turns = slices.Clip(g.Turns[:len(g.Turns)-1])
	return g
}
