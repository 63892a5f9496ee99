package game

import (
	"context"
	"errors"

	"github.com/peterbom/wordle-cheat/internal/stats"
)

var (
	// ErrNoProgress is returned when the true feedback for a hidden answer
	// cannot be entered or does not narrow the game, typically because the
	// answer is not in the game's answer list.
	ErrNoProgress = errors.New("game: feedback does not advance the game")
	// ErrTooManyTurns is returned when maxTurns guesses did not find the answer.
	ErrTooManyTurns = errors.New("game: answer not found within the turn limit")
)

// Simulate plays g against a known answer, always taking the top-ranked
// guess and entering the true feedback. It returns the guesses made, ending
// with the answer on success.
func Simulate(ctx context.Context, g Game, answer string, r stats.Ranker, maxTurns int) ([]string, error) {
	if len(g.Turns) == 0 {
		return nil, ErrNoProgress
	}
	d := stats.DistributionOf(answer)
	var path []string
	for len(path) < maxTurns {
		t := g.Current()
		guess := t.Guess.Guess
		path = append(path, guess)
		feedback := stats.FeedbackOf(guess, &d)
		if feedback == stats.AllExact {
			return path, nil
		}

		entered := g.SetPattern(feedback)
		if res := entered.Current().Resolved; res == nil || *res != feedback {
			return path, ErrNoProgress
		}
		next, err := entered.SetNextWordContext(ctx, r)
		if err != nil {
			return path, err
		}
		if len(next.Turns) == len(g.Turns) {
			return path, ErrNoProgress
		}
		g = next
	}
	return path, ErrTooManyTurns
}
