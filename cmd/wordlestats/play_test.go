package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterbom/wordle-cheat/internal/game"
	"github.com/peterbom/wordle-cheat/internal/stats"
)

func testGame(t *testing.T) game.Game {
	t.Helper()
	answers := []string{"cigar", "rebut", "sissy", "humph", "awake", "blush", "focal"}
	guesses := append([]string{"raise", "slate", "crane"}, answers...)
	g, ok := game.CreateGame(stats.RankedGuesses(stats.Distributions(answers), guesses), answers, guesses)
	require.True(t, ok)
	return g
}

func runPlay(t *testing.T, script ...string) string {
	t.Helper()
	var out strings.Builder
	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	require.NoError(t, play(context.Background(), testGame(t), stats.Ranker{}, in, &out))
	return out.String()
}

func TestPlaySolves(t *testing.T) {
	t.Parallel()
	out := runPlay(t, "guess cigar", "pattern +++++", "next", "next", "quit")
	assert.Contains(t, out, "turn 1: cigar  +++++  solved")
	assert.Contains(t, out, "turn 2: cigar  +++++  solved")
	assert.Contains(t, out, "possible: cigar")
	assert.Contains(t, out, "already solved")
	assert.NotContains(t, out, "turn 3")
}

func TestPlayRefusals(t *testing.T) {
	t.Parallel()
	out := runPlay(t,
		"guess zzzzz",
		"next",
		"toggle 9",
		"guess cigar",
		"pattern +++..",
		"pattern ++",
		"bogus",
	)
	assert.Contains(t, out, `"zzzzz" is not a guess for this turn`)
	assert.Contains(t, out, "feedback is still ambiguous")
	assert.Contains(t, out, "toggle takes a letter number 1-5")
	assert.Contains(t, out, "+++.. is impossible for cigar")
	assert.Contains(t, out, "want 5 symbols")
	assert.Contains(t, out, "commands:")
}

func TestPlayToggleAndUndo(t *testing.T) {
	t.Parallel()
	out := runPlay(t, "guess cigar", "toggle 1", "undo", "show")
	assert.Contains(t, out, "turn 1: cigar  .____")
	assert.NotContains(t, out, "turn 2")
}
