package stats

import (
	"context"
	"math"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAnswers = []string{
		"cigar", "rebut", "sissy", "humph", "awake", "blush", "focal", "evade",
		"naval", "serve", "heath", "dwarf", "model", "karma", "stink", "grade",
		"quiet", "bench", "abate", "feign",
	}
	testGuesses = append([]string{"raise", "slate", "crane", "zzzzz"}, testAnswers...)
)

func TestRankedGuessesPartitionsAnswers(t *testing.T) {
	t.Parallel()
	answers := Distributions(testAnswers)
	ranked := RankedGuesses(answers, testGuesses)
	require.Len(t, ranked, len(testGuesses))

	for _, gs := range ranked {
		require.True(t, gs.HasGroups())
		seen := make(map[int32]int)
		total := 0
		for _, p := range gs.Patterns {
			group := gs.Group(p)
			require.NotEmpty(t, group)
			require.True(t, slices.IsSorted(group))
			total += len(group)
			for _, ai := range group {
				seen[ai]++
				require.Equal(t, p, FeedbackOf(gs.Guess, &answers[ai]))
			}
		}
		assert.Equal(t, len(testAnswers), total, gs.Guess)
		assert.Len(t, seen, len(testAnswers), gs.Guess)
		assert.True(t, slices.IsSorted(gs.Patterns))
		assert.Nil(t, gs.Group(AllExact+1))
	}
}

func TestGroupsMatchPartition(t *testing.T) {
	t.Parallel()
	answers := Distributions(testAnswers)
	for _, gs := range RankedGuesses(answers, testGuesses) {
		groups := Partition(gs.Guess, answers)
		require.Len(t, groups, len(gs.Patterns), gs.Guess)
		for _, p := range gs.Patterns {
			assert.Equal(t, groups[p], gs.Group(p), "%s %s", gs.Guess, p)
		}
	}
}

// Groups hold answer indices in one array per guess, so scoring a guess
// allocates the same amount whatever the number of answers.
func TestGuessStatsAllocationsIndependentOfAnswers(t *testing.T) {
	measure := func(answers []LetterDistribution) float64 {
		set := map[string]struct{}{}
		return testing.AllocsPerRun(20, func() {
			newGuessStats("raise", answers, set)
		})
	}
	small := measure(Distributions(testAnswers))
	large := measure(Distributions(slices.Repeat(testAnswers, 200)))
	assert.Equal(t, small, large)

	gs := newGuessStats("raise", Distributions(slices.Repeat(testAnswers, 200)), nil)
	assert.Len(t, gs.members, len(testAnswers)*200)
	assert.Len(t, gs.bounds, len(gs.Patterns)+1)
}

func TestRankRecoversScoringPanic(t *testing.T) {
	t.Parallel()
	for _, workers := range []int{1, 3} {
		ranked, err := Ranker{Workers: workers}.Rank(context.Background(),
			Distributions(testAnswers), []string{"raise", "ABCDE", "slate"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"ABCDE"`)
		assert.Nil(t, ranked)
	}
}

func TestRankedGuessesOrdering(t *testing.T) {
	t.Parallel()
	ranked := RankedGuesses(Distributions(testAnswers), testGuesses)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, CompareGuessStats(ranked[i-1], ranked[i]), 0,
			"%s before %s", ranked[i-1].Guess, ranked[i].Guess)
	}

	// zzzzz puts every answer into one group.
	last := ranked[len(ranked)-1]
	assert.Equal(t, "zzzzz", last.Guess)
	assert.Equal(t, float64(len(testAnswers)), last.Mean)
	assert.Zero(t, last.StdDev)
}

func TestRankedGuessesDeterministic(t *testing.T) {
	t.Parallel()
	answers := Distributions(testAnswers)
	a := RankedGuesses(answers, testGuesses)
	b := RankedGuesses(answers, testGuesses)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Guess, b[i].Guess)
	}
}

func TestCompareGuessStatsTieBreaks(t *testing.T) {
	t.Parallel()
	base := func(word string, mean, sd float64, possible bool) *GuessStats {
		return &GuessStats{Guess: word, Mean: mean, StdDev: sd, IsPossibleAnswer: possible}
	}
	tests := []struct {
		name string
		a, b *GuessStats
	}{
		{"mean", base("zzzzz", 1, 5, false), base("aaaaa", 2, 0, true)},
		{"stddev", base("zzzzz", 1, 0.5, false), base("aaaaa", 1, 1, true)},
		{"possible answer", base("zzzzz", 1, 1, true), base("aaaaa", 1, 1, false)},
		{"word", base("aaaaa", 1, 1, true), base("bbbbb", 1, 1, true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, -1, CompareGuessStats(tt.a, tt.b))
			assert.Equal(t, 1, CompareGuessStats(tt.b, tt.a))
		})
	}
}

func TestMeanStdDevIsPopulation(t *testing.T) {
	t.Parallel()
	mean, sd := meanStdDev([]int{1, 3})
	assert.Equal(t, 2.0, mean)
	assert.Equal(t, 1.0, sd)

	mean, sd = meanStdDev([]int{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 5.0, mean)
	assert.InDelta(t, 2.0, sd, 1e-12)

	mean, sd = meanStdDev(nil)
	assert.Zero(t, mean)
	assert.Zero(t, sd)
	assert.False(t, math.IsNaN(sd))
}

func TestCandidatePolicy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		answers []string
		pool    bool
	}{
		{"empty", nil, false},
		{"one", []string{"cigar"}, false},
		{"three", []string{"cigar", "rebut", "sissy"}, false},
		{"four", []string{"cigar", "rebut", "sissy", "humph"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := RankedGuesses(Distributions(tt.answers), testGuesses)
			if tt.pool {
				assert.Len(t, ranked, len(testGuesses))
				return
			}
			assert.Len(t, ranked, len(tt.answers))
			for _, gs := range ranked {
				assert.Contains(t, tt.answers, gs.Guess)
				assert.True(t, gs.IsPossibleAnswer)
			}
		})
	}
}

func TestRankedGuessesSmallPoolWinsOutright(t *testing.T) {
	t.Parallel()
	ranked := RankedGuesses(Distributions([]string{"cigar", "rebut"}), testGuesses)
	require.Len(t, ranked, 2)
	// Both split two answers into singletons; word order breaks the tie.
	assert.Equal(t, "cigar", ranked[0].Guess)
	assert.Equal(t, 1.0, ranked[0].Mean)
	assert.Zero(t, ranked[0].StdDev)
}

func TestRankerMatchesSequential(t *testing.T) {
	t.Parallel()
	answers := Distributions(testAnswers)
	want := RankedGuesses(answers, testGuesses)

	var progress atomic.Int64
	r := Ranker{Workers: 3, OnProgress: func(n int) { progress.Add(int64(n)) }}
	got, err := r.Rank(context.Background(), answers, testGuesses)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Guess, got[i].Guess)
		assert.Equal(t, want[i].Mean, got[i].Mean)
		assert.Equal(t, want[i].Patterns, got[i].Patterns)
	}
	assert.Equal(t, int64(len(testGuesses)), progress.Load())
	assert.Equal(t, len(testGuesses), r.Candidates(answers, testGuesses))
}

func TestRankerCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Ranker{Workers: 2}.Rank(ctx, Distributions(testAnswers), testGuesses)
	assert.ErrorIs(t, err, context.Canceled)
}
