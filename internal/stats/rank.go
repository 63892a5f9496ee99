// internal/stats/rank.go
//
// Partition & ranking engine.
//
// For each candidate guess the remaining answers are grouped by the pattern the
// guess would produce against them. A guess is better the smaller and more even
// its groups are: ranking is ascending by mean group size, then population
// standard deviation, then possible answers before other words, then word.

package stats

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// scoutThreshold is the largest answer pool that is ranked using only the
// remaining answers themselves; larger pools consider the whole guess pool.
const scoutThreshold = 3

// GuessStats is one ranked candidate guess.
type GuessStats struct {
	Guess            string
	IsPossibleAnswer bool
	// Patterns lists the producible patterns in ascending order.
	Patterns []Pattern
	Mean     float64
	StdDev   float64

	// members holds answer indices grouped by pattern: the group for
	// Patterns[i] is members[bounds[i]:bounds[i+1]]. Indices refer to the
	// answer slice the guess was ranked against. bounds is nil when only
	// statistics were loaded.
	members []int32
	bounds  []int32
}

// Group returns the indices of the answers producing p, in answer order.
// The result aliases the ranking and must not be modified.
func (gs *GuessStats) Group(p Pattern) []int32 {
	if gs.bounds == nil {
		return nil
	}
	i, ok := slices.BinarySearch(gs.Patterns, p)
	if !ok {
		return nil
	}
	lo, hi := gs.bounds[i], gs.bounds[i+1]
	return gs.members[lo:hi:hi]
}

// HasGroups reports whether answer groups are available.
func (gs *GuessStats) HasGroups() bool { return gs.bounds != nil }

// Partition groups the indices of answers by the pattern guess produces
// against each.
func Partition(guess string, answers []LetterDistribution) map[Pattern][]int32 {
	groups := make(map[Pattern][]int32)
	for i := range answers {
		p := FeedbackOf(guess, &answers[i])
		groups[p] = append(groups[p], int32(i))
	}
	return groups
}

// PossiblePatterns returns the patterns gs can produce, ascending.
func PossiblePatterns(gs *GuessStats) []Pattern {
	return gs.Patterns
}

// newGuessStats scores guess with a counting sort over the patterns, so the
// groups of one guess share a single index array.
func newGuessStats(guess string, answers []LetterDistribution, answerSet map[string]struct{}) *GuessStats {
	feedback := make([]Pattern, len(answers))
	var counts [NumPatterns]int32
	for i := range answers {
		p := FeedbackOf(guess, &answers[i])
		feedback[i] = p
		counts[p]++
	}

	n := 0
	for _, c := range counts {
		if c > 0 {
			n++
		}
	}
	patterns := make([]Pattern, 0, n)
	bounds := make([]int32, 1, n+1)
	sizes := make([]int, 0, n)
	var next [NumPatterns]int32
	for p, c := range counts {
		if c == 0 {
			continue
		}
		start := bounds[len(bounds)-1]
		next[p] = start
		patterns = append(patterns, Pattern(p))
		bounds = append(bounds, start+c)
		sizes = append(sizes, int(c))
	}
	members := make([]int32, len(answers))
	for i, p := range feedback {
		members[next[p]] = int32(i)
		next[p]++
	}

	mean, stdDev := meanStdDev(sizes)
	_, possible := answerSet[guess]
	return &GuessStats{
		Guess:            guess,
		IsPossibleAnswer: possible,
		Patterns:         patterns,
		Mean:             mean,
		StdDev:           stdDev,
		members:          members,
		bounds:           bounds,
	}
}

// meanStdDev returns the mean and population standard deviation of sizes;
// both are 0 for an empty list.
func meanStdDev(sizes []int) (float64, float64) {
	if len(sizes) == 0 {
		return 0, 0
	}
	sum := 0
	for _, n := range sizes {
		sum += n
	}
	n := float64(len(sizes))
	mean := float64(sum) / n
	var sq float64
	for _, s := range sizes {
		d := float64(s) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / n)
}

// candidateGuesses applies the candidate policy and returns the words to rank
// together with the set of remaining answer words.
func candidateGuesses(answers []LetterDistribution, guessPool []string) ([]string, map[string]struct{}) {
	answerSet := make(map[string]struct{}, len(answers))
	answerWords := make([]string, 0, len(answers))
	for i := range answers {
		w := WordOf(answers[i])
		if _, dup := answerSet[w]; dup {
			continue
		}
		answerSet[w] = struct{}{}
		answerWords = append(answerWords, w)
	}
	if len(answers) > scoutThreshold {
		return guessPool, answerSet
	}
	return answerWords, answerSet
}

// CompareGuessStats orders a before b when a is the better guess.
func CompareGuessStats(a, b *GuessStats) int {
	if c := cmp.Compare(a.Mean, b.Mean); c != 0 {
		return c
	}
	if c := cmp.Compare(a.StdDev, b.StdDev); c != 0 {
		return c
	}
	if a.IsPossibleAnswer != b.IsPossibleAnswer {
		if a.IsPossibleAnswer {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Guess, b.Guess)
}

// RankedGuesses ranks candidate guesses against the remaining answers, best
// first. With more than three answers left every word of guessPool is
// considered; otherwise only the remaining answers are.
func RankedGuesses(answers []LetterDistribution, guessPool []string) []*GuessStats {
	ranked, _ := Ranker{}.Rank(context.Background(), answers, guessPool)
	return ranked
}

// Ranker computes the same ranking as RankedGuesses, spreading guesses
// across Workers goroutines.
type Ranker struct {
	// Workers is the number of goroutines; values below 1 mean 1.
	Workers int
	// OnProgress, if set, is called with 1 after each guess is scored. It is
	// called from several goroutines at once.
	OnProgress func(n int)
}

// Candidates reports how many guesses Rank will score for this input.
func (r Ranker) Candidates(answers []LetterDistribution, guessPool []string) int {
	return len(CandidateWords(answers, guessPool))
}

// CandidateWords returns the words a ranking of answers against guessPool
// scores, before sorting.
func CandidateWords(answers []LetterDistribution, guessPool []string) []string {
	words, _ := candidateGuesses(answers, guessPool)
	return words
}

// Rank returns the ranked guesses or ctx.Err() if ctx ends first. A panic
// while scoring a guess is returned as an error.
func (r Ranker) Rank(ctx context.Context, answers []LetterDistribution, guessPool []string) ([]*GuessStats, error) {
	guesses, answerSet := candidateGuesses(answers, guessPool)
	out := make([]*GuessStats, len(guesses))
	if len(guesses) == 0 {
		return out, nil
	}

	workers := max(r.Workers, 1)
	chunk := (len(guesses) + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(guesses); start += chunk {
		end := min(start+chunk, len(guesses))
		g.Go(func() (err error) {
			i := start
			defer func() {
				if v := recover(); v != nil {
					err = fmt.Errorf("stats: ranking guess %q: %v", guesses[i], v)
				}
			}()
			for ; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				out[i] = newGuessStats(guesses[i], answers, answerSet)
				if r.OnProgress != nil {
					r.OnProgress(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, CompareGuessStats)
	return out, nil
}
