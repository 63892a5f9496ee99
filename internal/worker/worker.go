// internal/worker/worker.go
//
// Computation host boundary.
//
// Ranking a full guess pool is CPU-heavy, so HTTP handlers and the CLI never
// call the ranker directly. They send a Request to a Host, which runs it on
// its own goroutine and answers with exactly one Response: either the value
// or an *Error carrying a message. Panics inside a computation are recovered
// and reported the same way.
//
// Request kinds:
//   - buildGuessesData: rank every allowed guess against all answers.
//   - setGuess:         apply a guess choice to a game snapshot.
//   - setNextWord:      advance a game snapshot to its next turn (re-ranks).
//
// A Host bounds how many computations run at once. Callers that give up on a
// request (ctx done) simply drop the channel; the stale result is discarded.

package worker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/peterbom/wordle-cheat/internal/game"
	"github.com/peterbom/wordle-cheat/internal/stats"
	"github.com/peterbom/wordle-cheat/internal/words"
)

// Kind names a request variant.
type Kind string

const (
	KindBuildGuessesData Kind = "buildGuessesData"
	KindSetGuess         Kind = "setGuess"
	KindSetNextWord      Kind = "setNextWord"
)

// Request is one unit of work. Game is used by setGuess and setNextWord,
// Word only by setGuess.
type Request struct {
	Kind Kind
	Game game.Game
	Word string
}

// Response carries the result of one Request. Exactly one of Ranking, Game
// and Err is meaningful.
type Response struct {
	Kind    Kind
	Ranking []*stats.GuessStats
	Game    game.Game
	Err     *Error
}

// Error is the structured failure returned across the boundary.
type Error struct {
	Message string `json:"errorMessage"`
	cause   error
}

func newError(err error) *Error {
	return &Error{Message: err.Error(), cause: err}
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying error, if any, for errors.Is.
func (e *Error) Unwrap() error { return e.cause }

// Host runs requests against one set of word lists.
type Host struct {
	lists  *words.Lists
	ranker stats.Ranker
	sem    *semaphore.Weighted
}

// NewHost returns a Host running at most maxInFlight computations at once;
// values below 1 mean 1.
func NewHost(lists *words.Lists, ranker stats.Ranker, maxInFlight int) *Host {
	return &Host{
		lists:  lists,
		ranker: ranker,
		sem:    semaphore.NewWeighted(int64(max(maxInFlight, 1))),
	}
}

// Submit starts req and returns a channel that receives exactly one Response.
func (h *Host) Submit(ctx context.Context, req Request) <-chan Response {
	out := make(chan Response, 1)
	go func() {
		out <- h.run(ctx, req)
	}()
	return out
}

// Do runs req and waits for its Response or for ctx, whichever comes first.
func (h *Host) Do(ctx context.Context, req Request) Response {
	select {
	case res := <-h.Submit(ctx, req):
		return res
	case <-ctx.Done():
		return Response{Kind: req.Kind, Err: newError(ctx.Err())}
	}
}

// run executes req, converting errors and panics into a Response.
func (h *Host) run(ctx context.Context, req Request) (res Response) {
	res.Kind = req.Kind
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("kind", string(req.Kind)).Interface("panic", r).Msg("worker request panicked")
			res = Response{Kind: req.Kind, Err: &Error{Message: fmt.Sprint(r)}}
		}
	}()

	if err := h.sem.Acquire(ctx, 1); err != nil {
		res.Err = newError(err)
		return res
	}
	defer h.sem.Release(1)

	var err error
	switch req.Kind {
	case KindBuildGuessesData:
		res.Ranking, err = h.ranker.Rank(ctx, stats.Distributions(h.lists.Answers), h.lists.Allowed)
	case KindSetGuess:
		res.Game = req.Game.SetGuess(req.Word)
	case KindSetNextWord:
		res.Game, err = req.Game.SetNextWordContext(ctx, h.ranker)
	default:
		err = fmt.Errorf("unknown request kind %q", req.Kind)
	}
	if err != nil {
		log.Warn().Err(err).Str("kind", string(req.Kind)).Msg("worker request failed")
		res = Response{Kind: req.Kind, Err: newError(err)}
	}
	return res
}
