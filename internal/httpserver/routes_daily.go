// internal/httpserver/routes_daily.go
//
// Daily solve: GET /daily/solve[?date=YYYY-MM-DD]
//
// Picks the day's answer deterministically from date + salt and plays it out
// with the solver, always taking the top-ranked guess. Useful as a demo of
// how many turns the strategy needs; it reveals the answer.

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/peterbom/wordle-cheat/internal/daily"
	"github.com/peterbom/wordle-cheat/internal/game"
)

// maxSolveTurns bounds a simulated daily solve.
const maxSolveTurns = 10

type dailySolveRes struct {
	Date    string   `json:"date"`
	Answer  string   `json:"answer"`
	Guesses []string `json:"guesses"`
	Solved  bool     `json:"solved"`
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/solve", s.handleDailySolve)
	})
}

func (s *Server) handleDailySolve(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := daily.ParseDateKey(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_date")
			return
		}
		date = d
	}

	answer := daily.Answer(date, s.opts.Config.DailySalt, s.opts.Lists.Answers)
	g, ok := game.CreateGame(s.currentRanking(), s.opts.Lists.Answers, s.opts.Lists.Allowed)
	if !ok || answer == "" {
		writeError(w, http.StatusServiceUnavailable, "no_ranking")
		return
	}

	guesses, err := game.Simulate(r.Context(), g, answer, s.opts.Ranker, maxSolveTurns)
	switch {
	case err == nil:
	case errors.Is(err, game.ErrTooManyTurns), errors.Is(err, game.ErrNoProgress):
		log.Warn().Err(err).Str("answer", answer).Msg("daily solve did not finish")
	default:
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dailySolveRes{
		Date:    daily.DateKey(date),
		Answer:  answer,
		Guesses: guesses,
		Solved:  err == nil,
	})
}
