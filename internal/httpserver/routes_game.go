// internal/httpserver/routes_game.go
//
// HTTP routes for interactive solving.
//   - POST /game/new     → start a session from the first-turn ranking
//   - GET  /game         → current game
//   - POST /game/guess   → {word} change the active guess (worker setGuess)
//   - POST /game/toggle  → {position} cycle one letter's feedback
//   - POST /game/pattern → {pattern} enter all feedback at once, e.g. ".?+.."
//   - POST /game/next    → advance once feedback is unambiguous (worker setNextWord)
//   - POST /game/undo    → drop the last turn
//
// Transitions the state machine refuses come back as 409/422 with the
// unchanged game so the client can explain why nothing happened. Requests on
// one session run one at a time under the session lock.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/peterbom/wordle-cheat/internal/game"
	"github.com/peterbom/wordle-cheat/internal/stats"
	"github.com/peterbom/wordle-cheat/internal/store"
	"github.com/peterbom/wordle-cheat/internal/worker"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Group(func(r chi.Router) {
		r.Use(s.requireSession, s.lockSession)
		r.Get("/game", s.handleGetGame)
		r.Post("/game/guess", s.handleGuess)
		r.Post("/game/toggle", s.handleToggle)
		r.Post("/game/pattern", s.handlePattern)
		r.Post("/game/next", s.handleNext)
		r.Post("/game/undo", s.handleUndo)
	})
}

type newGameRes struct {
	GameID string   `json:"gameId"`
	Token  string   `json:"token"`
	Game   gameView `json:"game"`
}

type refusedRes struct {
	Error string   `json:"error"`
	Game  gameView `json:"game"`
}

// handleNewGame seeds a game from the current first-turn ranking.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	g, ok := game.CreateGame(s.currentRanking(), s.opts.Lists.Answers, s.opts.Lists.Allowed)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no_ranking")
		return
	}
	sid := newSessionID()
	if err := s.opts.Sessions.Save(r.Context(), sid, g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := signSession(s.opts.Config.JWTSecret, sid, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("sign session")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	setSessionCookie(w, tok, exp)
	log.Debug().Str("gameId", sid).Msg("new game")
	writeJSON(w, http.StatusOK, newGameRes{GameID: sid, Token: tok, Game: gameViewOf(g)})
}

// loadGame fetches the session's game, writing the error response on failure.
func (s *Server) loadGame(w http.ResponseWriter, r *http.Request) (game.Game, bool) {
	g, err := s.opts.Sessions.Get(r.Context(), sessionID(r))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return g, false
	}
	if err != nil {
		log.Error().Err(err).Msg("load game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return g, false
	}
	return g, true
}

// saveGame persists g and writes it as the response.
func (s *Server) saveGame(w http.ResponseWriter, r *http.Request, g game.Game) {
	if err := s.opts.Sessions.Save(r.Context(), sessionID(r), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, gameViewOf(g))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	if g, ok := s.loadGame(w, r); ok {
		writeJSON(w, http.StatusOK, gameViewOf(g))
	}
}

type guessReq struct {
	Word string `json:"word"`
}

// handleGuess swaps the active guess. Only words ranked for this turn can be chosen.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	word := strings.ToLower(strings.TrimSpace(req.Word))
	if !s.opts.Lists.IsAllowed(word) {
		writeError(w, http.StatusBadRequest, "invalid_word")
		return
	}
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	if _, ranked := g.Current().Lookup[word]; !ranked {
		writeJSON(w, http.StatusUnprocessableEntity, refusedRes{Error: "not_ranked", Game: gameViewOf(g)})
		return
	}

	res := s.opts.Host.Do(r.Context(), worker.Request{Kind: worker.KindSetGuess, Game: g, Word: word})
	if res.Err != nil {
		writeWorkerError(w, res.Err)
		return
	}
	s.saveGame(w, r, res.Game)
}

type toggleReq struct {
	Position *int `json:"position"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Position == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if *req.Position < 0 || *req.Position >= stats.WordLen {
		writeError(w, http.StatusBadRequest, "bad_position")
		return
	}
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	s.saveGame(w, r, g.TogglePartialPattern(*req.Position))
}

type patternReq struct {
	Pattern string `json:"pattern"`
}

func (s *Server) handlePattern(w http.ResponseWriter, r *http.Request) {
	var req patternReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	p, err := stats.ParsePattern(req.Pattern)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_pattern")
		return
	}
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	next := g.SetPattern(p)
	if res := next.Current().Resolved; res == nil || *res != p {
		writeJSON(w, http.StatusUnprocessableEntity, refusedRes{Error: "impossible_pattern", Game: gameViewOf(g)})
		return
	}
	s.saveGame(w, r, next)
}

// handleNext ranks the narrowed answers and appends a turn.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	if g.Over() {
		writeJSON(w, http.StatusConflict, refusedRes{Error: "already_solved", Game: gameViewOf(g)})
		return
	}
	if g.Current().Resolved == nil {
		writeJSON(w, http.StatusConflict, refusedRes{Error: "feedback_ambiguous", Game: gameViewOf(g)})
		return
	}

	res := s.opts.Host.Do(r.Context(), worker.Request{Kind: worker.KindSetNextWord, Game: g})
	if res.Err != nil {
		writeWorkerError(w, res.Err)
		return
	}
	if len(res.Game.Turns) == len(g.Turns) {
		writeJSON(w, http.StatusConflict, refusedRes{Error: "no_matching_answers", Game: gameViewOf(g)})
		return
	}
	s.saveGame(w, r, res.Game)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	s.saveGame(w, r, g.DeleteLastTurn())
}

// writeWorkerError reports a failed computation; deadline and cancellation
// map to 503 so clients can retry.
func writeWorkerError(w http.ResponseWriter, e *worker.Error) {
	status := http.StatusInternalServerError
	if errors.Is(e, context.DeadlineExceeded) || errors.Is(e, context.Canceled) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": "computation_failed", "errorMessage": e.Message})
}
