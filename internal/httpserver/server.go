// internal/httpserver/server.go
//
// HTTP server wiring for the solver backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, request logs).
//   - Public endpoints: "/", "/health", "/debug/words", "/stats/top".
//   - Game endpoints: POST /game/new issues a session token; the rest require it.
//   - Daily endpoint: GET /daily/solve.
//   - Admin endpoint: POST /admin/cache/rebuild (basic auth, bcrypt).
//
// Notes:
//   - Heavy work (ranking) goes through the worker host, bounded by the request
//     timeout. Cheap state changes (toggle, undo) run inline.
//   - The first-turn ranking is swapped atomically when an admin rebuilds it.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/peterbom/wordle-cheat/internal/cache"
	"github.com/peterbom/wordle-cheat/internal/config"
	"github.com/peterbom/wordle-cheat/internal/stats"
	"github.com/peterbom/wordle-cheat/internal/store"
	"github.com/peterbom/wordle-cheat/internal/worker"
	"github.com/peterbom/wordle-cheat/internal/words"
)

// Options are the dependencies of a Server.
type Options struct {
	Config   config.Config
	Lists    *words.Lists
	Sessions store.Sessions
	Host     *worker.Host
	Cache    cache.Loader
	// Ranker plays out daily solves.
	Ranker stats.Ranker
	// Initial is the first-turn ranking for new games.
	Initial []*stats.GuessStats
}

// Server bundles the router and its dependencies.
type Server struct {
	r       *chi.Mux
	opts    Options
	ranking atomic.Pointer[[]*stats.GuessStats]
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	s := &Server{r: chi.NewRouter(), opts: opts}
	s.setRanking(opts.Initial)

	timeout := opts.Config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                // add X-Request-ID
	s.r.Use(chimw.RealIP)                   // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                  // one zerolog line per request
	s.r.Use(chimw.Recoverer)                // recover from panics
	s.r.Use(chimw.Timeout(timeout))         // bound handler time
	s.r.Use(jsonContentType)                // default JSON responses
	s.r.Use(cors(opts.Config.ClientOrigin)) // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		endpoints := []string{
			"/health", "/stats/top", "POST /game/new", "/game", "POST /game/guess",
			"POST /game/toggle", "POST /game/pattern", "POST /game/next", "POST /game/undo",
			"/daily/solve",
		}
		writeJSON(w, http.StatusOK, map[string]any{"service": "wordle-cheat", "endpoints": endpoints})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := s.opts.Lists.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g})
	})
	s.r.Get("/stats/top", s.handleTop)

	s.mountGame(s.r)
	s.mountDaily(s.r)
	s.mountAdmin(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) currentRanking() []*stats.GuessStats {
	if p := s.ranking.Load(); p != nil {
		return *p
	}
	return nil
}

func (s *Server) setRanking(ranked []*stats.GuessStats) {
	s.ranking.Store(&ranked)
}

// handleTop returns the head of the first-turn ranking (?n=, default 10, max 100).
func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	n := 10
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_n")
			return
		}
		n = min(parsed, 100)
	}
	writeJSON(w, http.StatusOK, rankRowsOf(s.currentRanking(), n))
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
