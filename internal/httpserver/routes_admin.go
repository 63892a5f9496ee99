// internal/httpserver/routes_admin.go
//
// Admin routes, mounted only when ADMIN_PASSWORD_HASH is set.
//   - POST /admin/cache/rebuild → recompute the first-turn ranking through the
//     worker host, store it and use it for new games.
//
// Requests authenticate with HTTP basic auth; the password is checked against
// the configured bcrypt hash.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/peterbom/wordle-cheat/internal/worker"
)

const adminUser = "admin"

// mountAdmin registers /admin routes when an admin password is configured.
func (s *Server) mountAdmin(r chi.Router) {
	if s.opts.Config.AdminPasswordHash == "" {
		return
	}
	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/cache/rebuild", s.handleRebuild)
	})
}

// requireAdmin enforces basic auth against the bcrypt hash.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pw, ok := r.BasicAuth()
		if !ok || user != adminUser || !checkPassword(s.opts.Config.AdminPasswordHash, pw) {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

type rebuildRes struct {
	Guesses int    `json:"guesses"`
	Took    string `json:"took"`
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res := s.opts.Host.Do(r.Context(), worker.Request{Kind: worker.KindBuildGuessesData})
	if res.Err != nil {
		writeWorkerError(w, res.Err)
		return
	}
	if err := s.opts.Cache.Save(r.Context(), s.opts.Lists, res.Ranking); err != nil {
		log.Error().Err(err).Msg("store rebuilt ranking")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.setRanking(res.Ranking)

	took := time.Since(start)
	log.Info().Int("guesses", len(res.Ranking)).Dur("took", took).Msg("rebuilt first-turn ranking")
	writeJSON(w, http.StatusOK, rebuildRes{Guesses: len(res.Ranking), Took: took.String()})
}
