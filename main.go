// main.go
//
// Solver HTTP server.
// Startup:
//   1. Load .env and configuration; set the zerolog level.
//   2. Load the word lists.
//   3. Open the ranking cache store (SQLite when DB_PATH is set, else memory).
//   4. Resolve the first-turn ranking (artifact → store → compute).
//   5. Serve until SIGINT/SIGTERM.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/peterbom/wordle-cheat/internal/cache"
	"github.com/peterbom/wordle-cheat/internal/config"
	"github.com/peterbom/wordle-cheat/internal/httpserver"
	"github.com/peterbom/wordle-cheat/internal/stats"
	"github.com/peterbom/wordle-cheat/internal/store"
	"github.com/peterbom/wordle-cheat/internal/worker"
	"github.com/peterbom/wordle-cheat/internal/words"
)

// maxInFlight bounds concurrent rankings across all requests.
const maxInFlight = 2

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lists, err := words.Load(cfg.AnswersFile, cfg.AllowedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	a, g := lists.Stats()
	log.Info().Int("answers", a).Int("allowed", g).Msg("loaded word lists")

	kv := store.NewMemoryKV()
	if cfg.DBPath != "" {
		db, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to open database")
		}
		defer db.Close()
		kv = db
	}

	ranker := stats.Ranker{Workers: cfg.RankWorkers}
	loader := cache.Loader{Store: kv, Ranker: ranker, File: cfg.StatsCacheFile}
	initial, err := loader.Initial(ctx, lists)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load first-turn ranking")
	}

	srv := httpserver.New(httpserver.Options{
		Config:   cfg,
		Lists:    lists,
		Sessions: store.NewMemorySessions(),
		Host:     worker.NewHost(lists, ranker, maxInFlight),
		Cache:    loader,
		Ranker:   ranker,
		Initial:  initial,
	})
	log.Info().Str("port", cfg.Port).Msg("starting wordle-cheat server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
