// cmd/wordlestats/main.go
//
// Command-line front end for the solver.
//
//   wordlestats build --out gen/statsCache.json   build the first-turn ranking artifact
//   wordlestats top -n 10                         print the best opening guesses
//   wordlestats solve cigar [--first raise]       play the solver against a known answer
//   wordlestats daily [--date 2024-03-01]         play the solver against the daily answer
//   wordlestats play                              interactive solving session
//
// Global flags default to the same environment variables as the server.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/peterbom/wordle-cheat/internal/cache"
	"github.com/peterbom/wordle-cheat/internal/config"
	"github.com/peterbom/wordle-cheat/internal/daily"
	"github.com/peterbom/wordle-cheat/internal/game"
	"github.com/peterbom/wordle-cheat/internal/stats"
	"github.com/peterbom/wordle-cheat/internal/store"
	"github.com/peterbom/wordle-cheat/internal/words"
)

// maxTurns bounds simulated solves.
const maxTurns = 10

// globals holds the flags shared by every command.
type globals struct {
	answersFile string
	allowedFile string
	cacheFile   string
	dbPath      string
	workers     int
	progress    bool
	logLevel    string
	dailySalt   string
}

// env is what every command works against.
type env struct {
	lists  *words.Lists
	ranker stats.Ranker
	loader cache.Loader
	close  func() error
}

func (g globals) open() (*env, error) {
	lists, err := words.Load(g.answersFile, g.allowedFile)
	if err != nil {
		return nil, err
	}
	e := &env{
		lists:  lists,
		ranker: stats.Ranker{Workers: g.workers},
		close:  func() error { return nil },
	}
	kv := store.NewMemoryKV()
	if g.dbPath != "" {
		db, err := store.OpenSQLite(g.dbPath)
		if err != nil {
			return nil, err
		}
		kv, e.close = db, db.Close
	}
	e.loader = cache.Loader{Store: kv, Ranker: e.ranker, File: g.cacheFile}
	return e, nil
}

// newGame loads the first-turn ranking and seeds a game from it.
func (e *env) newGame(ctx context.Context) (game.Game, error) {
	ranked, err := e.loader.Initial(ctx, e.lists)
	if err != nil {
		return game.Game{}, err
	}
	g, ok := game.CreateGame(ranked, e.lists.Answers, e.lists.Allowed)
	if !ok {
		return game.Game{}, errors.New("no guesses to rank")
	}
	return g, nil
}

func newBar(progress bool, total int) *progressbar.ProgressBar {
	if progress {
		return progressbar.Default(int64(total), "ranking")
	}
	return progressbar.DefaultSilent(int64(total))
}

func build(ctx context.Context, e *env, out string, progress bool) error {
	answers := stats.Distributions(e.lists.Answers)
	bar := newBar(progress, e.ranker.Candidates(answers, e.lists.Allowed))
	r := e.ranker
	r.OnProgress = func(n int) { _ = bar.Add(n) }

	start := time.Now()
	ranked, err := r.Rank(ctx, answers, e.lists.Allowed)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	s := stats.ToStorable(ranked, e.lists.Answers)
	if err := cache.WriteFile(out, s); err != nil {
		return err
	}
	if err := e.loader.Save(ctx, e.lists, ranked); err != nil {
		return err
	}
	log.Info().
		Str("out", out).
		Int("guesses", len(ranked)).
		Dur("took", time.Since(start)).
		Msg("wrote ranking artifact")
	return nil
}

func top(ctx context.Context, e *env, n int) error {
	ranked, err := e.loader.Initial(ctx, e.lists)
	if err != nil {
		return err
	}
	for i, gs := range ranked[:min(n, len(ranked))] {
		marker := ""
		if gs.IsPossibleAnswer {
			marker = " *"
		}
		fmt.Printf("%3d  %s  mean %.3f  sd %.3f  patterns %d%s\n",
			i+1, gs.Guess, gs.Mean, gs.StdDev, len(gs.Patterns), marker)
	}
	return nil
}

func solve(ctx context.Context, e *env, answer, first string) error {
	answer = strings.ToLower(answer)
	if !e.lists.IsAnswer(answer) {
		return cli.Exit("not an answer word: "+answer, 1)
	}
	g, err := e.newGame(ctx)
	if err != nil {
		return err
	}
	if first != "" {
		first = strings.ToLower(first)
		if _, ok := g.Current().Lookup[first]; !ok {
			return cli.Exit("not a valid guess: "+first, 1)
		}
		g = g.SetGuess(first)
	}
	path, err := game.Simulate(ctx, g, answer, e.ranker, maxTurns)
	fmt.Printf("%s: %s (%d)\n", answer, strings.Join(path, " "), len(path))
	return err
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	g := globals{}
	var (
		out   string
		n     int
		first string
		date  string
	)
	cmd := &cli.Command{
		Name:  "wordlestats",
		Usage: "wordle solver statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "answers",
				Value:       cfg.AnswersFile,
				Usage:       "answer list file, one word per line (default: embedded list)",
				Destination: &g.answersFile,
			},
			&cli.StringFlag{
				Name:        "allowed",
				Value:       cfg.AllowedFile,
				Usage:       "allowed guess list file (default: embedded list)",
				Destination: &g.allowedFile,
			},
			&cli.StringFlag{
				Name:        "cache",
				Value:       cfg.StatsCacheFile,
				Usage:       "first-turn ranking artifact to read",
				Destination: &g.cacheFile,
			},
			&cli.StringFlag{
				Name:        "db",
				Value:       cfg.DBPath,
				Usage:       "SQLite file caching the ranking; empty keeps it in memory",
				Destination: &g.dbPath,
			},
			&cli.IntFlag{
				Name:        "workers",
				Value:       cfg.RankWorkers,
				Aliases:     []string{"w"},
				Usage:       "goroutines used for ranking",
				Destination: &g.workers,
			},
			&cli.BoolFlag{
				Name:        "progress",
				Value:       false,
				Aliases:     []string{"p"},
				Usage:       "show progress bar",
				Destination: &g.progress,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Value:       cfg.LogLevel,
				Usage:       "zerolog level",
				Destination: &g.logLevel,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if lvl, err := zerolog.ParseLevel(g.logLevel); err == nil {
				zerolog.SetGlobalLevel(lvl)
			}
			g.dailySalt = cfg.DailySalt
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "rank every allowed guess against all answers and write the artifact",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "out",
						Value:       cfg.StatsCacheFile,
						Aliases:     []string{"o"},
						Usage:       "artifact path",
						Destination: &out,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					// build always recomputes, so skip reading an old artifact
					g.cacheFile = ""
					return withEnv(g, func(e *env) error { return build(ctx, e, out, g.progress) })
				},
			},
			{
				Name:  "top",
				Usage: "print the best opening guesses",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "n",
						Value:       10,
						Usage:       "number of guesses",
						Destination: &n,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withEnv(g, func(e *env) error { return top(ctx, e, n) })
				},
			},
			{
				Name:      "solve",
				Usage:     "play the solver against known answers",
				ArgsUsage: "answer...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "first",
						Aliases:     []string{"f"},
						Usage:       "opening guess instead of the top-ranked one",
						Destination: &first,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() < 1 {
						return cli.Exit("must have at least one answer", 2)
					}
					return withEnv(g, func(e *env) error {
						for _, answer := range cmd.Args().Slice() {
							if err := solve(ctx, e, answer, first); err != nil {
								return err
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "daily",
				Usage: "play the solver against the daily answer",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "date",
						Usage:       "YYYY-MM-DD, default today (UTC)",
						Destination: &date,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					day := time.Now().UTC()
					if date != "" {
						d, err := daily.ParseDateKey(date)
						if err != nil {
							return cli.Exit("bad date: "+date, 2)
						}
						day = d
					}
					return withEnv(g, func(e *env) error {
						fmt.Print(daily.DateKey(day), " ")
						return solve(ctx, e, daily.Answer(day, g.dailySalt, e.lists.Answers), "")
					})
				},
			},
			{
				Name:  "play",
				Usage: "interactive solving: enter the feedback wordle gives you",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withEnv(g, func(e *env) error {
						gm, err := e.newGame(ctx)
						if err != nil {
							return err
						}
						return play(ctx, gm, e.ranker, os.Stdin, os.Stdout)
					})
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("wordlestats")
	}
}

// withEnv opens the lists and store for one command and closes them after.
func withEnv(g globals, fn func(e *env) error) error {
	e, err := g.open()
	if err != nil {
		return err
	}
	defer func() {
		if err := e.close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()
	return fn(e)
}
