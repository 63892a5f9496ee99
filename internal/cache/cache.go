// internal/cache/cache.go
//
// First-turn ranking cache.
//
// The ranking of every allowed guess against the full answer list is the
// expensive part of starting a game. It is built once (by the CLI "build"
// command or on first start) and then read back from one of two places:
//
//   1. the artifact file written at build time (gen/statsCache.json);
//   2. the KV store under Key.
//
// A cached ranking is only used when its answer list equals the current one
// and it ranks the current guess list; otherwise it is recomputed and the KV
// entry replaced.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/peterbom/wordle-cheat/internal/stats"
	"github.com/peterbom/wordle-cheat/internal/store"
	"github.com/peterbom/wordle-cheat/internal/words"
)

// Key is the KV key of the serialized first-turn ranking.
const Key = "guesses"

// ErrStale means a cached ranking was built for different word lists.
var ErrStale = errors.New("cache: ranking was built for other word lists")

// ReadFile decodes and validates a cache artifact.
func ReadFile(path string) (stats.Storable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return stats.Storable{}, err
	}
	return decode(b)
}

// WriteFile encodes s to path, creating parent directories.
func WriteFile(path string, s stats.Storable) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cache: mkdir %s: %w", dir, err)
		}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

func decode(b []byte) (stats.Storable, error) {
	var s stats.Storable
	if err := json.Unmarshal(b, &s); err != nil {
		return stats.Storable{}, fmt.Errorf("cache: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return stats.Storable{}, err
	}
	return s, nil
}

// Compute ranks every allowed guess against all answers.
func Compute(ctx context.Context, r stats.Ranker, lists *words.Lists) ([]*stats.GuessStats, error) {
	start := time.Now()
	ranked, err := r.Rank(ctx, stats.Distributions(lists.Answers), lists.Allowed)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("answers", len(lists.Answers)).
		Int("guesses", len(ranked)).
		Dur("took", time.Since(start)).
		Msg("computed first-turn ranking")
	return ranked, nil
}

// Loader resolves the first-turn ranking from the artifact file, the KV store
// or a fresh computation, in that order.
type Loader struct {
	Store  store.KV
	Ranker stats.Ranker
	// File is the artifact path; empty skips the file.
	File string
}

// Initial returns the first-turn ranking for lists.
func (l Loader) Initial(ctx context.Context, lists *words.Lists) ([]*stats.GuessStats, error) {
	if l.File != "" {
		s, err := ReadFile(l.File)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Debug().Str("file", l.File).Msg("no cache artifact")
		case err != nil:
			log.Warn().Err(err).Str("file", l.File).Msg("ignoring unreadable cache artifact")
		case !matches(s, lists):
			log.Warn().Str("file", l.File).Err(ErrStale).Msg("ignoring cache artifact")
		default:
			log.Info().Str("file", l.File).Int("guesses", len(s.OrderedGuesses)).Msg("loaded ranking from artifact")
			return stats.FromStorable(s), nil
		}
	}

	b, err := l.Store.Get(ctx, Key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Info().Msg("ranking not cached; computing")
	case err != nil:
		return nil, err
	default:
		s, err := decode(b)
		if err == nil && matches(s, lists) {
			log.Info().Int("guesses", len(s.OrderedGuesses)).Msg("loaded ranking from store")
			return stats.FromStorable(s), nil
		}
		if err == nil {
			err = ErrStale
		}
		log.Warn().Err(err).Msg("discarding cached ranking")
	}
	return l.Rebuild(ctx, lists)
}

// Rebuild recomputes the ranking and overwrites the KV entry.
func (l Loader) Rebuild(ctx context.Context, lists *words.Lists) ([]*stats.GuessStats, error) {
	ranked, err := Compute(ctx, l.Ranker, lists)
	if err != nil {
		return nil, err
	}
	if err := l.Save(ctx, lists, ranked); err != nil {
		return nil, err
	}
	return ranked, nil
}

// Save writes a ranking computed elsewhere to the KV store.
func (l Loader) Save(ctx context.Context, lists *words.Lists, ranked []*stats.GuessStats) error {
	b, err := json.Marshal(stats.ToStorable(ranked, lists.Answers))
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	return l.Store.Put(ctx, Key, b)
}

// matches reports whether s was ranked for lists: the same answers in the
// same order (group indices depend on it) and the same set of guesses.
func matches(s stats.Storable, lists *words.Lists) bool {
	if !slices.Equal(s.AllowedAnswers, lists.Answers) {
		return false
	}
	want := stats.CandidateWords(stats.Distributions(lists.Answers), lists.Allowed)
	if len(s.OrderedGuesses) != len(want) {
		return false
	}
	set := make(map[string]struct{}, len(want))
	for _, w := range want {
		set[w] = struct{}{}
	}
	for _, g := range s.OrderedGuesses {
		if _, ok := set[g]; !ok {
			return false
		}
		delete(set, g)
	}
	return true
}
