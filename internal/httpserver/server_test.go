package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/peterbom/wordle-cheat/internal/cache"
	"github.com/peterbom/wordle-cheat/internal/config"
	"github.com/peterbom/wordle-cheat/internal/game"
	"github.com/peterbom/wordle-cheat/internal/stats"
	"github.com/peterbom/wordle-cheat/internal/store"
	"github.com/peterbom/wordle-cheat/internal/worker"
	"github.com/peterbom/wordle-cheat/internal/words"
)

const testSecret = "test-secret"

type testEnv struct {
	srv   *Server
	lists *words.Lists
	kv    store.KV
}

func newTestEnv(t *testing.T, adminHash string) testEnv {
	t.Helper()
	lists, err := words.New(
		[]string{"cigar", "rebut", "sissy", "humph", "awake", "blush", "focal"},
		[]string{"raise", "slate", "crane"},
	)
	require.NoError(t, err)

	ranker := stats.Ranker{Workers: 2}
	kv := store.NewMemoryKV()
	srv := New(Options{
		Config: config.Config{
			JWTSecret:         testSecret,
			DailySalt:         "salt",
			ClientOrigin:      "http://client.test",
			RequestTimeout:    10 * time.Second,
			AdminPasswordHash: adminHash,
		},
		Lists:    lists,
		Sessions: store.NewMemorySessions(),
		Host:     worker.NewHost(lists, ranker, 2),
		Cache:    cache.Loader{Store: kv, Ranker: ranker},
		Ranker:   ranker,
		Initial:  stats.RankedGuesses(stats.Distributions(lists.Answers), lists.Allowed),
	})
	return testEnv{srv: srv, lists: lists, kv: kv}
}

func (e testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e testEnv) newGame(t *testing.T) newGameRes {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/game/new", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[newGameRes](t, rec)
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, "")

	rec := e.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/debug/words", nil, "")
	assert.JSONEq(t, `{"answers":7,"allowed":10}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[map[string]string](t, rec)["error"])

	rec = e.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, "")
	rec := e.do(t, http.MethodOptions, "/game/new", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://client.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestTop(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, "")

	rec := e.do(t, http.MethodGet, "/stats/top?n=3", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]rankRow](t, rec)
	require.Len(t, rows, 3)
	ranking := e.srv.currentRanking()
	for i, row := range rows {
		assert.Equal(t, ranking[i].Guess, row.Guess)
		assert.Equal(t, len(ranking[i].Patterns), row.Patterns)
	}

	rec = e.do(t, http.MethodGet, "/stats/top", nil, "")
	assert.Len(t, decode[[]rankRow](t, rec), len(e.lists.Allowed))

	rec = e.do(t, http.MethodGet, "/stats/top?n=zero", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGameRequiresSession(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, "")

	rec := e.do(t, http.MethodGet, "/game", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/game", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged, _, err := signSession("other-secret", newSessionID(), time.Now())
	require.NoError(t, err)
	rec = e.do(t, http.MethodGet, "/game", nil, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, _, err := signSession(testSecret, newSessionID(), time.Now().Add(-2*sessionTTL))
	require.NoError(t, err)
	rec = e.do(t, http.MethodGet, "/game", nil, expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	unknown, _, err := signSession(testSecret, newSessionID(), time.Now())
	require.NoError(t, err)
	rec = e.do(t, http.MethodGet, "/game", nil, unknown)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewGameSetsCookie(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, "")
	rec := e.do(t, http.MethodPost, "/game/new", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, sessionCookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/game", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGameFlow(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, "")
	ng := e.newGame(t)
	require.NotEmpty(t, ng.GameID)
	require.Len(t, ng.Game.Turns, 1)
	assert.Equal(t, e.srv.currentRanking()[0].Guess, ng.Game.Turns[0].Guess)
	assert.Equal(t, "_____", ng.Game.Turns[0].Partial)
	assert.Equal(t, 7, ng.Game.Turns[0].AnswerCount)

	rec := e.do(t, http.MethodPost, "/game/guess", guessReq{Word: "CIGAR"}, ng.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decode[gameView](t, rec)
	assert.Equal(t, "cigar", v.Turns[0].Guess)

	// Ambiguous feedback cannot advance.
	rec = e.do(t, http.MethodPost, "/game/next", nil, ng.Token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "feedback_ambiguous", decode[refusedRes](t, rec).Error)

	pos := 0
	rec = e.do(t, http.MethodPost, "/game/toggle", toggleReq{Position: &pos}, ng.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decode[gameView](t, rec)
	assert.Equal(t, game.MarkMiss, v.Turns[0].Marks[0])

	// No other answer shares "cig" in place.
	rec = e.do(t, http.MethodPost, "/game/pattern", patternReq{Pattern: "+++.."}, ng.Token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(t, http.MethodPost, "/game/pattern", patternReq{Pattern: "+++++"}, ng.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decode[gameView](t, rec)
	require.NotNil(t, v.Turns[0].Resolved)
	assert.Equal(t, "+++++", *v.Turns[0].Resolved)

	rec = e.do(t, http.MethodPost, "/game/next", nil, ng.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v = decode[gameView](t, rec)
	require.Len(t, v.Turns, 2)
	assert.True(t, v.Solved)
	assert.Equal(t, []string{"cigar"}, v.Turns[1].PossibleAnswers)

	rec = e.do(t, http.MethodPost, "/game/next", nil, ng.Token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	refused := decode[refusedRes](t, rec)
	assert.Equal(t, "already_solved", refused.Error)
	assert.Len(t, refused.Game.Turns, 2)

	rec = e.do(t, http.MethodPost, "/game/undo", nil, ng.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[gameView](t, rec).Turns, 1)

	rec = e.do(t, http.MethodPost, "/game/undo", nil, ng.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[gameView](t, rec).Turns, 1, "first turn is never removed")

	rec = e.do(t, http.MethodGet, "/game", nil, ng.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[gameView](t, rec).Turns, 1)
}

func TestGameBadInput(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, "")
	ng := e.newGame(t)

	rec := e.do(t, http.MethodPost, "/game/guess", guessReq{Word: "zzzzz"}, ng.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	pos := 5
	rec = e.do(t, http.MethodPost, "/game/toggle", toggleReq{Position: &pos}, ng.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/game/toggle", map[string]any{}, ng.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/game/pattern", patternReq{Pattern: "+++"}, ng.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDailySolve(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, "")

	rec := e.do(t, http.MethodGet, "/daily/solve?date=2024-03-01", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dailySolveRes](t, rec)
	assert.Equal(t, "2024-03-01", res.Date)
	assert.True(t, e.lists.IsAnswer(res.Answer))
	assert.True(t, res.Solved)
	require.NotEmpty(t, res.Guesses)
	assert.Equal(t, res.Answer, res.Guesses[len(res.Guesses)-1])

	again := decode[dailySolveRes](t, e.do(t, http.MethodGet, "/daily/solve?date=2024-03-01", nil, ""))
	assert.Equal(t, res, again)

	rec = e.do(t, http.MethodGet, "/daily/solve?date=yesterday", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRebuild(t *testing.T) {
	t.Parallel()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	e := newTestEnv(t, string(hash))

	rec := e.do(t, http.MethodPost, "/admin/cache/rebuild", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	post := func(user, pw string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/cache/rebuild", nil)
		req.SetBasicAuth(user, pw)
		rec := httptest.NewRecorder()
		e.srv.Router().ServeHTTP(rec, req)
		return rec
	}
	assert.Equal(t, http.StatusUnauthorized, post(adminUser, "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, post("root", "hunter22").Code)

	rec = post(adminUser, "hunter22")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, len(e.lists.Allowed), decode[rebuildRes](t, rec).Guesses)

	stored, err := e.kv.Get(context.Background(), cache.Key)
	require.NoError(t, err)
	var s stats.Storable
	require.NoError(t, json.Unmarshal(stored, &s))
	assert.Equal(t, e.lists.Answers, s.AllowedAnswers)
}

func TestAdminDisabledWithoutHash(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, "")
	rec := e.do(t, http.MethodPost, "/admin/cache/rebuild", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConcurrentTogglesOnOneSession(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, "")
	ng := e.newGame(t)
	// humph shares no letter with cigar, so "....." stays possible throughout.
	rec := e.do(t, http.MethodPost, "/game/guess", guessReq{Word: "cigar"}, ng.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var wg sync.WaitGroup
	for pos := 0; pos < stats.WordLen; pos++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := json.Marshal(toggleReq{Position: &pos})
			if !assert.NoError(t, err) {
				return
			}
			req := httptest.NewRequest(http.MethodPost, "/game/toggle", bytes.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+ng.Token)
			rec := httptest.NewRecorder()
			e.srv.Router().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		}()
	}
	wg.Wait()

	rec = e.do(t, http.MethodGet, "/game", nil, ng.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[gameView](t, rec)
	assert.Equal(t, ".....", v.Turns[0].Partial, "every toggle must land")
}
