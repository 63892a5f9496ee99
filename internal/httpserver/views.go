// internal/httpserver/views.go
//
// JSON views of games and rankings. Answer groupings are never serialized;
// a turn is summarized by its guess, entered feedback, the number of patterns
// still possible and a capped list of remaining answers.

package httpserver

import (
	"github.com/peterbom/wordle-cheat/internal/game"
	"github.com/peterbom/wordle-cheat/internal/stats"
)

const (
	viewTopN       = 10
	viewMaxAnswers = 50
)

type rankRow struct {
	Guess          string  `json:"guess"`
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"stdDev"`
	Patterns       int     `json:"patterns"`
	PossibleAnswer bool    `json:"possibleAnswer"`
}

type turnView struct {
	Index           int         `json:"index"`
	Guess           string      `json:"guess"`
	Marks           []game.Mark `json:"marks"`
	Partial         string      `json:"partial"`
	Resolved        *string     `json:"resolved"`
	PatternCount    int         `json:"patternCount"`
	MatchingCount   int         `json:"matchingCount"`
	AnswerCount     int         `json:"answerCount"`
	PossibleAnswers []string    `json:"possibleAnswers"`
	Top             []rankRow   `json:"top"`
}

type gameView struct {
	Turns  []turnView `json:"turns"`
	Solved bool       `json:"solved"`
}

func rankRowsOf(ranked []*stats.GuessStats, n int) []rankRow {
	n = min(n, len(ranked))
	out := make([]rankRow, n)
	for i, gs := range ranked[:n] {
		out[i] = rankRow{
			Guess:          gs.Guess,
			Mean:           gs.Mean,
			StdDev:         gs.StdDev,
			Patterns:       len(gs.Patterns),
			PossibleAnswer: gs.IsPossibleAnswer,
		}
	}
	return out
}

func turnViewOf(i int, t game.Turn) turnView {
	v := turnView{
		Index:         i,
		Guess:         t.Guess.Guess,
		Marks:         game.MarksOf(t.Partial),
		Partial:       t.Partial.String(),
		PatternCount:  len(t.PossiblePatterns),
		MatchingCount: len(stats.MatchingPatterns(t.PossiblePatterns, t.Partial)),
		AnswerCount:   len(t.Answers),
		Top:           rankRowsOf(t.Ranking, viewTopN),
	}
	if t.Resolved != nil {
		r := t.Resolved.String()
		v.Resolved = &r
	}
	shown := t.Answers[:min(len(t.Answers), viewMaxAnswers)]
	v.PossibleAnswers = stats.Words(shown)
	return v
}

func gameViewOf(g game.Game) gameView {
	v := gameView{Turns: make([]turnView, len(g.Turns)), Solved: g.Solved()}
	for i, t := range g.Turns {
		v.Turns[i] = turnViewOf(i, t)
	}
	return v
}
