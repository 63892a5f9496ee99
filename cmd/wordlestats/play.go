// cmd/wordlestats/play.go
//
// Interactive solving. Play the suggested guess in wordle, type the colours
// it shows back in, and ask for the next suggestion.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterbom/wordle-cheat/internal/game"
	"github.com/peterbom/wordle-cheat/internal/stats"
)

const playHelp = `commands:
  guess WORD     use WORD as this turn's guess
  toggle N       cycle the feedback of letter N (1-5)
  pattern P      enter all feedback, e.g. .?+.. or bygbb (. b miss, ? y present, + g hit)
  next           advance once the feedback is unambiguous
  undo           drop the last turn
  show           print the current turn
  quit`

// play runs the REPL until quit, EOF or ctx ends.
func play(ctx context.Context, g game.Game, r stats.Ranker, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, playHelp)
	printTurn(out, g)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		fields := strings.Fields(strings.ToLower(sc.Text()))
		if len(fields) == 0 {
			continue
		}
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch fields[0] {
		case "guess", "g":
			if _, ok := g.Current().Lookup[arg]; !ok {
				fmt.Fprintf(out, "%q is not a guess for this turn\n", arg)
				continue
			}
			g = g.SetGuess(arg)
		case "toggle", "t":
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 || n > stats.WordLen {
				fmt.Fprintln(out, "toggle takes a letter number 1-5")
				continue
			}
			g = g.TogglePartialPattern(n - 1)
		case "pattern", "p":
			p, err := stats.ParsePattern(arg)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			next := g.SetPattern(p)
			if res := next.Current().Resolved; res == nil || *res != p {
				fmt.Fprintf(out, "%s is impossible for %s\n", p, g.Current().Guess.Guess)
				continue
			}
			g = next
		case "next", "n":
			if g.Over() {
				fmt.Fprintln(out, "already solved")
				continue
			}
			if g.Current().Resolved == nil {
				fmt.Fprintln(out, "feedback is still ambiguous")
				continue
			}
			next, err := g.SetNextWordContext(ctx, r)
			if err != nil {
				return err
			}
			if len(next.Turns) == len(g.Turns) {
				fmt.Fprintln(out, "no answer matches that feedback")
				continue
			}
			g = next
		case "undo", "u":
			g = g.DeleteLastTurn()
		case "show", "s":
		case "quit", "q", "exit":
			return nil
		default:
			fmt.Fprintln(out, playHelp)
			continue
		}
		printTurn(out, g)
	}
}

func printTurn(out io.Writer, g game.Game) {
	t := g.Current()
	fmt.Fprintf(out, "turn %d: %s  %s", len(g.Turns), t.Guess.Guess, t.Partial)
	if g.Solved() {
		fmt.Fprint(out, "  solved")
	} else if t.Resolved != nil {
		fmt.Fprint(out, "  (ready: next)")
	}
	fmt.Fprintln(out)

	answers := stats.Words(t.Answers)
	if len(answers) > 20 {
		fmt.Fprintf(out, "  %d possible answers\n", len(answers))
	} else {
		fmt.Fprintf(out, "  possible: %s\n", strings.Join(answers, " "))
	}
	for i, gs := range t.Ranking[:min(5, len(t.Ranking))] {
		fmt.Fprintf(out, "  %d. %s  mean %.2f\n", i+1, gs.Guess, gs.Mean)
	}
}
