package console

import (
	"fmt"
	"io"

	"github.com/wfunc/ghost/game"
)

const ghostWord = "GHOST"

// Reporter prints game events as plain lines of text.
type Reporter struct {
	out io.Writer
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) Report(event game.Event) {
	switch e := event.(type) {
	case game.TurnStarted:
		fmt.Fprintf(r.out, "%s's turn!\n", e.Player.Name())
	case game.TurnTaken:
		fmt.Fprintf(r.out, "The word fragment now is: %s\n", e.Fragment)
	case game.InvalidMove:
		fmt.Fprintf(r.out, "You just entered an invalid letter: %s!\n", e.Letter)
		if e.Reason == game.ReasonNotALetter {
			fmt.Fprintln(r.out, "Enter a single letter from a to z!")
		} else {
			fmt.Fprintln(r.out, "Letter appended to the fragment does not start a word!")
		}
	case game.RoundEnded:
		fmt.Fprintf(r.out, "%s formed a word: %s!\n", e.Player.Name(), e.Word)
		fmt.Fprintln(r.out, "Round ended!")
	case game.PlayerEliminated:
		fmt.Fprintf(r.out, "%s is a GHOST and is out of the game!\n", e.Player.Name())
	case game.StandingsUpdate:
		for _, s := range e.Standings {
			if s.Lives > 0 {
				fmt.Fprintf(r.out, "%s has %s!\n", s.Player.Name(), Letters(s.Lives))
			}
		}
	case game.GameEnded:
		for _, p := range e.Losers {
			fmt.Fprintf(r.out, "%s loses!\n", p.Name())
		}
		for _, p := range e.Winners {
			fmt.Fprintf(r.out, "%s wins!\n", p.Name())
		}
	}
}

// Letters spells lost lives as the start of GHOST: 2 -> "GH".
func Letters(lives int) string {
	if lives < 0 {
		lives = 0
	}
	if lives > len(ghostWord) {
		lives = len(ghostWord)
	}
	return ghostWord[:lives]
}
