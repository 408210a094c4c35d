package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wfunc/ghost/game"
	"github.com/wfunc/ghost/player"
)

// Welcome prints the rules shown before the first round.
func Welcome(out io.Writer) {
	fmt.Fprintln(out, "Welcome to Ghost!")
	fmt.Fprintf(out, "Each player begins with %d lives (%s).\n", game.MaxLives, ghostWord)
	fmt.Fprintln(out, "Players take turns adding a letter to the growing fragment until a word is formed.")
	fmt.Fprintln(out, "If a word is formed, the round ends and that player loses a life!")
}

// SetupPlayers asks for a player count, re-asking until it is a number, then a
// name per player. The count is not range checked here; the engine rejects
// games with too few players.
func SetupPlayers(ctx context.Context, in *Input, out io.Writer) ([]game.Player, error) {
	var count int
	for {
		fmt.Fprintln(out, "How many players?")
		line, err := in.ReadLine(ctx)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			count = n
			break
		}
		fmt.Fprintf(out, "%q is not a number.\n", strings.TrimSpace(line))
	}

	var players []game.Player
	for i := 0; i < count; i++ {
		fmt.Fprint(out, "Enter a name: ")
		line, err := in.ReadLine(ctx)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(line)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		players = append(players, player.NewHuman(name, in, out))
	}
	return players, nil
}
