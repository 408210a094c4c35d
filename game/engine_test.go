package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/wfunc/ghost/dictionary"
	"github.com/wfunc/ghost/player"
)

// recordingReporter keeps every event it receives.
type recordingReporter struct {
	events []Event
}

func (r *recordingReporter) Report(e Event) {
	r.events = append(r.events, e)
}

func (r *recordingReporter) ofType(t EventType) []Event {
	var out []Event
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

// blockingPlayer never answers on its own.
type blockingPlayer struct {
	name string
}

func (b *blockingPlayer) ID() string   { return "blocking-" + b.name }
func (b *blockingPlayer) Name() string { return b.name }
func (b *blockingPlayer) NextLetter(ctx context.Context) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// randomPlayer types random lowercase letters.
type randomPlayer struct {
	name string
	rng  *rand.Rand
}

func (r *randomPlayer) ID() string   { return "random-" + r.name }
func (r *randomPlayer) Name() string { return r.name }
func (r *randomPlayer) NextLetter(ctx context.Context) (string, error) {
	return string(rune('a' + r.rng.Intn(26))), nil
}

func newTestEngine(t *testing.T, words []string, players []Player, opts ...Option) (*Engine, *recordingReporter) {
	t.Helper()
	rep := &recordingReporter{}
	e, err := NewEngine(players, dictionary.New(words...), rep, opts...)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e, rep
}

func playTurns(t *testing.T, e *Engine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := e.PlayTurn(context.Background()); err != nil {
			t.Fatalf("PlayTurn %d failed: %v", i+1, err)
		}
	}
}

func TestNewEngine_InvalidSetup(t *testing.T) {
	dict := dictionary.New("cat")
	alice := player.NewScripted("Alice")

	cases := map[string]struct {
		players []Player
		dict    Dictionary
	}{
		"no players":     {players: nil, dict: dict},
		"one player":     {players: []Player{alice}, dict: dict},
		"nil player":     {players: []Player{alice, nil}, dict: dict},
		"same handle":    {players: []Player{alice, alice}, dict: dict},
		"nil dictionary": {players: []Player{alice, player.NewScripted("Bob")}, dict: nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e, err := NewEngine(tc.players, tc.dict, nil)
			if !errors.Is(err, ErrInvalidSetup) {
				t.Fatalf("Expected ErrInvalidSetup, got: %v", err)
			}
			if e != nil {
				t.Error("No engine should be returned for an invalid setup")
			}
		})
	}
}

func TestNewEngine_SharedNamesAreDistinctPlayers(t *testing.T) {
	a := player.NewScripted("Sam")
	b := player.NewScripted("Sam")
	e, _ := newTestEngine(t, []string{"cat"}, []Player{a, b})

	if len(e.ActivePlayers()) != 2 {
		t.Fatalf("Expected 2 active players, got %d", len(e.ActivePlayers()))
	}
	if e.Phase() != PhaseAwaitingTurn {
		t.Errorf("Expected phase %s, got %s", PhaseAwaitingTurn, e.Phase())
	}
	if e.CurrentPlayer() != a {
		t.Error("The first seated player should move first")
	}
}

func TestPlayTurn_CompletingWordCostsALife(t *testing.T) {
	a := player.NewScripted("A", "c", "t")
	b := player.NewScripted("B", "a")
	e, rep := newTestEngine(t, []string{"cat", "car", "dog"}, []Player{a, b})

	playTurns(t, e, 2)
	if e.Fragment() != "ca" {
		t.Fatalf("Expected fragment ca, got %q", e.Fragment())
	}
	if e.CurrentPlayer() != a {
		t.Fatal("Expected turn to rotate back to A")
	}

	playTurns(t, e, 1)

	if e.Fragment() != "" {
		t.Errorf("Expected fragment reset after the round, got %q", e.Fragment())
	}
	if e.Lives(a) != 1 || e.Lives(b) != 0 {
		t.Errorf("Expected lives A=1 B=0, got A=%d B=%d", e.Lives(a), e.Lives(b))
	}
	if e.PreviousPlayer() != a {
		t.Error("Expected A to be the previous player")
	}
	if e.CurrentPlayer() != a {
		t.Error("The player who completed the word opens the next round")
	}
	if e.Phase() != PhaseAwaitingTurn {
		t.Errorf("Expected phase %s, got %s", PhaseAwaitingTurn, e.Phase())
	}

	rounds := rep.ofType(EventRoundEnded)
	if len(rounds) != 1 {
		t.Fatalf("Expected 1 RoundEnded event, got %d", len(rounds))
	}
	round := rounds[0].(RoundEnded)
	if round.Player != a || round.Word != "cat" {
		t.Errorf("Unexpected RoundEnded event: %s/%q", round.Player.Name(), round.Word)
	}

	standings := rep.ofType(EventStandingsUpdate)
	if len(standings) != 1 {
		t.Fatalf("Expected 1 StandingsUpdate event, got %d", len(standings))
	}
	su := standings[0].(StandingsUpdate)
	if len(su.Standings) != 2 || su.Standings[0].Player != a || su.Standings[0].Lives != 1 || su.Standings[1].Lives != 0 {
		t.Errorf("Unexpected standings: %+v", su.Standings)
	}

	taken := rep.ofType(EventTurnTaken)
	wantFragments := []string{"c", "ca", "cat"}
	if len(taken) != len(wantFragments) {
		t.Fatalf("Expected %d TurnTaken events, got %d", len(wantFragments), len(taken))
	}
	for i, ev := range taken {
		if got := ev.(TurnTaken).Fragment; got != wantFragments[i] {
			t.Errorf("TurnTaken %d: expected %q, got %q", i, wantFragments[i], got)
		}
	}
}

func TestPlayTurn_InvalidLetterReprompts(t *testing.T) {
	a := player.NewScripted("A", "c", "q", "t")
	b := player.NewScripted("B", "a")
	e, rep := newTestEngine(t, []string{"cat", "car", "dog"}, []Player{a, b})

	playTurns(t, e, 3)

	invalid := rep.ofType(EventInvalidMove)
	if len(invalid) != 1 {
		t.Fatalf("Expected 1 InvalidMove event, got %d", len(invalid))
	}
	move := invalid[0].(InvalidMove)
	if move.Player != a || move.Letter != "q" || move.Reason != ReasonNoWord {
		t.Errorf("Unexpected InvalidMove: %s/%q/%s", move.Player.Name(), move.Letter, move.Reason)
	}

	// q was refused, so A's retry completed "cat" rather than anything starting "caq".
	round := rep.ofType(EventRoundEnded)[0].(RoundEnded)
	if round.Word != "cat" || round.Player != a {
		t.Errorf("Expected A to complete cat, got %s/%q", round.Player.Name(), round.Word)
	}
	if a.Remaining() != 0 {
		t.Errorf("Expected A to be re-prompted until t, %d letters left", a.Remaining())
	}
}

func TestPlayTurn_RejectsNonLetters(t *testing.T) {
	a := player.NewScripted("A", "C", "ca", "", "1", "c")
	b := player.NewScripted("B")
	e, rep := newTestEngine(t, []string{"cat"}, []Player{a, b})

	playTurns(t, e, 1)

	invalid := rep.ofType(EventInvalidMove)
	if len(invalid) != 4 {
		t.Fatalf("Expected 4 InvalidMove events, got %d", len(invalid))
	}
	for _, ev := range invalid {
		if r := ev.(InvalidMove).Reason; r != ReasonNotALetter {
			t.Errorf("Expected reason %s, got %s", ReasonNotALetter, r)
		}
	}
	if e.Fragment() != "c" {
		t.Errorf("Expected fragment c, got %q", e.Fragment())
	}
	if e.CurrentPlayer() != b {
		t.Error("Expected the turn to pass to B after a valid letter")
	}
}

func TestPlayTurn_EliminatedPlayerLeavesRotation(t *testing.T) {
	a := player.NewScripted("A", "c", "c", "t")
	b := player.NewScripted("B", "a", "a")
	c := player.NewScripted("C", "t")
	e, rep := newTestEngine(t, []string{"cat"}, []Player{a, b, c})
	e.gs.Lives[c] = MaxLives - 1

	playTurns(t, e, 3)

	if e.Lives(c) != MaxLives {
		t.Fatalf("Expected C at %d lives, got %d", MaxLives, e.Lives(c))
	}
	active := e.ActivePlayers()
	if len(active) != 2 || active[0] != a || active[1] != b {
		t.Fatalf("Expected active players [A B], got %d players", len(active))
	}
	if e.CurrentPlayer() != a {
		t.Error("Expected A to be next after C was removed from the end of the rotation")
	}
	if e.IsGameOver() {
		t.Fatal("One elimination should not end the game")
	}

	eliminated := rep.ofType(EventPlayerEliminated)
	if len(eliminated) != 1 || eliminated[0].(PlayerEliminated).Player != c {
		t.Fatalf("Expected one PlayerEliminated event for C, got %d", len(eliminated))
	}

	// C has no letters left; asking C again would fail the turn.
	playTurns(t, e, 3)
	if e.Lives(a) != 1 {
		t.Errorf("Expected A to lose a life in the second round, got %d", e.Lives(a))
	}
	if c.Remaining() != 0 || a.Remaining() != 0 || b.Remaining() != 0 {
		t.Error("Expected every scripted letter to be used exactly")
	}
}

func TestRun_TwoPlayersBothLose(t *testing.T) {
	a := player.NewScripted("A", "c", "t")
	b := player.NewScripted("B", "a", "c", "a", "t")
	e, rep := newTestEngine(t, []string{"cat"}, []Player{a, b})
	e.gs.Lives[a] = MaxLives - 1
	e.gs.Lives[b] = MaxLives - 1

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !e.IsGameOver() {
		t.Fatal("Expected the game to be over")
	}
	if e.Phase() != PhaseGameOver {
		t.Errorf("Expected phase %s, got %s", PhaseGameOver, e.Phase())
	}
	if len(e.ActivePlayers()) != 0 {
		t.Errorf("Expected no active players, got %d", len(e.ActivePlayers()))
	}

	ended := rep.ofType(EventGameEnded)
	if len(ended) != 1 {
		t.Fatalf("Expected 1 GameEnded event, got %d", len(ended))
	}
	ge := ended[0].(GameEnded)
	if len(ge.Winners) != 0 {
		t.Errorf("Expected no winners, got %d", len(ge.Winners))
	}
	if len(ge.Losers) != 2 || ge.Losers[0] != a || ge.Losers[1] != b {
		t.Errorf("Expected losers [A B], got %d losers", len(ge.Losers))
	}

	if err := e.PlayTurn(context.Background()); !errors.Is(err, ErrGameOver) {
		t.Errorf("Expected ErrGameOver after the game ended, got: %v", err)
	}
}

func TestRun_LiteralRuleWithFourPlayers(t *testing.T) {
	a := player.NewScripted("A")
	b := player.NewScripted("B", "c", "s")
	c := player.NewScripted("C", "a")
	d := player.NewScripted("D", "t")
	e, rep := newTestEngine(t, []string{"cats"}, []Player{a, b, c, d})
	e.gs.Lives[a] = MaxLives
	e.gs.EliminateMaxed()
	e.gs.Lives[b] = MaxLives - 1

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ge := rep.ofType(EventGameEnded)[0].(GameEnded)
	if len(ge.Winners) != 2 || ge.Winners[0] != c || ge.Winners[1] != d {
		t.Errorf("Expected winners [C D], got %d winners", len(ge.Winners))
	}
	if len(ge.Losers) != 2 || ge.Losers[0] != a || ge.Losers[1] != b {
		t.Errorf("Expected losers [A B], got %d losers", len(ge.Losers))
	}
}

func TestRun_LastStandingRule(t *testing.T) {
	a := player.NewScripted("A", "c", "t")
	b := player.NewScripted("B", "a")
	e, rep := newTestEngine(t, []string{"cat"}, []Player{a, b}, WithEndRule(EndRuleLastStanding))
	e.gs.Lives[a] = MaxLives - 1

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ge := rep.ofType(EventGameEnded)[0].(GameEnded)
	if len(ge.Winners) != 1 || ge.Winners[0] != b {
		t.Errorf("Expected B to win, got %d winners", len(ge.Winners))
	}
	if len(ge.Losers) != 1 || ge.Losers[0] != a {
		t.Errorf("Expected A to lose, got %d losers", len(ge.Losers))
	}
}

func TestPlayTurn_PlayerErrorStopsTurn(t *testing.T) {
	a := player.NewScripted("A")
	b := player.NewScripted("B")
	e, _ := newTestEngine(t, []string{"cat"}, []Player{a, b})

	err := e.PlayTurn(context.Background())
	if !errors.Is(err, player.ErrScriptExhausted) {
		t.Fatalf("Expected ErrScriptExhausted, got: %v", err)
	}
	if e.CurrentPlayer() != a || e.Fragment() != "" {
		t.Error("A failed turn must not change the game state")
	}
}

func TestPlayTurn_TurnTimeout(t *testing.T) {
	a := &blockingPlayer{name: "A"}
	b := &blockingPlayer{name: "B"}
	e, _ := newTestEngine(t, []string{"cat"}, []Player{a, b}, WithTurnTimeout(10*time.Millisecond))

	err := e.PlayTurn(context.Background())
	if !errors.Is(err, ErrTurnTimeout) {
		t.Fatalf("Expected ErrTurnTimeout, got: %v", err)
	}
}

func TestPlayTurn_CancelledRunIsNotATimeout(t *testing.T) {
	a := &blockingPlayer{name: "A"}
	b := &blockingPlayer{name: "B"}
	e, _ := newTestEngine(t, []string{"cat"}, []Player{a, b}, WithTurnTimeout(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := e.Run(ctx)
	if errors.Is(err, ErrTurnTimeout) {
		t.Fatal("Cancelling the run should not be reported as a turn timeout")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected context.DeadlineExceeded, got: %v", err)
	}
}

func TestParseEndRule(t *testing.T) {
	for in, want := range map[string]EndRule{
		"":              EndRuleLiteral,
		"literal":       EndRuleLiteral,
		"last_standing": EndRuleLastStanding,
	} {
		got, err := ParseEndRule(in)
		if err != nil || got != want {
			t.Errorf("ParseEndRule(%q): expected %s, got %s (%v)", in, want, got, err)
		}
	}
	if _, err := ParseEndRule("sudden_death"); err == nil {
		t.Error("Expected an error for an unknown rule")
	}
}

// Random play must never break the fragment or life invariants.
func TestRun_RandomPlayInvariants(t *testing.T) {
	words := []string{"cat", "car", "cart", "dog", "dot", "ghost", "ghoul", "zebra"}
	dict := dictionary.New(words...)

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		players := []Player{
			&randomPlayer{name: "A", rng: rng},
			&randomPlayer{name: "B", rng: rng},
			&randomPlayer{name: "C", rng: rng},
		}
		e, err := NewEngine(players, dict, nil)
		if err != nil {
			t.Fatalf("NewEngine failed: %v", err)
		}

		for turn := 0; !e.IsGameOver(); turn++ {
			if turn > 10000 {
				t.Fatalf("seed %d: game did not finish", seed)
			}
			if err := e.PlayTurn(context.Background()); err != nil {
				t.Fatalf("seed %d: PlayTurn failed: %v", seed, err)
			}

			f := e.Fragment()
			if f != "" && (!dict.HasPrefix(f) || dict.IsCompleteWord(f)) {
				t.Fatalf("seed %d: fragment %q is not a strict valid prefix", seed, f)
			}
			for _, p := range players {
				if e.Lives(p) > MaxLives {
					t.Fatalf("seed %d: %s has %d lives", seed, p.Name(), e.Lives(p))
				}
			}
			for _, p := range e.ActivePlayers() {
				if e.Lives(p) == MaxLives {
					t.Fatalf("seed %d: eliminated player %s is still active", seed, p.Name())
				}
			}
		}

		_, losers := e.Outcome()
		if len(losers) != 2 {
			t.Errorf("seed %d: expected 2 losers under the literal rule, got %d", seed, len(losers))
		}
	}
}
