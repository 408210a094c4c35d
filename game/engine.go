package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wfunc/ghost/logger"
	"github.com/wfunc/ghost/state"
)

var (
	// ErrInvalidSetup is returned by NewEngine when the game cannot start.
	ErrInvalidSetup = errors.New("invalid game setup")
	// ErrGameOver is returned by PlayTurn once the game has ended.
	ErrGameOver = errors.New("game is over")
	// ErrTurnTimeout is returned when a player does not answer within the turn timeout.
	ErrTurnTimeout = errors.New("turn timed out")
)

// EndRule decides when a game is over.
type EndRule string

const (
	// EndRuleLiteral ends the game once exactly two players have reached MaxLives,
	// whatever the number of seated players.
	EndRuleLiteral EndRule = "literal"
	// EndRuleLastStanding ends the game when at most one player is still active.
	EndRuleLastStanding EndRule = "last_standing"
)

func ParseEndRule(s string) (EndRule, error) {
	switch EndRule(s) {
	case EndRuleLiteral, EndRuleLastStanding:
		return EndRule(s), nil
	case "":
		return EndRuleLiteral, nil
	default:
		return "", fmt.Errorf("unknown end rule %q", s)
	}
}

// Phase ids of the engine's state machine.
const (
	PhaseAwaitingTurn = "awaiting_turn"
	PhaseRoundOver    = "round_over"
	PhaseGameOver     = "game_over"
)

type Option func(*Engine)

func WithEndRule(rule EndRule) Option {
	return func(e *Engine) {
		e.endRule = rule
	}
}

// WithTurnTimeout bounds how long a player may take to produce a valid letter.
// Zero disables the limit.
func WithTurnTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.turnTimeout = d
	}
}

// Engine runs one game of Ghost.
type Engine struct {
	gs          *GameState
	dict        Dictionary
	reporter    Reporter
	endRule     EndRule
	turnTimeout time.Duration

	machine   *state.BaseStateMachine
	awaiting  *awaitingTurnPhase
	roundOver *roundOverPhase
	gameOver  *gameOverPhase
}

type awaitingTurnPhase struct {
	state.Base
	engine *Engine
}

func (p *awaitingTurnPhase) OnEnter() {
	if next := p.engine.gs.CurrentPlayer(); next != nil {
		logger.Log.Debugw("awaiting turn", "game_id", p.engine.gs.ID, "player", next.Name(), "player_id", next.ID())
	}
}

type roundOverPhase struct {
	state.Base
	engine *Engine
}

func (p *roundOverPhase) OnEnter() {
	p.engine.resolveRound()
}

type gameOverPhase struct {
	state.Base
	engine *Engine
}

func (p *gameOverPhase) OnEnter() {
	logger.Log.Infow("game over", "game_id", p.engine.gs.ID, "end_rule", p.engine.endRule)
}

func NewEngine(players []Player, dict Dictionary, reporter Reporter, opts ...Option) (*Engine, error) {
	if dict == nil {
		return nil, fmt.Errorf("%w: no dictionary", ErrInvalidSetup)
	}
	gs, err := NewGameState(players)
	if err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = nopReporter{}
	}

	e := &Engine{
		gs:       gs,
		dict:     dict,
		reporter: reporter,
		endRule:  EndRuleLiteral,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.awaiting = &awaitingTurnPhase{Base: state.Base{ID: PhaseAwaitingTurn}, engine: e}
	e.roundOver = &roundOverPhase{Base: state.Base{ID: PhaseRoundOver}, engine: e}
	e.gameOver = &gameOverPhase{Base: state.Base{ID: PhaseGameOver}, engine: e}

	e.machine = state.NewBaseStateMachine(e.awaiting)
	e.machine.AddTransition(e.awaiting, e.roundOver, nil)
	e.machine.AddTransition(e.roundOver, e.gameOver, e.IsGameOver)
	e.machine.AddTransition(e.roundOver, e.awaiting, func() bool { return !e.IsGameOver() })

	return e, nil
}

// PlayTurn asks the current player for letters until one keeps the fragment a
// valid prefix, appends it, and resolves the round if a word was completed.
func (e *Engine) PlayTurn(ctx context.Context) error {
	if e.Phase() == PhaseGameOver {
		return ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p := e.gs.CurrentPlayer()
	if p == nil {
		return ErrGameOver
	}

	e.reporter.Report(TurnStarted{Player: p})
	letter, err := e.nextValidLetter(ctx, p)
	if err != nil {
		return err
	}

	e.gs.Fragment += letter
	e.gs.Previous = p
	e.reporter.Report(TurnTaken{Player: p, Fragment: e.gs.Fragment})
	logger.Log.Debugw("turn taken",
		"game_id", e.gs.ID,
		"player", p.Name(),
		"player_id", p.ID(),
		"fragment", e.gs.Fragment,
	)

	if !e.dict.IsCompleteWord(e.gs.Fragment) {
		e.gs.Advance()
		return nil
	}

	if err := e.machine.ChangeState(e.roundOver); err != nil {
		return err
	}
	err = e.machine.ChangeState(e.gameOver)
	if errors.Is(err, state.ErrTransitionNotAllowed) {
		return e.machine.ChangeState(e.awaiting)
	}
	return err
}

func (e *Engine) nextValidLetter(ctx context.Context, p Player) (string, error) {
	turnCtx := ctx
	if e.turnTimeout > 0 {
		var cancel context.CancelFunc
		turnCtx, cancel = context.WithTimeout(ctx, e.turnTimeout)
		defer cancel()
	}

	for {
		letter, err := p.NextLetter(turnCtx)
		if err != nil {
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				return "", fmt.Errorf("%w: %s after %v", ErrTurnTimeout, p.Name(), e.turnTimeout)
			}
			return "", fmt.Errorf("player %q: %w", p.Name(), err)
		}

		reason, ok := e.checkLetter(letter)
		if ok {
			return letter, nil
		}
		e.reporter.Report(InvalidMove{Player: p, Letter: letter, Reason: reason})
		logger.Log.Debugw("invalid move",
			"game_id", e.gs.ID,
			"player", p.Name(),
			"letter", letter,
			"reason", reason,
		)
	}
}

func (e *Engine) checkLetter(letter string) (InvalidReason, bool) {
	if len(letter) != 1 || letter[0] < 'a' || letter[0] > 'z' {
		return ReasonNotALetter, false
	}
	if !e.dict.HasPrefix(e.gs.Fragment + letter) {
		return ReasonNoWord, false
	}
	return "", true
}

// resolveRound charges the player who completed the word, starts a fresh
// fragment and removes anyone who has run out of lives.
func (e *Engine) resolveRound() {
	loser := e.gs.Previous
	word := e.gs.Fragment
	lives := e.gs.ChargeLife(loser)
	e.gs.Fragment = ""

	e.reporter.Report(RoundEnded{Player: loser, Word: word})
	logger.Log.Infow("round ended",
		"game_id", e.gs.ID,
		"player", loser.Name(),
		"player_id", loser.ID(),
		"word", word,
		"lives", lives,
	)

	for _, p := range e.gs.EliminateMaxed() {
		e.reporter.Report(PlayerEliminated{Player: p})
		logger.Log.Infow("player eliminated", "game_id", e.gs.ID, "player", p.Name(), "player_id", p.ID())
	}
	e.reporter.Report(StandingsUpdate{Standings: e.gs.Standings()})
}

func (e *Engine) IsGameOver() bool {
	switch e.endRule {
	case EndRuleLastStanding:
		return len(e.gs.Active) <= 1
	default:
		return e.gs.MaxedCount() == 2
	}
}

// Run plays turns until the game is over, then reports winners and losers.
func (e *Engine) Run(ctx context.Context) error {
	logger.Log.Infow("game started",
		"game_id", e.gs.ID,
		"players", len(e.gs.Players),
		"end_rule", e.endRule,
		"turn_timeout", e.turnTimeout,
	)

	for !e.IsGameOver() {
		if err := e.PlayTurn(ctx); err != nil {
			return err
		}
	}

	winners, losers := e.gs.Outcome()
	e.reporter.Report(GameEnded{Winners: winners, Losers: losers})
	return nil
}

func (e *Engine) ID() string {
	return e.gs.ID
}

func (e *Engine) Phase() string {
	return e.machine.GetCurrentState().GetID()
}

func (e *Engine) Fragment() string {
	return e.gs.Fragment
}

func (e *Engine) Lives(p Player) int {
	return e.gs.Lives[p]
}

func (e *Engine) ActivePlayers() []Player {
	return append([]Player(nil), e.gs.Active...)
}

func (e *Engine) CurrentPlayer() Player {
	return e.gs.CurrentPlayer()
}

func (e *Engine) PreviousPlayer() Player {
	return e.gs.Previous
}

func (e *Engine) Standings() []Standing {
	return e.gs.Standings()
}

func (e *Engine) Outcome() (winners, losers []Player) {
	return e.gs.Outcome()
}
