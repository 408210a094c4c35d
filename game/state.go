package game

import (
	"fmt"

	"github.com/google/uuid"
)

// MaxLives is the number of lost rounds (G-H-O-S-T) that eliminates a player.
const MaxLives = 5

// GameState is everything that changes during a game. The engine owns it; tests
// may build one directly.
type GameState struct {
	ID       string
	Fragment string
	// Players keeps the seating order given at construction, eliminated players included.
	Players []Player
	Lives   map[Player]int
	// Active is the rotation of players not yet eliminated.
	Active   []Player
	Current  int
	Previous Player
}

func NewGameState(players []Player) (*GameState, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 players, got %d", ErrInvalidSetup, len(players))
	}

	lives := make(map[Player]int, len(players))
	for i, p := range players {
		if p == nil {
			return nil, fmt.Errorf("%w: player %d is nil", ErrInvalidSetup, i)
		}
		if _, dup := lives[p]; dup {
			return nil, fmt.Errorf("%w: player %q seated twice", ErrInvalidSetup, p.Name())
		}
		lives[p] = 0
	}

	return &GameState{
		ID:      uuid.New().String(),
		Players: append([]Player(nil), players...),
		Lives:   lives,
		Active:  append([]Player(nil), players...),
	}, nil
}

// CurrentPlayer returns the player whose turn it is, or nil once nobody is active.
func (s *GameState) CurrentPlayer() Player {
	if len(s.Active) == 0 {
		return nil
	}
	return s.Active[s.Current]
}

// Advance passes the turn to the next active player, wrapping past the end.
func (s *GameState) Advance() {
	if len(s.Active) == 0 {
		return
	}
	s.Current = (s.Current + 1) % len(s.Active)
}

// ChargeLife adds one life to p, never past MaxLives, and returns the new count.
func (s *GameState) ChargeLife(p Player) int {
	if s.Lives[p] < MaxLives {
		s.Lives[p]++
	}
	return s.Lives[p]
}

// EliminateMaxed drops every active player at MaxLives from the rotation,
// keeping the order of the others. The turn stays with the same player when
// they survive; otherwise it falls to whoever now holds their position.
func (s *GameState) EliminateMaxed() []Player {
	var removed []Player
	kept := make([]Player, 0, len(s.Active))
	current := s.Current

	for i, p := range s.Active {
		if s.Lives[p] < MaxLives {
			kept = append(kept, p)
			continue
		}
		removed = append(removed, p)
		if i < s.Current {
			current--
		}
	}
	if len(removed) == 0 {
		return nil
	}

	s.Active = kept
	if current >= len(kept) {
		current = 0
	}
	s.Current = current
	return removed
}

// MaxedCount is the number of seated players at MaxLives.
func (s *GameState) MaxedCount() int {
	count := 0
	for _, p := range s.Players {
		if s.Lives[p] == MaxLives {
			count++
		}
	}
	return count
}

func (s *GameState) Standings() []Standing {
	standings := make([]Standing, 0, len(s.Players))
	for _, p := range s.Players {
		standings = append(standings, Standing{Player: p, Lives: s.Lives[p]})
	}
	return standings
}

// Outcome splits the seated players by life count: anyone at MaxLives lost,
// everyone else won. Rotation membership is not consulted.
func (s *GameState) Outcome() (winners, losers []Player) {
	for _, p := range s.Players {
		if s.Lives[p] == MaxLives {
			losers = append(losers, p)
		} else {
			winners = append(winners, p)
		}
	}
	return winners, losers
}
