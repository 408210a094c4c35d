package game

// EventType names an event for renderers and metrics labels.
type EventType string

const (
	EventTurnStarted      EventType = "turn_started"
	EventTurnTaken        EventType = "turn_taken"
	EventInvalidMove      EventType = "invalid_move"
	EventRoundEnded       EventType = "round_ended"
	EventPlayerEliminated EventType = "player_eliminated"
	EventStandingsUpdate  EventType = "standings_update"
	EventGameEnded        EventType = "game_ended"
)

type Event interface {
	Type() EventType
}

// InvalidReason explains why a letter was refused.
type InvalidReason string

const (
	// ReasonNotALetter: the input was not a single lowercase a-z letter.
	ReasonNotALetter InvalidReason = "not_a_letter"
	// ReasonNoWord: no dictionary word starts with fragment+letter.
	ReasonNoWord InvalidReason = "no_word"
)

type TurnStarted struct {
	Player Player
}

type TurnTaken struct {
	Player   Player
	Fragment string
}

type InvalidMove struct {
	Player Player
	Letter string
	Reason InvalidReason
}

type RoundEnded struct {
	Player Player
	Word   string
}

type PlayerEliminated struct {
	Player Player
}

// Standing is one player's life count.
type Standing struct {
	Player Player
	Lives  int
}

// StandingsUpdate lists every seated player, eliminated ones included, in seat order.
type StandingsUpdate struct {
	Standings []Standing
}

type GameEnded struct {
	Winners []Player
	Losers  []Player
}

func (TurnStarted) Type() EventType      { return EventTurnStarted }
func (TurnTaken) Type() EventType        { return EventTurnTaken }
func (InvalidMove) Type() EventType      { return EventInvalidMove }
func (RoundEnded) Type() EventType       { return EventRoundEnded }
func (PlayerEliminated) Type() EventType { return EventPlayerEliminated }
func (StandingsUpdate) Type() EventType  { return EventStandingsUpdate }
func (GameEnded) Type() EventType        { return EventGameEnded }
