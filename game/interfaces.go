// game/interfaces.go
package game

import "context"

// Player supplies letters for its turns. Players are compared by handle, so
// implementations should be pointer types.
type Player interface {
	ID() string
	Name() string
	// NextLetter may block until the player answers or ctx is done.
	NextLetter(ctx context.Context) (string, error)
}

// Reporter receives every event the engine emits. The engine never writes
// user-facing output itself.
type Reporter interface {
	Report(event Event)
}

// Dictionary is the word lookup the engine validates fragments against.
type Dictionary interface {
	IsCompleteWord(s string) bool
	HasPrefix(s string) bool
}

type nopReporter struct{}

func (nopReporter) Report(Event) {}
