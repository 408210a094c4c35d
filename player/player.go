// Package player provides the letter sources a game can seat.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ErrScriptExhausted is returned by a Scripted player with no letters left.
var ErrScriptExhausted = errors.New("script exhausted")

// LineSource yields one line of input at a time.
type LineSource interface {
	ReadLine(ctx context.Context) (string, error)
}

// Human reads letters typed at a prompt. The prompt is shown once per turn;
// input is lowercased and silently re-read until it is a single letter a-z.
type Human struct {
	id     string
	name   string
	in     LineSource
	prompt io.Writer
}

func NewHuman(name string, in LineSource, prompt io.Writer) *Human {
	return &Human{
		id:     uuid.New().String(),
		name:   name,
		in:     in,
		prompt: prompt,
	}
}

func (h *Human) ID() string {
	return h.id
}

func (h *Human) Name() string {
	return h.name
}

func (h *Human) NextLetter(ctx context.Context) (string, error) {
	fmt.Fprint(h.prompt, "Enter a letter: ")
	for {
		line, err := h.in.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		input := strings.ToLower(strings.TrimSpace(line))
		if isLetter(input) {
			return input, nil
		}
	}
}

func isLetter(s string) bool {
	return len(s) == 1 && s[0] >= 'a' && s[0] <= 'z'
}

// Scripted plays a fixed sequence of letters, for tests and replays.
type Scripted struct {
	id      string
	name    string
	letters []string
	next    int
}

func NewScripted(name string, letters ...string) *Scripted {
	return &Scripted{
		id:      uuid.New().String(),
		name:    name,
		letters: letters,
	}
}

func (s *Scripted) ID() string {
	return s.id
}

func (s *Scripted) Name() string {
	return s.name
}

func (s *Scripted) NextLetter(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.next >= len(s.letters) {
		return "", fmt.Errorf("%s: %w", s.name, ErrScriptExhausted)
	}
	letter := s.letters[s.next]
	s.next++
	return letter, nil
}

// Remaining is the number of letters not yet played.
func (s *Scripted) Remaining() int {
	return len(s.letters) - s.next
}
