package console

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// Input reads lines from a terminal. A single goroutine owns the reader and
// hands lines over an unbuffered channel, so a cancelled ReadLine never drops
// input meant for the next caller.
type Input struct {
	r     io.Reader
	lines chan string
	err   error
	once  sync.Once
}

func NewInput(r io.Reader) *Input {
	return &Input{
		r:     r,
		lines: make(chan string),
	}
}

func (in *Input) start() {
	go func() {
		scanner := bufio.NewScanner(in.r)
		for scanner.Scan() {
			in.lines <- strings.TrimRight(scanner.Text(), "\r")
		}
		in.err = scanner.Err()
		if in.err == nil {
			in.err = io.EOF
		}
		close(in.lines)
	}()
}

// ReadLine returns the next line without its newline, io.EOF once input is
// exhausted, or ctx's error if it is done first.
func (in *Input) ReadLine(ctx context.Context) (string, error) {
	in.once.Do(in.start)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-in.lines:
		if !ok {
			return "", in.err
		}
		return line, nil
	}
}
