// Package dictionary holds the word list that Ghost fragments are checked against.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

const (
	// DefaultFile is the word list read when no path is configured.
	DefaultFile = "ghost-dictionary.txt"
	// MinWordLength is the shortest entry kept on load.
	MinWordLength = 3
)

// ErrLoad is returned when the word list cannot be read.
var ErrLoad = errors.New("dictionary: load failed")

// Dictionary is an immutable set of lowercase words.
type Dictionary struct {
	words  map[string]struct{}
	sorted []string
}

// Load reads a newline-delimited word list from path.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	defer f.Close()

	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Read builds a Dictionary from r, one word per line. Entries are trimmed and
// lowercased; entries shorter than MinWordLength are dropped.
func Read(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{words: make(map[string]struct{})}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := normalize(scanner.Text())
		if len(word) < MinWordLength {
			continue
		}
		if _, dup := d.words[word]; dup {
			continue
		}
		d.words[word] = struct{}{}
		d.sorted = append(d.sorted, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	sort.Strings(d.sorted)
	return d, nil
}

// New builds a Dictionary from an in-memory list with the same filtering as Read.
func New(words ...string) *Dictionary {
	d, _ := Read(strings.NewReader(strings.Join(words, "\n")))
	return d
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsCompleteWord reports whether s is exactly one of the words.
func (d *Dictionary) IsCompleteWord(s string) bool {
	_, ok := d.words[normalize(s)]
	return ok
}

// HasPrefix reports whether some word starts with s.
func (d *Dictionary) HasPrefix(s string) bool {
	prefix := normalize(s)
	// The first word not less than prefix is the only candidate that can start with it.
	i := sort.SearchStrings(d.sorted, prefix)
	return i < len(d.sorted) && strings.HasPrefix(d.sorted[i], prefix)
}

func (d *Dictionary) Len() int {
	return len(d.sorted)
}
