// Package vocab reads input-method vocabulary files into ordered word to code
// mappings.
package vocab

import (
	"iter"
	"slices"
)

// Policy decides what happens when a word appears more than once.
type Policy int

const (
	// SingleCode keeps one code per word. A later line replaces the code but
	// the word keeps the position of its first appearance.
	SingleCode Policy = iota

	// MultiCode keeps every distinct code of a word in first-seen order.
	MultiCode
)

func (p Policy) String() string {
	if p == MultiCode {
		return "multi-code"
	}
	return "single-code"
}

// Entry is one word with its codes.
type Entry struct {
	Word  string
	Codes []string
}

// Vocabulary is an insertion ordered word to codes mapping.
type Vocabulary struct {
	policy Policy
	words  []string
	codes  map[string][]string
}

// New returns an empty vocabulary.
func New(policy Policy) *Vocabulary {
	return &Vocabulary{
		policy: policy,
		codes:  make(map[string][]string),
	}
}

// Policy returns the duplicate handling policy.
func (v *Vocabulary) Policy() Policy {
	return v.policy
}

// Add records code for word and reports whether word was already present.
func (v *Vocabulary) Add(word, code string) bool {
	existing, dup := v.codes[word]
	if !dup {
		v.words = append(v.words, word)
		v.codes[word] = []string{code}
		return false
	}

	switch v.policy {
	case MultiCode:
		if !slices.Contains(existing, code) {
			v.codes[word] = append(existing, code)
		}
	default:
		v.codes[word] = []string{code}
	}
	return true
}

// Len returns the number of distinct words.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.words)
}

// Has reports whether word is a key.
func (v *Vocabulary) Has(word string) bool {
	if v == nil {
		return false
	}
	_, ok := v.codes[word]
	return ok
}

// Codes returns a copy of the codes recorded for word.
func (v *Vocabulary) Codes(word string) ([]string, bool) {
	if v == nil {
		return nil, false
	}
	c, ok := v.codes[word]
	if !ok {
		return nil, false
	}
	return slices.Clone(c), true
}

// Code returns the first code of word, or "" when absent.
func (v *Vocabulary) Code(word string) string {
	if v == nil {
		return ""
	}
	if c := v.codes[word]; len(c) > 0 {
		return c[0]
	}
	return ""
}

// Words returns the words in insertion order.
func (v *Vocabulary) Words() []string {
	if v == nil {
		return nil
	}
	return slices.Clone(v.words)
}

// All iterates over words and their codes in insertion order. The yielded
// slices must not be modified.
func (v *Vocabulary) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if v == nil {
			return
		}
		for _, w := range v.words {
			if !yield(w, v.codes[w]) {
				return
			}
		}
	}
}

// Entries returns a copy of the vocabulary as entries in insertion order.
func (v *Vocabulary) Entries() []Entry {
	out := make([]Entry, 0, v.Len())
	for w, c := range v.All() {
		out = append(out, Entry{Word: w, Codes: slices.Clone(c)})
	}
	return out
}

// Reciprocal inserts code -> word for every non-empty code that was not a
// key before the call, so files with either column first compare alike.
// When several words share a code the last one wins. It returns the number
// of keys added.
//
// This is a heuristic: a code that happens to look like a word of the other
// column is silently skipped.
func (v *Vocabulary) Reciprocal() int {
	var order []string
	pending := make(map[string][]string)
	for _, w := range v.words {
		for _, c := range v.codes[w] {
			if c == "" {
				continue
			}
			if _, isKey := v.codes[c]; isKey {
				continue
			}
			prev, seen := pending[c]
			if !seen {
				order = append(order, c)
			}
			if v.policy == MultiCode {
				if !slices.Contains(prev, w) {
					pending[c] = append(prev, w)
				}
			} else {
				pending[c] = []string{w}
			}
		}
	}

	for _, c := range order {
		v.words = append(v.words, c)
		v.codes[c] = pending[c]
	}
	return len(order)
}
