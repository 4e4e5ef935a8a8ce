// Package differ computes the added, removed and changed words between two
// vocabularies.
package differ

import (
	"cmp"
	"slices"

	"vocabdiff/internal/vocab"
)

// Change is a word present in both vocabularies with different codes.
type Change struct {
	Word string
	Old  []string
	New  []string
}

// Result holds the three partitions of a comparison.
type Result struct {
	// Added follows the order of the new vocabulary.
	Added []vocab.Entry
	// Removed follows the order of the old vocabulary.
	Removed []vocab.Entry
	// Changed follows the order of the new vocabulary.
	Changed []Change

	Unchanged int
}

// Summary is a count per partition.
type Summary struct {
	Added     int
	Removed   int
	Changed   int
	Unchanged int
}

// Compare diffs old against new. Nil vocabularies are treated as empty.
func Compare(old, new *vocab.Vocabulary) Result {
	res := Result{
		Added:   []vocab.Entry{},
		Removed: []vocab.Entry{},
		Changed: []Change{},
	}

	for w, newCodes := range new.All() {
		oldCodes, ok := old.Codes(w)
		switch {
		case !ok:
			res.Added = append(res.Added, vocab.Entry{Word: w, Codes: slices.Clone(newCodes)})
		case !SameCodes(oldCodes, newCodes):
			res.Changed = append(res.Changed, Change{Word: w, Old: oldCodes, New: slices.Clone(newCodes)})
		default:
			res.Unchanged++
		}
	}

	for w, oldCodes := range old.All() {
		if !new.Has(w) {
			res.Removed = append(res.Removed, vocab.Entry{Word: w, Codes: slices.Clone(oldCodes)})
		}
	}
	return res
}

// Empty reports whether the vocabularies compared equal.
func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Summary returns partition sizes.
func (r Result) Summary() Summary {
	return Summary{
		Added:     len(r.Added),
		Removed:   len(r.Removed),
		Changed:   len(r.Changed),
		Unchanged: r.Unchanged,
	}
}

// Sorted returns a copy with every partition ordered by word.
func (r Result) Sorted() Result {
	out := Result{
		Added:     slices.Clone(r.Added),
		Removed:   slices.Clone(r.Removed),
		Changed:   slices.Clone(r.Changed),
		Unchanged: r.Unchanged,
	}
	byWord := func(a, b vocab.Entry) int { return cmp.Compare(a.Word, b.Word) }
	slices.SortFunc(out.Added, byWord)
	slices.SortFunc(out.Removed, byWord)
	slices.SortFunc(out.Changed, func(a, b Change) int { return cmp.Compare(a.Word, b.Word) })
	return out
}

// SameCodes compares codes ignoring order. Single-code vocabularies always
// hold one code per word, so this is plain equality for them.
func SameCodes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 1 {
		return a[0] == b[0]
	}
	as := slices.Sorted(slices.Values(a))
	bs := slices.Sorted(slices.Values(b))
	return slices.Equal(as, bs)
}
