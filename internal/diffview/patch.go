package diffview

import (
	"bytes"
	"cmp"
	"slices"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"

	"vocabdiff/internal/comparison"
	"vocabdiff/internal/differ"
	"vocabdiff/internal/vocab"
)

// DefaultPatchContext is the number of unchanged listing lines around each
// hunk.
const DefaultPatchContext = 3

type lineOp struct {
	kind byte // ' ', '-' or '+'
	text string
}

// Patch renders the comparison as a unified diff of the two vocabularies,
// each listed as sorted "word<TAB>codes" lines. An empty result yields an
// empty patch.
func Patch(c *comparison.Comparison, context int) ([]byte, error) {
	if c == nil || c.Result.Empty() {
		return nil, nil
	}
	if context < 0 {
		context = 0
	}

	fd := &sgdiff.FileDiff{
		OrigName: c.Request.OldPath,
		NewName:  c.Request.NewPath,
		Hunks:    hunks(listingOps(c.Old, c.New), context),
	}
	return sgdiff.PrintFileDiff(fd)
}

func listing(v *vocab.Vocabulary) []vocab.Entry {
	entries := v.Entries()
	slices.SortFunc(entries, func(a, b vocab.Entry) int { return cmp.Compare(a.Word, b.Word) })
	return entries
}

func listingLine(e vocab.Entry) string {
	return e.Word + "\t" + strings.Join(e.Codes, ", ")
}

// listingOps merges the two sorted listings. Words are unique on each side,
// so a merge walk yields a minimal edit script.
func listingOps(old, new *vocab.Vocabulary) []lineOp {
	a, b := listing(old), listing(new)
	ops := make([]lineOp, 0, max(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i].Word < b[j].Word):
			ops = append(ops, lineOp{'-', listingLine(a[i])})
			i++
		case i == len(a) || b[j].Word < a[i].Word:
			ops = append(ops, lineOp{'+', listingLine(b[j])})
			j++
		default:
			// Reordered codes are not a change.
			if differ.SameCodes(a[i].Codes, b[j].Codes) {
				ops = append(ops, lineOp{' ', listingLine(b[j])})
			} else {
				ops = append(ops, lineOp{'-', listingLine(a[i])}, lineOp{'+', listingLine(b[j])})
			}
			i++
			j++
		}
	}
	return ops
}

func hunks(ops []lineOp, context int) []*sgdiff.Hunk {
	var out []*sgdiff.Hunk

	// Line counts before ops[k], per side.
	oldBefore := make([]int, len(ops)+1)
	newBefore := make([]int, len(ops)+1)
	for k, op := range ops {
		oldBefore[k+1] = oldBefore[k]
		newBefore[k+1] = newBefore[k]
		if op.kind != '+' {
			oldBefore[k+1]++
		}
		if op.kind != '-' {
			newBefore[k+1]++
		}
	}

	k := 0
	for k < len(ops) {
		if ops[k].kind == ' ' {
			k++
			continue
		}
		start := max(0, k-context)

		// Extend while the next change is close enough to share context.
		end := k
		for {
			for end < len(ops) && ops[end].kind != ' ' {
				end++
			}
			next := end
			for next < len(ops) && ops[next].kind == ' ' {
				next++
			}
			if next < len(ops) && next-end <= 2*context {
				end = next
				continue
			}
			break
		}
		stop := min(len(ops), end+context)

		out = append(out, buildHunk(ops[start:stop], oldBefore[start], newBefore[start]))
		k = stop
	}
	return out
}

func buildHunk(ops []lineOp, oldBefore, newBefore int) *sgdiff.Hunk {
	var body bytes.Buffer
	var oldLines, newLines int32
	for _, op := range ops {
		body.WriteByte(op.kind)
		body.WriteString(op.text)
		body.WriteByte('\n')
		if op.kind != '+' {
			oldLines++
		}
		if op.kind != '-' {
			newLines++
		}
	}

	h := &sgdiff.Hunk{
		OrigStartLine: int32(oldBefore),
		OrigLines:     oldLines,
		NewStartLine:  int32(newBefore),
		NewLines:      newLines,
		Body:          body.Bytes(),
	}
	// An empty range starts at the line before it.
	if oldLines > 0 {
		h.OrigStartLine++
	}
	if newLines > 0 {
		h.NewStartLine++
	}
	return h
}
