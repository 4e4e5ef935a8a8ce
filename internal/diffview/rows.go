package diffview

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"vocabdiff/internal/comparison"
	"vocabdiff/internal/differ"
	"vocabdiff/internal/vocab"
)

type Pane int

const (
	PaneAdded Pane = iota
	PaneRemoved
	PaneChanged
	PaneOld
	PaneNew
	PanePatch
)

// Panes lists every pane in tab order.
var Panes = []Pane{PaneAdded, PaneRemoved, PaneChanged, PaneOld, PaneNew, PanePatch}

func (p Pane) Name() string {
	switch p {
	case PaneAdded:
		return "Added"
	case PaneRemoved:
		return "Removed"
	case PaneChanged:
		return "Changed"
	case PaneOld:
		return "Old"
	case PaneNew:
		return "New"
	case PanePatch:
		return "Patch"
	}
	return "?"
}

// Title is the tab label, e.g. "Added (3)".
func (p Pane) Title(count int) string {
	return fmt.Sprintf("%s (%d)", p.Name(), count)
}

// Next cycles through Panes by delta, wrapping at both ends.
func (p Pane) Next(delta int) Pane {
	n := len(Panes)
	return Pane(((int(p)+delta)%n + n) % n)
}

type RowKind int

const (
	RowUnchanged RowKind = iota
	RowAdded
	RowRemoved
	RowChanged
	RowFileHeader
	RowHunkHeader
)

// Marker is the gutter character shown in the Old and New panes.
func (k RowKind) Marker() rune {
	switch k {
	case RowAdded:
		return '+'
	case RowRemoved:
		return '-'
	case RowChanged:
		return '~'
	}
	return ' '
}

type Row struct {
	Kind RowKind
	Word string
	Text string

	// Marked rows are prefixed with Kind.Marker.
	Marked bool
}

// Line is the plain text of the row as displayed and copied.
func (r Row) Line() string {
	if r.Marked {
		return string(r.Kind.Marker()) + " " + r.Text
	}
	return r.Text
}

// FormatEntry renders "word: code", joining several codes with ", ".
func FormatEntry(word string, codes []string) string {
	return word + ": " + strings.Join(codes, ", ")
}

// FormatChange renders "word: old -> new".
func FormatChange(c differ.Change) string {
	return c.Word + ": " + strings.Join(c.Old, ", ") + " -> " + strings.Join(c.New, ", ")
}

type BuildOptions struct {
	Sorted       bool
	PatchContext int
}

// View holds the rows of every pane for one comparison.
type View struct {
	rows map[Pane][]Row
}

// Build lays out all panes. A nil comparison yields empty panes.
func Build(c *comparison.Comparison, opts BuildOptions) (*View, error) {
	v := &View{rows: make(map[Pane][]Row, len(Panes))}
	if c == nil {
		return v, nil
	}

	res := c.Result
	if opts.Sorted {
		res = res.Sorted()
	}

	v.rows[PaneAdded] = entryRows(res.Added, RowAdded)
	v.rows[PaneRemoved] = entryRows(res.Removed, RowRemoved)

	changed := make([]Row, 0, len(res.Changed))
	for _, ch := range res.Changed {
		changed = append(changed, Row{Kind: RowChanged, Word: ch.Word, Text: FormatChange(ch)})
	}
	v.rows[PaneChanged] = changed

	v.rows[PaneOld] = sideRows(c.Old, res, RowRemoved, opts.Sorted)
	v.rows[PaneNew] = sideRows(c.New, res, RowAdded, opts.Sorted)

	patch, err := Patch(c, opts.PatchContext)
	if err != nil {
		return v, err
	}
	v.rows[PanePatch] = PatchRows(string(patch))
	return v, nil
}

// Rows returns the rows of pane p.
func (v *View) Rows(p Pane) []Row {
	if v == nil {
		return nil
	}
	return v.rows[p]
}

// Count is the number shown in the tab title. For the Patch pane it is the
// number of hunks.
func (v *View) Count(p Pane) int {
	rows := v.Rows(p)
	if p != PanePatch {
		return len(rows)
	}
	n := 0
	for _, r := range rows {
		if r.Kind == RowHunkHeader {
			n++
		}
	}
	return n
}

// PlainText joins the displayed lines of pane p.
func (v *View) PlainText(p Pane) string {
	rows := v.Rows(p)
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.Line()
	}
	return strings.Join(lines, "\n")
}

func entryRows(entries []vocab.Entry, kind RowKind) []Row {
	out := make([]Row, 0, len(entries))
	for _, e := range entries {
		out = append(out, Row{Kind: kind, Word: e.Word, Text: FormatEntry(e.Word, e.Codes)})
	}
	return out
}

// sideRows lists a whole vocabulary, marking words that only this side has
// with onlyKind and words whose codes differ with RowChanged.
func sideRows(v *vocab.Vocabulary, res differ.Result, onlyKind RowKind, sorted bool) []Row {
	only := make(map[string]struct{})
	src := res.Added
	if onlyKind == RowRemoved {
		src = res.Removed
	}
	for _, e := range src {
		only[e.Word] = struct{}{}
	}
	changed := make(map[string]struct{}, len(res.Changed))
	for _, ch := range res.Changed {
		changed[ch.Word] = struct{}{}
	}

	entries := v.Entries()
	if sorted {
		slices.SortFunc(entries, func(a, b vocab.Entry) int { return cmp.Compare(a.Word, b.Word) })
	}

	out := make([]Row, 0, len(entries))
	for _, e := range entries {
		kind := RowUnchanged
		if _, ok := only[e.Word]; ok {
			kind = onlyKind
		} else if _, ok := changed[e.Word]; ok {
			kind = RowChanged
		}
		out = append(out, Row{Kind: kind, Word: e.Word, Text: FormatEntry(e.Word, e.Codes), Marked: true})
	}
	return out
}
