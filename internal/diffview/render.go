package diffview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

type Styles struct {
	Plain   lipgloss.Style
	Added   lipgloss.Style
	Removed lipgloss.Style
	Changed lipgloss.Style
	Header  lipgloss.Style
	Hunk    lipgloss.Style

	Match   lipgloss.Style
	Current lipgloss.Style
}

func DefaultStyles() Styles {
	base := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return Styles{
		Plain:   base,
		Added:   base.Foreground(lipgloss.Color("42")),
		Removed: base.Foreground(lipgloss.Color("203")),
		Changed: base.Foreground(lipgloss.Color("214")),
		Header:  base.Bold(true),
		Hunk:    base.Foreground(lipgloss.Color("39")),
		Match:   base.Foreground(lipgloss.Color("16")).Background(lipgloss.Color("220")),
		Current: base.Foreground(lipgloss.Color("16")).Background(lipgloss.Color("51")).Bold(true),
	}
}

func (s Styles) kind(k RowKind) lipgloss.Style {
	switch k {
	case RowAdded:
		return s.Added
	case RowRemoved:
		return s.Removed
	case RowChanged:
		return s.Changed
	case RowFileHeader:
		return s.Header
	case RowHunkHeader:
		return s.Hunk
	}
	return s.Plain
}

// Match is a byte range [Start, End) in a line.
type Match struct {
	Start int
	End   int
}

// FindAll returns every non-overlapping, case-sensitive occurrence of query
// in text. An empty query matches nothing.
func FindAll(text, query string) []Match {
	if query == "" {
		return nil
	}
	var out []Match
	off := 0
	for {
		i := strings.Index(text[off:], query)
		if i < 0 {
			return out
		}
		start := off + i
		off = start + len(query)
		out = append(out, Match{Start: start, End: off})
	}
}

// Hit locates one match in a pane.
type Hit struct {
	Row int
	Match
}

// Search finds query in the displayed lines of rows, in reading order. Tabs
// are expanded first, as RenderLines does.
func Search(rows []Row, query string) []Hit {
	var hits []Hit
	for i, r := range rows {
		for _, m := range FindAll(expandTabs(r.Line()), query) {
			hits = append(hits, Hit{Row: i, Match: m})
		}
	}
	return hits
}

// RenderLines renders rows as lines exactly width cells wide. Matches of
// query are highlighted and the hit at index current (into Search(rows,
// query)) gets the Current style. Pass current < 0 for none.
func RenderLines(rows []Row, width int, query string, current int, st Styles) []string {
	if width <= 0 {
		width = 1
	}
	out := make([]string, 0, len(rows))
	hit := 0
	for _, r := range rows {
		plain := expandTabs(r.Line())
		matches := FindAll(plain, query)

		base := st.kind(r.Kind)
		var b strings.Builder
		pos := 0
		for _, m := range matches {
			hl := st.Match
			if hit == current {
				hl = st.Current
			}
			hit++
			b.WriteString(base.Render(plain[pos:m.Start]))
			b.WriteString(hl.Render(plain[m.Start:m.End]))
			pos = m.End
		}
		b.WriteString(base.Render(plain[pos:]))

		line := b.String()
		w := runewidth.StringWidth(plain)
		if w > width {
			line = ansi.Truncate(line, width, "…")
			w = ansi.StringWidth(line)
		}
		if w < width {
			line += strings.Repeat(" ", width-w)
		}
		out = append(out, line)
	}
	return out
}

// expandTabs replaces tabs with spaces to the next multiple of 8 cells, so
// that widths are known before rendering.
func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := 8 - col%8
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}
