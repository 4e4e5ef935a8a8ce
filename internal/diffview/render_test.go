package diffview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
)

func TestFindAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		query string
		want  []Match
	}{
		{name: "empty query", text: "cat", query: "", want: nil},
		{name: "no match", text: "cat", query: "dog", want: nil},
		{name: "case sensitive", text: "Cat cat", query: "cat", want: []Match{{4, 7}}},
		{name: "non overlapping", text: "aaaa", query: "aa", want: []Match{{0, 2}, {2, 4}}},
		{name: "multibyte", text: "词库 词", query: "词", want: []Match{{0, 3}, {7, 10}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, FindAll(tc.text, tc.query)); diff != "" {
				t.Errorf("FindAll(%q, %q) mismatch (-want +got):\n%s", tc.text, tc.query, diff)
			}
		})
	}
}

func TestSearchCountsEveryMatch(t *testing.T) {
	rows := []Row{
		{Text: "cat: 001"},
		{Text: "dog: 002"},
		{Text: "catcat: 003", Kind: RowAdded, Marked: true},
	}
	hits := Search(rows, "cat")
	want := []Hit{
		{Row: 0, Match: Match{0, 3}},
		{Row: 2, Match: Match{2, 5}},
		{Row: 2, Match: Match{5, 8}},
	}
	if diff := cmp.Diff(want, hits); diff != "" {
		t.Fatalf("Search() mismatch (-want +got):\n%s", diff)
	}
	if hits := Search(rows, "+ cat"); len(hits) != 1 {
		t.Fatalf("Search() on marker = %d hits, want 1", len(hits))
	}
}

func TestRenderLinesPadsToWidth(t *testing.T) {
	rows := []Row{
		{Text: "cat: 001"},
		{Text: "词库: ciku"},
		{Text: "a\tb"},
	}
	out := RenderLines(rows, 12, "", -1, DefaultStyles())
	if len(out) != len(rows) {
		t.Fatalf("RenderLines() returned %d lines, want %d", len(out), len(rows))
	}
	for i, line := range out {
		if w := ansi.StringWidth(line); w != 12 {
			t.Fatalf("line %d width=%d want 12: %q", i, w, ansi.Strip(line))
		}
	}
	if got := ansi.Strip(out[1]); got != "词库: ciku  " {
		t.Fatalf("CJK line=%q", got)
	}
	if got := ansi.Strip(out[2]); got != "a       b   " {
		t.Fatalf("tab line=%q", got)
	}
}

func TestRenderLinesTruncatesWideText(t *testing.T) {
	rows := []Row{{Text: "词库: ciku", Kind: RowChanged}}
	out := RenderLines(rows, 6, "ciku", 0, DefaultStyles())

	got := ansi.Strip(out[0])
	if w := ansi.StringWidth(out[0]); w != 6 {
		t.Fatalf("width=%d want 6: %q", w, got)
	}
	if !strings.HasPrefix(got, "词库") || !strings.HasSuffix(got, "…") {
		t.Fatalf("truncated line=%q", got)
	}
}

func TestRenderLinesKeepsTextWithHighlights(t *testing.T) {
	rows := []Row{{Text: "cat cat"}, {Text: "dog"}}
	out := RenderLines(rows, 10, "cat", 1, DefaultStyles())
	if got := ansi.Strip(out[0]); got != "cat cat   " {
		t.Fatalf("highlighted line=%q", got)
	}
	if got := ansi.Strip(out[1]); got != "dog       " {
		t.Fatalf("plain line=%q", got)
	}
}

func TestRenderLinesZeroWidth(t *testing.T) {
	out := RenderLines([]Row{{Text: "cat"}}, 0, "", -1, DefaultStyles())
	if w := ansi.StringWidth(out[0]); w != 1 {
		t.Fatalf("width=%d want 1", w)
	}
}
