package diffview

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// PatchRows classifies each line of a unified diff using chroma's diff
// lexer.
func PatchRows(text string) []Row {
	if text == "" {
		return []Row{}
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	kinds := classify(text, len(lines))

	out := make([]Row, len(lines))
	inHeader := true
	for i, line := range lines {
		kind := kinds[i]
		if kind == RowHunkHeader {
			inHeader = false
		}
		// The lexer reads "--- a" and "+++ b" as a deletion and an insertion.
		if inHeader && kind != RowHunkHeader {
			kind = RowFileHeader
		}
		out[i] = Row{Kind: kind, Text: line}
	}
	return out
}

func classify(text string, n int) []RowKind {
	kinds := make([]RowKind, n)

	lexer := lexers.Get("diff")
	if lexer == nil {
		return kinds
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return kinds
	}
	for i, line := range chroma.SplitTokensIntoLines(it.Tokens()) {
		if i >= n {
			break
		}
		for _, tok := range line {
			if strings.TrimSpace(tok.Value) == "" {
				continue
			}
			kinds[i] = tokenKind(tok.Type)
			break
		}
	}
	return kinds
}

func tokenKind(t chroma.TokenType) RowKind {
	switch t {
	case chroma.GenericInserted:
		return RowAdded
	case chroma.GenericDeleted:
		return RowRemoved
	case chroma.GenericSubheading:
		return RowHunkHeader
	case chroma.GenericHeading, chroma.GenericStrong:
		return RowFileHeader
	}
	return RowUnchanged
}

// HighlightPatch colors a unified diff line by line.
func HighlightPatch(text string, st Styles) string {
	rows := PatchRows(text)
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = st.kind(r.Kind).Render(r.Text)
	}
	out := strings.Join(lines, "\n")
	if len(rows) > 0 {
		out += "\n"
	}
	return out
}
