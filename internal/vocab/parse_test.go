package vocab

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		policy Policy

		want      []Entry
		wantStats Stats
	}{
		{
			name:  "word and code",
			input: "cat 001\ndog 002\n",
			want: []Entry{
				{Word: "cat", Codes: []string{"001"}},
				{Word: "dog", Codes: []string{"002"}},
			},
			wantStats: Stats{Lines: 2, Entries: 2},
		},
		{
			name:      "word without code",
			input:     "solo\n",
			want:      []Entry{{Word: "solo", Codes: []string{""}}},
			wantStats: Stats{Lines: 1, Entries: 1},
		},
		{
			name:      "comments and blanks only",
			input:     "# header\n\n   \n#cat 001\n\t\n",
			want:      []Entry{},
			wantStats: Stats{Lines: 5, Comments: 2, Blank: 3},
		},
		{
			name:      "extra tokens ignored",
			input:     "的 de 100 common\n",
			want:      []Entry{{Word: "的", Codes: []string{"de"}}},
			wantStats: Stats{Lines: 1, Entries: 1, Extra: 1},
		},
		{
			name:  "indented hash is not a comment",
			input: "  #tag code\n",
			want:  []Entry{{Word: "#tag", Codes: []string{"code"}}},

			wantStats: Stats{Lines: 1, Entries: 1},
		},
		{
			name:  "last line wins keeps first position",
			input: "a 1\nb 2\na 3\n",
			want: []Entry{
				{Word: "a", Codes: []string{"3"}},
				{Word: "b", Codes: []string{"2"}},
			},
			wantStats: Stats{Lines: 3, Entries: 3, Duplicates: 1},
		},
		{
			name:   "multi code accumulates distinct codes",
			input:  "a 1\nb 2\na 3\na 1\n",
			policy: MultiCode,
			want: []Entry{
				{Word: "a", Codes: []string{"1", "3"}},
				{Word: "b", Codes: []string{"2"}},
			},
			wantStats: Stats{Lines: 4, Entries: 4, Duplicates: 2},
		},
		{
			name:  "mixed line endings",
			input: "a 1\r\nb 2\rc 3\nd 4",
			want: []Entry{
				{Word: "a", Codes: []string{"1"}},
				{Word: "b", Codes: []string{"2"}},
				{Word: "c", Codes: []string{"3"}},
				{Word: "d", Codes: []string{"4"}},
			},
			wantStats: Stats{Lines: 4, Entries: 4},
		},
		{
			name:      "ideographic space separates tokens",
			input:     "词库　ciku\n",
			want:      []Entry{{Word: "词库", Codes: []string{"ciku"}}},
			wantStats: Stats{Lines: 1, Entries: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v, st, err := Parse(strings.NewReader(tc.input), tc.policy)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tc.want, v.Entries()); diff != "" {
				t.Errorf("Parse() entries mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantStats, st); diff != "" {
				t.Errorf("Parse() stats mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	v, _, err := Parse(strings.NewReader("w "+long+"\n"), SingleCode)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := v.Code("w"); got != long {
		t.Fatalf("Code(w) has length %d, want %d", len(got), len(long))
	}
}

func TestScanLinesSplitCarriageReturnAcrossReads(t *testing.T) {
	adv, tok, err := scanLines([]byte("a 1\r"), false)
	if err != nil || adv != 0 || tok != nil {
		t.Fatalf("scanLines() = (%d, %q, %v), want request for more data", adv, tok, err)
	}

	adv, tok, err = scanLines([]byte("a 1\r\nb"), false)
	if err != nil || adv != 5 || string(tok) != "a 1" {
		t.Fatalf("scanLines() = (%d, %q, %v), want (5, \"a 1\", nil)", adv, tok, err)
	}
}
