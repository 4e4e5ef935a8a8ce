package diffview

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	sgdiff "github.com/sourcegraph/go-diff/diff"

	"vocabdiff/internal/vocab"
)

type hunkRange struct {
	OrigStart, OrigLines, NewStart, NewLines int32
}

func parsePatch(t *testing.T, raw []byte) *sgdiff.FileDiff {
	t.Helper()
	fd, err := sgdiff.ParseFileDiff(raw)
	if err != nil {
		t.Fatalf("ParseFileDiff() error = %v\n%s", err, raw)
	}
	return fd
}

func ranges(fd *sgdiff.FileDiff) []hunkRange {
	out := make([]hunkRange, len(fd.Hunks))
	for i, h := range fd.Hunks {
		out[i] = hunkRange{h.OrigStartLine, h.OrigLines, h.NewStartLine, h.NewLines}
	}
	return out
}

func TestPatchRoundTrip(t *testing.T) {
	raw, err := Patch(scenarioA(t), DefaultPatchContext)
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if !strings.Contains(string(raw), "@@ -1,2 +1,3 @@") {
		t.Fatalf("Patch() missing hunk header:\n%s", raw)
	}

	fd := parsePatch(t, raw)
	if fd.OrigName != "old.txt" || fd.NewName != "new.txt" {
		t.Fatalf("names = %q, %q", fd.OrigName, fd.NewName)
	}
	if len(fd.Hunks) != 1 {
		t.Fatalf("hunks=%d want 1", len(fd.Hunks))
	}
	wantBody := "+bird\t004\n cat\t001\n-dog\t002\n+dog\t003\n"
	if got := string(fd.Hunks[0].Body); got != wantBody {
		t.Fatalf("hunk body=%q want %q", got, wantBody)
	}
}

func TestPatchHunkGrouping(t *testing.T) {
	old := mustParse(t, vocab.SingleCode, "a 1", "b 1", "c 1", "d 1", "e 1", "f 1")
	new := mustParse(t, vocab.SingleCode, "a 2", "b 1", "c 1", "d 1", "e 1", "f 2")

	tests := []struct {
		context int
		want    []hunkRange
	}{
		{context: 0, want: []hunkRange{{1, 1, 1, 1}, {6, 1, 6, 1}}},
		{context: 1, want: []hunkRange{{1, 2, 1, 2}, {5, 2, 5, 2}}},
		{context: 2, want: []hunkRange{{1, 6, 1, 6}}},
	}
	for _, tc := range tests {
		raw, err := Patch(newComparison(old, new), tc.context)
		if err != nil {
			t.Fatalf("Patch(context=%d) error = %v", tc.context, err)
		}
		if diff := cmp.Diff(tc.want, ranges(parsePatch(t, raw))); diff != "" {
			t.Errorf("Patch(context=%d) hunks mismatch (-want +got):\n%s", tc.context, diff)
		}
	}
}

func TestPatchIntoEmptyFile(t *testing.T) {
	raw, err := Patch(newComparison(vocab.New(vocab.SingleCode), mustParse(t, vocab.SingleCode, "x 1")), 3)
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	want := []hunkRange{{0, 0, 1, 1}}
	if diff := cmp.Diff(want, ranges(parsePatch(t, raw))); diff != "" {
		t.Fatalf("hunks mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchEmptyWhenEqual(t *testing.T) {
	v := mustParse(t, vocab.SingleCode, "a 1")
	raw, err := Patch(newComparison(v, v), 3)
	if err != nil || raw != nil {
		t.Fatalf("Patch() = %q, %v; want nil, nil", raw, err)
	}
	if rows := PatchRows(string(raw)); len(rows) != 0 {
		t.Fatalf("PatchRows(empty)=%v want none", rows)
	}
}

func TestPatchIgnoresReorderedCodes(t *testing.T) {
	old := mustParse(t, vocab.MultiCode, "a 1", "a 2", "b 1")
	new := mustParse(t, vocab.MultiCode, "a 2", "a 1", "b 1", "b 2")
	c := newComparison(old, new)
	if s := c.Result.Summary(); s.Changed != 1 || s.Unchanged != 1 {
		t.Fatalf("Summary()=%+v want changed 1, unchanged 1", s)
	}

	raw, err := Patch(c, DefaultPatchContext)
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	fd := parsePatch(t, raw)
	if len(fd.Hunks) != 1 {
		t.Fatalf("hunks=%d want 1", len(fd.Hunks))
	}
	wantBody := " a\t2, 1\n-b\t1\n+b\t1, 2\n"
	if got := string(fd.Hunks[0].Body); got != wantBody {
		t.Fatalf("hunk body=%q want %q", got, wantBody)
	}
}
