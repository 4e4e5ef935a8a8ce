package vocab

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVocabularyAccessors(t *testing.T) {
	v := New(SingleCode)
	if v.Add("cat", "001") {
		t.Fatalf("Add(cat) reported duplicate on first insert")
	}
	if !v.Add("cat", "009") {
		t.Fatalf("Add(cat) did not report duplicate")
	}

	if got := v.Code("cat"); got != "009" {
		t.Fatalf("Code(cat)=%q want 009", got)
	}
	if got := v.Code("dog"); got != "" {
		t.Fatalf("Code(dog)=%q want empty", got)
	}
	if !v.Has("cat") || v.Has("dog") {
		t.Fatalf("Has() mismatch")
	}

	codes, ok := v.Codes("cat")
	if !ok {
		t.Fatalf("Codes(cat) not found")
	}
	codes[0] = "mutated"
	if got := v.Code("cat"); got != "009" {
		t.Fatalf("Codes() returned shared slice, Code(cat)=%q", got)
	}
}

func TestNilVocabularyIsEmpty(t *testing.T) {
	var v *Vocabulary
	if v.Len() != 0 || v.Has("x") || v.Words() != nil {
		t.Fatalf("nil vocabulary is not empty")
	}
	for range v.All() {
		t.Fatalf("nil vocabulary yielded an entry")
	}
}

func TestReciprocal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy Policy
		add    [][2]string

		wantAdded int
		want      []Entry
	}{
		{
			name:      "code column becomes key",
			add:       [][2]string{{"ni", "你"}, {"hao", "好"}},
			wantAdded: 2,
			want: []Entry{
				{Word: "ni", Codes: []string{"你"}},
				{Word: "hao", Codes: []string{"好"}},
				{Word: "你", Codes: []string{"ni"}},
				{Word: "好", Codes: []string{"hao"}},
			},
		},
		{
			name:      "existing keys and empty codes are skipped",
			add:       [][2]string{{"a", "b"}, {"b", "c"}, {"solo", ""}},
			wantAdded: 1,
			want: []Entry{
				{Word: "a", Codes: []string{"b"}},
				{Word: "b", Codes: []string{"c"}},
				{Word: "solo", Codes: []string{""}},
				{Word: "c", Codes: []string{"b"}},
			},
		},
		{
			name:      "shared code last word wins",
			add:       [][2]string{{"x", "k"}, {"y", "k"}},
			wantAdded: 1,
			want: []Entry{
				{Word: "x", Codes: []string{"k"}},
				{Word: "y", Codes: []string{"k"}},
				{Word: "k", Codes: []string{"y"}},
			},
		},
		{
			name:      "shared code multi keeps all words",
			policy:    MultiCode,
			add:       [][2]string{{"x", "k"}, {"y", "k"}},
			wantAdded: 1,
			want: []Entry{
				{Word: "x", Codes: []string{"k"}},
				{Word: "y", Codes: []string{"k"}},
				{Word: "k", Codes: []string{"x", "y"}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := New(tc.policy)
			for _, kv := range tc.add {
				v.Add(kv[0], kv[1])
			}
			if got := v.Reciprocal(); got != tc.wantAdded {
				t.Errorf("Reciprocal()=%d want %d", got, tc.wantAdded)
			}
			if diff := cmp.Diff(tc.want, v.Entries()); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
