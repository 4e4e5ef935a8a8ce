package clipboard

import (
	"context"
	"strings"
	"testing"
)

func have(names ...string) func(string) bool {
	return func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}

func TestChoose(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		wayland bool
		tools   []string
		want    string
		wantOK  bool
	}{
		{name: "darwin", goos: "darwin", tools: []string{"pbcopy"}, want: "pbcopy", wantOK: true},
		{name: "windows", goos: "windows", tools: []string{"clip"}, want: "clip", wantOK: true},
		{name: "x11 prefers xclip", goos: "linux", tools: []string{"xsel", "xclip"}, want: "xclip -selection clipboard", wantOK: true},
		{name: "x11 falls back to xsel", goos: "linux", tools: []string{"xsel"}, want: "xsel --clipboard --input", wantOK: true},
		{name: "wayland", goos: "linux", wayland: true, tools: []string{"xclip", "wl-copy"}, want: "wl-copy", wantOK: true},
		{name: "wl-copy ignored outside wayland", goos: "linux", tools: []string{"wl-copy"}},
		{name: "nothing installed", goos: "freebsd"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Choose(tc.goos, tc.wayland, have(tc.tools...))
			if ok != tc.wantOK || got.String() != tc.want {
				t.Fatalf("Choose()=(%q, %v) want (%q, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestRunWithStdinReportsFailure(t *testing.T) {
	_, err := runWithStdin(context.Background(), "x", Command{Name: "vocabdiff-no-such-tool"})
	if err == nil || !strings.Contains(err.Error(), "vocabdiff-no-such-tool") {
		t.Fatalf("runWithStdin() error = %v", err)
	}
}
