package app

import "testing"

func TestPaneSize(t *testing.T) {
	w, h := paneSize(120, 40, 1, 0)
	if w != 118 || h != 34 {
		t.Fatalf("paneSize(120,40,1,0) = (%d,%d), want (118,34)", w, h)
	}
}

func TestPaneSizeWithDock(t *testing.T) {
	w, h := paneSize(80, 30, 2, 6)
	if w != 78 || h != 17 {
		t.Fatalf("paneSize(80,30,2,6) = (%d,%d), want (78,17)", w, h)
	}
}

func TestPaneSizeClampsTinyTerminal(t *testing.T) {
	w, h := paneSize(1, 3, 1, 0)
	if w != 1 || h != 1 {
		t.Fatalf("paneSize(tiny) = (%d,%d), want (1,1)", w, h)
	}
}

func TestScrollToShow(t *testing.T) {
	cases := []struct {
		offset, height, row, want int
	}{
		{offset: 0, height: 10, row: 5, want: 0},
		{offset: 0, height: 10, row: 10, want: 1},
		{offset: 20, height: 10, row: 3, want: 3},
		{offset: 20, height: 10, row: 29, want: 20},
		{offset: 0, height: 0, row: 4, want: 4},
	}
	for _, tc := range cases {
		if got := scrollToShow(tc.offset, tc.height, tc.row); got != tc.want {
			t.Fatalf("scrollToShow(%d,%d,%d)=%d want %d", tc.offset, tc.height, tc.row, got, tc.want)
		}
	}
}
