package layout

import "testing"

func TestLanesForWidth(t *testing.T) {
	testCases := []struct {
		width int
		want  int
	}{
		{width: 0, want: 1},
		{width: 320, want: 1},
		{width: 639, want: 1},
		{width: 640, want: 2},
		{width: 767, want: 2},
		{width: 768, want: 3},
		{width: 1023, want: 3},
		{width: 1024, want: 4},
		{width: 1279, want: 4},
		{width: 1280, want: 5},
		{width: 2560, want: 5},
	}

	for _, tc := range testCases {
		if got := LanesForWidth(tc.width, nil); got != tc.want {
			t.Errorf("LanesForWidth(%d): got %d, want %d", tc.width, got, tc.want)
		}
	}
}

func TestLanesForWidthCustomTable(t *testing.T) {
	table := []Breakpoint{
		{MinWidth: 0, Lanes: 2},
		{MinWidth: 500, Lanes: 6},
	}
	if got := LanesForWidth(400, table); got != 2 {
		t.Errorf("custom table below threshold: got %d, want 2", got)
	}
	if got := LanesForWidth(500, table); got != 6 {
		t.Errorf("custom table at threshold: got %d, want 6", got)
	}
}
