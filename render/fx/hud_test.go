package fx

import (
	"strings"
	"testing"
)

func hasLine(lines []Line, text string) bool {
	for _, l := range lines {
		if l.Text == text {
			return true
		}
	}
	return false
}

func TestLines(t *testing.T) {
	tests := []struct {
		name    string
		status  Status
		want    []string
		wantNot []string
	}{
		{
			name:    "in game",
			status:  Status{State: "in_game", Score: 300, Best: 1200, Lives: 2},
			want:    []string{"SCORE 300", "BEST 1200", "BALLS 2"},
			wantNot: []string{"GAME OVER", "EXTRA LIFE!"},
		},
		{
			name:   "armed with banner",
			status: Status{State: "in_game", Lives: 4, Armed: true, Banner: true},
			want:   []string{"EXTRA LIFE!", "Hold/release DOWN arrow to shoot!"},
		},
		{
			name:    "dead",
			status:  Status{State: "dead", Score: 50, Lives: 0, Armed: true},
			want:    []string{"GAME OVER", "PRESS SPACE TO CONTINUE", "BALLS 0"},
			wantNot: []string{"Hold/release DOWN arrow to shoot!"},
		},
		{
			name:   "win",
			status: Status{State: "win", Score: 900},
			want:   []string{"NEW RECORD : 900", "PRESS SPACE TO CONTINUE"},
		},
		{
			name:   "negative lives clamp",
			status: Status{State: "in_game", Lives: -1},
			want:   []string{"BALLS 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Lines(tt.status)
			for _, w := range tt.want {
				if !hasLine(lines, w) {
					t.Fatalf("expected line %q in %+v", w, lines)
				}
			}
			for _, w := range tt.wantNot {
				if hasLine(lines, w) {
					t.Fatalf("did not expect line %q", w)
				}
			}
		})
	}
}

func TestLinesDebug(t *testing.T) {
	lines := Lines(Status{State: "in_game", Debug: "bodies 40"})
	found := false
	for _, l := range lines {
		if strings.Contains(l.Text, "bodies 40") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected debug line")
	}
}
