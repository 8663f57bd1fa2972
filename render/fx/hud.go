package fx

import "fmt"

// Anchor is where on screen a HUD line is placed.
type Anchor int

const (
	TopLeft Anchor = iota
	TopRight
	Center
	Bottom
)

// Status is the slice of session state the HUD shows.
type Status struct {
	State  string
	Score  int
	Best   int
	Lives  int
	Armed  bool
	Banner bool
	Debug  string
}

// Line is one piece of HUD text.
type Line struct {
	Text   string
	Anchor Anchor
	// Row stacks lines that share an anchor.
	Row int
	// Alert lines are drawn in the highlight color.
	Alert bool
}

// Lines lays out the HUD for st.
func Lines(st Status) []Line {
	lines := []Line{
		{Text: fmt.Sprintf("SCORE %d", st.Score), Anchor: TopLeft},
		{Text: fmt.Sprintf("BEST %d", st.Best), Anchor: TopLeft, Row: 1},
		{Text: fmt.Sprintf("BALLS %d", max(st.Lives, 0)), Anchor: TopRight},
	}

	switch st.State {
	case "dead":
		lines = append(lines,
			Line{Text: "GAME OVER", Anchor: Center, Alert: true},
			Line{Text: "PRESS SPACE TO CONTINUE", Anchor: Center, Row: 1},
		)
	case "win":
		lines = append(lines,
			Line{Text: fmt.Sprintf("NEW RECORD : %d", st.Score), Anchor: Center, Alert: true},
			Line{Text: "PRESS SPACE TO CONTINUE", Anchor: Center, Row: 1},
		)
	default:
		if st.Banner {
			lines = append(lines, Line{Text: "EXTRA LIFE!", Anchor: Center, Alert: true})
		}
		if st.Armed {
			lines = append(lines, Line{Text: "Hold/release DOWN arrow to shoot!", Anchor: Bottom})
		}
	}

	if st.Debug != "" {
		lines = append(lines, Line{Text: st.Debug, Anchor: TopLeft, Row: 2})
	}
	return lines
}
