package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/milk9111/pinball/gameplay"
)

func TestRunRuby(t *testing.T) {
	r, err := run("ruby", 600, 40)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if r.Bodies == 0 || r.Joints != 3 {
		t.Fatalf("unexpected world size: %d bodies, %d joints", r.Bodies, r.Joints)
	}
	if r.Cues[gameplay.CueFlipper] == 0 {
		t.Fatalf("expected flipper cues, got %v", r.Cues)
	}
	if r.BallX < 0 || r.BallX > 512 || r.BallY < 0 || r.BallY > 864 {
		t.Fatalf("ball left the table: (%d, %d)", r.BallX, r.BallY)
	}
}

func TestRunUnknownTable(t *testing.T) {
	if _, err := run("no_such_table", 10, 0); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestReportWrite(t *testing.T) {
	r := report{Table: "ruby", Steps: 10, State: "in_game", Cues: cueCounter{gameplay.CueBumper: 2}}
	var buf bytes.Buffer
	r.write(&buf)
	out := buf.String()
	if !strings.Contains(out, "table ruby") || !strings.Contains(out, "bumper") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}
