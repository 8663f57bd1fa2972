package physics

import (
	"math"
	"testing"
)

func TestBodyContains(t *testing.T) {
	w := newTestWorld(t, 0)
	box := w.CreateRectangle(100, 100, 40, 20, Static, TagScore)
	ball := w.CreateCircle(300, 300, 10, Dynamic)

	cases := []struct {
		name string
		body *Body
		x, y int
		want bool
	}{
		{"box_center", box, 100, 100, true},
		{"box_inside_edge", box, 119, 109, true},
		{"box_outside", box, 125, 100, false},
		{"ball_center", ball, 300, 300, true},
		{"ball_outside", ball, 315, 300, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.body.Contains(c.x, c.y); got != c.want {
				t.Fatalf("Contains(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
			}
		})
	}
}

func TestBodyRayCast(t *testing.T) {
	w := newTestWorld(t, 0)
	box := w.CreateRectangle(200, 100, 40, 40, Static, TagNoInteraction)

	dist, normal := box.RayCast(100, 100, 300, 100)
	if dist < 79 || dist > 80 {
		t.Fatalf("expected hit about 80px away, got %d", dist)
	}
	if math.Abs(normal.X+1) > 1e-6 || math.Abs(normal.Y) > 1e-6 {
		t.Fatalf("expected normal (-1, 0), got %v", normal)
	}

	if dist, _ := box.RayCast(100, 0, 300, 0); dist != -1 {
		t.Fatalf("expected miss, got %d", dist)
	}

	hit, wdist, _ := w.RayCast(100, 100, 300, 100)
	if hit != box || wdist != dist {
		t.Fatalf("world ray cast returned %v at %d, want box at %d", hit, wdist, dist)
	}
}

func TestBodySetEnabled(t *testing.T) {
	w := newTestWorld(t, 0)
	gate := w.CreateRectangleSensor(100, 100, 60, 60, Static, TagStartGate)
	w.CreateCircle(100, 100, 10, Dynamic)
	rec := &recorder{}
	w.SetListener(gate, rec)

	gate.SetEnabled(false)
	w.Step()
	if len(rec.events) != 0 {
		t.Fatalf("disabled body produced %d events", len(rec.events))
	}
	if gate.Enabled() {
		t.Fatalf("expected gate disabled")
	}

	gate.SetEnabled(true)
	w.Step()
	if len(rec.events) != 1 {
		t.Fatalf("expected one event after re-enabling, got %d", len(rec.events))
	}
	if w.Listener(gate) != rec {
		t.Fatalf("listener should survive toggling")
	}
}

func TestBodySetTransformResetsBall(t *testing.T) {
	w := newTestWorld(t, DefaultGravityY)
	ball := w.CreateCircle(486, 500, 10, Dynamic)
	for i := 0; i < 30; i++ {
		w.Step()
	}
	if ball.Velocity().Y <= 0 {
		t.Fatalf("expected the ball to be falling")
	}

	ball.SetTransform(486, 500, 0)
	ball.ResetMotion()

	if x, y := ball.Position(); x != 486 || y != 500 {
		t.Fatalf("expected (486,500), got (%d,%d)", x, y)
	}
	if v := ball.Velocity(); v.X != 0 || v.Y != 0 {
		t.Fatalf("expected zero velocity, got %v", v)
	}
}

func TestStaticSetTransformMovesShapes(t *testing.T) {
	w := newTestWorld(t, 0)
	box := w.CreateRectangle(100, 100, 20, 20, Static, TagScore)
	box.SetTransform(300, 300, 0)

	if box.Contains(100, 100) {
		t.Fatalf("old location should be empty")
	}
	if !box.Contains(300, 300) {
		t.Fatalf("new location should be inside")
	}
	if got, ok := w.BodyAt(300, 300); !ok || got != box {
		t.Fatalf("expected BodyAt to find the moved box")
	}
}

func TestRotationDegrees(t *testing.T) {
	w := newTestWorld(t, 0)
	b := w.CreateRectangle(100, 100, 20, 20, Dynamic, TagNone)
	b.SetTransform(100, 100, math.Pi/2)
	if got := b.RotationDegrees(); math.Abs(got-90) > 1e-9 {
		t.Fatalf("expected 90 degrees, got %v", got)
	}
}

func TestDragMovesBody(t *testing.T) {
	w := newTestWorld(t, 0)
	ball := w.CreateCircle(100, 100, 10, Dynamic)
	if w.StartDrag(400, 400) {
		t.Fatalf("expected no body under empty point")
	}
	if !w.StartDrag(100, 100) {
		t.Fatalf("expected to grab the ball")
	}
	for i := 0; i < 120; i++ {
		w.MoveDrag(200, 100)
		w.Step()
	}
	if x, _ := ball.Position(); x < 150 {
		t.Fatalf("expected the ball dragged right, x=%d", x)
	}
	w.StopDrag()
	if w.Dragging() {
		t.Fatalf("expected drag released")
	}
}
