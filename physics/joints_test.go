package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

const angleTolerance = 1e-3

func newTestFlipper(t *testing.T, w *World, pivotX, paddleX, y int) *Flipper {
	t.Helper()
	pivot := w.CreateRectangle(pivotX, y, 10, 10, Static, TagNoInteraction)
	paddle := w.CreateRectangle(paddleX, y, 60, 20, Dynamic, TagNoInteraction)
	f, err := w.CreateFlipperJoint(paddle, pivot, pivotX, y)
	if err != nil {
		t.Fatalf("create flipper: %v", err)
	}
	return f
}

func TestFlipperSideFromMidline(t *testing.T) {
	w := newTestWorld(t, DefaultGravityY)
	right := newTestFlipper(t, w, 305, 280, 790)
	left := newTestFlipper(t, w, 175, 200, 790)

	if right.Side() != SideRight || left.Side() != SideLeft {
		t.Fatalf("expected right/left sides, got %v/%v", right.Side(), left.Side())
	}
	if math.Abs(right.Lower()+0.15*math.Pi) > 1e-12 || math.Abs(right.Upper()-0.25*math.Pi) > 1e-12 {
		t.Fatalf("unexpected right bounds [%v, %v]", right.Lower(), right.Upper())
	}
	if math.Abs(left.Lower()+0.25*math.Pi) > 1e-12 || math.Abs(left.Upper()-0.15*math.Pi) > 1e-12 {
		t.Fatalf("unexpected left bounds [%v, %v]", left.Lower(), left.Upper())
	}
	if right.MaxTorque() != 150 {
		t.Fatalf("expected max torque 150, got %v", right.MaxTorque())
	}
}

func TestFlipperStaysWithinBounds(t *testing.T) {
	cases := []struct {
		name    string
		pivotX  int
		paddleX int
		fired   float64
		rest    float64
	}{
		{"right", 305, 280, 0.25 * math.Pi, -0.15 * math.Pi},
		{"left", 175, 200, -0.25 * math.Pi, 0.15 * math.Pi},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t, DefaultGravityY)
			f := newTestFlipper(t, w, c.pivotX, c.paddleX, 790)

			check := func(phase string) {
				a := f.Angle()
				if a < f.Lower()-angleTolerance || a > f.Upper()+angleTolerance {
					t.Fatalf("%s: angle %v outside [%v, %v]", phase, a, f.Lower(), f.Upper())
				}
			}

			f.SetFireState(true)
			for i := 0; i < 600; i++ {
				w.Step()
				check("fired")
			}
			if math.Abs(f.Angle()-c.fired) > 0.01 {
				t.Fatalf("expected fired angle near %v, got %v", c.fired, f.Angle())
			}

			f.SetFireState(false)
			for i := 0; i < 600; i++ {
				w.Step()
				check("rest")
			}
			if math.Abs(f.Angle()-c.rest) > 0.01 {
				t.Fatalf("expected rest angle near %v, got %v", c.rest, f.Angle())
			}
		})
	}
}

func TestFlipperOverdriveStaysWithinBounds(t *testing.T) {
	w := newTestWorld(t, DefaultGravityY)
	pivot := w.CreateRectangle(305, 790, 10, 10, Static, TagNoInteraction)
	paddle := w.CreateRectangle(280, 790, 60, 20, Dynamic, TagNoInteraction)
	f, err := w.CreateFlipperJoint(paddle, pivot, 305, 790, WithFlipperMaxTorque(10000))
	if err != nil {
		t.Fatalf("create flipper: %v", err)
	}

	for _, speed := range []float64{1000, -1000} {
		f.SetMotorSpeed(speed)
		for i := 0; i < 300; i++ {
			w.Step()
			if a := f.Angle(); a < f.Lower()-angleTolerance || a > f.Upper()+angleTolerance {
				t.Fatalf("speed %v: angle %v outside [%v, %v]", speed, a, f.Lower(), f.Upper())
			}
		}
	}
}

func TestFlipperNeedsLiveBodies(t *testing.T) {
	w := newTestWorld(t, 0)
	pivot := w.CreateRectangle(305, 790, 10, 10, Static, TagNoInteraction)
	paddle := w.CreateRectangle(280, 790, 60, 20, Dynamic, TagNoInteraction)
	w.DestroyBody(paddle)
	if _, err := w.CreateFlipperJoint(paddle, pivot, 305, 790); !errors.Is(err, ErrJointBodyMissing) {
		t.Fatalf("expected ErrJointBodyMissing, got %v", err)
	}
}

func newTestPlunger(t *testing.T, w *World) *Plunger {
	t.Helper()
	anchor := w.CreateRectangle(486, 820, 26, 10, Static, TagSpring)
	body := w.CreateRectangle(486, 775, 26, 80, Dynamic, TagSpring)
	p, err := w.CreatePlungerJoint(body, anchor, cp.Vector{X: 0, Y: -1}, WithPlungerTravel(30))
	if err != nil {
		t.Fatalf("create plunger: %v", err)
	}
	return p
}

func TestPlungerChargeSettlesAtLowerBound(t *testing.T) {
	w := newTestWorld(t, DefaultGravityY)
	p := newTestPlunger(t, w)

	for i := 0; i < 600; i++ {
		p.SetCharging(true)
		p.Update()
		w.Step()
		if tr := p.Translation(); tr < p.Lower()-angleTolerance {
			t.Fatalf("frame %d: translation %v below lower bound %v", i, tr, p.Lower())
		}
	}

	if tr := p.Translation(); math.Abs(tr-p.Lower()) > 0.01 {
		t.Fatalf("expected translation near %v, got %v", p.Lower(), tr)
	}
	if p.MotorSpeed() != 0 {
		t.Fatalf("expected motor speed clamped to zero, got %v", p.MotorSpeed())
	}
	if p.State() != PlungerCharging {
		t.Fatalf("expected charging state, got %v", p.State())
	}
}

func TestPlungerFireReturnsToRest(t *testing.T) {
	w := newTestWorld(t, DefaultGravityY)
	p := newTestPlunger(t, w)

	for i := 0; i < 120; i++ {
		p.SetCharging(true)
		p.Update()
		w.Step()
	}
	p.SetCharging(false)
	if p.State() != PlungerFiring || p.MotorSpeed() != DefaultPlungerFireSpeed {
		t.Fatalf("expected firing at %v, got %v at %v", DefaultPlungerFireSpeed, p.State(), p.MotorSpeed())
	}

	reachedTop := false
	for i := 0; i < 600 && p.State() != PlungerIdle; i++ {
		p.Update()
		w.Step()
		tr := p.Translation()
		if tr > p.Upper()+angleTolerance || tr < p.Lower()-angleTolerance {
			t.Fatalf("frame %d: translation %v outside [%v, %v]", i, tr, p.Lower(), p.Upper())
		}
		if p.State() == PlungerReturning {
			reachedTop = true
		}
	}

	if !reachedTop {
		t.Fatalf("plunger never reached the upper bound")
	}
	if p.State() != PlungerIdle || p.MotorSpeed() != 0 {
		t.Fatalf("expected idle at rest, got %v at speed %v", p.State(), p.MotorSpeed())
	}
	if tr := p.Translation(); math.Abs(tr) > 0.05 {
		t.Fatalf("expected translation near rest, got %v", tr)
	}
}

func TestPlungerRotationLocked(t *testing.T) {
	w := newTestWorld(t, DefaultGravityY)
	p := newTestPlunger(t, w)
	if !math.IsInf(p.Body().CPBody().Moment(), 1) {
		t.Fatalf("expected infinite moment, got %v", p.Body().CPBody().Moment())
	}
}
