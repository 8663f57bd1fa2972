package fx

import (
	"testing"

	"github.com/milk9111/pinball/physics"
)

func TestPulseDecays(t *testing.T) {
	p := NewPulses(0.2)
	id := physics.BodyID(3)
	if p.Scale(id) != 1 {
		t.Fatalf("expected idle scale 1, got %v", p.Scale(id))
	}

	p.Trigger(id)
	if p.Strength(id) != 1 {
		t.Fatalf("expected full strength after trigger, got %v", p.Strength(id))
	}

	p.Update(0.1)
	mid := p.Strength(id)
	if mid <= 0 || mid >= 1 {
		t.Fatalf("expected partial strength halfway, got %v", mid)
	}

	p.Update(0.2)
	if p.Active() != 0 {
		t.Fatalf("expected pulse to finish, %d active", p.Active())
	}
	if p.Scale(id) != 1 {
		t.Fatalf("expected scale back to 1, got %v", p.Scale(id))
	}
}

func TestPulseRetrigger(t *testing.T) {
	p := NewPulses(0.2)
	id := physics.BodyID(1)
	p.Trigger(id)
	p.Update(0.15)
	p.Trigger(id)
	if p.Strength(id) != 1 {
		t.Fatalf("expected retrigger to restore full strength, got %v", p.Strength(id))
	}
}

func TestCounterRollsUp(t *testing.T) {
	c := NewCounter(0.4)
	c.SetTarget(100)
	if c.Value() != 0 {
		t.Fatalf("expected roll to start at 0, got %d", c.Value())
	}

	c.Update(0.2)
	if v := c.Value(); v <= 0 || v >= 100 {
		t.Fatalf("expected value mid-roll, got %d", v)
	}

	c.Update(0.3)
	if c.Value() != 100 {
		t.Fatalf("expected 100 after roll, got %d", c.Value())
	}
}

func TestCounterSnapsDown(t *testing.T) {
	c := NewCounter(0.4)
	c.SetTarget(300)
	c.Update(1)
	c.SetTarget(0)
	if c.Value() != 0 || c.Target() != 0 {
		t.Fatalf("expected reset to snap to 0, got %d", c.Value())
	}
}

func TestCounterWithoutDuration(t *testing.T) {
	c := NewCounter(0)
	c.SetTarget(250)
	if c.Value() != 250 {
		t.Fatalf("expected immediate value, got %d", c.Value())
	}
}
