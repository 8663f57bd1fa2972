// Package fx holds the visual state layered over the simulation. Tweens
// drive hit pulses and the score counter; Lines lays out the HUD.
package fx

import (
	"github.com/milk9111/pinball/physics"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PulseScale is the peak extra scale of a freshly hit element.
const PulseScale = 0.35

// Pulses tracks one decaying pulse per body.
type Pulses struct {
	duration float32
	tweens   map[physics.BodyID]*gween.Tween
	values   map[physics.BodyID]float32
}

func NewPulses(duration float64) *Pulses {
	if duration <= 0 {
		duration = 0.25
	}
	return &Pulses{
		duration: float32(duration),
		tweens:   make(map[physics.BodyID]*gween.Tween),
		values:   make(map[physics.BodyID]float32),
	}
}

// Trigger restarts the pulse of id at full strength.
func (p *Pulses) Trigger(id physics.BodyID) {
	p.tweens[id] = gween.New(1, 0, p.duration, ease.OutQuad)
	p.values[id] = 1
}

// Update advances every pulse and forgets finished ones.
func (p *Pulses) Update(dt float64) {
	for id, tw := range p.tweens {
		v, done := tw.Update(float32(dt))
		if done {
			delete(p.tweens, id)
			delete(p.values, id)
			continue
		}
		p.values[id] = v
	}
}

// Strength is 1 right after a hit and decays to 0.
func (p *Pulses) Strength(id physics.BodyID) float64 {
	return float64(p.values[id])
}

// Scale is the draw scale of the element.
func (p *Pulses) Scale(id physics.BodyID) float64 {
	return 1 + PulseScale*p.Strength(id)
}

// Active returns how many pulses are running.
func (p *Pulses) Active() int {
	return len(p.tweens)
}

// Counter eases a displayed number toward its target.
type Counter struct {
	duration float32
	tween    *gween.Tween
	shown    float32
	target   int
}

func NewCounter(duration float64) *Counter {
	return &Counter{duration: float32(duration)}
}

// SetTarget starts rolling from the current shown value. Decreases snap.
func (c *Counter) SetTarget(target int) {
	if target == c.target {
		return
	}
	if target < c.target || c.duration <= 0 {
		c.target = target
		c.shown = float32(target)
		c.tween = nil
		return
	}
	c.target = target
	c.tween = gween.New(c.shown, float32(target), c.duration, ease.OutCubic)
}

func (c *Counter) Update(dt float64) {
	if c.tween == nil {
		return
	}
	v, done := c.tween.Update(float32(dt))
	c.shown = v
	if done {
		c.shown = float32(c.target)
		c.tween = nil
	}
}

// Value is the number to display.
func (c *Counter) Value() int {
	return int(c.shown + 0.5)
}

// Target is the number being rolled to.
func (c *Counter) Target() int {
	return c.target
}
