// Package render draws a built table, the gameplay HUD and the physics
// debug overlay with ebiten's vector and text packages.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/pinball/gameplay"
	"github.com/milk9111/pinball/physics"
	"github.com/milk9111/pinball/render/fx"
	"github.com/milk9111/pinball/table"
	"golang.org/x/image/colornames"
)

const (
	chainWidth  = 2
	kickerBoost = 3
	pivotRadius = 3
)

var background = color.NRGBA{R: 0x10, G: 0x14, B: 0x24, A: 0xff}

// Renderer owns the visual state that outlives a single frame.
type Renderer struct {
	els    *table.Elements
	pulses *fx.Pulses
	score  *fx.Counter
	hud    *HUD
	debug  bool
	world  *physics.World
}

// New prepares a renderer for els built in world.
func New(world *physics.World, els *table.Elements) *Renderer {
	tuning := els.Table.Tuning
	return &Renderer{
		els:    els,
		world:  world,
		pulses: fx.NewPulses(tuning.HitFlash),
		score:  fx.NewCounter(tuning.ScoreRoll),
		hud:    NewHUD(),
	}
}

// ToggleDebug flips the physics outline overlay.
func (r *Renderer) ToggleDebug() {
	r.debug = !r.debug
}

// SetDebug forces the physics outline overlay on or off.
func (r *Renderer) SetDebug(on bool) {
	r.debug = on
}

// Debug reports whether the overlay is shown.
func (r *Renderer) Debug() bool {
	return r.debug
}

// Update consumes the session's hits and advances tweens by dt seconds.
func (r *Renderer) Update(s *gameplay.Session, dt float64) {
	for _, hit := range s.Hits() {
		r.pulses.Trigger(hit.Body.ID())
	}
	r.pulses.Update(dt)
	r.score.SetTarget(s.Score())
	r.score.Update(dt)
}

// Draw paints the table, the ball and the HUD.
func (r *Renderer) Draw(screen *ebiten.Image, s *gameplay.Session) {
	screen.Fill(background)

	for _, el := range r.els.Sensors {
		if el.Color == nil {
			continue
		}
		r.drawBox(screen, el.Body, el.Color)
	}
	for _, el := range r.els.Chains {
		if !el.Body.Enabled() {
			continue
		}
		width := chainWidth + kickerBoost*r.pulses.Strength(el.Body.ID())
		drawChain(screen, el.Body, float32(width), el.Color)
	}
	for _, el := range r.els.Bumpers {
		x, y := el.Body.Position()
		radius := float64(el.Body.Radius()) * r.pulses.Scale(el.Body.ID())
		vector.FillCircle(screen, float32(x), float32(y), float32(radius), el.Color, true)
		vector.StrokeCircle(screen, float32(x), float32(y), float32(radius), 1, colornames.White, true)
	}
	for _, el := range r.els.Plungers {
		r.drawBox(screen, el.Body, el.Color)
	}
	for i, el := range r.els.Paddles {
		drawPaddle(screen, el.Body, el.Color)
		if i < len(r.els.Flippers) {
			px, py := r.els.Flippers[i].Pivot().Position()
			vector.FillCircle(screen, float32(px), float32(py), pivotRadius, colornames.Dimgray, true)
		}
	}

	ball := r.els.Ball
	bx, by := ball.Position()
	vector.FillCircle(screen, float32(bx), float32(by), float32(ball.Radius()), r.els.BallTint, true)

	if r.debug && r.world != nil {
		DrawPhysicsDebug(r.world.Space(), screen)
	}

	st := fx.Status{
		State:  s.State().Name(),
		Score:  r.score.Value(),
		Best:   s.Best(),
		Lives:  s.Lives(),
		Armed:  isArmed(s),
		Banner: s.Banner(),
	}
	if r.debug && r.world != nil {
		st.Debug = DebugLine(s, r.world)
	}
	r.hud.Draw(screen, st)
}

func isArmed(s *gameplay.Session) bool {
	armed, _ := s.Armed()
	return armed
}

func (r *Renderer) drawBox(screen *ebiten.Image, b *physics.Body, clr color.Color) {
	x, y := b.TopLeft()
	hw, hh := b.HalfExtents()
	vector.FillRect(screen, float32(x), float32(y), float32(hw*2), float32(hh*2), clr, false)
}

func drawChain(screen *ebiten.Image, b *physics.Body, width float32, clr color.Color) {
	points := b.ChainPoints()
	n := len(points) / 2
	if n < 2 {
		return
	}
	ox, oy := b.Position()
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		x0, y0 := ox+points[i*2], oy+points[i*2+1]
		x1, y1 := ox+points[j*2], oy+points[j*2+1]
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, clr, true)
	}
}

// drawPaddle strokes a rotated box as a line along its long axis.
func drawPaddle(screen *ebiten.Image, b *physics.Body, clr color.Color) {
	x, y := b.Position()
	hw, hh := b.HalfExtents()
	angle := b.Rotation()
	dx, dy := float64(hw)*math.Cos(angle), float64(hw)*math.Sin(angle)
	vector.StrokeLine(screen,
		float32(float64(x)-dx), float32(float64(y)-dy),
		float32(float64(x)+dx), float32(float64(y)+dy),
		float32(hh*2), clr, true)
}

// DebugLine formats the numbers shown under the HUD with the overlay on.
func DebugLine(s *gameplay.Session, world *physics.World) string {
	return fmt.Sprintf("state %s  bodies %d  joints %d  drag %v",
		s.State().Name(), world.BodyCount(), world.JointCount(), world.Dragging())
}
