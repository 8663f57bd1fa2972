package table

import (
	"fmt"
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pinball/physics"
	"github.com/rs/zerolog/log"
)

var (
	defaultSceneryColor = color.NRGBA{R: 0x3a, G: 0x6e, B: 0xa5, A: 0xff}
	defaultBallColor    = color.NRGBA{R: 0xd8, G: 0xd8, B: 0xe0, A: 0xff}
	defaultBumperColor  = color.NRGBA{R: 0xf0, G: 0xd0, B: 0x40, A: 0xff}
	defaultPaddleColor  = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	defaultPlungerColor = color.NRGBA{R: 0xe0, G: 0x70, B: 0xa0, A: 0xff}
)

// Element is one named body of a built table with the color it is drawn in.
// Sensors without a color are not drawn.
type Element struct {
	Name  string
	Body  *physics.Body
	Color color.Color
}

// Elements is everything Build created in a world.
type Elements struct {
	Table    *Table
	Ball     *physics.Body
	Chains   []Element
	Gates    []*physics.Body
	Sensors  []Element
	Bumpers  []Element
	Flippers []*physics.Flipper
	Paddles  []Element
	Plunger  *physics.Plunger
	Plungers []Element
	BallTint color.Color

	// CharacterSlots maps a flipper side to where the character sensor sits
	// after that flipper fires.
	CharacterSlots map[physics.Side]PointSpec
}

// Build creates every body and joint of t in w. The world must be started.
// Gate chains start disabled.
func Build(w *physics.World, t *Table) (*Elements, error) {
	if !w.Started() {
		return nil, physics.ErrWorldNotStarted
	}
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInvalidSpec)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	els := &Elements{Table: t, CharacterSlots: make(map[physics.Side]PointSpec)}

	for _, c := range t.Chains {
		tag, _ := physics.ParseTag(c.Tag)
		bodyType, _ := physics.ParseBodyType(c.Type)
		body, err := w.CreateChain(c.X, c.Y, c.Points, bodyType, tag)
		if err != nil {
			return nil, fmt.Errorf("table: chain %q: %w", c.Name, err)
		}
		els.Chains = append(els.Chains, Element{Name: c.Name, Body: body, Color: c.Color.Or(defaultSceneryColor)})
		if c.Gate {
			body.SetEnabled(false)
			els.Gates = append(els.Gates, body)
		}
	}

	for _, s := range t.Sensors {
		tag, _ := physics.ParseTag(s.Tag)
		body := w.CreateRectangleSensor(s.X, s.Y, s.W, s.H, physics.Static, tag)
		var tint color.Color
		if s.Color != nil {
			tint = s.Color.Color
		}
		els.Sensors = append(els.Sensors, Element{Name: s.Name, Body: body, Color: tint})
	}

	for _, b := range t.Bumpers {
		body := w.CreateBumper(b.X, b.Y, b.Radius, physics.Static, physics.TagBumper)
		els.Bumpers = append(els.Bumpers, Element{Name: b.Name, Body: body, Color: b.Color.Or(defaultBumperColor)})
	}

	for _, f := range t.Flippers {
		tag, _ := physics.ParseTag(f.Paddle.Tag)
		paddle := w.CreateRectangle(f.Paddle.X, f.Paddle.Y, f.Paddle.W, f.Paddle.H, physics.Dynamic, tag)
		pivot := w.CreateCircle(f.Pivot.X, f.Pivot.Y, f.Pivot.Radius, physics.Static)
		flipper, err := w.CreateFlipperJoint(paddle, pivot, f.Pivot.X, f.Pivot.Y,
			physics.WithFlipperSpeeds(t.Tuning.FlipperFireSpeed, t.Tuning.FlipperReturnSpeed),
			physics.WithFlipperMaxTorque(t.Tuning.FlipperMaxTorque),
		)
		if err != nil {
			return nil, fmt.Errorf("table: flipper %q: %w", f.Name, err)
		}
		els.Flippers = append(els.Flippers, flipper)
		if f.Character != nil {
			els.CharacterSlots[flipper.Side()] = *f.Character
		}
		els.Paddles = append(els.Paddles, Element{Name: f.Name, Body: paddle, Color: f.Color.Or(defaultPaddleColor)})
	}

	if t.HasPlunger() {
		spec := t.Plunger
		bodyTag, _ := physics.ParseTag(spec.Body.Tag)
		anchorTag, _ := physics.ParseTag(spec.Anchor.Tag)
		anchor := w.CreateRectangle(spec.Anchor.X, spec.Anchor.Y, spec.Anchor.W, spec.Anchor.H, physics.Static, anchorTag)
		body := w.CreateRectangle(spec.Body.X, spec.Body.Y, spec.Body.W, spec.Body.H, physics.Dynamic, bodyTag)
		plunger, err := w.CreatePlungerJoint(body, anchor, cp.Vector{X: spec.Axis.X, Y: spec.Axis.Y},
			physics.WithPlungerTravel(t.Tuning.PlungerTravel),
			physics.WithPlungerMaxForce(t.Tuning.PlungerMaxForce),
			physics.WithPlungerSpeeds(t.Tuning.PlungerChargeSpeed, t.Tuning.PlungerFireSpeed, t.Tuning.PlungerReturnSpeed),
		)
		if err != nil {
			return nil, fmt.Errorf("table: plunger: %w", err)
		}
		els.Plunger = plunger
		tint := spec.Color.Or(defaultPlungerColor)
		els.Plungers = append(els.Plungers,
			Element{Name: "plunger_anchor", Body: anchor, Color: tint},
			Element{Name: "plunger", Body: body, Color: tint},
		)
	}

	els.Ball = w.CreateCircle(t.Ball.X, t.Ball.Y, t.Ball.Radius, physics.Dynamic)
	els.BallTint = t.Ball.Color.Or(defaultBallColor)

	log.Info().Str("component", "table").
		Str("table", t.Name).
		Int("chains", len(els.Chains)).
		Int("sensors", len(els.Sensors)).
		Int("bumpers", len(els.Bumpers)).
		Int("flippers", len(els.Flippers)).
		Bool("plunger", els.Plunger != nil).
		Msg("table built")
	return els, nil
}

// Flipper returns the flipper on side, or nil.
func (e *Elements) Flipper(side physics.Side) *physics.Flipper {
	if e == nil {
		return nil
	}
	for _, f := range e.Flippers {
		if f.Side() == side {
			return f
		}
	}
	return nil
}

// Find returns the first element with name across chains, sensors, bumpers,
// paddles and plunger parts.
func (e *Elements) Find(name string) (Element, bool) {
	if e == nil {
		return Element{}, false
	}
	for _, group := range [][]Element{e.Chains, e.Sensors, e.Bumpers, e.Paddles, e.Plungers} {
		for _, el := range group {
			if el.Name == name {
				return el, true
			}
		}
	}
	return Element{}, false
}

// Significant returns every body whose tag gameplay reacts to.
func (e *Elements) Significant() []*physics.Body {
	if e == nil {
		return nil
	}
	var out []*physics.Body
	for _, group := range [][]Element{e.Chains, e.Sensors, e.Bumpers, e.Paddles, e.Plungers} {
		for _, el := range group {
			if el.Body.Tag().Significant() {
				out = append(out, el.Body)
			}
		}
	}
	return out
}

// ApplyTuning pushes actuator speeds from tuning into live joints.
func (e *Elements) ApplyTuning(tuning Tuning) {
	if e == nil {
		return
	}
	for _, f := range e.Flippers {
		f.SetSpeeds(tuning.FlipperFireSpeed, tuning.FlipperReturnSpeed)
	}
	e.Plunger.SetSpeeds(tuning.PlungerChargeSpeed, tuning.PlungerFireSpeed, tuning.PlungerReturnSpeed)
	if e.Table != nil {
		e.Table.Tuning = tuning
	}
}
