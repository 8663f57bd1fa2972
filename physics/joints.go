package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pinball/common"
	"github.com/rs/zerolog/log"
)

const (
	DefaultFlipperSpeed     = 10.0
	DefaultFlipperMaxTorque = 150.0

	DefaultPlungerTravel      = 1.5
	DefaultPlungerMaxForce    = 200.0
	DefaultPlungerChargeSpeed = -0.5
	DefaultPlungerFireSpeed   = 200.0
	DefaultPlungerReturnSpeed = -0.2

	// limitTolerance is how close to a travel bound counts as reaching it.
	limitTolerance = 0.001
	grooveMargin   = 0.1
)

// Side is the half of the table a flipper sits on.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Flipper is a motorized paddle rotating about a fixed pivot inside a bounded arc.
type Flipper struct {
	jid    JointID
	paddle *Body
	pivot  *Body
	side   Side

	lower, upper float64
	fireSpeed    float64
	restSpeed    float64
	maxTorque    float64
	fired        bool

	pin   *cp.Constraint
	motor *cp.Constraint
	limit *cp.Constraint
	rate  *cp.SimpleMotor
	angle *angleLimit
}

// FlipperOption configures a flipper at creation.
type FlipperOption func(*Flipper)

// WithFlipperSpeeds sets the fire and return speed magnitudes in rad/s.
func WithFlipperSpeeds(fire, rest float64) FlipperOption {
	return func(f *Flipper) {
		if fire > 0 {
			f.fireSpeed = fire
		}
		if rest > 0 {
			f.restSpeed = rest
		}
	}
}

// WithFlipperMaxTorque sets the motor torque limit.
func WithFlipperMaxTorque(torque float64) FlipperOption {
	return func(f *Flipper) {
		if torque > 0 {
			f.maxTorque = torque
		}
	}
}

// CreateFlipperJoint pins paddle to the center of pivot. The pixel anchor
// picks the side: right of the table midline rests at the lower bound and
// fires toward the upper one, left of it the reverse.
func (w *World) CreateFlipperJoint(paddle, pivot *Body, anchorX, anchorY int, opts ...FlipperOption) (*Flipper, error) {
	if w == nil || w.space == nil {
		return nil, ErrWorldNotStarted
	}
	if !paddle.Alive() || !pivot.Alive() {
		return nil, ErrJointBodyMissing
	}

	f := &Flipper{
		paddle:    paddle,
		pivot:     pivot,
		fireSpeed: DefaultFlipperSpeed,
		restSpeed: DefaultFlipperSpeed,
		maxTorque: DefaultFlipperMaxTorque,
	}
	for _, opt := range opts {
		opt(f)
	}
	if anchorX > w.Midline() {
		f.side = SideRight
		f.lower, f.upper = -0.15*math.Pi, 0.25*math.Pi
	} else {
		f.side = SideLeft
		f.lower, f.upper = -0.25*math.Pi, 0.15*math.Pi
	}

	w.markActuator(paddle)
	f.pin = cp.NewPivotJoint(pivot.body, paddle.body, pivot.body.Position())
	f.pin.SetCollideBodies(false)

	f.motor = cp.NewSimpleMotor(pivot.body, paddle.body, 0)
	f.motor.SetMaxForce(f.maxTorque)
	f.rate = f.motor.Class.(*cp.SimpleMotor)

	f.angle = newAngleLimit(pivot.body, paddle.body, f.lower, f.upper)
	f.limit = cp.NewConstraint(f.angle, pivot.body, paddle.body)
	f.limit.SetCollideBodies(false)

	w.nextJointID++
	f.jid = w.nextJointID
	w.addJoint(f)
	f.SetFireState(false)

	log.Debug().Str("component", "physics").
		Int("joint", int(f.jid)).
		Str("side", f.side.String()).
		Int("anchorX", anchorX).
		Int("anchorY", anchorY).
		Msg("flipper created")
	return f, nil
}

func (f *Flipper) id() JointID { return f.jid }

func (f *Flipper) constraints() []*cp.Constraint {
	return []*cp.Constraint{f.pin, f.motor, f.limit}
}

func (f *Flipper) attached(id BodyID) bool {
	return f.paddle.id == id || f.pivot.id == id
}

// ID returns the stable arena id of the joint.
func (f *Flipper) ID() JointID { return f.jid }

// Side returns which half of the table the flipper sits on.
func (f *Flipper) Side() Side { return f.side }

// Paddle returns the rotating body.
func (f *Flipper) Paddle() *Body { return f.paddle }

// Pivot returns the fixed body.
func (f *Flipper) Pivot() *Body { return f.pivot }

// Lower returns the lower angle bound in radians.
func (f *Flipper) Lower() float64 { return f.lower }

// Upper returns the upper angle bound in radians.
func (f *Flipper) Upper() float64 { return f.upper }

// MaxTorque returns the motor torque limit.
func (f *Flipper) MaxTorque() float64 { return f.maxTorque }

// Fired reports the last commanded fire state.
func (f *Flipper) Fired() bool { return f.fired }

// Angle returns the paddle angle relative to the pivot in radians.
func (f *Flipper) Angle() float64 {
	if f == nil || !f.paddle.Alive() || !f.pivot.Alive() {
		return 0
	}
	return f.angle.relativeAngle()
}

// MotorSpeed returns the commanded relative angular velocity in rad/s.
func (f *Flipper) MotorSpeed() float64 {
	if f == nil {
		return 0
	}
	return -f.rate.Rate
}

// SetMotorSpeed commands the relative angular velocity of the paddle.
// Positive speed turns toward the upper bound.
func (f *Flipper) SetMotorSpeed(speed float64) {
	if f == nil {
		return
	}
	f.rate.Rate = -speed
	if f.paddle.Alive() {
		f.paddle.body.Activate()
	}
}

// SetFireState drives the paddle toward its fired bound or back to rest.
func (f *Flipper) SetFireState(fired bool) {
	if f == nil {
		return
	}
	f.fired = fired
	speed := f.restSpeed
	if fired {
		speed = f.fireSpeed
	}
	if f.side == SideRight {
		if fired {
			f.SetMotorSpeed(speed)
		} else {
			f.SetMotorSpeed(-speed)
		}
		return
	}
	if fired {
		f.SetMotorSpeed(-speed)
	} else {
		f.SetMotorSpeed(speed)
	}
}

// PlungerState is the phase of the plunger's closed-loop motor control.
type PlungerState int

const (
	PlungerIdle PlungerState = iota
	PlungerCharging
	PlungerFiring
	PlungerReturning
)

func (s PlungerState) String() string {
	switch s {
	case PlungerCharging:
		return "charging"
	case PlungerFiring:
		return "firing"
	case PlungerReturning:
		return "returning"
	default:
		return "idle"
	}
}

// Plunger slides a body along an axis relative to a fixed anchor, with
// symmetric travel limits around its rest position.
type Plunger struct {
	jid    JointID
	body   *Body
	anchor *Body
	axis   cp.Vector

	travel      float64
	maxForce    float64
	chargeSpeed float64
	fireSpeed   float64
	returnSpeed float64
	state       PlungerState

	groove *cp.Constraint
	motor  *cp.Constraint
	limit  *cp.Constraint
	drive  *axisMotor
	bounds *axisLimit
}

// PlungerOption configures a plunger at creation.
type PlungerOption func(*Plunger)

// WithPlungerTravel sets the travel on each side of rest in pixels.
func WithPlungerTravel(pixels int) PlungerOption {
	return func(p *Plunger) {
		if pixels > 0 {
			p.travel = common.ToSim(pixels)
		}
	}
}

// WithPlungerMaxForce sets the motor force limit.
func WithPlungerMaxForce(force float64) PlungerOption {
	return func(p *Plunger) {
		if force > 0 {
			p.maxForce = force
		}
	}
}

// WithPlungerSpeeds sets the charge, fire and return speeds in m/s.
func WithPlungerSpeeds(charge, fire, ret float64) PlungerOption {
	return func(p *Plunger) {
		if charge != 0 {
			p.chargeSpeed = -math.Abs(charge)
		}
		if fire != 0 {
			p.fireSpeed = math.Abs(fire)
		}
		if ret != 0 {
			p.returnSpeed = -math.Abs(ret)
		}
	}
}

// CreatePlungerJoint slides plunger along axis, fixed in the anchor's frame.
// Positive translation points along axis.
func (w *World) CreatePlungerJoint(plunger, anchor *Body, axis cp.Vector, opts ...PlungerOption) (*Plunger, error) {
	if w == nil || w.space == nil {
		return nil, ErrWorldNotStarted
	}
	if !plunger.Alive() || !anchor.Alive() {
		return nil, ErrJointBodyMissing
	}
	if axis.LengthSq() == 0 {
		axis = cp.Vector{X: 0, Y: -1}
	}
	axis = axis.Normalize()

	p := &Plunger{
		body:        plunger,
		anchor:      anchor,
		axis:        axis,
		travel:      DefaultPlungerTravel,
		maxForce:    DefaultPlungerMaxForce,
		chargeSpeed: DefaultPlungerChargeSpeed,
		fireSpeed:   DefaultPlungerFireSpeed,
		returnSpeed: DefaultPlungerReturnSpeed,
	}
	for _, opt := range opts {
		opt(p)
	}

	if plunger.bodyType == Dynamic {
		plunger.body.SetMoment(math.Inf(1))
	}
	w.markActuator(plunger)

	a, b := anchor.body, plunger.body
	rest := a.WorldToLocal(b.Position())
	reach := a.WorldToLocal(b.Position().Add(axis)).Sub(rest).Mult(p.travel + grooveMargin)
	p.groove = cp.NewGrooveJoint(a, b, rest.Sub(reach), rest.Add(reach), cp.Vector{})
	p.groove.SetCollideBodies(false)

	p.drive = newAxisMotor(a, b, axis, p.maxForce)
	p.motor = cp.NewConstraint(p.drive, a, b)
	p.motor.SetCollideBodies(false)

	p.bounds = newAxisLimit(a, b, axis, -p.travel, p.travel)
	p.limit = cp.NewConstraint(p.bounds, a, b)
	p.limit.SetCollideBodies(false)

	w.nextJointID++
	p.jid = w.nextJointID
	w.addJoint(p)

	log.Debug().Str("component", "physics").
		Int("joint", int(p.jid)).
		Float64("travel", p.travel).
		Str("axis", axis.String()).
		Msg("plunger created")
	return p, nil
}

func (p *Plunger) id() JointID { return p.jid }

func (p *Plunger) constraints() []*cp.Constraint {
	return []*cp.Constraint{p.groove, p.motor, p.limit}
}

func (p *Plunger) attached(id BodyID) bool {
	return p.body.id == id || p.anchor.id == id
}

// ID returns the stable arena id of the joint.
func (p *Plunger) ID() JointID { return p.jid }

// Body returns the sliding body.
func (p *Plunger) Body() *Body { return p.body }

// Anchor returns the fixed body.
func (p *Plunger) Anchor() *Body { return p.anchor }

// Lower returns the lower travel bound in meters.
func (p *Plunger) Lower() float64 { return -p.travel }

// Upper returns the upper travel bound in meters.
func (p *Plunger) Upper() float64 { return p.travel }

// MaxForce returns the motor force limit.
func (p *Plunger) MaxForce() float64 { return p.maxForce }

// State returns the closed-loop phase.
func (p *Plunger) State() PlungerState { return p.state }

// Translation returns the offset from rest along the axis in meters.
func (p *Plunger) Translation() float64 {
	if p == nil || !p.body.Alive() || !p.anchor.Alive() {
		return 0
	}
	return p.drive.rawTranslation() - p.drive.ref
}

// MotorSpeed returns the commanded velocity along the axis in m/s.
func (p *Plunger) MotorSpeed() float64 {
	if p == nil {
		return 0
	}
	return p.drive.speed
}

// SetMotorSpeed commands the velocity along the axis.
func (p *Plunger) SetMotorSpeed(speed float64) {
	if p == nil {
		return
	}
	p.drive.speed = speed
	if p.body.Alive() {
		p.body.body.Activate()
	}
}

// SetCharging pulls the plunger back while held and fires it on release.
func (p *Plunger) SetCharging(charging bool) {
	if p == nil {
		return
	}
	switch {
	case charging && (p.state == PlungerIdle || p.state == PlungerReturning):
		p.state = PlungerCharging
		p.SetMotorSpeed(p.chargeSpeed)
	case charging && p.state == PlungerCharging:
		if p.Translation() > p.Lower()+limitTolerance {
			p.SetMotorSpeed(p.chargeSpeed)
		}
	case !charging && p.state == PlungerCharging:
		p.state = PlungerFiring
		p.SetMotorSpeed(p.fireSpeed)
	}
}

// Update is the per-frame clamp: speed drops to zero once a charge reaches
// the lower bound, reverses at the upper bound and stops back at rest.
func (p *Plunger) Update() {
	if p == nil {
		return
	}
	t := p.Translation()
	switch p.state {
	case PlungerCharging:
		if t <= p.Lower()+limitTolerance {
			p.SetMotorSpeed(0)
		}
	case PlungerFiring:
		if t >= p.Upper()-limitTolerance {
			p.state = PlungerReturning
			p.SetMotorSpeed(p.returnSpeed)
		}
	case PlungerReturning:
		if t <= 0 || t <= p.Lower()+limitTolerance {
			p.state = PlungerIdle
			p.SetMotorSpeed(0)
		}
	}
}

// SetSpeeds replaces the fire and return speed magnitudes and re-applies the
// current fire state.
func (f *Flipper) SetSpeeds(fire, rest float64) {
	if f == nil {
		return
	}
	WithFlipperSpeeds(fire, rest)(f)
	f.SetFireState(f.fired)
}

// SetSpeeds replaces the charge, fire and return speeds. The commanded speed
// of the current phase is left alone until the next transition.
func (p *Plunger) SetSpeeds(charge, fire, ret float64) {
	if p == nil {
		return
	}
	WithPlungerSpeeds(charge, fire, ret)(p)
}
