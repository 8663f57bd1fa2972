package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// baumgarte scales how much of an existing limit violation is removed per step.
const baumgarte = 0.2

type massProps struct {
	mInv float64
	iInv float64
}

func inverseMass(b *cp.Body) massProps {
	if b == nil || b.GetType() != cp.BODY_DYNAMIC {
		return massProps{}
	}
	return massProps{mInv: invert(b.Mass()), iInv: invert(b.Moment())}
}

func invert(v float64) float64 {
	if v == 0 || math.IsInf(v, 1) {
		return 0
	}
	return 1 / v
}

func limitBias(c, dt float64) float64 {
	if c > 0 {
		return c / dt
	}
	return baumgarte * c / dt
}

// angleLimit keeps the relative angle of b to a inside [lower, upper]. It is
// speculative: approaching a bound, velocity is capped so the next
// integration lands on it instead of crossing it.
type angleLimit struct {
	a, b         *cp.Body
	lower, upper float64
	ref          float64

	ma, mb   massProps
	k        float64
	angle    float64
	lowerAcc float64
	upperAcc float64
}

func newAngleLimit(a, b *cp.Body, lower, upper float64) *angleLimit {
	return &angleLimit{
		a:     a,
		b:     b,
		lower: lower,
		upper: upper,
		ref:   b.Angle() - a.Angle(),
	}
}

func (l *angleLimit) relativeAngle() float64 {
	return l.b.Angle() - l.a.Angle() - l.ref
}

func (l *angleLimit) PreStep(dt float64) {
	l.ma = inverseMass(l.a)
	l.mb = inverseMass(l.b)
	l.k = invert(l.ma.iInv + l.mb.iInv)
	l.angle = l.relativeAngle()
}

func (l *angleLimit) ApplyCachedImpulse(dtCoef float64) {
	l.lowerAcc *= dtCoef
	l.upperAcc *= dtCoef
	l.apply(l.lowerAcc - l.upperAcc)
}

func (l *angleLimit) ApplyImpulse(dt float64) {
	if l.k == 0 {
		return
	}

	c := l.angle - l.lower
	cdot := l.b.AngularVelocity() - l.a.AngularVelocity()
	j := -l.k * (cdot + limitBias(c, dt))
	acc := math.Max(l.lowerAcc+j, 0)
	j = acc - l.lowerAcc
	l.lowerAcc = acc
	l.apply(j)

	c = l.upper - l.angle
	cdot = l.a.AngularVelocity() - l.b.AngularVelocity()
	j = -l.k * (cdot + limitBias(c, dt))
	acc = math.Max(l.upperAcc+j, 0)
	j = acc - l.upperAcc
	l.upperAcc = acc
	l.apply(-j)
}

func (l *angleLimit) apply(j float64) {
	if j == 0 {
		return
	}
	if l.ma.iInv != 0 {
		l.a.SetAngularVelocity(l.a.AngularVelocity() - j*l.ma.iInv)
	}
	if l.mb.iInv != 0 {
		l.b.SetAngularVelocity(l.b.AngularVelocity() + j*l.mb.iInv)
	}
}

func (l *angleLimit) GetImpulse() float64 {
	return math.Abs(l.lowerAcc) + math.Abs(l.upperAcc)
}

// axis describes a slide direction fixed in a's frame with both anchors at
// the body origins.
type axis struct {
	a, b  *cp.Body
	local cp.Vector
	ref   float64

	ma, mb      massProps
	world       cp.Vector
	a1, a2      float64
	k           float64
	translation float64
}

func newAxis(a, b *cp.Body, dir cp.Vector) axis {
	ax := axis{a: a, b: b, local: a.WorldToLocal(a.Position().Add(dir.Normalize())).Sub(a.WorldToLocal(a.Position()))}
	ax.ref = ax.rawTranslation()
	return ax
}

func (ax *axis) worldAxis() cp.Vector {
	return ax.a.LocalToWorld(ax.local).Sub(ax.a.LocalToWorld(cp.Vector{}))
}

func (ax *axis) rawTranslation() float64 {
	d := ax.b.Position().Sub(ax.a.Position())
	return d.Dot(ax.worldAxis())
}

func (ax *axis) prepare() {
	ax.ma = inverseMass(ax.a)
	ax.mb = inverseMass(ax.b)
	ax.world = ax.worldAxis()
	d := ax.b.Position().Sub(ax.a.Position())
	ax.a1 = d.Cross(ax.world)
	ax.a2 = 0
	ax.k = invert(ax.ma.mInv + ax.mb.mInv + ax.ma.iInv*ax.a1*ax.a1 + ax.mb.iInv*ax.a2*ax.a2)
	ax.translation = d.Dot(ax.world) - ax.ref
}

func (ax *axis) relativeVelocity() float64 {
	return ax.world.Dot(ax.b.Velocity().Sub(ax.a.Velocity())) + ax.a2*ax.b.AngularVelocity() - ax.a1*ax.a.AngularVelocity()
}

func (ax *axis) apply(j float64) {
	if j == 0 {
		return
	}
	p := ax.world.Mult(j)
	if ax.ma.mInv != 0 || ax.ma.iInv != 0 {
		ax.a.SetVelocityVector(ax.a.Velocity().Sub(p.Mult(ax.ma.mInv)))
		ax.a.SetAngularVelocity(ax.a.AngularVelocity() - j*ax.a1*ax.ma.iInv)
	}
	if ax.mb.mInv != 0 || ax.mb.iInv != 0 {
		ax.b.SetVelocityVector(ax.b.Velocity().Add(p.Mult(ax.mb.mInv)))
		ax.b.SetAngularVelocity(ax.b.AngularVelocity() + j*ax.a2*ax.mb.iInv)
	}
}

// axisMotor drives the relative velocity of b along the axis toward speed
// with a bounded force.
type axisMotor struct {
	axis
	speed    float64
	maxForce float64
	acc      float64
}

func newAxisMotor(a, b *cp.Body, dir cp.Vector, maxForce float64) *axisMotor {
	return &axisMotor{axis: newAxis(a, b, dir), maxForce: maxForce}
}

func (m *axisMotor) PreStep(dt float64) {
	m.prepare()
}

func (m *axisMotor) ApplyCachedImpulse(dtCoef float64) {
	m.acc *= dtCoef
	m.apply(m.acc)
}

func (m *axisMotor) ApplyImpulse(dt float64) {
	if m.k == 0 {
		return
	}
	j := m.k * (m.speed - m.relativeVelocity())
	limit := m.maxForce * dt
	acc := cp.Clamp(m.acc+j, -limit, limit)
	j = acc - m.acc
	m.acc = acc
	m.apply(j)
}

func (m *axisMotor) GetImpulse() float64 {
	return math.Abs(m.acc)
}

// axisLimit keeps the translation along the axis inside [lower, upper],
// speculatively like angleLimit.
type axisLimit struct {
	axis
	lower, upper float64
	lowerAcc     float64
	upperAcc     float64
}

func newAxisLimit(a, b *cp.Body, dir cp.Vector, lower, upper float64) *axisLimit {
	return &axisLimit{axis: newAxis(a, b, dir), lower: lower, upper: upper}
}

func (l *axisLimit) PreStep(dt float64) {
	l.prepare()
}

func (l *axisLimit) ApplyCachedImpulse(dtCoef float64) {
	l.lowerAcc *= dtCoef
	l.upperAcc *= dtCoef
	l.apply(l.lowerAcc - l.upperAcc)
}

func (l *axisLimit) ApplyImpulse(dt float64) {
	if l.k == 0 {
		return
	}

	c := l.translation - l.lower
	j := -l.k * (l.relativeVelocity() + limitBias(c, dt))
	acc := math.Max(l.lowerAcc+j, 0)
	j = acc - l.lowerAcc
	l.lowerAcc = acc
	l.apply(j)

	c = l.upper - l.translation
	j = -l.k * (-l.relativeVelocity() + limitBias(c, dt))
	acc = math.Max(l.upperAcc+j, 0)
	j = acc - l.upperAcc
	l.upperAcc = acc
	l.apply(-j)
}

func (l *axisLimit) GetImpulse() float64 {
	return math.Abs(l.lowerAcc) + math.Abs(l.upperAcc)
}
