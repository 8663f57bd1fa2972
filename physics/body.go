package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pinball/common"
	"github.com/rs/zerolog/log"
)

// Body is the gameplay-facing handle of one simulation body. It is owned by
// the World that created it and becomes inert once destroyed.
type Body struct {
	id       BodyID
	world    *World
	body     *cp.Body
	shapes   []*cp.Shape
	bodyType BodyType
	tag      Tag

	halfWidth  int
	halfHeight int
	radius     int
	sensor     bool
	chain      []int

	alive   bool
	enabled bool
}

// ID returns the stable arena id of the body.
func (b *Body) ID() BodyID {
	if b == nil {
		return 0
	}
	return b.id
}

// Tag returns the gameplay role assigned at creation.
func (b *Body) Tag() Tag {
	if b == nil {
		return TagNone
	}
	return b.tag
}

// Type returns the body type.
func (b *Body) Type() BodyType {
	if b == nil {
		return Static
	}
	return b.bodyType
}

// Alive reports whether the wrapped simulation body still exists.
func (b *Body) Alive() bool {
	return b != nil && b.alive
}

// Enabled reports whether the body's shapes currently take part in the simulation.
func (b *Body) Enabled() bool {
	return b.Alive() && b.enabled
}

// IsSensor reports whether the body was created as a sensor.
func (b *Body) IsSensor() bool {
	return b.Alive() && b.sensor
}

// HalfExtents returns the half width and half height in pixels.
func (b *Body) HalfExtents() (int, int) {
	if !b.Alive() {
		return 0, 0
	}
	return b.halfWidth, b.halfHeight
}

// Radius returns the pixel radius of circles and bumpers.
func (b *Body) Radius() int {
	if !b.Alive() {
		return 0
	}
	return b.radius
}

// ChainPoints returns the flat pixel pairs a chain was built from.
func (b *Body) ChainPoints() []int {
	if !b.Alive() {
		return nil
	}
	return b.chain
}

// CPBody exposes the simulation body for drawing.
func (b *Body) CPBody() *cp.Body {
	if !b.Alive() {
		return nil
	}
	return b.body
}

// Shapes exposes the simulation shapes for drawing.
func (b *Body) Shapes() []*cp.Shape {
	if !b.Alive() {
		return nil
	}
	return b.shapes
}

// Position returns the body origin in pixels.
func (b *Body) Position() (int, int) {
	if !b.Alive() {
		return 0, 0
	}
	return common.ToPixelsVec(b.body.Position())
}

// TopLeft returns the origin minus the half extents, where sprites are drawn from.
func (b *Body) TopLeft() (int, int) {
	x, y := b.Position()
	return x - b.halfWidth, y - b.halfHeight
}

// Rotation returns the body angle in radians.
func (b *Body) Rotation() float64 {
	if !b.Alive() {
		return 0
	}
	return b.body.Angle()
}

// RotationDegrees returns the body angle in degrees.
func (b *Body) RotationDegrees() float64 {
	return common.RadToDeg(b.Rotation())
}

// Velocity returns the linear velocity in simulation units.
func (b *Body) Velocity() cp.Vector {
	if !b.Alive() {
		return cp.Vector{}
	}
	return b.body.Velocity()
}

// SetVelocity replaces the linear velocity.
func (b *Body) SetVelocity(v cp.Vector) {
	if !b.Alive() || b.bodyType == Static {
		return
	}
	b.body.SetVelocityVector(v)
}

// ApplyImpulse applies a linear impulse at the center of mass.
func (b *Body) ApplyImpulse(impulse cp.Vector) {
	if !b.Alive() || b.bodyType != Dynamic {
		return
	}
	b.body.ApplyImpulseAtWorldPoint(impulse, b.body.Position())
}

// ResetMotion zeroes linear and angular velocity.
func (b *Body) ResetMotion() {
	if !b.Alive() || b.bodyType == Static {
		return
	}
	b.body.SetVelocityVector(cp.Vector{})
	b.body.SetAngularVelocity(0)
}

// SetTransform teleports the body to a pixel position and angle in radians.
func (b *Body) SetTransform(x, y int, angle float64) {
	if !b.Alive() {
		return
	}
	space := b.world.space
	static := b.bodyType == Static && b.enabled && space != nil
	if static {
		for _, shape := range b.shapes {
			space.RemoveShape(shape)
		}
	}
	b.body.SetPosition(common.ToSimVec(x, y))
	b.body.SetAngle(angle)
	if static {
		for _, shape := range b.shapes {
			space.AddShape(shape)
		}
	}
}

// SetEnabled adds or removes the body's shapes from the simulation. Disabled
// bodies keep their handle, tag and listener.
func (b *Body) SetEnabled(enabled bool) {
	if !b.Alive() || b.enabled == enabled || b.world.space == nil {
		return
	}
	space := b.world.space
	if enabled {
		if b.bodyType != Static {
			space.AddBody(b.body)
		}
		for _, shape := range b.shapes {
			space.AddShape(shape)
		}
	} else {
		for _, shape := range b.shapes {
			space.RemoveShape(shape)
		}
		if b.bodyType != Static {
			space.RemoveBody(b.body)
		}
	}
	b.enabled = enabled
	log.Debug().Str("component", "physics").Int("body", int(b.id)).Bool("enabled", enabled).Msg("body toggled")
}

// Contains reports whether the pixel point lies inside any of the body's shapes.
func (b *Body) Contains(x, y int) bool {
	if !b.Alive() {
		return false
	}
	p := common.ToSimVec(x, y)
	for _, shape := range b.shapes {
		if shape.PointQuery(p).Distance <= 0 {
			return true
		}
	}
	return false
}

// RayCast intersects the pixel segment with the body's shapes. It returns
// the distance from the start in pixels and the surface normal, or -1 on a miss.
func (b *Body) RayCast(x1, y1, x2, y2 int) (int, cp.Vector) {
	if !b.Alive() {
		return -1, cp.Vector{}
	}
	start := common.ToSimVec(x1, y1)
	end := common.ToSimVec(x2, y2)

	best := 2.0
	var normal cp.Vector
	for _, shape := range b.shapes {
		var info cp.SegmentQueryInfo
		if shape.SegmentQuery(start, end, 0, &info) && info.Alpha < best {
			best = info.Alpha
			normal = info.Normal
		}
	}
	if best > 1 {
		return -1, cp.Vector{}
	}
	return common.ToPixels(end.Sub(start).Length() * best), normal
}
