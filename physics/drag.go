package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pinball/common"
	"github.com/rs/zerolog/log"
)

// dragForceScale multiplies the dragged body's mass into the joint's force limit.
const dragForceScale = 100.0

type dragJoint struct {
	target BodyID
	mouse  *cp.Body
	joint  *cp.Constraint
}

// StartDrag grabs the dynamic body under the pixel point with a mouse joint.
func (w *World) StartDrag(x, y int) bool {
	if w == nil || w.space == nil {
		return false
	}
	w.StopDrag()

	b, ok := w.BodyAt(x, y)
	if !ok || b.bodyType != Dynamic || !b.enabled {
		return false
	}

	point := common.ToSimVec(x, y)
	mouse := cp.NewKinematicBody()
	mouse.SetPosition(point)

	joint := cp.NewPivotJoint2(mouse, b.body, cp.Vector{}, b.body.WorldToLocal(point))
	joint.SetMaxForce(dragForceScale * b.body.Mass())
	joint.SetErrorBias(math.Pow(1-0.15, 60))
	w.space.AddConstraint(joint)

	w.drag = &dragJoint{target: b.id, mouse: mouse, joint: joint}
	log.Debug().Str("component", "physics").Int("body", int(b.id)).Msg("drag started")
	return true
}

// MoveDrag moves the mouse joint target to the pixel point.
func (w *World) MoveDrag(x, y int) {
	if w == nil || w.drag == nil {
		return
	}
	point := common.ToSimVec(x, y)
	prev := w.drag.mouse.Position()
	w.drag.mouse.SetVelocityVector(point.Sub(prev).Mult(1 / w.timeStep))
	w.drag.mouse.SetPosition(point)
}

// StopDrag releases the mouse joint if one is active.
func (w *World) StopDrag() {
	if w == nil || w.drag == nil {
		return
	}
	if w.space != nil && w.space.ContainsConstraint(w.drag.joint) {
		w.space.RemoveConstraint(w.drag.joint)
	}
	log.Debug().Str("component", "physics").Int("body", int(w.drag.target)).Msg("drag stopped")
	w.drag = nil
}

// Dragging reports whether a body is held by the mouse joint.
func (w *World) Dragging() bool {
	return w != nil && w.drag != nil
}
