package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog/log"
)

// ContactKind tells a listener how a collision event was produced.
type ContactKind int

const (
	// ContactBegin is delivered once, on the first step two solid shapes touch.
	ContactBegin ContactKind = iota
	// SensorOverlap is delivered every step a sensor overlaps another shape.
	SensorOverlap
)

func (k ContactKind) String() string {
	if k == SensorOverlap {
		return "sensor_overlap"
	}
	return "contact_begin"
}

// CollisionEvent is handed to the listener of Self. It is only valid during
// the OnCollision call.
type CollisionEvent struct {
	Self         *Body
	Other        *Body
	Tag          Tag
	Kind         ContactKind
	SelfIsSensor bool
}

// Listener receives collision events for the bodies it is attached to.
type Listener interface {
	OnCollision(ev CollisionEvent)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(ev CollisionEvent)

func (f ListenerFunc) OnCollision(ev CollisionEvent) {
	f(ev)
}

func (w *World) setupHandlers() {
	handler := w.space.NewCollisionHandler(collisionTypeTable, collisionTypeTable)
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		a, b := arb.Shapes()
		if a.Sensor() || b.Sensor() {
			return true
		}
		world.queuePair(a, b, ContactBegin)
		return true
	}
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		a, b := arb.Shapes()
		if !a.Sensor() && !b.Sensor() {
			return true
		}
		world.queuePair(a, b, SensorOverlap)
		return true
	}
}

func (w *World) queuePair(a, b *cp.Shape, kind ContactKind) {
	bodyA, okA := w.bodyForShape(a)
	bodyB, okB := w.bodyForShape(b)
	if !okA || !okB {
		return
	}
	w.queueSide(bodyA, bodyB, a.Sensor(), kind)
	w.queueSide(bodyB, bodyA, b.Sensor(), kind)
}

func (w *World) queueSide(self, other *Body, selfSensor bool, kind ContactKind) {
	if !self.tag.Significant() {
		return
	}
	if kind == SensorOverlap && !selfSensor {
		return
	}
	w.pending = append(w.pending, CollisionEvent{
		Self:         self,
		Other:        other,
		Tag:          self.tag,
		Kind:         kind,
		SelfIsSensor: selfSensor,
	})
}

// dispatch delivers the events of the last step once the space is unlocked,
// so listeners may create, move or destroy bodies.
func (w *World) dispatch() {
	if w.dispatching || len(w.pending) == 0 {
		return
	}
	w.dispatching = true
	defer func() { w.dispatching = false }()

	events := w.pending
	w.pending = make([]CollisionEvent, 0, cap(events))
	for _, ev := range events {
		if !ev.Self.Alive() || !ev.Other.Alive() {
			continue
		}
		l := w.listeners[ev.Self.id]
		if l == nil {
			continue
		}
		log.Trace().Str("component", "physics").
			Int("self", int(ev.Self.id)).
			Int("other", int(ev.Other.id)).
			Str("tag", ev.Tag.String()).
			Str("kind", ev.Kind.String()).
			Msg("collision")
		l.OnCollision(ev)
		if w.space == nil {
			return
		}
	}
}
