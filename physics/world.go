package physics

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pinball/common"
	"github.com/rs/zerolog/log"
)

const (
	collisionTypeTable cp.CollisionType = iota + 1
)

// Collision categories. Actuator bodies only touch free moving bodies, so
// paddles and plungers never grind against the scenery around them.
const (
	categoryScenery uint = 1 << iota
	categoryMoving
	categoryActuator
)

var (
	filterScenery  = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: categoryScenery, Mask: cp.ALL_CATEGORIES}
	filterMoving   = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: categoryMoving, Mask: cp.ALL_CATEGORIES}
	filterActuator = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: categoryActuator, Mask: categoryMoving}
)

const (
	// DefaultTimeStep is the fixed tick advanced by Step.
	DefaultTimeStep = 1.0 / 60.0
	// DefaultVelocityIterations and DefaultPositionIterations form the solver budget of Step.
	DefaultVelocityIterations = 6
	DefaultPositionIterations = 2
	// DefaultGravityY is handed to Start by callers that have no tuning.
	DefaultGravityY = -0.6

	// BumperRestitution is the energy-adding elasticity of bumper fixtures.
	BumperRestitution = 1.5

	defaultDensity   = 1.0
	defaultFriction  = 0.2
	chainSkinRadius  = 0.01
	collisionSlop    = 0.01
	shellThickness   = 0.02
	defaultTableW    = 512
	defaultTableH    = 864
	maxCachedEvents  = 256
)

var (
	ErrWorldNotStarted  = errors.New("physics: world not started")
	ErrWorldStarted     = errors.New("physics: world already started")
	ErrOddChain         = errors.New("physics: chain point list has odd length")
	ErrDegenerateChain  = errors.New("physics: chain needs at least three vertices")
	ErrBodyNotAlive     = errors.New("physics: body is not alive")
	ErrJointBodyMissing = errors.New("physics: joint needs two live bodies")
)

// BodyID identifies a body for the lifetime of its World.
type BodyID int

// JointID identifies an actuator joint for the lifetime of its World.
type JointID int

type joint interface {
	id() JointID
	constraints() []*cp.Constraint
	attached(id BodyID) bool
}

// World owns the Chipmunk space, every body and joint created through it,
// and the association from shapes to gameplay listeners.
type World struct {
	space    *cp.Space
	gravity  cp.Vector
	timeStep float64

	tableWidth  int
	tableHeight int
	shell       []*cp.Shape

	nextBodyID  BodyID
	nextJointID JointID
	bodies      map[BodyID]*Body
	order       []BodyID
	joints      map[JointID]joint
	jointOrder  []JointID

	shapeToBody map[*cp.Shape]BodyID
	listeners   map[BodyID]Listener

	pending     []CollisionEvent
	dispatching bool
	drag        *dragJoint
}

// Option configures a World before Start.
type Option func(*World)

// WithTableSize sets the pixel size of the boundary shell and the flipper midline.
func WithTableSize(width, height int) Option {
	return func(w *World) {
		if width > 0 {
			w.tableWidth = width
		}
		if height > 0 {
			w.tableHeight = height
		}
	}
}

// NewWorld creates an unstarted world.
func NewWorld(opts ...Option) *World {
	w := &World{
		timeStep:    DefaultTimeStep,
		tableWidth:  defaultTableW,
		tableHeight: defaultTableH,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start creates the simulation with gravity (0, -gravityY), installs the
// contact handler and builds the table shell.
func (w *World) Start(gravityY float64) error {
	if w == nil {
		return ErrWorldNotStarted
	}
	if w.space != nil {
		return ErrWorldStarted
	}

	space := cp.NewSpace()
	space.Iterations = DefaultVelocityIterations + DefaultPositionIterations
	space.SetCollisionSlop(collisionSlop)
	w.gravity = cp.Vector{X: 0, Y: -gravityY}
	space.SetGravity(w.gravity)

	w.space = space
	w.bodies = make(map[BodyID]*Body)
	w.joints = make(map[JointID]joint)
	w.shapeToBody = make(map[*cp.Shape]BodyID)
	w.listeners = make(map[BodyID]Listener)
	w.pending = make([]CollisionEvent, 0, maxCachedEvents)
	w.order = nil
	w.jointOrder = nil

	w.setupHandlers()
	w.buildShell()

	log.Info().Str("component", "physics").
		Float64("gravityY", w.gravity.Y).
		Int("width", w.tableWidth).
		Int("height", w.tableHeight).
		Msg("world started")
	return nil
}

// Started reports whether Start succeeded and Destroy has not run since.
func (w *World) Started() bool {
	return w != nil && w.space != nil
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Gravity returns the gravity vector in simulation units.
func (w *World) Gravity() cp.Vector {
	if w == nil {
		return cp.Vector{}
	}
	return w.gravity
}

// TimeStep returns the fixed tick length in seconds.
func (w *World) TimeStep() float64 {
	if w == nil {
		return 0
	}
	return w.timeStep
}

// Midline returns the x pixel coordinate that splits left from right flippers.
func (w *World) Midline() int {
	if w == nil {
		return 0
	}
	return w.tableWidth / 2
}

// Step advances exactly one fixed tick and dispatches the contact events it produced.
func (w *World) Step() {
	w.StepWith(DefaultTimeStep, DefaultVelocityIterations, DefaultPositionIterations)
}

// StepWith advances one tick of dt seconds with the given solver budget.
// Chipmunk runs a single solver loop, so the budget is the sum of both counts.
func (w *World) StepWith(dt float64, velocityIterations, positionIterations int) {
	if w == nil || w.space == nil {
		return
	}
	iterations := velocityIterations + positionIterations
	if iterations < 1 {
		iterations = 1
	}
	w.space.Iterations = uint(iterations)
	w.space.Step(dt)
	w.dispatch()
}

// Destroy removes every joint and body and releases the space.
func (w *World) Destroy() {
	if w == nil || w.space == nil {
		return
	}
	w.StopDrag()
	bodies := len(w.order)

	for i := len(w.jointOrder) - 1; i >= 0; i-- {
		if j, ok := w.joints[w.jointOrder[i]]; ok {
			w.removeJoint(j)
		}
	}
	for i := len(w.order) - 1; i >= 0; i-- {
		if b, ok := w.bodies[w.order[i]]; ok {
			w.releaseBody(b)
		}
	}
	for _, shape := range w.shell {
		if w.space.ContainsShape(shape) {
			w.space.RemoveShape(shape)
		}
	}

	w.shell = nil
	w.bodies = nil
	w.order = nil
	w.joints = nil
	w.jointOrder = nil
	w.shapeToBody = nil
	w.listeners = nil
	w.pending = nil
	w.space = nil

	log.Info().Str("component", "physics").Int("bodies", bodies).Msg("world destroyed")
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	if w == nil {
		return 0
	}
	return len(w.bodies)
}

// JointCount returns the number of live joints.
func (w *World) JointCount() int {
	if w == nil {
		return 0
	}
	return len(w.joints)
}

// Body looks up a live body by id.
func (w *World) Body(id BodyID) (*Body, bool) {
	if w == nil || w.bodies == nil {
		return nil, false
	}
	b, ok := w.bodies[id]
	return b, ok
}

// Bodies returns live bodies in creation order.
func (w *World) Bodies() []*Body {
	if w == nil {
		return nil
	}
	out := make([]*Body, 0, len(w.bodies))
	for _, id := range w.order {
		if b, ok := w.bodies[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// SetListener attaches l as the single event sink of b. A nil l detaches.
func (w *World) SetListener(b *Body, l Listener) {
	if w == nil || w.listeners == nil || !b.Alive() {
		return
	}
	if l == nil {
		delete(w.listeners, b.id)
		return
	}
	w.listeners[b.id] = l
}

// Listener returns the event sink of b, or nil.
func (w *World) Listener(b *Body) Listener {
	if w == nil || w.listeners == nil || b == nil {
		return nil
	}
	return w.listeners[b.id]
}

// BodyAt returns the body whose shape contains the pixel point.
func (w *World) BodyAt(x, y int) (*Body, bool) {
	if w == nil || w.space == nil {
		return nil, false
	}
	info := w.space.PointQueryNearest(common.ToSimVec(x, y), 0, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return nil, false
	}
	return w.bodyForShape(info.Shape)
}

// RayCast returns the first body hit by the pixel segment, the hit distance
// in pixels from the start and the surface normal, or -1 when nothing is hit.
func (w *World) RayCast(x1, y1, x2, y2 int) (*Body, int, cp.Vector) {
	if w == nil || w.space == nil {
		return nil, -1, cp.Vector{}
	}
	a := common.ToSimVec(x1, y1)
	bv := common.ToSimVec(x2, y2)
	info := w.space.SegmentQueryFirst(a, bv, 0, cp.SHAPE_FILTER_ALL)
	if info.Shape == nil {
		return nil, -1, cp.Vector{}
	}
	body, _ := w.bodyForShape(info.Shape)
	dist := bv.Sub(a).Length() * info.Alpha
	return body, common.ToPixels(dist), info.Normal
}

func (w *World) bodyForShape(shape *cp.Shape) (*Body, bool) {
	if w == nil || w.shapeToBody == nil || shape == nil {
		return nil, false
	}
	id, ok := w.shapeToBody[shape]
	if !ok {
		return nil, false
	}
	b, ok := w.bodies[id]
	return b, ok
}

// DestroyBody removes b, its shapes, the joints attached to it and its listener.
func (w *World) DestroyBody(b *Body) {
	if w == nil || w.space == nil || !b.Alive() || b.world != w {
		return
	}
	if w.drag != nil && w.drag.target == b.id {
		w.StopDrag()
	}
	for _, id := range append([]JointID(nil), w.jointOrder...) {
		j, ok := w.joints[id]
		if ok && j.attached(b.id) {
			w.removeJoint(j)
		}
	}
	w.releaseBody(b)
	log.Debug().Str("component", "physics").Int("body", int(b.id)).Str("tag", b.tag.String()).Msg("body destroyed")
}

func (w *World) releaseBody(b *Body) {
	// Disabled bodies have no shapes in the space, but a static one keeps its body.
	for _, shape := range b.shapes {
		if w.space.ContainsShape(shape) {
			w.space.RemoveShape(shape)
		}
	}
	if b.body != nil && w.space.ContainsBody(b.body) {
		w.space.RemoveBody(b.body)
	}
	for _, shape := range b.shapes {
		delete(w.shapeToBody, shape)
	}
	delete(w.bodies, b.id)
	delete(w.listeners, b.id)
	for i, id := range w.order {
		if id == b.id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	b.alive = false
	b.world = nil
	b.body = nil
	b.shapes = nil
}

func (w *World) markActuator(b *Body) {
	if b.bodyType == Static {
		return
	}
	for _, shape := range b.shapes {
		shape.SetFilter(filterActuator)
	}
}

func (w *World) addJoint(j joint) {
	for _, c := range j.constraints() {
		w.space.AddConstraint(c)
	}
	w.joints[j.id()] = j
	w.jointOrder = append(w.jointOrder, j.id())
}

func (w *World) removeJoint(j joint) {
	for _, c := range j.constraints() {
		if w.space.ContainsConstraint(c) {
			w.space.RemoveConstraint(c)
		}
	}
	delete(w.joints, j.id())
	for i, id := range w.jointOrder {
		if id == j.id() {
			w.jointOrder = append(w.jointOrder[:i], w.jointOrder[i+1:]...)
			break
		}
	}
}

func (w *World) buildShell() {
	width := common.ToSim(w.tableWidth)
	height := common.ToSim(w.tableHeight)
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: width, Y: 0}},
		{a: cp.Vector{X: 0, Y: height}, b: cp.Vector{X: width, Y: height}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: height}},
		{a: cp.Vector{X: width, Y: 0}, b: cp.Vector{X: width, Y: height}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(w.space.StaticBody, seg.a, seg.b, shellThickness)
		shape.SetElasticity(0.5)
		shape.SetFriction(defaultFriction)
		shape.SetCollisionType(collisionTypeTable)
		shape.SetFilter(filterScenery)
		w.space.AddShape(shape)
		w.shell = append(w.shell, shape)
	}
}

func (w *World) newBody(bodyType BodyType, x, y int, tag Tag) *Body {
	var cpBody *cp.Body
	switch bodyType {
	case Dynamic:
		cpBody = cp.NewBody(0, 0)
	case Kinematic:
		cpBody = cp.NewKinematicBody()
	default:
		cpBody = cp.NewStaticBody()
	}
	cpBody.SetPosition(common.ToSimVec(x, y))
	w.space.AddBody(cpBody)

	w.nextBodyID++
	b := &Body{
		id:       w.nextBodyID,
		world:    w,
		body:     cpBody,
		bodyType: bodyType,
		tag:      tag,
		alive:    true,
		enabled:  true,
	}
	cpBody.UserData = b.id
	w.bodies[b.id] = b
	w.order = append(w.order, b.id)
	return b
}

func (w *World) attachShape(b *Body, shape *cp.Shape, density float64) {
	shape.SetCollisionType(collisionTypeTable)
	shape.SetFriction(defaultFriction)
	if b.bodyType == Static {
		shape.SetFilter(filterScenery)
	} else {
		shape.SetFilter(filterMoving)
	}
	shape.UserData = b.id
	w.space.AddShape(shape)
	if b.bodyType == Dynamic && density > 0 {
		shape.SetDensity(density)
	}
	w.shapeToBody[shape] = b.id
	b.shapes = append(b.shapes, shape)
}

// CreateCircle creates a circular body of density 1 centered on the pixel point.
func (w *World) CreateCircle(x, y, radius int, bodyType BodyType) *Body {
	if w == nil || w.space == nil {
		return nil
	}
	b := w.newBody(bodyType, x, y, TagNone)
	shape := cp.NewCircle(b.body, common.ToSim(radius), cp.Vector{})
	// The ball carries unit elasticity so surface elasticity decides the bounce.
	shape.SetElasticity(1)
	w.attachShape(b, shape, defaultDensity)
	b.halfWidth, b.halfHeight = radius, radius
	b.radius = radius

	log.Debug().Str("component", "physics").Int("body", int(b.id)).Int("x", x).Int("y", y).Int("radius", radius).Msg("circle created")
	return b
}

// CreateRectangle creates a box centered on the pixel point.
func (w *World) CreateRectangle(x, y, width, height int, bodyType BodyType, tag Tag) *Body {
	return w.createBox(x, y, width, height, bodyType, tag, false)
}

// CreateRectangleSensor creates a box that reports overlaps without collision response.
func (w *World) CreateRectangleSensor(x, y, width, height int, bodyType BodyType, tag Tag) *Body {
	return w.createBox(x, y, width, height, bodyType, tag, true)
}

func (w *World) createBox(x, y, width, height int, bodyType BodyType, tag Tag, sensor bool) *Body {
	if w == nil || w.space == nil {
		return nil
	}
	b := w.newBody(bodyType, x, y, tag)
	shape := cp.NewBox(b.body, common.ToSim(width), common.ToSim(height), 0)
	shape.SetSensor(sensor)
	w.attachShape(b, shape, defaultDensity)
	b.halfWidth = width / 2
	b.halfHeight = height / 2
	b.sensor = sensor

	log.Debug().Str("component", "physics").
		Int("body", int(b.id)).
		Str("tag", tag.String()).
		Bool("sensor", sensor).
		Int("w", width).Int("h", height).
		Msg("box created")
	return b
}

// CreateBumper creates a circle whose fixture restitution is BumperRestitution.
func (w *World) CreateBumper(x, y, radius int, bodyType BodyType, tag Tag) *Body {
	if w == nil || w.space == nil {
		return nil
	}
	b := w.newBody(bodyType, x, y, tag)
	shape := cp.NewCircle(b.body, common.ToSim(radius), cp.Vector{})
	shape.SetElasticity(BumperRestitution)
	w.attachShape(b, shape, defaultDensity)
	b.halfWidth, b.halfHeight = radius, radius
	b.radius = radius
	return b
}

// CreateChain builds a closed loop of segments from flat x/y pixel pairs
// relative to the pixel origin (x, y).
func (w *World) CreateChain(x, y int, points []int, bodyType BodyType, tag Tag) (*Body, error) {
	if w == nil || w.space == nil {
		return nil, ErrWorldNotStarted
	}
	if len(points)%2 != 0 {
		return nil, ErrOddChain
	}
	if len(points) < 6 {
		return nil, ErrDegenerateChain
	}

	verts := make([]cp.Vector, len(points)/2)
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for i := range verts {
		px, py := points[i*2], points[i*2+1]
		verts[i] = common.ToSimVec(px, py)
		minX, maxX = min(minX, px), max(maxX, px)
		minY, maxY = min(minY, py), max(maxY, py)
	}

	b := w.newBody(bodyType, x, y, tag)
	for i := range verts {
		next := verts[(i+1)%len(verts)]
		if verts[i].Equal(next) {
			continue
		}
		shape := cp.NewSegment(b.body, verts[i], next, chainSkinRadius)
		shape.SetElasticity(0.5)
		w.attachShape(b, shape, defaultDensity)
	}
	b.halfWidth = (maxX - minX) / 2
	b.halfHeight = (maxY - minY) / 2
	b.chain = append([]int(nil), points...)

	log.Debug().Str("component", "physics").
		Int("body", int(b.id)).
		Str("tag", tag.String()).
		Int("vertices", len(verts)).
		Msg("chain created")
	return b, nil
}
