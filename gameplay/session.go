package gameplay

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pinball/physics"
	"github.com/milk9111/pinball/rules"
	"github.com/milk9111/pinball/table"
	"github.com/rs/zerolog/log"
)

// BasicLaunchImpulse is applied to the ball when a launch armed by the
// character or impulser sensor is released.
var BasicLaunchImpulse = cp.Vector{X: 0, Y: -0.7}

const extraLifeBanner = 160.0 / 60.0

// HitKind tells the renderer which element to pulse.
type HitKind int

const (
	HitBumper HitKind = iota
	HitKicker
)

// Hit is a visual event produced by a contact this frame.
type Hit struct {
	Body *physics.Body
	Kind HitKind
}

// Session is one running table: the score, lives and launch state of the
// player plus the listener every significant body reports to.
type Session struct {
	world  *physics.World
	els    *table.Elements
	rules  *rules.Engine
	sounds Sounds

	state   GameState
	pending GameState

	score            int
	best             int
	lives            int
	extraLifeAwarded bool
	banner           float64

	armed    bool
	basic    bool
	started  bool
	gateUp   bool
	draining bool
	drainFor float64

	character *physics.Body
	touched   map[physics.BodyID]bool
	touching  map[physics.BodyID]bool
	hits      []Hit
}

// Option configures a Session.
type Option func(*Session)

// WithSounds routes cues to snd instead of discarding them.
func WithSounds(snd Sounds) Option {
	return func(s *Session) {
		if snd != nil {
			s.sounds = snd
		}
	}
}

// WithBestScore seeds the best score.
func WithBestScore(best int) Option {
	return func(s *Session) {
		s.best = best
	}
}

// NewSession attaches itself as the listener of every significant body of els
// and enters the in-game state.
func NewSession(world *physics.World, els *table.Elements, engine *rules.Engine, opts ...Option) *Session {
	s := &Session{
		world:    world,
		els:      els,
		rules:    engine,
		sounds:   silent{},
		touched:  make(map[physics.BodyID]bool),
		touching: make(map[physics.BodyID]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lives = s.tuning().Lives

	for _, b := range els.Significant() {
		world.SetListener(b, s)
		if b.Tag() == physics.TagCharacter && s.character == nil {
			s.character = b
		}
	}

	s.state = StateInGame
	s.state.Enter(s)
	return s
}

func (s *Session) tuning() table.Tuning {
	if s == nil || s.els == nil || s.els.Table == nil {
		return table.Tuning{}
	}
	return s.els.Table.Tuning
}

// ChangeState queues a transition applied at the end of the frame.
func (s *Session) ChangeState(next GameState) {
	if s == nil || next == nil {
		return
	}
	s.pending = next
}

// Update runs one frame: input, the state's update, then any queued transition.
func (s *Session) Update(cmds Commands, dt float64) {
	if s == nil || s.state == nil {
		return
	}
	s.state.HandleInput(s, cmds)
	s.state.Update(s, dt)

	for s.pending != nil && s.pending != s.state {
		prev := s.state
		next := s.pending
		s.pending = nil
		prev.Exit(s)
		s.state = next
		next.Enter(s)
		log.Info().Str("component", "gameplay").Str("from", prev.Name()).Str("to", next.Name()).Msg("state changed")
	}
	s.pending = nil
}

// OnCollision reacts to a contact reported for one of the session's bodies.
func (s *Session) OnCollision(ev physics.CollisionEvent) {
	if s == nil || s.state != StateInGame {
		return
	}

	entered := true
	if ev.Kind == physics.SensorOverlap {
		id := ev.Self.ID()
		entered = !s.touched[id] && !s.touching[id]
		s.touching[id] = true
	}

	r, err := s.rules.React(ev.Tag)
	if err != nil {
		log.Error().Err(err).Str("component", "gameplay").Str("tag", ev.Tag.String()).Msg("rules failed")
		return
	}

	if r.ArmLaunch {
		s.armed = true
	}
	if r.BasicLaunch {
		s.basic = true
	}
	if r.Start && !s.started {
		s.started = true
	}
	if !entered {
		return
	}

	if r.Disarm {
		s.armed = false
		s.basic = false
	}
	if r.Points != 0 {
		s.score += r.Points
	}
	if r.Impulse.X != 0 || r.Impulse.Y != 0 {
		s.els.Ball.ApplyImpulse(r.Impulse)
	}
	if r.Kicker != "" {
		s.hits = append(s.hits, Hit{Body: ev.Self, Kind: HitKicker})
	}
	if r.Flash {
		s.hits = append(s.hits, Hit{Body: ev.Self, Kind: HitBumper})
	}
	if r.Cue != "" {
		s.sounds.Play(Cue(r.Cue))
	}
	if r.Drain && !s.draining {
		s.startDrain()
	}
}

func (s *Session) handleFlippers(cmds Commands) {
	sides := []struct {
		side     physics.Side
		pressed  bool
		released bool
	}{
		{side: physics.SideLeft, pressed: cmds.LeftPressed, released: cmds.LeftReleased},
		{side: physics.SideRight, pressed: cmds.RightPressed, released: cmds.RightReleased},
	}
	for _, sd := range sides {
		f := s.els.Flipper(sd.side)
		if sd.pressed {
			f.SetFireState(true)
			s.sounds.Play(CueFlipper)
			s.moveCharacter(sd.side)
		} else if sd.released {
			f.SetFireState(false)
		}
	}
}

func (s *Session) moveCharacter(side physics.Side) {
	slot, ok := s.els.CharacterSlots[side]
	if !ok || s.character == nil {
		return
	}
	x, y := s.character.Position()
	if x == slot.X && y == slot.Y {
		return
	}
	s.character.SetTransform(slot.X, slot.Y, 0)
}

func (s *Session) handlePlunger(cmds Commands) {
	if !s.armed {
		return
	}
	if s.basic {
		if cmds.PlungerReleased {
			s.els.Ball.ApplyImpulse(BasicLaunchImpulse)
			s.sounds.Play(CueLaunch)
			s.armed = false
			s.basic = false
		}
		return
	}

	p := s.els.Plunger
	if p == nil {
		return
	}
	if cmds.PlungerPressed {
		s.sounds.Play(CueCharge)
	}
	if cmds.PlungerHeld {
		p.SetCharging(true)
	} else if cmds.PlungerReleased {
		p.SetCharging(false)
		s.sounds.Play(CueRelease)
		s.armed = false
	}
}

func (s *Session) releaseActuators() {
	for _, f := range s.els.Flippers {
		f.SetFireState(false)
	}
	s.els.Plunger.SetCharging(false)
}

func (s *Session) step(dt float64) {
	s.els.Plunger.Update()
	s.world.Step()
	s.touched, s.touching = s.touching, s.touched
	clear(s.touching)

	if s.started && !s.gateUp {
		s.setGates(true)
	}
	if s.draining {
		s.drainFor -= dt
		if s.drainFor <= 0 {
			s.loseBall()
		}
	}

	extra := s.tuning().ExtraLifeScore
	if extra > 0 && !s.extraLifeAwarded && s.score >= extra {
		s.extraLifeAwarded = true
		s.lives++
		s.banner = extraLifeBanner
		s.sounds.Play(CueExtraLife)
		log.Info().Str("component", "gameplay").Int("score", s.score).Int("lives", s.lives).Msg("extra life")
	}
	if s.banner > 0 {
		s.banner -= dt
	}
}

func (s *Session) idle(dt float64) {
	s.els.Plunger.Update()
	s.world.Step()
	if s.banner > 0 {
		s.banner -= dt
	}
}

func (s *Session) startDrain() {
	s.draining = true
	s.drainFor = 0
	if s.lives > 1 {
		s.drainFor = s.tuning().DrainDelay
	}
	s.sounds.Play(CueDrain)
	log.Debug().Str("component", "gameplay").Int("lives", s.lives).Msg("ball drained")
}

func (s *Session) loseBall() {
	s.draining = false
	s.lives--
	s.resetBall()
	log.Info().Str("component", "gameplay").Int("lives", s.lives).Int("score", s.score).Msg("ball lost")
}

func (s *Session) resetBall() {
	ball := s.els.Ball
	spawn := s.els.Table.Ball
	ball.SetTransform(spawn.X, spawn.Y, 0)
	ball.ResetMotion()
	s.started = false
	s.armed = false
	s.basic = false
	s.setGates(false)
}

func (s *Session) setGates(up bool) {
	for _, g := range s.els.Gates {
		g.SetEnabled(up)
	}
	s.gateUp = up
}

// State returns the active game state.
func (s *Session) State() GameState { return s.state }

// Score returns the score of the running game.
func (s *Session) Score() int { return s.score }

// Best returns the best score seen since start-up.
func (s *Session) Best() int { return s.best }

// Lives returns the balls left.
func (s *Session) Lives() int { return s.lives }

// Armed reports whether a launch is ready and whether it is a basic one.
func (s *Session) Armed() (armed, basic bool) { return s.armed, s.basic }

// GateUp reports whether the start-gate blocker is solid.
func (s *Session) GateUp() bool { return s.gateUp }

// Draining reports whether a lost ball is waiting to be reset.
func (s *Session) Draining() bool { return s.draining }

// Banner reports whether the extra life banner is showing.
func (s *Session) Banner() bool { return s.banner > 0 }

// Elements returns the table the session plays on.
func (s *Session) Elements() *table.Elements { return s.els }

// Hits returns and clears the visual events collected since the last call.
func (s *Session) Hits() []Hit {
	hits := s.hits
	s.hits = nil
	return hits
}
