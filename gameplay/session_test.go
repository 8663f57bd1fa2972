package gameplay

import (
	"testing"

	"github.com/milk9111/pinball/physics"
	"github.com/milk9111/pinball/rules"
	"github.com/milk9111/pinball/table"
)

const frame = 1.0 / 60.0

type cueRecorder struct {
	cues []Cue
}

func (r *cueRecorder) Play(cue Cue) {
	r.cues = append(r.cues, cue)
}

func (r *cueRecorder) count(cue Cue) int {
	n := 0
	for _, c := range r.cues {
		if c == cue {
			n++
		}
	}
	return n
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *cueRecorder) {
	t.Helper()
	tbl, err := table.LoadTable("ruby")
	if err != nil {
		t.Fatalf("load table: %v", err)
	}
	w := physics.NewWorld(physics.WithTableSize(tbl.Width, tbl.Height))
	if err := w.Start(tbl.GravityY); err != nil {
		t.Fatalf("start world: %v", err)
	}
	t.Cleanup(w.Destroy)
	els, err := table.Build(w, tbl)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	engine, err := rules.Load("ruby")
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	rec := &cueRecorder{}
	s := NewSession(w, els, engine, append([]Option{WithSounds(rec)}, opts...)...)
	return s, rec
}

func element(t *testing.T, s *Session, name string) *physics.Body {
	t.Helper()
	el, ok := s.Elements().Find(name)
	if !ok {
		t.Fatalf("element %q not found", name)
	}
	return el.Body
}

func run(s *Session, frames int, cmds Commands) {
	for i := 0; i < frames; i++ {
		s.Update(cmds, frame)
	}
}

func TestNewSession(t *testing.T) {
	s, _ := newTestSession(t)
	if s.State() != StateInGame {
		t.Fatalf("expected in_game, got %s", s.State().Name())
	}
	if s.Lives() != 3 || s.Score() != 0 {
		t.Fatalf("expected 3 lives and no score, got %d/%d", s.Lives(), s.Score())
	}
	if s.GateUp() {
		t.Fatalf("expected gate down at start")
	}
}

func TestScoreZoneAwardsOncePerEntry(t *testing.T) {
	s, rec := newTestSession(t)
	ball := s.Elements().Ball
	ball.SetTransform(275, 210, 0)

	run(s, 5, Commands{})
	if s.Score() != 100 {
		t.Fatalf("expected 100 after one entry, got %d", s.Score())
	}
	if rec.count(CuePoints) != 1 {
		t.Fatalf("expected one points cue, got %d", rec.count(CuePoints))
	}

	ball.SetTransform(100, 100, 0)
	ball.ResetMotion()
	run(s, 2, Commands{})
	ball.SetTransform(275, 210, 0)
	ball.ResetMotion()
	run(s, 2, Commands{})
	if s.Score() != 200 {
		t.Fatalf("expected 200 after re-entry, got %d", s.Score())
	}
}

func TestStartGateRaisesBlocker(t *testing.T) {
	s, _ := newTestSession(t)
	s.Elements().Ball.SetTransform(360, 200, 0)
	run(s, 2, Commands{})
	if !s.GateUp() {
		t.Fatalf("expected gate up after passing the start gate")
	}
	for _, g := range s.Elements().Gates {
		if !g.Enabled() {
			t.Fatalf("expected gate chain enabled")
		}
	}
}

func TestKickerImpulse(t *testing.T) {
	s, rec := newTestSession(t)
	ball := s.Elements().Ball
	ball.ResetMotion()
	kicker := element(t, s, "left_kicker")

	s.OnCollision(physics.CollisionEvent{Self: kicker, Other: ball, Tag: physics.TagLeftKicker, Kind: physics.ContactBegin})
	v := ball.Velocity()
	if v.X <= 0 || v.Y >= 0 {
		t.Fatalf("expected up-right velocity after left kick, got %v", v)
	}
	if rec.count(CueKicker) != 1 {
		t.Fatalf("expected kicker cue")
	}
	hits := s.Hits()
	if len(hits) != 1 || hits[0].Kind != HitKicker || hits[0].Body != kicker {
		t.Fatalf("unexpected hits %+v", hits)
	}
	if len(s.Hits()) != 0 {
		t.Fatalf("expected hits to be cleared")
	}
}

func TestExtraLifeOnce(t *testing.T) {
	s, rec := newTestSession(t)
	zone := element(t, s, "score_left")
	ball := s.Elements().Ball

	for i := 0; i < 3; i++ {
		s.OnCollision(physics.CollisionEvent{Self: zone, Other: ball, Tag: physics.TagScore, Kind: physics.ContactBegin})
		run(s, 1, Commands{})
	}
	if s.Score() != 300 {
		t.Fatalf("expected 300, got %d", s.Score())
	}
	if s.Lives() != 4 {
		t.Fatalf("expected one extra life, got %d lives", s.Lives())
	}
	if rec.count(CueExtraLife) != 1 {
		t.Fatalf("expected one extra life cue, got %d", rec.count(CueExtraLife))
	}
	if !s.Banner() {
		t.Fatalf("expected extra life banner")
	}
}

func TestBasicLaunch(t *testing.T) {
	s, rec := newTestSession(t)
	ball := s.Elements().Ball
	character := element(t, s, "character")

	s.OnCollision(physics.CollisionEvent{Self: character, Other: ball, Tag: physics.TagCharacter, Kind: physics.SensorOverlap, SelfIsSensor: true})
	if armed, basic := s.Armed(); !armed || !basic {
		t.Fatalf("expected basic launch armed, got %v/%v", armed, basic)
	}
	ball.ResetMotion()
	s.Update(Commands{PlungerReleased: true}, frame)
	if v := ball.Velocity(); v.Y >= 0 {
		t.Fatalf("expected upward launch, got %v", v)
	}
	if armed, _ := s.Armed(); armed {
		t.Fatalf("expected launch to disarm")
	}
	if rec.count(CueLaunch) != 1 {
		t.Fatalf("expected launch cue")
	}
}

func TestSpringLaunchDrivesPlunger(t *testing.T) {
	s, rec := newTestSession(t)
	run(s, 400, Commands{})
	if armed, basic := s.Armed(); !armed || basic {
		t.Fatalf("expected spring launch armed once the ball rests on the plunger, got %v/%v", armed, basic)
	}

	s.Update(Commands{PlungerPressed: true, PlungerHeld: true}, frame)
	run(s, 30, Commands{PlungerHeld: true})
	p := s.Elements().Plunger
	if p.State() != physics.PlungerCharging {
		t.Fatalf("expected charging, got %v", p.State())
	}
	s.Update(Commands{PlungerReleased: true}, frame)
	if p.State() != physics.PlungerFiring {
		t.Fatalf("expected firing, got %v", p.State())
	}
	if rec.count(CueCharge) != 1 || rec.count(CueRelease) != 1 {
		t.Fatalf("expected charge and release cues, got %v", rec.cues)
	}
}

func TestFlippersMoveCharacter(t *testing.T) {
	s, rec := newTestSession(t)
	character := element(t, s, "character")

	s.Update(Commands{LeftPressed: true, LeftFlipper: true}, frame)
	if !s.Elements().Flipper(physics.SideLeft).Fired() {
		t.Fatalf("expected left flipper fired")
	}
	if x, y := character.Position(); x != 66 || y != 775 {
		t.Fatalf("expected character on the left slot, got %d,%d", x, y)
	}
	s.Update(Commands{LeftReleased: true}, frame)
	if s.Elements().Flipper(physics.SideLeft).Fired() {
		t.Fatalf("expected left flipper at rest")
	}

	s.Update(Commands{RightPressed: true, RightFlipper: true}, frame)
	if x, y := character.Position(); x != 415 || y != 775 {
		t.Fatalf("expected character on the right slot, got %d,%d", x, y)
	}
	if rec.count(CueFlipper) != 2 {
		t.Fatalf("expected two flipper cues, got %d", rec.count(CueFlipper))
	}
}

func TestDrainLosesBall(t *testing.T) {
	s, rec := newTestSession(t)
	ball := s.Elements().Ball
	s.started = true
	run(s, 1, Commands{})
	if !s.GateUp() {
		t.Fatalf("expected gate up")
	}

	ball.SetTransform(242, 850, 0)
	run(s, 2, Commands{})
	if !s.Draining() {
		t.Fatalf("expected drain to start")
	}
	run(s, 120, Commands{})
	if s.Draining() {
		t.Fatalf("expected drain delay to finish")
	}
	if s.Lives() != 2 {
		t.Fatalf("expected 2 lives, got %d", s.Lives())
	}
	if s.GateUp() {
		t.Fatalf("expected gate lowered after losing a ball")
	}
	if rec.count(CueDrain) != 1 {
		t.Fatalf("expected one drain cue, got %d", rec.count(CueDrain))
	}
	if _, y := ball.Position(); y > 740 {
		t.Fatalf("expected ball back near spawn, got y=%d", y)
	}
}

func TestLastBallWithoutRecordIsDead(t *testing.T) {
	s, rec := newTestSession(t, WithBestScore(500))
	s.lives = 1
	s.score = 200
	s.extraLifeAwarded = true
	s.Elements().Ball.SetTransform(242, 850, 0)
	run(s, 2, Commands{})

	if s.State() != StateDead {
		t.Fatalf("expected dead, got %s", s.State().Name())
	}
	if rec.count(CueGameOver) != 1 {
		t.Fatalf("expected game over cue")
	}

	s.Update(Commands{Continue: true}, frame)
	if s.State() != StateScoreTally {
		t.Fatalf("expected score tally, got %s", s.State().Name())
	}
	s.Update(Commands{}, frame)
	if s.State() != StateInGame {
		t.Fatalf("expected in_game, got %s", s.State().Name())
	}
	if s.Best() != 500 || s.Score() != 0 || s.Lives() != 3 {
		t.Fatalf("unexpected tally best=%d score=%d lives=%d", s.Best(), s.Score(), s.Lives())
	}
}

func TestLastBallWithRecordWins(t *testing.T) {
	s, rec := newTestSession(t)
	s.lives = 1
	s.score = 300
	s.extraLifeAwarded = true
	s.Elements().Ball.SetTransform(242, 850, 0)
	run(s, 2, Commands{})

	if s.State() != StateWin {
		t.Fatalf("expected win, got %s", s.State().Name())
	}
	if rec.count(CueWin) != 1 {
		t.Fatalf("expected win cue")
	}
	run(s, 1, Commands{Continue: true})
	run(s, 1, Commands{})
	if s.Best() != 300 || s.Score() != 0 {
		t.Fatalf("expected best 300 and a fresh score, got %d/%d", s.Best(), s.Score())
	}
}

func TestCollisionsIgnoredOutsideInGame(t *testing.T) {
	s, _ := newTestSession(t)
	s.state = StateDead
	zone := element(t, s, "score_left")
	s.OnCollision(physics.CollisionEvent{Self: zone, Other: s.Elements().Ball, Tag: physics.TagScore, Kind: physics.ContactBegin})
	if s.Score() != 0 {
		t.Fatalf("expected no score while dead, got %d", s.Score())
	}
}
