// Command tablecheck loads a table and its rules script, builds them in a
// headless world and plays a scripted session to catch broken layouts.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/milk9111/pinball/gameplay"
	"github.com/milk9111/pinball/physics"
	"github.com/milk9111/pinball/rules"
	"github.com/milk9111/pinball/table"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type cueCounter map[gameplay.Cue]int

func (c cueCounter) Play(cue gameplay.Cue) { c[cue]++ }

// report summarizes one scripted session.
type report struct {
	Table    string
	Bodies   int
	Joints   int
	Steps    int
	Score    int
	Lives    int
	State    string
	BallX    int
	BallY    int
	Cues     cueCounter
	Launches int
}

func (r report) write(w io.Writer) {
	fmt.Fprintf(w, "table %s: %d bodies, %d joints\n", r.Table, r.Bodies, r.Joints)
	fmt.Fprintf(w, "after %d steps: state %s, score %d, lives %d, ball at (%d, %d), %d launches\n",
		r.Steps, r.State, r.Score, r.Lives, r.BallX, r.BallY, r.Launches)
	names := make([]string, 0, len(r.Cues))
	for cue := range r.Cues {
		names = append(names, string(cue))
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %d\n", name, r.Cues[gameplay.Cue(name)])
	}
}

// autoplay holds the plunger for charge steps whenever a launch is armed
// and flips both flippers every flipEvery steps.
type autoplay struct {
	charge    int
	flipEvery int

	held     int
	launches int
}

func (a *autoplay) next(s *gameplay.Session, step int) gameplay.Commands {
	var cmds gameplay.Commands

	if s.State() != gameplay.StateInGame {
		cmds.Continue = true
		return cmds
	}

	if armed, _ := s.Armed(); armed || a.held > 0 {
		switch {
		case a.held == 0:
			cmds.PlungerPressed, cmds.PlungerHeld = true, true
			a.held++
		case a.held < a.charge:
			cmds.PlungerHeld = true
			a.held++
		default:
			cmds.PlungerReleased = true
			a.held = 0
			a.launches++
		}
	}

	if a.flipEvery > 0 {
		phase := step % a.flipEvery
		switch {
		case phase == 0:
			cmds.LeftPressed, cmds.RightPressed = true, true
			cmds.LeftFlipper, cmds.RightFlipper = true, true
		case phase < a.flipEvery/4:
			cmds.LeftFlipper, cmds.RightFlipper = true, true
		case phase == a.flipEvery/4:
			cmds.LeftReleased, cmds.RightReleased = true, true
		}
	}
	return cmds
}

func run(name string, steps int, flipEvery int) (report, error) {
	spec, err := table.LoadTable(name)
	if err != nil {
		return report{}, err
	}

	world := physics.NewWorld(physics.WithTableSize(spec.Width, spec.Height))
	if err := world.Start(spec.GravityY); err != nil {
		return report{}, err
	}
	defer world.Destroy()

	els, err := table.Build(world, spec)
	if err != nil {
		return report{}, err
	}
	engine, err := rules.Load(spec.Name)
	if err != nil {
		return report{}, err
	}

	cues := cueCounter{}
	session := gameplay.NewSession(world, els, engine, gameplay.WithSounds(cues))
	play := &autoplay{charge: 45, flipEvery: flipEvery}

	dt := world.TimeStep()
	for i := 0; i < steps; i++ {
		session.Update(play.next(session, i), dt)
	}

	bx, by := els.Ball.Position()
	return report{
		Table:    spec.Name,
		Bodies:   world.BodyCount(),
		Joints:   world.JointCount(),
		Steps:    steps,
		Score:    session.Score(),
		Lives:    session.Lives(),
		State:    session.State().Name(),
		BallX:    bx,
		BallY:    by,
		Cues:     cues,
		Launches: play.launches,
	}, nil
}

func main() {
	name := flag.String("table", "ruby", "table name in table/ (basename, .yaml optional)")
	steps := flag.Int("steps", 3600, "simulation steps to run")
	flipEvery := flag.Int("flip", 40, "steps between automatic flipper strokes, 0 to never flip")
	verbose := flag.Bool("v", false, "log debug output")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	r, err := run(*name, *steps, *flipEvery)
	if err != nil {
		log.Fatal().Err(err).Str("table", *name).Msg("table check failed")
	}
	r.write(os.Stdout)
}
