package main

import (
	"fmt"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/pinball/audio"
	"github.com/milk9111/pinball/config"
	"github.com/milk9111/pinball/gameplay"
	"github.com/milk9111/pinball/input"
	"github.com/milk9111/pinball/physics"
	"github.com/milk9111/pinball/render"
	"github.com/milk9111/pinball/rules"
	"github.com/milk9111/pinball/table"
	"github.com/rs/zerolog/log"
)

type Game struct {
	settings config.Settings

	world    *physics.World
	elements *table.Elements
	rules    *rules.Engine
	session  *gameplay.Session
	sounds   *audio.Bank
	input    *input.Poller
	renderer *render.Renderer
	watcher  *table.Watcher
}

// NewGame loads the configured table and its rules script and builds the
// world they describe.
func NewGame(settings config.Settings) (*Game, error) {
	spec, err := table.LoadTable(settings.Table)
	if err != nil {
		return nil, err
	}

	world := physics.NewWorld(physics.WithTableSize(spec.Width, spec.Height))
	if err := world.Start(spec.GravityY); err != nil {
		return nil, fmt.Errorf("start world: %w", err)
	}

	els, err := table.Build(world, spec)
	if err != nil {
		world.Destroy()
		return nil, err
	}

	engine, err := rules.Load(spec.Name)
	if err != nil {
		world.Destroy()
		return nil, err
	}

	sounds := audio.NewBank(settings.AudioVolume, settings.AudioEnabled)
	session := gameplay.NewSession(world, els, engine, gameplay.WithSounds(sounds))

	g := &Game{
		settings: settings,
		world:    world,
		elements: els,
		rules:    engine,
		session:  session,
		sounds:   sounds,
		input:    input.NewPoller(input.DefaultKeys, 1),
		renderer: render.New(world, els),
	}
	g.renderer.SetDebug(settings.Debug)

	if settings.WatchTable {
		w, err := table.NewWatcher("table", filepath.Join("rules", "scripts"))
		if err != nil {
			log.Warn().Err(err).Str("component", "game").Msg("hot reload disabled")
		} else {
			g.watcher = w
		}
	}

	return g, nil
}

func (g *Game) Update() error {
	g.reload()

	cmds := g.input.Poll()
	if cmds.ToggleDebug {
		g.renderer.ToggleDebug()
	}
	if g.renderer.Debug() {
		g.drag(cmds)
	}

	dt := g.world.TimeStep()
	g.session.Update(cmds, dt)
	g.renderer.Update(g.session, dt)
	return nil
}

func (g *Game) drag(cmds gameplay.Commands) {
	switch {
	case cmds.DragStart:
		g.world.StartDrag(cmds.CursorX, cmds.CursorY)
	case cmds.DragEnd:
		g.world.StopDrag()
	case cmds.DragHeld:
		g.world.MoveDrag(cmds.CursorX, cmds.CursorY)
	}
}

// reload applies edits picked up by the watcher. Table edits only retune
// actuators; geometry changes need a restart.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok && err != nil {
			log.Error().Err(err).Str("component", "game").Msg("watch error")
		}
	default:
	}

	for _, path := range g.watcher.Drain() {
		switch {
		case table.IsTableFile(path):
			if table.FileName(filepath.Base(path)) != table.FileName(g.settings.Table) {
				continue
			}
			spec, err := table.LoadTable(g.settings.Table)
			if err != nil {
				log.Error().Err(err).Str("component", "game").Str("path", path).Msg("table reload failed")
				continue
			}
			g.elements.ApplyTuning(spec.Tuning)
			log.Info().Str("component", "game").Str("path", path).Msg("tuning reloaded")
		case table.IsScriptFile(path):
			if err := g.rules.Reload(); err != nil {
				log.Error().Err(err).Str("component", "game").Str("path", path).Msg("rules reload failed")
			}
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.session)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	t := g.elements.Table
	return float64(t.Width), float64(t.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close releases the watcher, the sound players and the world.
func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Error().Err(err).Str("component", "game").Msg("close watcher")
		}
	}
	g.sounds.Close()
	g.world.Destroy()
	log.Info().Str("component", "game").Int("best", g.session.Best()).Msg("shutdown")
}
