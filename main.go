package main

import (
	"flag"
	"math"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/pinball/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configDir := flag.String("config", ".", "directory holding pinball.yaml")
	debug := flag.Bool("debug", false, "start with the physics overlay on")
	tableName := flag.String("table", "", "table name in table/ (basename, .yaml optional)")
	watch := flag.Bool("watch", false, "hot reload table tuning and rules scripts from disk")
	logLevel := flag.String("log", "", "log level: trace, debug, info, warn, error")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		setupLogging("info")
		log.Fatal().Err(err).Msg("load config")
	}
	if *debug {
		config.Set("debug", true)
	}
	if *tableName != "" {
		config.Set("table.name", *tableName)
	}
	if *watch {
		config.Set("table.watch", true)
	}
	if *logLevel != "" {
		config.Set("log.level", *logLevel)
	}

	settings := config.Current()
	setupLogging(settings.LogLevel)

	game, err := NewGame(settings)
	if err != nil {
		log.Fatal().Err(err).Str("table", settings.Table).Msg("start game")
	}
	defer game.Close()

	scale := settings.WindowScale
	if scale <= 0 {
		scale = 1
	}
	t := game.elements.Table
	ebiten.SetWindowSize(int(float64(t.Width)*scale), int(float64(t.Height)*scale))
	ebiten.SetWindowTitle(settings.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(math.Round(1 / game.world.TimeStep())))

	if err := ebiten.RunGame(game); err != nil {
		log.Error().Err(err).Msg("game exited")
	}
}

func setupLogging(level string) {
	var lvl zerolog.Level
	switch strings.ToUpper(level) {
	case "TRACE":
		lvl = zerolog.TraceLevel
	case "DEBUG":
		lvl = zerolog.DebugLevel
	case "WARN":
		lvl = zerolog.WarnLevel
	case "ERROR":
		lvl = zerolog.ErrorLevel
	default:
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	log.Info().Str("loglevel", lvl.String()).Msg("logging set up")
}
